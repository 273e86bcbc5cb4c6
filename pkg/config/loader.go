package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvInfo 服務名稱與路徑 from .env
type EnvInfo struct {
	Env string

	// image name, 同時也是 YAML 檔名
	BoardService string
	// service yaml path
	BoardServiceYAMLPath string
	// service log path
	BoardServiceLogPath string
}

// LoadEnv 讀取 .env (若存在) 與環境變數
func LoadEnv() EnvInfo {
	if path, err := GetPath(".env", 5); err == nil {
		_ = godotenv.Load(path)
	}

	return EnvInfo{
		Env:                  os.Getenv("ENV"),
		BoardService:         getEnv("BOARD_SERVICE", "board_service"),
		BoardServiceYAMLPath: getEnv("BOARD_SERVICE_YAML", "./configs"),
		BoardServiceLogPath:  getEnv("BOARD_SERVICE_LOG", "./log"),
	}
}

// IsProduction check run env
func (e EnvInfo) IsProduction() bool {
	return e.Env == "production"
}

// IsLocal check run env
func (e EnvInfo) IsLocal() bool {
	return e.Env == "local"
}

// LoadConfig 加載配置. 找不到 YAML 時只使用預設值與環境變數
func LoadConfig[T any](serviceName string, configPath string, opts ...func(*viper.Viper)) (T, error) {
	var cfg T

	v := viper.New()
	v.SetConfigName(serviceName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	// 自動讀取環境變數, store.driver -> STORE_DRIVER
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, opt := range opts {
		opt(v)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	} else {
		rawConfig, err := os.ReadFile(v.ConfigFileUsed())
		if err != nil {
			return cfg, fmt.Errorf("read raw config: %w", err)
		}

		// 替換 ${} 占位符為環境變數的值
		expanded := os.ExpandEnv(string(rawConfig))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return cfg, fmt.Errorf("read expanded config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// WithBoardDefaults board_service 預設值與舊版環境變數名稱
func WithBoardDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("request_timeout", "5s")

	v.SetDefault("store.driver", DriverMongo)
	v.SetDefault("store.table", "talk_messages")
	v.SetDefault("store.region", "us-east-1")
	v.SetDefault("store.mongo.host", "localhost")
	v.SetDefault("store.mongo.port", 27017)
	v.SetDefault("store.mongo.database", "board")
	v.SetDefault("store.mongo.retry_count", 5)
	v.SetDefault("store.mongo.retry_interval", 2)
	v.SetDefault("store.pg.host", "localhost")
	v.SetDefault("store.pg.port", 5432)
	v.SetDefault("store.pg.database", "board")
	v.SetDefault("store.pg.retry_count", 5)
	v.SetDefault("store.pg.retry_interval", 2)
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.retry_count", 5)
	v.SetDefault("store.redis.retry_interval", 2)
	v.SetDefault("store.sqlite.path", "board.db")

	v.SetDefault("page.default_limit", 50)
	v.SetDefault("page.max_limit", 500)

	v.SetDefault("events.driver", EventsNone)
	v.SetDefault("events.exchange", "board.messages")
	v.SetDefault("events.kafka.topic", "board.messages")
	v.SetDefault("events.kafka.retry_count", 5)
	v.SetDefault("events.kafka.retry_interval", 2)
	v.SetDefault("events.rabbitmq.port", 5672)
	v.SetDefault("events.rabbitmq.retry_count", 5)
	v.SetDefault("events.rabbitmq.retry_interval", 2)

	v.SetDefault("grpc_health.service_port", "")
	v.SetDefault("grpc_health.service_name", "board.v1.MessageBoard")

	// 原服務使用的變數名稱
	_ = v.BindEnv("store.table", "STORE_TABLE", "DDB_TABLE")
	_ = v.BindEnv("store.region", "STORE_REGION", "AWS_REGION")
}

// LoadBoard load and validate board_service config
func LoadBoard(env EnvInfo) (Board, error) {
	cfg, err := LoadConfig[Board](env.BoardService, env.BoardServiceYAMLPath, WithBoardDefaults)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// GetPath use fileName loop maxCount find file path
func GetPath(fileName string, maxCount int) (string, error) {
	path := "./" + fileName

	for i := 0; i < maxCount; i++ {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		path = "../" + path
	}
	return "", errors.New(fileName + " can't find path")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
