package config

import (
	"fmt"
	"regexp"
	"time"
)

// Store drivers
const (
	DriverMongo    = "mongo"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Event drivers
const (
	EventsNone     = "none"
	EventsKafka    = "kafka"
	EventsRabbitMQ = "rabbitmq"
)

// table 名稱也接受舊版 DDB_TABLE 常見的 '-' 與 '.', SQL adapter 會加引號
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]{0,62}$`)

// Board definition board_service YAML structure
type Board struct {
	Port           string        `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	Store      StoreConfig   `mapstructure:"store"`
	Page       PageConfig    `mapstructure:"page"`
	Events     EventsConfig  `mapstructure:"events"`
	GRPCHealth ServiceConfig `mapstructure:"grpc_health"`
}

// StoreConfig definition message store setting
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	// Table 表名 / collection 名 / redis key 前綴
	Table  string `mapstructure:"table"`
	Region string `mapstructure:"region"`

	Mongo    DatabaseConfig `mapstructure:"mongo"`
	Postgres DatabaseConfig `mapstructure:"pg"`
	Redis    RedisConfig    `mapstructure:"redis"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
}

// PageConfig definition list page size
type PageConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
}

// EventsConfig definition change feed setting
type EventsConfig struct {
	Driver   string         `mapstructure:"driver"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	RabbitMQ DatabaseConfig `mapstructure:"rabbitmq"`
	Exchange string         `mapstructure:"exchange"`
}

// KafkaConfig definition kafka setting
type KafkaConfig struct {
	Brokers       []string `mapstructure:"brokers"`
	Topic         string   `mapstructure:"topic"`
	RetryInterval int      `mapstructure:"retry_interval"`
	RetryCount    int      `mapstructure:"retry_count"`
}

// ServiceConfig definition service port & name
type ServiceConfig struct {
	Port string `mapstructure:"service_port"`
	Name string `mapstructure:"service_name"`
}

// RedisConfig definition redis setting
type RedisConfig struct {
	Addr          string   `mapstructure:"addr"`
	MasterName    string   `mapstructure:"master_name"`
	SentinelAddrs []string `mapstructure:"sentinel_addrs"`
	Password      string   `mapstructure:"password"`
	RedisDB       int      `mapstructure:"redis_db"`
	RetryInterval int      `mapstructure:"retry_interval"`
	RetryCount    int      `mapstructure:"retry_count"`
}

// SQLiteConfig definition sqlite setting
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// DatabaseConfig definition db setting
type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}

// Validate check the loaded board config
func (b Board) Validate() error {
	switch b.Store.Driver {
	case DriverMongo, DriverRedis, DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", b.Store.Driver)
	}
	if !tableNamePattern.MatchString(b.Store.Table) {
		return fmt.Errorf("invalid store table %q", b.Store.Table)
	}
	if b.Page.DefaultLimit <= 0 || b.Page.MaxLimit <= 0 {
		return fmt.Errorf("page limits must be positive (default=%d max=%d)", b.Page.DefaultLimit, b.Page.MaxLimit)
	}
	if b.Page.DefaultLimit > b.Page.MaxLimit {
		return fmt.Errorf("page default_limit %d exceeds max_limit %d", b.Page.DefaultLimit, b.Page.MaxLimit)
	}
	switch b.Events.Driver {
	case EventsNone, "":
	case EventsKafka:
		if len(b.Events.Kafka.Brokers) == 0 || b.Events.Kafka.Topic == "" {
			return fmt.Errorf("kafka events need brokers and topic")
		}
	case EventsRabbitMQ:
		if b.Events.Exchange == "" {
			return fmt.Errorf("rabbitmq events need an exchange")
		}
	default:
		return fmt.Errorf("unknown events driver %q", b.Events.Driver)
	}
	if b.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	return nil
}

// URI build a connection string for the given scheme
func (d DatabaseConfig) URI(scheme string) string {
	auth := ""
	if d.User != "" {
		auth = fmt.Sprintf("%s:%s@", d.User, d.Password)
	}
	uri := fmt.Sprintf("%s://%s%s:%d", scheme, auth, d.Host, d.Port)
	if scheme == "postgres" && d.Database != "" {
		uri += "/" + d.Database
	}
	return uri
}
