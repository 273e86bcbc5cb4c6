package database

import (
	"time"

	"message_board_service/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Connection definition sql setting
type Connection struct {
	ConnectStr string

	RetryCount    int
	RetryInterval time.Duration
}

// MongoDB definition mongo db
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// KafkaConnection definition kafka
type KafkaConnection struct {
	Brokers       []string
	Topic         string
	RetryCount    int
	RetryInterval time.Duration
}

// RedisConnection definition redis, MasterName 不為空時走 sentinel
type RedisConnection struct {
	Addr          string
	MasterName    string
	SentinelAddrs []string
	Password      string
	DB            int

	RetryCount    int
	RetryInterval time.Duration
}

// withRetry 執行 fn 直到成功或用完次數, 至少執行一次
func withRetry(name string, count int, interval time.Duration, fn func() error) error {
	if count < 1 {
		count = 1
	}

	var err error
	for attempt := 1; attempt <= count; attempt++ {
		if err = fn(); err == nil {
			logger.Log.Info(name+" 連線成功", zap.Int("attempt", attempt))
			return nil
		}

		logger.Log.Warn(name+" 連線失敗, retrying...",
			zap.Int("attempt", attempt),
			zap.Int("max", count),
			zap.Error(err),
		)
		if attempt < count {
			time.Sleep(interval)
		}
	}
	return err
}
