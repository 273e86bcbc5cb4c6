package database

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient init redis connection, 設定 MasterName 時使用 Sentinel
func NewRedisClient(ctx context.Context, r RedisConnection) (*redis.Client, error) {
	var rdb *redis.Client
	if r.MasterName != "" {
		rdb = redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:    r.MasterName,    // 哨兵主节点名称
			SentinelAddrs: r.SentinelAddrs, // 哨兵地址列表
			Password:      r.Password,
			DB:            r.DB,
		})
	} else {
		rdb = redis.NewClient(&redis.Options{
			Addr:     r.Addr,
			Password: r.Password,
			DB:       r.DB,
		})
	}

	// 测试连接
	err := withRetry("Redis", r.RetryCount, r.RetryInterval, func() error {
		return rdb.Ping(ctx).Err()
	})
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return rdb, nil
}
