package main

import (
	"context"
	"fmt"
	"time"

	"message_board_service/internal/board/domain"
	"message_board_service/internal/board/repository"
	"message_board_service/pkg/config"
	"message_board_service/pkg/database"
)

func retryInterval(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

// openStore 依 store.driver 建立 MessageRepository
func openStore(ctx context.Context, cfg config.Board) (repository.MessageRepository, error) {
	page := domain.PageLimits{Default: cfg.Page.DefaultLimit, Max: cfg.Page.MaxLimit}
	s := cfg.Store

	var (
		repo repository.MessageRepository
		err  error
	)
	switch s.Driver {
	case config.DriverMongo:
		var mongo *database.MongoDB
		mongo, err = database.NewMongoDB(ctx, database.Connection{
			ConnectStr:    s.Mongo.URI("mongodb"),
			RetryCount:    s.Mongo.RetryCount,
			RetryInterval: retryInterval(s.Mongo.RetryInterval),
		}, s.Mongo.Database)
		if err != nil {
			return nil, err
		}
		repo, err = repository.NewMongoMessageRepository(ctx, mongo, s.Table, page)
		if err != nil {
			_ = mongo.Close(ctx)
		}

	case config.DriverRedis:
		client, cerr := database.NewRedisClient(ctx, database.RedisConnection{
			Addr:          s.Redis.Addr,
			MasterName:    s.Redis.MasterName,
			SentinelAddrs: s.Redis.SentinelAddrs,
			Password:      s.Redis.Password,
			DB:            s.Redis.RedisDB,
			RetryCount:    s.Redis.RetryCount,
			RetryInterval: retryInterval(s.Redis.RetryInterval),
		})
		if cerr != nil {
			return nil, cerr
		}
		repo = repository.NewRedisMessageRepository(client, s.Table, page)

	case config.DriverPostgres:
		pool, cerr := database.NewDatabaseConnection(ctx, database.Connection{
			ConnectStr:    s.Postgres.URI("postgres"),
			RetryCount:    s.Postgres.RetryCount,
			RetryInterval: retryInterval(s.Postgres.RetryInterval),
		})
		if cerr != nil {
			return nil, cerr
		}
		repo, err = repository.NewPostgresMessageRepository(ctx, pool, s.Table, page)
		if err != nil {
			pool.Close()
		}

	case config.DriverSQLite:
		db, cerr := database.NewSQLite(s.SQLite.Path)
		if cerr != nil {
			return nil, cerr
		}
		repo, err = repository.NewSQLiteMessageRepository(ctx, db, s.Table, page)
		if err != nil {
			db.Close()
		}

	case config.DriverMemory:
		repo = repository.NewMemoryMessageRepository(page)

	default:
		return nil, fmt.Errorf("unknown store driver %q", s.Driver)
	}
	if err != nil {
		return nil, err
	}
	return repository.WithMetrics(s.Driver, repo), nil
}

// openPublisher 依 events.driver 建立 EventPublisher
func openPublisher(ctx context.Context, cfg config.EventsConfig) (repository.EventPublisher, error) {
	switch cfg.Driver {
	case config.EventsNone, "":
		return repository.NewNopEventPublisher(), nil

	case config.EventsKafka:
		writer, err := database.NewKafkaWriterWithRetry(ctx, database.KafkaConnection{
			Brokers:       cfg.Kafka.Brokers,
			Topic:         cfg.Kafka.Topic,
			RetryCount:    cfg.Kafka.RetryCount,
			RetryInterval: retryInterval(cfg.Kafka.RetryInterval),
		})
		if err != nil {
			return nil, err
		}
		return repository.NewKafkaEventPublisher(writer), nil

	case config.EventsRabbitMQ:
		conn, err := database.ConnectRabbitMQWithRetry(database.Connection{
			ConnectStr:    cfg.RabbitMQ.URI("amqp") + "/",
			RetryCount:    cfg.RabbitMQ.RetryCount,
			RetryInterval: retryInterval(cfg.RabbitMQ.RetryInterval),
		})
		if err != nil {
			return nil, err
		}
		ch, err := database.GetRabbitMQChannelWithRetry(conn, cfg.RabbitMQ.RetryCount, retryInterval(cfg.RabbitMQ.RetryInterval))
		if err != nil {
			conn.Close()
			return nil, err
		}
		publisher, err := repository.NewRabbitEventPublisher(database.NewRabbitRepository(conn, ch), cfg.Exchange)
		if err != nil {
			conn.Close()
			return nil, err
		}
		return publisher, nil

	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}
