package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// NewDatabaseConnection create a new postgresSQL connection
func NewDatabaseConnection(ctx context.Context, d Connection) (*pgxpool.Pool, error) {
	dbConfig, err := pgxpool.ParseConfig(d.ConnectStr)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	var pool *pgxpool.Pool
	err = withRetry("PostgreSQL", d.RetryCount, d.RetryInterval, func() error {
		var err error
		pool, err = pgxpool.ConnectConfig(ctx, dbConfig)
		if err != nil {
			return err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgreSQL after retries: %w", err)
	}
	return pool, nil
}
