package database

import (
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// RabbitRepo definition rabbit repo
type RabbitRepo interface {
	ExchangeDeclare(name, kind string) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type rabbitRepo struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewRabbitRepository create a RabbitRepository, Close 時一併關閉連線
func NewRabbitRepository(conn *amqp.Connection, ch *amqp.Channel) RabbitRepo {
	return &rabbitRepo{conn: conn, channel: ch}
}

// ConnectRabbitMQWithRetry 嘗試連線到 RabbitMQ
func ConnectRabbitMQWithRetry(d Connection) (*amqp.Connection, error) {
	var conn *amqp.Connection
	err := withRetry("RabbitMQ", d.RetryCount, d.RetryInterval, func() error {
		var err error
		conn, err = amqp.Dial(d.ConnectStr)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("無法連線 RabbitMQ, 經過 %d 次嘗試: %w", d.RetryCount, err)
	}
	return conn, nil
}

// GetRabbitMQChannelWithRetry 使用已有的 RabbitMQ 連線嘗試取得 Channel
func GetRabbitMQChannelWithRetry(conn *amqp.Connection, maxRetries int, delay time.Duration) (*amqp.Channel, error) {
	var ch *amqp.Channel
	err := withRetry("RabbitMQ Channel", maxRetries, delay, func() error {
		var err error
		ch, err = conn.Channel()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("無法取得 RabbitMQ Channel, 經過 %d 次嘗試: %w", maxRetries, err)
	}
	return ch, nil
}

func (r *rabbitRepo) ExchangeDeclare(name, kind string) error {
	return r.channel.ExchangeDeclare(name, kind, true, false, false, false, nil)
}

func (r *rabbitRepo) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return r.channel.Publish(exchange, key, mandatory, immediate, msg)
}

func (r *rabbitRepo) Close() error {
	chErr := r.channel.Close()
	if err := r.conn.Close(); err != nil {
		return err
	}
	return chErr
}
