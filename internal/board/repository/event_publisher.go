package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"message_board_service/internal/board/domain"
	"message_board_service/pkg/database"

	"github.com/segmentio/kafka-go"
	"github.com/streadway/amqp"
)

// EventPublisher 訊息異動的下游通知 (best-effort)
type EventPublisher interface {
	Publish(ctx context.Context, event domain.MessageEvent) error
	Close() error
}

type nopEventPublisher struct{}

// NewNopEventPublisher events.driver=none
func NewNopEventPublisher() EventPublisher {
	return nopEventPublisher{}
}

func (nopEventPublisher) Publish(context.Context, domain.MessageEvent) error { return nil }
func (nopEventPublisher) Close() error                                         { return nil }

// KafkaWriter *kafka.Writer 的最小介面, 方便測試替換
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaEventPublisher struct {
	writer KafkaWriter
}

// NewKafkaEventPublisher key 為 room_id, 同一 room 的事件進同一個 partition
func NewKafkaEventPublisher(writer KafkaWriter) EventPublisher {
	return &kafkaEventPublisher{writer: writer}
}

func (p *kafkaEventPublisher) Publish(ctx context.Context, event domain.MessageEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.RoomID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	})
}

func (p *kafkaEventPublisher) Close() error {
	return p.writer.Close()
}

type rabbitEventPublisher struct {
	rabbit   database.RabbitRepo
	exchange string
}

// NewRabbitEventPublisher 宣告 topic exchange, routing key 為事件類型
func NewRabbitEventPublisher(rabbit database.RabbitRepo, exchange string) (EventPublisher, error) {
	if err := rabbit.ExchangeDeclare(exchange, amqp.ExchangeTopic); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &rabbitEventPublisher{rabbit: rabbit, exchange: exchange}, nil
}

func (p *rabbitEventPublisher) Publish(ctx context.Context, event domain.MessageEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.rabbit.Publish(p.exchange, string(event.Type), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.MsgID,
		Timestamp:    time.UnixMilli(event.OccurredAt),
		Body:         data,
	})
}

func (p *rabbitEventPublisher) Close() error {
	return p.rabbit.Close()
}
