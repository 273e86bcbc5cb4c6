package database

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// kafka-go 預設 1s 才送出未滿的 batch, 事件通知一次只有一筆
const kafkaBatchTimeout = 10 * time.Millisecond

// NewKafkaWriterWithRetry 確認 broker 可連線後建立 Kafka Writer
func NewKafkaWriterWithRetry(ctx context.Context, k KafkaConnection) (*kafka.Writer, error) {
	if len(k.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers is empty")
	}

	err := withRetry("Kafka", k.RetryCount, k.RetryInterval, func() error {
		conn, err := kafka.DialContext(ctx, "tcp", k.Brokers[0])
		if err != nil {
			return err
		}
		defer conn.Close()

		_, err = conn.Brokers()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("無法建立 Kafka Writer, 經過 %d 次嘗試: %w", k.RetryCount, err)
	}

	return &kafka.Writer{
		Addr:                   kafka.TCP(k.Brokers...),
		Topic:                  k.Topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           kafkaBatchTimeout,
		AllowAutoTopicCreation: true,
	}, nil
}
