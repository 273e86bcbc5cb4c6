package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"message_board_service/internal/board/domain"

	"github.com/segmentio/kafka-go"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockKafkaWriter struct {
	mock.Mock
}

func (m *mockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockKafkaWriter) Close() error {
	return m.Called().Error(0)
}

type mockRabbitRepo struct {
	mock.Mock
}

func (m *mockRabbitRepo) ExchangeDeclare(name, kind string) error {
	return m.Called(name, kind).Error(0)
}

func (m *mockRabbitRepo) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(exchange, key, mandatory, immediate, msg).Error(0)
}

func (m *mockRabbitRepo) Close() error {
	return m.Called().Error(0)
}

func TestKafkaEventPublisher_Publish(t *testing.T) {
	writer := new(mockKafkaWriter)
	publisher := NewKafkaEventPublisher(writer)

	msg := newMessage("general", "01HZ01", "hello")
	event := domain.NewCreatedEvent(msg, msg.CreatedAt)

	writer.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 || string(msgs[0].Key) != "general" {
			return false
		}
		var got domain.MessageEvent
		if err := json.Unmarshal(msgs[0].Value, &got); err != nil {
			return false
		}
		return got.Type == domain.EventMessageCreated && got.Message != nil && got.Message.Text == "hello"
	})).Return(nil).Once()
	writer.On("Close").Return(nil).Once()

	require.NoError(t, publisher.Publish(context.Background(), event))
	require.NoError(t, publisher.Close())
	writer.AssertExpectations(t)
}

func TestKafkaEventPublisher_WriteError(t *testing.T) {
	writer := new(mockKafkaWriter)
	publisher := NewKafkaEventPublisher(writer)

	boom := errors.New("broker down")
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(boom)

	err := publisher.Publish(context.Background(), domain.NewDeletedEvent("general", "01HZ01", 1))
	assert.ErrorIs(t, err, boom)
}

func TestRabbitEventPublisher(t *testing.T) {
	rabbit := new(mockRabbitRepo)
	rabbit.On("ExchangeDeclare", "board.messages", amqp.ExchangeTopic).Return(nil).Once()
	rabbit.On("Publish", "board.messages", "message.deleted", false, false, mock.MatchedBy(func(p amqp.Publishing) bool {
		return p.ContentType == "application/json" && p.MessageId == "01HZ01"
	})).Return(nil).Once()
	rabbit.On("Close").Return(nil).Once()

	publisher, err := NewRabbitEventPublisher(rabbit, "board.messages")
	require.NoError(t, err)

	require.NoError(t, publisher.Publish(context.Background(), domain.NewDeletedEvent("general", "01HZ01", 1700000000000)))
	require.NoError(t, publisher.Close())
	rabbit.AssertExpectations(t)
}

func TestRabbitEventPublisher_DeclareError(t *testing.T) {
	rabbit := new(mockRabbitRepo)
	rabbit.On("ExchangeDeclare", "board.messages", amqp.ExchangeTopic).Return(errors.New("no access"))

	_, err := NewRabbitEventPublisher(rabbit, "board.messages")
	assert.Error(t, err)
}

func TestNopEventPublisher(t *testing.T) {
	publisher := NewNopEventPublisher()
	assert.NoError(t, publisher.Publish(context.Background(), domain.NewDeletedEvent("r", "m", 1)))
	assert.NoError(t, publisher.Close())
}
