package app

import (
	"context"
	"time"

	"message_board_service/internal/board/domain"

	"github.com/stretchr/testify/mock"
)

// MockMessageRepository Mock MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// Append mock append
func (m *MockMessageRepository) Append(ctx context.Context, msg domain.Message) (domain.Message, error) {
	args := m.Called(ctx, msg)
	if fn, ok := args.Get(0).(func(context.Context, domain.Message) domain.Message); ok {
		return fn(ctx, msg), args.Error(1)
	}
	return args.Get(0).(domain.Message), args.Error(1)
}

// List mock list
func (m *MockMessageRepository) List(ctx context.Context, roomID string, limit int) ([]domain.Message, error) {
	args := m.Called(ctx, roomID, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// Remove mock remove
func (m *MockMessageRepository) Remove(ctx context.Context, roomID, msgID string) error {
	args := m.Called(ctx, roomID, msgID)
	return args.Error(0)
}

// Ping mock ping
func (m *MockMessageRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// Close mock close
func (m *MockMessageRepository) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockEventPublisher Mock EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

// Publish mock publish
func (m *MockEventPublisher) Publish(ctx context.Context, event domain.MessageEvent) error {
	return m.Called(ctx, event).Error(0)
}

// Close mock close
func (m *MockEventPublisher) Close() error {
	return m.Called().Error(0)
}

// MockIDGenerator Mock IDGenerator
type MockIDGenerator struct {
	mock.Mock
}

// New mock new id
func (m *MockIDGenerator) New(t time.Time) (string, error) {
	args := m.Called(t)
	return args.String(0), args.Error(1)
}
