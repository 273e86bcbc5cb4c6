package repository

import (
	"context"
	"errors"
	"time"

	"message_board_service/internal/board/domain"
	"message_board_service/pkg/metrics"
)

type instrumentedRepository struct {
	MessageRepository
	driver string
}

// WithMetrics 記錄每個 store 操作的耗時與結果
func WithMetrics(driver string, next MessageRepository) MessageRepository {
	return &instrumentedRepository{MessageRepository: next, driver: driver}
}

func (r *instrumentedRepository) observe(op string, start time.Time, err error) {
	metrics.StoreOperationDuration.
		WithLabelValues(r.driver, op, outcome(err)).
		Observe(time.Since(start).Seconds())
}

func (r *instrumentedRepository) Append(ctx context.Context, msg domain.Message) (domain.Message, error) {
	start := time.Now()
	created, err := r.MessageRepository.Append(ctx, msg)
	r.observe("append", start, err)
	return created, err
}

func (r *instrumentedRepository) List(ctx context.Context, roomID string, limit int) ([]domain.Message, error) {
	start := time.Now()
	messages, err := r.MessageRepository.List(ctx, roomID, limit)
	r.observe("list", start, err)
	return messages, err
}

func (r *instrumentedRepository) Remove(ctx context.Context, roomID, msgID string) error {
	start := time.Now()
	err := r.MessageRepository.Remove(ctx, roomID, msgID)
	r.observe("remove", start, err)
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
