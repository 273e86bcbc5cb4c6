package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"message_board_service/internal/board/domain"
	"message_board_service/internal/board/repository"
	"message_board_service/pkg"
	"message_board_service/pkg/logger"
	"message_board_service/pkg/metrics"

	"go.uber.org/zap"
)

// IDGenerator 產生可依時間排序的唯一 msg_id
type IDGenerator interface {
	New(t time.Time) (string, error)
}

// PostInput POST body, Author 為空時使用預設名稱
type PostInput struct {
	Author string
	Text   string
}

// MessageUseCase 驗證 / 正規化後交給 MessageRepository
type MessageUseCase struct {
	repo      repository.MessageRepository
	publisher repository.EventPublisher
	ids       IDGenerator
	page      domain.PageLimits
	now       func() time.Time

	publishTimeout time.Duration
	publishing     sync.WaitGroup
}

// DefaultPublishTimeout 單筆事件通知的上限時間
const DefaultPublishTimeout = 5 * time.Second

// Option MessageUseCase option
type Option func(*MessageUseCase)

// WithClock replace time.Now
func WithClock(now func() time.Time) Option {
	return func(uc *MessageUseCase) {
		uc.now = now
	}
}

// WithPublishTimeout replace DefaultPublishTimeout
func WithPublishTimeout(d time.Duration) Option {
	return func(uc *MessageUseCase) {
		uc.publishTimeout = d
	}
}

// NewMessageUseCase init message use case
func NewMessageUseCase(
	repo repository.MessageRepository,
	publisher repository.EventPublisher,
	ids IDGenerator,
	page domain.PageLimits,
	opts ...Option,
) *MessageUseCase {
	if publisher == nil {
		publisher = repository.NewNopEventPublisher()
	}
	uc := &MessageUseCase{
		repo:      repo,
		publisher: publisher,
		ids:       ids,
		page:      page,
		now:       time.Now,

		publishTimeout: DefaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ClampLimit 0 以下回到預設值, 超過上限時截斷
func (uc *MessageUseCase) ClampLimit(limit int) int {
	return uc.page.Clamp(limit)
}

// Post create a message in room
func (uc *MessageUseCase) Post(ctx context.Context, roomID string, in PostInput) (domain.Message, error) {
	if err := domain.ValidateRoomID(roomID); err != nil {
		return domain.Message{}, err
	}

	text := pkg.TruncateRunes(in.Text, domain.MaxTextLen)
	if strings.TrimSpace(text) == "" {
		return domain.Message{}, domain.NewValidationError("text is required")
	}

	author := in.Author
	if strings.TrimSpace(author) == "" {
		author = domain.DefaultAuthor
	}
	author = pkg.TruncateRunes(author, domain.MaxAuthorLen)

	now := uc.now()
	msgID, err := uc.ids.New(now)
	if err != nil {
		return domain.Message{}, fmt.Errorf("generate msg id: %w", err)
	}

	created, err := uc.repo.Append(ctx, domain.Message{
		RoomID:    roomID,
		MsgID:     msgID,
		CreatedAt: now.UnixMilli(),
		Author:    author,
		Text:      text,
	})
	if err != nil {
		return domain.Message{}, err
	}

	metrics.MessagesPosted.Inc()
	logger.Log.Debug("message posted", zap.String("room_id", roomID), zap.String("msg_id", msgID))
	uc.publish(ctx, domain.NewCreatedEvent(created, created.CreatedAt))
	return created, nil
}

// List messages in room ordered by msg_id
func (uc *MessageUseCase) List(ctx context.Context, roomID string, limit int) ([]domain.Message, error) {
	if err := domain.ValidateRoomID(roomID); err != nil {
		return nil, err
	}
	return uc.repo.List(ctx, roomID, uc.ClampLimit(limit))
}

// Delete remove a message, 不存在時回傳 domain.ErrNotFound
func (uc *MessageUseCase) Delete(ctx context.Context, roomID, msgID string) error {
	if err := domain.ValidateRoomID(roomID); err != nil {
		return err
	}
	if err := domain.ValidateMsgID(msgID); err != nil {
		return err
	}

	if err := uc.repo.Remove(ctx, roomID, msgID); err != nil {
		return err
	}

	metrics.MessagesDeleted.Inc()
	logger.Log.Debug("message deleted", zap.String("room_id", roomID), zap.String("msg_id", msgID))
	uc.publish(ctx, domain.NewDeletedEvent(roomID, msgID, uc.now().UnixMilli()))
	return nil
}

// publish 寫入已成功後在背景送出, 不受 request ctx 取消影響, 失敗只記錄
func (uc *MessageUseCase) publish(ctx context.Context, event domain.MessageEvent) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.publishTimeout)

	uc.publishing.Add(1)
	go func() {
		defer uc.publishing.Done()
		defer cancel()

		if err := uc.publisher.Publish(pubCtx, event); err != nil {
			metrics.EventsPublishFailed.WithLabelValues(string(event.Type)).Inc()
			logger.Log.Warn("publish message event failed",
				zap.String("type", string(event.Type)),
				zap.String("room_id", event.RoomID),
				zap.String("msg_id", event.MsgID),
				zap.Error(err),
			)
		}
	}()
}

// Wait 等待背景中的事件通知完成, 關閉 publisher 前呼叫
func (uc *MessageUseCase) Wait() {
	uc.publishing.Wait()
}
