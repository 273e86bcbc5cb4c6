package repository

import (
	"context"

	"message_board_service/internal/board/domain"
)

// MessageRepository 訊息存取, 每個操作只動到一筆 (room_id, msg_id)
type MessageRepository interface {
	// Append 只在 (room_id, msg_id) 不存在時寫入, 否則 domain.ErrAlreadyExists
	Append(ctx context.Context, msg domain.Message) (domain.Message, error)
	// List 依 msg_id 遞增回傳 room 內最多 limit 筆訊息
	List(ctx context.Context, roomID string, limit int) ([]domain.Message, error)
	// Remove 只在訊息存在時刪除, 否則 domain.ErrNotFound
	Remove(ctx context.Context, roomID, msgID string) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
