package repository

import (
	"context"
	"sort"
	"sync"

	"message_board_service/internal/board/domain"
)

type memoryMessageRepository struct {
	mu    sync.RWMutex
	rooms map[string]map[string]domain.Message
	page  domain.PageLimits
}

// NewMemoryMessageRepository create an in-process MessageRepository
func NewMemoryMessageRepository(page domain.PageLimits) MessageRepository {
	return &memoryMessageRepository{
		rooms: make(map[string]map[string]domain.Message),
		page:  page,
	}
}

func (r *memoryMessageRepository) Append(ctx context.Context, msg domain.Message) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, domain.NewStoreError("append", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[msg.RoomID]
	if !ok {
		room = make(map[string]domain.Message)
		r.rooms[msg.RoomID] = room
	}
	if _, exists := room[msg.MsgID]; exists {
		return domain.Message{}, domain.ErrAlreadyExists
	}
	room[msg.MsgID] = msg
	return msg, nil
}

func (r *memoryMessageRepository) List(ctx context.Context, roomID string, limit int) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStoreError("list", err)
	}
	limit = r.page.Clamp(limit)

	r.mu.RLock()
	defer r.mu.RUnlock()

	room := r.rooms[roomID]
	ids := make([]string, 0, len(room))
	for id := range room {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}

	messages := make([]domain.Message, 0, len(ids))
	for _, id := range ids {
		messages = append(messages, room[id])
	}
	return messages, nil
}

func (r *memoryMessageRepository) Remove(ctx context.Context, roomID, msgID string) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStoreError("remove", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	room := r.rooms[roomID]
	if _, exists := room[msgID]; !exists {
		return domain.ErrNotFound
	}
	delete(room, msgID)
	if len(room) == 0 {
		delete(r.rooms, roomID)
	}
	return nil
}

func (r *memoryMessageRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *memoryMessageRepository) Close(context.Context) error {
	return nil
}
