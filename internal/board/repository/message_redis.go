package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"message_board_service/internal/board/domain"

	"github.com/go-redis/redis/v8"
)

// 訊息內容存在 hash, 排序用 score 全為 0 的 sorted set (ZRANGEBYLEX 依 msg_id 字典序)
// 兩個 key 帶相同 hash tag, cluster 下落在同一個 slot
var (
	appendScript = redis.NewScript(`
if redis.call('HSETNX', KEYS[1], ARGV[1], ARGV[2]) == 0 then
  return 0
end
redis.call('ZADD', KEYS[2], 0, ARGV[1])
return 1
`)

	removeScript = redis.NewScript(`
if redis.call('HDEL', KEYS[1], ARGV[1]) == 0 then
  return 0
end
redis.call('ZREM', KEYS[2], ARGV[1])
return 1
`)
)

type redisMessageRepository struct {
	client *redis.Client
	prefix string
	page   domain.PageLimits
}

// NewRedisMessageRepository create a MessageRepository, key 以 prefix 開頭
func NewRedisMessageRepository(client *redis.Client, prefix string, page domain.PageLimits) MessageRepository {
	return &redisMessageRepository{client: client, prefix: prefix, page: page}
}

func (r *redisMessageRepository) keys(roomID string) []string {
	return []string{
		fmt.Sprintf("%s:{%s}:msgs", r.prefix, roomID),
		fmt.Sprintf("%s:{%s}:idx", r.prefix, roomID),
	}
}

func (r *redisMessageRepository) Append(ctx context.Context, msg domain.Message) (domain.Message, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return domain.Message{}, domain.NewStoreError("append", err)
	}

	created, err := appendScript.Run(ctx, r.client, r.keys(msg.RoomID), msg.MsgID, data).Int()
	if err != nil {
		return domain.Message{}, domain.NewStoreError("append", err)
	}
	if created == 0 {
		return domain.Message{}, domain.ErrAlreadyExists
	}
	return msg, nil
}

func (r *redisMessageRepository) List(ctx context.Context, roomID string, limit int) ([]domain.Message, error) {
	keys := r.keys(roomID)

	ids, err := r.client.ZRangeByLex(ctx, keys[1], &redis.ZRangeBy{
		Min:   "-",
		Max:   "+",
		Count: int64(r.page.Clamp(limit)),
	}).Result()
	if err != nil {
		return nil, domain.NewStoreError("list", err)
	}

	messages := make([]domain.Message, 0, len(ids))
	if len(ids) == 0 {
		return messages, nil
	}

	values, err := r.client.HMGet(ctx, keys[0], ids...).Result()
	if err != nil {
		return nil, domain.NewStoreError("list", err)
	}
	for _, v := range values {
		// 與 remove 同時發生時 hash 可能已被刪除
		s, ok := v.(string)
		if !ok {
			continue
		}
		var msg domain.Message
		if err := json.Unmarshal([]byte(s), &msg); err != nil {
			return nil, domain.NewStoreError("list", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (r *redisMessageRepository) Remove(ctx context.Context, roomID, msgID string) error {
	removed, err := removeScript.Run(ctx, r.client, r.keys(roomID), msgID).Int()
	if err != nil {
		return domain.NewStoreError("remove", err)
	}
	if removed == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *redisMessageRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return domain.NewStoreError("ping", err)
	}
	return nil
}

func (r *redisMessageRepository) Close(context.Context) error {
	return r.client.Close()
}
