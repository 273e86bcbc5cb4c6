package repository

import (
	"context"
	"fmt"

	"message_board_service/internal/board/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type postgresMessageRepository struct {
	pool  *pgxpool.Pool
	table string
	page  domain.PageLimits
}

// NewPostgresMessageRepository create a MessageRepository on table, 不存在時建立
func NewPostgresMessageRepository(ctx context.Context, pool *pgxpool.Pool, table string, page domain.PageLimits) (MessageRepository, error) {
	r := &postgresMessageRepository{
		pool:  pool,
		table: pgx.Identifier{table}.Sanitize(),
		page:  page,
	}
	if err := r.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *postgresMessageRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	room_id    TEXT   NOT NULL,
	msg_id     TEXT   NOT NULL,
	created_at BIGINT NOT NULL,
	author     TEXT   NOT NULL,
	text       TEXT   NOT NULL,
	PRIMARY KEY (room_id, msg_id)
)`, r.table))
	if err != nil {
		return domain.NewStoreError("ensure schema", err)
	}
	return nil
}

func (r *postgresMessageRepository) Append(ctx context.Context, msg domain.Message) (domain.Message, error) {
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(
		`INSERT INTO %s (room_id, msg_id, created_at, author, text) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (room_id, msg_id) DO NOTHING`, r.table),
		msg.RoomID, msg.MsgID, msg.CreatedAt, msg.Author, msg.Text,
	)
	if err != nil {
		return domain.Message{}, domain.NewStoreError("append", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Message{}, domain.ErrAlreadyExists
	}
	return msg, nil
}

func (r *postgresMessageRepository) List(ctx context.Context, roomID string, limit int) ([]domain.Message, error) {
	// COLLATE "C": 依位元組排序, 與 msg_id 字典序一致
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT room_id, msg_id, created_at, author, text FROM %s
		WHERE room_id = $1 ORDER BY msg_id COLLATE "C" LIMIT $2`, r.table),
		roomID, r.page.Clamp(limit),
	)
	if err != nil {
		return nil, domain.NewStoreError("list", err)
	}
	defer rows.Close()

	messages := make([]domain.Message, 0)
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.RoomID, &msg.MsgID, &msg.CreatedAt, &msg.Author, &msg.Text); err != nil {
			return nil, domain.NewStoreError("list", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("list", err)
	}
	return messages, nil
}

func (r *postgresMessageRepository) Remove(ctx context.Context, roomID, msgID string) error {
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(
		`DELETE FROM %s WHERE room_id = $1 AND msg_id = $2`, r.table),
		roomID, msgID,
	)
	if err != nil {
		return domain.NewStoreError("remove", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresMessageRepository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return domain.NewStoreError("ping", err)
	}
	return nil
}

func (r *postgresMessageRepository) Close(context.Context) error {
	r.pool.Close()
	return nil
}
