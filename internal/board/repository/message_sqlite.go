package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"message_board_service/internal/board/domain"
)

type sqliteMessageRepository struct {
	db    *sql.DB
	table string
	page  domain.PageLimits
}

// NewSQLiteMessageRepository create a MessageRepository on table, 不存在時建立
func NewSQLiteMessageRepository(ctx context.Context, db *sql.DB, table string, page domain.PageLimits) (MessageRepository, error) {
	r := &sqliteMessageRepository{
		db:    db,
		table: `"` + strings.ReplaceAll(table, `"`, `""`) + `"`,
		page:  page,
	}
	if err := r.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *sqliteMessageRepository) ensureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	room_id    TEXT    NOT NULL,
	msg_id     TEXT    NOT NULL,
	created_at INTEGER NOT NULL,
	author     TEXT    NOT NULL,
	text       TEXT    NOT NULL,
	PRIMARY KEY (room_id, msg_id)
)`, r.table))
	if err != nil {
		return domain.NewStoreError("ensure schema", err)
	}
	return nil
}

func (r *sqliteMessageRepository) Append(ctx context.Context, msg domain.Message) (domain.Message, error) {
	res, err := r.db.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (room_id, msg_id, created_at, author, text) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (room_id, msg_id) DO NOTHING`, r.table),
		msg.RoomID, msg.MsgID, msg.CreatedAt, msg.Author, msg.Text,
	)
	if err != nil {
		return domain.Message{}, domain.NewStoreError("append", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Message{}, domain.NewStoreError("append", err)
	}
	if n == 0 {
		return domain.Message{}, domain.ErrAlreadyExists
	}
	return msg, nil
}

func (r *sqliteMessageRepository) List(ctx context.Context, roomID string, limit int) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT room_id, msg_id, created_at, author, text FROM %s
		WHERE room_id = ? ORDER BY msg_id LIMIT ?`, r.table),
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

func (r *sqliteMessageRepository) Remove(ctx context.Context, roomID, msgID string) error {
	res, err := r.db.ExecContext(ctx, fmt.Sprintf(
		`DELETE FROM %s WHERE room_id = ? AND msg_id = ?`, r.table),
		roomID, msgID,
	)
	if err != nil {
		return domain.NewStoreError("remove", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.NewStoreError("remove", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *sqliteMessageRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return domain.NewStoreError("ping", err)
	}
	return nil
}

func (r *sqliteMessageRepository) Close(context.Context) error {
	return r.db.Close()
}
