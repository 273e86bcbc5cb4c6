package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"message_board_service/internal/board/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var contractPage = domain.PageLimits{Default: 3, Max: 5}

func newMessage(roomID, msgID, text string) domain.Message {
	return domain.Message{
		RoomID:    roomID,
		MsgID:     msgID,
		CreatedAt: 1700000000000,
		Author:    "atul",
		Text:      text,
	}
}

// runRepositoryContract 所有 MessageRepository 實作共用的行為測試, newRepo 每次回傳空的 store
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) MessageRepository) {
	ctx := context.Background()

	t.Run("append then list", func(t *testing.T) {
		repo := newRepo(t)
		msg := newMessage("general", "01HZ0000000000000000000001", "hello")

		created, err := repo.Append(ctx, msg)
		require.NoError(t, err)
		assert.Equal(t, msg, created)

		messages, err := repo.List(ctx, "general", 10)
		require.NoError(t, err)
		assert.Equal(t, []domain.Message{msg}, messages)
	})

	t.Run("empty room is an empty list", func(t *testing.T) {
		repo := newRepo(t)

		messages, err := repo.List(ctx, "nobody-here", 10)
		require.NoError(t, err)
		assert.NotNil(t, messages)
		assert.Empty(t, messages)
	})

	t.Run("duplicate identity keeps the first", func(t *testing.T) {
		repo := newRepo(t)
		first := newMessage("general", "01HZ0000000000000000000001", "first")
		second := newMessage("general", "01HZ0000000000000000000001", "second")

		_, err := repo.Append(ctx, first)
		require.NoError(t, err)
		_, err = repo.Append(ctx, second)
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)

		messages, err := repo.List(ctx, "general", 10)
		require.NoError(t, err)
		require.Len(t, messages, 1)
		assert.Equal(t, "first", messages[0].Text)
	})

	t.Run("same msg id in another room is allowed", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Append(ctx, newMessage("a", "01HZ0000000000000000000001", "in a"))
		require.NoError(t, err)
		_, err = repo.Append(ctx, newMessage("b", "01HZ0000000000000000000001", "in b"))
		require.NoError(t, err)

		messages, err := repo.List(ctx, "a", 10)
		require.NoError(t, err)
		require.Len(t, messages, 1)
		assert.Equal(t, "in a", messages[0].Text)
	})

	t.Run("list is ordered by msg id", func(t *testing.T) {
		repo := newRepo(t)
		for _, id := range []string{"01HZ03", "01HZ01", "01HZ02"} {
			_, err := repo.Append(ctx, newMessage("general", id, "m"+id))
			require.NoError(t, err)
		}

		messages, err := repo.List(ctx, "general", 10)
		require.NoError(t, err)
		require.Len(t, messages, 3)
		assert.Equal(t, "01HZ01", messages[0].MsgID)
		assert.Equal(t, "01HZ02", messages[1].MsgID)
		assert.Equal(t, "01HZ03", messages[2].MsgID)

		again, err := repo.List(ctx, "general", 10)
		require.NoError(t, err)
		assert.Equal(t, messages, again)
	})

	t.Run("limit is clamped", func(t *testing.T) {
		repo := newRepo(t)
		for i := 0; i < 7; i++ {
			_, err := repo.Append(ctx, newMessage("general", fmt.Sprintf("01HZ%02d", i), "m"))
			require.NoError(t, err)
		}

		messages, err := repo.List(ctx, "general", 0)
		require.NoError(t, err)
		assert.Len(t, messages, contractPage.Default)

		messages, err = repo.List(ctx, "general", 10000)
		require.NoError(t, err)
		assert.Len(t, messages, contractPage.Max)
		assert.Equal(t, "01HZ00", messages[0].MsgID)

		messages, err = repo.List(ctx, "general", 2)
		require.NoError(t, err)
		assert.Len(t, messages, 2)
	})

	t.Run("delete twice", func(t *testing.T) {
		repo := newRepo(t)
		msg := newMessage("general", "01HZ0000000000000000000001", "bye")
		_, err := repo.Append(ctx, msg)
		require.NoError(t, err)

		assert.NoError(t, repo.Remove(ctx, "general", msg.MsgID))
		assert.ErrorIs(t, repo.Remove(ctx, "general", msg.MsgID), domain.ErrNotFound)

		messages, err := repo.List(ctx, "general", 10)
		require.NoError(t, err)
		assert.Empty(t, messages)
	})

	t.Run("delete unknown", func(t *testing.T) {
		repo := newRepo(t)
		assert.ErrorIs(t, repo.Remove(ctx, "general", "missing"), domain.ErrNotFound)
	})

	t.Run("concurrent append of one identity", func(t *testing.T) {
		repo := newRepo(t)

		const workers = 8
		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			ok, dups int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := repo.Append(ctx, newMessage("race", "01HZRACE", fmt.Sprintf("w%d", i)))
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					ok++
				case assert.ErrorIs(t, err, domain.ErrAlreadyExists):
					dups++
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 1, ok)
		assert.Equal(t, workers-1, dups)
	})

	t.Run("ping", func(t *testing.T) {
		repo := newRepo(t)
		assert.NoError(t, repo.Ping(ctx))
	})
}
