package router

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "message_board_service/cmd/board_service/docs" // swagger doc
	"message_board_service/internal/board/app"
	"message_board_service/internal/board/domain"
	"message_board_service/internal/board/repository"
	"message_board_service/pkg/idgen"
	"message_board_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPage = domain.PageLimits{Default: 50, Max: 500}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	logger.SetNewNop()

	repo := repository.NewMemoryMessageRepository(testPage)
	uc := app.NewMessageUseCase(repo, repository.NewNopEventPublisher(), idgen.NewGenerator(), testPage)
	h := app.NewMessageHandler(uc, time.Second, "talk_messages", "us-east-1")

	r := NewFiberApp()
	RegisterRoutes(r, h)
	return r
}

func call(t *testing.T, r *fiber.App, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := r.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func postMessage(t *testing.T, r *fiber.App, room, body string) domain.Message {
	t.Helper()
	resp, data := call(t, r, "POST", "/rooms/"+room+"/messages", body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))

	var msg domain.Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func listMessages(t *testing.T, r *fiber.App, target string) []domain.Message {
	t.Helper()
	resp, data := call(t, r, "GET", target, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))

	var messages []domain.Message
	require.NoError(t, json.Unmarshal(data, &messages))
	return messages
}

func TestGeneralRoomExample(t *testing.T) {
	r := newTestApp(t)

	created := postMessage(t, r, "general", `{"author":"atul","text":"hello"}`)
	assert.Equal(t, "general", created.RoomID)
	assert.NotEmpty(t, created.MsgID)
	assert.Equal(t, "hello", created.Text)
	assert.Equal(t, "atul", created.Author)

	messages := listMessages(t, r, "/rooms/general/messages?limit=5")
	require.NotEmpty(t, messages)
	assert.Equal(t, created, messages[len(messages)-1])
}

func TestCreateThenList(t *testing.T) {
	r := newTestApp(t)
	before := time.Now().UnixMilli()

	created := postMessage(t, r, "lobby", `{"text":"first!"}`)

	messages := listMessages(t, r, "/rooms/lobby/messages")
	require.Len(t, messages, 1)
	assert.Equal(t, "lobby", messages[0].RoomID)
	assert.Equal(t, "first!", messages[0].Text)
	assert.Equal(t, domain.DefaultAuthor, messages[0].Author)
	assert.GreaterOrEqual(t, messages[0].CreatedAt, before)
	assert.Equal(t, created.MsgID, messages[0].MsgID)
}

func TestListIsIdempotentAndOrdered(t *testing.T) {
	r := newTestApp(t)

	var ids []string
	for i := 0; i < 20; i++ {
		ids = append(ids, postMessage(t, r, "ordered", fmt.Sprintf(`{"text":"m%d"}`, i)).MsgID)
	}
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}

	first := listMessages(t, r, "/rooms/ordered/messages")
	second := listMessages(t, r, "/rooms/ordered/messages")
	assert.Equal(t, first, second)
	require.Len(t, first, 20)
	for i, msg := range first {
		assert.Equal(t, ids[i], msg.MsgID)
		assert.Equal(t, fmt.Sprintf("m%d", i), msg.Text)
	}
}

func TestLimitClamp(t *testing.T) {
	r := newTestApp(t)
	for i := 0; i < 3; i++ {
		postMessage(t, r, "small", `{"text":"x"}`)
	}

	assert.Len(t, listMessages(t, r, "/rooms/small/messages?limit=10000"), 3)
	assert.Len(t, listMessages(t, r, "/rooms/small/messages?limit=0"), 3)
	assert.Len(t, listMessages(t, r, "/rooms/small/messages?limit=abc"), 3)
	assert.Len(t, listMessages(t, r, "/rooms/small/messages?limit=2"), 2)
}

func TestDefaultPageSize(t *testing.T) {
	r := newTestApp(t)
	for i := 0; i < testPage.Default+5; i++ {
		postMessage(t, r, "busy", `{"text":"x"}`)
	}

	assert.Len(t, listMessages(t, r, "/rooms/busy/messages"), testPage.Default)
	assert.Len(t, listMessages(t, r, "/rooms/busy/messages?limit=-1"), testPage.Default)
	assert.Len(t, listMessages(t, r, "/rooms/busy/messages?limit=10000"), testPage.Default+5)
}

func TestDeleteTwice(t *testing.T) {
	r := newTestApp(t)
	created := postMessage(t, r, "general", `{"text":"bye"}`)

	resp, _ := call(t, r, "DELETE", "/rooms/general/messages/"+created.MsgID, "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, body := call(t, r, "DELETE", "/rooms/general/messages/"+created.MsgID, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), `"error":"not_found"`)

	assert.Empty(t, listMessages(t, r, "/rooms/general/messages"))
}

func TestEmptyRoomIsEmptyArray(t *testing.T) {
	r := newTestApp(t)

	resp, body := call(t, r, "GET", "/rooms/nobody/messages", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestMissingTextIsRejected(t *testing.T) {
	r := newTestApp(t)

	resp, body := call(t, r, "POST", "/rooms/general/messages", `{"author":"atul"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), `"error":"validation_error"`)

	assert.Empty(t, listMessages(t, r, "/rooms/general/messages"))
}

func TestLegacyAPIPrefix(t *testing.T) {
	r := newTestApp(t)

	resp, data := call(t, r, "POST", "/api/rooms/general/messages", `{"user":"old-client","text":"hi"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created domain.Message
	require.NoError(t, json.Unmarshal(data, &created))
	assert.Equal(t, "old-client", created.Author)

	// 兩組路徑指向同一個 store
	messages := listMessages(t, r, "/rooms/general/messages")
	require.Len(t, messages, 1)

	resp, _ = call(t, r, "DELETE", "/api/rooms/general/messages/"+created.MsgID, "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestOperationalRoutes(t *testing.T) {
	r := newTestApp(t)

	resp, body := call(t, r, "GET", "/health", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","table":"talk_messages","region":"us-east-1"}`, string(body))

	resp, body = call(t, r, "GET", "/", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "board service start!", string(body))

	postMessage(t, r, "general", `{"text":"count me"}`)
	resp, body = call(t, r, "GET", "/metrics", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "board_messages_posted_total")
	assert.Contains(t, string(body), "board_http_requests_total")
	assert.Contains(t, string(body), `method="POST"`)

	resp, _ = call(t, r, "GET", "/health", "")
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	resp, body = call(t, r, "GET", "/swagger/doc.json", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "/rooms/{room}/messages")
}
