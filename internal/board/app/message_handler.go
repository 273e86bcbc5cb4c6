package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"message_board_service/pkg"
	errprocess "message_board_service/pkg/err"
	"message_board_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// HealthResponse GET /health body
type HealthResponse struct {
	Status string `json:"status"`
	Table  string `json:"table"`
	Region string `json:"region"`
}

// PostMessageRequest POST body (user 為舊版 author 欄位)
type PostMessageRequest struct {
	Author string `json:"author,omitempty"`
	User   string `json:"user,omitempty"`
	Text   string `json:"text"`
}

// MessageHandler 处理 room message 相关的 HTTP 请求
type MessageHandler struct {
	uc      *MessageUseCase
	timeout time.Duration
	table   string
	region  string
}

// NewMessageHandler create a MessageHandler, timeout 為每個 store 操作的期限
func NewMessageHandler(uc *MessageUseCase, timeout time.Duration, table, region string) *MessageHandler {
	return &MessageHandler{
		uc:      uc,
		timeout: timeout,
		table:   table,
		region:  region,
	}
}

func (h *MessageHandler) storeContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), h.timeout)
}

// List 查詢 room 訊息
// @Summary List room messages
// @Description 依 msg_id 遞增回傳 room 內的訊息
// @Tags Messages
// @Produce json
// @Param room path string true "Room ID"
// @Param limit query int false "Page size (default 50, max 500)"
// @Success 200 {array} domain.Message
// @Failure 400 {object} errprocess.Response
// @Failure 500 {object} errprocess.Response
// @Router /rooms/{room}/messages [get]
func (h *MessageHandler) List(c *fiber.Ctx) error {
	roomID := utils.CopyString(c.Params("room"))
	limit := parseLimit(c.Query("limit"))

	ctx, cancel := h.storeContext(c)
	defer cancel()

	messages, err := h.uc.List(ctx, roomID, limit)
	if err != nil {
		return errprocess.Write(c, err, resolveError)
	}
	return c.Status(fiber.StatusOK).JSON(messages)
}

// Post 發送訊息
// @Summary Post a message
// @Description text 必填, author 預設 anonymous
// @Tags Messages
// @Accept json
// @Produce json
// @Param room path string true "Room ID"
// @Param request body PostMessageRequest true "Message"
// @Success 201 {object} domain.Message
// @Failure 400 {object} errprocess.Response
// @Failure 409 {object} errprocess.Response
// @Failure 500 {object} errprocess.Response
// @Router /rooms/{room}/messages [post]
func (h *MessageHandler) Post(c *fiber.Ctx) error {
	roomID := utils.CopyString(c.Params("room"))
	in := decodePostBody(c.Body())

	ctx, cancel := h.storeContext(c)
	defer cancel()

	msg, err := h.uc.Post(ctx, roomID, in)
	if err != nil {
		return errprocess.Write(c, err, resolveError)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// Delete 刪除訊息
// @Summary Delete a message
// @Tags Messages
// @Param room path string true "Room ID"
// @Param msg_id path string true "Message ID"
// @Success 204
// @Failure 400 {object} errprocess.Response
// @Failure 404 {object} errprocess.Response
// @Failure 500 {object} errprocess.Response
// @Router /rooms/{room}/messages/{msg_id} [delete]
func (h *MessageHandler) Delete(c *fiber.Ctx) error {
	roomID := utils.CopyString(c.Params("room"))
	msgID := utils.CopyString(c.Params("msg_id"))

	ctx, cancel := h.storeContext(c)
	defer cancel()

	if err := h.uc.Delete(ctx, roomID, msgID); err != nil {
		return errprocess.Write(c, err, resolveError)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Health liveness probe, 不存取 store
// @Summary Health check
// @Tags Shared
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *MessageHandler) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: "ok", Table: h.table, Region: h.region})
}

// ConnectCheck check api connect start
// @Summary Check board service status
// @Description Returns a simple confirmation message
// @Tags Shared
// @Success 200 {string} string "board service start!"
// @Router / [get]
func ConnectCheck(c *fiber.Ctx) error {
	return c.SendString("board service start!")
}

// DebugLogFlag toggle debug log flag
// @Summary Toggle Debug Log Flag
// @Description Enable or disable debug logging
// @Tags Shared
// @Param status query bool true "Debug status"
// @Success 200 {string} string "debug mode updated"
// @Failure 400 {string} string "Invalid status value"
// @Router /debug [post]
func DebugLogFlag(c *fiber.Ctx) error {
	statusStr := c.Query("status")
	logger.Log.Info("debug", zap.String("status", statusStr))

	status, err := strconv.ParseBool(statusStr)
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	logger.Log.SetDebugMode(status)
	return c.SendString(fmt.Sprintf("debug mode is : %t", status))
}

// parseLimit 無效值回傳 0, 由 use case 換成預設值; 溢位的正數視為超過上限
func parseLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && n > 0 {
		return math.MaxInt
	}
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// decodePostBody 不看 Content-Type 一律當 JSON 解析, 解析失敗視為空物件
func decodePostBody(body []byte) PostInput {
	var payload map[string]any

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return PostInput{}
	}

	var in PostInput
	if text, ok := pkg.Stringify(payload["text"]); ok {
		in.Text = text
	}
	if author, ok := pkg.Stringify(payload["author"]); ok {
		in.Author = author
	} else if user, ok := pkg.Stringify(payload["user"]); ok {
		in.Author = user
	}
	return in
}
