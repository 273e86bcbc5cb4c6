package errprocess

import (
	"message_board_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// error kinds in response body
const (
	KindValidation       = "validation_error"
	KindAlreadyExists    = "already_exists"
	KindNotFound         = "not_found"
	KindStoreUnavailable = "store_unavailable"
	KindInternal         = "internal_error"
)

// Response error response body
type Response struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Resolver map err to http status and response body
type Resolver func(err error) (int, Response)

// Internal 未知錯誤, 不回傳原始訊息
func Internal(error) (int, Response) {
	return fiber.StatusInternalServerError, Response{Error: KindInternal, Message: "internal server error"}
}

// Write log and send the error response, resolve 為 nil 時視為 Internal
func Write(c *fiber.Ctx, err error, resolve Resolver) error {
	if resolve == nil {
		resolve = Internal
	}
	status, body := resolve(err)

	fields := []zap.Field{
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", status),
		zap.Error(err),
	}
	if rid, ok := c.Locals("requestid").(string); ok {
		fields = append(fields, zap.String("request_id", rid))
	}

	if status >= fiber.StatusInternalServerError {
		logger.Log.Error("request failed", fields...)
	} else {
		logger.Log.Debug("request rejected", fields...)
	}
	return c.Status(status).JSON(body)
}
