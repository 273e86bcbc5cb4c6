package router

import (
	"message_board_service/internal/board/app"
	"message_board_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewFiberApp fiber app with request id, panic recover and metrics, 其餘 middleware 由呼叫端加上
func NewFiberApp(extra ...fiber.Handler) *fiber.App {
	r := fiber.New(fiber.Config{
		AppName:               "board_service",
		UnescapePath:          true,
		DisableStartupMessage: true,
	})
	r.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	r.Use(recover.New())
	r.Use(middlewares.Metrics())
	for _, h := range extra {
		r.Use(h)
	}
	return r
}

// RegisterRoutes 注册 room message 相关的路由
// @title Message Board Service API
// @version 1.0
// @description API documentation for Message Board Service
// @host localhost:8080
// @BasePath /
func RegisterRoutes(r *fiber.App, h *app.MessageHandler) {
	r.Get("/swagger/*", swagger.HandlerDefault)
	r.Get("/", app.ConnectCheck)
	r.Post("/debug", app.DebugLogFlag)
	r.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	r.Get("/health", h.Health)

	// /api 為舊版路徑
	for _, prefix := range []string{"/rooms", "/api/rooms"} {
		rooms := r.Group(prefix)
		rooms.Get("/:room/messages", h.List)
		rooms.Post("/:room/messages", h.Post)
		rooms.Delete("/:room/messages/:msg_id", h.Delete)
	}
}
