package main

import (
	"message_board_service/pkg/healthcheck"
	"message_board_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// serve 在背景啟動 fiber, port bind 成功後 health 才回報 SERVING.
// Listen 失敗時回報 NOT_SERVING 並把錯誤送到回傳的 channel
func serve(r *fiber.App, addr string, health *healthcheck.Server) <-chan error {
	r.Hooks().OnListen(func(data fiber.ListenData) error {
		logger.Log.Info("board service listening", zap.String("host", data.Host), zap.String("port", data.Port))
		if health != nil {
			health.SetServing(true)
		}
		return nil
	})

	listenErr := make(chan error, 1)
	go func() {
		err := r.Listen(addr)
		if err != nil && health != nil {
			health.SetServing(false)
		}
		listenErr <- err
	}()
	return listenErr
}
