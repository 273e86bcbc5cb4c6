package middlewares

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
)

// AccessLog 请求日志写入 logDir/access.log, 回傳的 file 由呼叫端關閉
func AccessLog(logDir string) (fiber.Handler, *os.File, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("create log directory %s: %w", logDir, err)
	}

	file, err := os.OpenFile(filepath.Join(logDir, "access.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return nil, nil, fmt.Errorf("open access log: %w", err)
	}

	return fiber_log.New(fiber_log.Config{
		Output: file, // 将日志输出到文件
		Format: "${time} | ${locals:requestid} | ${status} | ${latency} | ${method} ${path}\n",
	}), file, nil
}
