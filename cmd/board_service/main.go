package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "message_board_service/cmd/board_service/docs" // 引入 Swagger 文档
	"message_board_service/internal/board/app"
	"message_board_service/internal/board/domain"
	"message_board_service/internal/board/router"
	"message_board_service/pkg/config"
	"message_board_service/pkg/healthcheck"
	"message_board_service/pkg/idgen"
	"message_board_service/pkg/logger"
	"message_board_service/pkg/middlewares"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	env := config.LoadEnv()

	l, err := logger.Initialize(env.BoardService, env.BoardServiceLogPath)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	logger.Log = l
	logger.Log.SetDebugMode(!env.IsProduction())

	cfg, err := config.LoadBoard(env)
	if err != nil {
		logger.Log.Fatal("load config failed", zap.Error(err))
	}
	logger.Log.Info("config loaded",
		zap.String("store", cfg.Store.Driver),
		zap.String("table", cfg.Store.Table),
		zap.String("events", cfg.Events.Driver),
	)

	ctx := context.Background()

	// 1. 建立 store 連線
	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Log.Fatal("open message store failed", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}

	// 2. 事件通知
	publisher, err := openPublisher(ctx, cfg.Events)
	if err != nil {
		_ = store.Close(ctx)
		logger.Log.Fatal("open event publisher failed", zap.String("driver", cfg.Events.Driver), zap.Error(err))
	}

	// 3. 初始化 UseCase / Handler
	uc := app.NewMessageUseCase(store, publisher, idgen.NewGenerator(), domain.PageLimits{
		Default: cfg.Page.DefaultLimit,
		Max:     cfg.Page.MaxLimit,
	})
	handler := app.NewMessageHandler(uc, cfg.RequestTimeout, cfg.Store.Table, cfg.Store.Region)

	// 4. 啟動 Fiber
	accessLog, accessFile, err := middlewares.AccessLog(env.BoardServiceLogPath)
	if err != nil {
		logger.Log.Fatal("open access log failed", zap.Error(err))
	}
	defer accessFile.Close()

	r := router.NewFiberApp(accessLog)
	router.RegisterRoutes(r, handler)

	// 5. gRPC health (可選)
	var health *healthcheck.Server
	if cfg.GRPCHealth.Port != "" {
		health, err = healthcheck.NewServer(":"+cfg.GRPCHealth.Port, cfg.GRPCHealth.Name)
		if err != nil {
			logger.Log.Fatal("start grpc health failed", zap.Error(err))
		}
		health.Start()
	}

	listenErr := serve(r, ":"+cfg.Port, health)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	exitCode := 0
	select {
	case <-quit:
		logger.Log.Info("shutting down")
	case err := <-listenErr:
		logger.Log.Error("server stopped", zap.String("port", cfg.Port), zap.Error(err))
		exitCode = 1
	}
	if health != nil {
		health.SetServing(false)
	}

	// 關閉順序: http -> grpc health -> publisher -> store -> logger
	if err := r.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Log.Error("fiber shutdown", zap.Error(err))
	}
	if health != nil {
		health.Stop()
	}
	uc.Wait()
	if err := publisher.Close(); err != nil {
		logger.Log.Error("close event publisher", zap.Error(err))
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := store.Close(closeCtx); err != nil {
		logger.Log.Error("close message store", zap.Error(err))
	}

	logger.Log.Info("server exited")
	logger.Log.Sync()
	if exitCode != 0 {
		accessFile.Close()
		os.Exit(exitCode)
	}
}
