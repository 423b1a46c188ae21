package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"fattura/internal/amqp"
	"fattura/internal/cli"
	"fattura/internal/draft"
	"fattura/internal/draft/memory"
	apphttp "fattura/internal/http"
	applog "fattura/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	// Choose the snapshot backend (default: sqlite).
	var store draft.Store
	var closeStore func() error
	switch cfg.DataBackend {
	case "memory":
		store = memory.New(cfg.DraftKey)
		logger.Info("Initialized memory backend", "backend", cfg.DataBackend)
	default:
		repo := cli.InitSQLite(logger, cfg.SQLiteDBPath, cfg.DraftKey)
		store = repo
		closeStore = repo.Close
		logger.Info("Initialized SQLite backend", "backend", cfg.DataBackend, "path", cfg.SQLiteDBPath)
	}

	// Snapshot events are optional; without AMQP every save is local only.
	var publisher draft.SnapshotPublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		publisher = amqpClient
		logger.Info("Snapshot events enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	svc := draft.NewService(store, publisher, cfg.DraftKey)
	srv := apphttp.NewServer(":"+cfg.Port, svc, cfg.MaxSignatureBytes)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Error("AMQP close error", "error", err)
			}
		}
		if closeStore != nil {
			if err := closeStore(); err != nil {
				logger.Error("Store close error", "error", err)
			}
		}
	})

	logger.Info("Starting fattura server", "port", cfg.Port, "backend", cfg.DataBackend, "key", cfg.DraftKey)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
