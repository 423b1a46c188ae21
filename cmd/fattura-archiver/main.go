package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"fattura/internal/amqp"
	"fattura/internal/archive"
	"fattura/internal/cli"
	applog "fattura/internal/log"
)

// fattura-archiver keeps a file history of draft snapshots: it consumes
// snapshot-saved events, reads the payload from the shared SQLite file and
// writes one timestamped JSON per save, pruning old files periodically.
func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentArchiver)
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the archiver")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath, cfg.DraftKey)
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	archiver := archive.NewArchiver(repo, cfg.ArchiveDir, cfg.ArchiveKeep)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting fattura-archiver",
		"archive_dir", cfg.ArchiveDir,
		"keep", cfg.ArchiveKeep,
		"queue", cfg.AMQPQueue)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeSnapshotSaved(gctx, func(msg *amqp.SnapshotSavedMessage) error {
			return archiver.HandleSnapshotSaved(gctx, msg)
		})
	})

	g.Go(func() error {
		return archiver.RunSweeper(gctx, cfg.ArchiveSweepInterval)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Archiver stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Archiver stopped gracefully")
}
