// Command pjes-audit-worker consumes export events from the broker and
// stores them in the SQLite export log.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"pjes/internal/amqp"
	"pjes/internal/cli"
	applog "pjes/internal/log"
	"pjes/internal/storage"
	"pjes/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)
	logger.Info("Starting pjes-audit-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if !cfg.AuditEnabled() {
		logger.Error("AMQP_URL is required for the audit worker")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	auditWorker := worker.NewAuditWorker(repo, repo)

	ctx, done := cli.GracefulShutdown(logger.Logger, 30*time.Second, nil)

	if err := auditWorker.StartupCheck(ctx); err != nil {
		// keep consuming; the next insert reports the same problem
		logger.Error("Startup check failed", applog.FieldError, err)
	}

	logger.Info("Consuming export events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	if err := client.ConsumeExportEvents(ctx, auditWorker.HandleExportEvent); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", applog.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped")
}
