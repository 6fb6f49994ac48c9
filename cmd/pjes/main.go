package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"pjes/internal/cache"
	"pjes/internal/cli"
	"pjes/internal/core"
	apphttp "pjes/internal/http"
	applog "pjes/internal/log"
	"pjes/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)

	cfg := cli.LoadAndValidateConfig(logger)

	res := cli.InitBackend(context.Background(), logger, cfg)
	defer func() {
		if err := res.Close(); err != nil {
			logger.Error("Backend cleanup failed", applog.FieldError, err)
		}
	}()

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 2*time.Minute)
	ds, err := cli.LoadDataset(loadCtx, logger, res.Loader)
	cancelLoad()
	if err != nil {
		logger.Error("Failed to load PJES data", applog.FieldError, err, applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}

	var reportCache cache.Cache[core.Report]
	manager := cache.NewManager()
	if cfg.ReportCacheSize > 0 {
		lru := cache.NewLRUCache[core.Report](cfg.ReportCacheSize, cfg.ReportCacheTTL)
		manager.Register(lru)
		manager.StartCleanup(cfg.ReportCacheTTL)
		reportCache = lru
	}
	reports := services.NewReportService(ds, reportCache)

	audit := cli.InitAudit(logger, cfg, res.Recorder)

	srv := apphttp.NewServer(":"+cfg.Port, reports, audit, apphttp.Options{
		LogoPath:        cfg.LogoPath,
		ExportRateLimit: cfg.ExportRateLimit,
		Logger:          logger,
	})
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger.Logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		manager.Stop()
		if err := audit.Close(); err != nil {
			logger.Error("Audit shutdown error", applog.FieldError, err)
		}
	})

	logger.Info("Starting PJES dashboard",
		"port", cfg.Port,
		applog.FieldBackend, cfg.DataBackend,
		applog.FieldRecords, ds.Len(),
		"audit_broker", cfg.AuditEnabled())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
