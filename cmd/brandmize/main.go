package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"brandmize/internal/amqp"
	"brandmize/internal/backend"
	"brandmize/internal/cli"
	apphttp "brandmize/internal/http"
	"brandmize/internal/log"
	"brandmize/internal/metrics"
	"brandmize/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	m := metrics.New()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	factory := backend.NewFactory(logger.Logger, m)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create platform backend", "error", err, "type", backendCfg.Type.String())
		os.Exit(1)
	}
	logger.Info("Platform backend ready", "type", backendCfg.Type.String())

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)

	// AMQP is optional for the dashboard: without it uploads still stage
	// to SQLite and the worker's periodic sweep picks them up.
	var publisher services.SyncPublisher
	if client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue); err != nil {
		logger.Warn("AMQP unavailable, imports will rely on the periodic sync", "error", err)
	} else {
		publisher = client
	}
	importer := services.NewLeadImportService(repo, publisher, m)

	srv := apphttp.NewServer(":"+cfg.Port, result.Backend, importer, m, cfg.CacheTTL)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := importer.Close(); err != nil {
			logger.Error("Importer shutdown error", "error", err)
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
	})

	logger.WithComponent(log.ComponentHTTP).Info("Starting brandmize dashboard server",
		"port", cfg.Port, "backend", cfg.DataBackend, "cache_ttl", cfg.CacheTTL.String())
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err, "port", cfg.Port)
			os.Exit(1)
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
