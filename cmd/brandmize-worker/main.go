package main

import (
	"context"
	"errors"
	"os"
	"time"

	"brandmize/internal/amqp"
	"brandmize/internal/backend"
	"brandmize/internal/cli"
	"brandmize/internal/log"
	"brandmize/internal/metrics"
	"brandmize/internal/services"
	"brandmize/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger().WithComponent(log.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting brandmize-worker")

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	m := metrics.New()
	factory := backend.NewFactory(logger.Logger, m)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create platform backend", "error", err, "type", backendCfg.Type.String())
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	amqpClient := cli.InitAMQP(logger, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)

	syncWorker := worker.NewSyncWorker(repo, result.Backend, cfg.SyncBatchSize, m)

	// Poll-based fallback for batches whose messages were lost.
	processor := services.NewImportProcessor(repo, result.Backend, services.ImportProcessorConfig{
		PollInterval: cfg.SyncInterval,
		BatchSize:    cfg.SyncBatchSize,
	}, m)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := processor.Stop(stopCtx); err != nil {
			logger.Error("Import processor stop error", "error", err)
		}
		if err := amqpClient.Close(); err != nil {
			logger.Error("AMQP close error", "error", err)
		}
		if err := repo.Close(); err != nil {
			logger.Error("Staging store close error", "error", err)
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
	})

	// Push anything a previous run left behind before consuming new
	// batches.
	logger.Info("Performing startup sync check")
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Startup sync check failed", "error", err)
		// Keep going; the periodic sweep retries.
	}

	go func() {
		handler := func(msg *amqp.LeadSyncMessage) error {
			return syncWorker.HandleSyncMessage(ctx, msg)
		}
		if err := amqpClient.ConsumeLeadSync(ctx, handler); err != nil && !errors.Is(err, context.Canceled) {
			// The periodic sweep below keeps leads flowing without the
			// broker, just slower.
			logger.Error("Message consumption stopped", "error", err)
		}
	}()

	if err := processor.Start(ctx); err != nil {
		logger.Error("Failed to start import processor", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
