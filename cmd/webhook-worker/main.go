package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"freightflow/internal/application/dto"
	"freightflow/internal/infrastructure/config"
	"freightflow/internal/infrastructure/di"
	"freightflow/internal/shared_kernel/logging"
)

func main() {
	cfg, cfgErr := config.LoadConfig()
	if cfgErr != nil {
		bootLogger, _ := logging.New("info")
		logging.OrNop(bootLogger).Error(
			"startup config error",
			zap.String("code", cfgErr.Code),
			zap.String("message", cfgErr.Message),
			zap.Any("metadata", cfgErr.Metadata),
		)
		os.Exit(1)
	}
	cfg = workerConfig(cfg)

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	container, buildErr := di.Build(cfg, logger)
	if buildErr != nil {
		logger.Error("dependency wiring error", zap.Error(buildErr))
		os.Exit(1)
	}
	defer func() {
		if container.Database == nil {
			return
		}
		if err := container.Database.Close(); err != nil {
			logger.Warn("database close warning", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("webhook worker persistence initialization starting", zap.String("database_target", cfg.DatabaseTarget))
	persistenceErr := container.InitializePersistenceUseCase.Execute(ctx, dto.InitializePersistenceCommand{
		ReadinessTimeout:       cfg.DBReadinessTimeout,
		ReadinessRetryInterval: cfg.DBReadinessRetryInterval,
	})
	if persistenceErr != nil {
		logger.Error(
			"webhook worker persistence initialization failed",
			zap.String("code", persistenceErr.Code),
			zap.String("message", persistenceErr.Message),
			zap.Any("details", persistenceErr.Details),
		)
		os.Exit(1)
	}

	if !container.WebhookWorker.Enabled() {
		logger.Error("webhook worker startup failed", zap.String("code", "WEBHOOK_WORKER_NOT_ENABLED"))
		os.Exit(1)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		container.WebhookWorker.Start(groupCtx)
		return nil
	})
	if container.WebhookAlertWorker.Enabled() {
		group.Go(func() error {
			container.WebhookAlertWorker.Start(groupCtx)
			return nil
		})
	}
	_ = group.Wait()
	logger.Info("webhook worker process stopped")
}

// workerConfig turns the worker on regardless of WEBHOOK_WORKER_ENABLED; the
// dedicated process exists only to run it.
func workerConfig(cfg config.Config) config.Config {
	cfg.WebhookWorkerEnabled = true
	return cfg
}
