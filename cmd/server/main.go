package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

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

	logger.Info("persistence initialization starting", zap.String("database_target", cfg.DatabaseTarget))
	persistenceErr := container.InitializePersistenceUseCase.Execute(ctx, dto.InitializePersistenceCommand{
		ReadinessTimeout:       cfg.DBReadinessTimeout,
		ReadinessRetryInterval: cfg.DBReadinessRetryInterval,
	})
	if persistenceErr != nil {
		logger.Error(
			"persistence initialization failed",
			zap.String("code", persistenceErr.Code),
			zap.String("message", persistenceErr.Message),
			zap.Any("details", persistenceErr.Details),
		)
		os.Exit(1)
	}
	logger.Info("persistence initialization completed", zap.String("database_target", cfg.DatabaseTarget))

	workerDone := make(chan struct{})
	if container.WebhookWorker.Enabled() {
		go func() {
			defer close(workerDone)
			container.WebhookWorker.Start(ctx)
		}()
	} else {
		close(workerDone)
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- container.Server.Start()
	}()

	select {
	case err := <-serverErrCh:
		if err != nil {
			logger.Error("server startup failed", zap.Error(err))
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := container.Server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
			os.Exit(1)
		}

		if err := <-serverErrCh; err != nil {
			logger.Error("server stopped with error", zap.Error(err))
			os.Exit(1)
		}

		select {
		case <-workerDone:
		case <-shutdownCtx.Done():
			logger.Warn("webhook worker did not stop before shutdown timeout")
		}

		logger.Info("server stopped")
	}
}
