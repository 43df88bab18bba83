package webhookalert

import (
	"context"
	"time"

	"go.uber.org/zap"

	"freightflow/internal/application/dto"
	portsin "freightflow/internal/application/ports/in"
	"freightflow/internal/shared_kernel/logging"
)

const defaultPollInterval = 30 * time.Second

type AlertRecorder interface {
	IncWebhookAlert(signal, state string)
}

// Worker polls the webhook event overview and logs threshold transitions.
type Worker struct {
	pollInterval    time.Duration
	overviewUseCase portsin.GetWebhookEventOverviewUseCase
	alertMonitor    *alertMonitor
	recorder        AlertRecorder
	now             func() time.Time
	logger          *zap.Logger
}

func NewWorker(
	pollInterval time.Duration,
	overviewUseCase portsin.GetWebhookEventOverviewUseCase,
	alertConfig AlertConfig,
	recorder AlertRecorder,
	logger *zap.Logger,
) *Worker {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &Worker{
		pollInterval:    pollInterval,
		overviewUseCase: overviewUseCase,
		alertMonitor:    newAlertMonitor(alertConfig),
		recorder:        recorder,
		now:             time.Now,
		logger:          logging.OrNop(logger),
	}
}

func (w *Worker) Enabled() bool {
	return w != nil && w.alertMonitor.enabled()
}

func (w *Worker) Start(ctx context.Context) {
	if !w.Enabled() || w.overviewUseCase == nil {
		return
	}

	w.logger.Info("webhook alert worker started", zap.Duration("poll_interval", w.pollInterval))

	w.runCycle(ctx)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("webhook alert worker stopped")
			return
		case <-ticker.C:
			w.runCycle(ctx)
		}
	}
}

func (w *Worker) runCycle(ctx context.Context) {
	now := w.now().UTC()
	overview, appErr := w.overviewUseCase.Execute(ctx, dto.GetWebhookEventOverviewQuery{})
	if appErr != nil {
		w.logger.Error(
			"webhook alert evaluation failed",
			zap.String("code", appErr.Code),
			zap.String("error", appErr.Message),
			zap.Any("details", appErr.Details),
		)
		return
	}

	for _, event := range w.alertMonitor.evaluate(now, overview) {
		fields := []zap.Field{
			zap.String("state", event.State),
			zap.String("signal", event.Signal),
			zap.Int64("current", event.Current),
			zap.Int64("threshold", event.Threshold),
			zap.Duration("cooldown", event.Cooldown),
		}
		if event.State == alertStateResolved {
			w.logger.Info("webhook alert", fields...)
		} else {
			w.logger.Warn("webhook alert", fields...)
		}
		if w.recorder != nil {
			w.recorder.IncWebhookAlert(event.Signal, event.State)
		}
	}
}
