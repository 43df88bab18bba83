package webhook

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"freightflow/internal/application/dto"
	portsin "freightflow/internal/application/ports/in"
	"freightflow/internal/shared_kernel/logging"
)

type PassSkippedCounter interface {
	IncWebhookPassSkipped()
}

type Config struct {
	Enabled      bool
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
}

// Worker polls for due webhook events on a fixed interval. Passes never
// overlap: a tick that fires while the previous pass is still running is
// skipped and counted.
type Worker struct {
	config         Config
	deliverUseCase portsin.DeliverWebhookEventsUseCase
	skipped        PassSkippedCounter
	logger         *zap.Logger

	busy     atomic.Bool
	inFlight sync.WaitGroup
}

func NewWorker(
	config Config,
	deliverUseCase portsin.DeliverWebhookEventsUseCase,
	skipped PassSkippedCounter,
	logger *zap.Logger,
) *Worker {
	if config.PollInterval <= 0 {
		config.PollInterval = 5 * time.Second
	}

	return &Worker{
		config:         config,
		deliverUseCase: deliverUseCase,
		skipped:        skipped,
		logger:         logging.OrNop(logger),
	}
}

func (w *Worker) Enabled() bool {
	return w != nil && w.config.Enabled
}

// Start blocks until ctx is cancelled and the in-flight pass has returned.
func (w *Worker) Start(ctx context.Context) {
	if w == nil || !w.config.Enabled || w.deliverUseCase == nil {
		return
	}

	w.logger.Info(
		"webhook worker started",
		zap.Duration("poll_interval", w.config.PollInterval),
		zap.Int("batch_size", w.config.BatchSize),
		zap.Int("max_attempts", w.config.MaxAttempts),
	)

	w.tick(ctx)
	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.inFlight.Wait()
			w.logger.Info("webhook worker stopped")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Worker) tick(ctx context.Context) {
	if !w.busy.CompareAndSwap(false, true) {
		w.logger.Warn("skipping worker pass because previous pass is still running")
		if w.skipped != nil {
			w.skipped.IncWebhookPassSkipped()
		}
		return
	}

	w.inFlight.Add(1)
	go func() {
		defer w.inFlight.Done()
		defer w.busy.Store(false)
		w.RunOnce(ctx)
	}()
}

// RunOnce executes a single delivery pass. A panic inside the pass is logged
// and swallowed so the polling loop keeps going.
func (w *Worker) RunOnce(ctx context.Context) (output dto.DeliverWebhookEventsOutput, ok bool) {
	defer func() {
		if recovered := recover(); recovered != nil {
			w.logger.Error("webhook worker pass panicked", zap.String("panic", fmt.Sprint(recovered)))
			ok = false
		}
	}()

	output, appErr := w.deliverUseCase.Execute(ctx, dto.DeliverWebhookEventsCommand{
		Now:         time.Now().UTC(),
		BatchSize:   w.config.BatchSize,
		MaxAttempts: w.config.MaxAttempts,
	})
	if appErr != nil {
		w.logger.Error(
			"webhook worker pass failed",
			zap.String("code", appErr.Code),
			zap.String("error", appErr.Message),
			zap.Any("details", appErr.Details),
		)
		return output, false
	}

	if output.Fetched > 0 {
		w.logger.Info(
			"webhook worker pass completed",
			zap.Int("fetched", output.Fetched),
			zap.Int("delivered", output.Delivered),
			zap.Int("retried", output.Retried),
			zap.Int("failed", output.Failed),
			zap.Int("dropped", output.Dropped),
			zap.Int("short_circuited", output.ShortCircuited),
			zap.Int("duplicated", output.Duplicated),
			zap.Int("http_2xx", output.HTTP2xxCount),
			zap.Int("http_4xx", output.HTTP4xxCount),
			zap.Int("http_5xx", output.HTTP5xxCount),
			zap.Int("network_error", output.NetworkErrorCount),
			zap.Int64("latency_ms", output.LatencyMS),
		)
	}
	return output, true
}
