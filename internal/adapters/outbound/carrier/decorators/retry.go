package decorators

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	portsout "freightflow/internal/application/ports/out"
	"freightflow/internal/domain/entities"
	"freightflow/internal/infrastructure/metrics"
	"freightflow/internal/infrastructure/reliability/backoff"
	apperrors "freightflow/internal/shared_kernel/errors"
	"freightflow/internal/shared_kernel/logging"
)

type RetryPolicy struct {
	// MaxRetries is the total number of attempts, including the first one.
	MaxRetries   int
	BaseDelay    time.Duration
	MaxDelay     time.Duration
	MaxRetryTime time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:   3,
		BaseDelay:    500 * time.Millisecond,
		MaxDelay:     30 * time.Second,
		MaxRetryTime: 5 * time.Second,
	}
}

type RetryOption func(*Retry)

func WithRetryPolicy(policy RetryPolicy) RetryOption {
	return func(r *Retry) {
		r.policy = policy
	}
}

func WithRetrySleeper(sleep func(context.Context, time.Duration) error) RetryOption {
	return func(r *Retry) {
		if sleep != nil {
			r.sleep = sleep
		}
	}
}

func WithRetryClock(now func() time.Time) RetryOption {
	return func(r *Retry) {
		if now != nil {
			r.now = now
		}
	}
}

func WithRetryRandom(random func() float64) RetryOption {
	return func(r *Retry) {
		r.random = random
	}
}

// Retry re-invokes retryable carrier failures with budgeted exponential backoff.
type Retry struct {
	provider portsout.CarrierProvider
	policy   RetryPolicy
	metrics  portsout.ReliabilityMetrics
	logger   *zap.Logger
	sleep    func(context.Context, time.Duration) error
	now      func() time.Time
	random   func() float64
}

var _ portsout.CarrierProvider = (*Retry)(nil)

func NewRetry(
	provider portsout.CarrierProvider,
	reliabilityMetrics portsout.ReliabilityMetrics,
	logger *zap.Logger,
	opts ...RetryOption,
) *Retry {
	if reliabilityMetrics == nil {
		reliabilityMetrics = metrics.Nop{}
	}

	retry := &Retry{
		provider: provider,
		policy:   DefaultRetryPolicy(),
		metrics:  reliabilityMetrics,
		logger:   logging.OrNop(logger),
		sleep:    backoff.Sleep,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(retry)
	}
	if retry.policy.MaxRetries < 1 {
		retry.policy.MaxRetries = 1
	}
	return retry
}

func (r *Retry) ID() string {
	return r.provider.ID()
}

func (r *Retry) Quote(ctx context.Context, request entities.ShipmentRequest) ([]entities.Quote, error) {
	return withRetry(ctx, r, OperationQuote, func(ctx context.Context) ([]entities.Quote, error) {
		return r.provider.Quote(ctx, request)
	})
}

func (r *Retry) CreateShipment(ctx context.Context, request entities.ShipmentRequest) (entities.CreatedShipment, error) {
	return withRetry(ctx, r, OperationCreateShipment, func(ctx context.Context) (entities.CreatedShipment, error) {
		return r.provider.CreateShipment(ctx, request)
	})
}

func (r *Retry) CreateLabel(ctx context.Context, shipmentID string) (entities.Label, error) {
	return withRetry(ctx, r, OperationCreateLabel, func(ctx context.Context) (entities.Label, error) {
		return r.provider.CreateLabel(ctx, shipmentID)
	})
}

func (r *Retry) Track(ctx context.Context, trackingCode string) (entities.Tracking, error) {
	return withRetry(ctx, r, OperationTrack, func(ctx context.Context) (entities.Tracking, error) {
		return r.provider.Track(ctx, trackingCode)
	})
}

// IsRetryable reports whether a carrier failure may succeed on a later attempt.
// Circuit-open faults are never retried; errors without a fault classification are not either.
func IsRetryable(err error) bool {
	fault, ok := apperrors.AsFault(err)
	if !ok {
		return false
	}
	if fault.Code == apperrors.CodeCircuitOpen {
		return false
	}
	if apperrors.IsTransientNetworkCode(fault.Code) {
		return true
	}
	return fault.StatusCode >= http.StatusInternalServerError || fault.StatusCode == http.StatusTooManyRequests
}

func retryAfter(err error) time.Duration {
	fault, ok := apperrors.AsFault(err)
	if !ok || fault.RetryAfter <= 0 {
		return 0
	}
	return time.Duration(fault.RetryAfter) * time.Second
}

func withRetry[T any](ctx context.Context, r *Retry, operation string, call func(context.Context) (T, error)) (T, error) {
	providerID := r.ID()
	fields := append([]zap.Field{
		zap.String("provider_id", providerID),
		zap.String("operation", operation),
	}, logging.FieldsFromContext(ctx)...)

	var (
		result  T
		lastErr error
	)
	startedAt := r.now()

	for attempt := 1; attempt <= r.policy.MaxRetries; attempt++ {
		attemptStartedAt := r.now()
		result, lastErr = call(ctx)
		latency := r.now().Sub(attemptStartedAt)
		if lastErr == nil {
			r.metrics.ObserveRequestLatency(providerID, operation, "success", latency)
			return result, nil
		}

		retryable := IsRetryable(lastErr)
		r.metrics.IncRetryAttempt(providerID, operation, retryable)
		r.metrics.ObserveRequestLatency(providerID, operation, "error", latency)
		r.logger.Warn(
			"Provider operation failed, retrying...",
			append(fields,
				zap.Int("attempt", attempt),
				zap.Int("max_retries", r.policy.MaxRetries),
				zap.Bool("retryable", retryable),
				zap.Error(lastErr),
			)...,
		)

		if !retryable || attempt == r.policy.MaxRetries {
			break
		}

		elapsed := r.now().Sub(startedAt)
		if elapsed >= r.policy.MaxRetryTime {
			r.logger.Warn(
				"Retry budget exhausted before next attempt",
				append(fields,
					zap.Int64("elapsed_ms", elapsed.Milliseconds()),
					zap.Int64("max_retry_time_ms", r.policy.MaxRetryTime.Milliseconds()),
				)...,
			)
			break
		}

		wait := backoff.Delay(attempt, backoff.Options{
			BaseDelay: r.policy.BaseDelay,
			MaxDelay:  r.policy.MaxDelay,
			Jitter:    backoff.JitterEqual,
			Random:    r.random,
		})
		wait = max(wait, retryAfter(lastErr))

		r.logger.Info(
			"Waiting before retry attempt",
			append(fields, zap.Int("attempt", attempt), zap.Int64("delay_ms", wait.Milliseconds()))...,
		)

		if elapsed+wait > r.policy.MaxRetryTime {
			r.logger.Warn(
				"Skipping retry because it exceeds retry budget",
				append(fields,
					zap.Int64("elapsed_ms", elapsed.Milliseconds()),
					zap.Int64("wait_ms", wait.Milliseconds()),
					zap.Int64("max_retry_time_ms", r.policy.MaxRetryTime.Milliseconds()),
				)...,
			)
			break
		}

		if err := r.sleep(ctx, wait); err != nil {
			r.logger.Warn("Retry wait interrupted", append(fields, zap.Error(err))...)
			break
		}
	}

	r.logger.Error("Provider operation failed after all retries", fields...)
	var zero T
	return zero, lastErr
}
