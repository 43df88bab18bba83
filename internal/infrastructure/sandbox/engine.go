package sandbox

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"freightflow/internal/domain/entities"
	valueobjects "freightflow/internal/domain/value_objects"
	"freightflow/internal/infrastructure/reliability/backoff"
	"freightflow/internal/shared_kernel/logging"
)

const consistencyLagProbability = 0.45

type OutcomeRecorder interface {
	IncSandboxOutcome(providerID, operation, outcome string)
}

type EngineOption func(*Engine)

func WithSleeper(sleep func(context.Context, time.Duration) error) EngineOption {
	return func(e *Engine) {
		if sleep != nil {
			e.sleep = sleep
		}
	}
}

func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func WithOutcomeRecorder(recorder OutcomeRecorder) EngineOption {
	return func(e *Engine) {
		e.recorder = recorder
	}
}

// Engine injects latency, rate limiting, faults and payload divergence into one provider's calls.
// The rng is seeded once from the runtime seed plus seedOffset, so a fixed seed replays the same sequence.
type Engine struct {
	providerID string
	runtime    *Runtime
	limiter    *RateLimiter
	logger     *zap.Logger
	recorder   OutcomeRecorder
	sleep      func(context.Context, time.Duration) error
	now        func() time.Time

	rngMu sync.Mutex
	rng   *SeededRng
}

func NewEngine(
	providerID string,
	seedOffset int64,
	runtime *Runtime,
	limiter *RateLimiter,
	logger *zap.Logger,
	opts ...EngineOption,
) *Engine {
	engine := &Engine{
		providerID: valueobjects.NormalizeProviderID(providerID),
		runtime:    runtime,
		limiter:    limiter,
		logger:     logging.OrNop(logger),
		sleep:      backoff.Sleep,
		now:        time.Now,
		rng:        NewSeededRng(runtime.Settings().Seed + seedOffset),
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

func (e *Engine) ProviderID() string {
	return e.providerID
}

func (e *Engine) Should(probability float64) bool {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()

	return e.rng.Chance(probability)
}

func (e *Engine) nextInt(minInclusive, maxInclusive int) int {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()

	return e.rng.NextInt(minInclusive, maxInclusive)
}

func (e *Engine) next() float64 {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()

	return e.rng.Next()
}

// Maybe shuffles values with the given probability.
func Maybe[T any](e *Engine, probability float64, values []T) []T {
	if !e.Should(probability) || len(values) < 2 {
		return values
	}

	e.rngMu.Lock()
	defer e.rngMu.Unlock()

	return ShuffleDeterministic(values, e.rng)
}

func (e *Engine) computeLatency(latency Latency) time.Duration {
	if latency.Jitter <= 0 {
		return max(0, latency.Base)
	}
	jitter := time.Duration(e.nextInt(0, int(latency.Jitter.Milliseconds()))) * time.Millisecond
	return max(0, latency.Base+jitter)
}

// Run executes action under the provider's sandbox profile.
// mutate may be nil; when set it is applied with the profile's payloadDivergence probability.
func Run[T any](
	ctx context.Context,
	e *Engine,
	operation Operation,
	action func(context.Context) (T, error),
	mutate func(T) T,
) (T, error) {
	var zero T

	settings := e.runtime.Settings()
	profile := e.runtime.Profile(e.providerID)
	fields := []zap.Field{
		zap.String("provider_id", e.providerID),
		zap.String("operation", string(operation)),
		zap.String("profile", profile.Name),
	}
	fields = append(fields, logging.FieldsFromContext(ctx)...)

	if latency := e.computeLatency(profile.Latency); latency > 0 {
		if err := e.sleep(ctx, latency); err != nil {
			return zero, err
		}
	}

	if settings.RateLimitEnabled {
		decision := e.limiter.Consume(e.providerID+":"+string(operation), profile.RateLimit, e.now())
		if !decision.Allowed {
			e.count(operation, "rate_limited")
			e.logger.Warn("sandbox rate limit applied", append(fields, zap.String("outcome", "rate_limited"))...)
			return zero, MakeFaultError(operation, e.providerID, FaultHTTP429, decision.RetryAfterSeconds)
		}
	}

	rates := profile.Rates(operation)
	if settings.ChaosEnabled {
		fault := PickFaultKind(e.next(), rates)
		if fault != FaultNone && fault != FaultPayloadDivergence {
			outcome := "fault_" + string(fault)
			e.count(operation, outcome)
			e.logger.Warn("sandbox injected failure", append(fields, zap.String("outcome", outcome))...)
			return zero, MakeFaultError(operation, e.providerID, fault, 0)
		}
	}

	result, err := action(ctx)
	if err != nil {
		return zero, err
	}

	if operation == OperationTracking && profile.ConsistencyLag > 0 {
		if tracking, ok := any(result).(entities.Tracking); ok {
			if lagged, applied := e.applyConsistencyLag(tracking, profile.ConsistencyLag); applied {
				e.count(operation, "consistency_lag")
				result = any(lagged).(T)
			}
		}
	}

	if settings.ChaosEnabled && mutate != nil && e.Should(rates.PayloadDivergence) {
		e.count(operation, "payload_divergence")
		e.logger.Warn("sandbox mutated payload for divergence scenario", fields...)
		return mutate(result), nil
	}

	e.count(operation, "success")
	e.logger.Info("sandbox operation completed", append(fields, zap.String("outcome", "success"))...)
	return result, nil
}

// applyConsistencyLag simulates a stale read: the newest event is missing and the poll time lags behind.
func (e *Engine) applyConsistencyLag(tracking entities.Tracking, lag time.Duration) (entities.Tracking, bool) {
	if len(tracking.Events) <= 1 || !e.Should(consistencyLagProbability) {
		return tracking, false
	}

	events := make([]entities.TrackingEvent, len(tracking.Events)-1)
	copy(events, tracking.Events[:len(tracking.Events)-1])
	tracking.Events = events
	if tracking.Status == valueobjects.TrackingStatusDelivered {
		tracking.Status = valueobjects.TrackingStatusInTransit
	}
	if !tracking.LastPolledAt.IsZero() {
		tracking.LastPolledAt = tracking.LastPolledAt.Add(-lag)
	}

	return tracking, true
}

func (e *Engine) count(operation Operation, outcome string) {
	e.runtime.IncrementCounter(e.providerID, operation, outcome)
	if e.recorder != nil {
		e.recorder.IncSandboxOutcome(e.providerID, string(operation), outcome)
	}
}
