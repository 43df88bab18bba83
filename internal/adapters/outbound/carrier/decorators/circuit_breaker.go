package decorators

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	portsout "freightflow/internal/application/ports/out"
	"freightflow/internal/domain/entities"
	"freightflow/internal/infrastructure/metrics"
	"freightflow/internal/infrastructure/reliability/circuitbreaker"
	apperrors "freightflow/internal/shared_kernel/errors"
	"freightflow/internal/shared_kernel/logging"
)

type staticProfile string

func (p staticProfile) ProfileName(string) string {
	return string(p)
}

// CircuitBreaker keeps one rolling-window breaker per carrier operation.
type CircuitBreaker struct {
	provider portsout.CarrierProvider
	policy   circuitbreaker.Policy
	profiles ProfileNamer
	metrics  portsout.ReliabilityMetrics
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	circuits map[string]*circuitbreaker.Breaker
}

var _ portsout.CarrierProvider = (*CircuitBreaker)(nil)

func NewCircuitBreaker(
	provider portsout.CarrierProvider,
	policy circuitbreaker.Policy,
	profiles ProfileNamer,
	reliabilityMetrics portsout.ReliabilityMetrics,
	logger *zap.Logger,
) *CircuitBreaker {
	if profiles == nil {
		profiles = staticProfile("default")
	}
	if reliabilityMetrics == nil {
		reliabilityMetrics = metrics.Nop{}
	}

	return &CircuitBreaker{
		provider: provider,
		policy:   policy,
		profiles: profiles,
		metrics:  reliabilityMetrics,
		logger:   logging.OrNop(logger),
		now:      time.Now,
		circuits: make(map[string]*circuitbreaker.Breaker),
	}
}

func (c *CircuitBreaker) ID() string {
	return c.provider.ID()
}

// Circuit returns the breaker for operation, creating it on first use.
func (c *CircuitBreaker) Circuit(operation string) *circuitbreaker.Breaker {
	c.mu.Lock()
	defer c.mu.Unlock()

	circuit, ok := c.circuits[operation]
	if !ok {
		circuit = circuitbreaker.New(c.policy)
		c.circuits[operation] = circuit
	}
	return circuit
}

func (c *CircuitBreaker) Quote(ctx context.Context, request entities.ShipmentRequest) ([]entities.Quote, error) {
	return execute(ctx, c, OperationQuote, func(ctx context.Context) ([]entities.Quote, error) {
		return c.provider.Quote(ctx, request)
	})
}

func (c *CircuitBreaker) CreateShipment(ctx context.Context, request entities.ShipmentRequest) (entities.CreatedShipment, error) {
	return execute(ctx, c, OperationCreateShipment, func(ctx context.Context) (entities.CreatedShipment, error) {
		return c.provider.CreateShipment(ctx, request)
	})
}

func (c *CircuitBreaker) CreateLabel(ctx context.Context, shipmentID string) (entities.Label, error) {
	return execute(ctx, c, OperationCreateLabel, func(ctx context.Context) (entities.Label, error) {
		return c.provider.CreateLabel(ctx, shipmentID)
	})
}

func (c *CircuitBreaker) Track(ctx context.Context, trackingCode string) (entities.Tracking, error) {
	return execute(ctx, c, OperationTrack, func(ctx context.Context) (entities.Tracking, error) {
		return c.provider.Track(ctx, trackingCode)
	})
}

// countsAsFailure is false for client-side statuses, which only release a half-open probe slot.
func countsAsFailure(err error) bool {
	fault, ok := apperrors.AsFault(err)
	if !ok || fault.StatusCode == 0 {
		return true
	}
	return fault.StatusCode >= http.StatusInternalServerError || fault.StatusCode == http.StatusTooManyRequests
}

func statusLabel(err error) string {
	fault, ok := apperrors.AsFault(err)
	if !ok || fault.StatusCode == 0 {
		return "unknown"
	}
	return strconv.Itoa(fault.StatusCode)
}

func execute[T any](ctx context.Context, c *CircuitBreaker, operation string, call func(context.Context) (T, error)) (T, error) {
	var zero T
	circuit := c.Circuit(operation)

	before := circuit.State()
	if err := circuit.Allow(c.now()); err != nil {
		if apperrors.IsCircuitOpen(err) {
			c.metrics.IncBreakerShortCircuit(c.ID(), operation, c.profiles.ProfileName(c.ID()))
			return zero, apperrors.NewCircuitOpenFault(
				fmt.Sprintf("Circuit is open for provider %s on operation %s", c.ID(), operation),
			)
		}
		return zero, err
	}
	c.logTransition(ctx, operation, circuit, before, "allow")

	result, err := call(ctx)
	if err == nil {
		before = circuit.State()
		circuit.OnSuccess(c.now())
		c.logTransition(ctx, operation, circuit, before, "success")
		return result, nil
	}

	if countsAsFailure(err) {
		c.metrics.IncProviderError(c.ID(), operation, c.profiles.ProfileName(c.ID()), statusLabel(err))
		before = circuit.State()
		circuit.OnFailure(c.now())
		c.logTransition(ctx, operation, circuit, before, "failure")
	} else {
		circuit.OnBypassHalfOpen()
	}

	return zero, err
}

func (c *CircuitBreaker) logTransition(
	ctx context.Context,
	operation string,
	circuit *circuitbreaker.Breaker,
	previous circuitbreaker.State,
	event string,
) {
	next := circuit.State()
	if previous == next {
		return
	}

	profile := c.profiles.ProfileName(c.ID())
	snapshot := circuit.Snapshot(c.now())
	fields := append([]zap.Field{
		zap.String("provider_id", c.ID()),
		zap.String("operation", operation),
		zap.String("profile", profile),
		zap.String("previous_state", string(previous)),
		zap.String("next_state", string(next)),
		zap.String("event", event),
		zap.Float64("failure_rate", snapshot.FailureRate),
		zap.Int("total_requests", snapshot.TotalRequests),
		zap.Int("total_failures", snapshot.TotalFailures),
		zap.Int("half_open_in_flight", snapshot.HalfOpenInFlight),
	}, logging.FieldsFromContext(ctx)...)

	if next == circuitbreaker.StateOpen {
		c.metrics.IncBreakerOpen(c.ID(), operation, profile)
		c.logger.Warn("Circuit transitioned to OPEN", fields...)
		return
	}

	c.logger.Info("Circuit transitioned to "+string(next), fields...)
}
