package circuitbreaker

import (
	"sync"
	"time"

	apperrors "freightflow/internal/shared_kernel/errors"
)

type State string

const (
	StateClosed   State = "CLOSED"
	StateOpen     State = "OPEN"
	StateHalfOpen State = "HALF_OPEN"
)

type Policy struct {
	FailureRateThreshold    float64
	MinimumRequestThreshold int
	RollingWindow           time.Duration
	NumberOfBuckets         int
	OpenStateDelay          time.Duration
	HalfOpenMaxCalls        int
}

func DefaultPolicy() Policy {
	return Policy{
		FailureRateThreshold:    0.5,
		MinimumRequestThreshold: 20,
		RollingWindow:           30 * time.Second,
		NumberOfBuckets:         10,
		OpenStateDelay:          15 * time.Second,
		HalfOpenMaxCalls:        3,
	}
}

// WebhookPolicy is the per-subscription policy used by the delivery worker.
func WebhookPolicy() Policy {
	return Policy{
		FailureRateThreshold:    0.5,
		MinimumRequestThreshold: 10,
		RollingWindow:           30 * time.Second,
		NumberOfBuckets:         10,
		OpenStateDelay:          15 * time.Second,
		HalfOpenMaxCalls:        2,
	}
}

type Snapshot struct {
	State            State
	TotalRequests    int
	TotalFailures    int
	FailureRate      float64
	OpenedAt         *time.Time
	HalfOpenInFlight int
}

type bucket struct {
	startMS  int64
	total    int
	failures int
}

// Breaker is a rolling-window failure-rate circuit breaker.
// The window is a ring of fixed-width time buckets; a bucket is reset lazily when its slot is reused.
type Breaker struct {
	mu                sync.Mutex
	policy            Policy
	state             State
	openedAt          *time.Time
	halfOpenInFlight  int
	halfOpenSuccesses int
	buckets           []bucket
}

func New(policy Policy) *Breaker {
	if policy.NumberOfBuckets <= 0 {
		policy.NumberOfBuckets = DefaultPolicy().NumberOfBuckets
	}
	if policy.HalfOpenMaxCalls <= 0 {
		policy.HalfOpenMaxCalls = 1
	}

	return &Breaker{
		policy:  policy,
		state:   StateClosed,
		buckets: make([]bucket, policy.NumberOfBuckets),
	}
}

func (b *Breaker) Policy() Policy {
	return b.policy
}

// Allow admits a call or returns a circuit-open fault.
// In HALF_OPEN an admitted call holds a probe slot until OnSuccess, OnFailure or OnBypassHalfOpen releases it.
func (b *Breaker) Allow(now time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return nil
	case StateOpen:
		if b.openedAt != nil && now.Sub(*b.openedAt) < b.policy.OpenStateDelay {
			return apperrors.NewCircuitOpenFault("Circuit is open")
		}
		b.state = StateHalfOpen
		b.halfOpenInFlight = 0
		b.halfOpenSuccesses = 0
	}

	if b.halfOpenInFlight >= b.policy.HalfOpenMaxCalls {
		return apperrors.NewCircuitOpenFault("Circuit is half-open and probe capacity is exhausted")
	}
	b.halfOpenInFlight++

	return nil
}

func (b *Breaker) OnSuccess(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen {
		b.releaseProbe()
		b.halfOpenSuccesses++
		if b.halfOpenSuccesses >= b.policy.HalfOpenMaxCalls {
			b.close()
		}
		return
	}

	b.record(now, false)
}

func (b *Breaker) OnFailure(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen {
		b.releaseProbe()
		b.open(now)
		return
	}

	b.record(now, true)
	total, failures := b.windowStats(now)
	if total >= b.policy.MinimumRequestThreshold && failureRate(total, failures) >= b.policy.FailureRateThreshold {
		b.open(now)
	}
}

// OnBypassHalfOpen releases a probe slot for a call whose outcome is not counted.
func (b *Breaker) OnBypassHalfOpen() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen {
		b.releaseProbe()
	}
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

func (b *Breaker) Snapshot(now time.Time) Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	total, failures := b.windowStats(now)
	snapshot := Snapshot{
		State:            b.state,
		TotalRequests:    total,
		TotalFailures:    failures,
		FailureRate:      failureRate(total, failures),
		HalfOpenInFlight: b.halfOpenInFlight,
	}
	if b.openedAt != nil {
		openedAt := *b.openedAt
		snapshot.OpenedAt = &openedAt
	}

	return snapshot
}

func (b *Breaker) releaseProbe() {
	if b.halfOpenInFlight > 0 {
		b.halfOpenInFlight--
	}
}

func (b *Breaker) open(now time.Time) {
	openedAt := now
	b.state = StateOpen
	b.openedAt = &openedAt
	b.halfOpenInFlight = 0
	b.halfOpenSuccesses = 0
}

func (b *Breaker) close() {
	b.state = StateClosed
	b.openedAt = nil
	b.halfOpenInFlight = 0
	b.halfOpenSuccesses = 0
	for i := range b.buckets {
		b.buckets[i] = bucket{}
	}
}

func (b *Breaker) bucketDurationMS() int64 {
	duration := b.policy.RollingWindow.Milliseconds() / int64(len(b.buckets))
	if duration < 1 {
		return 1
	}
	return duration
}

func (b *Breaker) record(now time.Time, failed bool) {
	nowMS := now.UnixMilli()
	duration := b.bucketDurationMS()
	start := nowMS - nowMS%duration
	idx := (start / duration) % int64(len(b.buckets))

	current := &b.buckets[idx]
	if current.startMS != start {
		*current = bucket{startMS: start}
	}
	current.total++
	if failed {
		current.failures++
	}
}

func (b *Breaker) windowStats(now time.Time) (int, int) {
	cutoff := now.UnixMilli() - b.policy.RollingWindow.Milliseconds()
	total, failures := 0, 0
	for _, current := range b.buckets {
		if current.total == 0 || current.startMS < cutoff {
			continue
		}
		total += current.total
		failures += current.failures
	}
	return total, failures
}

func failureRate(total, failures int) float64 {
	if total == 0 {
		return 0
	}
	return float64(failures) / float64(total)
}
