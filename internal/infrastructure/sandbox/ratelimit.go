package sandbox

import (
	"math"
	"sync"
	"time"
)

type tokenBucket struct {
	tokens       float64
	lastRefillAt time.Time
}

type RateLimitDecision struct {
	Allowed           bool
	RetryAfterSeconds int
}

// RateLimiter is a continuous-refill token bucket keyed by "provider:operation".
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]tokenBucket
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{buckets: make(map[string]tokenBucket)}
}

func (l *RateLimiter) Consume(key string, limit RateLimit, now time.Time) RateLimitDecision {
	l.mu.Lock()
	defer l.mu.Unlock()

	refillPerSecond := limit.RequestsPerMinute / 60
	existing, ok := l.buckets[key]
	if !ok {
		existing = tokenBucket{tokens: limit.Burst, lastRefillAt: now}
	}

	elapsedSeconds := math.Max(0, now.Sub(existing.lastRefillAt).Seconds())
	available := math.Min(limit.Burst, existing.tokens+elapsedSeconds*refillPerSecond)

	if available < 1 {
		l.buckets[key] = tokenBucket{tokens: available, lastRefillAt: now}
		retryAfter := 1
		if refillPerSecond > 0 {
			retryAfter = int(math.Max(1, math.Ceil((1-available)/refillPerSecond)))
		}
		return RateLimitDecision{Allowed: false, RetryAfterSeconds: retryAfter}
	}

	l.buckets[key] = tokenBucket{tokens: available - 1, lastRefillAt: now}
	return RateLimitDecision{Allowed: true}
}

func (l *RateLimiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buckets = make(map[string]tokenBucket)
}
