package backoff

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

type Jitter string

const (
	JitterNone  Jitter = "none"
	JitterFull  Jitter = "full"
	JitterEqual Jitter = "equal"
)

const DefaultMaxDelay = 30 * time.Second

type Options struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Jitter    Jitter
	// Random returns a value in [0, 1). Defaults to math/rand.
	Random func() float64
}

// Delay computes the wait before the given 1-based attempt.
// The exponential term doubles per attempt and is capped at MaxDelay before jitter is applied.
func Delay(attempt int, opts Options) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	maxDelay := opts.MaxDelay
	if maxDelay <= 0 {
		maxDelay = DefaultMaxDelay
	}
	jitter := opts.Jitter
	if jitter == "" {
		jitter = JitterFull
	}
	random := opts.Random
	if random == nil {
		random = rand.Float64
	}

	baseMS := float64(opts.BaseDelay.Milliseconds())
	capMS := math.Min(baseMS*math.Pow(2, float64(attempt-1)), float64(maxDelay.Milliseconds()))

	var delayMS float64
	switch jitter {
	case JitterNone:
		delayMS = capMS
	case JitterEqual:
		half := capMS / 2
		delayMS = half + random()*half
	default:
		delayMS = random() * capMS
	}

	return time.Duration(math.Round(delayMS)) * time.Millisecond
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// WebhookSchedule waits 1s, 2s, 4s... up to 30s with equal jitter.
func WebhookSchedule() Schedule {
	return Schedule{Options: Options{
		BaseDelay: time.Second,
		MaxDelay:  DefaultMaxDelay,
		Jitter:    JitterEqual,
	}}
}

// Schedule binds Options to a fixed policy.
type Schedule struct {
	Options Options
}

func (s Schedule) Delay(attempt int) time.Duration {
	return Delay(attempt, s.Options)
}
