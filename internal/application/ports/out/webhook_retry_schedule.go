package out

import "time"

// WebhookRetrySchedule returns the wait before the given 1-based delivery attempt.
type WebhookRetrySchedule interface {
	Delay(attempt int) time.Duration
}
