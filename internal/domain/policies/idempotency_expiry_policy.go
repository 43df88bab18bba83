package policies

import "time"

const DefaultIdempotencyProcessingTimeout = 5 * time.Minute

// IsIdempotencyProcessingStale reports whether an in-flight key was abandoned by a crashed request.
func IsIdempotencyProcessingStale(createdAt, now time.Time, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = DefaultIdempotencyProcessingTimeout
	}
	return !createdAt.After(now.Add(-timeout))
}
