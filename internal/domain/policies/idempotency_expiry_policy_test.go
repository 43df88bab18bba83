//go:build !integration

package policies

import (
	"testing"
	"time"
)

func TestIsIdempotencyProcessingStale(t *testing.T) {
	now := time.Date(2026, 2, 26, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		createdAt time.Time
		timeout   time.Duration
		want      bool
	}{
		{name: "fresh", createdAt: now.Add(-time.Minute), timeout: 5 * time.Minute, want: false},
		{name: "exactly at boundary", createdAt: now.Add(-5 * time.Minute), timeout: 5 * time.Minute, want: true},
		{name: "old", createdAt: now.Add(-time.Hour), timeout: 5 * time.Minute, want: true},
		{name: "default timeout", createdAt: now.Add(-4 * time.Minute), timeout: 0, want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := IsIdempotencyProcessingStale(tc.createdAt, now, tc.timeout); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
