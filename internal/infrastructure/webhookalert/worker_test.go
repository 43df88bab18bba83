//go:build !integration

package webhookalert

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"freightflow/internal/application/dto"
	apperrors "freightflow/internal/shared_kernel/errors"
)

func TestWorkerDisabledWithoutThresholds(t *testing.T) {
	t.Parallel()

	fakeOverview := &fakeOverviewUseCase{}
	worker := NewWorker(10*time.Millisecond, fakeOverview, AlertConfig{Enabled: true}, nil, nil)
	assert.False(t, worker.Enabled())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	worker.Start(ctx)

	assert.Zero(t, fakeOverview.calls())
}

func TestWorkerRunsCycleWithAlertLifecycleLogs(t *testing.T) {
	t.Parallel()

	fakeOverview := &fakeOverviewUseCase{
		overviews: []dto.WebhookEventOverview{
			{FailedCount: 3},
			{FailedCount: 4},
			{FailedCount: 5},
			{FailedCount: 1},
		},
	}
	core, logs := observer.New(zapcore.InfoLevel)
	recorder := &recordingAlerts{}

	worker := NewWorker(
		10*time.Millisecond,
		fakeOverview,
		AlertConfig{Enabled: true, Cooldown: 60 * time.Second, FailedCountThreshold: 2},
		recorder,
		zap.New(core),
	)

	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	worker.now = func() time.Time { return now }

	ctx := context.Background()
	worker.runCycle(ctx)
	now = now.Add(30 * time.Second)
	worker.runCycle(ctx)
	now = now.Add(31 * time.Second)
	worker.runCycle(ctx)
	now = now.Add(30 * time.Second)
	worker.runCycle(ctx)

	alerts := logs.FilterMessage("webhook alert").All()
	require.Len(t, alerts, 3)
	assert.Equal(t, "triggered", alerts[0].ContextMap()["state"])
	assert.Equal(t, zapcore.WarnLevel, alerts[0].Level)
	assert.Equal(t, "ongoing", alerts[1].ContextMap()["state"])
	assert.Equal(t, "resolved", alerts[2].ContextMap()["state"])
	assert.Equal(t, zapcore.InfoLevel, alerts[2].Level)
	assert.Equal(t, []string{"failed_count:triggered", "failed_count:ongoing", "failed_count:resolved"}, recorder.events)
}

func TestWorkerOverviewFailureDoesNotStopCycle(t *testing.T) {
	t.Parallel()

	fakeOverview := &fakeOverviewUseCase{
		err: apperrors.NewInternal("overview_failed", "overview failed", nil),
	}
	core, logs := observer.New(zapcore.InfoLevel)

	worker := NewWorker(
		10*time.Millisecond,
		fakeOverview,
		AlertConfig{Enabled: true, Cooldown: 60 * time.Second, FailedCountThreshold: 1},
		nil,
		zap.New(core),
	)

	worker.runCycle(context.Background())
	worker.runCycle(context.Background())

	assert.Equal(t, 2, fakeOverview.calls())
	assert.Equal(t, 2, logs.FilterMessage("webhook alert evaluation failed").Len())
}

func TestWorkerStartStopsOnCancel(t *testing.T) {
	t.Parallel()

	fakeOverview := &fakeOverviewUseCase{overviews: []dto.WebhookEventOverview{{FailedCount: 9}}}
	worker := NewWorker(
		5*time.Millisecond,
		fakeOverview,
		AlertConfig{Enabled: true, FailedCountThreshold: 1},
		nil,
		nil,
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Start(ctx)
	}()

	require.Eventually(t, func() bool { return fakeOverview.calls() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

type fakeOverviewUseCase struct {
	mu        sync.Mutex
	callCount int
	overviews []dto.WebhookEventOverview
	err       *apperrors.AppError
}

func (f *fakeOverviewUseCase) Execute(_ context.Context, _ dto.GetWebhookEventOverviewQuery) (dto.WebhookEventOverview, *apperrors.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callCount++
	if f.err != nil {
		return dto.WebhookEventOverview{}, f.err
	}
	if len(f.overviews) == 0 {
		return dto.WebhookEventOverview{}, nil
	}
	index := f.callCount - 1
	if index >= len(f.overviews) {
		index = len(f.overviews) - 1
	}
	return f.overviews[index], nil
}

func (f *fakeOverviewUseCase) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.callCount
}

type recordingAlerts struct {
	events []string
}

func (r *recordingAlerts) IncWebhookAlert(signal, state string) {
	r.events = append(r.events, signal+":"+state)
}
