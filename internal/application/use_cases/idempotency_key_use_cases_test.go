//go:build !integration

package use_cases

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightflow/internal/application/dto"
)

func TestHashIdempotencyPayloadIgnoresKeyOrder(t *testing.T) {
	left := HashIdempotencyPayload([]byte(`{"weight":2,"originZip":"10001","dimensions":{"width":1,"height":2}}`))
	right := HashIdempotencyPayload([]byte(`{ "originZip":"10001", "dimensions":{"height":2,"width":1}, "weight":2 }`))
	assert.Equal(t, left, right)

	assert.NotEqual(t, left, HashIdempotencyPayload([]byte(`{"weight":3}`)))
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", HashIdempotencyPayload(nil))
	assert.Equal(t, HashIdempotencyPayload(nil), HashIdempotencyPayload([]byte("  ")))
}

func TestAcquireIdempotencyKeyLifecycle(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repository := newMemoryIdempotencyRepository()
	acquire := NewAcquireIdempotencyKeyUseCase(repository, time.Minute, fixedClock{now: now})
	complete := NewCompleteIdempotencyKeyUseCase(repository)
	ctx := context.Background()
	payload := []byte(`{"a":1}`)

	first, appErr := acquire.Execute(ctx, dto.AcquireIdempotencyKeyCommand{Key: "k1", Payload: payload})
	require.Nil(t, appErr)
	assert.Equal(t, dto.IdempotencyProceed, first.Outcome)

	inFlight, appErr := acquire.Execute(ctx, dto.AcquireIdempotencyKeyCommand{Key: "k1", Payload: payload})
	require.Nil(t, appErr)
	assert.Equal(t, dto.IdempotencyConflict, inFlight.Outcome)

	require.Nil(t, complete.Execute(ctx, dto.CompleteIdempotencyKeyCommand{
		Key:          "k1",
		ResponseBody: json.RawMessage(`{"shipmentId":"rs_1"}`),
		StatusCode:   201,
	}))

	hit, appErr := acquire.Execute(ctx, dto.AcquireIdempotencyKeyCommand{Key: "k1", Payload: []byte(`{ "a": 1 }`)})
	require.Nil(t, appErr)
	assert.Equal(t, dto.IdempotencyHit, hit.Outcome)
	assert.Equal(t, 201, hit.StatusCode)
	assert.JSONEq(t, `{"shipmentId":"rs_1"}`, string(hit.ResponseBody))

	mismatch, appErr := acquire.Execute(ctx, dto.AcquireIdempotencyKeyCommand{Key: "k1", Payload: []byte(`{"a":2}`)})
	require.Nil(t, appErr)
	assert.Equal(t, dto.IdempotencyConflict, mismatch.Outcome)
}

func TestAcquireIdempotencyKeyTakesOverStaleProcessing(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repository := newMemoryIdempotencyRepository()
	repository.records["k1"] = dto.IdempotencyRecord{
		Key:         "k1",
		PayloadHash: HashIdempotencyPayload(nil),
		CreatedAt:   createdAt,
	}
	acquire := NewAcquireIdempotencyKeyUseCase(repository, time.Minute, nil)

	early, _ := acquire.Execute(context.Background(), dto.AcquireIdempotencyKeyCommand{Key: "k1", Now: createdAt.Add(59 * time.Second)})
	assert.Equal(t, dto.IdempotencyConflict, early.Outcome)

	stale, appErr := acquire.Execute(context.Background(), dto.AcquireIdempotencyKeyCommand{Key: "k1", Now: createdAt.Add(time.Minute)})
	require.Nil(t, appErr)
	assert.Equal(t, dto.IdempotencyProceed, stale.Outcome)
	assert.Equal(t, createdAt.Add(time.Minute), repository.records["k1"].CreatedAt)
}

func TestAcquireIdempotencyKeyConcurrentCallersSingleProceed(t *testing.T) {
	repository := newMemoryIdempotencyRepository()
	acquire := NewAcquireIdempotencyKeyUseCase(repository, 0, nil)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		outcomes = map[dto.IdempotencyOutcome]int{}
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			output, appErr := acquire.Execute(context.Background(), dto.AcquireIdempotencyKeyCommand{Key: "race", Payload: []byte(`{}`)})
			if appErr != nil {
				return
			}
			mu.Lock()
			outcomes[output.Outcome]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, outcomes[dto.IdempotencyProceed])
	assert.Equal(t, 1, outcomes[dto.IdempotencyConflict])
}

func TestReleaseIdempotencyKeyOnlyDropsProcessingKeys(t *testing.T) {
	repository := newMemoryIdempotencyRepository()
	acquire := NewAcquireIdempotencyKeyUseCase(repository, 0, nil)
	complete := NewCompleteIdempotencyKeyUseCase(repository)
	release := NewReleaseIdempotencyKeyUseCase(repository)
	ctx := context.Background()

	_, _ = acquire.Execute(ctx, dto.AcquireIdempotencyKeyCommand{Key: "abandon"})
	require.Nil(t, release.Execute(ctx, dto.ReleaseIdempotencyKeyCommand{Key: "abandon"}))
	assert.NotContains(t, repository.records, "abandon")

	_, _ = acquire.Execute(ctx, dto.AcquireIdempotencyKeyCommand{Key: "done"})
	require.Nil(t, complete.Execute(ctx, dto.CompleteIdempotencyKeyCommand{Key: "done", StatusCode: 400}))
	require.Nil(t, release.Execute(ctx, dto.ReleaseIdempotencyKeyCommand{Key: "done"}))
	assert.Contains(t, repository.records, "done")
	assert.JSONEq(t, `null`, string(repository.records["done"].ResponseBody))
}

func TestIdempotencyUseCasesValidateInput(t *testing.T) {
	repository := newMemoryIdempotencyRepository()

	_, appErr := NewAcquireIdempotencyKeyUseCase(repository, 0, nil).Execute(context.Background(), dto.AcquireIdempotencyKeyCommand{Key: " "})
	require.NotNil(t, appErr)
	assert.Equal(t, "invalid_request", appErr.Code)

	appErr = NewCompleteIdempotencyKeyUseCase(repository).Execute(context.Background(), dto.CompleteIdempotencyKeyCommand{Key: "k", StatusCode: 42})
	require.NotNil(t, appErr)

	appErr = NewReleaseIdempotencyKeyUseCase(nil).Execute(context.Background(), dto.ReleaseIdempotencyKeyCommand{Key: "k"})
	require.NotNil(t, appErr)
	assert.Equal(t, "idempotency_repository_missing", appErr.Code)
}
