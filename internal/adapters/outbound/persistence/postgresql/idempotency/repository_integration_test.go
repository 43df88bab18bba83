//go:build integration

package idempotency

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightflow/internal/adapters/outbound/persistence/postgresql/testsupport"
	"freightflow/internal/application/dto"
	portsout "freightflow/internal/application/ports/out"
	apperrors "freightflow/internal/shared_kernel/errors"
)

func acquire(ctx context.Context, repository *Repository, key, hash string) (string, *apperrors.AppError) {
	outcome := ""
	appErr := repository.WithKeyLock(ctx, key, func(tx portsout.IdempotencyKeyTx) *apperrors.AppError {
		_, found, appErr := tx.Find(ctx, key)
		if appErr != nil {
			return appErr
		}
		if found {
			outcome = "CONFLICT"
			return nil
		}
		outcome = "PROCEED"
		return tx.Insert(ctx, dto.IdempotencyRecord{Key: key, PayloadHash: hash, CreatedAt: time.Now()})
	})
	return outcome, appErr
}

func TestWithKeyLockAdmitsExactlyOneConcurrentCaller(t *testing.T) {
	repository := NewRepository(testsupport.MigratedDatabase(t))
	ctx := context.Background()
	key := "idem-" + uuid.NewString()

	const callers = 8
	outcomes := make([]string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcome, appErr := acquire(ctx, repository, key, "hash")
			assert.Nil(t, appErr)
			outcomes[i] = outcome
		}(i)
	}
	wg.Wait()

	proceeds := 0
	for _, outcome := range outcomes {
		if outcome == "PROCEED" {
			proceeds++
		}
	}
	assert.Equal(t, 1, proceeds)
}

func TestFinishStoresResponseAndAbandonKeepsFinishedKeys(t *testing.T) {
	repository := NewRepository(testsupport.MigratedDatabase(t))
	ctx := context.Background()
	key := "idem-" + uuid.NewString()

	outcome, appErr := acquire(ctx, repository, key, "hash")
	require.Nil(t, appErr)
	require.Equal(t, "PROCEED", outcome)

	require.Nil(t, repository.Finish(ctx, key, json.RawMessage(`{"shipmentId":"acme_shp_1"}`), 201))
	require.Nil(t, repository.Abandon(ctx, key))

	var record dto.IdempotencyRecord
	var found bool
	require.Nil(t, repository.WithKeyLock(ctx, key, func(tx portsout.IdempotencyKeyTx) *apperrors.AppError {
		var appErr *apperrors.AppError
		record, found, appErr = tx.Find(ctx, key)
		return appErr
	}))
	require.True(t, found)
	assert.Equal(t, 201, record.StatusCode)
	assert.JSONEq(t, `{"shipmentId":"acme_shp_1"}`, string(record.ResponseBody))
}

func TestAbandonDeletesProcessingKey(t *testing.T) {
	repository := NewRepository(testsupport.MigratedDatabase(t))
	ctx := context.Background()
	key := "idem-" + uuid.NewString()

	_, appErr := acquire(ctx, repository, key, "hash")
	require.Nil(t, appErr)
	require.Nil(t, repository.Abandon(ctx, key))

	outcome, appErr := acquire(ctx, repository, key, "hash")
	require.Nil(t, appErr)
	assert.Equal(t, "PROCEED", outcome)
}
