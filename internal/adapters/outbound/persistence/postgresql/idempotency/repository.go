package idempotency

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"freightflow/internal/application/dto"
	portsout "freightflow/internal/application/ports/out"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type Repository struct {
	db *sql.DB
}

var _ portsout.IdempotencyRepository = (*Repository)(nil)

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// WithKeyLock serializes callers of the same key with a transaction-scoped advisory lock.
// The lock is released when the transaction commits or rolls back.
func (r *Repository) WithKeyLock(
	ctx context.Context,
	key string,
	fn func(tx portsout.IdempotencyKeyTx) *apperrors.AppError,
) *apperrors.AppError {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storeFailed("failed to begin idempotency transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return storeFailed("failed to lock idempotency key", err)
	}

	if appErr := fn(&keyTx{tx: tx}); appErr != nil {
		return appErr
	}

	if err := tx.Commit(); err != nil {
		return storeFailed("failed to commit idempotency transaction", err)
	}
	return nil
}

func (r *Repository) Finish(ctx context.Context, key string, responseBody json.RawMessage, statusCode int) *apperrors.AppError {
	const query = `
UPDATE app.idempotency_keys
SET response_body = $2, status_code = $3
WHERE key = $1
`
	if _, err := r.db.ExecContext(ctx, query, key, []byte(responseBody), statusCode); err != nil {
		return storeFailed("failed to store idempotent response", err)
	}
	return nil
}

// Abandon removes the key only while it is still processing.
func (r *Repository) Abandon(ctx context.Context, key string) *apperrors.AppError {
	const query = `
DELETE FROM app.idempotency_keys
WHERE key = $1
  AND status_code IS NULL
`
	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return storeFailed("failed to abandon idempotency key", err)
	}
	return nil
}

type keyTx struct {
	tx *sql.Tx
}

func (t *keyTx) Find(ctx context.Context, key string) (dto.IdempotencyRecord, bool, *apperrors.AppError) {
	const query = `
SELECT key, payload_hash, response_body, COALESCE(status_code, 0), created_at
FROM app.idempotency_keys
WHERE key = $1
`
	var (
		record       dto.IdempotencyRecord
		responseBody []byte
	)
	err := t.tx.QueryRowContext(ctx, query, key).Scan(
		&record.Key,
		&record.PayloadHash,
		&responseBody,
		&record.StatusCode,
		&record.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return dto.IdempotencyRecord{}, false, nil
	}
	if err != nil {
		return dto.IdempotencyRecord{}, false, storeFailed("failed to load idempotency key", err)
	}
	if len(responseBody) > 0 {
		record.ResponseBody = json.RawMessage(responseBody)
	}
	record.CreatedAt = record.CreatedAt.UTC()
	return record, true, nil
}

func (t *keyTx) Insert(ctx context.Context, record dto.IdempotencyRecord) *apperrors.AppError {
	const query = `
INSERT INTO app.idempotency_keys (key, payload_hash, created_at)
VALUES ($1, $2, $3)
`
	if _, err := t.tx.ExecContext(ctx, query, record.Key, record.PayloadHash, record.CreatedAt.UTC()); err != nil {
		return storeFailed("failed to insert idempotency key", err)
	}
	return nil
}

func (t *keyTx) Delete(ctx context.Context, key string) *apperrors.AppError {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM app.idempotency_keys WHERE key = $1`, key); err != nil {
		return storeFailed("failed to delete idempotency key", err)
	}
	return nil
}

func storeFailed(message string, err error) *apperrors.AppError {
	return apperrors.NewInternal(
		"idempotency_store_failed",
		message,
		map[string]any{"error": err.Error()},
	)
}
