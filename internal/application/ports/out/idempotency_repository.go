package out

import (
	"context"
	"encoding/json"

	"freightflow/internal/application/dto"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type IdempotencyKeyTx interface {
	Find(ctx context.Context, key string) (dto.IdempotencyRecord, bool, *apperrors.AppError)
	Insert(ctx context.Context, record dto.IdempotencyRecord) *apperrors.AppError
	Delete(ctx context.Context, key string) *apperrors.AppError
}

type IdempotencyRepository interface {
	// WithKeyLock runs fn in one transaction holding an exclusive lock on key.
	// The transaction commits only when fn returns nil.
	WithKeyLock(ctx context.Context, key string, fn func(tx IdempotencyKeyTx) *apperrors.AppError) *apperrors.AppError
	Finish(ctx context.Context, key string, responseBody json.RawMessage, statusCode int) *apperrors.AppError
	Abandon(ctx context.Context, key string) *apperrors.AppError
}
