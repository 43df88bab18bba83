package in

import (
	"context"

	"freightflow/internal/application/dto"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type AcquireIdempotencyKeyUseCase interface {
	Execute(ctx context.Context, command dto.AcquireIdempotencyKeyCommand) (dto.AcquireIdempotencyKeyOutput, *apperrors.AppError)
}
