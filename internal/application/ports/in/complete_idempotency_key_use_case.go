package in

import (
	"context"

	"freightflow/internal/application/dto"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type CompleteIdempotencyKeyUseCase interface {
	Execute(ctx context.Context, command dto.CompleteIdempotencyKeyCommand) *apperrors.AppError
}
