package in

import (
	"context"

	"freightflow/internal/application/dto"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type ReleaseIdempotencyKeyUseCase interface {
	Execute(ctx context.Context, command dto.ReleaseIdempotencyKeyCommand) *apperrors.AppError
}
