package in

import (
	"context"

	"freightflow/internal/application/dto"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type GetSandboxStatusUseCase interface {
	Execute(ctx context.Context, query dto.GetSandboxStatusQuery) (dto.SandboxStatus, *apperrors.AppError)
}
