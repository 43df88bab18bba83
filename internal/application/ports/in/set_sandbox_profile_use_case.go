package in

import (
	"context"

	"freightflow/internal/application/dto"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type SetSandboxProfileUseCase interface {
	Execute(ctx context.Context, command dto.SetSandboxProfileCommand) (dto.SetSandboxProfileOutput, *apperrors.AppError)
}
