package in

import (
	"context"

	"freightflow/internal/application/dto"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type DispatchSimulationUseCase interface {
	Execute(ctx context.Context, command dto.DispatchSimulationCommand) (dto.DispatchSimulationOutput, *apperrors.AppError)
}
