package in

import (
	"context"

	"freightflow/internal/application/dto"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type CreateShipmentUseCase interface {
	Execute(ctx context.Context, input dto.ShipmentRequestInput) (dto.CreateShipmentOutput, *apperrors.AppError)
}
