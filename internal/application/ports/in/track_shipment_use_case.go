package in

import (
	"context"

	"freightflow/internal/application/dto"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type TrackShipmentUseCase interface {
	Execute(ctx context.Context, query dto.TrackShipmentQuery) (dto.TrackingOutput, *apperrors.AppError)
}
