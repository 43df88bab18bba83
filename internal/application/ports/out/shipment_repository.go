package out

import (
	"context"

	"freightflow/internal/domain/entities"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type ShipmentRepository interface {
	Create(ctx context.Context, shipment entities.Shipment) *apperrors.AppError
	FindByID(ctx context.Context, id string) (entities.Shipment, bool, *apperrors.AppError)
}
