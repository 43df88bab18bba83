package out

import (
	"context"

	"freightflow/internal/domain/entities"
	apperrors "freightflow/internal/shared_kernel/errors"
)

// CarrierProvider is one carrier behind the uniform contract.
// Failures are returned as *apperrors.Fault so retry and breaker layers can classify them.
type CarrierProvider interface {
	ID() string
	Quote(ctx context.Context, request entities.ShipmentRequest) ([]entities.Quote, error)
	CreateShipment(ctx context.Context, request entities.ShipmentRequest) (entities.CreatedShipment, error)
	CreateLabel(ctx context.Context, shipmentID string) (entities.Label, error)
	Track(ctx context.Context, trackingCode string) (entities.Tracking, error)
}

type CarrierDirectory interface {
	Provider(id string) (CarrierProvider, *apperrors.AppError)
	Route(request entities.ShipmentRequest) (CarrierProvider, *apperrors.AppError)
	Providers() []CarrierProvider
}
