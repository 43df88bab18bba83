package use_cases

import (
	"context"

	"freightflow/internal/application/dto"
	portsin "freightflow/internal/application/ports/in"
	portsout "freightflow/internal/application/ports/out"
	"freightflow/internal/domain/entities"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type createShipmentUseCase struct {
	directory  portsout.CarrierDirectory
	repository portsout.ShipmentRepository
	clock      Clock
}

func NewCreateShipmentUseCase(
	directory portsout.CarrierDirectory,
	repository portsout.ShipmentRepository,
	clock Clock,
) portsin.CreateShipmentUseCase {
	if clock == nil {
		clock = NewSystemClock()
	}

	return &createShipmentUseCase{
		directory:  directory,
		repository: repository,
		clock:      clock,
	}
}

func (u *createShipmentUseCase) Execute(ctx context.Context, input dto.ShipmentRequestInput) (dto.CreateShipmentOutput, *apperrors.AppError) {
	if u.directory == nil {
		return dto.CreateShipmentOutput{}, carrierDirectoryMissing()
	}
	if u.repository == nil {
		return dto.CreateShipmentOutput{}, apperrors.NewInternal(
			"shipment_repository_missing",
			"shipment repository is required",
			nil,
		)
	}

	request, appErr := normalizeShipmentRequest(input)
	if appErr != nil {
		return dto.CreateShipmentOutput{}, appErr
	}

	provider, appErr := u.directory.Route(request)
	if appErr != nil {
		return dto.CreateShipmentOutput{}, appErr
	}

	created, err := provider.CreateShipment(ctx, request)
	if err != nil {
		return dto.CreateShipmentOutput{}, apperrors.FromFault(err)
	}
	if created.ProviderID == "" {
		created.ProviderID = provider.ID()
	}

	if appErr := u.repository.Create(ctx, entities.Shipment{
		ID:         created.ShipmentID,
		ProviderID: created.ProviderID,
		CreatedAt:  u.clock.NowUTC(),
	}); appErr != nil {
		return dto.CreateShipmentOutput{}, appErr
	}

	return dto.CreateShipmentOutput{
		ShipmentID: created.ShipmentID,
		ProviderID: created.ProviderID,
	}, nil
}
