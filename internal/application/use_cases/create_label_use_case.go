package use_cases

import (
	"context"
	"fmt"
	"strings"

	"freightflow/internal/application/dto"
	portsin "freightflow/internal/application/ports/in"
	portsout "freightflow/internal/application/ports/out"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type createLabelUseCase struct {
	directory  portsout.CarrierDirectory
	repository portsout.ShipmentRepository
}

func NewCreateLabelUseCase(directory portsout.CarrierDirectory, repository portsout.ShipmentRepository) portsin.CreateLabelUseCase {
	return &createLabelUseCase{
		directory:  directory,
		repository: repository,
	}
}

// Execute sends the label request to the carrier that created the shipment.
func (u *createLabelUseCase) Execute(ctx context.Context, command dto.CreateLabelCommand) (dto.LabelOutput, *apperrors.AppError) {
	if u.directory == nil {
		return dto.LabelOutput{}, carrierDirectoryMissing()
	}
	if u.repository == nil {
		return dto.LabelOutput{}, apperrors.NewInternal(
			"shipment_repository_missing",
			"shipment repository is required",
			nil,
		)
	}

	shipmentID := strings.TrimSpace(command.ShipmentID)
	if shipmentID == "" {
		return dto.LabelOutput{}, apperrors.NewValidation(
			"invalid_request",
			"shipment id is required",
			map[string]any{"field": "id"},
		)
	}

	shipment, found, appErr := u.repository.FindByID(ctx, shipmentID)
	if appErr != nil {
		return dto.LabelOutput{}, appErr
	}
	if !found {
		return dto.LabelOutput{}, apperrors.NewNotFound(
			"shipment_not_found",
			fmt.Sprintf("Shipment %s not found", shipmentID),
			map[string]any{"shipment_id": shipmentID},
		)
	}

	provider, appErr := u.directory.Provider(shipment.ProviderID)
	if appErr != nil {
		return dto.LabelOutput{}, appErr
	}

	label, err := provider.CreateLabel(ctx, shipment.ID)
	if err != nil {
		return dto.LabelOutput{}, apperrors.FromFault(err)
	}

	return dto.LabelOutput{
		ShipmentID:   label.ShipmentID,
		TrackingCode: label.TrackingCode,
		LabelURL:     label.LabelURL,
		Format:       label.Format.String(),
	}, nil
}
