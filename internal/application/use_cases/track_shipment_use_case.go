package use_cases

import (
	"context"
	"strings"

	"freightflow/internal/application/dto"
	portsin "freightflow/internal/application/ports/in"
	portsout "freightflow/internal/application/ports/out"
	"freightflow/internal/domain/policies"
	apperrors "freightflow/internal/shared_kernel/errors"
)

const minTrackingCodeLength = 3

type trackShipmentUseCase struct {
	directory portsout.CarrierDirectory
}

func NewTrackShipmentUseCase(directory portsout.CarrierDirectory) portsin.TrackShipmentUseCase {
	return &trackShipmentUseCase{directory: directory}
}

func (u *trackShipmentUseCase) Execute(ctx context.Context, query dto.TrackShipmentQuery) (dto.TrackingOutput, *apperrors.AppError) {
	if u.directory == nil {
		return dto.TrackingOutput{}, carrierDirectoryMissing()
	}

	trackingCode := strings.TrimSpace(query.TrackingCode)
	if len(trackingCode) < minTrackingCodeLength {
		return dto.TrackingOutput{}, apperrors.NewValidation(
			"invalid_request",
			"trackingCode must be at least 3 characters",
			map[string]any{"field": "trackingCode"},
		)
	}

	provider, appErr := u.directory.Provider(policies.ResolveTrackingProvider(trackingCode))
	if appErr != nil {
		return dto.TrackingOutput{}, appErr
	}

	tracking, err := provider.Track(ctx, trackingCode)
	if err != nil {
		return dto.TrackingOutput{}, apperrors.FromFault(err)
	}

	events := policies.NormalizeTrackingEvents(tracking.Events)
	output := dto.TrackingOutput{
		TrackingCode: tracking.TrackingCode,
		Status:       tracking.Status.String(),
		LastPolledAt: tracking.LastPolledAt,
		Events:       make([]dto.TrackingEventOutput, 0, len(events)),
	}
	for _, event := range events {
		output.Events = append(output.Events, dto.TrackingEventOutput{
			Date:        event.Date,
			Description: event.Description,
			Location:    event.Location,
			EventID:     event.EventID,
		})
	}

	return output, nil
}
