package use_cases

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"freightflow/internal/application/dto"
	portsin "freightflow/internal/application/ports/in"
	portsout "freightflow/internal/application/ports/out"
	"freightflow/internal/domain/entities"
	valueobjects "freightflow/internal/domain/value_objects"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type dispatchSimulationUseCase struct {
	subscriptions portsout.WebhookSubscriptionRepository
	events        portsout.WebhookEventRepository
	clock         Clock
}

func NewDispatchSimulationUseCase(
	subscriptions portsout.WebhookSubscriptionRepository,
	events portsout.WebhookEventRepository,
	clock Clock,
) portsin.DispatchSimulationUseCase {
	if clock == nil {
		clock = NewSystemClock()
	}

	return &dispatchSimulationUseCase{
		subscriptions: subscriptions,
		events:        events,
		clock:         clock,
	}
}

// Execute queues one pending webhook event per subscription matching the simulated status.
func (u *dispatchSimulationUseCase) Execute(
	ctx context.Context,
	command dto.DispatchSimulationCommand,
) (dto.DispatchSimulationOutput, *apperrors.AppError) {
	if u.subscriptions == nil || u.events == nil {
		return dto.DispatchSimulationOutput{}, apperrors.NewInternal(
			"webhook_repositories_missing",
			"webhook subscription and event repositories are required",
			nil,
		)
	}

	shipmentID := strings.TrimSpace(command.ShipmentID)
	if shipmentID == "" {
		return dto.DispatchSimulationOutput{}, apperrors.NewValidation(
			"invalid_request",
			"shipmentId is required",
			map[string]any{"field": "shipmentId"},
		)
	}
	status := strings.TrimSpace(command.Status)
	if status == "" {
		return dto.DispatchSimulationOutput{}, apperrors.NewValidation(
			"invalid_request",
			"status is required",
			map[string]any{"field": "status"},
		)
	}

	eventType := valueobjects.ResolveShipmentEventType(status)
	subscriptions, appErr := u.subscriptions.FindMatchingEvent(ctx, eventType)
	if appErr != nil {
		return dto.DispatchSimulationOutput{}, appErr
	}

	now := u.clock.NowUTC()

	batch := make([]entities.WebhookEvent, 0, len(subscriptions))
	for _, subscription := range subscriptions {
		eventID := strings.TrimSpace(command.EventID)
		if eventID == "" {
			eventID = uuid.NewString()
		}
		batch = append(batch, entities.WebhookEvent{
			ID:             uuid.NewString(),
			SubscriptionID: subscription.ID,
			Status:         valueobjects.WebhookEventStatusPending,
			Payload: entities.WebhookEventPayload{
				EventID:    eventID,
				ShipmentID: shipmentID,
				Status:     status,
				EventType:  eventType,
				OccurredAt: now,
			},
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if len(batch) > 0 {
		if appErr := u.events.CreateBatch(ctx, batch); appErr != nil {
			return dto.DispatchSimulationOutput{}, appErr
		}
	}

	return dto.DispatchSimulationOutput{
		Message: "Simulation events registered for processing",
		Count:   len(batch),
	}, nil
}
