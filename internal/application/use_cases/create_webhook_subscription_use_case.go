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

type createWebhookSubscriptionUseCase struct {
	repository portsout.WebhookSubscriptionRepository
	clock      Clock
}

func NewCreateWebhookSubscriptionUseCase(
	repository portsout.WebhookSubscriptionRepository,
	clock Clock,
) portsin.CreateWebhookSubscriptionUseCase {
	if clock == nil {
		clock = NewSystemClock()
	}

	return &createWebhookSubscriptionUseCase{
		repository: repository,
		clock:      clock,
	}
}

func (u *createWebhookSubscriptionUseCase) Execute(
	ctx context.Context,
	command dto.CreateWebhookSubscriptionCommand,
) (dto.WebhookSubscriptionOutput, *apperrors.AppError) {
	if u.repository == nil {
		return dto.WebhookSubscriptionOutput{}, apperrors.NewInternal(
			"webhook_subscription_repository_missing",
			"webhook subscription repository is required",
			nil,
		)
	}

	url, appErr := valueobjects.NormalizeWebhookURL(command.URL)
	if appErr != nil {
		return dto.WebhookSubscriptionOutput{}, appErr
	}

	if command.Events == nil {
		return dto.WebhookSubscriptionOutput{}, apperrors.NewValidation(
			"invalid_request",
			"events is required",
			map[string]any{"field": "events"},
		)
	}

	events := make([]string, 0, len(command.Events))
	for _, event := range command.Events {
		normalized := strings.TrimSpace(event)
		if normalized == "" {
			return dto.WebhookSubscriptionOutput{}, apperrors.NewValidation(
				"invalid_request",
				"events must not contain empty values",
				map[string]any{"field": "events"},
			)
		}
		events = append(events, normalized)
	}

	subscription := entities.WebhookSubscription{
		ID:        uuid.NewString(),
		URL:       url,
		Events:    events,
		Secret:    command.Secret,
		CreatedAt: u.clock.NowUTC(),
	}
	if appErr := u.repository.Create(ctx, subscription); appErr != nil {
		return dto.WebhookSubscriptionOutput{}, appErr
	}

	return dto.WebhookSubscriptionOutput{
		ID:        subscription.ID,
		URL:       subscription.URL,
		Events:    subscription.Events,
		CreatedAt: subscription.CreatedAt,
	}, nil
}
