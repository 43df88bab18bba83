package use_cases

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"freightflow/internal/application/dto"
	portsin "freightflow/internal/application/ports/in"
	portsout "freightflow/internal/application/ports/out"
	apperrors "freightflow/internal/shared_kernel/errors"
)

const (
	defaultFailedWebhookLimit = 50
	maxFailedWebhookLimit     = 200
)

func webhookEventOpsRepositoryMissing() *apperrors.AppError {
	return apperrors.NewInternal(
		"webhook_event_ops_repository_missing",
		"webhook event ops repository is required",
		nil,
	)
}

type getWebhookEventOverviewUseCase struct {
	repository portsout.WebhookEventOpsRepository
}

func NewGetWebhookEventOverviewUseCase(repository portsout.WebhookEventOpsRepository) portsin.GetWebhookEventOverviewUseCase {
	return &getWebhookEventOverviewUseCase{repository: repository}
}

func (u *getWebhookEventOverviewUseCase) Execute(
	ctx context.Context,
	_ dto.GetWebhookEventOverviewQuery,
) (dto.WebhookEventOverview, *apperrors.AppError) {
	if u.repository == nil {
		return dto.WebhookEventOverview{}, webhookEventOpsRepositoryMissing()
	}
	return u.repository.GetOverview(ctx)
}

type listFailedWebhookEventsUseCase struct {
	repository portsout.WebhookEventOpsRepository
}

func NewListFailedWebhookEventsUseCase(repository portsout.WebhookEventOpsRepository) portsin.ListFailedWebhookEventsUseCase {
	return &listFailedWebhookEventsUseCase{repository: repository}
}

func (u *listFailedWebhookEventsUseCase) Execute(
	ctx context.Context,
	query dto.ListFailedWebhookEventsQuery,
) (dto.ListFailedWebhookEventsOutput, *apperrors.AppError) {
	if u.repository == nil {
		return dto.ListFailedWebhookEventsOutput{}, webhookEventOpsRepositoryMissing()
	}

	limit := query.Limit
	if limit == 0 {
		limit = defaultFailedWebhookLimit
	}
	if limit < 1 || limit > maxFailedWebhookLimit {
		return dto.ListFailedWebhookEventsOutput{}, apperrors.NewValidation(
			"invalid_request",
			"limit must be between 1 and 200",
			map[string]any{"field": "limit"},
		)
	}

	events, appErr := u.repository.ListFailed(ctx, limit)
	if appErr != nil {
		return dto.ListFailedWebhookEventsOutput{}, appErr
	}
	if events == nil {
		events = []dto.FailedWebhookEvent{}
	}

	return dto.ListFailedWebhookEventsOutput{Events: events}, nil
}

type requeueWebhookEventUseCase struct {
	repository portsout.WebhookEventOpsRepository
}

func NewRequeueWebhookEventUseCase(repository portsout.WebhookEventOpsRepository) portsin.RequeueWebhookEventUseCase {
	return &requeueWebhookEventUseCase{repository: repository}
}

func (u *requeueWebhookEventUseCase) Execute(
	ctx context.Context,
	command dto.RequeueWebhookEventCommand,
) (dto.RequeueWebhookEventOutput, *apperrors.AppError) {
	if u.repository == nil {
		return dto.RequeueWebhookEventOutput{}, webhookEventOpsRepositoryMissing()
	}

	id := strings.TrimSpace(command.ID)
	if id == "" {
		return dto.RequeueWebhookEventOutput{}, apperrors.NewValidation(
			"invalid_request",
			"id is required",
			map[string]any{"field": "id"},
		)
	}

	if _, err := uuid.Parse(id); err != nil {
		return dto.RequeueWebhookEventOutput{}, apperrors.NewNotFound(
			"webhook_event_not_found",
			"webhook event not found",
			map[string]any{"id": id},
		)
	}

	now := command.Now.UTC()
	if command.Now.IsZero() {
		now = time.Now().UTC()
	}

	return u.repository.Requeue(ctx, id, now)
}
