package out

import (
	"context"
	"time"

	"freightflow/internal/application/dto"
	"freightflow/internal/domain/entities"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type WebhookEventRepository interface {
	CreateBatch(ctx context.Context, events []entities.WebhookEvent) *apperrors.AppError
	// FindDue returns pending events whose next attempt is unset or not after now,
	// ordered by subscription then creation time.
	FindDue(ctx context.Context, now time.Time, limit int) ([]entities.WebhookEvent, *apperrors.AppError)
	Update(ctx context.Context, update dto.WebhookEventUpdate) *apperrors.AppError
}

type WebhookEventOpsRepository interface {
	GetOverview(ctx context.Context) (dto.WebhookEventOverview, *apperrors.AppError)
	ListFailed(ctx context.Context, limit int) ([]dto.FailedWebhookEvent, *apperrors.AppError)
	Requeue(ctx context.Context, id string, now time.Time) (dto.RequeueWebhookEventOutput, *apperrors.AppError)
}
