package in

import (
	"context"

	"freightflow/internal/application/dto"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type GetWebhookEventOverviewUseCase interface {
	Execute(ctx context.Context, query dto.GetWebhookEventOverviewQuery) (dto.WebhookEventOverview, *apperrors.AppError)
}
