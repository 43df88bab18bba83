package in

import (
	"context"

	"freightflow/internal/application/dto"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type ListFailedWebhookEventsUseCase interface {
	Execute(ctx context.Context, query dto.ListFailedWebhookEventsQuery) (dto.ListFailedWebhookEventsOutput, *apperrors.AppError)
}
