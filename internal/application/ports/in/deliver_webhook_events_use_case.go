package in

import (
	"context"

	"freightflow/internal/application/dto"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type DeliverWebhookEventsUseCase interface {
	Execute(ctx context.Context, command dto.DeliverWebhookEventsCommand) (dto.DeliverWebhookEventsOutput, *apperrors.AppError)
}
