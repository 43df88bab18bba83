package in

import (
	"context"

	"freightflow/internal/application/dto"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type RequeueWebhookEventUseCase interface {
	Execute(ctx context.Context, command dto.RequeueWebhookEventCommand) (dto.RequeueWebhookEventOutput, *apperrors.AppError)
}
