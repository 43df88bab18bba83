package in

import (
	"context"

	"freightflow/internal/application/dto"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type CreateWebhookSubscriptionUseCase interface {
	Execute(ctx context.Context, command dto.CreateWebhookSubscriptionCommand) (dto.WebhookSubscriptionOutput, *apperrors.AppError)
}
