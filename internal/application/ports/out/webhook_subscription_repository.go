package out

import (
	"context"

	"freightflow/internal/domain/entities"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type WebhookSubscriptionRepository interface {
	Create(ctx context.Context, subscription entities.WebhookSubscription) *apperrors.AppError
	FindMatchingEvent(ctx context.Context, eventType string) ([]entities.WebhookSubscription, *apperrors.AppError)
}
