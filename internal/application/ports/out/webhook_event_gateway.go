package out

import (
	"context"

	"freightflow/internal/application/dto"
)

// WebhookEventGateway delivers one webhook. A non-nil error is an *apperrors.Fault
// carrying the HTTP status and Retry-After seconds when the endpoint answered.
type WebhookEventGateway interface {
	SendWebhookEvent(ctx context.Context, input dto.SendWebhookEventInput) (dto.SendWebhookEventOutput, error)
}
