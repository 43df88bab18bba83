package valueobjects

import apperrors "freightflow/internal/shared_kernel/errors"

type WebhookEventStatus string

const (
	WebhookEventStatusPending   WebhookEventStatus = "pending"
	WebhookEventStatusDelivered WebhookEventStatus = "delivered"
	WebhookEventStatusFailed    WebhookEventStatus = "failed"
)

func ParseWebhookEventStatus(raw string) (WebhookEventStatus, *apperrors.AppError) {
	switch WebhookEventStatus(raw) {
	case WebhookEventStatusPending, WebhookEventStatusDelivered, WebhookEventStatusFailed:
		return WebhookEventStatus(raw), nil
	default:
		return "", apperrors.NewInternal(
			"webhook_event_status_invalid",
			"webhook event status is invalid",
			map[string]any{"status": raw},
		)
	}
}

func (s WebhookEventStatus) String() string {
	return string(s)
}
