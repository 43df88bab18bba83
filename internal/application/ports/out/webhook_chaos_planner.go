package out

import (
	"time"

	"freightflow/internal/application/dto"
	"freightflow/internal/domain/entities"
)

type WebhookChaosPlanner interface {
	Plan(events []entities.WebhookEvent) []dto.PlannedWebhookEvent
	DuplicateMode() string
}

// WebhookCircuitBreakers keeps one breaker per subscription.
type WebhookCircuitBreakers interface {
	Allow(subscriptionID string, now time.Time) error
	OnSuccess(subscriptionID string, now time.Time)
	OnFailure(subscriptionID string, now time.Time)
}
