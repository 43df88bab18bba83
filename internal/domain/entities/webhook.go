package entities

import (
	"time"

	valueobjects "freightflow/internal/domain/value_objects"
)

type WebhookSubscription struct {
	ID        string
	URL       string
	Events    []string
	Secret    string
	CreatedAt time.Time
}

type WebhookEventPayload struct {
	EventID    string    `json:"eventId"`
	ShipmentID string    `json:"shipmentId"`
	Status     string    `json:"status"`
	EventType  string    `json:"eventType"`
	OccurredAt time.Time `json:"occurredAt"`
}

type WebhookEvent struct {
	ID             string
	SubscriptionID string
	URL            string
	Secret         string
	Status         valueobjects.WebhookEventStatus
	Attempts       int
	NextAttemptAt  *time.Time
	Payload        WebhookEventPayload
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (s WebhookSubscription) Accepts(eventType string) bool {
	for _, event := range s.Events {
		if event == eventType || event == valueobjects.WildcardShipmentEventType {
			return true
		}
	}
	return false
}
