package dto

import (
	"time"

	"freightflow/internal/domain/entities"
)

type CreateWebhookSubscriptionCommand struct {
	URL    string   `json:"url"`
	Events []string `json:"events"`
	Secret string   `json:"secret,omitempty"`
}

type WebhookSubscriptionOutput struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Events    []string  `json:"events"`
	CreatedAt time.Time `json:"createdAt"`
}

type DispatchSimulationCommand struct {
	ShipmentID string `json:"shipmentId"`
	Status     string `json:"status"`
	EventID    string `json:"eventId,omitempty"`
}

type DispatchSimulationOutput struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type DeliverWebhookEventsCommand struct {
	Now         time.Time
	BatchSize   int
	MaxAttempts int
}

type DeliverWebhookEventsOutput struct {
	Fetched           int
	Delivered         int
	Retried           int
	Failed            int
	Dropped           int
	ShortCircuited    int
	Duplicated        int
	HTTP2xxCount      int
	HTTP4xxCount      int
	HTTP5xxCount      int
	NetworkErrorCount int
	LatencyMS         int64
}

type WebhookEventUpdate struct {
	ID            string
	Status        string
	Attempts      int
	NextAttemptAt *time.Time
	UpdatedAt     time.Time
}

type PlannedWebhookEvent struct {
	Event                   entities.WebhookEvent
	Drop                    bool
	Duplicate               bool
	DuplicateWithNewEventID bool
	Profile                 string
}

type SendWebhookEventInput struct {
	URL     string
	Secret  string
	Payload []byte
}

type SendWebhookEventOutput struct {
	StatusCode int
}
