package dto

import "time"

type GetWebhookEventOverviewQuery struct{}

type WebhookEventOverview struct {
	PendingCount           int64      `json:"pending_count"`
	RetryingCount          int64      `json:"retrying_count"`
	DeliveredCount         int64      `json:"delivered_count"`
	FailedCount            int64      `json:"failed_count"`
	OldestPendingCreatedAt *time.Time `json:"oldest_pending_created_at,omitempty"`
}

type ListFailedWebhookEventsQuery struct {
	Limit int
}

type FailedWebhookEvent struct {
	ID             string    `json:"id"`
	SubscriptionID string    `json:"subscription_id"`
	EventID        string    `json:"event_id"`
	ShipmentID     string    `json:"shipment_id"`
	EventType      string    `json:"event_type"`
	Attempts       int       `json:"attempts"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ListFailedWebhookEventsOutput struct {
	Events []FailedWebhookEvent `json:"events"`
}

type RequeueWebhookEventCommand struct {
	ID  string
	Now time.Time
}

type RequeueWebhookEventOutput struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}
