package dto

import "time"

type DimensionsInput struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type ShipmentRequestInput struct {
	OriginZip      string          `json:"originZip"`
	DestinationZip string          `json:"destinationZip"`
	Weight         float64         `json:"weight"`
	Dimensions     DimensionsInput `json:"dimensions"`
	ServiceType    string          `json:"serviceType"`
}

type QuoteOutput struct {
	ProviderID    string  `json:"providerId"`
	ServiceName   string  `json:"serviceName"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
	EstimatedDays int     `json:"estimatedDays"`
}

type GetQuotesOutput struct {
	Quotes []QuoteOutput `json:"quotes"`
}

type CreateShipmentOutput struct {
	ShipmentID string `json:"shipmentId"`
	ProviderID string `json:"providerId"`
}

type CreateLabelCommand struct {
	ShipmentID string
}

type LabelOutput struct {
	ShipmentID   string `json:"shipmentId"`
	TrackingCode string `json:"trackingCode"`
	LabelURL     string `json:"labelUrl"`
	Format       string `json:"format"`
}

type TrackShipmentQuery struct {
	TrackingCode string
}

type TrackingEventOutput struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Location    string    `json:"location,omitempty"`
	EventID     string    `json:"eventId,omitempty"`
}

type TrackingOutput struct {
	TrackingCode string                `json:"trackingCode"`
	Status       string                `json:"status"`
	LastPolledAt time.Time             `json:"lastPolledAt"`
	Events       []TrackingEventOutput `json:"events"`
}
