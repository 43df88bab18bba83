package entities

import (
	"time"

	valueobjects "freightflow/internal/domain/value_objects"
)

type Dimensions struct {
	Length float64
	Width  float64
	Height float64
}

type ShipmentRequest struct {
	OriginZip      string
	DestinationZip string
	Weight         float64
	Dimensions     Dimensions
	ServiceType    string
}

type Quote struct {
	ProviderID    string
	ServiceName   string
	Price         float64
	Currency      string
	EstimatedDays int
}

type CreatedShipment struct {
	ShipmentID string
	ProviderID string
}

// Shipment is the ownership record used to send label requests to the carrier that created the shipment.
type Shipment struct {
	ID         string
	ProviderID string
	CreatedAt  time.Time
}

type Label struct {
	ShipmentID   string
	TrackingCode string
	LabelURL     string
	Format       valueobjects.LabelFormat
}

type TrackingEvent struct {
	Date        time.Time
	Description string
	Location    string
	EventID     string
}

type Tracking struct {
	TrackingCode string
	Status       valueobjects.TrackingStatus
	LastPolledAt time.Time
	Events       []TrackingEvent
}
