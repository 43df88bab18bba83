package acme

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	portsout "freightflow/internal/application/ports/out"
	"freightflow/internal/domain/entities"
	valueobjects "freightflow/internal/domain/value_objects"
)

const (
	standardServiceName = "Acme Standard"
	labelBaseURL        = "https://acme.com/labels/"
	trackingCodePrefix  = "1Z"
	trackingCodeLength  = 10
)

type rawQuote struct {
	Service      string
	Cost         float64
	CurrencyCode string
	EtaDays      int
}

type Carrier struct {
	now func() time.Time
}

var _ portsout.CarrierProvider = (*Carrier)(nil)

func New() *Carrier {
	return &Carrier{now: time.Now}
}

func (c *Carrier) ID() string {
	return valueobjects.ProviderACME
}

func (c *Carrier) Quote(_ context.Context, request entities.ShipmentRequest) ([]entities.Quote, error) {
	responses := []rawQuote{
		{
			Service:      standardServiceName,
			Cost:         request.Weight*1.5 + 10,
			CurrencyCode: "USD",
			EtaDays:      5,
		},
	}

	quotes := make([]entities.Quote, 0, len(responses))
	for _, raw := range responses {
		quotes = append(quotes, normalizeQuote(raw))
	}
	return quotes, nil
}

func (c *Carrier) CreateShipment(_ context.Context, _ entities.ShipmentRequest) (entities.CreatedShipment, error) {
	return entities.CreatedShipment{
		ShipmentID: "acme_shp_" + uuid.NewString(),
		ProviderID: c.ID(),
	}, nil
}

func (c *Carrier) CreateLabel(_ context.Context, shipmentID string) (entities.Label, error) {
	return entities.Label{
		ShipmentID:   shipmentID,
		TrackingCode: trackingCodePrefix + compactUUID(trackingCodeLength),
		LabelURL:     fmt.Sprintf("%s%s.pdf", labelBaseURL, shipmentID),
		Format:       valueobjects.LabelFormatPDF,
	}, nil
}

func (c *Carrier) Track(_ context.Context, trackingCode string) (entities.Tracking, error) {
	now := c.now().UTC()
	return entities.Tracking{
		TrackingCode: trackingCode,
		Status:       valueobjects.TrackingStatusInTransit,
		LastPolledAt: now,
		Events: []entities.TrackingEvent{
			{Date: now, Description: "Package departed facility", Location: "New York, NY"},
		},
	}, nil
}

func normalizeQuote(raw rawQuote) entities.Quote {
	return entities.Quote{
		ProviderID:    valueobjects.ProviderACME,
		ServiceName:   raw.Service,
		Price:         raw.Cost,
		Currency:      raw.CurrencyCode,
		EstimatedDays: raw.EtaDays,
	}
}

func compactUUID(length int) string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:length])
}
