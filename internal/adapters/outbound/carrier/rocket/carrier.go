package rocket

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	portsout "freightflow/internal/application/ports/out"
	"freightflow/internal/domain/entities"
	valueobjects "freightflow/internal/domain/value_objects"
)

const (
	labelBaseURL       = "https://api.rocketship.com/v1/labels/"
	trackingCodePrefix = "RS"
	trackingCodeLength = 8
)

// rawQuote mirrors the carrier's response, which reports delivery time in hours.
type rawQuote struct {
	ExpressService   bool
	TotalFreight     float64
	DeliveryEstimate int
}

type Carrier struct {
	now func() time.Time
}

var _ portsout.CarrierProvider = (*Carrier)(nil)

func New() *Carrier {
	return &Carrier{now: time.Now}
}

func (c *Carrier) ID() string {
	return valueobjects.ProviderRocket
}

func (c *Carrier) Quote(_ context.Context, request entities.ShipmentRequest) ([]entities.Quote, error) {
	responses := []rawQuote{
		{
			ExpressService:   true,
			TotalFreight:     request.Weight*3.0 + 20,
			DeliveryEstimate: 24,
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
		ShipmentID: "rs_" + uuid.NewString(),
		ProviderID: c.ID(),
	}, nil
}

func (c *Carrier) CreateLabel(_ context.Context, shipmentID string) (entities.Label, error) {
	code := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:trackingCodeLength])
	return entities.Label{
		ShipmentID:   shipmentID,
		TrackingCode: trackingCodePrefix + code,
		LabelURL:     labelBaseURL + shipmentID,
		Format:       valueobjects.LabelFormatZPL,
	}, nil
}

func (c *Carrier) Track(_ context.Context, trackingCode string) (entities.Tracking, error) {
	now := c.now().UTC()
	return entities.Tracking{
		TrackingCode: trackingCode,
		Status:       valueobjects.TrackingStatusPending,
		LastPolledAt: now,
		Events: []entities.TrackingEvent{
			{Date: now, Description: "Label created"},
		},
	}, nil
}

func normalizeQuote(raw rawQuote) entities.Quote {
	serviceName := "Rocket Standard"
	if raw.ExpressService {
		serviceName = "Rocket Express"
	}

	return entities.Quote{
		ProviderID:    valueobjects.ProviderRocket,
		ServiceName:   serviceName,
		Price:         raw.TotalFreight,
		Currency:      "USD",
		EstimatedDays: int(math.Ceil(float64(raw.DeliveryEstimate) / 24)),
	}
}
