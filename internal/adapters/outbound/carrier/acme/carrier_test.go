//go:build !integration

package acme

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"freightflow/internal/domain/entities"
	valueobjects "freightflow/internal/domain/value_objects"
)

func TestQuoteNormalizesRawQuote(t *testing.T) {
	quotes, err := New().Quote(context.Background(), entities.ShipmentRequest{Weight: 4})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(quotes) != 1 {
		t.Fatalf("expected 1 quote, got %d", len(quotes))
	}
	quote := quotes[0]
	if quote.ProviderID != "ACME" || quote.ServiceName != "Acme Standard" || quote.Currency != "USD" {
		t.Fatalf("unexpected quote: %+v", quote)
	}
	if quote.Price != 16 {
		t.Fatalf("expected price 16, got %v", quote.Price)
	}
	if quote.EstimatedDays != 5 {
		t.Fatalf("expected 5 days, got %d", quote.EstimatedDays)
	}
}

func TestCreateShipmentAndLabel(t *testing.T) {
	carrier := New()

	shipment, err := carrier.CreateShipment(context.Background(), entities.ShipmentRequest{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.HasPrefix(shipment.ShipmentID, "acme_shp_") || shipment.ProviderID != "ACME" {
		t.Fatalf("unexpected shipment: %+v", shipment)
	}

	label, err := carrier.CreateLabel(context.Background(), shipment.ShipmentID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !regexp.MustCompile(`^1Z[0-9A-F]{10}$`).MatchString(label.TrackingCode) {
		t.Fatalf("unexpected tracking code: %s", label.TrackingCode)
	}
	if label.LabelURL != "https://acme.com/labels/"+shipment.ShipmentID+".pdf" {
		t.Fatalf("unexpected label url: %s", label.LabelURL)
	}
	if label.Format != valueobjects.LabelFormatPDF {
		t.Fatalf("expected PDF, got %s", label.Format)
	}
}

func TestTrack(t *testing.T) {
	fixed := time.Date(2026, 2, 26, 12, 0, 0, 0, time.UTC)
	carrier := &Carrier{now: func() time.Time { return fixed }}

	tracking, err := carrier.Track(context.Background(), "1ZABCDEF0123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if tracking.Status != valueobjects.TrackingStatusInTransit || !tracking.LastPolledAt.Equal(fixed) {
		t.Fatalf("unexpected tracking: %+v", tracking)
	}
	if len(tracking.Events) != 1 || tracking.Events[0].Location != "New York, NY" {
		t.Fatalf("unexpected events: %+v", tracking.Events)
	}
}
