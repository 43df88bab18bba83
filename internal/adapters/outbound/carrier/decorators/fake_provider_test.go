//go:build !integration

package decorators

import (
	"context"
	"sync"
	"time"

	"freightflow/internal/domain/entities"
)

type fakeProvider struct {
	mu     sync.Mutex
	id     string
	errors []error
	calls  int
}

func (f *fakeProvider) ID() string {
	return f.id
}

func (f *fakeProvider) next() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if len(f.errors) == 0 {
		return nil
	}
	err := f.errors[0]
	f.errors = f.errors[1:]
	return err
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}

func (f *fakeProvider) Quote(_ context.Context, _ entities.ShipmentRequest) ([]entities.Quote, error) {
	if err := f.next(); err != nil {
		return nil, err
	}
	return []entities.Quote{{ProviderID: f.id, ServiceName: "fake", Price: 1, Currency: "USD", EstimatedDays: 1}}, nil
}

func (f *fakeProvider) CreateShipment(_ context.Context, _ entities.ShipmentRequest) (entities.CreatedShipment, error) {
	if err := f.next(); err != nil {
		return entities.CreatedShipment{}, err
	}
	return entities.CreatedShipment{ShipmentID: "shp_1", ProviderID: f.id}, nil
}

func (f *fakeProvider) CreateLabel(_ context.Context, shipmentID string) (entities.Label, error) {
	if err := f.next(); err != nil {
		return entities.Label{}, err
	}
	return entities.Label{ShipmentID: shipmentID, TrackingCode: "TRK1"}, nil
}

func (f *fakeProvider) Track(_ context.Context, trackingCode string) (entities.Tracking, error) {
	if err := f.next(); err != nil {
		return entities.Tracking{}, err
	}
	return entities.Tracking{TrackingCode: trackingCode}, nil
}

type recordingMetrics struct {
	mu             sync.Mutex
	retryAttempts  int
	breakerOpens   int
	shortCircuits  int
	providerErrors []string
}

func (m *recordingMetrics) ObserveRequestLatency(string, string, string, time.Duration) {}

func (m *recordingMetrics) IncRetryAttempt(string, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retryAttempts++
}

func (m *recordingMetrics) IncBreakerOpen(string, string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.breakerOpens++
}

func (m *recordingMetrics) IncBreakerShortCircuit(string, string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shortCircuits++
}

func (m *recordingMetrics) IncProviderError(_, _, _, statusCode string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providerErrors = append(m.providerErrors, statusCode)
}

func (m *recordingMetrics) IncSandboxOutcome(string, string, string) {}
