package decorators

import (
	"context"

	portsout "freightflow/internal/application/ports/out"
	"freightflow/internal/domain/entities"
	"freightflow/internal/infrastructure/sandbox"
)

// Sandbox runs every carrier call through the provider's sandbox engine.
type Sandbox struct {
	provider portsout.CarrierProvider
	engine   *sandbox.Engine
}

var _ portsout.CarrierProvider = (*Sandbox)(nil)

func NewSandbox(provider portsout.CarrierProvider, engine *sandbox.Engine) *Sandbox {
	return &Sandbox{provider: provider, engine: engine}
}

func (s *Sandbox) ID() string {
	return s.provider.ID()
}

func (s *Sandbox) Quote(ctx context.Context, request entities.ShipmentRequest) ([]entities.Quote, error) {
	return sandbox.Run(ctx, s.engine, sandbox.OperationQuote, func(ctx context.Context) ([]entities.Quote, error) {
		return s.provider.Quote(ctx, request)
	}, nil)
}

func (s *Sandbox) CreateShipment(ctx context.Context, request entities.ShipmentRequest) (entities.CreatedShipment, error) {
	return sandbox.Run(ctx, s.engine, sandbox.OperationShipment, func(ctx context.Context) (entities.CreatedShipment, error) {
		return s.provider.CreateShipment(ctx, request)
	}, nil)
}

func (s *Sandbox) CreateLabel(ctx context.Context, shipmentID string) (entities.Label, error) {
	return sandbox.Run(ctx, s.engine, sandbox.OperationLabel, func(ctx context.Context) (entities.Label, error) {
		return s.provider.CreateLabel(ctx, shipmentID)
	}, nil)
}

func (s *Sandbox) Track(ctx context.Context, trackingCode string) (entities.Tracking, error) {
	return sandbox.Run(ctx, s.engine, sandbox.OperationTracking, func(ctx context.Context) (entities.Tracking, error) {
		return s.provider.Track(ctx, trackingCode)
	}, diverge)
}

// diverge reverses the event order and repeats the first event, as a carrier with an unstable feed would.
func diverge(tracking entities.Tracking) entities.Tracking {
	if len(tracking.Events) == 0 {
		return tracking
	}

	events := make([]entities.TrackingEvent, 0, len(tracking.Events)+1)
	for i := len(tracking.Events) - 1; i >= 0; i-- {
		events = append(events, tracking.Events[i])
	}
	events = append(events, events[0])
	tracking.Events = events
	return tracking
}
