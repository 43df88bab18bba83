//go:build !integration

package use_cases

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"freightflow/internal/application/dto"
	portsout "freightflow/internal/application/ports/out"
	"freightflow/internal/domain/entities"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) NowUTC() time.Time {
	return c.now
}

// steppingClock advances by step on every read.
type steppingClock struct {
	now  time.Time
	step time.Duration
}

func (c *steppingClock) NowUTC() time.Time {
	current := c.now
	c.now = c.now.Add(c.step)
	return current
}

type fakeCarrier struct {
	id         string
	quotes     []entities.Quote
	quoteErr   error
	shipment   entities.CreatedShipment
	shipErr    error
	label      entities.Label
	labelErr   error
	tracking   entities.Tracking
	trackErr   error
	labelCalls []string
	trackCalls []string
}

func (f *fakeCarrier) ID() string { return f.id }

func (f *fakeCarrier) Quote(_ context.Context, _ entities.ShipmentRequest) ([]entities.Quote, error) {
	return f.quotes, f.quoteErr
}

func (f *fakeCarrier) CreateShipment(_ context.Context, _ entities.ShipmentRequest) (entities.CreatedShipment, error) {
	return f.shipment, f.shipErr
}

func (f *fakeCarrier) CreateLabel(_ context.Context, shipmentID string) (entities.Label, error) {
	f.labelCalls = append(f.labelCalls, shipmentID)
	return f.label, f.labelErr
}

func (f *fakeCarrier) Track(_ context.Context, trackingCode string) (entities.Tracking, error) {
	f.trackCalls = append(f.trackCalls, trackingCode)
	return f.tracking, f.trackErr
}

type fakeCarrierDirectory struct {
	providers []portsout.CarrierProvider
	routed    portsout.CarrierProvider
	routeErr  *apperrors.AppError
}

func (f *fakeCarrierDirectory) Provider(id string) (portsout.CarrierProvider, *apperrors.AppError) {
	for _, provider := range f.providers {
		if provider.ID() == id {
			return provider, nil
		}
	}
	return nil, apperrors.NewNotFound("provider_not_found", "Provider "+id+" not found", nil)
}

func (f *fakeCarrierDirectory) Route(_ entities.ShipmentRequest) (portsout.CarrierProvider, *apperrors.AppError) {
	if f.routeErr != nil {
		return nil, f.routeErr
	}
	return f.routed, nil
}

func (f *fakeCarrierDirectory) Providers() []portsout.CarrierProvider {
	return f.providers
}

type fakeShipmentRepository struct {
	shipments map[string]entities.Shipment
	createErr *apperrors.AppError
}

func (f *fakeShipmentRepository) Create(_ context.Context, shipment entities.Shipment) *apperrors.AppError {
	if f.createErr != nil {
		return f.createErr
	}
	if f.shipments == nil {
		f.shipments = map[string]entities.Shipment{}
	}
	f.shipments[shipment.ID] = shipment
	return nil
}

func (f *fakeShipmentRepository) FindByID(_ context.Context, id string) (entities.Shipment, bool, *apperrors.AppError) {
	shipment, ok := f.shipments[id]
	return shipment, ok, nil
}

type fakeSubscriptionRepository struct {
	created       []entities.WebhookSubscription
	matching      []entities.WebhookSubscription
	lastEventType string
}

func (f *fakeSubscriptionRepository) Create(_ context.Context, subscription entities.WebhookSubscription) *apperrors.AppError {
	f.created = append(f.created, subscription)
	return nil
}

func (f *fakeSubscriptionRepository) FindMatchingEvent(_ context.Context, eventType string) ([]entities.WebhookSubscription, *apperrors.AppError) {
	f.lastEventType = eventType
	return f.matching, nil
}

type fakeWebhookEventRepository struct {
	due       []entities.WebhookEvent
	created   []entities.WebhookEvent
	updates   []dto.WebhookEventUpdate
	lastLimit int
}

func (f *fakeWebhookEventRepository) CreateBatch(_ context.Context, events []entities.WebhookEvent) *apperrors.AppError {
	f.created = append(f.created, events...)
	return nil
}

func (f *fakeWebhookEventRepository) FindDue(_ context.Context, _ time.Time, limit int) ([]entities.WebhookEvent, *apperrors.AppError) {
	f.lastLimit = limit
	return f.due, nil
}

func (f *fakeWebhookEventRepository) Update(_ context.Context, update dto.WebhookEventUpdate) *apperrors.AppError {
	f.updates = append(f.updates, update)
	return nil
}

func (f *fakeWebhookEventRepository) lastUpdate() dto.WebhookEventUpdate {
	if len(f.updates) == 0 {
		return dto.WebhookEventUpdate{}
	}
	return f.updates[len(f.updates)-1]
}

type fakeWebhookGateway struct {
	responses []fakeWebhookResponse
	sent      []dto.SendWebhookEventInput
}

type fakeWebhookResponse struct {
	status int
	err    error
}

func (f *fakeWebhookGateway) SendWebhookEvent(_ context.Context, input dto.SendWebhookEventInput) (dto.SendWebhookEventOutput, error) {
	f.sent = append(f.sent, input)
	response := fakeWebhookResponse{status: 200}
	if len(f.responses) > 0 {
		response = f.responses[0]
		f.responses = f.responses[1:]
	}
	if response.err != nil {
		return dto.SendWebhookEventOutput{}, response.err
	}
	return dto.SendWebhookEventOutput{StatusCode: response.status}, nil
}

func (f *fakeWebhookGateway) sentEventIDs() []string {
	ids := make([]string, 0, len(f.sent))
	for _, input := range f.sent {
		var payload entities.WebhookEventPayload
		_ = json.Unmarshal(input.Payload, &payload)
		ids = append(ids, payload.EventID)
	}
	return ids
}

// passthroughPlanner applies the same chaos flags to every event.
type passthroughPlanner struct {
	drop         bool
	duplicate    bool
	newEventID   bool
	profile      string
	duplicateMod string
}

func (p passthroughPlanner) Plan(events []entities.WebhookEvent) []dto.PlannedWebhookEvent {
	planned := make([]dto.PlannedWebhookEvent, 0, len(events))
	for _, event := range events {
		planned = append(planned, dto.PlannedWebhookEvent{
			Event:                   event,
			Drop:                    p.drop,
			Duplicate:               p.duplicate,
			DuplicateWithNewEventID: p.duplicate && p.newEventID,
			Profile:                 p.profile,
		})
	}
	return planned
}

func (p passthroughPlanner) DuplicateMode() string {
	return p.duplicateMod
}

type fakeBreakers struct {
	open      map[string]bool
	successes []string
	failures  []string
}

func (f *fakeBreakers) Allow(subscriptionID string, _ time.Time) error {
	if f.open[subscriptionID] {
		return apperrors.NewCircuitOpenFault("circuit is open")
	}
	return nil
}

func (f *fakeBreakers) OnSuccess(subscriptionID string, _ time.Time) {
	f.successes = append(f.successes, subscriptionID)
}

func (f *fakeBreakers) OnFailure(subscriptionID string, _ time.Time) {
	f.failures = append(f.failures, subscriptionID)
}

// linearSchedule waits attempt seconds before the given attempt.
type linearSchedule struct{}

func (linearSchedule) Delay(attempt int) time.Duration {
	return time.Duration(attempt) * time.Second
}

type recordingWebhookMetrics struct {
	deliveries []string
	drops      []string
	duplicates []string
}

func (m *recordingWebhookMetrics) IncWebhookDelivery(_ string, outcome string) {
	m.deliveries = append(m.deliveries, outcome)
}

func (m *recordingWebhookMetrics) IncWebhookChaosDrop(subscriptionID, _ string) {
	m.drops = append(m.drops, subscriptionID)
}

func (m *recordingWebhookMetrics) IncWebhookChaosDuplicate(_ string, duplicateMode, outcome string) {
	m.duplicates = append(m.duplicates, duplicateMode+":"+outcome)
}

func (m *recordingWebhookMetrics) IncWebhookPassSkipped() {}

type fakeWebhookEventOpsRepository struct {
	overview      dto.WebhookEventOverview
	failed        []dto.FailedWebhookEvent
	requeueResult dto.RequeueWebhookEventOutput
	requeueErr    *apperrors.AppError
	lastLimit     int
	lastRequeueID string
}

func (f *fakeWebhookEventOpsRepository) GetOverview(_ context.Context) (dto.WebhookEventOverview, *apperrors.AppError) {
	return f.overview, nil
}

func (f *fakeWebhookEventOpsRepository) ListFailed(_ context.Context, limit int) ([]dto.FailedWebhookEvent, *apperrors.AppError) {
	f.lastLimit = limit
	return f.failed, nil
}

func (f *fakeWebhookEventOpsRepository) Requeue(_ context.Context, id string, _ time.Time) (dto.RequeueWebhookEventOutput, *apperrors.AppError) {
	f.lastRequeueID = id
	if f.requeueErr != nil {
		return dto.RequeueWebhookEventOutput{}, f.requeueErr
	}
	return f.requeueResult, nil
}

// memoryIdempotencyRepository serializes WithKeyLock with a mutex and applies
// writes only when fn succeeds.
type memoryIdempotencyRepository struct {
	mu      sync.Mutex
	records map[string]dto.IdempotencyRecord
}

func newMemoryIdempotencyRepository() *memoryIdempotencyRepository {
	return &memoryIdempotencyRepository{records: map[string]dto.IdempotencyRecord{}}
}

func (r *memoryIdempotencyRepository) WithKeyLock(
	ctx context.Context,
	_ string,
	fn func(tx portsout.IdempotencyKeyTx) *apperrors.AppError,
) *apperrors.AppError {
	r.mu.Lock()
	defer r.mu.Unlock()

	staged := make(map[string]dto.IdempotencyRecord, len(r.records))
	for key, record := range r.records {
		staged[key] = record
	}
	if appErr := fn(&memoryKeyTx{records: staged}); appErr != nil {
		return appErr
	}
	r.records = staged
	return nil
}

func (r *memoryIdempotencyRepository) Finish(_ context.Context, key string, responseBody json.RawMessage, statusCode int) *apperrors.AppError {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[key]
	if !ok {
		return nil
	}
	record.ResponseBody = responseBody
	record.StatusCode = statusCode
	r.records[key] = record
	return nil
}

func (r *memoryIdempotencyRepository) Abandon(_ context.Context, key string) *apperrors.AppError {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record, ok := r.records[key]; ok && record.StatusCode == 0 {
		delete(r.records, key)
	}
	return nil
}

type memoryKeyTx struct {
	records map[string]dto.IdempotencyRecord
}

func (t *memoryKeyTx) Find(_ context.Context, key string) (dto.IdempotencyRecord, bool, *apperrors.AppError) {
	record, ok := t.records[key]
	return record, ok, nil
}

func (t *memoryKeyTx) Insert(_ context.Context, record dto.IdempotencyRecord) *apperrors.AppError {
	t.records[record.Key] = record
	return nil
}

func (t *memoryKeyTx) Delete(_ context.Context, key string) *apperrors.AppError {
	delete(t.records, key)
	return nil
}

type fakeSandboxAdmin struct {
	known      map[string]bool
	lastSetFor string
}

func (f *fakeSandboxAdmin) Status() dto.SandboxStatus {
	return dto.SandboxStatus{Settings: dto.SandboxSettings{Seed: 7}}
}

func (f *fakeSandboxAdmin) IsKnownProfile(profile string) bool {
	return f.known[profile]
}

func (f *fakeSandboxAdmin) SetProfile(providerID, profile string) dto.SetSandboxProfileOutput {
	f.lastSetFor = providerID
	return dto.SetSandboxProfileOutput{Message: "Sandbox profile updated", ProviderID: providerID, Profile: profile}
}
