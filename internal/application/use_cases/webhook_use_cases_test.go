//go:build !integration

package use_cases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightflow/internal/application/dto"
	"freightflow/internal/domain/entities"
	apperrors "freightflow/internal/shared_kernel/errors"
)

func TestCreateWebhookSubscriptionNormalizesURL(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repository := &fakeSubscriptionRepository{}
	useCase := NewCreateWebhookSubscriptionUseCase(repository, fixedClock{now: now})

	output, appErr := useCase.Execute(context.Background(), dto.CreateWebhookSubscriptionCommand{
		URL:    "HTTPS://Hooks.Example.com./freight#frag",
		Events: []string{"shipment.delivered", "shipment.*"},
		Secret: "s3cret",
	})
	require.Nil(t, appErr)
	assert.Equal(t, "https://hooks.example.com/freight", output.URL)
	assert.Equal(t, now, output.CreatedAt)
	assert.NotEmpty(t, output.ID)
	require.Len(t, repository.created, 1)
	assert.Equal(t, "s3cret", repository.created[0].Secret)
}

func TestCreateWebhookSubscriptionRejectsInvalidInput(t *testing.T) {
	testCases := []struct {
		name    string
		command dto.CreateWebhookSubscriptionCommand
	}{
		{name: "relative url", command: dto.CreateWebhookSubscriptionCommand{URL: "/hooks", Events: []string{}}},
		{name: "ftp url", command: dto.CreateWebhookSubscriptionCommand{URL: "ftp://hooks.example.com", Events: []string{}}},
		{name: "missing events", command: dto.CreateWebhookSubscriptionCommand{URL: "https://hooks.example.com"}},
		{name: "blank event", command: dto.CreateWebhookSubscriptionCommand{URL: "https://hooks.example.com", Events: []string{" "}}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			useCase := NewCreateWebhookSubscriptionUseCase(&fakeSubscriptionRepository{}, nil)
			_, appErr := useCase.Execute(context.Background(), tc.command)
			require.NotNil(t, appErr)
			assert.Equal(t, apperrors.TypeValidation, appErr.Type)
		})
	}
}

func TestDispatchSimulationQueuesOneEventPerSubscription(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	subscriptions := &fakeSubscriptionRepository{matching: []entities.WebhookSubscription{{ID: "sub-1"}, {ID: "sub-2"}}}
	events := &fakeWebhookEventRepository{}
	useCase := NewDispatchSimulationUseCase(subscriptions, events, fixedClock{now: now})

	output, appErr := useCase.Execute(context.Background(), dto.DispatchSimulationCommand{
		ShipmentID: "acme_shp_1",
		Status:     "IN_TRANSIT",
		EventID:    "evt-fixed",
	})
	require.Nil(t, appErr)
	assert.Equal(t, 2, output.Count)
	assert.Equal(t, "shipment.in_transit", subscriptions.lastEventType)
	require.Len(t, events.created, 2)
	for _, event := range events.created {
		assert.Equal(t, "pending", event.Status.String())
		assert.Equal(t, "evt-fixed", event.Payload.EventID)
		assert.Equal(t, "IN_TRANSIT", event.Payload.Status)
		assert.Equal(t, now, event.Payload.OccurredAt)
	}
}

func TestDispatchSimulationGeneratesEventIDsAndKeepsPrefixedStatus(t *testing.T) {
	subscriptions := &fakeSubscriptionRepository{matching: []entities.WebhookSubscription{{ID: "sub-1"}, {ID: "sub-2"}}}
	events := &fakeWebhookEventRepository{}
	useCase := NewDispatchSimulationUseCase(subscriptions, events, nil)

	_, appErr := useCase.Execute(context.Background(), dto.DispatchSimulationCommand{ShipmentID: "s", Status: "Shipment.Delivered"})
	require.Nil(t, appErr)
	assert.Equal(t, "shipment.delivered", subscriptions.lastEventType)
	require.Len(t, events.created, 2)
	assert.NotEmpty(t, events.created[0].Payload.EventID)
	assert.NotEqual(t, events.created[0].Payload.EventID, events.created[1].Payload.EventID)
}

func TestDispatchSimulationWithoutSubscribers(t *testing.T) {
	events := &fakeWebhookEventRepository{}
	useCase := NewDispatchSimulationUseCase(&fakeSubscriptionRepository{}, events, nil)

	output, appErr := useCase.Execute(context.Background(), dto.DispatchSimulationCommand{ShipmentID: "s", Status: "delivered"})
	require.Nil(t, appErr)
	assert.Equal(t, 0, output.Count)
	assert.Empty(t, events.created)
}

func TestListFailedWebhookEventsLimit(t *testing.T) {
	repository := &fakeWebhookEventOpsRepository{}
	useCase := NewListFailedWebhookEventsUseCase(repository)

	output, appErr := useCase.Execute(context.Background(), dto.ListFailedWebhookEventsQuery{})
	require.Nil(t, appErr)
	assert.Equal(t, defaultFailedWebhookLimit, repository.lastLimit)
	assert.NotNil(t, output.Events)

	_, appErr = useCase.Execute(context.Background(), dto.ListFailedWebhookEventsQuery{Limit: 201})
	require.NotNil(t, appErr)
	assert.Equal(t, "invalid_request", appErr.Code)
}

func TestRequeueWebhookEvent(t *testing.T) {
	id := "4b5a0a8e-8f43-4a4c-9d11-0f3b2f0c9e21"
	repository := &fakeWebhookEventOpsRepository{requeueResult: dto.RequeueWebhookEventOutput{ID: id, Status: "pending"}}
	useCase := NewRequeueWebhookEventUseCase(repository)

	output, appErr := useCase.Execute(context.Background(), dto.RequeueWebhookEventCommand{ID: id})
	require.Nil(t, appErr)
	assert.Equal(t, "pending", output.Status)
	assert.Equal(t, id, repository.lastRequeueID)

	_, appErr = useCase.Execute(context.Background(), dto.RequeueWebhookEventCommand{ID: "not-a-uuid"})
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.TypeNotFound, appErr.Type)

	repository.requeueErr = apperrors.NewConflict("webhook_event_not_failed", "only failed webhook events can be requeued", nil)
	_, appErr = useCase.Execute(context.Background(), dto.RequeueWebhookEventCommand{ID: id})
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.TypeConflict, appErr.Type)
}

func TestGetWebhookEventOverview(t *testing.T) {
	repository := &fakeWebhookEventOpsRepository{overview: dto.WebhookEventOverview{PendingCount: 3, FailedCount: 1}}

	output, appErr := NewGetWebhookEventOverviewUseCase(repository).Execute(context.Background(), dto.GetWebhookEventOverviewQuery{})
	require.Nil(t, appErr)
	assert.Equal(t, int64(3), output.PendingCount)
	assert.Equal(t, int64(1), output.FailedCount)
}
