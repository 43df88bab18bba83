package use_cases

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"freightflow/internal/application/dto"
	portsin "freightflow/internal/application/ports/in"
	portsout "freightflow/internal/application/ports/out"
	"freightflow/internal/domain/entities"
	valueobjects "freightflow/internal/domain/value_objects"
	apperrors "freightflow/internal/shared_kernel/errors"
	"freightflow/internal/shared_kernel/logging"
)

const (
	DefaultWebhookBatchSize   = 50
	DefaultWebhookMaxAttempts = 5
)

const (
	duplicateModeSameEventID = "sameEventId"
	duplicateModeNewEventID  = "newEventId"
)

type deliverWebhookEventsUseCase struct {
	repository portsout.WebhookEventRepository
	gateway    portsout.WebhookEventGateway
	planner    portsout.WebhookChaosPlanner
	breakers   portsout.WebhookCircuitBreakers
	schedule   portsout.WebhookRetrySchedule
	metrics    portsout.WebhookMetrics
	clock      Clock
	logger     *zap.Logger
}

func NewDeliverWebhookEventsUseCase(
	repository portsout.WebhookEventRepository,
	gateway portsout.WebhookEventGateway,
	planner portsout.WebhookChaosPlanner,
	breakers portsout.WebhookCircuitBreakers,
	schedule portsout.WebhookRetrySchedule,
	metrics portsout.WebhookMetrics,
	clock Clock,
	logger *zap.Logger,
) portsin.DeliverWebhookEventsUseCase {
	if metrics == nil {
		metrics = nopWebhookMetrics{}
	}
	if clock == nil {
		clock = NewSystemClock()
	}

	return &deliverWebhookEventsUseCase{
		repository: repository,
		gateway:    gateway,
		planner:    planner,
		breakers:   breakers,
		schedule:   schedule,
		metrics:    metrics,
		clock:      clock,
		logger:     logging.OrNop(logger),
	}
}

func (u *deliverWebhookEventsUseCase) Execute(
	ctx context.Context,
	command dto.DeliverWebhookEventsCommand,
) (dto.DeliverWebhookEventsOutput, *apperrors.AppError) {
	if u.repository == nil {
		return dto.DeliverWebhookEventsOutput{}, apperrors.NewInternal(
			"webhook_event_repository_missing",
			"webhook event repository is required",
			nil,
		)
	}
	if u.gateway == nil {
		return dto.DeliverWebhookEventsOutput{}, apperrors.NewInternal(
			"webhook_event_gateway_missing",
			"webhook event gateway is required",
			nil,
		)
	}
	if u.planner == nil || u.breakers == nil || u.schedule == nil {
		return dto.DeliverWebhookEventsOutput{}, apperrors.NewInternal(
			"webhook_delivery_dependencies_missing",
			"webhook chaos planner, circuit breakers and retry schedule are required",
			nil,
		)
	}

	batchSize := command.BatchSize
	if batchSize == 0 {
		batchSize = DefaultWebhookBatchSize
	}
	if batchSize < 0 {
		return dto.DeliverWebhookEventsOutput{}, apperrors.NewValidation(
			"deliver_webhook_batch_size_invalid",
			"deliver webhook batch size must be greater than zero",
			map[string]any{"batch_size": command.BatchSize},
		)
	}
	maxAttempts := command.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultWebhookMaxAttempts
	}

	startedAt := time.Now()
	dueAt := command.Now.UTC()
	if command.Now.IsZero() {
		dueAt = u.clock.NowUTC()
	}

	events, appErr := u.repository.FindDue(ctx, dueAt, batchSize)
	if appErr != nil {
		return dto.DeliverWebhookEventsOutput{}, appErr
	}

	output := dto.DeliverWebhookEventsOutput{Fetched: len(events)}
	if len(events) == 0 {
		return output, nil
	}
	u.logger.Info("found webhook events to process", zap.Int("count", len(events)))

	for _, planned := range u.planner.Plan(events) {
		if appErr := u.process(ctx, planned, u.clock.NowUTC(), maxAttempts, &output); appErr != nil {
			output.LatencyMS = time.Since(startedAt).Milliseconds()
			return output, appErr
		}
	}

	output.LatencyMS = time.Since(startedAt).Milliseconds()
	return output, nil
}

func (u *deliverWebhookEventsUseCase) process(
	ctx context.Context,
	planned dto.PlannedWebhookEvent,
	now time.Time,
	maxAttempts int,
	output *dto.DeliverWebhookEventsOutput,
) *apperrors.AppError {
	event := planned.Event
	isLastAttempt := event.Attempts >= maxAttempts-1
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("subscription_id", event.SubscriptionID),
		zap.String("profile", planned.Profile),
	}

	if planned.Drop {
		u.metrics.IncWebhookChaosDrop(event.SubscriptionID, planned.Profile)
		u.logger.Warn("webhook dropped by sandbox chaos policy", fields...)
		output.Dropped++
		return u.repository.Update(ctx, dto.WebhookEventUpdate{
			ID:        event.ID,
			Status:    valueobjects.WebhookEventStatusFailed.String(),
			Attempts:  event.Attempts + 1,
			UpdatedAt: now,
		})
	}

	if err := u.breakers.Allow(event.SubscriptionID, now); err != nil {
		delay := u.schedule.Delay(event.Attempts + 1)
		nextAttemptAt := now.Add(delay)
		u.logger.Warn(
			"webhook skipped because circuit is open",
			append(fields, zap.Duration("delay", delay))...,
		)
		output.ShortCircuited++
		return u.repository.Update(ctx, dto.WebhookEventUpdate{
			ID:            event.ID,
			Status:        valueobjects.WebhookEventStatusPending.String(),
			Attempts:      event.Attempts,
			NextAttemptAt: &nextAttemptAt,
			UpdatedAt:     now,
		})
	}

	deliveryAttempts := 1
	sendErr := u.send(ctx, event, event.Payload)
	countHTTPClass(output, sendErr)
	if sendErr != nil {
		return u.handleFailure(ctx, planned, sendErr, deliveryAttempts, isLastAttempt, now, output, fields)
	}

	u.breakers.OnSuccess(event.SubscriptionID, now)
	if appErr := u.repository.Update(ctx, dto.WebhookEventUpdate{
		ID:        event.ID,
		Status:    valueobjects.WebhookEventStatusDelivered.String(),
		Attempts:  event.Attempts + deliveryAttempts,
		UpdatedAt: now,
	}); appErr != nil {
		return appErr
	}
	u.metrics.IncWebhookDelivery(planned.Profile, "success")
	u.logger.Info("webhook delivered", append(fields, zap.Int("attempt", event.Attempts+1))...)
	output.Delivered++

	if !planned.Duplicate {
		return nil
	}

	mode := duplicateModeSameEventID
	payload := event.Payload
	if planned.DuplicateWithNewEventID {
		mode = duplicateModeNewEventID
		payload.EventID = fmt.Sprintf("%s-dup-%d", event.Payload.EventID, event.Attempts+1)
	}

	deliveryAttempts++
	duplicateErr := u.send(ctx, event, payload)
	u.metrics.IncWebhookChaosDuplicate(planned.Profile, mode, duplicateOutcome(duplicateErr))
	output.Duplicated++
	if duplicateErr != nil {
		u.logger.Warn(
			"duplicate webhook delivery failed",
			append(fields, zap.String("duplicate_mode", mode), zap.Error(duplicateErr))...,
		)
	} else {
		u.logger.Info("webhook duplicate delivery executed", append(fields, zap.String("duplicate_mode", mode))...)
	}
	if appErr := u.repository.Update(ctx, dto.WebhookEventUpdate{
		ID:        event.ID,
		Status:    valueobjects.WebhookEventStatusDelivered.String(),
		Attempts:  event.Attempts + deliveryAttempts,
		UpdatedAt: now,
	}); appErr != nil {
		u.logger.Warn("failed to record duplicate delivery attempt", append(fields, zap.String("error", appErr.Message))...)
	}
	return nil
}

func (u *deliverWebhookEventsUseCase) handleFailure(
	ctx context.Context,
	planned dto.PlannedWebhookEvent,
	sendErr error,
	deliveryAttempts int,
	isLastAttempt bool,
	now time.Time,
	output *dto.DeliverWebhookEventsOutput,
	fields []zap.Field,
) *apperrors.AppError {
	event := planned.Event
	retryable := IsRetryableWebhookFailure(sendErr)
	if retryable {
		u.breakers.OnFailure(event.SubscriptionID, now)
	}

	outcome := "permanent_error"
	if retryable {
		outcome = "retryable_error"
	}
	u.metrics.IncWebhookDelivery(planned.Profile, outcome)
	u.logger.Warn(
		"webhook delivery failed",
		append(fields, zap.Error(sendErr), zap.Bool("retryable", retryable), zap.Int("attempt", event.Attempts+1))...,
	)

	update := dto.WebhookEventUpdate{
		ID:        event.ID,
		Status:    valueobjects.WebhookEventStatusFailed.String(),
		Attempts:  event.Attempts + max(1, deliveryAttempts),
		UpdatedAt: now,
	}
	if retryable && !isLastAttempt {
		nextAttemptAt := now.Add(u.retryDelay(sendErr, event.Attempts))
		update.Status = valueobjects.WebhookEventStatusPending.String()
		update.NextAttemptAt = &nextAttemptAt
		output.Retried++
	} else {
		output.Failed++
	}

	return u.repository.Update(ctx, update)
}

func (u *deliverWebhookEventsUseCase) send(
	ctx context.Context,
	event entities.WebhookEvent,
	payload entities.WebhookEventPayload,
) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	result, err := u.gateway.SendWebhookEvent(ctx, dto.SendWebhookEventInput{
		URL:     event.URL,
		Secret:  event.Secret,
		Payload: body,
	})
	if err != nil {
		return err
	}
	if result.StatusCode < 200 || result.StatusCode > 299 {
		return apperrors.NewHTTPStatusFault(fmt.Sprintf("HTTP Error %d", result.StatusCode), result.StatusCode, 0)
	}
	return nil
}

func (u *deliverWebhookEventsUseCase) retryDelay(err error, attempts int) time.Duration {
	delay := u.schedule.Delay(attempts + 1)
	if fault, ok := apperrors.AsFault(err); ok && fault.RetryAfter > 0 {
		delay = max(delay, time.Duration(fault.RetryAfter)*time.Second)
	}
	return delay
}

// IsRetryableWebhookFailure treats 429, 5xx, transient network errors and
// unclassified errors as retryable.
func IsRetryableWebhookFailure(err error) bool {
	fault, ok := apperrors.AsFault(err)
	if !ok {
		return true
	}
	if fault.StatusCode != 0 {
		return fault.StatusCode == http.StatusTooManyRequests || fault.StatusCode >= 500
	}
	if fault.Code != "" && fault.Kind == apperrors.FaultNetwork {
		return apperrors.IsTransientNetworkCode(fault.Code)
	}
	return true
}

func duplicateOutcome(err error) string {
	if err == nil {
		return "success"
	}
	if fault, ok := apperrors.AsFault(err); ok && fault.StatusCode != 0 {
		return fmt.Sprintf("http_%d", fault.StatusCode)
	}
	return "error"
}

func countHTTPClass(output *dto.DeliverWebhookEventsOutput, err error) {
	if err == nil {
		output.HTTP2xxCount++
		return
	}
	fault, ok := apperrors.AsFault(err)
	switch {
	case !ok || fault.StatusCode == 0:
		output.NetworkErrorCount++
	case fault.StatusCode >= 500:
		output.HTTP5xxCount++
	case fault.StatusCode >= 400:
		output.HTTP4xxCount++
	}
}

type nopWebhookMetrics struct{}

func (nopWebhookMetrics) IncWebhookDelivery(string, string) {}
func (nopWebhookMetrics) IncWebhookChaosDrop(string, string) {}
func (nopWebhookMetrics) IncWebhookChaosDuplicate(string, string, string) {}
func (nopWebhookMetrics) IncWebhookPassSkipped() {}
