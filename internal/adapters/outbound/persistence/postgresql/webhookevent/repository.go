package webhookevent

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"freightflow/internal/application/dto"
	portsout "freightflow/internal/application/ports/out"
	"freightflow/internal/domain/entities"
	valueobjects "freightflow/internal/domain/value_objects"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type Repository struct {
	db *sql.DB
}

var (
	_ portsout.WebhookEventRepository    = (*Repository)(nil)
	_ portsout.WebhookEventOpsRepository = (*Repository)(nil)
)

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateBatch(ctx context.Context, events []entities.WebhookEvent) *apperrors.AppError {
	if len(events) == 0 {
		return nil
	}

	const query = `
INSERT INTO app.webhook_events (
  id,
  subscription_id,
  event_id,
  shipment_id,
  event_type,
  status,
  attempts,
  next_attempt_at,
  payload,
  created_at,
  updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return insertFailed(err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, event := range events {
		payload, err := json.Marshal(event.Payload)
		if err != nil {
			return insertFailed(err)
		}
		if _, err := tx.ExecContext(
			ctx,
			query,
			event.ID,
			event.SubscriptionID,
			event.Payload.EventID,
			event.Payload.ShipmentID,
			event.Payload.EventType,
			string(event.Status),
			event.Attempts,
			nullableTime(event.NextAttemptAt),
			payload,
			event.CreatedAt.UTC(),
		); err != nil {
			return insertFailed(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return insertFailed(err)
	}
	return nil
}

func (r *Repository) FindDue(ctx context.Context, now time.Time, limit int) ([]entities.WebhookEvent, *apperrors.AppError) {
	const query = `
SELECT
  e.id,
  e.subscription_id,
  s.url,
  COALESCE(s.secret, ''),
  e.status,
  e.attempts,
  e.next_attempt_at,
  e.payload,
  e.created_at,
  e.updated_at
FROM app.webhook_events e
JOIN app.webhook_subscriptions s ON s.id = e.subscription_id
WHERE e.status = 'pending'
  AND (e.next_attempt_at IS NULL OR e.next_attempt_at <= $1)
ORDER BY e.subscription_id ASC, e.created_at ASC, e.id ASC
LIMIT $2
`

	rows, err := r.db.QueryContext(ctx, query, now.UTC(), limit)
	if err != nil {
		return nil, queryFailed("failed to query due webhook events", err)
	}
	defer rows.Close()

	events := make([]entities.WebhookEvent, 0, limit)
	for rows.Next() {
		var (
			event         entities.WebhookEvent
			status        string
			nextAttemptAt sql.NullTime
			payload       []byte
		)
		if err := rows.Scan(
			&event.ID,
			&event.SubscriptionID,
			&event.URL,
			&event.Secret,
			&status,
			&event.Attempts,
			&nextAttemptAt,
			&payload,
			&event.CreatedAt,
			&event.UpdatedAt,
		); err != nil {
			return nil, queryFailed("failed to parse due webhook event", err)
		}
		if err := json.Unmarshal(payload, &event.Payload); err != nil {
			return nil, queryFailed("failed to decode webhook event payload", err)
		}

		parsedStatus, appErr := valueobjects.ParseWebhookEventStatus(status)
		if appErr != nil {
			return nil, appErr
		}
		event.Status = parsedStatus
		if nextAttemptAt.Valid {
			value := nextAttemptAt.Time.UTC()
			event.NextAttemptAt = &value
		}
		event.CreatedAt = event.CreatedAt.UTC()
		event.UpdatedAt = event.UpdatedAt.UTC()
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("failed while iterating due webhook events", err)
	}

	return events, nil
}

func (r *Repository) Update(ctx context.Context, update dto.WebhookEventUpdate) *apperrors.AppError {
	const query = `
UPDATE app.webhook_events
SET
  status = $2,
  attempts = $3,
  next_attempt_at = $4,
  updated_at = $5
WHERE id = $1
`
	result, err := r.db.ExecContext(
		ctx,
		query,
		update.ID,
		update.Status,
		update.Attempts,
		nullableTime(update.NextAttemptAt),
		update.UpdatedAt.UTC(),
	)
	if err != nil {
		return updateFailed(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return updateFailed(err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFound(
			"webhook_event_not_found",
			"webhook event not found",
			map[string]any{"id": update.ID},
		)
	}
	return nil
}

func (r *Repository) GetOverview(ctx context.Context) (dto.WebhookEventOverview, *apperrors.AppError) {
	const query = `
SELECT
  COUNT(*) FILTER (WHERE status = 'pending' AND attempts = 0),
  COUNT(*) FILTER (WHERE status = 'pending' AND attempts > 0),
  COUNT(*) FILTER (WHERE status = 'delivered'),
  COUNT(*) FILTER (WHERE status = 'failed'),
  MIN(created_at) FILTER (WHERE status = 'pending')
FROM app.webhook_events
`

	var (
		overview      dto.WebhookEventOverview
		oldestPending sql.NullTime
	)
	if err := r.db.QueryRowContext(ctx, query).Scan(
		&overview.PendingCount,
		&overview.RetryingCount,
		&overview.DeliveredCount,
		&overview.FailedCount,
		&oldestPending,
	); err != nil {
		return dto.WebhookEventOverview{}, queryFailed("failed to query webhook event overview", err)
	}
	if oldestPending.Valid {
		value := oldestPending.Time.UTC()
		overview.OldestPendingCreatedAt = &value
	}
	return overview, nil
}

func (r *Repository) ListFailed(ctx context.Context, limit int) ([]dto.FailedWebhookEvent, *apperrors.AppError) {
	const query = `
SELECT id, subscription_id, event_id, shipment_id, event_type, attempts, created_at, updated_at
FROM app.webhook_events
WHERE status = 'failed'
ORDER BY updated_at DESC, id ASC
LIMIT $1
`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, queryFailed("failed to query failed webhook events", err)
	}
	defer rows.Close()

	events := make([]dto.FailedWebhookEvent, 0, limit)
	for rows.Next() {
		event := dto.FailedWebhookEvent{}
		if err := rows.Scan(
			&event.ID,
			&event.SubscriptionID,
			&event.EventID,
			&event.ShipmentID,
			&event.EventType,
			&event.Attempts,
			&event.CreatedAt,
			&event.UpdatedAt,
		); err != nil {
			return nil, queryFailed("failed to parse failed webhook event", err)
		}
		event.CreatedAt = event.CreatedAt.UTC()
		event.UpdatedAt = event.UpdatedAt.UTC()
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("failed while iterating failed webhook events", err)
	}

	return events, nil
}

// Requeue moves a failed event back to pending with a fresh attempt budget.
func (r *Repository) Requeue(ctx context.Context, id string, now time.Time) (dto.RequeueWebhookEventOutput, *apperrors.AppError) {
	const query = `
UPDATE app.webhook_events
SET
  status = 'pending',
  attempts = 0,
  next_attempt_at = $2,
  updated_at = $2
WHERE id = $1
  AND status = 'failed'
RETURNING id, status, updated_at
`

	output := dto.RequeueWebhookEventOutput{}
	err := r.db.QueryRowContext(ctx, query, id, now.UTC()).Scan(&output.ID, &output.Status, &output.UpdatedAt)
	if err == nil {
		output.UpdatedAt = output.UpdatedAt.UTC()
		return output, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return dto.RequeueWebhookEventOutput{}, updateFailed(err)
	}

	var status string
	lookupErr := r.db.QueryRowContext(ctx, `SELECT status FROM app.webhook_events WHERE id = $1`, id).Scan(&status)
	if errors.Is(lookupErr, sql.ErrNoRows) {
		return dto.RequeueWebhookEventOutput{}, apperrors.NewNotFound(
			"webhook_event_not_found",
			"webhook event not found",
			map[string]any{"id": id},
		)
	}
	if lookupErr != nil {
		return dto.RequeueWebhookEventOutput{}, queryFailed("failed to load webhook event", lookupErr)
	}

	return dto.RequeueWebhookEventOutput{}, apperrors.NewConflict(
		"webhook_event_not_failed",
		"only failed webhook events can be requeued",
		map[string]any{"id": id, "status": status},
	)
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC()
}

func insertFailed(err error) *apperrors.AppError {
	return apperrors.NewInternal(
		"webhook_event_persist_failed",
		"failed to persist webhook events",
		map[string]any{"error": err.Error()},
	)
}

func updateFailed(err error) *apperrors.AppError {
	return apperrors.NewInternal(
		"webhook_event_update_failed",
		"failed to update webhook event",
		map[string]any{"error": err.Error()},
	)
}

func queryFailed(message string, err error) *apperrors.AppError {
	return apperrors.NewInternal(
		"webhook_event_query_failed",
		message,
		map[string]any{"error": err.Error()},
	)
}
