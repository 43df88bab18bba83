package webhooksubscription

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgtype"

	portsout "freightflow/internal/application/ports/out"
	"freightflow/internal/domain/entities"
	valueobjects "freightflow/internal/domain/value_objects"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type Repository struct {
	db *sql.DB
}

var _ portsout.WebhookSubscriptionRepository = (*Repository)(nil)

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, subscription entities.WebhookSubscription) *apperrors.AppError {
	const query = `
INSERT INTO app.webhook_subscriptions (id, url, events, secret, created_at)
VALUES ($1, $2, $3, NULLIF($4, ''), $5)
`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		subscription.ID,
		subscription.URL,
		subscription.Events,
		subscription.Secret,
		subscription.CreatedAt.UTC(),
	); err != nil {
		return apperrors.NewInternal(
			"webhook_subscription_persist_failed",
			"failed to persist webhook subscription",
			map[string]any{"error": err.Error()},
		)
	}
	return nil
}

// FindMatchingEvent returns subscriptions listening to eventType directly or through the wildcard.
func (r *Repository) FindMatchingEvent(ctx context.Context, eventType string) ([]entities.WebhookSubscription, *apperrors.AppError) {
	const query = `
SELECT id, url, events, COALESCE(secret, ''), created_at
FROM app.webhook_subscriptions
WHERE events && ARRAY[$1, $2]::text[]
ORDER BY created_at ASC, id ASC
`
	rows, err := r.db.QueryContext(ctx, query, eventType, valueobjects.WildcardShipmentEventType)
	if err != nil {
		return nil, apperrors.NewInternal(
			"webhook_subscription_query_failed",
			"failed to query webhook subscriptions",
			map[string]any{"event_type": eventType, "error": err.Error()},
		)
	}
	defer rows.Close()

	typeMap := pgtype.NewMap()
	subscriptions := []entities.WebhookSubscription{}
	for rows.Next() {
		subscription := entities.WebhookSubscription{}
		if err := rows.Scan(
			&subscription.ID,
			&subscription.URL,
			typeMap.SQLScanner(&subscription.Events),
			&subscription.Secret,
			&subscription.CreatedAt,
		); err != nil {
			return nil, apperrors.NewInternal(
				"webhook_subscription_query_failed",
				"failed to parse webhook subscription",
				map[string]any{"error": err.Error()},
			)
		}
		subscription.CreatedAt = subscription.CreatedAt.UTC()
		subscriptions = append(subscriptions, subscription)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternal(
			"webhook_subscription_query_failed",
			"failed while iterating webhook subscriptions",
			map[string]any{"error": err.Error()},
		)
	}

	return subscriptions, nil
}
