package shipment

import (
	"context"
	"database/sql"
	"errors"

	portsout "freightflow/internal/application/ports/out"
	"freightflow/internal/domain/entities"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type Repository struct {
	db *sql.DB
}

var _ portsout.ShipmentRepository = (*Repository)(nil)

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, shipment entities.Shipment) *apperrors.AppError {
	const query = `
INSERT INTO app.shipments (id, provider_id, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO NOTHING
`
	if _, err := r.db.ExecContext(ctx, query, shipment.ID, shipment.ProviderID, shipment.CreatedAt.UTC()); err != nil {
		return apperrors.NewInternal(
			"shipment_persist_failed",
			"failed to persist shipment",
			map[string]any{"shipment_id": shipment.ID, "error": err.Error()},
		)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (entities.Shipment, bool, *apperrors.AppError) {
	const query = `
SELECT id, provider_id, created_at
FROM app.shipments
WHERE id = $1
`
	shipment := entities.Shipment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&shipment.ID, &shipment.ProviderID, &shipment.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Shipment{}, false, nil
	}
	if err != nil {
		return entities.Shipment{}, false, apperrors.NewInternal(
			"shipment_query_failed",
			"failed to load shipment",
			map[string]any{"shipment_id": id, "error": err.Error()},
		)
	}
	shipment.CreatedAt = shipment.CreatedAt.UTC()
	return shipment, true, nil
}
