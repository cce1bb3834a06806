package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-wms/internal/domain"
	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
	"github.com/jhoicas/Inventario-wms/internal/domain/repository"
)

var _ repository.InvestigationRepository = (*InvestigationRepo)(nil)

// InvestigationRepo implementación sobre PostgreSQL (usable con pool o tx).
type InvestigationRepo struct {
	q Querier
}

// NewInvestigationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvestigationRepository(q Querier) *InvestigationRepo {
	return &InvestigationRepo{q: q}
}

const investigationColumns = `id, reference, product_item_id, storage_point_id, status, comment,
	opened_by, closed_by, closed_at, created_at, updated_at`

// Create persiste una investigación.
func (r *InvestigationRepo) Create(ctx context.Context, inv *entity.Investigation) error {
	query := `
		INSERT INTO investigations (` + investigationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query, inv.ID, inv.Reference, inv.ProductItemID, inv.StoragePointID, inv.Status, inv.Comment,
		nullIfEmpty(inv.OpenedBy), nullIfEmpty(inv.ClosedBy), inv.ClosedAt, inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert investigation: %w", err)
	}
	return nil
}

// GetByID obtiene una investigación por ID.
func (r *InvestigationRepo) GetByID(ctx context.Context, id string) (*entity.Investigation, error) {
	return r.getOne(ctx, `SELECT `+investigationColumns+` FROM investigations WHERE id = $1`, id)
}

// GetForUpdate obtiene la investigación y bloquea la fila.
func (r *InvestigationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Investigation, error) {
	return r.getOne(ctx, `SELECT `+investigationColumns+` FROM investigations WHERE id = $1 FOR UPDATE`, id)
}

func (r *InvestigationRepo) getOne(ctx context.Context, query, id string) (*entity.Investigation, error) {
	var inv entity.Investigation
	var openedBy, closedBy *string
	err := r.q.QueryRow(ctx, query, id).Scan(&inv.ID, &inv.Reference, &inv.ProductItemID, &inv.StoragePointID,
		&inv.Status, &inv.Comment, &openedBy, &closedBy, &inv.ClosedAt, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get investigation: %w", err)
	}
	inv.OpenedBy = deref(openedBy)
	inv.ClosedBy = deref(closedBy)
	return &inv, nil
}

// Update persiste estado, comentario y datos de cierre.
func (r *InvestigationRepo) Update(ctx context.Context, inv *entity.Investigation) error {
	query := `
		UPDATE investigations SET status = $2, comment = $3, closed_by = $4, closed_at = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, inv.ID, inv.Status, inv.Comment, nullIfEmpty(inv.ClosedBy), inv.ClosedAt, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update investigation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("investigación", inv.ID)
	}
	return nil
}
