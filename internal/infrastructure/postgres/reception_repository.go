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

var _ repository.ReceptionRepository = (*ReceptionRepo)(nil)

// ReceptionRepo recepciones y sus líneas sobre PostgreSQL (usable con pool o tx).
type ReceptionRepo struct {
	q Querier
}

// NewReceptionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceptionRepository(q Querier) *ReceptionRepo {
	return &ReceptionRepo{q: q}
}

const receptionColumns = `id, reference, storage_point_id, supplier_id, status, comment, validated_at, validated_by, created_at, created_by`

// Create persiste una recepción.
func (r *ReceptionRepo) Create(ctx context.Context, rec *entity.Reception) error {
	query := `
		INSERT INTO receptions (` + receptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query, rec.ID, rec.Reference, rec.StoragePointID, nullIfEmpty(rec.SupplierID), rec.Status,
		rec.Comment, rec.ValidatedAt, nullIfEmpty(rec.ValidatedBy), rec.CreatedAt, nullIfEmpty(rec.CreatedBy))
	if err != nil {
		return fmt.Errorf("insert reception: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de recepción.
func (r *ReceptionRepo) CreateLine(ctx context.Context, line *entity.VariantReception) error {
	query := `
		INSERT INTO variant_receptions (id, reception_id, variant_id, product_item_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, line.ID, line.ReceptionID, line.VariantID, nullIfEmpty(line.ProductItemID), line.Quantity, line.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert variant reception: %w", err)
	}
	return nil
}

// GetByID obtiene una recepción por ID.
func (r *ReceptionRepo) GetByID(ctx context.Context, id string) (*entity.Reception, error) {
	return r.getOne(ctx, `SELECT `+receptionColumns+` FROM receptions WHERE id = $1`, id)
}

// GetForUpdate obtiene la recepción y bloquea la fila.
func (r *ReceptionRepo) GetForUpdate(ctx context.Context, id string) (*entity.Reception, error) {
	return r.getOne(ctx, `SELECT `+receptionColumns+` FROM receptions WHERE id = $1 FOR UPDATE`, id)
}

func (r *ReceptionRepo) getOne(ctx context.Context, query, id string) (*entity.Reception, error) {
	var rec entity.Reception
	var supplier, validatedBy, createdBy *string
	err := r.q.QueryRow(ctx, query, id).Scan(&rec.ID, &rec.Reference, &rec.StoragePointID, &supplier, &rec.Status,
		&rec.Comment, &rec.ValidatedAt, &validatedBy, &rec.CreatedAt, &createdBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reception: %w", err)
	}
	rec.SupplierID = deref(supplier)
	rec.ValidatedBy = deref(validatedBy)
	rec.CreatedBy = deref(createdBy)
	return &rec, nil
}

// Update persiste estado y datos de validación.
func (r *ReceptionRepo) Update(ctx context.Context, rec *entity.Reception) error {
	query := `UPDATE receptions SET status = $2, comment = $3, validated_at = $4, validated_by = $5 WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, rec.ID, rec.Status, rec.Comment, rec.ValidatedAt, nullIfEmpty(rec.ValidatedBy))
	if err != nil {
		return fmt.Errorf("update reception: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("recepción", rec.ID)
	}
	return nil
}

// ListLines líneas de una recepción en orden de creación.
func (r *ReceptionRepo) ListLines(ctx context.Context, receptionID string) ([]*entity.VariantReception, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, reception_id, variant_id, COALESCE(product_item_id, ''), quantity, created_at
		FROM variant_receptions WHERE reception_id = $1 ORDER BY created_at, id`, receptionID)
	if err != nil {
		return nil, fmt.Errorf("list variant receptions: %w", err)
	}
	defer rows.Close()
	var list []*entity.VariantReception
	for rows.Next() {
		var l entity.VariantReception
		if err := rows.Scan(&l.ID, &l.ReceptionID, &l.VariantID, &l.ProductItemID, &l.Quantity, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan variant reception: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
