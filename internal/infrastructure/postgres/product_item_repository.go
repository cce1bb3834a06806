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

var _ repository.ProductItemRepository = (*ProductItemRepo)(nil)

// ProductItemRepo implementación sobre PostgreSQL (usable con pool o tx).
type ProductItemRepo struct {
	q Querier
}

// NewProductItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductItemRepository(q Querier) *ProductItemRepo {
	return &ProductItemRepo{q: q}
}

const itemColumns = `id, reference, barcode, serial_number, variant_id, product_id, supplier_id,
	purchase_cost, currency, state, status, location_id, context_kind, context_id, created_at, updated_at, updated_by`

func scanItem(row pgx.Row) (*entity.ProductItem, error) {
	var it entity.ProductItem
	var serial, supplier, ctxKind, ctxID, by *string
	err := row.Scan(&it.ID, &it.Reference, &it.Barcode, &serial, &it.VariantID, &it.ProductID, &supplier,
		&it.PurchaseCost, &it.Currency, &it.State, &it.Status, &it.LocationID, &ctxKind, &ctxID,
		&it.CreatedAt, &it.UpdatedAt, &by)
	if err != nil {
		return nil, err
	}
	it.SerialNumber = deref(serial)
	it.SupplierID = deref(supplier)
	it.Context = entity.ItemContext{Kind: deref(ctxKind), ID: deref(ctxID)}
	it.UpdatedBy = deref(by)
	return &it, nil
}

// Create persiste un ítem.
func (r *ProductItemRepo) Create(ctx context.Context, it *entity.ProductItem) error {
	query := `
		INSERT INTO product_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query, it.ID, it.Reference, it.Barcode, nullIfEmpty(it.SerialNumber), it.VariantID, it.ProductID,
		nullIfEmpty(it.SupplierID), it.PurchaseCost, it.Currency, it.State, it.Status, it.LocationID,
		nullIfEmpty(it.Context.Kind), nullIfEmpty(it.Context.ID), it.CreatedAt, it.UpdatedAt, nullIfEmpty(it.UpdatedBy))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("ítem %q duplicado: %w", it.Barcode, domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert product item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID.
func (r *ProductItemRepo) GetByID(ctx context.Context, id string) (*entity.ProductItem, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM product_items WHERE id = $1`, "get product item", id)
}

// GetForUpdate obtiene el ítem y bloquea la fila.
func (r *ProductItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductItem, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM product_items WHERE id = $1 FOR UPDATE`, "get product item for update", id)
}

func (r *ProductItemRepo) getOne(ctx context.Context, query, op string, id string) (*entity.ProductItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return it, nil
}

// Update persiste posición, ubicación y flujo activo del ítem.
func (r *ProductItemRepo) Update(ctx context.Context, it *entity.ProductItem) error {
	query := `
		UPDATE product_items
		SET state = $2, status = $3, location_id = $4, context_kind = $5, context_id = $6, updated_at = $7, updated_by = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, it.ID, it.State, it.Status, it.LocationID,
		nullIfEmpty(it.Context.Kind), nullIfEmpty(it.Context.ID), it.UpdatedAt, nullIfEmpty(it.UpdatedBy))
	if err != nil {
		return fmt.Errorf("update product item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("ítem", it.ID)
	}
	return nil
}

// ListByLocationForUpdate bloquea los ítems ubicados exactamente en la ubicación.
func (r *ProductItemRepo) ListByLocationForUpdate(ctx context.Context, locationID string) ([]*entity.ProductItem, error) {
	rows, err := r.q.Query(ctx, `SELECT `+itemColumns+` FROM product_items WHERE location_id = $1 ORDER BY id FOR UPDATE`, locationID)
	if err != nil {
		return nil, fmt.Errorf("list items by location: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// CountByVariant número de ítems de la variante (base de la conservación de contadores).
func (r *ProductItemRepo) CountByVariant(ctx context.Context, variantID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM product_items WHERE variant_id = $1`, variantID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count items by variant: %w", err)
	}
	return n, nil
}
