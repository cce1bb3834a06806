package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-wms/internal/domain"
	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
	"github.com/jhoicas/Inventario-wms/internal/domain/inventory"
	"github.com/jhoicas/Inventario-wms/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación sobre PostgreSQL (usable con pool o tx).
// El árbol se consulta por prefijo de path; stock_value vive en location_stock_values.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

const locationColumns = `l.id, l.reference, l.barcode, l.name, COALESCE(l.area_id, ''), COALESCE(l.parent_id, ''),
	l.path, l.depth, COALESCE(l.default_type, ''), l.total_items, l.is_virtual, l.created_at, l.updated_at`

// forestCTE ubicaciones de un área: sus raíces y todo lo que cuelga de ellas.
const forestCTE = `WITH roots AS (SELECT path FROM locations WHERE area_id = $1)`

func scanLocation(row pgx.Row) (*entity.Location, error) {
	var l entity.Location
	err := row.Scan(&l.ID, &l.Reference, &l.Barcode, &l.Name, &l.AreaID, &l.ParentID,
		&l.Path, &l.Depth, &l.DefaultType, &l.TotalItems, &l.IsVirtual, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create persiste una ubicación.
func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	query := `
		INSERT INTO locations (id, reference, barcode, name, area_id, parent_id, path, depth, default_type, total_items, is_virtual, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query, l.ID, l.Reference, l.Barcode, l.Name, nullIfEmpty(l.AreaID), nullIfEmpty(l.ParentID),
		l.Path, l.Depth, nullIfEmpty(l.DefaultType), l.TotalItems, l.IsVirtual, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("ubicación %q duplicada: %w", l.Reference, domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	return r.getOne(ctx, `SELECT `+locationColumns+` FROM locations l WHERE l.id = $1`, "get location", id)
}

// GetByBarcode obtiene una ubicación por código de barras.
func (r *LocationRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Location, error) {
	return r.getOne(ctx, `SELECT `+locationColumns+` FROM locations l WHERE l.barcode = $1`, "get location by barcode", barcode)
}

func (r *LocationRepo) getOne(ctx context.Context, query, op string, args ...any) (*entity.Location, error) {
	l, err := scanLocation(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := r.attachStockValues(ctx, []*entity.Location{l}); err != nil {
		return nil, err
	}
	return l, nil
}

// Update actualiza los datos descriptivos.
func (r *LocationRepo) Update(ctx context.Context, l *entity.Location) error {
	query := `UPDATE locations SET reference = $2, barcode = $3, name = $4, updated_at = $5 WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, l.ID, l.Reference, l.Barcode, l.Name, l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("referencia o código de barras en uso: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update location: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("ubicación", l.ID)
	}
	return nil
}

// Ancestors lee de una vez los ids contenidos en el path.
func (r *LocationRepo) Ancestors(ctx context.Context, loc *entity.Location) ([]*entity.Location, error) {
	ids := inventory.AncestorIDs(loc.Path)
	return r.list(ctx, "ancestors", `SELECT `+locationColumns+` FROM locations l WHERE l.id = ANY($1) ORDER BY l.depth`, ids)
}

// Descendants subárbol por prefijo de path (incluye loc).
func (r *LocationRepo) Descendants(ctx context.Context, loc *entity.Location) ([]*entity.Location, error) {
	return r.list(ctx, "descendants", `SELECT `+locationColumns+` FROM locations l WHERE l.path LIKE $1 || '%'`, loc.Path)
}

// ListByArea bosque completo del área.
func (r *LocationRepo) ListByArea(ctx context.Context, areaID string) ([]*entity.Location, error) {
	query := forestCTE + `
		SELECT ` + locationColumns + ` FROM locations l
		JOIN roots r ON l.path LIKE r.path || '%'
		ORDER BY l.depth, l.reference`
	return r.list(ctx, "list locations by area", query, areaID)
}

// FindAnchor ubicación con default_type dentro del bosque del área.
func (r *LocationRepo) FindAnchor(ctx context.Context, areaID, defaultType string) (*entity.Location, error) {
	query := forestCTE + `
		SELECT ` + locationColumns + ` FROM locations l
		JOIN roots r ON l.path LIKE r.path || '%'
		WHERE l.default_type = $2
		ORDER BY l.depth
		LIMIT 1`
	return r.getOne(ctx, query, "find anchor", areaID, defaultType)
}

// LockForUpdate bloquea las filas en orden de id.
func (r *LocationRepo) LockForUpdate(ctx context.Context, ids []string) ([]*entity.Location, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, "lock locations", `SELECT `+locationColumns+` FROM locations l WHERE l.id = ANY($1) ORDER BY l.id FOR UPDATE`, ids)
}

// AdjustTotalItems suma delta a total_items; el CHECK total_items >= 0 convierte un contador negativo en ErrConflict.
func (r *LocationRepo) AdjustTotalItems(ctx context.Context, ids []string, delta int) error {
	if len(ids) == 0 || delta == 0 {
		return nil
	}
	cmd, err := r.q.Exec(ctx, `UPDATE locations SET total_items = total_items + $2, updated_at = now() WHERE id = ANY($1)`, ids, delta)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("total_items negativo: %w", domain.ErrConflict)
		}
		return fmt.Errorf("adjust total items: %w", err)
	}
	if int(cmd.RowsAffected()) != len(ids) {
		return fmt.Errorf("ajuste de total_items sobre %d de %d ubicaciones: %w", cmd.RowsAffected(), len(ids), domain.ErrConflict)
	}
	return nil
}

// AddStockValue acumula delta en la moneda para cada ubicación (upsert).
func (r *LocationRepo) AddStockValue(ctx context.Context, ids []string, currency string, delta decimal.Decimal) error {
	if len(ids) == 0 || delta.IsZero() {
		return nil
	}
	query := `
		INSERT INTO location_stock_values (location_id, currency, amount)
		SELECT id, $2, $3 FROM unnest($1::text[]) AS id
		ON CONFLICT (location_id, currency)
		DO UPDATE SET amount = location_stock_values.amount + EXCLUDED.amount`
	if _, err := r.q.Exec(ctx, query, ids, currency, delta); err != nil {
		return fmt.Errorf("add stock value: %w", err)
	}
	return nil
}

// DeleteByArea elimina el bosque del área; location_stock_values cae por ON DELETE CASCADE.
func (r *LocationRepo) DeleteByArea(ctx context.Context, areaID string) error {
	query := forestCTE + `
		DELETE FROM locations l USING roots r
		WHERE l.path LIKE r.path || '%'`
	if _, err := r.q.Exec(ctx, query, areaID); err != nil {
		return fmt.Errorf("delete locations by area: %w", err)
	}
	return nil
}

func (r *LocationRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Location, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var list []*entity.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := r.attachStockValues(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// attachStockValues carga los montos por moneda de las ubicaciones en una sola consulta.
func (r *LocationRepo) attachStockValues(ctx context.Context, locs []*entity.Location) error {
	if len(locs) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Location, len(locs))
	ids := make([]string, 0, len(locs))
	for _, l := range locs {
		byID[l.ID] = l
		ids = append(ids, l.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT location_id, currency, amount FROM location_stock_values
		WHERE location_id = ANY($1) ORDER BY currency`, ids)
	if err != nil {
		return fmt.Errorf("stock values: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id string
			ca entity.CurrencyAmount
		)
		if err := rows.Scan(&id, &ca.Currency, &ca.Amount); err != nil {
			return fmt.Errorf("scan stock value: %w", err)
		}
		if l := byID[id]; l != nil {
			l.StockValue = append(l.StockValue, ca)
		}
	}
	return rows.Err()
}
