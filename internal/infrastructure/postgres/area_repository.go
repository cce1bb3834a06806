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

var _ repository.AreaRepository = (*AreaRepo)(nil)

// AreaRepo implementación sobre PostgreSQL (usable con pool o tx).
type AreaRepo struct {
	q Querier
}

// NewAreaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAreaRepository(q Querier) *AreaRepo {
	return &AreaRepo{q: q}
}

const areaColumns = `id, storage_point_id, reference, title, type, COALESCE(default_type, ''), surface, volume, is_virtual, created_at, updated_at`

func scanArea(row pgx.Row) (*entity.Area, error) {
	var a entity.Area
	err := row.Scan(&a.ID, &a.StoragePointID, &a.Reference, &a.Title, &a.Type, &a.DefaultType,
		&a.Surface, &a.Volume, &a.IsVirtual, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create persiste un área.
func (r *AreaRepo) Create(ctx context.Context, a *entity.Area) error {
	query := `
		INSERT INTO areas (id, storage_point_id, reference, title, type, default_type, surface, volume, is_virtual, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query, a.ID, a.StoragePointID, a.Reference, a.Title, a.Type, nullIfEmpty(a.DefaultType),
		a.Surface, a.Volume, a.IsVirtual, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("área %q duplicada: %w", a.Title, domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert area: %w", err)
	}
	return nil
}

// GetByID obtiene un área por ID.
func (r *AreaRepo) GetByID(ctx context.Context, id string) (*entity.Area, error) {
	return r.getOne(ctx, `SELECT `+areaColumns+` FROM areas WHERE id = $1`, "get area", id)
}

// GetForUpdate obtiene el área y bloquea la fila (SELECT FOR UPDATE).
func (r *AreaRepo) GetForUpdate(ctx context.Context, id string) (*entity.Area, error) {
	return r.getOne(ctx, `SELECT `+areaColumns+` FROM areas WHERE id = $1 FOR UPDATE`, "get area for update", id)
}

// FindDefault devuelve el área DEFAULT con la etiqueta indicada.
func (r *AreaRepo) FindDefault(ctx context.Context, storagePointID, defaultType string) (*entity.Area, error) {
	query := `SELECT ` + areaColumns + ` FROM areas
		WHERE storage_point_id = $1 AND type = 'DEFAULT' AND default_type = $2
		LIMIT 1`
	return r.getOne(ctx, query, "find default area", storagePointID, defaultType)
}

func (r *AreaRepo) getOne(ctx context.Context, query, op string, args ...any) (*entity.Area, error) {
	a, err := scanArea(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// ListByStoragePoint lista las áreas de un punto de almacenamiento.
func (r *AreaRepo) ListByStoragePoint(ctx context.Context, storagePointID string) ([]*entity.Area, error) {
	rows, err := r.q.Query(ctx, `SELECT `+areaColumns+` FROM areas WHERE storage_point_id = $1 ORDER BY title`, storagePointID)
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Area
	for rows.Next() {
		a, err := scanArea(rows)
		if err != nil {
			return nil, fmt.Errorf("scan area: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Update actualiza los datos descriptivos del área.
func (r *AreaRepo) Update(ctx context.Context, a *entity.Area) error {
	query := `
		UPDATE areas SET reference = $2, title = $3, surface = $4, volume = $5, is_virtual = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, a.ID, a.Reference, a.Title, a.Surface, a.Volume, a.IsVirtual, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("área %q (%s) duplicada: %w", a.Title, a.Reference, domain.ErrInvalidInput)
		}
		return fmt.Errorf("update area: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("área", a.ID)
	}
	return nil
}

// Delete elimina un área por ID.
func (r *AreaRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM areas WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete area: %w", err)
	}
	return nil
}
