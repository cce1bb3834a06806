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

var _ repository.StoragePointRepository = (*StoragePointRepo)(nil)

// StoragePointRepo implementación sobre PostgreSQL (usable con pool o tx).
type StoragePointRepo struct {
	q Querier
}

// NewStoragePointRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStoragePointRepository(q Querier) *StoragePointRepo {
	return &StoragePointRepo{q: q}
}

// Create persiste un punto de almacenamiento.
func (r *StoragePointRepo) Create(ctx context.Context, sp *entity.StoragePoint) error {
	query := `
		INSERT INTO storage_points (id, reference, name, status, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, sp.ID, sp.Reference, sp.Name, sp.Status, sp.Address, sp.CreatedAt, sp.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("punto de almacenamiento %q: %w", sp.Reference, domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert storage point: %w", err)
	}
	return nil
}

// GetByID obtiene un punto de almacenamiento por ID.
func (r *StoragePointRepo) GetByID(ctx context.Context, id string) (*entity.StoragePoint, error) {
	query := `
		SELECT id, reference, name, status, address, created_at, updated_at
		FROM storage_points WHERE id = $1`
	var sp entity.StoragePoint
	err := r.q.QueryRow(ctx, query, id).Scan(&sp.ID, &sp.Reference, &sp.Name, &sp.Status, &sp.Address, &sp.CreatedAt, &sp.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get storage point: %w", err)
	}
	return &sp, nil
}
