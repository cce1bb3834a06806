package repository

import (
	"context"

	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
)

// StoragePointRepository define el puerto de persistencia para StoragePoint.
type StoragePointRepository interface {
	Create(ctx context.Context, sp *entity.StoragePoint) error
	GetByID(ctx context.Context, id string) (*entity.StoragePoint, error)
}
