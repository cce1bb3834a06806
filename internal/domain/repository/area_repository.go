package repository

import (
	"context"

	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
)

// AreaRepository define el puerto de persistencia para Area.
type AreaRepository interface {
	Create(ctx context.Context, area *entity.Area) error
	GetByID(ctx context.Context, id string) (*entity.Area, error)
	// GetForUpdate bloquea la fila del área (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Area, error)
	// FindDefault devuelve el área DEFAULT con la etiqueta indicada en el punto de almacenamiento.
	FindDefault(ctx context.Context, storagePointID, defaultType string) (*entity.Area, error)
	ListByStoragePoint(ctx context.Context, storagePointID string) ([]*entity.Area, error)
	Update(ctx context.Context, area *entity.Area) error
	Delete(ctx context.Context, id string) error
}
