package repository

import (
	"context"

	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
)

// ProductItemRepository define el puerto de persistencia para ProductItem.
// No expone Delete: los ítems solo cambian de estado.
type ProductItemRepository interface {
	Create(ctx context.Context, item *entity.ProductItem) error
	GetByID(ctx context.Context, id string) (*entity.ProductItem, error)
	// GetForUpdate bloquea la fila del ítem (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.ProductItem, error)
	Update(ctx context.Context, item *entity.ProductItem) error
	// ListByLocationForUpdate bloquea y devuelve los ítems ubicados exactamente en la ubicación.
	ListByLocationForUpdate(ctx context.Context, locationID string) ([]*entity.ProductItem, error)
	CountByVariant(ctx context.Context, variantID string) (int, error)
}
