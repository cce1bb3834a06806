package repository

import (
	"context"

	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product y ProductVariant.
type ProductRepository interface {
	CreateProduct(ctx context.Context, product *entity.Product) error
	CreateVariant(ctx context.Context, variant *entity.ProductVariant) error
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	GetVariant(ctx context.Context, id string) (*entity.ProductVariant, error)
	// GetVariantForUpdate y GetProductForUpdate bloquean la fila de contadores (SELECT FOR UPDATE).
	GetVariantForUpdate(ctx context.Context, id string) (*entity.ProductVariant, error)
	GetProductForUpdate(ctx context.Context, id string) (*entity.Product, error)
	UpdateVariantQuantity(ctx context.Context, variantID string, q entity.ProductQuantity) error
	UpdateProductQuantity(ctx context.Context, productID string, q entity.ProductQuantity) error
}
