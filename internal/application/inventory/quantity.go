package inventory

import (
	"context"

	"github.com/jhoicas/Inventario-wms/internal/domain"
	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
	"github.com/jhoicas/Inventario-wms/internal/domain/inventory"
)

// Aggregator mantiene los contadores de cantidad de variante y producto padre.
// Cada llamada mueve unidades de un contador a otro en ambos niveles; no existe incremento aislado.
type Aggregator struct{}

// NewAggregator construye el agregador.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// ApplyTransition bloquea variante y producto (en ese orden), mueve qty de from a to en ambos y persiste.
func (a *Aggregator) ApplyTransition(ctx context.Context, repos Repos, variantID string, from, to inventory.Property, qty int) error {
	return a.apply(ctx, repos, variantID, func(q *entity.ProductQuantity) error {
		return inventory.Move(q, from, to, qty)
	})
}

// ApplyInitial registra la entrada inicial de un ítem nuevo (sin contador de origen).
func (a *Aggregator) ApplyInitial(ctx context.Context, repos Repos, variantID string, to inventory.Property, qty int) error {
	return a.apply(ctx, repos, variantID, func(q *entity.ProductQuantity) error {
		return inventory.Receive(q, to, qty)
	})
}

func (a *Aggregator) apply(ctx context.Context, repos Repos, variantID string, change func(q *entity.ProductQuantity) error) error {
	variant, err := repos.Products.GetVariantForUpdate(ctx, variantID)
	if err != nil {
		return err
	}
	if variant == nil {
		return domain.NotFound("variante", variantID)
	}
	product, err := repos.Products.GetProductForUpdate(ctx, variant.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.NotFound("producto", variant.ProductID)
	}
	vq, pq := variant.Quantity, product.Quantity
	if err := change(&vq); err != nil {
		return err
	}
	if err := change(&pq); err != nil {
		return err
	}
	if err := repos.Products.UpdateVariantQuantity(ctx, variant.ID, vq); err != nil {
		return err
	}
	return repos.Products.UpdateProductQuantity(ctx, product.ID, pq)
}
