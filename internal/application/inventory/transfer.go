package inventory

import (
	"context"

	"github.com/jhoicas/Inventario-wms/internal/domain"
	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
	"github.com/jhoicas/Inventario-wms/internal/domain/inventory"
)

// PickForTransfer recoge un ítem AVAILABLE/IN_STOCK hacia la ubicación de la unidad móvil del traslado,
// dejándolo RESERVED/PICKED_UP con el traslado como flujo activo.
func (s *ItemService) PickForTransfer(ctx context.Context, itemID, transferID, mobileUnitLocationID string, principal entity.Principal) (*entity.ProductItem, error) {
	if transferID == "" {
		return nil, domain.ErrInvalidInput
	}
	transfer := entity.ItemContext{Kind: entity.ContextTransfer, ID: transferID}
	item, _, err := s.relocate(ctx, relocation{
		op:       "recoger ítem para traslado",
		itemID:   itemID,
		targetID: mobileUnitLocationID,
		position: func(item *entity.ProductItem) (inventory.Position, error) {
			if !item.Context.IsZero() {
				return inventory.Position{}, domain.InvalidOperation("el ítem ya tiene un flujo activo " + item.Context.Kind)
			}
			return inventory.Position{State: entity.ItemStateReserved, Status: entity.ItemStatusPickedUp}, nil
		},
		context:     &transfer,
		triggeredBy: entity.TriggeredByTransfer,
		principal:   principal,
	})
	return item, err
}

// ReceiveTransfer descarga un ítem recogido en la ubicación destino: vuelve a AVAILABLE/IN_STOCK y se cierra su flujo.
func (s *ItemService) ReceiveTransfer(ctx context.Context, itemID, targetLocationID string, principal entity.Principal) (*entity.ProductItem, error) {
	none := entity.ItemContext{}
	item, _, err := s.relocate(ctx, relocation{
		op:       "recibir traslado",
		itemID:   itemID,
		targetID: targetLocationID,
		position: func(item *entity.ProductItem) (inventory.Position, error) {
			if item.Context.Kind != entity.ContextTransfer {
				return inventory.Position{}, domain.InvalidOperation("el ítem no pertenece a un traslado")
			}
			return inventory.Position{State: entity.ItemStateAvailable, Status: entity.ItemStatusInStock}, nil
		},
		context:     &none,
		triggeredBy: entity.TriggeredByTransfer,
		principal:   principal,
	})
	return item, err
}
