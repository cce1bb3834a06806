package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-wms/internal/domain"
	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
	"github.com/jhoicas/Inventario-wms/internal/domain/inventory"
	"github.com/jhoicas/Inventario-wms/internal/domain/repository"
)

// Ledger registra movimientos en el libro y mantiene los contadores de ubicación en la misma transacción.
type Ledger struct{}

// NewLedger construye el libro de movimientos.
func NewLedger() *Ledger {
	return &Ledger{}
}

// RecordInput datos de un movimiento. SourceID vacío indica entrada desde fuera del almacén.
type RecordInput struct {
	Item         *entity.ProductItem
	SourceID     string
	TargetID     string
	MovementType string
	TriggerType  string
	TriggeredBy  string
	FromState    string
	ToState      string
	Context      entity.ItemContext
	UserID       string
}

func (in RecordInput) validate() error {
	if in.Item == nil || in.TargetID == "" {
		return domain.ErrInvalidInput
	}
	if in.SourceID == in.TargetID {
		return domain.InvalidOperation("origen y destino del movimiento son la misma ubicación")
	}
	switch in.MovementType {
	case entity.MovementTypeInternal, entity.MovementTypeExternal:
	default:
		return fmt.Errorf("movement_type %q: %w", in.MovementType, domain.ErrInvalidInput)
	}
	switch in.TriggerType {
	case entity.TriggerTypeAuto, entity.TriggerTypeManual:
	default:
		return fmt.Errorf("trigger_type %q: %w", in.TriggerType, domain.ErrInvalidInput)
	}
	if in.TriggeredBy == "" {
		return fmt.Errorf("triggered_by requerido: %w", domain.ErrInvalidInput)
	}
	return nil
}

// Record inserta la fila inmutable y, en la misma transacción (repos atados a la tx):
//   - total_items +1 en la cadena de ancestros del destino y -1 en la del origen,
//     sin tocar los ancestros comunes;
//   - stock_value acreditado en el destino y debitado en el origen por el costo de compra del ítem.
//
// Las filas se bloquean en orden de id antes de ajustar los contadores.
func (l *Ledger) Record(ctx context.Context, repos Repos, in RecordInput) (*entity.StockMovement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	target, err := repos.Locations.GetByID(ctx, in.TargetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.NotFound("ubicación", in.TargetID)
	}
	sourcePath := ""
	if in.SourceID != "" {
		source, err := repos.Locations.GetByID(ctx, in.SourceID)
		if err != nil {
			return nil, err
		}
		if source == nil {
			return nil, domain.NotFound("ubicación", in.SourceID)
		}
		sourcePath = source.Path
	}

	sourceOnly, targetOnly := inventory.ChainDiff(sourcePath, target.Path)
	lockIDs := append(append([]string{}, sourceOnly...), targetOnly...)
	sort.Strings(lockIDs)
	if _, err := repos.Locations.LockForUpdate(ctx, lockIDs); err != nil {
		return nil, err
	}
	if err := adjustChain(ctx, repos.Locations, in.Item, targetOnly, 1); err != nil {
		return nil, err
	}
	if err := adjustChain(ctx, repos.Locations, in.Item, sourceOnly, -1); err != nil {
		return nil, err
	}

	now := time.Now()
	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		Reference:     "MVT-" + uuid.New().String()[:8],
		MovementType:  in.MovementType,
		TriggerType:   in.TriggerType,
		TriggeredBy:   in.TriggeredBy,
		ProductItemID: in.Item.ID,
		Target:        entity.MovementEndpoint{Type: entity.StockMovementAreaLocation, ID: in.TargetID},
		FromState:     in.FromState,
		ToState:       in.ToState,
		Context:       in.Context,
		CreatedAt:     now,
		CreatedBy:     in.UserID,
	}
	if in.SourceID != "" {
		mov.Source = entity.MovementEndpoint{Type: entity.StockMovementAreaLocation, ID: in.SourceID}
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

func adjustChain(ctx context.Context, locs repository.LocationRepository, item *entity.ProductItem, ids []string, sign int) error {
	if len(ids) == 0 {
		return nil
	}
	if err := locs.AdjustTotalItems(ctx, ids, sign); err != nil {
		return err
	}
	if item.PurchaseCost.IsZero() {
		return nil
	}
	delta := item.PurchaseCost
	if sign < 0 {
		delta = delta.Neg()
	}
	return locs.AddStockValue(ctx, ids, item.Currency, delta)
}
