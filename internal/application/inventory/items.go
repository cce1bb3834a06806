package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-wms/internal/domain"
	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
	"github.com/jhoicas/Inventario-wms/internal/domain/inventory"
)

// ItemService ciclo de vida de ProductItem: transiciones, reubicaciones y guardado tras recepción.
type ItemService struct {
	repos     Repos
	tx        TxRunner
	locations *LocationService
	ledger    *Ledger
	agg       *Aggregator
	cfg       Config
	log       zerolog.Logger
}

// NewItemService construye el servicio.
func NewItemService(repos Repos, tx TxRunner, locations *LocationService, ledger *Ledger, agg *Aggregator, cfg Config, log zerolog.Logger) *ItemService {
	return &ItemService{repos: repos, tx: tx, locations: locations, ledger: ledger, agg: agg, cfg: cfg, log: log}
}

// TransitionItem cambia la posición (state, status) del ítem dentro de la tx del caller:
// valida la transición, mueve el contador de cantidad si cambia el estado y persiste el ítem.
// Si además cambia la ubicación, el caller debe registrar el movimiento con Ledger.Record (ver apply).
func (s *ItemService) TransitionItem(ctx context.Context, repos Repos, item *entity.ProductItem, to inventory.Position, userID string) error {
	from := inventory.PositionOf(item)
	if err := inventory.ValidateTransition(from, to); err != nil {
		return err
	}
	if from.State != to.State {
		fromProp, err := inventory.StatePropertyOf(from.State)
		if err != nil {
			return err
		}
		toProp, err := inventory.StatePropertyOf(to.State)
		if err != nil {
			return err
		}
		if err := s.agg.ApplyTransition(ctx, repos, item.VariantID, fromProp, toProp, 1); err != nil {
			return err
		}
	}
	item.State = to.State
	item.Status = to.Status
	item.UpdatedBy = userID
	item.UpdatedAt = time.Now()
	return repos.Items.Update(ctx, item)
}

// step un paso del ciclo de vida: nueva posición, destino opcional y metadatos del movimiento.
type step struct {
	to           inventory.Position
	targetID     string // vacío: sin reubicación
	context      entity.ItemContext
	movementType string
	triggerType  string
	triggeredBy  string
	userID       string
}

// apply ejecuta un paso completo dentro de la tx: movimiento en el libro (si hay reubicación),
// contadores de cantidad y persistencia del ítem.
func (s *ItemService) apply(ctx context.Context, repos Repos, item *entity.ProductItem, st step) (*entity.StockMovement, error) {
	from := inventory.PositionOf(item)
	if err := inventory.ValidateTransition(from, st.to); err != nil {
		return nil, err
	}
	var mov *entity.StockMovement
	if st.targetID != "" && st.targetID != item.LocationID {
		// el movimiento referencia el flujo que lo causa: el vigente o, si no hay, el que se abre
		movCtx := item.Context
		if movCtx.IsZero() {
			movCtx = st.context
		}
		var err error
		mov, err = s.ledger.Record(ctx, repos, RecordInput{
			Item:         item,
			SourceID:     item.LocationID,
			TargetID:     st.targetID,
			MovementType: st.movementType,
			TriggerType:  st.triggerType,
			TriggeredBy:  st.triggeredBy,
			FromState:    from.State,
			ToState:      st.to.State,
			Context:      movCtx,
			UserID:       st.userID,
		})
		if err != nil {
			return nil, err
		}
		item.LocationID = st.targetID
	}
	item.Context = st.context
	if err := s.TransitionItem(ctx, repos, item, st.to, st.userID); err != nil {
		return nil, err
	}
	return mov, nil
}

// MoveInput reubicación manual de un ítem. State/Status vacíos conservan la posición actual.
type MoveInput struct {
	ItemID           string
	TargetLocationID string
	State            string
	Status           string
	TriggeredBy      string
	Principal        entity.Principal
}

// MoveItem reubica un ítem (y opcionalmente cambia su posición) en una sola transacción.
// Un ítem con flujo activo (investigación, transferencia, recepción) solo lo mueve el flujo dueño.
func (s *ItemService) MoveItem(ctx context.Context, in MoveInput) (*entity.StockMovement, error) {
	triggeredBy := in.TriggeredBy
	if triggeredBy == "" {
		triggeredBy = entity.TriggeredByManualMove
	}
	_, mov, err := s.relocate(ctx, relocation{
		op:       "mover ítem",
		itemID:   in.ItemID,
		targetID: in.TargetLocationID,
		position: func(item *entity.ProductItem) (inventory.Position, error) {
			if !item.Context.IsZero() {
				return inventory.Position{}, domain.InvalidOperation(fmt.Sprintf("el ítem pertenece al flujo %s %s", item.Context.Kind, item.Context.ID))
			}
			to := inventory.PositionOf(item)
			if in.State != "" {
				to.State = in.State
			}
			if in.Status != "" {
				to.Status = in.Status
			}
			return to, nil
		},
		triggeredBy: triggeredBy,
		principal:   in.Principal,
	})
	return mov, err
}

// StoreItem guarda un ítem recibido (PENDING_RECEPTION/TO_STORE) en una ubicación del mismo punto de almacenamiento,
// dejándolo AVAILABLE/IN_STOCK y sin flujo activo.
func (s *ItemService) StoreItem(ctx context.Context, itemID, targetLocationID string, principal entity.Principal) (*entity.ProductItem, error) {
	none := entity.ItemContext{}
	item, _, err := s.relocate(ctx, relocation{
		op:          "guardar ítem",
		itemID:      itemID,
		targetID:    targetLocationID,
		position:    fixed(entity.ItemStateAvailable, entity.ItemStatusInStock),
		context:     &none,
		sameSP:      true,
		triggeredBy: entity.TriggeredByStorage,
		principal:   principal,
	})
	return item, err
}

// relocation describe una reubicación de un solo ítem con cambio de posición opcional.
type relocation struct {
	op       string
	itemID   string
	targetID string
	// position calcula la posición destino a partir del ítem actual.
	position func(item *entity.ProductItem) (inventory.Position, error)
	// context nil conserva el flujo activo del ítem.
	context     *entity.ItemContext
	sameSP      bool
	triggeredBy string
	principal   entity.Principal
}

func fixed(state, status string) func(*entity.ProductItem) (inventory.Position, error) {
	return func(*entity.ProductItem) (inventory.Position, error) {
		return inventory.Position{State: state, Status: status}, nil
	}
}

// relocate valida fuera de la tx (existencia, transición, autoridad sobre origen y destino)
// y aplica el paso dentro de una única transacción, revalidando el ítem bloqueado.
func (s *ItemService) relocate(ctx context.Context, r relocation) (*entity.ProductItem, *entity.StockMovement, error) {
	if r.itemID == "" || r.targetID == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	item, err := s.repos.Items.GetByID(ctx, r.itemID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, domain.NotFound("ítem", r.itemID)
	}
	if item.LocationID == r.targetID {
		return nil, nil, domain.InvalidOperation("el ítem ya está en la ubicación destino")
	}
	to, err := r.position(item)
	if err != nil {
		return nil, nil, err
	}
	if err := inventory.ValidateTransition(inventory.PositionOf(item), to); err != nil {
		return nil, nil, err
	}
	sourceSP, err := s.locations.ResolveStoragePointForLocation(ctx, item.LocationID)
	if err != nil {
		return nil, nil, err
	}
	targetSP, err := s.locations.ResolveStoragePointForLocation(ctx, r.targetID)
	if err != nil {
		return nil, nil, err
	}
	if r.sameSP && sourceSP != targetSP {
		return nil, nil, domain.InvalidOperation("el destino debe estar en el mismo punto de almacenamiento")
	}
	if err := s.cfg.authorize(r.principal, sourceSP); err != nil {
		return nil, nil, err
	}
	if targetSP != sourceSP {
		if err := s.cfg.authorize(r.principal, targetSP); err != nil {
			return nil, nil, err
		}
	}
	movementType := entity.MovementTypeInternal
	if sourceSP != targetSP {
		movementType = entity.MovementTypeExternal
	}

	var (
		moved *entity.ProductItem
		mov   *entity.StockMovement
	)
	err = s.tx.Run(ctx, func(repos Repos) error {
		locked, err := repos.Items.GetForUpdate(ctx, r.itemID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.NotFound("ítem", r.itemID)
		}
		if locked.LocationID != item.LocationID || locked.State != item.State || locked.Status != item.Status || locked.Context != item.Context {
			return fmt.Errorf("el ítem %s cambió durante la operación: %w", r.itemID, domain.ErrConflict)
		}
		for _, sp := range []string{sourceSP, targetSP} {
			if _, err := requireStoragePoint(ctx, repos, sp); err != nil {
				return err
			}
		}
		next := locked.Context
		if r.context != nil {
			next = *r.context
		}
		mov, err = s.apply(ctx, repos, locked, step{
			to:           to,
			targetID:     r.targetID,
			context:      next,
			movementType: movementType,
			triggerType:  entity.TriggerTypeManual,
			triggeredBy:  r.triggeredBy,
			userID:       r.principal.UserID,
		})
		moved = locked
		return err
	})
	if err != nil {
		s.log.Error().Err(err).Str("item_id", r.itemID).Str("target_location_id", r.targetID).Msg(r.op)
		return nil, nil, domain.Conflict(r.op, err)
	}
	s.log.Info().Str("item_id", r.itemID).Str("target_location_id", r.targetID).Str("triggered_by", r.triggeredBy).Msg(r.op)
	return moved, mov, nil
}
