package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-wms/internal/domain"
	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
	"github.com/jhoicas/Inventario-wms/internal/domain/inventory"
)

// InvestigationService abre y cierra investigaciones sobre ítems con discrepancia.
type InvestigationService struct {
	repos     Repos
	tx        TxRunner
	locations *LocationService
	items     *ItemService
	cfg       Config
	log       zerolog.Logger
}

// NewInvestigationService construye el servicio.
func NewInvestigationService(repos Repos, tx TxRunner, locations *LocationService, items *ItemService, cfg Config, log zerolog.Logger) *InvestigationService {
	return &InvestigationService{repos: repos, tx: tx, locations: locations, items: items, cfg: cfg, log: log}
}

// OpenInvestigation marca un ítem disponible como pendiente de investigación y lo lleva
// a la ubicación ancla INVESTIGATION de su punto de almacenamiento.
func (s *InvestigationService) OpenInvestigation(ctx context.Context, itemID, comment string, principal entity.Principal) (*entity.Investigation, error) {
	if itemID == "" {
		return nil, domain.ErrInvalidInput
	}
	item, err := s.repos.Items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("ítem", itemID)
	}
	to := inventory.Position{State: entity.ItemStatePendingInvestigation, Status: item.Status}
	if err := inventory.ValidateTransition(inventory.PositionOf(item), to); err != nil {
		return nil, err
	}
	if !item.Context.IsZero() {
		return nil, domain.InvalidOperation("el ítem ya tiene un flujo activo " + item.Context.Kind)
	}
	spID, err := s.locations.ResolveStoragePointForLocation(ctx, item.LocationID)
	if err != nil {
		return nil, err
	}
	if err := s.cfg.authorize(principal, spID); err != nil {
		return nil, err
	}

	var inv *entity.Investigation
	err = s.tx.Run(ctx, func(repos Repos) error {
		if _, err := requireStoragePoint(ctx, repos, spID); err != nil {
			return err
		}
		anchor, err := storageAnchor(ctx, repos, spID, entity.DefaultTypeDeadStock, entity.DefaultTypeInvestigation)
		if err != nil {
			return err
		}
		locked, err := repos.Items.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.NotFound("ítem", itemID)
		}
		if locked.State != item.State || locked.LocationID != item.LocationID || !locked.Context.IsZero() {
			return fmt.Errorf("el ítem %s cambió durante la operación: %w", itemID, domain.ErrConflict)
		}
		now := time.Now()
		id := uuid.New().String()
		inv = &entity.Investigation{
			ID:             id,
			Reference:      "INV-" + id[:8],
			ProductItemID:  itemID,
			StoragePointID: spID,
			Status:         entity.InvestigationPending,
			Comment:        comment,
			OpenedBy:       principal.UserID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := repos.Investigations.Create(ctx, inv); err != nil {
			return err
		}
		_, err = s.items.apply(ctx, repos, locked, step{
			to:           to,
			targetID:     anchor.ID,
			context:      entity.ItemContext{Kind: entity.ContextInvestigation, ID: inv.ID},
			movementType: entity.MovementTypeInternal,
			triggerType:  entity.TriggerTypeAuto,
			triggeredBy:  entity.TriggeredByInvestigation,
			userID:       principal.UserID,
		})
		return err
	})
	if err != nil {
		s.log.Error().Err(err).Str("item_id", itemID).Msg("abrir investigación")
		return nil, domain.Conflict("abrir investigación", err)
	}
	s.log.Info().Str("investigation_id", inv.ID).Str("item_id", itemID).Msg("investigación abierta")
	return inv, nil
}

// CloseInput cierre de una investigación: CLOSED (pérdida confirmada) o SOLVED (ítem encontrado).
type CloseInput struct {
	InvestigationID string
	Status          string
	Comment         string
	Principal       entity.Principal
}

// CloseResult estado final de todo lo tocado por el cierre.
type CloseResult struct {
	Investigation *entity.Investigation
	Item          *entity.ProductItem
	Movement      *entity.StockMovement
	// Reception solo para SOLVED.
	Reception *entity.Reception
}

// CloseInvestigation cierra una investigación PENDING en una sola transacción:
// anclas DEAD_STOCK/INVESTIGATION, transición del ítem, movimiento INVESTIGATION → DEAD_STOCK,
// contadores de cantidad, marca de la investigación y, si SOLVED, recepción validada de reingreso.
func (s *InvestigationService) CloseInvestigation(ctx context.Context, in CloseInput) (*CloseResult, error) {
	var to inventory.Position
	switch in.Status {
	case entity.InvestigationClosed:
		to = inventory.Position{State: entity.ItemStateLost, Status: entity.ItemStatusLosted}
	case entity.InvestigationSolved:
		to = inventory.Position{State: entity.ItemStatePendingReception, Status: entity.ItemStatusToStore}
	default:
		return nil, fmt.Errorf("estado de cierre %q: %w", in.Status, domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Comment) == "" {
		return nil, fmt.Errorf("comentario requerido: %w", domain.ErrInvalidInput)
	}
	inv, err := s.repos.Investigations.GetByID(ctx, in.InvestigationID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.NotFound("investigación", in.InvestigationID)
	}
	if inv.IsTerminal() {
		return nil, domain.InvalidOperation("la investigación ya está cerrada")
	}
	item, err := s.repos.Items.GetByID(ctx, inv.ProductItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("ítem", inv.ProductItemID)
	}
	spID, err := s.locations.ResolveStoragePointForLocation(ctx, item.LocationID)
	if err != nil {
		return nil, err
	}
	if err := s.cfg.authorize(in.Principal, spID); err != nil {
		return nil, err
	}

	res := &CloseResult{}
	err = s.tx.Run(ctx, func(repos Repos) error {
		locked, err := repos.Investigations.GetForUpdate(ctx, inv.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.NotFound("investigación", inv.ID)
		}
		if locked.IsTerminal() {
			return domain.InvalidOperation("la investigación ya está cerrada")
		}
		if _, err := requireStoragePoint(ctx, repos, spID); err != nil {
			return err
		}
		// 1. anclas
		deadStock, err := storageAnchor(ctx, repos, spID, entity.DefaultTypeDeadStock, entity.DefaultTypeDeadStock)
		if err != nil {
			return err
		}
		investigation, err := storageAnchor(ctx, repos, spID, entity.DefaultTypeDeadStock, entity.DefaultTypeInvestigation)
		if err != nil {
			return err
		}
		it, err := repos.Items.GetForUpdate(ctx, locked.ProductItemID)
		if err != nil {
			return err
		}
		if it == nil {
			return domain.NotFound("ítem", locked.ProductItemID)
		}
		if it.LocationID != investigation.ID {
			return domain.InvalidOperation(fmt.Sprintf("el ítem %s no está en la ubicación INVESTIGATION", it.Reference))
		}

		now := time.Now()
		next := entity.ItemContext{}
		var rec *entity.Reception
		if in.Status == entity.InvestigationSolved {
			recID := uuid.New().String()
			rec = &entity.Reception{
				ID:             recID,
				Reference:      "REC-" + recID[:8],
				StoragePointID: spID,
				SupplierID:     it.SupplierID,
				Status:         entity.ReceptionValidated,
				Comment:        in.Comment,
				ValidatedAt:    &now,
				ValidatedBy:    in.Principal.UserID,
				CreatedAt:      now,
				CreatedBy:      in.Principal.UserID,
			}
			next = entity.ItemContext{Kind: entity.ContextReception, ID: recID}
		}

		// 2-5. transición, movimiento, cantidades y reubicación con contadores
		mov, err := s.items.apply(ctx, repos, it, step{
			to:           to,
			targetID:     deadStock.ID,
			context:      next,
			movementType: entity.MovementTypeInternal,
			triggerType:  entity.TriggerTypeAuto,
			triggeredBy:  entity.TriggeredByInvestigation,
			userID:       in.Principal.UserID,
		})
		if err != nil {
			return err
		}

		// 6. investigación terminal
		locked.Status = in.Status
		locked.Comment = in.Comment
		locked.ClosedBy = in.Principal.UserID
		locked.ClosedAt = &now
		locked.UpdatedAt = now
		if err := repos.Investigations.Update(ctx, locked); err != nil {
			return err
		}

		// 7. reingreso al flujo normal de recepción
		if rec != nil {
			if err := repos.Receptions.Create(ctx, rec); err != nil {
				return err
			}
			if err := repos.Receptions.CreateLine(ctx, &entity.VariantReception{
				ID:            uuid.New().String(),
				ReceptionID:   rec.ID,
				VariantID:     it.VariantID,
				ProductItemID: it.ID,
				Quantity:      1,
				CreatedAt:     now,
			}); err != nil {
				return err
			}
		}
		res.Investigation = locked
		res.Item = it
		res.Movement = mov
		res.Reception = rec
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Str("investigation_id", in.InvestigationID).Msg("cerrar investigación")
		return nil, domain.Conflict("cerrar investigación", err)
	}
	s.log.Info().
		Str("investigation_id", res.Investigation.ID).
		Str("status", res.Investigation.Status).
		Str("item_id", res.Item.ID).
		Msg("investigación cerrada")
	return res, nil
}
