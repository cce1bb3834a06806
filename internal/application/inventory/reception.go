package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-wms/internal/domain"
	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
	"github.com/jhoicas/Inventario-wms/internal/domain/inventory"
)

// OpenReception crea una recepción en borrador para un punto de almacenamiento.
func (s *ItemService) OpenReception(ctx context.Context, storagePointID, supplierID, comment string, principal entity.Principal) (*entity.Reception, error) {
	if storagePointID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := s.cfg.authorize(principal, storagePointID); err != nil {
		return nil, err
	}
	sp, err := s.repos.StoragePoints.GetByID(ctx, storagePointID)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, domain.NotFound("punto de almacenamiento", storagePointID)
	}
	id := uuid.New().String()
	rec := &entity.Reception{
		ID:             id,
		Reference:      "REC-" + id[:8],
		StoragePointID: storagePointID,
		SupplierID:     supplierID,
		Status:         entity.ReceptionDraft,
		Comment:        comment,
		CreatedAt:      time.Now(),
		CreatedBy:      principal.UserID,
	}
	if err := s.repos.Receptions.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ReceiveInput una unidad física que entra por una recepción.
// LocationID vacío usa la ubicación ancla RECEPTION del punto de almacenamiento.
type ReceiveInput struct {
	ReceptionID  string
	VariantID    string
	LocationID   string
	Barcode      string
	SerialNumber string
	PurchaseCost decimal.Decimal
	Currency     string
	Principal    entity.Principal
}

// ReceiveItem crea el ProductItem en PENDING_RECEPTION/TO_STORE, registra la entrada en el libro (sin origen),
// incrementa pendingReception (transición inicial) y agrega la línea a la recepción.
func (s *ItemService) ReceiveItem(ctx context.Context, in ReceiveInput) (*entity.ProductItem, error) {
	if in.ReceptionID == "" || in.VariantID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.PurchaseCost.IsNegative() {
		return nil, fmt.Errorf("costo de compra negativo: %w", domain.ErrInvalidInput)
	}
	if !in.PurchaseCost.IsZero() && in.Currency == "" {
		return nil, fmt.Errorf("moneda requerida para el costo de compra: %w", domain.ErrInvalidInput)
	}
	rec, err := s.repos.Receptions.GetByID(ctx, in.ReceptionID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.NotFound("recepción", in.ReceptionID)
	}
	if rec.Status != entity.ReceptionDraft {
		return nil, domain.InvalidOperation("la recepción ya fue validada")
	}
	if err := s.cfg.authorize(in.Principal, rec.StoragePointID); err != nil {
		return nil, err
	}
	variant, err := s.repos.Products.GetVariant(ctx, in.VariantID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, domain.NotFound("variante", in.VariantID)
	}

	var item *entity.ProductItem
	err = s.tx.Run(ctx, func(repos Repos) error {
		if _, err := requireStoragePoint(ctx, repos, rec.StoragePointID); err != nil {
			return err
		}
		target, err := s.receptionTarget(ctx, repos, rec.StoragePointID, in.LocationID)
		if err != nil {
			return err
		}
		now := time.Now()
		id := uuid.New().String()
		item = &entity.ProductItem{
			ID:           id,
			Reference:    "ITM-" + id[:8],
			Barcode:      in.Barcode,
			SerialNumber: in.SerialNumber,
			VariantID:    variant.ID,
			ProductID:    variant.ProductID,
			SupplierID:   rec.SupplierID,
			PurchaseCost: in.PurchaseCost,
			Currency:     in.Currency,
			State:        entity.ItemStatePendingReception,
			Status:       entity.ItemStatusToStore,
			LocationID:   target,
			Context:      entity.ItemContext{Kind: entity.ContextReception, ID: rec.ID},
			CreatedAt:    now,
			UpdatedAt:    now,
			UpdatedBy:    in.Principal.UserID,
		}
		if item.Barcode == "" {
			item.Barcode = item.Reference
		}
		if err := repos.Items.Create(ctx, item); err != nil {
			return err
		}
		if err := s.agg.ApplyInitial(ctx, repos, variant.ID, inventory.PropPendingReception, 1); err != nil {
			return err
		}
		if _, err := s.ledger.Record(ctx, repos, RecordInput{
			Item:         item,
			TargetID:     target,
			MovementType: entity.MovementTypeExternal,
			TriggerType:  entity.TriggerTypeManual,
			TriggeredBy:  entity.TriggeredByReception,
			ToState:      item.State,
			Context:      item.Context,
			UserID:       in.Principal.UserID,
		}); err != nil {
			return err
		}
		return repos.Receptions.CreateLine(ctx, &entity.VariantReception{
			ID:            uuid.New().String(),
			ReceptionID:   rec.ID,
			VariantID:     variant.ID,
			ProductItemID: item.ID,
			Quantity:      1,
			CreatedAt:     now,
		})
	})
	if err != nil {
		s.log.Error().Err(err).Str("reception_id", in.ReceptionID).Msg("recibir ítem")
		return nil, domain.Conflict("recibir ítem", err)
	}
	s.log.Info().Str("reception_id", rec.ID).Str("item_id", item.ID).Msg("ítem recibido")
	return item, nil
}

func (s *ItemService) receptionTarget(ctx context.Context, repos Repos, storagePointID, locationID string) (string, error) {
	if locationID == "" {
		anchor, err := storageAnchor(ctx, repos, storagePointID, entity.DefaultTypeReception, entity.DefaultTypeReception)
		if err != nil {
			return "", err
		}
		return anchor.ID, nil
	}
	sp, err := storagePointOf(ctx, repos, locationID)
	if err != nil {
		return "", err
	}
	if sp != storagePointID {
		return "", domain.InvalidOperation("la ubicación de recepción pertenece a otro punto de almacenamiento")
	}
	return locationID, nil
}

// ValidateReception cierra una recepción en borrador. Una recepción sin líneas no se puede validar.
func (s *ItemService) ValidateReception(ctx context.Context, receptionID string, principal entity.Principal) (*entity.Reception, error) {
	rec, err := s.repos.Receptions.GetByID(ctx, receptionID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.NotFound("recepción", receptionID)
	}
	if err := s.cfg.authorize(principal, rec.StoragePointID); err != nil {
		return nil, err
	}
	var validated *entity.Reception
	err = s.tx.Run(ctx, func(repos Repos) error {
		locked, err := repos.Receptions.GetForUpdate(ctx, receptionID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.NotFound("recepción", receptionID)
		}
		if locked.Status != entity.ReceptionDraft {
			return domain.InvalidOperation("la recepción ya fue validada")
		}
		lines, err := repos.Receptions.ListLines(ctx, receptionID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.InvalidOperation("la recepción no tiene líneas")
		}
		now := time.Now()
		locked.Status = entity.ReceptionValidated
		locked.ValidatedAt = &now
		locked.ValidatedBy = principal.UserID
		validated = locked
		return repos.Receptions.Update(ctx, locked)
	})
	if err != nil {
		return nil, domain.Conflict("validar recepción", err)
	}
	return validated, nil
}
