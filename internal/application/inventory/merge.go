package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-wms/internal/domain"
	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
	"github.com/jhoicas/Inventario-wms/internal/domain/inventory"
)

// LocationMapping destino de los ítems de una ubicación del área origen:
// una ubicación existente del área destino, o una nueva que se crea en ella.
type LocationMapping struct {
	SourceLocationID string
	TargetLocationID string
	NewLocation      *LocationInput
}

// MergeInput fusión del área origen en el área destino.
type MergeInput struct {
	SourceAreaID string
	TargetAreaID string
	Mappings     []LocationMapping
	Principal    entity.Principal
}

// MergeResult resumen de la fusión.
type MergeResult struct {
	SourceAreaID     string
	TargetAreaID     string
	MovedItems       int
	CreatedLocations []*entity.Location
	Movements        []*entity.StockMovement
}

// MergeService fusiona áreas CUSTOM de un mismo punto de almacenamiento.
type MergeService struct {
	repos     Repos
	tx        TxRunner
	locations *LocationService
	items     *ItemService
	cfg       Config
	log       zerolog.Logger
}

// NewMergeService construye el servicio.
func NewMergeService(repos Repos, tx TxRunner, locations *LocationService, items *ItemService, cfg Config, log zerolog.Logger) *MergeService {
	return &MergeService{repos: repos, tx: tx, locations: locations, items: items, cfg: cfg, log: log}
}

// MergeAreas mueve todos los ítems del área origen a las ubicaciones mapeadas del área destino
// (un movimiento AREA_MERGE por ítem) y, solo después de mover todo, elimina el área origen.
// Una ubicación origen con ítems que no aparece en el mapeo aborta la fusión.
func (s *MergeService) MergeAreas(ctx context.Context, in MergeInput) (*MergeResult, error) {
	if in.SourceAreaID == "" || in.TargetAreaID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.SourceAreaID == in.TargetAreaID {
		return nil, domain.InvalidOperation("no se puede fusionar un área consigo misma")
	}
	if err := validateMappings(in.Mappings); err != nil {
		return nil, err
	}
	source, err := s.getArea(ctx, in.SourceAreaID)
	if err != nil {
		return nil, err
	}
	target, err := s.getArea(ctx, in.TargetAreaID)
	if err != nil {
		return nil, err
	}
	if source.IsDefault() || target.IsDefault() {
		return nil, domain.InvalidOperation("las áreas DEFAULT no se pueden fusionar")
	}
	if source.StoragePointID != target.StoragePointID {
		return nil, domain.InvalidOperation("las áreas pertenecen a puntos de almacenamiento distintos")
	}
	if err := s.cfg.authorize(in.Principal, source.StoragePointID); err != nil {
		return nil, err
	}

	res := &MergeResult{SourceAreaID: source.ID, TargetAreaID: target.ID}
	var removed []string
	err = s.tx.Run(ctx, func(repos Repos) error {
		src, dst, err := lockAreas(ctx, repos, source.ID, target.ID)
		if err != nil {
			return err
		}
		if src.IsDefault() || dst.IsDefault() || src.StoragePointID != dst.StoragePointID {
			return fmt.Errorf("las áreas cambiaron durante la fusión: %w", domain.ErrConflict)
		}
		if _, err := requireStoragePoint(ctx, repos, src.StoragePointID); err != nil {
			return err
		}

		sourceForest, err := repos.Locations.ListByArea(ctx, src.ID)
		if err != nil {
			return err
		}
		targetForest, err := repos.Locations.ListByArea(ctx, dst.ID)
		if err != nil {
			return err
		}
		inSource := idSet(sourceForest)
		inTarget := idSet(targetForest)

		mapped := make(map[string]bool, len(in.Mappings))
		for _, m := range in.Mappings {
			if !inSource[m.SourceLocationID] {
				return fmt.Errorf("la ubicación %s no pertenece al área origen: %w", m.SourceLocationID, domain.ErrInvalidInput)
			}
			if m.TargetLocationID != "" && !inTarget[m.TargetLocationID] {
				return fmt.Errorf("la ubicación %s no pertenece al área destino: %w", m.TargetLocationID, domain.ErrInvalidInput)
			}
			if m.NewLocation != nil && m.NewLocation.ParentID != "" && !inTarget[m.NewLocation.ParentID] {
				return fmt.Errorf("la ubicación padre %s no pertenece al área destino: %w", m.NewLocation.ParentID, domain.ErrInvalidInput)
			}
			mapped[m.SourceLocationID] = true
		}

		// ítems bloqueados por ubicación; toda ubicación con ítems debe estar mapeada
		held := make(map[string][]*entity.ProductItem, len(sourceForest))
		for _, loc := range sourceForest {
			items, err := repos.Items.ListByLocationForUpdate(ctx, loc.ID)
			if err != nil {
				return err
			}
			if len(items) > 0 && !mapped[loc.ID] {
				return domain.InvalidOperation(fmt.Sprintf("la ubicación %s contiene ítems y no está mapeada", loc.Reference))
			}
			held[loc.ID] = items
		}

		for _, m := range in.Mappings {
			targetID := m.TargetLocationID
			if m.NewLocation != nil {
				nl := *m.NewLocation
				if nl.ParentID == "" {
					nl.AreaID = dst.ID
				} else {
					nl.AreaID = ""
				}
				created, err := createLocationInTx(ctx, repos, nl)
				if err != nil {
					return err
				}
				res.CreatedLocations = append(res.CreatedLocations, created)
				targetID = created.ID
			}
			for _, item := range held[m.SourceLocationID] {
				mov, err := s.items.apply(ctx, repos, item, step{
					to:           inventory.PositionOf(item),
					targetID:     targetID,
					context:      item.Context,
					movementType: entity.MovementTypeInternal,
					triggerType:  entity.TriggerTypeAuto,
					triggeredBy:  entity.TriggeredByAreaMerge,
					userID:       in.Principal.UserID,
				})
				if err != nil {
					return err
				}
				res.Movements = append(res.Movements, mov)
				res.MovedItems++
			}
		}

		// borrar después de mover: el precheck de totalItems == 0 debe pasar ahora
		removed, err = deleteAreaInTx(ctx, repos, src)
		return err
	})
	if err != nil {
		s.log.Error().Err(err).Str("source_area_id", in.SourceAreaID).Str("target_area_id", in.TargetAreaID).Msg("fusionar áreas")
		return nil, domain.Conflict("fusionar áreas", err)
	}
	if err := s.locations.cache.Invalidate(ctx, removed...); err != nil {
		s.log.Warn().Err(err).Msg("invalidar cache de estructura")
	}
	s.log.Info().
		Str("source_area_id", res.SourceAreaID).
		Str("target_area_id", res.TargetAreaID).
		Int("moved_items", res.MovedItems).
		Int("created_locations", len(res.CreatedLocations)).
		Msg("áreas fusionadas")
	return res, nil
}

func (s *MergeService) getArea(ctx context.Context, id string) (*entity.Area, error) {
	area, err := s.repos.Areas.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if area == nil {
		return nil, domain.NotFound("área", id)
	}
	return area, nil
}

func validateMappings(mappings []LocationMapping) error {
	seen := make(map[string]bool, len(mappings))
	for _, m := range mappings {
		if m.SourceLocationID == "" {
			return fmt.Errorf("mapeo sin ubicación origen: %w", domain.ErrInvalidInput)
		}
		if (m.TargetLocationID == "") == (m.NewLocation == nil) {
			return fmt.Errorf("mapeo de %s: indicar ubicación destino o nueva ubicación: %w", m.SourceLocationID, domain.ErrInvalidInput)
		}
		if seen[m.SourceLocationID] {
			return fmt.Errorf("ubicación origen %s mapeada dos veces: %w", m.SourceLocationID, domain.ErrInvalidInput)
		}
		seen[m.SourceLocationID] = true
	}
	return nil
}

// lockAreas bloquea ambas áreas en orden de id.
func lockAreas(ctx context.Context, repos Repos, sourceID, targetID string) (*entity.Area, *entity.Area, error) {
	ids := []string{sourceID, targetID}
	sort.Strings(ids)
	locked := make(map[string]*entity.Area, 2)
	for _, id := range ids {
		a, err := repos.Areas.GetForUpdate(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if a == nil {
			return nil, nil, domain.NotFound("área", id)
		}
		locked[id] = a
	}
	return locked[sourceID], locked[targetID], nil
}

func idSet(locs []*entity.Location) map[string]bool {
	set := make(map[string]bool, len(locs))
	for _, l := range locs {
		set[l.ID] = true
	}
	return set
}
