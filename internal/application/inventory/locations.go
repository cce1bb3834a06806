package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-wms/internal/domain"
	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
	"github.com/jhoicas/Inventario-wms/internal/domain/inventory"
)

// LocationService casos de uso de la jerarquía StoragePoint → Area → Location.
type LocationService struct {
	repos Repos
	tx    TxRunner
	cache StructureCache
	cfg   Config
	log   zerolog.Logger
}

// NewLocationService construye el servicio. repos debe estar atado al pool (lecturas fuera de tx).
func NewLocationService(repos Repos, tx TxRunner, cache StructureCache, cfg Config, log zerolog.Logger) *LocationService {
	if cache == nil {
		cache = NoopCache{}
	}
	return &LocationService{repos: repos, tx: tx, cache: cache, cfg: cfg, log: log}
}

// ── Lecturas de árbol ─────────────────────────────────────────────────────────

// FindAncestors devuelve la cadena de la raíz a la ubicación (incluida).
func (s *LocationService) FindAncestors(ctx context.Context, locationID string) ([]*entity.Location, error) {
	loc, err := s.getLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	return s.repos.Locations.Ancestors(ctx, loc)
}

// FindDescendants devuelve el subárbol de la ubicación (incluida), sin orden.
func (s *LocationService) FindDescendants(ctx context.Context, locationID string) ([]*entity.Location, error) {
	loc, err := s.getLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	return s.repos.Locations.Descendants(ctx, loc)
}

// FindDescendantsTree devuelve el subárbol anidado de la ubicación.
func (s *LocationService) FindDescendantsTree(ctx context.Context, locationID string) (*entity.LocationNode, error) {
	loc, err := s.getLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	desc, err := s.repos.Locations.Descendants(ctx, loc)
	if err != nil {
		return nil, err
	}
	return inventory.BuildTree(loc, desc), nil
}

// ResolveStoragePointForLocation sube por los ancestros hasta el primer nodo con AreaID
// y devuelve el punto de almacenamiento de esa área. Sin área en la cadena es una falla de integridad.
func (s *LocationService) ResolveStoragePointForLocation(ctx context.Context, locationID string) (string, error) {
	if cached, err := s.cache.GetStoragePoint(ctx, locationID); err == nil && cached != "" {
		return cached, nil
	} else if err != nil {
		s.log.Warn().Err(err).Str("location_id", locationID).Msg("cache de estructura no disponible")
	}
	spID, err := storagePointOf(ctx, s.repos, locationID)
	if err != nil {
		return "", err
	}
	if err := s.cache.SetStoragePoint(ctx, locationID, spID); err != nil {
		s.log.Warn().Err(err).Str("location_id", locationID).Msg("no se pudo cachear el punto de almacenamiento")
	}
	return spID, nil
}

// FindAnchorLocation devuelve la ubicación ancla con la etiqueta indicada dentro del área.
func (s *LocationService) FindAnchorLocation(ctx context.Context, areaID, defaultType string) (*entity.Location, error) {
	area, err := s.repos.Areas.GetByID(ctx, areaID)
	if err != nil {
		return nil, err
	}
	if area == nil {
		return nil, domain.NotFound("área", areaID)
	}
	return anchorIn(ctx, s.repos, area, defaultType)
}

// FindStorageAnchor devuelve la ubicación ancla locationType del área DEFAULT areaType del punto de almacenamiento.
func (s *LocationService) FindStorageAnchor(ctx context.Context, storagePointID, areaType, locationType string) (*entity.Location, error) {
	return storageAnchor(ctx, s.repos, storagePointID, areaType, locationType)
}

// ── Configuración del almacén ─────────────────────────────────────────────────

// defaultLayout áreas DEFAULT creadas con cada punto de almacenamiento y sus ubicaciones ancla.
var defaultLayout = []struct {
	areaType string
	title    string
	anchors  []string
}{
	{entity.DefaultTypeDeadStock, "Stock muerto", []string{entity.DefaultTypeDeadStock, entity.DefaultTypeInvestigation}},
	{entity.DefaultTypeOutput, "Salida", []string{entity.DefaultTypeExpedition}},
	{entity.DefaultTypeReception, "Recepción", []string{entity.DefaultTypeReception}},
}

// ProvisionStoragePoint crea un punto de almacenamiento con sus áreas DEFAULT y ubicaciones ancla.
func (s *LocationService) ProvisionStoragePoint(ctx context.Context, reference, name, address string, principal entity.Principal) (*entity.StoragePoint, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, domain.ErrInvalidInput
	}
	if !principal.HasRole(s.cfg.ElevatedRoles...) {
		return nil, domain.ErrUnauthorized
	}
	now := time.Now()
	sp := &entity.StoragePoint{
		ID:        uuid.New().String(),
		Reference: reference,
		Name:      name,
		Status:    entity.StoragePointOpen,
		Address:   address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := s.tx.Run(ctx, func(repos Repos) error {
		if err := repos.StoragePoints.Create(ctx, sp); err != nil {
			return err
		}
		for _, d := range defaultLayout {
			area := &entity.Area{
				ID:             uuid.New().String(),
				StoragePointID: sp.ID,
				Reference:      sp.Reference + "-" + d.areaType,
				Title:          d.title,
				Type:           entity.AreaTypeDefault,
				DefaultType:    d.areaType,
				Surface:        decimal.Zero,
				Volume:         decimal.Zero,
				IsVirtual:      true,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := repos.Areas.Create(ctx, area); err != nil {
				return err
			}
			for _, anchor := range d.anchors {
				id := uuid.New().String()
				loc := &entity.Location{
					ID:          id,
					Reference:   sp.Reference + "-" + anchor,
					Barcode:     sp.Reference + "-" + anchor,
					Name:        anchor,
					AreaID:      area.ID,
					Path:        inventory.BuildPath("", id),
					DefaultType: anchor,
					IsVirtual:   true,
					CreatedAt:   now,
					UpdatedAt:   now,
				}
				if err := repos.Locations.Create(ctx, loc); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, domain.Conflict("crear punto de almacenamiento", err)
	}
	s.log.Info().Str("storage_point_id", sp.ID).Str("reference", sp.Reference).Msg("punto de almacenamiento creado")
	return sp, nil
}

// AreaInput datos de creación/edición de un área CUSTOM.
type AreaInput struct {
	Reference string
	Title     string
	Surface   decimal.Decimal
	Volume    decimal.Decimal
	IsVirtual bool
}

// CreateArea crea un área CUSTOM en el punto de almacenamiento.
func (s *LocationService) CreateArea(ctx context.Context, storagePointID string, in AreaInput, principal entity.Principal) (*entity.Area, error) {
	if strings.TrimSpace(in.Title) == "" {
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
	if err := s.checkUniqueTitle(ctx, storagePointID, "", in.Title); err != nil {
		return nil, err
	}
	now := time.Now()
	ref := in.Reference
	if ref == "" {
		ref = "AREA-" + uuid.New().String()[:8]
	}
	area := &entity.Area{
		ID:             uuid.New().String(),
		StoragePointID: storagePointID,
		Reference:      ref,
		Title:          in.Title,
		Type:           entity.AreaTypeCustom,
		Surface:        in.Surface,
		Volume:         in.Volume,
		IsVirtual:      in.IsVirtual,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repos.Areas.Create(ctx, area); err != nil {
		return nil, err
	}
	return area, nil
}

// AreaPatch cambios parciales de un área; los campos nil conservan el valor almacenado.
type AreaPatch struct {
	Reference *string
	Title     *string
	Surface   *decimal.Decimal
	Volume    *decimal.Decimal
	IsVirtual *bool
}

// UpdateArea edita un área CUSTOM. Las áreas DEFAULT no se editan.
func (s *LocationService) UpdateArea(ctx context.Context, areaID string, patch AreaPatch, principal entity.Principal) (*entity.Area, error) {
	area, err := s.repos.Areas.GetByID(ctx, areaID)
	if err != nil {
		return nil, err
	}
	if area == nil {
		return nil, domain.NotFound("área", areaID)
	}
	if area.IsDefault() {
		return nil, domain.InvalidOperation("las áreas DEFAULT no se pueden editar")
	}
	if err := s.cfg.authorize(principal, area.StoragePointID); err != nil {
		return nil, err
	}
	if patch.Title != nil && *patch.Title != area.Title {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, domain.ErrInvalidInput
		}
		if err := s.checkUniqueTitle(ctx, area.StoragePointID, area.ID, *patch.Title); err != nil {
			return nil, err
		}
		area.Title = *patch.Title
	}
	if patch.Reference != nil && *patch.Reference != area.Reference {
		if strings.TrimSpace(*patch.Reference) == "" {
			return nil, domain.ErrInvalidInput
		}
		area.Reference = *patch.Reference
	}
	if patch.Surface != nil {
		area.Surface = *patch.Surface
	}
	if patch.Volume != nil {
		area.Volume = *patch.Volume
	}
	if patch.IsVirtual != nil {
		area.IsVirtual = *patch.IsVirtual
	}
	area.UpdatedAt = time.Now()
	if err := s.repos.Areas.Update(ctx, area); err != nil {
		return nil, err
	}
	return area, nil
}

// DeleteArea elimina un área CUSTOM y su bosque de ubicaciones.
// Se rechaza si alguna ubicación del bosque tiene total_items > 0; en ese caso no se modifica nada.
func (s *LocationService) DeleteArea(ctx context.Context, areaID string, principal entity.Principal) error {
	area, err := s.repos.Areas.GetByID(ctx, areaID)
	if err != nil {
		return err
	}
	if area == nil {
		return domain.NotFound("área", areaID)
	}
	if area.IsDefault() {
		return domain.InvalidOperation("las áreas DEFAULT no se pueden eliminar")
	}
	if err := s.cfg.authorize(principal, area.StoragePointID); err != nil {
		return err
	}
	var removed []string
	err = s.tx.Run(ctx, func(repos Repos) error {
		locked, err := repos.Areas.GetForUpdate(ctx, areaID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.NotFound("área", areaID)
		}
		removed, err = deleteAreaInTx(ctx, repos, locked)
		return err
	})
	if err != nil {
		s.log.Error().Err(err).Str("area_id", areaID).Msg("eliminar área")
		return domain.Conflict("eliminar área", err)
	}
	if err := s.cache.Invalidate(ctx, removed...); err != nil {
		s.log.Warn().Err(err).Msg("invalidar cache de estructura")
	}
	s.log.Info().Str("area_id", areaID).Int("locations", len(removed)).Msg("área eliminada")
	return nil
}

// LocationInput datos de creación de una ubicación. AreaID crea una raíz; ParentID crea un hijo.
type LocationInput struct {
	AreaID    string
	ParentID  string
	Reference string
	Barcode   string
	Name      string
	IsVirtual bool
}

// CreateLocation crea una ubicación CUSTOM (raíz de un área o hija de otra ubicación).
func (s *LocationService) CreateLocation(ctx context.Context, in LocationInput, principal entity.Principal) (*entity.Location, error) {
	if (in.AreaID == "") == (in.ParentID == "") {
		return nil, fmt.Errorf("indicar area_id o parent_id: %w", domain.ErrInvalidInput)
	}
	spID := ""
	if in.AreaID != "" {
		area, err := s.repos.Areas.GetByID(ctx, in.AreaID)
		if err != nil {
			return nil, err
		}
		if area == nil {
			return nil, domain.NotFound("área", in.AreaID)
		}
		if area.IsDefault() {
			return nil, domain.InvalidOperation("las áreas DEFAULT no admiten ubicaciones nuevas")
		}
		spID = area.StoragePointID
	} else {
		area, err := areaOf(ctx, s.repos, in.ParentID)
		if err != nil {
			return nil, err
		}
		if area.IsDefault() {
			return nil, domain.InvalidOperation("las áreas DEFAULT no admiten ubicaciones nuevas")
		}
		spID = area.StoragePointID
	}
	if err := s.cfg.authorize(principal, spID); err != nil {
		return nil, err
	}
	var loc *entity.Location
	err := s.tx.Run(ctx, func(repos Repos) error {
		var err error
		loc, err = createLocationInTx(ctx, repos, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return loc, nil
}

// UpdateLocation edita los datos descriptivos de una ubicación CUSTOM.
func (s *LocationService) UpdateLocation(ctx context.Context, locationID, reference, barcode, name string, principal entity.Principal) (*entity.Location, error) {
	loc, err := s.getLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if loc.IsDefault() {
		return nil, domain.InvalidOperation("las ubicaciones DEFAULT no se pueden editar")
	}
	area, err := areaOf(ctx, s.repos, locationID)
	if err != nil {
		return nil, err
	}
	if area.IsDefault() {
		return nil, domain.InvalidOperation("las ubicaciones de un área DEFAULT no se pueden editar")
	}
	if err := s.cfg.authorize(principal, area.StoragePointID); err != nil {
		return nil, err
	}
	if barcode != "" && barcode != loc.Barcode {
		other, err := s.repos.Locations.GetByBarcode(ctx, barcode)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, fmt.Errorf("código de barras %q en uso: %w", barcode, domain.ErrInvalidInput)
		}
		loc.Barcode = barcode
	}
	if reference != "" {
		loc.Reference = reference
	}
	if name != "" {
		loc.Name = name
	}
	loc.UpdatedAt = time.Now()
	if err := s.repos.Locations.Update(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

func (s *LocationService) getLocation(ctx context.Context, id string) (*entity.Location, error) {
	loc, err := s.repos.Locations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.NotFound("ubicación", id)
	}
	return loc, nil
}

func (s *LocationService) checkUniqueTitle(ctx context.Context, storagePointID, exceptID, title string) error {
	areas, err := s.repos.Areas.ListByStoragePoint(ctx, storagePointID)
	if err != nil {
		return err
	}
	for _, a := range areas {
		if a.ID != exceptID && strings.EqualFold(a.Title, title) {
			return fmt.Errorf("título de área %q duplicado: %w", title, domain.ErrInvalidInput)
		}
	}
	return nil
}

// ── Helpers compartidos por los orquestadores (operan con los repos recibidos) ─

// areaOf resuelve el área de una ubicación subiendo por su cadena de ancestros
// hasta el primer nodo con AreaID. Sin área en la cadena es una falla de integridad.
func areaOf(ctx context.Context, repos Repos, locationID string) (*entity.Area, error) {
	loc, err := repos.Locations.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.NotFound("ubicación", locationID)
	}
	chain, err := repos.Locations.Ancestors(ctx, loc)
	if err != nil {
		return nil, err
	}
	areaID := ""
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].AreaID != "" {
			areaID = chain[i].AreaID
			break
		}
	}
	if areaID == "" {
		return nil, domain.IntegrityFault(fmt.Sprintf("ubicación %s sin ancestro con área", locationID))
	}
	area, err := repos.Areas.GetByID(ctx, areaID)
	if err != nil {
		return nil, err
	}
	if area == nil || area.StoragePointID == "" {
		return nil, domain.IntegrityFault(fmt.Sprintf("área %s de la ubicación %s no existe o no tiene punto de almacenamiento", areaID, locationID))
	}
	return area, nil
}

// storagePointOf resuelve el punto de almacenamiento de una ubicación.
func storagePointOf(ctx context.Context, repos Repos, locationID string) (string, error) {
	area, err := areaOf(ctx, repos, locationID)
	if err != nil {
		return "", err
	}
	return area.StoragePointID, nil
}

// requireStoragePoint revalida dentro de la tx que el punto de almacenamiento resuelto sigue existiendo.
func requireStoragePoint(ctx context.Context, repos Repos, storagePointID string) (*entity.StoragePoint, error) {
	sp, err := repos.StoragePoints.GetByID(ctx, storagePointID)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, domain.IntegrityFault(fmt.Sprintf("punto de almacenamiento %s no existe", storagePointID))
	}
	return sp, nil
}

func anchorIn(ctx context.Context, repos Repos, area *entity.Area, defaultType string) (*entity.Location, error) {
	loc, err := repos.Locations.FindAnchor(ctx, area.ID, defaultType)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.IntegrityFault(fmt.Sprintf("área %s sin ubicación ancla %s", area.ID, defaultType))
	}
	return loc, nil
}

// storageAnchor busca la ubicación ancla locationType dentro del área DEFAULT areaType del punto de almacenamiento.
func storageAnchor(ctx context.Context, repos Repos, storagePointID, areaType, locationType string) (*entity.Location, error) {
	area, err := repos.Areas.FindDefault(ctx, storagePointID, areaType)
	if err != nil {
		return nil, err
	}
	if area == nil {
		return nil, domain.IntegrityFault(fmt.Sprintf("punto de almacenamiento %s sin área DEFAULT %s", storagePointID, areaType))
	}
	return anchorIn(ctx, repos, area, locationType)
}

// deleteAreaInTx verifica que todo el bosque del área esté vacío (con filas bloqueadas) y lo elimina.
// Devuelve los ids de ubicaciones eliminadas.
func deleteAreaInTx(ctx context.Context, repos Repos, area *entity.Area) ([]string, error) {
	if area.IsDefault() {
		return nil, domain.InvalidOperation("las áreas DEFAULT no se pueden eliminar")
	}
	forest, err := repos.Locations.ListByArea(ctx, area.ID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(forest))
	for _, l := range forest {
		ids = append(ids, l.ID)
	}
	locked, err := repos.Locations.LockForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, l := range locked {
		if l.TotalItems != 0 {
			return nil, domain.InvalidOperation(fmt.Sprintf("la ubicación %s del área contiene %d ítems", l.Reference, l.TotalItems))
		}
	}
	if err := repos.Locations.DeleteByArea(ctx, area.ID); err != nil {
		return nil, err
	}
	if err := repos.Areas.Delete(ctx, area.ID); err != nil {
		return nil, err
	}
	return ids, nil
}

// createLocationInTx crea una ubicación CUSTOM calculando path y profundidad.
func createLocationInTx(ctx context.Context, repos Repos, in LocationInput) (*entity.Location, error) {
	if in.Barcode != "" {
		other, err := repos.Locations.GetByBarcode(ctx, in.Barcode)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, fmt.Errorf("código de barras %q en uso: %w", in.Barcode, domain.ErrInvalidInput)
		}
	}
	now := time.Now()
	id := uuid.New().String()
	loc := &entity.Location{
		ID:        id,
		Reference: in.Reference,
		Barcode:   in.Barcode,
		Name:      in.Name,
		IsVirtual: in.IsVirtual,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if loc.Reference == "" {
		loc.Reference = "LOC-" + id[:8]
	}
	if loc.Barcode == "" {
		loc.Barcode = loc.Reference
	}
	if in.ParentID != "" {
		parent, err := repos.Locations.GetByID(ctx, in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, domain.NotFound("ubicación", in.ParentID)
		}
		loc.ParentID = parent.ID
		loc.Path = inventory.BuildPath(parent.Path, id)
		loc.Depth = parent.Depth + 1
	} else {
		loc.AreaID = in.AreaID
		loc.Path = inventory.BuildPath("", id)
	}
	if err := repos.Locations.Create(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}
