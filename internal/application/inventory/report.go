package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-wms/internal/domain"
	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
	"github.com/jhoicas/Inventario-wms/internal/domain/repository"
)

// MovementReport historial de movimientos listo para renderizar.
type MovementReport struct {
	Title       string
	Subject     string // referencia del ítem o de la ubicación
	GeneratedAt time.Time
	GeneratedBy string
	Rows        []MovementRow
}

// MovementRow fila del historial con referencias legibles en lugar de ids.
type MovementRow struct {
	Reference    string
	CreatedAt    time.Time
	MovementType string
	TriggeredBy  string
	Item         string
	Source       string
	Target       string
	FromState    string
	ToState      string
	CreatedBy    string
}

// ReportService consultas del libro de movimientos.
type ReportService struct {
	repos     Repos
	locations *LocationService
	renderer  ReportRenderer
	cfg       Config
}

// NewReportService construye el servicio. renderer puede ser nil si no se exponen PDFs.
func NewReportService(repos Repos, locations *LocationService, renderer ReportRenderer, cfg Config) *ReportService {
	return &ReportService{repos: repos, locations: locations, renderer: renderer, cfg: cfg}
}

// ListMovements devuelve movimientos filtrados, del más reciente al más antiguo.
func (s *ReportService) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	if filter.Limit <= 0 {
		filter.Limit = repository.DefaultMovementLimit
	}
	if filter.Limit > repository.MaxMovementLimit {
		filter.Limit = repository.MaxMovementLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repos.Movements.List(ctx, filter)
}

// ItemHistoryPDF renderiza el historial completo de un ítem.
func (s *ReportService) ItemHistoryPDF(ctx context.Context, itemID string, principal entity.Principal) ([]byte, error) {
	item, err := s.repos.Items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("ítem", itemID)
	}
	spID, err := s.locations.ResolveStoragePointForLocation(ctx, item.LocationID)
	if err != nil {
		return nil, err
	}
	if err := s.cfg.authorize(principal, spID); err != nil {
		return nil, err
	}
	return s.render(ctx, "Historial de movimientos del ítem", item.Reference,
		repository.MovementFilter{ProductItemID: itemID, Limit: repository.MaxMovementLimit}, principal)
}

// LocationHistoryPDF renderiza los movimientos con origen o destino en la ubicación.
func (s *ReportService) LocationHistoryPDF(ctx context.Context, locationID string, principal entity.Principal) ([]byte, error) {
	loc, err := s.locations.getLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	spID, err := s.locations.ResolveStoragePointForLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if err := s.cfg.authorize(principal, spID); err != nil {
		return nil, err
	}
	return s.render(ctx, "Movimientos de la ubicación", loc.Reference,
		repository.MovementFilter{LocationID: locationID, Limit: repository.MaxMovementLimit}, principal)
}

func (s *ReportService) render(ctx context.Context, title, subject string, filter repository.MovementFilter, principal entity.Principal) ([]byte, error) {
	if s.renderer == nil {
		return nil, domain.InvalidOperation("reportes PDF no configurados")
	}
	movements, err := s.repos.Movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	report := MovementReport{
		Title:       title,
		Subject:     subject,
		GeneratedAt: time.Now(),
		GeneratedBy: principal.UserID,
		Rows:        make([]MovementRow, 0, len(movements)),
	}
	refs := referenceResolver{ctx: ctx, repos: s.repos, locations: map[string]string{}, items: map[string]string{}}
	for _, m := range movements {
		report.Rows = append(report.Rows, MovementRow{
			Reference:    m.Reference,
			CreatedAt:    m.CreatedAt,
			MovementType: m.MovementType,
			TriggeredBy:  m.TriggeredBy,
			Item:         refs.item(m.ProductItemID),
			Source:       refs.location(m.Source.ID),
			Target:       refs.location(m.Target.ID),
			FromState:    m.FromState,
			ToState:      m.ToState,
			CreatedBy:    m.CreatedBy,
		})
	}
	return s.renderer.RenderMovements(ctx, report)
}

// referenceResolver traduce ids a referencias; si la entidad ya no existe (p. ej. área fusionada) deja el id.
type referenceResolver struct {
	ctx       context.Context
	repos     Repos
	locations map[string]string
	items     map[string]string
}

func (r referenceResolver) location(id string) string {
	if id == "" {
		return "-"
	}
	if ref, ok := r.locations[id]; ok {
		return ref
	}
	ref := id
	if loc, err := r.repos.Locations.GetByID(r.ctx, id); err == nil && loc != nil {
		ref = loc.Reference
	}
	r.locations[id] = ref
	return ref
}

func (r referenceResolver) item(id string) string {
	if ref, ok := r.items[id]; ok {
		return ref
	}
	ref := id
	if it, err := r.repos.Items.GetByID(r.ctx, id); err == nil && it != nil {
		ref = it.Reference
	}
	r.items[id] = ref
	return ref
}
