package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-wms/internal/application/inventory"
	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
	"github.com/jhoicas/Inventario-wms/internal/domain/repository"
	"github.com/jhoicas/Inventario-wms/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: punto de almacenamiento aprovisionado con sus anclas, un área CUSTOM
// con un rack (raíz) y dos estantes (hijos), y un producto con una variante.
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	ctx   context.Context
	store *memory.Store
	repos inventory.Repos

	locations      *inventory.LocationService
	items          *inventory.ItemService
	investigations *inventory.InvestigationService
	merge          *inventory.MergeService
	reports        *inventory.ReportService
	renderer       *captureRenderer

	admin    entity.Principal
	operator entity.Principal

	sp      *entity.StoragePoint
	area    *entity.Area
	rack    *entity.Location
	shelfA  *entity.Location
	shelfB  *entity.Location
	product *entity.Product
	variant *entity.ProductVariant
}

// captureRenderer guarda el último reporte en lugar de generar el PDF.
type captureRenderer struct {
	last inventory.MovementReport
}

func (r *captureRenderer) RenderMovements(_ context.Context, report inventory.MovementReport) ([]byte, error) {
	r.last = report
	return []byte("%PDF-test"), nil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:      context.Background(),
		store:    memory.NewStore(),
		renderer: &captureRenderer{},
		admin:    entity.Principal{UserID: "u-admin", Roles: []string{entity.RoleAdmin}},
	}
	f.repos = f.store.Repos()
	cfg := inventory.DefaultConfig()
	log := zerolog.Nop()

	ledger := inventory.NewLedger()
	agg := inventory.NewAggregator()
	f.locations = inventory.NewLocationService(f.repos, f.store, nil, cfg, log)
	f.items = inventory.NewItemService(f.repos, f.store, f.locations, ledger, agg, cfg, log)
	f.investigations = inventory.NewInvestigationService(f.repos, f.store, f.locations, f.items, cfg, log)
	f.merge = inventory.NewMergeService(f.repos, f.store, f.locations, f.items, cfg, log)
	f.reports = inventory.NewReportService(f.repos, f.locations, f.renderer, cfg)

	var err error
	f.sp, err = f.locations.ProvisionStoragePoint(f.ctx, "SP1", "Bodega principal", "Calle 1", f.admin)
	require.NoError(t, err)
	f.operator = entity.Principal{UserID: "u-op", Roles: []string{entity.RoleBodeguero}, StoragePointIDs: []string{f.sp.ID}}

	f.area = f.newArea(t, "Zona A")
	f.rack = f.newLocation(t, inventory.LocationInput{AreaID: f.area.ID, Reference: "RACK-1", Name: "Rack 1"})
	f.shelfA = f.newLocation(t, inventory.LocationInput{ParentID: f.rack.ID, Reference: "RACK-1-A", Name: "Estante A"})
	f.shelfB = f.newLocation(t, inventory.LocationInput{ParentID: f.rack.ID, Reference: "RACK-1-B", Name: "Estante B"})

	now := time.Now()
	f.product = &entity.Product{ID: uuid.New().String(), SKU: "P-1", Name: "Taladro", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.repos.Products.CreateProduct(f.ctx, f.product))
	f.variant = &entity.ProductVariant{ID: uuid.New().String(), ProductID: f.product.ID, SKU: "P-1-220V", Name: "220V", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.repos.Products.CreateVariant(f.ctx, f.variant))
	return f
}

func (f *fixture) newArea(t *testing.T, title string) *entity.Area {
	t.Helper()
	a, err := f.locations.CreateArea(f.ctx, f.sp.ID, inventory.AreaInput{Title: title}, f.admin)
	require.NoError(t, err)
	return a
}

func (f *fixture) newLocation(t *testing.T, in inventory.LocationInput) *entity.Location {
	t.Helper()
	loc, err := f.locations.CreateLocation(f.ctx, in, f.admin)
	require.NoError(t, err)
	return loc
}

// receive recibe un ítem en la ancla RECEPTION con el costo indicado (USD).
func (f *fixture) receive(t *testing.T, cost int64) *entity.ProductItem {
	t.Helper()
	rec, err := f.items.OpenReception(f.ctx, f.sp.ID, "sup-1", "", f.operator)
	require.NoError(t, err)
	item, err := f.items.ReceiveItem(f.ctx, inventory.ReceiveInput{
		ReceptionID:  rec.ID,
		VariantID:    f.variant.ID,
		PurchaseCost: decimal.NewFromInt(cost),
		Currency:     "USD",
		Principal:    f.operator,
	})
	require.NoError(t, err)
	return item
}

// stocked recibe y guarda un ítem en la ubicación indicada (AVAILABLE/IN_STOCK).
func (f *fixture) stocked(t *testing.T, cost int64, locationID string) *entity.ProductItem {
	t.Helper()
	item := f.receive(t, cost)
	stored, err := f.items.StoreItem(f.ctx, item.ID, locationID, f.operator)
	require.NoError(t, err)
	return stored
}

func (f *fixture) location(t *testing.T, id string) *entity.Location {
	t.Helper()
	loc, err := f.repos.Locations.GetByID(f.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, loc, "ubicación %s", id)
	return loc
}

func (f *fixture) item(t *testing.T, id string) *entity.ProductItem {
	t.Helper()
	it, err := f.repos.Items.GetByID(f.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, it)
	return it
}

func (f *fixture) variantQty(t *testing.T) entity.ProductQuantity {
	t.Helper()
	v, err := f.repos.Products.GetVariant(f.ctx, f.variant.ID)
	require.NoError(t, err)
	return v.Quantity
}

func (f *fixture) productQty(t *testing.T) entity.ProductQuantity {
	t.Helper()
	p, err := f.repos.Products.GetProduct(f.ctx, f.product.ID)
	require.NoError(t, err)
	return p.Quantity
}

func (f *fixture) anchor(t *testing.T, areaType, locationType string) *entity.Location {
	t.Helper()
	loc, err := f.locations.FindStorageAnchor(f.ctx, f.sp.ID, areaType, locationType)
	require.NoError(t, err)
	return loc
}

func (f *fixture) movements(t *testing.T, itemID string) []*entity.StockMovement {
	t.Helper()
	movs, err := f.reports.ListMovements(f.ctx, repository.MovementFilter{ProductItemID: itemID})
	require.NoError(t, err)
	return movs
}

// requireConserved verifica que la suma de contadores de variante y producto iguale el número de ítems.
func (f *fixture) requireConserved(t *testing.T) {
	t.Helper()
	n, err := f.repos.Items.CountByVariant(f.ctx, f.variant.ID)
	require.NoError(t, err)
	require.Equal(t, n, f.variantQty(t).Total(), "contadores de variante")
	require.Equal(t, n, f.productQty(t).Total(), "contadores de producto")
}

// requireLocationCounters verifica, para cada ubicación del punto de almacenamiento, que total_items
// iguale los ítems ubicados en ella o en cualquiera de sus descendientes.
func (f *fixture) requireLocationCounters(t *testing.T) {
	t.Helper()
	areas, err := f.repos.Areas.ListByStoragePoint(f.ctx, f.sp.ID)
	require.NoError(t, err)
	for _, area := range areas {
		locs, err := f.repos.Locations.ListByArea(f.ctx, area.ID)
		require.NoError(t, err)
		for _, loc := range locs {
			subtree, err := f.repos.Locations.Descendants(f.ctx, loc)
			require.NoError(t, err)
			n := 0
			for _, node := range subtree {
				items, err := f.repos.Items.ListByLocationForUpdate(f.ctx, node.ID)
				require.NoError(t, err)
				n += len(items)
			}
			require.Equal(t, n, loc.TotalItems, "total_items de %s", loc.Reference)
		}
	}
}

func usd(values []entity.CurrencyAmount) decimal.Decimal {
	for _, v := range values {
		if v.Currency == "USD" {
			return v.Amount
		}
	}
	return decimal.Zero
}
