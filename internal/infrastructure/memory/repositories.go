package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-wms/internal/domain"
	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
	"github.com/jhoicas/Inventario-wms/internal/domain/inventory"
	"github.com/jhoicas/Inventario-wms/internal/domain/repository"
)

var (
	_ repository.StoragePointRepository  = storagePointRepo{}
	_ repository.AreaRepository          = areaRepo{}
	_ repository.LocationRepository      = locationRepo{}
	_ repository.ProductItemRepository   = itemRepo{}
	_ repository.StockMovementRepository = movementRepo{}
	_ repository.ProductRepository       = productRepo{}
	_ repository.InvestigationRepository = investigationRepo{}
	_ repository.ReceptionRepository     = receptionRepo{}
)

// ── Storage points ────────────────────────────────────────────────────────────

type storagePointRepo struct{ v view }

func (r storagePointRepo) Create(_ context.Context, sp *entity.StoragePoint) error {
	return r.v.write(func(st *state) error {
		for _, other := range st.storagePoints {
			if other.Reference == sp.Reference {
				return fmt.Errorf("punto de almacenamiento %q: %w", sp.Reference, domain.ErrInvalidInput)
			}
		}
		st.storagePoints[sp.ID] = *sp
		return nil
	})
}

func (r storagePointRepo) GetByID(_ context.Context, id string) (out *entity.StoragePoint, err error) {
	r.v.read(func(st *state) {
		if sp, ok := st.storagePoints[id]; ok {
			out = &sp
		}
	})
	return out, nil
}

// ── Areas ─────────────────────────────────────────────────────────────────────

type areaRepo struct{ v view }

func (r areaRepo) Create(_ context.Context, a *entity.Area) error {
	return r.v.write(func(st *state) error {
		for _, other := range st.areas {
			if other.Reference == a.Reference || (other.StoragePointID == a.StoragePointID && other.Title == a.Title) {
				return fmt.Errorf("área %q duplicada: %w", a.Title, domain.ErrInvalidInput)
			}
		}
		st.areas[a.ID] = *a
		return nil
	})
}

func (r areaRepo) GetByID(_ context.Context, id string) (out *entity.Area, err error) {
	r.v.read(func(st *state) {
		if a, ok := st.areas[id]; ok {
			out = &a
		}
	})
	return out, nil
}

// GetForUpdate: el acceso exclusivo de Run ya serializa.
func (r areaRepo) GetForUpdate(ctx context.Context, id string) (*entity.Area, error) {
	return r.GetByID(ctx, id)
}

func (r areaRepo) FindDefault(_ context.Context, storagePointID, defaultType string) (out *entity.Area, err error) {
	r.v.read(func(st *state) {
		for _, a := range st.areas {
			if a.StoragePointID == storagePointID && a.IsDefault() && a.DefaultType == defaultType {
				a := a
				out = &a
				return
			}
		}
	})
	return out, nil
}

func (r areaRepo) ListByStoragePoint(_ context.Context, storagePointID string) (out []*entity.Area, err error) {
	r.v.read(func(st *state) {
		for _, a := range st.areas {
			if a.StoragePointID == storagePointID {
				a := a
				out = append(out, &a)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r areaRepo) Update(_ context.Context, a *entity.Area) error {
	return r.v.write(func(st *state) error {
		cur, ok := st.areas[a.ID]
		if !ok {
			return domain.NotFound("área", a.ID)
		}
		for _, other := range st.areas {
			if other.ID == a.ID {
				continue
			}
			if other.Reference == a.Reference || (other.StoragePointID == cur.StoragePointID && other.Title == a.Title) {
				return fmt.Errorf("área %q (%s) duplicada: %w", a.Title, a.Reference, domain.ErrInvalidInput)
			}
		}
		cur.Reference, cur.Title, cur.Surface, cur.Volume, cur.IsVirtual, cur.UpdatedAt = a.Reference, a.Title, a.Surface, a.Volume, a.IsVirtual, a.UpdatedAt
		st.areas[a.ID] = cur
		return nil
	})
}

func (r areaRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(st *state) error {
		delete(st.areas, id)
		return nil
	})
}

// ── Locations ─────────────────────────────────────────────────────────────────

type locationRepo struct{ v view }

func copyLocation(l entity.Location) *entity.Location {
	l.StockValue = append([]entity.CurrencyAmount(nil), l.StockValue...)
	return &l
}

func (r locationRepo) Create(_ context.Context, l *entity.Location) error {
	return r.v.write(func(st *state) error {
		for _, other := range st.locations {
			if other.Reference == l.Reference || other.Barcode == l.Barcode {
				return fmt.Errorf("ubicación %q duplicada: %w", l.Reference, domain.ErrInvalidInput)
			}
		}
		st.locations[l.ID] = *copyLocation(*l)
		return nil
	})
}

func (r locationRepo) GetByID(_ context.Context, id string) (out *entity.Location, err error) {
	r.v.read(func(st *state) {
		if l, ok := st.locations[id]; ok {
			out = copyLocation(l)
		}
	})
	return out, nil
}

func (r locationRepo) GetByBarcode(_ context.Context, barcode string) (out *entity.Location, err error) {
	r.v.read(func(st *state) {
		for _, l := range st.locations {
			if l.Barcode == barcode {
				out = copyLocation(l)
				return
			}
		}
	})
	return out, nil
}

func (r locationRepo) Update(_ context.Context, l *entity.Location) error {
	return r.v.write(func(st *state) error {
		cur, ok := st.locations[l.ID]
		if !ok {
			return domain.NotFound("ubicación", l.ID)
		}
		for _, other := range st.locations {
			if other.ID != l.ID && (other.Reference == l.Reference || other.Barcode == l.Barcode) {
				return fmt.Errorf("referencia o código de barras en uso: %w", domain.ErrInvalidInput)
			}
		}
		cur.Reference, cur.Barcode, cur.Name, cur.UpdatedAt = l.Reference, l.Barcode, l.Name, l.UpdatedAt
		st.locations[l.ID] = cur
		return nil
	})
}

func (r locationRepo) Ancestors(_ context.Context, loc *entity.Location) (out []*entity.Location, err error) {
	r.v.read(func(st *state) {
		for _, id := range inventory.AncestorIDs(loc.Path) {
			if l, ok := st.locations[id]; ok {
				out = append(out, copyLocation(l))
			}
		}
	})
	return out, nil
}

func (r locationRepo) Descendants(_ context.Context, loc *entity.Location) (out []*entity.Location, err error) {
	r.v.read(func(st *state) {
		for _, l := range st.locations {
			if inventory.IsWithin(l.Path, loc.Path) {
				out = append(out, copyLocation(l))
			}
		}
	})
	return out, nil
}

func forest(st *state, areaID string) []entity.Location {
	var roots []string
	for _, l := range st.locations {
		if l.AreaID == areaID {
			roots = append(roots, l.Path)
		}
	}
	var out []entity.Location
	for _, l := range st.locations {
		for _, root := range roots {
			if inventory.IsWithin(l.Path, root) {
				out = append(out, l)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Depth != out[j].Depth {
			return out[i].Depth < out[j].Depth
		}
		return out[i].Reference < out[j].Reference
	})
	return out
}

func (r locationRepo) ListByArea(_ context.Context, areaID string) (out []*entity.Location, err error) {
	r.v.read(func(st *state) {
		for _, l := range forest(st, areaID) {
			out = append(out, copyLocation(l))
		}
	})
	return out, nil
}

func (r locationRepo) FindAnchor(_ context.Context, areaID, defaultType string) (out *entity.Location, err error) {
	r.v.read(func(st *state) {
		for _, l := range forest(st, areaID) {
			if l.DefaultType == defaultType {
				out = copyLocation(l)
				return
			}
		}
	})
	return out, nil
}

func (r locationRepo) LockForUpdate(_ context.Context, ids []string) (out []*entity.Location, err error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	r.v.read(func(st *state) {
		for _, id := range sorted {
			if l, ok := st.locations[id]; ok {
				out = append(out, copyLocation(l))
			}
		}
	})
	return out, nil
}

func (r locationRepo) AdjustTotalItems(_ context.Context, ids []string, delta int) error {
	return r.v.write(func(st *state) error {
		for _, id := range ids {
			l, ok := st.locations[id]
			if !ok {
				return fmt.Errorf("ubicación %s no existe: %w", id, domain.ErrConflict)
			}
			if l.TotalItems+delta < 0 {
				return fmt.Errorf("total_items negativo en %s: %w", l.Reference, domain.ErrConflict)
			}
		}
		for _, id := range ids {
			l := st.locations[id]
			l.TotalItems += delta
			st.locations[id] = l
		}
		return nil
	})
}

func (r locationRepo) AddStockValue(_ context.Context, ids []string, currency string, delta decimal.Decimal) error {
	return r.v.write(func(st *state) error {
		for _, id := range ids {
			l, ok := st.locations[id]
			if !ok {
				return fmt.Errorf("ubicación %s no existe: %w", id, domain.ErrConflict)
			}
			l.StockValue = inventory.AddAmount(l.StockValue, currency, delta)
			st.locations[id] = l
		}
		return nil
	})
}

func (r locationRepo) DeleteByArea(_ context.Context, areaID string) error {
	return r.v.write(func(st *state) error {
		for _, l := range forest(st, areaID) {
			delete(st.locations, l.ID)
		}
		return nil
	})
}

// ── Product items ─────────────────────────────────────────────────────────────

type itemRepo struct{ v view }

func (r itemRepo) Create(_ context.Context, it *entity.ProductItem) error {
	return r.v.write(func(st *state) error {
		for _, other := range st.items {
			if other.Reference == it.Reference || other.Barcode == it.Barcode {
				return fmt.Errorf("ítem %q duplicado: %w", it.Barcode, domain.ErrInvalidInput)
			}
		}
		st.items[it.ID] = *it
		return nil
	})
}

func (r itemRepo) GetByID(_ context.Context, id string) (out *entity.ProductItem, err error) {
	r.v.read(func(st *state) {
		if it, ok := st.items[id]; ok {
			out = &it
		}
	})
	return out, nil
}

func (r itemRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductItem, error) {
	return r.GetByID(ctx, id)
}

func (r itemRepo) Update(_ context.Context, it *entity.ProductItem) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.items[it.ID]; !ok {
			return domain.NotFound("ítem", it.ID)
		}
		st.items[it.ID] = *it
		return nil
	})
}

func (r itemRepo) ListByLocationForUpdate(_ context.Context, locationID string) (out []*entity.ProductItem, err error) {
	r.v.read(func(st *state) {
		for _, it := range st.items {
			if it.LocationID == locationID {
				it := it
				out = append(out, &it)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r itemRepo) CountByVariant(_ context.Context, variantID string) (n int, err error) {
	r.v.read(func(st *state) {
		for _, it := range st.items {
			if it.VariantID == variantID {
				n++
			}
		}
	})
	return n, nil
}

// ── Stock movements ───────────────────────────────────────────────────────────

type movementRepo struct{ v view }

func (r movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.v.write(func(st *state) error {
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r movementRepo) GetByID(_ context.Context, id string) (out *entity.StockMovement, err error) {
	r.v.read(func(st *state) {
		for _, m := range st.movements {
			if m.ID == id {
				m := m
				out = &m
				return
			}
		}
	})
	return out, nil
}

func (r movementRepo) List(_ context.Context, f repository.MovementFilter) (out []*entity.StockMovement, err error) {
	r.v.read(func(st *state) {
		// recorrido inverso: más reciente primero, desempate por orden de inserción
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if matches(m, f) {
				out = append(out, &m)
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func matches(m entity.StockMovement, f repository.MovementFilter) bool {
	switch {
	case f.MovementType != "" && m.MovementType != f.MovementType:
		return false
	case f.TriggerType != "" && m.TriggerType != f.TriggerType:
		return false
	case f.TriggeredBy != "" && !strings.EqualFold(m.TriggeredBy, f.TriggeredBy):
		return false
	case f.ProductItemID != "" && m.ProductItemID != f.ProductItemID:
		return false
	case f.LocationID != "" && m.Source.ID != f.LocationID && m.Target.ID != f.LocationID:
		return false
	}
	return true
}

// ── Products ──────────────────────────────────────────────────────────────────

type productRepo struct{ v view }

func (r productRepo) CreateProduct(_ context.Context, p *entity.Product) error {
	return r.v.write(func(st *state) error {
		st.products[p.ID] = *p
		return nil
	})
}

func (r productRepo) CreateVariant(_ context.Context, v *entity.ProductVariant) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.products[v.ProductID]; !ok {
			return domain.NotFound("producto", v.ProductID)
		}
		st.variants[v.ID] = *v
		return nil
	})
}

func (r productRepo) GetProduct(_ context.Context, id string) (out *entity.Product, err error) {
	r.v.read(func(st *state) {
		if p, ok := st.products[id]; ok {
			out = &p
		}
	})
	return out, nil
}

func (r productRepo) GetVariant(_ context.Context, id string) (out *entity.ProductVariant, err error) {
	r.v.read(func(st *state) {
		if v, ok := st.variants[id]; ok {
			out = &v
		}
	})
	return out, nil
}

func (r productRepo) GetVariantForUpdate(ctx context.Context, id string) (*entity.ProductVariant, error) {
	return r.GetVariant(ctx, id)
}

func (r productRepo) GetProductForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetProduct(ctx, id)
}

func (r productRepo) UpdateVariantQuantity(_ context.Context, variantID string, q entity.ProductQuantity) error {
	return r.v.write(func(st *state) error {
		v, ok := st.variants[variantID]
		if !ok {
			return domain.NotFound("variante", variantID)
		}
		v.Quantity = q
		st.variants[variantID] = v
		return nil
	})
}

func (r productRepo) UpdateProductQuantity(_ context.Context, productID string, q entity.ProductQuantity) error {
	return r.v.write(func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return domain.NotFound("producto", productID)
		}
		p.Quantity = q
		st.products[productID] = p
		return nil
	})
}

// ── Investigations ────────────────────────────────────────────────────────────

type investigationRepo struct{ v view }

func (r investigationRepo) Create(_ context.Context, inv *entity.Investigation) error {
	return r.v.write(func(st *state) error {
		st.investigations[inv.ID] = *inv
		return nil
	})
}

func (r investigationRepo) GetByID(_ context.Context, id string) (out *entity.Investigation, err error) {
	r.v.read(func(st *state) {
		if inv, ok := st.investigations[id]; ok {
			out = &inv
		}
	})
	return out, nil
}

func (r investigationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Investigation, error) {
	return r.GetByID(ctx, id)
}

func (r investigationRepo) Update(_ context.Context, inv *entity.Investigation) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.investigations[inv.ID]; !ok {
			return domain.NotFound("investigación", inv.ID)
		}
		st.investigations[inv.ID] = *inv
		return nil
	})
}

// ── Receptions ────────────────────────────────────────────────────────────────

type receptionRepo struct{ v view }

func (r receptionRepo) Create(_ context.Context, rec *entity.Reception) error {
	return r.v.write(func(st *state) error {
		st.receptions[rec.ID] = *rec
		return nil
	})
}

func (r receptionRepo) CreateLine(_ context.Context, line *entity.VariantReception) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.receptions[line.ReceptionID]; !ok {
			return domain.NotFound("recepción", line.ReceptionID)
		}
		st.lines = append(st.lines, *line)
		return nil
	})
}

func (r receptionRepo) GetByID(_ context.Context, id string) (out *entity.Reception, err error) {
	r.v.read(func(st *state) {
		if rec, ok := st.receptions[id]; ok {
			out = &rec
		}
	})
	return out, nil
}

func (r receptionRepo) GetForUpdate(ctx context.Context, id string) (*entity.Reception, error) {
	return r.GetByID(ctx, id)
}

func (r receptionRepo) Update(_ context.Context, rec *entity.Reception) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.receptions[rec.ID]; !ok {
			return domain.NotFound("recepción", rec.ID)
		}
		st.receptions[rec.ID] = *rec
		return nil
	})
}

func (r receptionRepo) ListLines(_ context.Context, receptionID string) (out []*entity.VariantReception, err error) {
	r.v.read(func(st *state) {
		for _, l := range st.lines {
			if l.ReceptionID == receptionID {
				l := l
				out = append(out, &l)
			}
		}
	})
	return out, nil
}
