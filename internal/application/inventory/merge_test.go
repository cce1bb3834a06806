package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-wms/internal/application/inventory"
	"github.com/jhoicas/Inventario-wms/internal/domain"
	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
)

// mergeSetup dos ítems en los estantes del área origen y un área destino con una raíz.
type mergeSetup struct {
	itemA, itemB *entity.ProductItem
	target       *entity.Area
	targetRoot   *entity.Location
}

func (f *fixture) mergeSetup(t *testing.T) mergeSetup {
	t.Helper()
	m := mergeSetup{
		itemA:  f.stocked(t, 5, f.shelfA.ID),
		itemB:  f.stocked(t, 8, f.shelfB.ID),
		target: f.newArea(t, "Zona B"),
	}
	m.targetRoot = f.newLocation(t, inventory.LocationInput{AreaID: m.target.ID, Reference: "B-1", Name: "Rack B1"})
	return m
}

func TestMergeAreas_MueveYEliminaOrigen(t *testing.T) {
	f := newFixture(t)
	m := f.mergeSetup(t)

	res, err := f.merge.MergeAreas(f.ctx, inventory.MergeInput{
		SourceAreaID: f.area.ID,
		TargetAreaID: m.target.ID,
		Mappings: []inventory.LocationMapping{
			{SourceLocationID: f.shelfA.ID, TargetLocationID: m.targetRoot.ID},
			{SourceLocationID: f.shelfB.ID, TargetLocationID: m.targetRoot.ID},
		},
		Principal: f.operator,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.MovedItems)
	require.Len(t, res.Movements, 2, "un movimiento por ítem")
	for _, mov := range res.Movements {
		assert.Equal(t, entity.TriggeredByAreaMerge, mov.TriggeredBy)
		assert.Equal(t, entity.TriggerTypeAuto, mov.TriggerType)
		assert.Equal(t, m.targetRoot.ID, mov.Target.ID)
	}

	root := f.location(t, m.targetRoot.ID)
	assert.Equal(t, 2, root.TotalItems)
	assert.True(t, usd(root.StockValue).Equal(decimal.NewFromInt(13)))
	assert.Equal(t, m.targetRoot.ID, f.item(t, m.itemA.ID).LocationID)
	assert.Equal(t, m.targetRoot.ID, f.item(t, m.itemB.ID).LocationID)
	assert.Equal(t, entity.ItemStateAvailable, f.item(t, m.itemA.ID).State, "la fusión no cambia la posición")

	area, err := f.repos.Areas.GetByID(f.ctx, f.area.ID)
	require.NoError(t, err)
	assert.Nil(t, area, "área origen eliminada")
	for _, id := range []string{f.rack.ID, f.shelfA.ID, f.shelfB.ID} {
		loc, err := f.repos.Locations.GetByID(f.ctx, id)
		require.NoError(t, err)
		assert.Nil(t, loc)
	}
	assert.Equal(t, 2, f.variantQty(t).Available, "la cantidad no cambia")
	f.requireConserved(t)
	f.requireLocationCounters(t)
}

func TestMergeAreas_NuevaUbicacion(t *testing.T) {
	f := newFixture(t)
	m := f.mergeSetup(t)

	res, err := f.merge.MergeAreas(f.ctx, inventory.MergeInput{
		SourceAreaID: f.area.ID,
		TargetAreaID: m.target.ID,
		Mappings: []inventory.LocationMapping{
			{SourceLocationID: f.shelfA.ID, TargetLocationID: m.targetRoot.ID},
			{SourceLocationID: f.shelfB.ID, NewLocation: &inventory.LocationInput{ParentID: m.targetRoot.ID, Reference: "B-1-A", Name: "Estante B1-A"}},
		},
		Principal: f.operator,
	})
	require.NoError(t, err)
	require.Len(t, res.CreatedLocations, 1)
	created := res.CreatedLocations[0]
	assert.Equal(t, m.targetRoot.ID, created.ParentID)
	assert.Equal(t, 1, created.Depth)

	assert.Equal(t, created.ID, f.item(t, m.itemB.ID).LocationID)
	assert.Equal(t, 1, f.location(t, created.ID).TotalItems)
	assert.Equal(t, 2, f.location(t, m.targetRoot.ID).TotalItems, "la raíz cuenta al descendiente nuevo")
}

func TestMergeAreas_UbicacionSinMapeoNoModifica(t *testing.T) {
	f := newFixture(t)
	m := f.mergeSetup(t)

	_, err := f.merge.MergeAreas(f.ctx, inventory.MergeInput{
		SourceAreaID: f.area.ID,
		TargetAreaID: m.target.ID,
		Mappings:     []inventory.LocationMapping{{SourceLocationID: f.shelfA.ID, TargetLocationID: m.targetRoot.ID}},
		Principal:    f.operator,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)

	assert.Equal(t, f.shelfA.ID, f.item(t, m.itemA.ID).LocationID)
	assert.Equal(t, 0, f.location(t, m.targetRoot.ID).TotalItems)
	assert.Len(t, f.movements(t, m.itemA.ID), 2)
	area, err := f.repos.Areas.GetByID(f.ctx, f.area.ID)
	require.NoError(t, err)
	assert.NotNil(t, area)
}

func TestMergeAreas_RollbackAlFallarNuevaUbicacion(t *testing.T) {
	f := newFixture(t)
	m := f.mergeSetup(t)

	_, err := f.merge.MergeAreas(f.ctx, inventory.MergeInput{
		SourceAreaID: f.area.ID,
		TargetAreaID: m.target.ID,
		Mappings: []inventory.LocationMapping{
			{SourceLocationID: f.shelfA.ID, TargetLocationID: m.targetRoot.ID},
			// el código de barras ya existe: falla después de mover el primer ítem
			{SourceLocationID: f.shelfB.ID, NewLocation: &inventory.LocationInput{Reference: "B-2", Barcode: "RACK-1", Name: "Rack B2"}},
		},
		Principal: f.operator,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.Equal(t, f.shelfA.ID, f.item(t, m.itemA.ID).LocationID, "el primer movimiento se revierte")
	assert.Equal(t, 1, f.location(t, f.shelfA.ID).TotalItems)
	assert.Equal(t, 2, f.location(t, f.rack.ID).TotalItems)
	assert.Equal(t, 0, f.location(t, m.targetRoot.ID).TotalItems)
	assert.Len(t, f.movements(t, m.itemA.ID), 2)

	forest, err := f.repos.Locations.ListByArea(f.ctx, m.target.ID)
	require.NoError(t, err)
	assert.Len(t, forest, 1, "no se crea la ubicación nueva")
}

func TestMergeAreas_Rechazos(t *testing.T) {
	f := newFixture(t)
	m := f.mergeSetup(t)
	deadStock := f.anchor(t, entity.DefaultTypeDeadStock, entity.DefaultTypeDeadStock)

	cases := []struct {
		name string
		in   inventory.MergeInput
		want error
	}{
		{"área DEFAULT", inventory.MergeInput{SourceAreaID: deadStock.AreaID, TargetAreaID: m.target.ID}, domain.ErrInvalidOperation},
		{"misma área", inventory.MergeInput{SourceAreaID: f.area.ID, TargetAreaID: f.area.ID}, domain.ErrInvalidOperation},
		{"área inexistente", inventory.MergeInput{SourceAreaID: "missing", TargetAreaID: m.target.ID}, domain.ErrNotFound},
		{"mapeo sin destino", inventory.MergeInput{
			SourceAreaID: f.area.ID, TargetAreaID: m.target.ID,
			Mappings: []inventory.LocationMapping{{SourceLocationID: f.shelfA.ID}},
		}, domain.ErrInvalidInput},
		{"destino fuera del área destino", inventory.MergeInput{
			SourceAreaID: f.area.ID, TargetAreaID: m.target.ID,
			Mappings: []inventory.LocationMapping{
				{SourceLocationID: f.shelfA.ID, TargetLocationID: f.shelfB.ID},
				{SourceLocationID: f.shelfB.ID, TargetLocationID: m.targetRoot.ID},
			},
		}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.Principal = f.operator
			_, err := f.merge.MergeAreas(f.ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Equal(t, f.shelfA.ID, f.item(t, m.itemA.ID).LocationID)
}

func TestMergeAreas_AreaVacia(t *testing.T) {
	f := newFixture(t)
	empty := f.newArea(t, "Zona vacía")
	f.newLocation(t, inventory.LocationInput{AreaID: empty.ID, Reference: "V-1"})

	res, err := f.merge.MergeAreas(f.ctx, inventory.MergeInput{SourceAreaID: empty.ID, TargetAreaID: f.area.ID, Principal: f.operator})
	require.NoError(t, err)
	assert.Zero(t, res.MovedItems)
	area, err := f.repos.Areas.GetByID(f.ctx, empty.ID)
	require.NoError(t, err)
	assert.Nil(t, area)
}
