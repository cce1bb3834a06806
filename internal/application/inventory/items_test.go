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

func TestReceiveItem_EntradaSinOrigen(t *testing.T) {
	f := newFixture(t)
	item := f.receive(t, 10)

	reception := f.anchor(t, entity.DefaultTypeReception, entity.DefaultTypeReception)
	assert.Equal(t, reception.ID, item.LocationID)
	assert.Equal(t, entity.ItemStatePendingReception, item.State)
	assert.Equal(t, entity.ItemStatusToStore, item.Status)
	assert.Equal(t, entity.ContextReception, item.Context.Kind)
	assert.Equal(t, "sup-1", item.SupplierID)

	assert.Equal(t, 1, reception.TotalItems)
	assert.True(t, usd(reception.StockValue).Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 1, f.variantQty(t).PendingReception)
	assert.Equal(t, 1, f.productQty(t).PendingReception)

	movs := f.movements(t, item.ID)
	require.Len(t, movs, 1)
	assert.True(t, movs[0].Source.IsZero(), "la entrada no tiene origen")
	assert.Equal(t, entity.TriggeredByReception, movs[0].TriggeredBy)
	assert.Equal(t, entity.MovementTypeExternal, movs[0].MovementType)
	assert.Equal(t, item.Context, movs[0].Context)
	f.requireConserved(t)
	f.requireLocationCounters(t)
}

func TestReceiveItem_Validaciones(t *testing.T) {
	f := newFixture(t)
	rec, err := f.items.OpenReception(f.ctx, f.sp.ID, "", "", f.operator)
	require.NoError(t, err)

	_, err = f.items.ReceiveItem(f.ctx, inventory.ReceiveInput{
		ReceptionID: rec.ID, VariantID: f.variant.ID, PurchaseCost: decimal.NewFromInt(-1), Currency: "USD", Principal: f.operator,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "costo negativo")

	_, err = f.items.ReceiveItem(f.ctx, inventory.ReceiveInput{
		ReceptionID: rec.ID, VariantID: f.variant.ID, PurchaseCost: decimal.NewFromInt(5), Principal: f.operator,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "costo sin moneda")

	_, err = f.items.ReceiveItem(f.ctx, inventory.ReceiveInput{
		ReceptionID: rec.ID, VariantID: "missing", Principal: f.operator,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestValidateReception(t *testing.T) {
	f := newFixture(t)
	empty, err := f.items.OpenReception(f.ctx, f.sp.ID, "", "", f.operator)
	require.NoError(t, err)
	_, err = f.items.ValidateReception(f.ctx, empty.ID, f.operator)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation, "sin líneas no se valida")

	item := f.receive(t, 0)
	validated, err := f.items.ValidateReception(f.ctx, item.Context.ID, f.operator)
	require.NoError(t, err)
	assert.Equal(t, entity.ReceptionValidated, validated.Status)
	require.NotNil(t, validated.ValidatedAt)

	_, err = f.items.ReceiveItem(f.ctx, inventory.ReceiveInput{ReceptionID: validated.ID, VariantID: f.variant.ID, Principal: f.operator})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation, "recepción validada no admite más ítems")
}

func TestStoreItem_ContadoresEnCadena(t *testing.T) {
	f := newFixture(t)
	item := f.stocked(t, 10, f.shelfA.ID)

	assert.Equal(t, entity.ItemStateAvailable, item.State)
	assert.Equal(t, entity.ItemStatusInStock, item.Status)
	assert.True(t, item.Context.IsZero(), "el guardado cierra el flujo de recepción")

	reception := f.anchor(t, entity.DefaultTypeReception, entity.DefaultTypeReception)
	assert.Equal(t, 0, reception.TotalItems)
	assert.True(t, usd(reception.StockValue).IsZero())
	assert.Equal(t, 1, f.location(t, f.shelfA.ID).TotalItems)
	assert.Equal(t, 1, f.location(t, f.rack.ID).TotalItems, "el ancestro cuenta al descendiente")
	assert.True(t, usd(f.location(t, f.rack.ID).StockValue).Equal(decimal.NewFromInt(10)))

	q := f.variantQty(t)
	assert.Equal(t, 1, q.Available)
	assert.Equal(t, 0, q.PendingReception)

	movs := f.movements(t, item.ID)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.TriggeredByStorage, movs[0].TriggeredBy, "más reciente primero")
	assert.Equal(t, entity.MovementTypeInternal, movs[0].MovementType)
	assert.Equal(t, reception.ID, movs[0].Source.ID)
	assert.Equal(t, f.shelfA.ID, movs[0].Target.ID)
	assert.Equal(t, entity.ItemStatePendingReception, movs[0].FromState)
	assert.Equal(t, entity.ItemStateAvailable, movs[0].ToState)
	f.requireConserved(t)
	f.requireLocationCounters(t)
}

func TestStoreItem_OtroPuntoDeAlmacenamiento(t *testing.T) {
	f := newFixture(t)
	other, err := f.locations.ProvisionStoragePoint(f.ctx, "SP2", "Bodega 2", "", f.admin)
	require.NoError(t, err)
	otherArea, err := f.locations.CreateArea(f.ctx, other.ID, inventory.AreaInput{Title: "Zona B"}, f.admin)
	require.NoError(t, err)
	otherLoc := f.newLocation(t, inventory.LocationInput{AreaID: otherArea.ID, Reference: "SP2-R1", Name: "Rack"})

	item := f.receive(t, 1)
	_, err = f.items.StoreItem(f.ctx, item.ID, otherLoc.ID, f.admin)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestMoveItem_EntreHermanosNoTocaAncestroComun(t *testing.T) {
	f := newFixture(t)
	item := f.stocked(t, 7, f.shelfA.ID)

	mov, err := f.items.MoveItem(f.ctx, inventory.MoveInput{ItemID: item.ID, TargetLocationID: f.shelfB.ID, Principal: f.operator})
	require.NoError(t, err)
	require.NotNil(t, mov)
	assert.Equal(t, entity.TriggeredByManualMove, mov.TriggeredBy)
	assert.Equal(t, entity.TriggerTypeManual, mov.TriggerType)

	assert.Equal(t, 0, f.location(t, f.shelfA.ID).TotalItems)
	assert.Equal(t, 1, f.location(t, f.shelfB.ID).TotalItems)
	assert.Equal(t, 1, f.location(t, f.rack.ID).TotalItems)
	assert.True(t, usd(f.location(t, f.shelfA.ID).StockValue).IsZero())
	assert.True(t, usd(f.location(t, f.shelfB.ID).StockValue).Equal(decimal.NewFromInt(7)))
	assert.True(t, usd(f.location(t, f.rack.ID).StockValue).Equal(decimal.NewFromInt(7)))
	assert.Equal(t, f.shelfB.ID, f.item(t, item.ID).LocationID)
}

func TestMoveItem_MismaUbicacion(t *testing.T) {
	f := newFixture(t)
	item := f.stocked(t, 1, f.shelfA.ID)

	_, err := f.items.MoveItem(f.ctx, inventory.MoveInput{ItemID: item.ID, TargetLocationID: f.shelfA.ID, Principal: f.operator})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestMoveItem_TransicionProhibidaNoModifica(t *testing.T) {
	f := newFixture(t)
	item := f.stocked(t, 1, f.shelfA.ID)
	before := len(f.movements(t, item.ID))

	_, err := f.items.MoveItem(f.ctx, inventory.MoveInput{
		ItemID:           item.ID,
		TargetLocationID: f.shelfB.ID,
		State:            entity.ItemStateDelivered,
		Status:           entity.ItemStatusShipped,
		Principal:        f.operator,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.Equal(t, f.shelfA.ID, f.item(t, item.ID).LocationID)
	assert.Len(t, f.movements(t, item.ID), before)
	assert.Equal(t, 1, f.variantQty(t).Available)
}

func TestMoveItem_SinAutoridad(t *testing.T) {
	f := newFixture(t)
	item := f.stocked(t, 1, f.shelfA.ID)
	stranger := entity.Principal{UserID: "u-x", Roles: []string{entity.RoleBodeguero}, StoragePointIDs: []string{"otro"}}

	_, err := f.items.MoveItem(f.ctx, inventory.MoveInput{ItemID: item.ID, TargetLocationID: f.shelfB.ID, Principal: stranger})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.items.MoveItem(f.ctx, inventory.MoveInput{ItemID: item.ID, TargetLocationID: f.shelfB.ID})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "sin principal")
	assert.Equal(t, f.shelfA.ID, f.item(t, item.ID).LocationID)
}

func TestMoveItem_FlujoActivoSoloLoMueveSuDueno(t *testing.T) {
	f := newFixture(t)

	investigated := f.stocked(t, 5, f.shelfA.ID)
	inv, err := f.investigations.OpenInvestigation(f.ctx, investigated.ID, "no aparece en conteo", f.operator)
	require.NoError(t, err)
	anchor := f.anchor(t, entity.DefaultTypeDeadStock, entity.DefaultTypeInvestigation)

	_, err = f.items.MoveItem(f.ctx, inventory.MoveInput{
		ItemID:           investigated.ID,
		TargetLocationID: f.shelfB.ID,
		State:            entity.ItemStateLost,
		Status:           entity.ItemStatusLosted,
		Principal:        f.operator,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.Equal(t, anchor.ID, f.item(t, investigated.ID).LocationID)
	assert.Equal(t, entity.ItemStatePendingInvestigation, f.item(t, investigated.ID).State)

	// la investigación sigue pudiendo cerrarse
	closed, err := f.investigations.CloseInvestigation(f.ctx, inventory.CloseInput{
		InvestigationID: inv.ID, Status: entity.InvestigationClosed, Comment: "no apareció", Principal: f.operator,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.InvestigationClosed, closed.Investigation.Status)

	truck := f.newLocation(t, inventory.LocationInput{AreaID: f.newArea(t, "Unidades móviles").ID, Reference: "TRUCK-1", Name: "Camión 1"})
	picked := f.stocked(t, 3, f.shelfA.ID)
	_, err = f.items.PickForTransfer(f.ctx, picked.ID, "TRF-1", truck.ID, f.operator)
	require.NoError(t, err)

	_, err = f.items.MoveItem(f.ctx, inventory.MoveInput{
		ItemID:           picked.ID,
		TargetLocationID: f.shelfB.ID,
		State:            entity.ItemStateAvailable,
		Status:           entity.ItemStatusInStock,
		Principal:        f.operator,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	still := f.item(t, picked.ID)
	assert.Equal(t, truck.ID, still.LocationID)
	assert.Equal(t, entity.ItemStateReserved, still.State)
	assert.Equal(t, entity.ItemContext{Kind: entity.ContextTransfer, ID: "TRF-1"}, still.Context)

	received := f.receive(t, 1)
	_, err = f.items.MoveItem(f.ctx, inventory.MoveInput{ItemID: received.ID, TargetLocationID: f.shelfB.ID, Principal: f.operator})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation, "la recepción se cierra con StoreItem")

	f.requireConserved(t)
	f.requireLocationCounters(t)
}

func TestTransfer_RecogerYRecibir(t *testing.T) {
	f := newFixture(t)
	item := f.stocked(t, 3, f.shelfA.ID)
	truck := f.newLocation(t, inventory.LocationInput{AreaID: f.newArea(t, "Unidades móviles").ID, Reference: "TRUCK-1", Name: "Camión 1"})

	picked, err := f.items.PickForTransfer(f.ctx, item.ID, "TRF-1", truck.ID, f.operator)
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStateReserved, picked.State)
	assert.Equal(t, entity.ItemStatusPickedUp, picked.Status)
	assert.Equal(t, entity.ItemContext{Kind: entity.ContextTransfer, ID: "TRF-1"}, picked.Context)
	assert.Equal(t, 1, f.variantQty(t).Reserved)
	assert.Equal(t, 1, f.location(t, truck.ID).TotalItems)

	_, err = f.items.PickForTransfer(f.ctx, item.ID, "TRF-2", f.shelfB.ID, f.operator)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation, "ya tiene un flujo activo")

	received, err := f.items.ReceiveTransfer(f.ctx, item.ID, f.shelfB.ID, f.operator)
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStateAvailable, received.State)
	assert.True(t, received.Context.IsZero())
	assert.Equal(t, 0, f.location(t, truck.ID).TotalItems)
	assert.Equal(t, 1, f.location(t, f.shelfB.ID).TotalItems)

	movs := f.movements(t, item.ID)
	require.Len(t, movs, 4)
	assert.Equal(t, entity.TriggeredByTransfer, movs[0].TriggeredBy)
	assert.Equal(t, "TRF-1", movs[0].Context.ID, "el movimiento referencia el traslado que lo causa")
	f.requireConserved(t)
	f.requireLocationCounters(t)
}

func TestReceiveTransfer_SinTraslado(t *testing.T) {
	f := newFixture(t)
	item := f.stocked(t, 1, f.shelfA.ID)

	_, err := f.items.ReceiveTransfer(f.ctx, item.ID, f.shelfB.ID, f.operator)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestLedger_ContadorNegativoEsConflicto(t *testing.T) {
	f := newFixture(t)
	item := f.stocked(t, 1, f.shelfA.ID)
	ledger := inventory.NewLedger()

	// el ítem dice estar en shelfB, que no tiene ítems: el débito dejaría total_items negativo
	ghost := *item
	ghost.LocationID = f.shelfB.ID
	err := f.store.Run(f.ctx, func(repos inventory.Repos) error {
		_, err := ledger.Record(f.ctx, repos, inventory.RecordInput{
			Item:         &ghost,
			SourceID:     f.shelfB.ID,
			TargetID:     f.shelfA.ID,
			MovementType: entity.MovementTypeInternal,
			TriggerType:  entity.TriggerTypeManual,
			TriggeredBy:  entity.TriggeredByManualMove,
			ToState:      ghost.State,
		})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 1, f.location(t, f.shelfA.ID).TotalItems, "sin efectos parciales")
	assert.Equal(t, 0, f.location(t, f.shelfB.ID).TotalItems)
}

func TestLedger_ValidaEntrada(t *testing.T) {
	f := newFixture(t)
	item := f.stocked(t, 1, f.shelfA.ID)
	ledger := inventory.NewLedger()

	err := f.store.Run(f.ctx, func(repos inventory.Repos) error {
		_, err := ledger.Record(f.ctx, repos, inventory.RecordInput{
			Item: item, SourceID: f.shelfA.ID, TargetID: f.shelfB.ID,
			MovementType: "SIDEWAYS", TriggerType: entity.TriggerTypeManual, TriggeredBy: entity.TriggeredByManualMove,
		})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
