package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Inventario-wms/internal/domain"
	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
	"github.com/jhoicas/Inventario-wms/internal/domain/inventory"
)

func pos(state, status string) inventory.Position {
	return inventory.Position{State: state, Status: status}
}

func TestCanTransition_Permitidas(t *testing.T) {
	cases := []struct {
		name     string
		from, to inventory.Position
	}{
		{"guardado tras recepción", pos(entity.ItemStatePendingReception, entity.ItemStatusToStore), pos(entity.ItemStateAvailable, entity.ItemStatusInStock)},
		{"recogida para transferencia", pos(entity.ItemStateAvailable, entity.ItemStatusInStock), pos(entity.ItemStateReserved, entity.ItemStatusPickedUp)},
		{"apertura de investigación", pos(entity.ItemStateAvailable, entity.ItemStatusInStock), pos(entity.ItemStatePendingInvestigation, entity.ItemStatusInStock)},
		{"cierre CLOSED", pos(entity.ItemStatePendingInvestigation, entity.ItemStatusInStock), pos(entity.ItemStateLost, entity.ItemStatusLosted)},
		{"cierre SOLVED desde cualquier status", pos(entity.ItemStatePendingInvestigation, entity.ItemStatusPickedUp), pos(entity.ItemStatePendingReception, entity.ItemStatusToStore)},
		{"reubicación pura", pos(entity.ItemStateLost, entity.ItemStatusLosted), pos(entity.ItemStateLost, entity.ItemStatusLosted)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, inventory.CanTransition(tc.from, tc.to))
			assert.NoError(t, inventory.ValidateTransition(tc.from, tc.to))
		})
	}
}

func TestCanTransition_Prohibidas(t *testing.T) {
	cases := []struct {
		name     string
		from, to inventory.Position
	}{
		{"recepción directa a reservado", pos(entity.ItemStatePendingReception, entity.ItemStatusToStore), pos(entity.ItemStateReserved, entity.ItemStatusPickedUp)},
		{"perdido a disponible", pos(entity.ItemStateLost, entity.ItemStatusLosted), pos(entity.ItemStateAvailable, entity.ItemStatusInStock)},
		{"entregado a disponible", pos(entity.ItemStateDelivered, entity.ItemStatusShipped), pos(entity.ItemStateAvailable, entity.ItemStatusInStock)},
		{"estado desconocido", pos("UNKNOWN", entity.ItemStatusInStock), pos(entity.ItemStateAvailable, entity.ItemStatusInStock)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, inventory.CanTransition(tc.from, tc.to))
			assert.ErrorIs(t, inventory.ValidateTransition(tc.from, tc.to), domain.ErrInvalidOperation)
		})
	}
}

func TestPositionOf(t *testing.T) {
	item := &entity.ProductItem{State: entity.ItemStateAvailable, Status: entity.ItemStatusInStock}
	p := inventory.PositionOf(item)
	assert.Equal(t, pos(entity.ItemStateAvailable, entity.ItemStatusInStock), p)
	assert.Equal(t, "AVAILABLE/IN_STOCK", p.String())
}
