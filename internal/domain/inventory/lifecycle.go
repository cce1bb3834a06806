package inventory

import (
	"fmt"

	"github.com/jhoicas/Inventario-wms/internal/domain"
	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
)

// Position par (state, status) de un ProductItem.
type Position struct {
	State  string
	Status string
}

func (p Position) String() string {
	return p.State + "/" + p.Status
}

// PositionOf devuelve la posición actual del ítem.
func PositionOf(item *entity.ProductItem) Position {
	return Position{State: item.State, Status: item.Status}
}

const anyStatus = "*"

// transitions tabla de transiciones permitidas. Un status "*" en el origen acepta cualquier status.
var transitions = map[Position][]Position{
	{entity.ItemStatePendingReception, entity.ItemStatusToStore}: {
		{entity.ItemStateAvailable, entity.ItemStatusInStock},
	},
	{entity.ItemStateAvailable, entity.ItemStatusInStock}: {
		{entity.ItemStateReserved, entity.ItemStatusPickedUp},
		{entity.ItemStatePendingInvestigation, entity.ItemStatusInStock},
		{entity.ItemStateLost, entity.ItemStatusLosted},
		{entity.ItemStatePendingReception, entity.ItemStatusToStore},
		{entity.ItemStateIsDead, entity.ItemStatusInStock},
		{entity.ItemStateGotOut, entity.ItemStatusGotOut},
	},
	{entity.ItemStateReserved, entity.ItemStatusPickedUp}: {
		{entity.ItemStateAvailable, entity.ItemStatusInStock},
		{entity.ItemStateInTransit, entity.ItemStatusPickedUp},
		{entity.ItemStateDeliveryProcessing, entity.ItemStatusPacked},
	},
	{entity.ItemStateInTransit, entity.ItemStatusPickedUp}: {
		{entity.ItemStateAvailable, entity.ItemStatusInStock},
	},
	{entity.ItemStateDeliveryProcessing, entity.ItemStatusPacked}: {
		{entity.ItemStateDelivered, entity.ItemStatusShipped},
		{entity.ItemStateReserved, entity.ItemStatusPickedUp},
	},
	{entity.ItemStateDelivered, entity.ItemStatusShipped}: {
		{entity.ItemStateAwaitingSAV, entity.ItemStatusToStore},
	},
	{entity.ItemStatePendingInvestigation, anyStatus}: {
		{entity.ItemStateLost, entity.ItemStatusLosted},
		{entity.ItemStatePendingReception, entity.ItemStatusToStore},
	},
	{entity.ItemStateLost, entity.ItemStatusLosted}: {
		{entity.ItemStateDiscovered, entity.ItemStatusToStore},
	},
	{entity.ItemStateDiscovered, entity.ItemStatusToStore}: {
		{entity.ItemStatePendingReception, entity.ItemStatusToStore},
	},
}

// CanTransition indica si el paso from → to está permitido.
// Permanecer en la misma posición (reubicación pura) siempre está permitido.
func CanTransition(from, to Position) bool {
	if from == to {
		return true
	}
	for _, key := range []Position{from, {State: from.State, Status: anyStatus}} {
		for _, allowed := range transitions[key] {
			if allowed == to {
				return true
			}
		}
	}
	return false
}

// ValidateTransition devuelve ErrInvalidOperation si el paso no está permitido.
func ValidateTransition(from, to Position) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("transición %s -> %s: %w", from, to, domain.ErrInvalidOperation)
	}
	return nil
}
