package inventory

import (
	"fmt"

	"github.com/jhoicas/Inventario-wms/internal/domain"
	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
)

// Property nombre de un contador de ProductQuantity.
type Property string

const (
	PropAvailable            Property = "available"
	PropReserved             Property = "reserved"
	PropInTransit            Property = "inTransit"
	PropDeliveryProcessing   Property = "deliveryProcessing"
	PropAwaitingSAV          Property = "awaitingSav"
	PropDelivered            Property = "delivered"
	PropGotOut               Property = "gotOut"
	PropDiscovered           Property = "discovered"
	PropPendingInvestigation Property = "pendingInvestigation"
	PropLost                 Property = "lost"
	PropIsDead               Property = "isDead"
	PropPendingReception     Property = "pendingReception"
)

var stateProperties = map[string]Property{
	entity.ItemStateAvailable:            PropAvailable,
	entity.ItemStateReserved:             PropReserved,
	entity.ItemStateInTransit:            PropInTransit,
	entity.ItemStateDeliveryProcessing:   PropDeliveryProcessing,
	entity.ItemStateAwaitingSAV:          PropAwaitingSAV,
	entity.ItemStateDelivered:            PropDelivered,
	entity.ItemStateGotOut:               PropGotOut,
	entity.ItemStateDiscovered:           PropDiscovered,
	entity.ItemStatePendingInvestigation: PropPendingInvestigation,
	entity.ItemStateLost:                 PropLost,
	entity.ItemStateIsDead:               PropIsDead,
	entity.ItemStatePendingReception:     PropPendingReception,
}

// StatePropertyOf devuelve el contador correspondiente a un estado de ítem.
func StatePropertyOf(state string) (Property, error) {
	p, ok := stateProperties[state]
	if !ok {
		return "", fmt.Errorf("estado %q sin contador: %w", state, domain.ErrInvalidInput)
	}
	return p, nil
}

func counter(q *entity.ProductQuantity, p Property) (*int, error) {
	switch p {
	case PropAvailable:
		return &q.Available, nil
	case PropReserved:
		return &q.Reserved, nil
	case PropInTransit:
		return &q.InTransit, nil
	case PropDeliveryProcessing:
		return &q.DeliveryProcessing, nil
	case PropAwaitingSAV:
		return &q.AwaitingSAV, nil
	case PropDelivered:
		return &q.Delivered, nil
	case PropGotOut:
		return &q.GotOut, nil
	case PropDiscovered:
		return &q.Discovered, nil
	case PropPendingInvestigation:
		return &q.PendingInvestigation, nil
	case PropLost:
		return &q.Lost, nil
	case PropIsDead:
		return &q.IsDead, nil
	case PropPendingReception:
		return &q.PendingReception, nil
	}
	return nil, fmt.Errorf("contador %q desconocido: %w", p, domain.ErrInvalidInput)
}

// Get devuelve el valor de un contador.
func Get(q entity.ProductQuantity, p Property) (int, error) {
	c, err := counter(&q, p)
	if err != nil {
		return 0, err
	}
	return *c, nil
}

// Move traslada qty unidades del contador from al contador to.
// Es la única forma de alterar contadores existentes: el par decremento/incremento es indivisible.
// q no se modifica si la operación falla.
func Move(q *entity.ProductQuantity, from, to Property, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("cantidad %d: %w", qty, domain.ErrInvalidInput)
	}
	if from == to {
		return fmt.Errorf("contador origen y destino iguales (%s): %w", from, domain.ErrInvalidOperation)
	}
	src, err := counter(q, from)
	if err != nil {
		return err
	}
	dst, err := counter(q, to)
	if err != nil {
		return err
	}
	if *src < qty {
		return fmt.Errorf("contador %s=%d insuficiente para mover %d: %w", from, *src, qty, domain.ErrConflict)
	}
	*src -= qty
	*dst += qty
	return nil
}

// Receive registra la transición inicial de un ítem nuevo: solo incrementa el contador destino.
// Solo admite los contadores de entrada (available, pendingReception).
func Receive(q *entity.ProductQuantity, to Property, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("cantidad %d: %w", qty, domain.ErrInvalidInput)
	}
	if to != PropAvailable && to != PropPendingReception {
		return fmt.Errorf("contador %s no admite entrada inicial: %w", to, domain.ErrInvalidOperation)
	}
	dst, err := counter(q, to)
	if err != nil {
		return err
	}
	*dst += qty
	return nil
}
