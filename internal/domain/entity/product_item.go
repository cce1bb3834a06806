package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados físicos de un ProductItem.
const (
	ItemStateAvailable            = "AVAILABLE"
	ItemStateReserved             = "RESERVED"
	ItemStateInTransit            = "IN_TRANSIT"
	ItemStateDeliveryProcessing   = "DELIVERY_PROCESSING"
	ItemStateAwaitingSAV          = "AWAITING_SAV"
	ItemStateDelivered            = "DELIVERED"
	ItemStateGotOut               = "GOT_OUT"
	ItemStateDiscovered           = "DISCOVERED"
	ItemStatePendingInvestigation = "PENDING_INVESTIGATION"
	ItemStateLost                 = "LOST"
	ItemStateIsDead               = "IS_DEAD"
	ItemStatePendingReception     = "PENDING_RECEPTION"
)

// Posiciones de flujo (status) de un ProductItem.
const (
	ItemStatusInStock  = "IN_STOCK"
	ItemStatusToStore  = "TO_STORE"
	ItemStatusPickedUp = "PICKED_UP"
	ItemStatusPacked   = "PACKED"
	ItemStatusShipped  = "SHIPPED"
	ItemStatusLosted   = "LOSTED"
	ItemStatusGotOut   = "GOT_OUT"
)

// Tipos de contexto de flujo activo de un ProductItem.
const (
	ContextReception      = "RECEPTION"
	ContextOrder          = "ORDER"
	ContextTransfer       = "TRANSFER"
	ContextCustomerReturn = "CUSTOMER_RETURN"
	ContextSupplierReturn = "SUPPLIER_RETURN"
	ContextOtherOutput    = "OTHER_OUTPUT"
	ContextInvestigation  = "INVESTIGATION"
)

// ItemContext enlace al único flujo activo del ítem (unión etiquetada).
// El valor cero significa "sin flujo activo".
type ItemContext struct {
	Kind string
	ID   string
}

// IsZero indica si no hay flujo activo.
func (c ItemContext) IsZero() bool {
	return c.Kind == "" && c.ID == ""
}

// ProductItem unidad física rastreable de un ProductVariant.
// Nunca se borra: solo cambia de estado.
type ProductItem struct {
	ID           string
	Reference    string
	Barcode      string
	SerialNumber string
	VariantID    string
	ProductID    string
	SupplierID   string
	PurchaseCost decimal.Decimal
	Currency     string
	State        string
	Status       string
	LocationID   string
	Context      ItemContext
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UpdatedBy    string
}
