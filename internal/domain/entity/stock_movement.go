package entity

import "time"

// Tipos de movimiento.
const (
	MovementTypeInternal = "INTERNAL"
	MovementTypeExternal = "EXTERNAL"
)

// Tipos de disparo.
const (
	TriggerTypeAuto   = "AUTO"
	TriggerTypeManual = "MANUAL"
)

// Causas de negocio del movimiento (triggeredBy).
const (
	TriggeredByReception     = "RECEPTION"
	TriggeredByStorage       = "STORAGE"
	TriggeredByPickPack      = "PICK_PACK"
	TriggeredByInvestigation = "INVESTIGATION"
	TriggeredByInventory     = "INVENTORY"
	TriggeredByTransfer      = "TRANSFER"
	TriggeredByAreaMerge     = "AREA_MERGE"
	TriggeredByOrder         = "ORDER"
	TriggeredByOtherOutput   = "OTHER_OUTPUT"
	TriggeredByManualMove    = "MANUAL_MOVE"
)

// Tipo de extremo (origen/destino) de un movimiento.
const StockMovementAreaLocation = "LOCATION"

// MovementEndpoint extremo de un movimiento. Vacío cuando el ítem entra desde fuera.
type MovementEndpoint struct {
	Type string // LOCATION
	ID   string
}

// IsZero indica si el extremo no está definido.
func (e MovementEndpoint) IsZero() bool {
	return e.ID == ""
}

// StockMovement fila inmutable del libro de movimientos.
// Se crea una vez por movimiento; nunca se actualiza ni se elimina.
type StockMovement struct {
	ID            string
	Reference     string
	MovementType  string
	TriggerType   string
	TriggeredBy   string
	ProductItemID string
	Source        MovementEndpoint
	Target        MovementEndpoint
	FromState     string
	ToState       string
	Context       ItemContext // agregado causante (recepción, transferencia, investigación...)
	CreatedAt     time.Time
	CreatedBy     string
}
