package entity

import "time"

// Estados de una investigación. CLOSED y SOLVED son terminales.
const (
	InvestigationPending = "PENDING"
	InvestigationClosed  = "CLOSED" // pérdida confirmada
	InvestigationSolved  = "SOLVED" // ítem encontrado
)

// Investigation flujo que resuelve una discrepancia sobre un único ProductItem.
type Investigation struct {
	ID             string
	Reference      string
	ProductItemID  string
	StoragePointID string
	Status         string
	Comment        string
	OpenedBy       string
	ClosedBy       string
	ClosedAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsTerminal indica si la investigación ya fue cerrada.
func (i *Investigation) IsTerminal() bool {
	return i.Status == InvestigationClosed || i.Status == InvestigationSolved
}
