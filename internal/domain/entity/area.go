package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de área.
const (
	AreaTypeCustom  = "CUSTOM"
	AreaTypeDefault = "DEFAULT"
)

// Etiquetas de áreas y ubicaciones reservadas por el sistema (anclas).
const (
	DefaultTypeOutput        = "OUTPUT"
	DefaultTypeDeadStock     = "DEAD_STOCK"
	DefaultTypeInvestigation = "INVESTIGATION"
	DefaultTypeExpedition    = "EXPEDITION"
	DefaultTypeReception     = "RECEPTION"
)

// Area representa una zona dentro de un punto de almacenamiento.
// Las áreas DEFAULT son anclas del sistema: no se editan, eliminan ni fusionan.
type Area struct {
	ID             string
	StoragePointID string
	Reference      string
	Title          string // único dentro del punto de almacenamiento
	Type           string // CUSTOM, DEFAULT
	DefaultType    string // vacío si no es ancla
	Surface        decimal.Decimal
	Volume         decimal.Decimal
	IsVirtual      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsDefault indica si el área está reservada por el sistema.
func (a *Area) IsDefault() bool {
	return a.Type == AreaTypeDefault
}
