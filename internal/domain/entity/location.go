package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Location es un nodo del árbol de ubicaciones de un área.
// Solo las raíces llevan AreaID; los nodos internos heredan el área por su cadena de ancestros.
// Path guarda los ids de ancestros y el propio: "/<raíz>/.../<id>/".
type Location struct {
	ID          string
	Reference   string
	Barcode     string
	Name        string
	AreaID      string // solo en raíces
	ParentID    string // vacío en raíces
	Path        string
	Depth       int
	DefaultType string // DEAD_STOCK, INVESTIGATION, EXPEDITION, RECEPTION o vacío
	TotalItems  int    // contador mantenido: ítems en el nodo o en sus descendientes
	StockValue  []CurrencyAmount
	IsVirtual   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsRoot indica si la ubicación cuelga directamente de un área.
func (l *Location) IsRoot() bool {
	return l.ParentID == ""
}

// IsDefault indica si la ubicación es un ancla del sistema.
func (l *Location) IsDefault() bool {
	return l.DefaultType != ""
}

// CurrencyAmount monto acumulado en una moneda.
type CurrencyAmount struct {
	Currency string
	Amount   decimal.Decimal
}

// LocationNode árbol anidado de ubicaciones (findDescendantsTree).
type LocationNode struct {
	Location *Location
	Children []*LocationNode
}
