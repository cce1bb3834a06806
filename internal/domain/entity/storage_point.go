package entity

import "time"

// Estados de un punto de almacenamiento.
const (
	StoragePointOpen   = "OPEN"
	StoragePointClosed = "CLOSED"
)

// StoragePoint representa un almacén o sitio físico. Agrupa áreas.
type StoragePoint struct {
	ID        string
	Reference string
	Name      string
	Status    string // OPEN, CLOSED
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
