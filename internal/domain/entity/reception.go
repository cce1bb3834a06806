package entity

import "time"

// Estados de una recepción.
const (
	ReceptionDraft     = "DRAFT"
	ReceptionValidated = "VALIDATED"
)

// Reception entrada de mercancía a un punto de almacenamiento.
type Reception struct {
	ID             string
	Reference      string
	StoragePointID string
	SupplierID     string
	Status         string
	Comment        string
	ValidatedAt    *time.Time
	ValidatedBy    string
	CreatedAt      time.Time
	CreatedBy      string
}

// VariantReception línea de recepción: una variante y el ítem que la materializa.
type VariantReception struct {
	ID            string
	ReceptionID   string
	VariantID     string
	ProductItemID string
	Quantity      int
	CreatedAt     time.Time
}
