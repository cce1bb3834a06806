package entity

import "time"

// Product producto padre; lleva las cantidades agregadas de todas sus variantes.
type Product struct {
	ID        string
	SKU       string
	Name      string
	Quantity  ProductQuantity
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductVariant variante de un producto (talla, color, lote...).
type ProductVariant struct {
	ID        string
	ProductID string
	SKU       string
	Name      string
	Quantity  ProductQuantity
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductQuantity contadores desnormalizados, uno por estado de ProductItem.
// La suma de contadores debe igualar el número de ProductItems de la variante.
type ProductQuantity struct {
	Available            int `json:"available"`
	Reserved             int `json:"reserved"`
	InTransit            int `json:"inTransit"`
	DeliveryProcessing   int `json:"deliveryProcessing"`
	AwaitingSAV          int `json:"awaitingSav"`
	Delivered            int `json:"delivered"`
	GotOut               int `json:"gotOut"`
	Discovered           int `json:"discovered"`
	PendingInvestigation int `json:"pendingInvestigation"`
	Lost                 int `json:"lost"`
	IsDead               int `json:"isDead"`
	PendingReception     int `json:"pendingReception"`
}

// Total suma todos los contadores.
func (q ProductQuantity) Total() int {
	return q.Available + q.Reserved + q.InTransit + q.DeliveryProcessing + q.AwaitingSAV +
		q.Delivered + q.GotOut + q.Discovered + q.PendingInvestigation + q.Lost +
		q.IsDead + q.PendingReception
}
