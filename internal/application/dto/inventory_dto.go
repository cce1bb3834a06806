package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Requests ─────────────────────────────────────────────────────────────────

// CreateLocationRequest body para POST /api/locations. area_id crea una raíz; parent_id, un hijo.
type CreateLocationRequest struct {
	AreaID    string `json:"area_id" validate:"required_without=ParentID,excluded_with=ParentID"`
	ParentID  string `json:"parent_id"`
	Reference string `json:"reference" validate:"max=100"`
	Barcode   string `json:"barcode" validate:"max=100"`
	Name      string `json:"name" validate:"required,min=1,max=200"`
	IsVirtual bool   `json:"is_virtual"`
}

// CreateStoragePointRequest body para POST /api/storage-points.
type CreateStoragePointRequest struct {
	Reference string `json:"reference" validate:"required,min=1,max=50"`
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Address   string `json:"address" validate:"max=300"`
}

// CreateAreaRequest body para POST /api/storage-points/:id/areas.
type CreateAreaRequest struct {
	Reference string          `json:"reference" validate:"max=100"`
	Title     string          `json:"title" validate:"required,min=1,max=200"`
	Surface   decimal.Decimal `json:"surface"`
	Volume    decimal.Decimal `json:"volume"`
	IsVirtual bool            `json:"is_virtual"`
}

// UpdateAreaRequest body para PATCH /api/areas/:id. Los campos ausentes no se modifican.
type UpdateAreaRequest struct {
	Reference *string          `json:"reference,omitempty" validate:"omitempty,min=1,max=100"`
	Title     *string          `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Surface   *decimal.Decimal `json:"surface,omitempty"`
	Volume    *decimal.Decimal `json:"volume,omitempty"`
	IsVirtual *bool            `json:"is_virtual,omitempty"`
}

// LocationMappingRequest destino de una ubicación del área origen en una fusión.
type LocationMappingRequest struct {
	SourceLocationID string              `json:"source_location_id" validate:"required"`
	TargetLocationID string              `json:"target_location_id" validate:"required_without=NewLocation"`
	NewLocation      *NewLocationRequest `json:"new_location,omitempty"`
}

// NewLocationRequest ubicación a crear en el área destino durante una fusión.
// Sin parent_id se crea como raíz del área destino.
type NewLocationRequest struct {
	ParentID  string `json:"parent_id"`
	Reference string `json:"reference" validate:"max=100"`
	Barcode   string `json:"barcode" validate:"max=100"`
	Name      string `json:"name" validate:"required,min=1,max=200"`
	IsVirtual bool   `json:"is_virtual"`
}

// MergeAreasRequest body para POST /api/areas/merge.
type MergeAreasRequest struct {
	SourceAreaID string                   `json:"source_area_id" validate:"required"`
	TargetAreaID string                   `json:"target_area_id" validate:"required,nefield=SourceAreaID"`
	Mappings     []LocationMappingRequest `json:"mappings" validate:"dive"`
}

// OpenReceptionRequest body para POST /api/receptions.
type OpenReceptionRequest struct {
	StoragePointID string `json:"storage_point_id" validate:"required"`
	SupplierID     string `json:"supplier_id"`
	Comment        string `json:"comment" validate:"max=1000"`
}

// ReceiveItemRequest body para POST /api/items/receive.
type ReceiveItemRequest struct {
	ReceptionID  string          `json:"reception_id" validate:"required"`
	VariantID    string          `json:"variant_id" validate:"required"`
	LocationID   string          `json:"location_id"`
	Barcode      string          `json:"barcode" validate:"max=100"`
	SerialNumber string          `json:"serial_number" validate:"max=100"`
	PurchaseCost decimal.Decimal `json:"purchase_cost"`
	Currency     string          `json:"currency" validate:"omitempty,len=3,uppercase"`
}

// StoreItemRequest body para POST /api/items/:id/store.
type StoreItemRequest struct {
	TargetLocationID string `json:"target_location_id" validate:"required"`
}

// MoveItemRequest body para POST /api/items/:id/move. state/status vacíos conservan la posición.
type MoveItemRequest struct {
	TargetLocationID string `json:"target_location_id" validate:"required"`
	State            string `json:"state"`
	Status           string `json:"status" validate:"required_with=State"`
	TriggeredBy      string `json:"triggered_by"`
}

// PickForTransferRequest body para POST /api/items/:id/pick.
type PickForTransferRequest struct {
	TransferID           string `json:"transfer_id" validate:"required"`
	MobileUnitLocationID string `json:"mobile_unit_location_id" validate:"required"`
}

// ReceiveTransferRequest body para POST /api/items/:id/receive-transfer.
type ReceiveTransferRequest struct {
	TargetLocationID string `json:"target_location_id" validate:"required"`
}

// OpenInvestigationRequest body para POST /api/investigations.
type OpenInvestigationRequest struct {
	ProductItemID string `json:"product_item_id" validate:"required"`
	Comment       string `json:"comment" validate:"max=1000"`
}

// CloseInvestigationRequest body para POST /api/investigations/:id/close.
type CloseInvestigationRequest struct {
	Status  string `json:"status" validate:"required,oneof=CLOSED SOLVED"`
	Comment string `json:"comment" validate:"required,min=1,max=1000"`
}

// MovementFilterRequest query de GET /api/movements.
type MovementFilterRequest struct {
	MovementType  string `query:"movement_type" validate:"omitempty,oneof=INTERNAL EXTERNAL"`
	TriggerType   string `query:"trigger_type" validate:"omitempty,oneof=AUTO MANUAL"`
	TriggeredBy   string `query:"triggered_by"`
	ProductItemID string `query:"product_item_id"`
	LocationID    string `query:"location_id"`
	PageRequest
}

// ── Responses ────────────────────────────────────────────────────────────────

// CurrencyAmountDTO monto de valor de stock en una moneda.
type CurrencyAmountDTO struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID          string              `json:"id"`
	Reference   string              `json:"reference"`
	Barcode     string              `json:"barcode,omitempty"`
	Name        string              `json:"name"`
	AreaID      string              `json:"area_id,omitempty"`
	ParentID    string              `json:"parent_id,omitempty"`
	Path        string              `json:"path"`
	Depth       int                 `json:"depth"`
	DefaultType string              `json:"default_type,omitempty"`
	TotalItems  int                 `json:"total_items"`
	StockValue  []CurrencyAmountDTO `json:"stock_value"`
	IsVirtual   bool                `json:"is_virtual"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// LocationTreeResponse nodo del árbol de descendientes.
type LocationTreeResponse struct {
	LocationResponse
	Children []LocationTreeResponse `json:"children"`
}

// StoragePointResolution resultado de GET /api/locations/:id/storage-point.
type StoragePointResolution struct {
	LocationID     string `json:"location_id"`
	StoragePointID string `json:"storage_point_id"`
}

// StoragePointResponse salida de un punto de almacenamiento.
type StoragePointResponse struct {
	ID        string    `json:"id"`
	Reference string    `json:"reference"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AreaResponse salida de un área.
type AreaResponse struct {
	ID             string          `json:"id"`
	StoragePointID string          `json:"storage_point_id"`
	Reference      string          `json:"reference"`
	Title          string          `json:"title"`
	Type           string          `json:"type"`
	DefaultType    string          `json:"default_type,omitempty"`
	Surface        decimal.Decimal `json:"surface"`
	Volume         decimal.Decimal `json:"volume"`
	IsVirtual      bool            `json:"is_virtual"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ItemContextDTO flujo activo del ítem.
type ItemContextDTO struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// ProductItemResponse salida de un ProductItem.
type ProductItemResponse struct {
	ID           string          `json:"id"`
	Reference    string          `json:"reference"`
	Barcode      string          `json:"barcode"`
	SerialNumber string          `json:"serial_number,omitempty"`
	VariantID    string          `json:"variant_id"`
	ProductID    string          `json:"product_id"`
	SupplierID   string          `json:"supplier_id,omitempty"`
	PurchaseCost decimal.Decimal `json:"purchase_cost"`
	Currency     string          `json:"currency,omitempty"`
	State        string          `json:"state"`
	Status       string          `json:"status"`
	LocationID   string          `json:"location_id"`
	Context      *ItemContextDTO `json:"context,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// MovementResponse fila del libro de movimientos.
type MovementResponse struct {
	ID               string          `json:"id"`
	Reference        string          `json:"reference"`
	MovementType     string          `json:"movement_type"`
	TriggerType      string          `json:"trigger_type"`
	TriggeredBy      string          `json:"triggered_by"`
	ProductItemID    string          `json:"product_item_id"`
	SourceLocationID string          `json:"source_location_id,omitempty"`
	TargetLocationID string          `json:"target_location_id"`
	FromState        string          `json:"from_state,omitempty"`
	ToState          string          `json:"to_state"`
	Context          *ItemContextDTO `json:"context,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	CreatedBy        string          `json:"created_by"`
}

// MovementListResponse página del libro de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ReceptionResponse salida de una recepción.
type ReceptionResponse struct {
	ID             string     `json:"id"`
	Reference      string     `json:"reference"`
	StoragePointID string     `json:"storage_point_id"`
	SupplierID     string     `json:"supplier_id,omitempty"`
	Status         string     `json:"status"`
	Comment        string     `json:"comment,omitempty"`
	ValidatedAt    *time.Time `json:"validated_at,omitempty"`
	ValidatedBy    string     `json:"validated_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// InvestigationResponse salida de una investigación.
type InvestigationResponse struct {
	ID             string     `json:"id"`
	Reference      string     `json:"reference"`
	ProductItemID  string     `json:"product_item_id"`
	StoragePointID string     `json:"storage_point_id"`
	Status         string     `json:"status"`
	Comment        string     `json:"comment,omitempty"`
	OpenedBy       string     `json:"opened_by"`
	ClosedBy       string     `json:"closed_by,omitempty"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// CloseInvestigationResponse resultado del cierre.
type CloseInvestigationResponse struct {
	Investigation InvestigationResponse `json:"investigation"`
	Item          ProductItemResponse   `json:"item"`
	Movement      *MovementResponse     `json:"movement,omitempty"`
	Reception     *ReceptionResponse    `json:"reception,omitempty"`
}

// MergeAreasResponse resultado de la fusión.
type MergeAreasResponse struct {
	SourceAreaID     string             `json:"source_area_id"`
	TargetAreaID     string             `json:"target_area_id"`
	MovedItems       int                `json:"moved_items"`
	CreatedLocations []LocationResponse `json:"created_locations"`
	Movements        []MovementResponse `json:"movements"`
}
