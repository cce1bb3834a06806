package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para el árbol de ubicaciones.
// Las consultas de árbol usan el path materializado (sin recorridos recursivos en la aplicación).
type LocationRepository interface {
	Create(ctx context.Context, loc *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Location, error)
	// Update actualiza solo los datos descriptivos (referencia, código, nombre); nunca contadores ni path.
	Update(ctx context.Context, loc *entity.Location) error

	// Ancestors devuelve la cadena de la raíz al propio nodo (incluido), ordenada por profundidad.
	Ancestors(ctx context.Context, loc *entity.Location) ([]*entity.Location, error)
	// Descendants devuelve el subárbol de loc, incluido loc, sin orden garantizado.
	Descendants(ctx context.Context, loc *entity.Location) ([]*entity.Location, error)
	// ListByArea devuelve todo el bosque de ubicaciones del área (raíces y descendientes).
	ListByArea(ctx context.Context, areaID string) ([]*entity.Location, error)
	// FindAnchor busca en el bosque del área la ubicación con la etiqueta indicada.
	FindAnchor(ctx context.Context, areaID, defaultType string) (*entity.Location, error)

	// LockForUpdate bloquea las filas en orden de id (SELECT ... ORDER BY id FOR UPDATE).
	LockForUpdate(ctx context.Context, ids []string) ([]*entity.Location, error)
	// AdjustTotalItems suma delta a total_items de cada id. Falla con ErrConflict si algún contador quedaría negativo.
	AdjustTotalItems(ctx context.Context, ids []string, delta int) error
	// AddStockValue acumula delta en la moneda indicada para cada id.
	AddStockValue(ctx context.Context, ids []string, currency string, delta decimal.Decimal) error
	// DeleteByArea elimina el bosque completo del área y sus valores de stock.
	DeleteByArea(ctx context.Context, areaID string) error
}
