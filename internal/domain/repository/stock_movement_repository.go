package repository

import (
	"context"

	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
)

// Página por defecto y máxima de los listados de movimientos.
const (
	DefaultMovementLimit = 50
	MaxMovementLimit     = 500
)

// MovementFilter filtros de consulta del libro de movimientos. Campos vacíos no filtran.
type MovementFilter struct {
	MovementType  string
	TriggerType   string
	TriggeredBy   string
	ProductItemID string
	LocationID    string // origen o destino
	Limit         int
	Offset        int
}

// StockMovementRepository define el puerto del libro de movimientos (solo inserción y lectura).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	// List devuelve los movimientos filtrados, del más reciente al más antiguo.
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
}
