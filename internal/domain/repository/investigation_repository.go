package repository

import (
	"context"

	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
)

// InvestigationRepository define el puerto de persistencia para Investigation.
type InvestigationRepository interface {
	Create(ctx context.Context, inv *entity.Investigation) error
	GetByID(ctx context.Context, id string) (*entity.Investigation, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Investigation, error)
	Update(ctx context.Context, inv *entity.Investigation) error
}
