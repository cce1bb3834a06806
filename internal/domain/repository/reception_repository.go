package repository

import (
	"context"

	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
)

// ReceptionRepository define el puerto de persistencia para Reception y sus líneas.
type ReceptionRepository interface {
	Create(ctx context.Context, rec *entity.Reception) error
	CreateLine(ctx context.Context, line *entity.VariantReception) error
	GetByID(ctx context.Context, id string) (*entity.Reception, error)
	// GetForUpdate bloquea la fila de la recepción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Reception, error)
	Update(ctx context.Context, rec *entity.Reception) error
	ListLines(ctx context.Context, receptionID string) ([]*entity.VariantReception, error)
}
