package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-wms/internal/domain"
	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
	"github.com/jhoicas/Inventario-wms/internal/domain/repository"
)

// Repos agrupa los repositorios del núcleo. Dentro de TxRunner.Run todos comparten la misma transacción.
type Repos struct {
	StoragePoints  repository.StoragePointRepository
	Areas          repository.AreaRepository
	Locations      repository.LocationRepository
	Items          repository.ProductItemRepository
	Movements      repository.StockMovementRepository
	Products       repository.ProductRepository
	Investigations repository.InvestigationRepository
	Receptions     repository.ReceptionRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y no queda ningún efecto parcial.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}

// StructureCache cache de lecturas de estructura (ubicación → punto de almacenamiento).
// Solo se consulta fuera de transacción; los valores se revalidan dentro de la tx antes de escribir.
type StructureCache interface {
	// GetStoragePoint devuelve "" si no hay entrada.
	GetStoragePoint(ctx context.Context, locationID string) (string, error)
	SetStoragePoint(ctx context.Context, locationID, storagePointID string) error
	Invalidate(ctx context.Context, locationIDs ...string) error
}

// NoopCache desactiva la cache.
type NoopCache struct{}

func (NoopCache) GetStoragePoint(context.Context, string) (string, error) { return "", nil }
func (NoopCache) SetStoragePoint(context.Context, string, string) error   { return nil }
func (NoopCache) Invalidate(context.Context, ...string) error             { return nil }

// ReportRenderer genera la representación PDF de un historial de movimientos.
type ReportRenderer interface {
	RenderMovements(ctx context.Context, report MovementReport) ([]byte, error)
}

// Config parámetros de autorización del núcleo.
type Config struct {
	// ElevatedRoles roles con autoridad sobre todos los puntos de almacenamiento.
	ElevatedRoles []string
}

// DefaultConfig configuración por defecto: solo admin es rol elevado.
func DefaultConfig() Config {
	return Config{ElevatedRoles: []string{entity.RoleAdmin}}
}

func (c Config) authorize(p entity.Principal, storagePointID string) error {
	if p.UserID == "" {
		return domain.ErrUnauthorized
	}
	if !p.CanActOn(storagePointID, c.ElevatedRoles...) {
		return fmt.Errorf("usuario %s sobre punto de almacenamiento %s: %w", p.UserID, storagePointID, domain.ErrUnauthorized)
	}
	return nil
}
