package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
	"github.com/jhoicas/Inventario-wms/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de movimientos sobre PostgreSQL: solo inserta y consulta.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, reference, movement_type, trigger_type, triggered_by, product_item_id,
	source_type, source_id, target_type, target_id, from_state, to_state, context_kind, context_id, created_at, created_by`

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var srcType, srcID, fromState, toState, ctxKind, ctxID, by *string
	err := row.Scan(&m.ID, &m.Reference, &m.MovementType, &m.TriggerType, &m.TriggeredBy, &m.ProductItemID,
		&srcType, &srcID, &m.Target.Type, &m.Target.ID, &fromState, &toState, &ctxKind, &ctxID, &m.CreatedAt, &by)
	if err != nil {
		return nil, err
	}
	m.Source = entity.MovementEndpoint{Type: deref(srcType), ID: deref(srcID)}
	m.FromState = deref(fromState)
	m.ToState = deref(toState)
	m.Context = entity.ItemContext{Kind: deref(ctxKind), ID: deref(ctxID)}
	m.CreatedBy = deref(by)
	return &m, nil
}

// Create inserta la fila inmutable del movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query, m.ID, m.Reference, m.MovementType, m.TriggerType, m.TriggeredBy, m.ProductItemID,
		nullIfEmpty(m.Source.Type), nullIfEmpty(m.Source.ID), m.Target.Type, m.Target.ID,
		nullIfEmpty(m.FromState), nullIfEmpty(m.ToState), nullIfEmpty(m.Context.Kind), nullIfEmpty(m.Context.ID),
		m.CreatedAt, nullIfEmpty(m.CreatedBy))
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return m, nil
}

// List movimientos filtrados, del más reciente al más antiguo.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.MovementType != "" {
		add("movement_type = $%d", f.MovementType)
	}
	if f.TriggerType != "" {
		add("trigger_type = $%d", f.TriggerType)
	}
	if f.TriggeredBy != "" {
		add("triggered_by = $%d", f.TriggeredBy)
	}
	if f.ProductItemID != "" {
		add("product_item_id = $%d", f.ProductItemID)
	}
	if f.LocationID != "" {
		args = append(args, f.LocationID)
		where = append(where, fmt.Sprintf("(source_id = $%d OR target_id = $%d)", len(args), len(args)))
	}
	query := `SELECT ` + movementColumns + ` FROM stock_movements`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
