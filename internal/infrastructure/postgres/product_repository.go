package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-wms/internal/domain"
	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
	"github.com/jhoicas/Inventario-wms/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos y variantes sobre PostgreSQL (usable con pool o tx).
// Los contadores de cantidad se guardan como JSONB en la columna quantity.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// CreateProduct persiste un producto.
func (r *ProductRepo) CreateProduct(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, sku, name, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, p.ID, p.SKU, p.Name, p.Quantity, p.CreatedAt, p.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sku %q duplicado: %w", p.SKU, domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// CreateVariant persiste una variante.
func (r *ProductRepo) CreateVariant(ctx context.Context, v *entity.ProductVariant) error {
	query := `
		INSERT INTO product_variants (id, product_id, sku, name, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query, v.ID, v.ProductID, v.SKU, v.Name, v.Quantity, v.CreatedAt, v.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sku %q duplicado: %w", v.SKU, domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert variant: %w", err)
	}
	return nil
}

// GetProduct obtiene un producto por ID.
func (r *ProductRepo) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	return r.product(ctx, `SELECT id, sku, name, quantity, created_at, updated_at FROM products WHERE id = $1`, id)
}

// GetProductForUpdate obtiene el producto y bloquea su fila de contadores.
func (r *ProductRepo) GetProductForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.product(ctx, `SELECT id, sku, name, quantity, created_at, updated_at FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) product(ctx context.Context, query, id string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(&p.ID, &p.SKU, &p.Name, &p.Quantity, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// GetVariant obtiene una variante por ID.
func (r *ProductRepo) GetVariant(ctx context.Context, id string) (*entity.ProductVariant, error) {
	return r.variant(ctx, `SELECT id, product_id, sku, name, quantity, created_at, updated_at FROM product_variants WHERE id = $1`, id)
}

// GetVariantForUpdate obtiene la variante y bloquea su fila de contadores.
func (r *ProductRepo) GetVariantForUpdate(ctx context.Context, id string) (*entity.ProductVariant, error) {
	return r.variant(ctx, `SELECT id, product_id, sku, name, quantity, created_at, updated_at FROM product_variants WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) variant(ctx context.Context, query, id string) (*entity.ProductVariant, error) {
	var v entity.ProductVariant
	err := r.q.QueryRow(ctx, query, id).Scan(&v.ID, &v.ProductID, &v.SKU, &v.Name, &v.Quantity, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}
	return &v, nil
}

// UpdateVariantQuantity reemplaza los contadores de la variante.
func (r *ProductRepo) UpdateVariantQuantity(ctx context.Context, variantID string, q entity.ProductQuantity) error {
	cmd, err := r.q.Exec(ctx, `UPDATE product_variants SET quantity = $2, updated_at = now() WHERE id = $1`, variantID, q)
	if err != nil {
		return fmt.Errorf("update variant quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("variante", variantID)
	}
	return nil
}

// UpdateProductQuantity reemplaza los contadores del producto.
func (r *ProductRepo) UpdateProductQuantity(ctx context.Context, productID string, q entity.ProductQuantity) error {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET quantity = $2, updated_at = now() WHERE id = $1`, productID, q)
	if err != nil {
		return fmt.Errorf("update product quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("producto", productID)
	}
	return nil
}
