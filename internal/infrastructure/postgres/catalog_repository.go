package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo productos y variantes sobre PostgreSQL (usable con pool o tx).
// Opciones del producto y de cada variante se guardan como JSONB.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador del catálogo. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

const (
	productColumns = `id, name, category, supplier_id, has_options, options, next_variant_index, created_at, updated_at`
	variantColumns = `id, product_id, sku, price, cost_price, low_stock_threshold, options, created_at, updated_at`
)

// UpsertProduct inserta o actualiza la cabecera del producto. No toca variantes.
func (r *CatalogRepo) UpsertProduct(ctx context.Context, p *entity.Product) error {
	options := p.Options
	if options == nil {
		options = []entity.OptionDefinition{}
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, category = EXCLUDED.category, supplier_id = EXCLUDED.supplier_id,
			has_options = EXCLUDED.has_options, options = EXCLUDED.options,
			next_variant_index = GREATEST(products.next_variant_index, EXCLUDED.next_variant_index),
			updated_at = EXCLUDED.updated_at`,
		p.ID, p.Name, p.Category, p.SupplierID, p.HasOptions, options, p.NextVariantIndex, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

// UpsertVariants reemplaza el conjunto de variantes del producto. Las celdas de stock no se borran:
// quedan huérfanas si la variante desaparece, igual que sus entradas en la bitácora.
func (r *CatalogRepo) UpsertVariants(ctx context.Context, productID string, variants []*entity.Variant) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM variants WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete variants: %w", err)
	}
	for i, v := range variants {
		options := v.Options
		if options == nil {
			options = map[string]string{}
		}
		_, err := r.q.Exec(ctx, `
			INSERT INTO variants (id, product_id, position, sku, price, cost_price, low_stock_threshold, options, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			v.ID, productID, i, v.SKU, v.Price, v.CostPrice, v.LowStockThreshold, options, v.CreatedAt, v.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: SKU %s", domain.ErrDuplicate, v.SKU)
			}
			return fmt.Errorf("insert variant: %w", err)
		}
	}
	return nil
}

// ReadCatalog devuelve todos los productos con sus variantes, en orden de creación.
func (r *CatalogRepo) ReadCatalog(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	byID := make(map[string]*entity.Product)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	vrows, err := r.q.Query(ctx, `SELECT `+variantColumns+` FROM variants ORDER BY product_id, position`)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer vrows.Close()
	for vrows.Next() {
		v, err := scanVariant(vrows)
		if err != nil {
			return nil, err
		}
		if p, ok := byID[v.ProductID]; ok {
			p.Variants = append(p.Variants, v)
		}
	}
	return list, vrows.Err()
}

// GetProduct obtiene un producto con sus variantes; (nil, nil) si no existe.
func (r *CatalogRepo) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	rows, err := r.q.Query(ctx, `SELECT `+variantColumns+` FROM variants WHERE product_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, err
		}
		p.Variants = append(p.Variants, v)
	}
	return p, rows.Err()
}

// GetVariant (nil, nil) si no existe.
func (r *CatalogRepo) GetVariant(ctx context.Context, id string) (*entity.Variant, error) {
	return r.getVariant(ctx, `SELECT `+variantColumns+` FROM variants WHERE id = $1`, id)
}

// GetVariantBySKU (nil, nil) si no existe.
func (r *CatalogRepo) GetVariantBySKU(ctx context.Context, sku string) (*entity.Variant, error) {
	return r.getVariant(ctx, `SELECT `+variantColumns+` FROM variants WHERE sku = $1`, sku)
}

func (r *CatalogRepo) getVariant(ctx context.Context, query, arg string) (*entity.Variant, error) {
	v, err := scanVariant(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

// UpdateVariant actualiza SKU, precios y umbral. Opciones y producto no cambian por esta vía.
func (r *CatalogRepo) UpdateVariant(ctx context.Context, v *entity.Variant) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE variants SET sku = $2, price = $3, cost_price = $4, low_stock_threshold = $5, updated_at = $6
		WHERE id = $1`,
		v.ID, v.SKU, v.Price, v.CostPrice, v.LowStockThreshold, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: SKU %s", domain.ErrDuplicate, v.SKU)
		}
		return fmt.Errorf("update variant: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: variante %s", domain.ErrNotFound, v.ID)
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.SupplierID, &p.HasOptions, &p.Options, &p.NextVariantIndex, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}

func scanVariant(row pgx.Row) (*entity.Variant, error) {
	var v entity.Variant
	err := row.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Price, &v.CostPrice, &v.LowStockThreshold, &v.Options, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan variant: %w", err)
	}
	return &v, nil
}
