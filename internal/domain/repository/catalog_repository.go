package repository

import (
	"context"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
)

// CatalogRepository es el colaborador de persistencia del catálogo (DIP).
// UpsertProduct y UpsertVariants forman la unidad de trabajo que se emite al guardar un producto.
type CatalogRepository interface {
	UpsertProduct(ctx context.Context, product *entity.Product) error
	// UpsertVariants reemplaza el conjunto de variantes del producto por variants.
	UpsertVariants(ctx context.Context, productID string, variants []*entity.Variant) error
	// ReadCatalog devuelve todos los productos con sus variantes.
	ReadCatalog(ctx context.Context) ([]*entity.Product, error)
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	GetVariant(ctx context.Context, id string) (*entity.Variant, error)
	GetVariantBySKU(ctx context.Context, sku string) (*entity.Variant, error)
	UpdateVariant(ctx context.Context, variant *entity.Variant) error
}
