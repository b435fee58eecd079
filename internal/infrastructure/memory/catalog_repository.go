package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo catálogo en memoria.
type CatalogRepo struct {
	v view
}

// UpsertProduct guarda los datos del producto conservando sus variantes actuales.
func (r *CatalogRepo) UpsertProduct(_ context.Context, product *entity.Product) error {
	return r.v(func(st *state) error {
		c := product.Clone()
		if prev, ok := st.products[product.ID]; ok {
			c.Variants = prev.Variants
		} else {
			c.Variants = nil
			st.productOrder = append(st.productOrder, product.ID)
		}
		st.products[product.ID] = c
		return nil
	})
}

// UpsertVariants reemplaza las variantes del producto. Rechaza SKUs usados por otro producto.
func (r *CatalogRepo) UpsertVariants(_ context.Context, productID string, variants []*entity.Variant) error {
	return r.v(func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
		}
		for _, other := range st.products {
			if other.ID == productID {
				continue
			}
			for _, ov := range other.Variants {
				for _, v := range variants {
					if ov.SKU == v.SKU {
						return fmt.Errorf("%w: SKU %s", domain.ErrDuplicate, v.SKU)
					}
				}
			}
		}
		p.Variants = make([]*entity.Variant, len(variants))
		for i, v := range variants {
			p.Variants[i] = v.Clone()
		}
		return nil
	})
}

// ReadCatalog devuelve copias de todos los productos en orden de creación.
func (r *CatalogRepo) ReadCatalog(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	if err := r.v(func(st *state) error {
		out = make([]*entity.Product, 0, len(st.productOrder))
		for _, id := range st.productOrder {
			out = append(out, st.products[id].Clone())
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProduct devuelve (nil, nil) si no existe.
func (r *CatalogRepo) GetProduct(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	if err := r.v(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = p.Clone()
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// GetVariant devuelve (nil, nil) si no existe.
func (r *CatalogRepo) GetVariant(_ context.Context, id string) (*entity.Variant, error) {
	return r.findVariant(func(v *entity.Variant) bool { return v.ID == id })
}

// GetVariantBySKU devuelve (nil, nil) si no existe.
func (r *CatalogRepo) GetVariantBySKU(_ context.Context, sku string) (*entity.Variant, error) {
	return r.findVariant(func(v *entity.Variant) bool { return v.SKU == sku })
}

// UpdateVariant actualiza precio, costo, umbral y SKU de una variante existente.
func (r *CatalogRepo) UpdateVariant(_ context.Context, variant *entity.Variant) error {
	return r.v(func(st *state) error {
		for _, p := range st.products {
			for _, v := range p.Variants {
				if v.ID != variant.ID && v.SKU == variant.SKU {
					return fmt.Errorf("%w: SKU %s", domain.ErrDuplicate, variant.SKU)
				}
			}
		}
		for _, p := range st.products {
			for i, v := range p.Variants {
				if v.ID == variant.ID {
					p.Variants[i] = variant.Clone()
					return nil
				}
			}
		}
		return fmt.Errorf("%w: variante %s", domain.ErrNotFound, variant.ID)
	})
}

func (r *CatalogRepo) findVariant(match func(v *entity.Variant) bool) (*entity.Variant, error) {
	var out *entity.Variant
	if err := r.v(func(st *state) error {
		for _, p := range st.products {
			for _, v := range p.Variants {
				if match(v) {
					out = v.Clone()
					return nil
				}
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}
