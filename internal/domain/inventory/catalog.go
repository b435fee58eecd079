package inventory

import (
	"sort"
	"strings"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
)

// Catalog índice de solo lectura sobre el catálogo (productos, variantes y SKUs).
type Catalog struct {
	products  []*entity.Product
	byProduct map[string]*entity.Product
	byVariant map[string]*entity.Variant
	owner     map[string]*entity.Product
	bySKU     map[string]*entity.Variant
}

// NewCatalog indexa los productos recibidos.
func NewCatalog(products []*entity.Product) *Catalog {
	c := &Catalog{
		products:  products,
		byProduct: make(map[string]*entity.Product, len(products)),
		byVariant: make(map[string]*entity.Variant),
		owner:     make(map[string]*entity.Product),
		bySKU:     make(map[string]*entity.Variant),
	}
	for _, p := range products {
		c.byProduct[p.ID] = p
		for _, v := range p.Variants {
			c.byVariant[v.ID] = v
			c.owner[v.ID] = p
			if v.SKU != "" {
				c.bySKU[v.SKU] = v
			}
		}
	}
	return c
}

// Products devuelve los productos indexados.
func (c *Catalog) Products() []*entity.Product { return c.products }

// Product busca un producto por ID.
func (c *Catalog) Product(id string) (*entity.Product, bool) {
	p, ok := c.byProduct[id]
	return p, ok
}

// Variant busca una variante y el producto que la contiene.
func (c *Catalog) Variant(id string) (*entity.Variant, *entity.Product, bool) {
	v, ok := c.byVariant[id]
	if !ok {
		return nil, nil, false
	}
	return v, c.owner[id], true
}

// VariantBySKU busca una variante por SKU exacto.
func (c *Catalog) VariantBySKU(sku string) (*entity.Variant, bool) {
	v, ok := c.bySKU[sku]
	return v, ok
}

// ProductName nombre del producto dueño de la variante, o "" si no se conoce.
func (c *Catalog) ProductName(variantID string) string {
	if p, ok := c.owner[variantID]; ok {
		return p.Name
	}
	return ""
}

// VariantLabel etiqueta legible: "Camiseta (S / Rojo)" con las opciones en el orden del producto.
func VariantLabel(p *entity.Product, v *entity.Variant) string {
	if p == nil || v == nil {
		return ""
	}
	if len(v.Options) == 0 {
		return p.Name
	}
	vals := make([]string, 0, len(v.Options))
	for _, o := range p.Options {
		if val, ok := v.Options[strings.TrimSpace(o.Name)]; ok {
			vals = append(vals, val)
		}
	}
	if len(vals) != len(v.Options) {
		vals = vals[:0]
		keys := make([]string, 0, len(v.Options))
		for k := range v.Options {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			vals = append(vals, v.Options[k])
		}
	}
	return p.Name + " (" + strings.Join(vals, " / ") + ")"
}
