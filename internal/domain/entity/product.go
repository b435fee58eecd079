package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold umbral de stock bajo asignado a variantes nuevas.
const DefaultLowStockThreshold int64 = 10

// OptionDefinition define una opción del producto (ej. Talla) con sus valores tal como se capturaron.
type OptionDefinition struct {
	Name   string
	Values []string
}

// Product representa un producto del catálogo. Es dueño exclusivo de sus variantes.
// Un producto simple (HasOptions=false) tiene exactamente una variante sin opciones.
type Product struct {
	ID         string
	Name       string
	Category   string
	SupplierID string
	HasOptions bool
	Options    []OptionDefinition
	Variants   []*Variant
	// NextVariantIndex siguiente índice libre para IDs {productID}_{índice}. Solo crece: un ID de variante
	// eliminada no se reasigna, porque sus celdas de stock y su bitácora siguen indexadas por ese ID.
	NextVariantIndex int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Variant representa una combinación vendible de valores de opción, identificada por un SKU único.
// La cantidad por sucursal no vive aquí: la administra el ledger de stock.
type Variant struct {
	ID                string
	ProductID         string
	SKU               string // único en todo el catálogo
	Price             decimal.Decimal
	CostPrice         decimal.Decimal
	LowStockThreshold int64
	Options           map[string]string // nombre de opción -> valor
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Clone devuelve una copia profunda de la variante (el mapa de opciones no se comparte).
func (v *Variant) Clone() *Variant {
	if v == nil {
		return nil
	}
	c := *v
	c.Options = make(map[string]string, len(v.Options))
	for k, val := range v.Options {
		c.Options[k] = val
	}
	return &c
}

// Clone devuelve una copia profunda del producto y sus variantes.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	c.Options = make([]OptionDefinition, len(p.Options))
	for i, o := range p.Options {
		c.Options[i] = OptionDefinition{Name: o.Name, Values: append([]string(nil), o.Values...)}
	}
	c.Variants = make([]*Variant, len(p.Variants))
	for i, v := range p.Variants {
		c.Variants[i] = v.Clone()
	}
	return &c
}
