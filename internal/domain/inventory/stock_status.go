package inventory

import "github.com/jhoicas/stock-engine/internal/domain/entity"

// StockStatus clasificación de disponibilidad.
type StockStatus string

const (
	StatusOutOfStock StockStatus = "outOfStock"
	StatusLowStock   StockStatus = "lowStock"
	StatusInStock    StockStatus = "inStock"
)

// Classify: outOfStock si qty <= 0, lowStock si 0 < qty <= threshold, si no inStock.
func Classify(qty, threshold int64) StockStatus {
	switch {
	case qty <= 0:
		return StatusOutOfStock
	case qty <= threshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// BranchStockForProduct suma la cantidad de todas las variantes del producto en una sucursal.
func BranchStockForProduct(p *entity.Product, branchID string, cells []*entity.Stock) int64 {
	ids := make(map[string]bool, len(p.Variants))
	for _, v := range p.Variants {
		ids[v.ID] = true
	}
	var total int64
	for _, c := range cells {
		if c.BranchID == branchID && ids[c.VariantID] {
			total += c.Quantity
		}
	}
	return total
}

// TotalStockForVariant suma la cantidad de una variante en todas las sucursales.
func TotalStockForVariant(variantID string, cells []*entity.Stock) int64 {
	var total int64
	for _, c := range cells {
		if c.VariantID == variantID {
			total += c.Quantity
		}
	}
	return total
}

// ProductStatus clasifica el total de un producto con el umbral de su primera variante.
// Es una aproximación para productos con varias variantes; Classify por variante usa el umbral propio.
func ProductStatus(p *entity.Product, total int64) StockStatus {
	threshold := entity.DefaultLowStockThreshold
	if len(p.Variants) > 0 {
		threshold = p.Variants[0].LowStockThreshold
	}
	return Classify(total, threshold)
}
