package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
)

// ProjectConsignmentSale arma el registro de venta de una consignación vendida a partir de la
// consignación, el cliente y el catálogo. No persiste nada. Si alguna línea no resuelve a una
// variante conocida devuelve domain.ErrDataInconsistency y ningún dato parcial.
func ProjectConsignmentSale(c *entity.Consignment, customer *entity.Customer, catalog *Catalog) (*entity.Sale, error) {
	if c == nil || catalog == nil {
		return nil, fmt.Errorf("%w: consignación o catálogo ausente", domain.ErrDataInconsistency)
	}
	if c.CustomerID != "" && (customer == nil || customer.ID != c.CustomerID) {
		return nil, fmt.Errorf("%w: cliente %s no encontrado", domain.ErrDataInconsistency, c.CustomerID)
	}
	items := make([]entity.SaleItem, 0, len(c.Items))
	total := decimal.Zero
	for _, it := range c.Items {
		v, p, ok := catalog.Variant(it.VariantID)
		if !ok {
			return nil, fmt.Errorf("%w: variante %s de la consignación %s no existe en el catálogo",
				domain.ErrDataInconsistency, it.VariantID, c.ID)
		}
		subtotal := v.Price.Mul(decimal.NewFromInt(it.Quantity))
		items = append(items, entity.SaleItem{
			VariantID:   v.ID,
			SKU:         v.SKU,
			ProductName: p.Name,
			Options:     v.Options,
			Quantity:    it.Quantity,
			UnitPrice:   v.Price,
			Subtotal:    subtotal,
		})
		total = total.Add(subtotal)
	}
	sale := &entity.Sale{
		ID:         c.ID,
		Reference:  c.InvoiceNumber,
		BranchID:   c.OriginBranchID,
		CustomerID: c.CustomerID,
		Customer:   customer,
		Items:      items,
		Total:      total,
		Status:     entity.SaleCompleted,
	}
	if c.SoldAt != nil {
		sale.CreatedAt = *c.SoldAt
	}
	return sale, nil
}
