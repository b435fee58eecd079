package entity

import "time"

// Tipos de ajuste registrados en la bitácora de stock.
const (
	AdjustmentManual           = "ManualAdjustment"
	AdjustmentPurchaseReceipt  = "PurchaseOrderReceipt"
	AdjustmentSaleReturn       = "SaleReturn"
	AdjustmentStockCount       = "StockCount"
	AdjustmentStockTransferOut = "StockTransferOut"
	AdjustmentStockTransferIn  = "StockTransferIn"
)

// IsValidAdjustmentType indica si t es uno de los tipos conocidos.
func IsValidAdjustmentType(t string) bool {
	switch t {
	case AdjustmentManual, AdjustmentPurchaseReceipt, AdjustmentSaleReturn,
		AdjustmentStockCount, AdjustmentStockTransferOut, AdjustmentStockTransferIn:
		return true
	}
	return false
}

// AdjustmentItem delta neto aplicado a una variante dentro de un ajuste.
type AdjustmentItem struct {
	VariantID   string
	ProductName string
	Delta       int64
}

// Adjustment entrada inmutable de la bitácora de ajustes. Seq refleja el orden de inserción.
type Adjustment struct {
	ID        string
	Seq       int64
	Timestamp time.Time
	Actor     string
	BranchID  string
	Type      string
	Reference string // motivo, orden de compra, consignación o venta
	Items     []AdjustmentItem
}
