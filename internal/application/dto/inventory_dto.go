package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
)

// AdjustStockRequest body para POST /api/stock/adjustments.
// Indicar new_quantity (conteo / fijar) o delta (entrada / salida), no ambos.
type AdjustStockRequest struct {
	BranchID    string           `json:"branch_id"`
	VariantID   string           `json:"variant_id"`
	Type        string           `json:"type"` // ManualAdjustment, StockCount, PurchaseOrderReceipt
	NewQuantity *int64           `json:"new_quantity,omitempty"`
	Delta       *int64           `json:"delta,omitempty"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"` // solo PurchaseOrderReceipt
	Reason      string           `json:"reason"`
}

// AdjustStockResponse resultado de un ajuste.
type AdjustStockResponse struct {
	AdjustmentID string `json:"adjustment_id,omitempty"`
	Delta        int64  `json:"delta"`
	Quantity     int64  `json:"quantity"`
}

// LineItem variante y cantidad (consignaciones y traslados).
type LineItem struct {
	VariantID string `json:"variant_id"`
	Quantity  int64  `json:"quantity"`
}

// TransferRequest body para POST /api/stock/transfers.
type TransferRequest struct {
	FromBranchID string     `json:"from_branch_id"`
	ToBranchID   string     `json:"to_branch_id"`
	Items        []LineItem `json:"items"`
	Reference    string     `json:"reference"`
}

// TransferResponse referencias de las dos entradas de bitácora del traslado.
type TransferResponse struct {
	Reference  string `json:"reference"`
	OutEntryID string `json:"out_entry_id"`
	InEntryID  string `json:"in_entry_id"`
}

// VariantStockDTO stock de una variante.
type VariantStockDTO struct {
	VariantID   string            `json:"variant_id"`
	ProductID   string            `json:"product_id"`
	ProductName string            `json:"product_name"`
	SKU         string            `json:"sku"`
	Options     map[string]string `json:"options"`
	BranchStock int64             `json:"branch_stock"`
	TotalStock  int64             `json:"total_stock"`
	Threshold   int64             `json:"low_stock_threshold"`
	Status      string            `json:"status"`
}

// ProductStockDTO stock agregado de un producto.
type ProductStockDTO struct {
	ProductID   string            `json:"product_id"`
	ProductName string            `json:"product_name"`
	BranchID    string            `json:"branch_id"`
	BranchStock int64             `json:"branch_stock"`
	TotalStock  int64             `json:"total_stock"`
	Status      string            `json:"status"` // umbral de la primera variante
	Variants    []VariantStockDTO `json:"variants"`
}

// ImportResult reporte de una importación masiva.
type ImportResult struct {
	SuccessCount int      `json:"success_count"`
	Errors       []string `json:"errors"`
	AdjustmentID string   `json:"adjustment_id,omitempty"`
}

// AdjustmentItemDTO línea de un ajuste.
type AdjustmentItemDTO struct {
	VariantID   string `json:"variant_id"`
	ProductName string `json:"product_name"`
	Delta       int64  `json:"delta"`
}

// AdjustmentDTO entrada de la bitácora.
type AdjustmentDTO struct {
	ID        string              `json:"id"`
	Timestamp time.Time           `json:"timestamp"`
	Actor     string              `json:"actor"`
	BranchID  string              `json:"branch_id"`
	Type      string              `json:"type"`
	Reference string              `json:"reference"`
	Items     []AdjustmentItemDTO `json:"items"`
}

// AdjustmentListResponse página de la bitácora.
type AdjustmentListResponse struct {
	Items []AdjustmentDTO `json:"items"`
	Page  PageResponse    `json:"page"`
}

// ToAdjustmentDTO convierte una entrada de la bitácora.
func ToAdjustmentDTO(a *entity.Adjustment) AdjustmentDTO {
	out := AdjustmentDTO{
		ID:        a.ID,
		Timestamp: a.Timestamp,
		Actor:     a.Actor,
		BranchID:  a.BranchID,
		Type:      a.Type,
		Reference: a.Reference,
		Items:     make([]AdjustmentItemDTO, 0, len(a.Items)),
	}
	for _, it := range a.Items {
		out.Items = append(out.Items, AdjustmentItemDTO{VariantID: it.VariantID, ProductName: it.ProductName, Delta: it.Delta})
	}
	return out
}
