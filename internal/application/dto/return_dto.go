package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
)

// ReturnItemRequest línea devuelta.
type ReturnItemRequest struct {
	VariantID string          `json:"variant_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SubmitReturnRequest body para POST /api/returns.
type SubmitReturnRequest struct {
	SaleID   string              `json:"sale_id"`
	BranchID string              `json:"branch_id"`
	Items    []ReturnItemRequest `json:"items"`
}

// ReturnRequestResponse salida de una solicitud de devolución.
type ReturnRequestResponse struct {
	ID          string              `json:"id"`
	SaleID      string              `json:"sale_id"`
	BranchID    string              `json:"branch_id"`
	Items       []ReturnItemRequest `json:"items"`
	TotalRefund decimal.Decimal     `json:"total_refund"`
	RequestedBy string              `json:"requested_by"`
	Status      string              `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	ResolvedAt  *time.Time          `json:"resolved_at,omitempty"`
	ResolvedBy  string              `json:"resolved_by,omitempty"`
}

// ApproveReturnResponse resultado de aprobar una devolución.
type ApproveReturnResponse struct {
	Request      *ReturnRequestResponse `json:"request"`
	RefundSale   *SaleResponse          `json:"refund_sale"`
	AdjustmentID string                 `json:"adjustment_id"`
}

// ToReturnRequestResponse convierte la entidad.
func ToReturnRequestResponse(r *entity.ReturnRequest) *ReturnRequestResponse {
	if r == nil {
		return nil
	}
	out := &ReturnRequestResponse{
		ID:          r.ID,
		SaleID:      r.SaleID,
		BranchID:    r.BranchID,
		Items:       make([]ReturnItemRequest, 0, len(r.Items)),
		TotalRefund: r.TotalRefund,
		RequestedBy: r.RequestedBy,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		ResolvedAt:  r.ResolvedAt,
		ResolvedBy:  r.ResolvedBy,
	}
	for _, it := range r.Items {
		out.Items = append(out.Items, ReturnItemRequest{VariantID: it.VariantID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return out
}
