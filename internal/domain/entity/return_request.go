package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una solicitud de devolución.
const (
	ReturnPending  = "pending"
	ReturnApproved = "approved"
	ReturnRejected = "rejected"
)

// ReturnItem unidad devuelta de una venta.
type ReturnItem struct {
	VariantID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// ReturnRequest solicitud de devolución pendiente de aprobación. Se resuelve a lo sumo una vez.
type ReturnRequest struct {
	ID          string
	SaleID      string
	BranchID    string
	Items       []ReturnItem
	TotalRefund decimal.Decimal
	RequestedBy string
	Status      string
	CreatedAt   time.Time
	ResolvedAt  *time.Time
	ResolvedBy  string
}
