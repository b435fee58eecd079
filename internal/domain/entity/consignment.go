package entity

import "time"

// Estados de una consignación. Solo avanzan hacia adelante.
const (
	ConsignmentPending   = "Pending"
	ConsignmentInTransit = "InTransit"
	ConsignmentDelivered = "Delivered"
	ConsignmentSold      = "Sold"
)

// ConsignmentItem línea de una consignación.
type ConsignmentItem struct {
	VariantID string
	Quantity  int64
}

// Consignment envío de variantes desde una sucursal de origen hasta su entrega y venta opcional.
type Consignment struct {
	ID                 string
	OriginBranchID     string
	DestinationAddress string
	CarrierID          string
	DriverID           string
	Items              []ConsignmentItem
	Status             string
	CreatedBy          string
	CreatedAt          time.Time
	DispatchedAt       *time.Time
	DeliveredAt        *time.Time
	SoldAt             *time.Time
	CustomerID         string
	InvoiceNumber      string
}

// CanTransition indica si la consignación puede pasar al estado next.
func (c *Consignment) CanTransition(next string) bool {
	switch next {
	case ConsignmentInTransit:
		return c.Status == ConsignmentPending
	case ConsignmentDelivered:
		return c.Status == ConsignmentInTransit
	case ConsignmentSold:
		return c.Status == ConsignmentInTransit || c.Status == ConsignmentDelivered
	}
	return false
}
