package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
)

// CreateConsignmentRequest body para POST /api/consignments.
type CreateConsignmentRequest struct {
	OriginBranchID     string     `json:"origin_branch_id"`
	DestinationAddress string     `json:"destination_address"`
	CarrierID          string     `json:"carrier_id"`
	DriverID           string     `json:"driver_id"`
	Items              []LineItem `json:"items"`
}

// SellConsignmentRequest body para POST /api/consignments/:id/sell.
type SellConsignmentRequest struct {
	CustomerID string `json:"customer_id"`
}

// ConsignmentResponse salida de una consignación.
type ConsignmentResponse struct {
	ID                 string     `json:"id"`
	OriginBranchID     string     `json:"origin_branch_id"`
	DestinationAddress string     `json:"destination_address"`
	CarrierID          string     `json:"carrier_id,omitempty"`
	DriverID           string     `json:"driver_id,omitempty"`
	Items              []LineItem `json:"items"`
	Status             string     `json:"status"`
	CreatedBy          string     `json:"created_by"`
	CreatedAt          time.Time  `json:"created_at"`
	DispatchedAt       *time.Time `json:"dispatched_at,omitempty"`
	DeliveredAt        *time.Time `json:"delivered_at,omitempty"`
	SoldAt             *time.Time `json:"sold_at,omitempty"`
	CustomerID         string     `json:"customer_id,omitempty"`
	InvoiceNumber      string     `json:"invoice_number,omitempty"`
}

// ConsignmentListResponse lista paginada.
type ConsignmentListResponse struct {
	Items []ConsignmentResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// SaleItemDTO línea de una venta.
type SaleItemDTO struct {
	VariantID   string            `json:"variant_id"`
	SKU         string            `json:"sku"`
	ProductName string            `json:"product_name"`
	Options     map[string]string `json:"options,omitempty"`
	Quantity    int64             `json:"quantity"`
	UnitPrice   decimal.Decimal   `json:"unit_price"`
	Subtotal    decimal.Decimal   `json:"subtotal"`
}

// SaleResponse registro de venta (proyección de consignación o reembolso).
type SaleResponse struct {
	ID           string          `json:"id"`
	Reference    string          `json:"reference"`
	BranchID     string          `json:"branch_id"`
	CustomerID   string          `json:"customer_id,omitempty"`
	CustomerName string          `json:"customer_name,omitempty"`
	Items        []SaleItemDTO   `json:"items"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToConsignmentResponse convierte la entidad.
func ToConsignmentResponse(c *entity.Consignment) *ConsignmentResponse {
	if c == nil {
		return nil
	}
	out := &ConsignmentResponse{
		ID:                 c.ID,
		OriginBranchID:     c.OriginBranchID,
		DestinationAddress: c.DestinationAddress,
		CarrierID:          c.CarrierID,
		DriverID:           c.DriverID,
		Items:              make([]LineItem, 0, len(c.Items)),
		Status:             c.Status,
		CreatedBy:          c.CreatedBy,
		CreatedAt:          c.CreatedAt,
		DispatchedAt:       c.DispatchedAt,
		DeliveredAt:        c.DeliveredAt,
		SoldAt:             c.SoldAt,
		CustomerID:         c.CustomerID,
		InvoiceNumber:      c.InvoiceNumber,
	}
	for _, it := range c.Items {
		out.Items = append(out.Items, LineItem{VariantID: it.VariantID, Quantity: it.Quantity})
	}
	return out
}

// ToSaleResponse convierte un registro de venta.
func ToSaleResponse(s *entity.Sale) *SaleResponse {
	if s == nil {
		return nil
	}
	out := &SaleResponse{
		ID:         s.ID,
		Reference:  s.Reference,
		BranchID:   s.BranchID,
		CustomerID: s.CustomerID,
		Items:      make([]SaleItemDTO, 0, len(s.Items)),
		Total:      s.Total,
		Status:     s.Status,
		CreatedAt:  s.CreatedAt,
	}
	if s.Customer != nil {
		out.CustomerName = s.Customer.Name
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, SaleItemDTO{
			VariantID:   it.VariantID,
			SKU:         it.SKU,
			ProductName: it.ProductName,
			Options:     it.Options,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return out
}
