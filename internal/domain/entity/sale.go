package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SaleCompleted = "Completed"
	SaleRefunded  = "Refunded"
)

// SaleItem línea de una venta.
type SaleItem struct {
	VariantID   string
	SKU         string
	ProductName string
	Options     map[string]string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// Sale registro de venta. Las ventas de consignación son proyecciones no persistidas;
// las devoluciones aprobadas se guardan como ventas Refunded con montos negativos.
type Sale struct {
	ID         string
	Reference  string
	BranchID   string
	CustomerID string
	Customer   *Customer
	Items      []SaleItem
	Total      decimal.Decimal
	Status     string
	CreatedAt  time.Time
}
