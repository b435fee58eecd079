package entity

import "time"

// Stock representa una celda del ledger: cantidad actual de una variante en una sucursal.
// Nunca es negativa.
type Stock struct {
	VariantID string
	BranchID  string
	Quantity  int64
	UpdatedAt time.Time
}
