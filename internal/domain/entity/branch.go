package entity

import "time"

// Branch representa una sucursal o bodega que mantiene stock. Solo lectura para el motor de stock.
type Branch struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
