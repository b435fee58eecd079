package repository

import (
	"context"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
)

// ConsignmentRepository puerto de persistencia de consignaciones.
// GetByID devuelve (nil, nil) si no existe.
type ConsignmentRepository interface {
	Create(ctx context.Context, c *entity.Consignment) error
	GetByID(ctx context.Context, id string) (*entity.Consignment, error)
	// GetForUpdate bloquea la consignación hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Consignment, error)
	Update(ctx context.Context, c *entity.Consignment) error
	List(ctx context.Context, status string, limit, offset int) ([]*entity.Consignment, error)
}
