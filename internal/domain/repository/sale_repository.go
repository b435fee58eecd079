package repository

import (
	"context"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
)

// SaleRepository persiste los registros de venta de reporte (ej. reembolsos).
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
}
