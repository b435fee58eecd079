package repository

import (
	"context"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar las celdas del ledger (variante+sucursal).
// Las mutaciones se hacen dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve la celda; si no existe, una celda en cero.
	Get(ctx context.Context, variantID, branchID string) (*entity.Stock, error)
	// GetForUpdate igual que Get pero bloquea la celda hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, variantID, branchID string) (*entity.Stock, error)
	Upsert(ctx context.Context, stock *entity.Stock) error
	ListByBranch(ctx context.Context, branchID string) ([]*entity.Stock, error)
	ListByVariants(ctx context.Context, variantIDs []string) ([]*entity.Stock, error)
}
