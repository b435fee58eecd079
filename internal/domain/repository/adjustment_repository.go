package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
)

// AdjustmentFilter filtros para consultar la bitácora de ajustes.
type AdjustmentFilter struct {
	BranchID  string
	VariantID string
	Type      string
	From      time.Time // inclusivo; cero = sin límite
	To        time.Time // exclusivo; cero = sin límite
	Limit     int
	Offset    int
}

// AdjustmentRepository puerto de la bitácora append-only: no hay Update ni Delete.
type AdjustmentRepository interface {
	// Append persiste la entrada y le asigna Seq (orden de inserción).
	Append(ctx context.Context, entry *entity.Adjustment) error
	// List devuelve entradas de la más reciente a la más antigua.
	List(ctx context.Context, filter AdjustmentFilter) ([]*entity.Adjustment, error)
	// DeltasFor devuelve los deltas de una celda en orden de inserción.
	DeltasFor(ctx context.Context, variantID, branchID string) ([]int64, error)
}
