package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

// AdjustmentLog bitácora append-only de cambios de stock. Cada operación que muta el ledger llama a
// Record exactamente una vez, en la misma transacción, con el delta neto por variante.
type AdjustmentLog struct {
	now   func() time.Time
	newID func() string
}

// NewAdjustmentLog construye la bitácora con reloj y generador de IDs reales.
func NewAdjustmentLog() *AdjustmentLog {
	return &AdjustmentLog{
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// Record asigna ID y fecha a la entrada y la agrega a la bitácora. Las entradas no se modifican después.
func (l *AdjustmentLog) Record(ctx context.Context, repo repository.AdjustmentRepository, entry *entity.Adjustment) error {
	if !entity.IsValidAdjustmentType(entry.Type) {
		return fmt.Errorf("%w: tipo de ajuste %q", domain.ErrInvalidInput, entry.Type)
	}
	if entry.BranchID == "" || len(entry.Items) == 0 {
		return fmt.Errorf("%w: ajuste sin sucursal o sin líneas", domain.ErrInvalidInput)
	}
	entry.ID = l.newID()
	entry.Timestamp = l.now()
	return repo.Append(ctx, entry)
}

// History entradas de la más reciente a la más antigua.
func (l *AdjustmentLog) History(ctx context.Context, repo repository.AdjustmentRepository, filter repository.AdjustmentFilter) ([]*entity.Adjustment, error) {
	return repo.List(ctx, filter)
}

// Replay reconstruye la cantidad de una celda sumando sus deltas en orden de inserción desde cero.
func (l *AdjustmentLog) Replay(ctx context.Context, repo repository.AdjustmentRepository, variantID, branchID string) (int64, error) {
	deltas, err := repo.DeltasFor(ctx, variantID, branchID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, d := range deltas {
		total += d
	}
	return total, nil
}

// NetItems agrupa las líneas por variante (en orden de primera aparición) y descarta deltas netos en cero.
func NetItems(items []entity.AdjustmentItem) []entity.AdjustmentItem {
	order := make([]string, 0, len(items))
	byID := make(map[string]*entity.AdjustmentItem, len(items))
	for _, it := range items {
		if acc, ok := byID[it.VariantID]; ok {
			acc.Delta += it.Delta
			continue
		}
		c := it
		byID[it.VariantID] = &c
		order = append(order, it.VariantID)
	}
	out := make([]entity.AdjustmentItem, 0, len(order))
	for _, id := range order {
		if byID[id].Delta != 0 {
			out = append(out, *byID[id])
		}
	}
	return out
}

// AggregateQuantities suma las cantidades pedidas por variante; rechaza cantidades no positivas.
func AggregateQuantities(variantIDs []string, quantities []int64) (map[string]int64, error) {
	out := make(map[string]int64, len(variantIDs))
	for i, id := range variantIDs {
		if strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("%w: línea %d sin variante", domain.ErrInvalidInput, i+1)
		}
		if quantities[i] <= 0 {
			return nil, fmt.Errorf("%w: línea %d con cantidad %d", domain.ErrInvalidInput, i+1, quantities[i])
		}
		out[id] += quantities[i]
	}
	return out, nil
}
