package memory

import (
	"context"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo bitácora append-only en memoria.
type AdjustmentRepo struct {
	v view
}

// Append agrega la entrada y le asigna Seq.
func (r *AdjustmentRepo) Append(_ context.Context, entry *entity.Adjustment) error {
	return r.v(func(st *state) error {
		st.seq++
		entry.Seq = st.seq
		c := *entry
		c.Items = append([]entity.AdjustmentItem(nil), entry.Items...)
		st.adjustments = append(st.adjustments, &c)
		return nil
	})
}

// List de la más reciente a la más antigua.
func (r *AdjustmentRepo) List(_ context.Context, f repository.AdjustmentFilter) ([]*entity.Adjustment, error) {
	var out []*entity.Adjustment
	if err := r.v(func(st *state) error {
		skipped := 0
		for i := len(st.adjustments) - 1; i >= 0; i-- {
			a := st.adjustments[i]
			if !matches(a, f) {
				continue
			}
			if skipped < f.Offset {
				skipped++
				continue
			}
			if f.Limit > 0 && len(out) >= f.Limit {
				break
			}
			out = append(out, a)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// DeltasFor deltas de una celda en orden de inserción.
func (r *AdjustmentRepo) DeltasFor(_ context.Context, variantID, branchID string) ([]int64, error) {
	var out []int64
	if err := r.v(func(st *state) error {
		for _, a := range st.adjustments {
			if a.BranchID != branchID {
				continue
			}
			for _, it := range a.Items {
				if it.VariantID == variantID {
					out = append(out, it.Delta)
				}
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func matches(a *entity.Adjustment, f repository.AdjustmentFilter) bool {
	if f.BranchID != "" && a.BranchID != f.BranchID {
		return false
	}
	if f.Type != "" && a.Type != f.Type {
		return false
	}
	if !f.From.IsZero() && a.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !a.Timestamp.Before(f.To) {
		return false
	}
	if f.VariantID != "" {
		for _, it := range a.Items {
			if it.VariantID == f.VariantID {
				return true
			}
		}
		return false
	}
	return true
}
