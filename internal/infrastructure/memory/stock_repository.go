package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo celdas del ledger en memoria.
type StockRepo struct {
	v view
}

// Get devuelve la celda o una celda en cero.
func (r *StockRepo) Get(_ context.Context, variantID, branchID string) (*entity.Stock, error) {
	var out entity.Stock
	if err := r.v(func(st *state) error {
		s, ok := st.stock[cellKey{variantID, branchID}]
		if !ok {
			s = entity.Stock{VariantID: variantID, BranchID: branchID}
		}
		out = s
		return nil
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetForUpdate en memoria equivale a Get: la transacción ya tiene el store bloqueado.
func (r *StockRepo) GetForUpdate(ctx context.Context, variantID, branchID string) (*entity.Stock, error) {
	return r.Get(ctx, variantID, branchID)
}

// Upsert guarda la celda.
func (r *StockRepo) Upsert(_ context.Context, stock *entity.Stock) error {
	return r.v(func(st *state) error {
		st.stock[cellKey{stock.VariantID, stock.BranchID}] = *stock
		return nil
	})
}

// ListByBranch celdas de una sucursal ordenadas por variante.
func (r *StockRepo) ListByBranch(_ context.Context, branchID string) ([]*entity.Stock, error) {
	var out []*entity.Stock
	if err := r.v(func(st *state) error {
		for k, s := range st.stock {
			if k.branchID == branchID {
				c := s
				out = append(out, &c)
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	sortCells(out)
	return out, nil
}

// ListByVariants celdas de las variantes indicadas en todas las sucursales.
func (r *StockRepo) ListByVariants(_ context.Context, variantIDs []string) ([]*entity.Stock, error) {
	ids := make(map[string]bool, len(variantIDs))
	for _, id := range variantIDs {
		ids[id] = true
	}
	var out []*entity.Stock
	if err := r.v(func(st *state) error {
		for k, s := range st.stock {
			if ids[k.variantID] {
				c := s
				out = append(out, &c)
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	sortCells(out)
	return out, nil
}

func sortCells(cells []*entity.Stock) {
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].VariantID != cells[j].VariantID {
			return cells[i].VariantID < cells[j].VariantID
		}
		return cells[i].BranchID < cells[j].BranchID
	})
}
