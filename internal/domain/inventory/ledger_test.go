package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/inventory"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
	"github.com/jhoicas/stock-engine/internal/infrastructure/memory"
)

func TestStockLedger_SetStockYApplyDelta(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	err := store.Run(ctx, func(repos repository.TxRepositories) error {
		ledger := inventory.NewStockLedger(repos.Stock)

		delta, err := ledger.SetStock(ctx, "v1", "main", 10)
		require.NoError(t, err)
		assert.Equal(t, int64(10), delta)

		delta, err = ledger.SetStock(ctx, "v1", "main", 10)
		require.NoError(t, err)
		assert.Zero(t, delta, "misma cantidad no produce delta")

		require.NoError(t, ledger.ApplyDelta(ctx, "v1", "main", -4))
		qty, err := ledger.Quantity(ctx, "v1", "main")
		require.NoError(t, err)
		assert.Equal(t, int64(6), qty)

		err = ledger.ApplyDelta(ctx, "v1", "main", -7)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		qty, _ = ledger.Quantity(ctx, "v1", "main")
		assert.Equal(t, int64(6), qty, "la celda queda intacta")

		_, err = ledger.SetStock(ctx, "v1", "main", -1)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		return nil
	})
	require.NoError(t, err)

	cell, err := store.Repositories().Stock.Get(ctx, "v1", "main")
	require.NoError(t, err)
	assert.Equal(t, int64(6), cell.Quantity)
}

func TestStockLedger_CheckDeductionsNoModifica(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	errAbort := errors.New("abort")

	err := store.Run(ctx, func(repos repository.TxRepositories) error {
		ledger := inventory.NewStockLedger(repos.Stock)
		_, err := ledger.SetStock(ctx, "v1", "main", 5)
		require.NoError(t, err)
		_, err = ledger.SetStock(ctx, "v2", "main", 1)
		require.NoError(t, err)

		assert.NoError(t, ledger.CheckDeductions(ctx, "main", map[string]int64{"v1": 5, "v2": 1}))
		err = ledger.CheckDeductions(ctx, "main", map[string]int64{"v1": 1, "v2": 2})
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)

		q1, _ := ledger.Quantity(ctx, "v1", "main")
		assert.Equal(t, int64(5), q1)
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	cell, err := store.Repositories().Stock.Get(ctx, "v1", "main")
	require.NoError(t, err)
	assert.Zero(t, cell.Quantity, "rollback: la transacción fallida no deja cambios")
}

// lockRecorder registra el orden en que se bloquean las celdas.
type lockRecorder struct {
	repository.StockRepository
	locked []inventory.CellRef
}

func (r *lockRecorder) GetForUpdate(ctx context.Context, variantID, branchID string) (*entity.Stock, error) {
	r.locked = append(r.locked, inventory.CellRef{VariantID: variantID, BranchID: branchID})
	return r.StockRepository.GetForUpdate(ctx, variantID, branchID)
}

func TestStockLedger_BloqueaCeldasEnOrdenEstable(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	err := store.Run(ctx, func(repos repository.TxRepositories) error {
		rec := &lockRecorder{StockRepository: repos.Stock}
		ledger := inventory.NewStockLedger(rec)
		for _, id := range []string{"v3", "v1", "v2"} {
			_, err := ledger.SetStock(ctx, id, "main", 10)
			require.NoError(t, err)
		}

		// el orden de un map no es estable: se repite para que un recorrido sin ordenar falle
		for i := 0; i < 20; i++ {
			rec.locked = nil
			require.NoError(t, ledger.CheckDeductions(ctx, "main", map[string]int64{"v3": 1, "v1": 1, "v2": 1}))
			assert.Equal(t, []inventory.CellRef{
				{VariantID: "v1", BranchID: "main"},
				{VariantID: "v2", BranchID: "main"},
				{VariantID: "v3", BranchID: "main"},
			}, rec.locked)
		}

		rec.locked = nil
		require.NoError(t, ledger.LockCells(ctx,
			inventory.CellRef{VariantID: "v2", BranchID: "north"},
			inventory.CellRef{VariantID: "v1", BranchID: "north"},
			inventory.CellRef{VariantID: "v2", BranchID: "main"},
			inventory.CellRef{VariantID: "v1", BranchID: "north"},
		))
		assert.Equal(t, []inventory.CellRef{
			{VariantID: "v1", BranchID: "north"},
			{VariantID: "v2", BranchID: "main"},
			{VariantID: "v2", BranchID: "north"},
		}, rec.locked, "ordena por variante y sucursal sin repetir celdas")
		return nil
	})
	require.NoError(t, err)
}
