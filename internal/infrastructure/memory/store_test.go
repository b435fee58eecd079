package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/inventory"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
	"github.com/jhoicas/stock-engine/internal/infrastructure/memory"
)

func seedProduct(t *testing.T, store *memory.Store, id string, skus ...string) {
	t.Helper()
	ctx := context.Background()
	repos := store.Repositories()
	require.NoError(t, repos.Catalog.UpsertProduct(ctx, &entity.Product{ID: id, Name: "Producto " + id}))
	variants := make([]*entity.Variant, len(skus))
	for i, sku := range skus {
		variants[i] = &entity.Variant{ID: sku, ProductID: id, SKU: sku}
	}
	require.NoError(t, repos.Catalog.UpsertVariants(ctx, id, variants))
}

func TestStore_RunRollbackDescartaCambios(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedProduct(t, store, "p1", "A")
	errBoom := errors.New("boom")

	err := store.Run(ctx, func(repos repository.TxRepositories) error {
		require.NoError(t, repos.Stock.Upsert(ctx, &entity.Stock{VariantID: "A", BranchID: "main", Quantity: 9}))
		require.NoError(t, repos.Adjustments.Append(ctx, &entity.Adjustment{BranchID: "main", Type: entity.AdjustmentManual}))
		v, err := repos.Catalog.GetVariant(ctx, "A")
		require.NoError(t, err)
		v.SKU = "Z"
		require.NoError(t, repos.Catalog.UpdateVariant(ctx, v))
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	repos := store.Repositories()
	cell, err := repos.Stock.Get(ctx, "A", "main")
	require.NoError(t, err)
	assert.Zero(t, cell.Quantity)
	list, err := repos.Adjustments.List(ctx, repository.AdjustmentFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	v, err := repos.Catalog.GetVariantBySKU(ctx, "A")
	require.NoError(t, err)
	assert.NotNil(t, v, "el SKU original sigue vigente")
}

func TestStore_RunConContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := memory.NewStore().Run(ctx, func(repository.TxRepositories) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestCatalogRepo_SKUUnico(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedProduct(t, store, "p1", "A", "B")
	repos := store.Repositories()
	require.NoError(t, repos.Catalog.UpsertProduct(ctx, &entity.Product{ID: "p2", Name: "Otro"}))

	err := repos.Catalog.UpsertVariants(ctx, "p2", []*entity.Variant{{ID: "p2_0", SKU: "A"}})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	v, err := repos.Catalog.GetVariant(ctx, "B")
	require.NoError(t, err)
	v.SKU = "A"
	assert.ErrorIs(t, repos.Catalog.UpdateVariant(ctx, v), domain.ErrDuplicate)

	err = repos.Catalog.UpsertVariants(ctx, "nadie", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjustmentRepo_OrdenYFiltros(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Repositories().Adjustments
	for i, d := range []int64{5, -2, 7} {
		e := &entity.Adjustment{
			ID: string(rune('a' + i)), BranchID: "main", Type: entity.AdjustmentManual, Timestamp: time.Now(),
			Items: []entity.AdjustmentItem{{VariantID: "A", Delta: d}},
		}
		require.NoError(t, repo.Append(ctx, e))
		assert.Equal(t, int64(i+1), e.Seq)
	}
	require.NoError(t, repo.Append(ctx, &entity.Adjustment{
		ID: "d", BranchID: "norte", Type: entity.AdjustmentStockCount,
		Items: []entity.AdjustmentItem{{VariantID: "A", Delta: 100}},
	}))

	all, err := repo.List(ctx, repository.AdjustmentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "d", all[0].ID, "más reciente primero")

	page, err := repo.List(ctx, repository.AdjustmentFilter{BranchID: "main", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b", page[0].ID)

	counts, err := repo.List(ctx, repository.AdjustmentFilter{Type: entity.AdjustmentStockCount})
	require.NoError(t, err)
	assert.Len(t, counts, 1)

	deltas, err := repo.DeltasFor(ctx, "A", "main")
	require.NoError(t, err)
	assert.Equal(t, []int64{5, -2, 7}, deltas)
}

func TestAdjustmentRepo_FiltroPorRangoDeFechas(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Repositories().Adjustments
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, ts := range []time.Time{base.Add(-time.Hour), base, base.AddDate(0, 0, 15), base.AddDate(0, 1, 0)} {
		require.NoError(t, repo.Append(ctx, &entity.Adjustment{
			ID: string(rune('a' + i)), BranchID: "main", Type: entity.AdjustmentManual, Timestamp: ts,
		}))
	}

	march, err := repo.List(ctx, repository.AdjustmentFilter{From: base, To: base.AddDate(0, 1, 0)})
	require.NoError(t, err)
	require.Len(t, march, 2, "From inclusivo, To exclusivo")
	assert.Equal(t, "c", march[0].ID)
	assert.Equal(t, "b", march[1].ID)

	since, err := repo.List(ctx, repository.AdjustmentFilter{From: base.AddDate(0, 0, 15)})
	require.NoError(t, err)
	assert.Len(t, since, 2)
}

func TestStore_DescuentosConcurrentesNuncaQuedanNegativos(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Run(ctx, func(repos repository.TxRepositories) error {
		_, err := inventory.NewStockLedger(repos.Stock).SetStock(ctx, "A", "main", 10)
		return err
	}))

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, rejected := 0, 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Run(ctx, func(repos repository.TxRepositories) error {
				return inventory.NewStockLedger(repos.Stock).ApplyDelta(ctx, "A", "main", -1)
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 15, rejected)
	cell, err := store.Repositories().Stock.Get(ctx, "A", "main")
	require.NoError(t, err)
	assert.Zero(t, cell.Quantity)
}
