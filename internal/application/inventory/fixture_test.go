package inventory_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-engine/internal/application/inventory"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/infrastructure/memory"
	"github.com/jhoicas/stock-engine/internal/infrastructure/notify"
)

// fixture store en memoria con dos sucursales y un catálogo pequeño:
// p1 Camiseta (v1 SKU1, v2 SKU2) y p2 Gorra (v3 SKU3).
type fixture struct {
	store    *memory.Store
	recorder *notify.Recorder
	log      *inventory.AdjustmentLog
	stock    *inventory.StockUseCase
	imports  *inventory.BulkImportUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Now()
	for _, b := range []*entity.Branch{{ID: "main", Name: "Principal"}, {ID: "norte", Name: "Norte"}} {
		b.CreatedAt, b.UpdatedAt = now, now
		require.NoError(t, store.Branches().Upsert(ctx, b))
	}
	repos := store.Repositories()
	catalog := []struct {
		product  *entity.Product
		variants []*entity.Variant
	}{
		{
			product: &entity.Product{ID: "p1", Name: "Camiseta", HasOptions: true,
				Options: []entity.OptionDefinition{{Name: "Talla", Values: []string{"S", "M"}}}},
			variants: []*entity.Variant{
				{ID: "v1", ProductID: "p1", SKU: "SKU1", Price: decimal.NewFromInt(25000), CostPrice: decimal.NewFromInt(100),
					LowStockThreshold: 5, Options: map[string]string{"Talla": "S"}},
				{ID: "v2", ProductID: "p1", SKU: "SKU2", Price: decimal.NewFromInt(26000), LowStockThreshold: 5,
					Options: map[string]string{"Talla": "M"}},
			},
		},
		{
			product:  &entity.Product{ID: "p2", Name: "Gorra"},
			variants: []*entity.Variant{{ID: "v3", ProductID: "p2", SKU: "SKU3", Price: decimal.NewFromInt(15000), LowStockThreshold: 10, Options: map[string]string{}}},
		},
	}
	for _, c := range catalog {
		require.NoError(t, repos.Catalog.UpsertProduct(ctx, c.product))
		require.NoError(t, repos.Catalog.UpsertVariants(ctx, c.product.ID, c.variants))
	}

	rec := &notify.Recorder{}
	log := inventory.NewAdjustmentLog()
	return &fixture{
		store:    store,
		recorder: rec,
		log:      log,
		stock:    inventory.NewStockUseCase(store, repos.Stock, repos.Catalog, repos.Adjustments, store.Branches(), log, rec),
		imports:  inventory.NewBulkImportUseCase(store, repos.Catalog, repos.Stock, store.Branches(), log, rec, 3),
	}
}

func (f *fixture) quantity(t *testing.T, variantID, branchID string) int64 {
	t.Helper()
	cell, err := f.store.Repositories().Stock.Get(context.Background(), variantID, branchID)
	require.NoError(t, err)
	return cell.Quantity
}

// replayMatches verifica que la bitácora reconstruye exactamente la cantidad del ledger.
func (f *fixture) replayMatches(t *testing.T, variantID, branchID string) {
	t.Helper()
	ledger, replayed, err := f.stock.Reconcile(context.Background(), variantID, branchID)
	require.NoError(t, err)
	require.Equal(t, ledger, replayed, "replay de %s@%s", variantID, branchID)
}

func ptr[T any](v T) *T { return &v }

func stringsReader(s string) *strings.Reader { return strings.NewReader(s) }
