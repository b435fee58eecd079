package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-engine/internal/application/dto"
	"github.com/jhoicas/stock-engine/internal/application/inventory"
	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

func TestStockUseCase_AjusteManualYConteo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.stock.Adjust(ctx, "ana", dto.AdjustStockRequest{
		BranchID: "main", VariantID: "v1", NewQuantity: ptr[int64](12), Reason: "inventario inicial",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), out.Delta)
	assert.Equal(t, int64(12), out.Quantity)
	assert.NotEmpty(t, out.AdjustmentID)

	out, err = f.stock.Adjust(ctx, "ana", dto.AdjustStockRequest{
		BranchID: "main", VariantID: "v1", Delta: ptr[int64](-5), Reason: "merma",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), out.Quantity)

	out, err = f.stock.Adjust(ctx, "ana", dto.AdjustStockRequest{
		BranchID: "main", VariantID: "v1", Type: entity.AdjustmentStockCount, NewQuantity: ptr[int64](9), Reason: "conteo",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.Delta)

	entries, err := f.stock.History(ctx, repository.AdjustmentFilter{VariantID: "v1"})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, entity.AdjustmentStockCount, entries[0].Type)
	assert.Equal(t, "conteo", entries[0].Reference)
	assert.Equal(t, "Camiseta", entries[0].Items[0].ProductName)
	f.replayMatches(t, "v1", "main")

	last, ok := f.recorder.Last()
	require.True(t, ok)
	assert.Equal(t, "stock.adjust", last.Operation)
	assert.Equal(t, inventory.SeveritySuccess, last.Severity)
}

func TestStockUseCase_AjusteSinDeltaNoRegistra(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.stock.Adjust(ctx, "ana", dto.AdjustStockRequest{
		BranchID: "main", VariantID: "v1", NewQuantity: ptr[int64](0), Reason: "nada",
	})
	require.NoError(t, err)
	assert.Zero(t, out.Delta)
	assert.Empty(t, out.AdjustmentID)
}

func TestStockUseCase_AjusteRechazado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := map[string]struct {
		in   dto.AdjustStockRequest
		want error
	}{
		"sin motivo":         {dto.AdjustStockRequest{BranchID: "main", VariantID: "v1", Delta: ptr[int64](1)}, domain.ErrInvalidInput},
		"delta y cantidad":   {dto.AdjustStockRequest{BranchID: "main", VariantID: "v1", Delta: ptr[int64](1), NewQuantity: ptr[int64](1), Reason: "x"}, domain.ErrInvalidInput},
		"conteo con delta":   {dto.AdjustStockRequest{BranchID: "main", VariantID: "v1", Type: entity.AdjustmentStockCount, Delta: ptr[int64](1), Reason: "x"}, domain.ErrInvalidInput},
		"recepción negativa": {dto.AdjustStockRequest{BranchID: "main", VariantID: "v1", Type: entity.AdjustmentPurchaseReceipt, Delta: ptr[int64](-1), Reason: "x"}, domain.ErrInvalidInput},
		"tipo de traslado":   {dto.AdjustStockRequest{BranchID: "main", VariantID: "v1", Type: entity.AdjustmentStockTransferIn, Delta: ptr[int64](1), Reason: "x"}, domain.ErrInvalidInput},
		"sucursal":           {dto.AdjustStockRequest{BranchID: "sur", VariantID: "v1", Delta: ptr[int64](1), Reason: "x"}, domain.ErrNotFound},
		"variante":           {dto.AdjustStockRequest{BranchID: "main", VariantID: "v9", Delta: ptr[int64](1), Reason: "x"}, domain.ErrNotFound},
		"stock negativo":     {dto.AdjustStockRequest{BranchID: "main", VariantID: "v1", Delta: ptr[int64](-1), Reason: "x"}, domain.ErrInsufficientStock},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.stock.Adjust(ctx, "ana", tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	entries, err := f.stock.History(ctx, repository.AdjustmentFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
	last, _ := f.recorder.Last()
	assert.Equal(t, inventory.SeverityWarning, last.Severity)
}

func TestStockUseCase_RecepcionRecalculaCosto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.stock.Adjust(ctx, "ana", dto.AdjustStockRequest{BranchID: "main", VariantID: "v1", NewQuantity: ptr[int64](10), Reason: "inicial"})
	require.NoError(t, err)

	cost := decimal.NewFromInt(200)
	out, err := f.stock.Adjust(ctx, "ana", dto.AdjustStockRequest{
		BranchID: "main", VariantID: "v1", Type: entity.AdjustmentPurchaseReceipt,
		Delta: ptr[int64](10), UnitCost: &cost, Reason: "OC-77",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(20), out.Quantity)

	v, err := f.store.Repositories().Catalog.GetVariant(ctx, "v1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(150).Equal(v.CostPrice), "costo promedio %s", v.CostPrice)
}

func TestStockUseCase_Traslado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.stock.Adjust(ctx, "ana", dto.AdjustStockRequest{BranchID: "main", VariantID: "v1", NewQuantity: ptr[int64](10), Reason: "inicial"})
	require.NoError(t, err)

	out, err := f.stock.Transfer(ctx, "ana", dto.TransferRequest{
		FromBranchID: "main", ToBranchID: "norte", Reference: "TR-1",
		Items: []dto.LineItem{{VariantID: "v1", Quantity: 3}, {VariantID: "v1", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "TR-1", out.Reference)
	assert.NotEmpty(t, out.OutEntryID)
	assert.NotEmpty(t, out.InEntryID)

	assert.Equal(t, int64(6), f.quantity(t, "v1", "main"))
	assert.Equal(t, int64(4), f.quantity(t, "v1", "norte"))
	f.replayMatches(t, "v1", "main")
	f.replayMatches(t, "v1", "norte")

	outs, err := f.stock.History(ctx, repository.AdjustmentFilter{Type: entity.AdjustmentStockTransferOut})
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, []entity.AdjustmentItem{{VariantID: "v1", ProductName: "Camiseta", Delta: -4}}, outs[0].Items, "líneas netas por variante")
}

func TestStockUseCase_TrasladoInsuficienteNoDescuentaNada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.imports.Import(ctx, stringsReader("sku,newQuantity\nSKU1,5\nSKU2,1\n"), inventory.ImportOptions{BranchID: "main"})
	require.NoError(t, err)

	_, err = f.stock.Transfer(ctx, "ana", dto.TransferRequest{
		FromBranchID: "main", ToBranchID: "norte",
		Items: []dto.LineItem{{VariantID: "v1", Quantity: 5}, {VariantID: "v2", Quantity: 2}},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(5), f.quantity(t, "v1", "main"))
	assert.Equal(t, int64(1), f.quantity(t, "v2", "main"))
	assert.Zero(t, f.quantity(t, "v1", "norte"))

	_, err = f.stock.Transfer(ctx, "ana", dto.TransferRequest{FromBranchID: "main", ToBranchID: "main", Items: []dto.LineItem{{VariantID: "v1", Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.stock.Transfer(ctx, "ana", dto.TransferRequest{FromBranchID: "main", ToBranchID: "norte", Items: []dto.LineItem{{VariantID: "v1", Quantity: 0}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStockUseCase_NivelesYEstado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.imports.Import(ctx, stringsReader("sku,newQuantity\nSKU1,3\nSKU2,20\n"), inventory.ImportOptions{BranchID: "main"})
	require.NoError(t, err)
	_, err = f.imports.Import(ctx, stringsReader("sku,newQuantity\nSKU1,4\n"), inventory.ImportOptions{BranchID: "norte"})
	require.NoError(t, err)

	levels, err := f.stock.BranchLevels(ctx, "main")
	require.NoError(t, err)
	require.Len(t, levels, 3)
	assert.Equal(t, "v1", levels[0].VariantID)
	assert.Equal(t, int64(3), levels[0].BranchStock)
	assert.Equal(t, int64(7), levels[0].TotalStock)
	assert.Equal(t, "lowStock", levels[0].Status)
	assert.Equal(t, "inStock", levels[1].Status)
	assert.Equal(t, "outOfStock", levels[2].Status)

	p, err := f.stock.ProductLevels(ctx, "p1", "main")
	require.NoError(t, err)
	assert.Equal(t, int64(23), p.BranchStock)
	assert.Equal(t, int64(27), p.TotalStock)
	assert.Equal(t, "inStock", p.Status)

	_, err = f.stock.ProductLevels(ctx, "p9", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.stock.BranchLevels(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStockUseCase_HistorialTipoInvalido(t *testing.T) {
	f := newFixture(t)
	_, err := f.stock.History(context.Background(), repository.AdjustmentFilter{Type: "Robo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNetItemsYAggregateQuantities(t *testing.T) {
	items := inventory.NetItems([]entity.AdjustmentItem{
		{VariantID: "a", Delta: 3}, {VariantID: "b", Delta: 1}, {VariantID: "a", Delta: -1}, {VariantID: "b", Delta: -1},
	})
	assert.Equal(t, []entity.AdjustmentItem{{VariantID: "a", Delta: 2}}, items)

	q, err := inventory.AggregateQuantities([]string{"a", "b", "a"}, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"a": 4, "b": 2}, q)

	_, err = inventory.AggregateQuantities([]string{"a"}, []int64{-1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = inventory.AggregateQuantities([]string{" "}, []int64{1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
