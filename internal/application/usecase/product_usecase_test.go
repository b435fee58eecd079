package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-engine/internal/application/dto"
	"github.com/jhoicas/stock-engine/internal/application/usecase"
	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/infrastructure/memory"
	"github.com/jhoicas/stock-engine/internal/infrastructure/notify"
)

func newProductUseCase() (*usecase.ProductUseCase, *memory.Store, *notify.Recorder) {
	store := memory.NewStore()
	rec := &notify.Recorder{}
	return usecase.NewProductUseCase(store, store.Repositories().Catalog, rec), store, rec
}

func skus(p *dto.ProductResponse) []string {
	out := make([]string, len(p.Variants))
	for i, v := range p.Variants {
		out[i] = v.SKU
	}
	return out
}

func TestProductUseCase_CrearConOpciones(t *testing.T) {
	uc, _, rec := newProductUseCase()
	price := decimal.NewFromInt(30000)

	p, err := uc.Save(context.Background(), dto.SaveProductRequest{
		Name:       " Camiseta ",
		HasOptions: true,
		Options: []dto.OptionDefinitionRequest{
			{Name: "Talla", RawValues: "S, M"},
			{Name: "Color", Values: []string{"Rojo", "Azul"}},
		},
		Variants: []dto.VariantInput{
			{Options: map[string]string{"Talla": "M", "Color": "Azul"}, SKU: "CAM-M-AZ", Price: &price},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Camiseta", p.Name)
	require.Len(t, p.Variants, 4)
	for i, v := range p.Variants {
		assert.Equal(t, p.ID+"_"+string(rune('0'+i)), v.ID)
		assert.Equal(t, entity.DefaultLowStockThreshold, v.LowStockThreshold)
	}
	assert.Equal(t, "CAM-M-AZ", p.Variants[3].SKU)
	assert.True(t, price.Equal(p.Variants[3].Price))
	require.Len(t, p.Options, 2)
	assert.Equal(t, []string{"S", "M"}, p.Options[0].Values)

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, "product.save", last.Operation)
}

func TestProductUseCase_RegenerarConservaVariantes(t *testing.T) {
	uc, store, _ := newProductUseCase()
	ctx := context.Background()
	p, err := uc.Save(ctx, dto.SaveProductRequest{
		Name: "Camiseta", HasOptions: true,
		Options: []dto.OptionDefinitionRequest{{Name: "Talla", Values: []string{"S", "M"}}},
	})
	require.NoError(t, err)
	keptID := p.Variants[1].ID
	keptSKU := p.Variants[1].SKU
	require.NoError(t, store.Repositories().Stock.Upsert(ctx, &entity.Stock{VariantID: keptID, BranchID: "main", Quantity: 7}))

	p, err = uc.Save(ctx, dto.SaveProductRequest{
		ID: p.ID, Name: "Camiseta", HasOptions: true,
		Options: []dto.OptionDefinitionRequest{{Name: "Talla", Values: []string{"M", "L"}}},
	})
	require.NoError(t, err)
	require.Len(t, p.Variants, 2)
	assert.Equal(t, keptID, p.Variants[0].ID, "M conserva ID")
	assert.Equal(t, keptSKU, p.Variants[0].SKU)
	assert.NotEqual(t, keptID, p.Variants[1].ID)
	assert.Equal(t, p.ID+"_2", p.Variants[1].ID, "toma el siguiente índice nunca asignado")

	cell, err := store.Repositories().Stock.Get(ctx, keptID, "main")
	require.NoError(t, err)
	assert.Equal(t, int64(7), cell.Quantity, "el stock de la variante conservada no cambia")

	p, err = uc.Save(ctx, dto.SaveProductRequest{ID: p.ID, Name: "Camiseta"})
	require.NoError(t, err)
	require.Len(t, p.Variants, 1, "sin opciones colapsa a una variante")
	assert.Equal(t, keptID, p.Variants[0].ID)
	assert.Empty(t, p.Variants[0].Options)
}

func TestProductUseCase_VarianteNuevaNoHeredaStockDeUnaEliminada(t *testing.T) {
	uc, store, _ := newProductUseCase()
	ctx := context.Background()
	repos := store.Repositories()

	p, err := uc.Save(ctx, dto.SaveProductRequest{
		Name: "Camiseta", HasOptions: true,
		Options: []dto.OptionDefinitionRequest{{Name: "Talla", Values: []string{"S", "M"}}},
	})
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, v := range p.Variants {
		seen[v.ID] = true
	}
	removedID, removedSKU := p.Variants[0].ID, p.Variants[0].SKU
	require.NoError(t, repos.Stock.Upsert(ctx, &entity.Stock{VariantID: removedID, BranchID: "main", Quantity: 5}))
	require.NoError(t, repos.Adjustments.Append(ctx, &entity.Adjustment{
		ID: "adj-s", BranchID: "main", Type: entity.AdjustmentManual,
		Items: []entity.AdjustmentItem{{VariantID: removedID, Delta: 5}},
	}))

	// S sale del producto y entra L en su misma posición
	p, err = uc.Save(ctx, dto.SaveProductRequest{
		ID: p.ID, Name: "Camiseta", HasOptions: true,
		Options: []dto.OptionDefinitionRequest{{Name: "Talla", Values: []string{"L", "M"}}},
	})
	require.NoError(t, err)
	require.Len(t, p.Variants, 2)
	large := p.Variants[0]
	assert.Equal(t, "L", large.Options["Talla"])
	assert.NotEqual(t, removedID, large.ID)
	assert.NotEqual(t, removedSKU, large.SKU)
	assert.False(t, seen[large.ID])
	seen[large.ID] = true

	cell, err := repos.Stock.Get(ctx, large.ID, "main")
	require.NoError(t, err)
	assert.Zero(t, cell.Quantity, "una variante nueva arranca sin stock")
	deltas, err := repos.Adjustments.DeltasFor(ctx, large.ID, "main")
	require.NoError(t, err)
	assert.Empty(t, deltas, "ni con historial ajeno")

	// Apagar y volver a encender opciones tampoco recicla IDs
	_, err = uc.Save(ctx, dto.SaveProductRequest{ID: p.ID, Name: "Camiseta"})
	require.NoError(t, err)
	p, err = uc.Save(ctx, dto.SaveProductRequest{
		ID: p.ID, Name: "Camiseta", HasOptions: true,
		Options: []dto.OptionDefinitionRequest{{Name: "Talla", Values: []string{"S", "M"}}},
	})
	require.NoError(t, err)
	for _, v := range p.Variants {
		assert.False(t, seen[v.ID], "ID %s ya se había asignado", v.ID)
		cell, err := repos.Stock.Get(ctx, v.ID, "main")
		require.NoError(t, err)
		assert.Zero(t, cell.Quantity)
	}
}

func TestProductUseCase_Errores(t *testing.T) {
	uc, _, _ := newProductUseCase()
	ctx := context.Background()

	_, err := uc.Save(ctx, dto.SaveProductRequest{Name: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Save(ctx, dto.SaveProductRequest{ID: "nope", Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Save(ctx, dto.SaveProductRequest{
		Name: "X", HasOptions: true,
		Options: []dto.OptionDefinitionRequest{{Name: "Talla", Values: []string{"S"}}, {Name: "Color"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	first, err := uc.Save(ctx, dto.SaveProductRequest{Name: "Gorra", Variants: []dto.VariantInput{{SKU: "GOR-1"}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"GOR-1"}, skus(first))
	_, err = uc.Save(ctx, dto.SaveProductRequest{Name: "Otra", Variants: []dto.VariantInput{{SKU: "GOR-1"}}})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	list, err := uc.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page.Total, "los guardados fallidos no dejan rastro")
}

func TestProductUseCase_UpdateVariant(t *testing.T) {
	uc, _, _ := newProductUseCase()
	ctx := context.Background()
	a, err := uc.Save(ctx, dto.SaveProductRequest{Name: "A", Variants: []dto.VariantInput{{SKU: "A-1"}}})
	require.NoError(t, err)
	_, err = uc.Save(ctx, dto.SaveProductRequest{Name: "B", Variants: []dto.VariantInput{{SKU: "B-1"}}})
	require.NoError(t, err)

	sku := "A-2"
	price := decimal.NewFromInt(9900)
	threshold := int64(3)
	v, err := uc.UpdateVariant(ctx, a.Variants[0].ID, dto.UpdateVariantRequest{SKU: &sku, Price: &price, LowStockThreshold: &threshold})
	require.NoError(t, err)
	assert.Equal(t, "A-2", v.SKU)
	assert.True(t, price.Equal(v.Price))
	assert.Equal(t, int64(3), v.LowStockThreshold)

	dup := "B-1"
	_, err = uc.UpdateVariant(ctx, a.Variants[0].ID, dto.UpdateVariantRequest{SKU: &dup})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	neg := decimal.NewFromInt(-1)
	_, err = uc.UpdateVariant(ctx, a.Variants[0].ID, dto.UpdateVariantRequest{CostPrice: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.UpdateVariant(ctx, "nope", dto.UpdateVariantRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := uc.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "A-2", got.Variants[0].SKU)
	missing, err := uc.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCustomerUseCase(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewCustomerUseCase(store.Customers())
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateCustomerRequest{Name: "Sin NIT"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	c, err := uc.Create(ctx, dto.CreateCustomerRequest{Name: " Tienda ", TaxID: "900123456"})
	require.NoError(t, err)
	assert.Equal(t, "Tienda", c.Name)

	list, err := uc.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, c.ID, list[0].ID)
}
