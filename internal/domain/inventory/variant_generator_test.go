package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/inventory"
)

func TestGenerateVariants_ProductoCartesianoEnOrden(t *testing.T) {
	opts := []entity.OptionDefinition{
		{Name: "Talla", Values: []string{"S", " M ", ""}},
		{Name: "Color", Values: []string{"Rojo", "Azul"}},
	}

	variants, err := inventory.GenerateVariants("p1", opts, nil)
	require.NoError(t, err)
	require.Len(t, variants, 4, "2 tallas x 2 colores")

	want := []map[string]string{
		{"Talla": "S", "Color": "Rojo"},
		{"Talla": "S", "Color": "Azul"},
		{"Talla": "M", "Color": "Rojo"},
		{"Talla": "M", "Color": "Azul"},
	}
	for i, v := range variants {
		assert.Equal(t, want[i], v.Options, "la primera opción varía más lento")
		assert.True(t, inventory.IsTempID(v.ID))
		assert.True(t, v.Price.IsZero())
		assert.Equal(t, entity.DefaultLowStockThreshold, v.LowStockThreshold)
	}
}

func TestGenerateVariants_ReutilizaVariantesExistentes(t *testing.T) {
	existing := []*entity.Variant{
		{ID: "p1_0", SKU: "CAM-S", Price: decimal.NewFromInt(25000), Options: map[string]string{"Talla": "S"}},
		{ID: "p1_1", SKU: "CAM-M", Price: decimal.NewFromInt(26000), Options: map[string]string{"Talla": "M"}},
	}
	opts := []entity.OptionDefinition{{Name: "Talla", Values: []string{"M", "L"}}}

	variants, err := inventory.GenerateVariants("p1", opts, existing)
	require.NoError(t, err)
	require.Len(t, variants, 2)

	assert.Equal(t, "p1_1", variants[0].ID, "M conserva su ID")
	assert.Equal(t, "CAM-M", variants[0].SKU)
	assert.True(t, decimal.NewFromInt(26000).Equal(variants[0].Price))
	assert.True(t, inventory.IsTempID(variants[1].ID), "L es nueva")

	variants[0].Options["Talla"] = "XL"
	assert.Equal(t, "M", existing[1].Options["Talla"], "la variante reutilizada es una copia")
}

func TestGenerateVariants_NombresYValoresDesbalanceados(t *testing.T) {
	cases := map[string][]entity.OptionDefinition{
		"nombre sin valores": {{Name: "Talla", Values: []string{"S"}}, {Name: "Color", Values: []string{" ", ""}}},
		"valores sin nombre": {{Name: "Talla", Values: []string{"S"}}, {Name: " ", Values: []string{"Rojo"}}},
		"opción repetida":    {{Name: "Talla", Values: []string{"S"}}, {Name: "Talla", Values: []string{"M"}}},
		"sin opciones":       nil,
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			variants, err := inventory.GenerateVariants("p1", opts, nil)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Nil(t, variants)
		})
	}
}

func TestCollapseToSimple(t *testing.T) {
	v := inventory.CollapseToSimple("p1", nil)
	require.Len(t, v, 1)
	assert.Empty(t, v[0].Options)

	existing := []*entity.Variant{
		{ID: "p1_0", SKU: "A", Options: map[string]string{"Talla": "S"}},
		{ID: "p1_1", SKU: "B", Options: map[string]string{"Talla": "M"}},
	}
	v = inventory.CollapseToSimple("p1", existing)
	require.Len(t, v, 1)
	assert.Equal(t, "p1_0", v[0].ID)
	assert.Empty(t, v[0].Options)
	assert.Equal(t, "S", existing[0].Options["Talla"])
}

func TestFinalizeVariantIDs_EvitaColisiones(t *testing.T) {
	variants := []*entity.Variant{
		{ID: "tmp_0"},
		{ID: "p1_1", SKU: "KEEP"},
		{ID: "tmp_2", SKU: "CUSTOM"},
		{ID: "tmp_3"},
	}
	next := inventory.FinalizeVariantIDs("p1", 0, variants)

	assert.Equal(t, 4, next)
	assert.Equal(t, "p1_0", variants[0].ID)
	assert.Equal(t, "P1_0", variants[0].SKU)
	assert.Equal(t, "p1_1", variants[1].ID)
	assert.Equal(t, "p1_2", variants[2].ID)
	assert.Equal(t, "CUSTOM", variants[2].SKU)
	assert.Equal(t, "p1_3", variants[3].ID)

	variants = []*entity.Variant{{ID: "tmp_0"}, {ID: "p1_0"}}
	inventory.FinalizeVariantIDs("p1", 0, variants)
	assert.Equal(t, "p1_1", variants[0].ID, "p1_0 ya está tomado")
	for _, v := range variants {
		assert.Equal(t, "p1", v.ProductID)
	}
}

func TestFinalizeVariantIDs_NoReasignaIndicesPrevios(t *testing.T) {
	// p1_0 y p1_1 existieron y fueron eliminadas: el producto guarda NextVariantIndex=2
	variants := []*entity.Variant{{ID: "tmp_0"}, {ID: "tmp_1"}}
	next := inventory.FinalizeVariantIDs("p1", 2, variants)
	assert.Equal(t, "p1_2", variants[0].ID)
	assert.Equal(t, "p1_3", variants[1].ID)
	assert.Equal(t, 4, next)

	// una variante conservada por encima del contador también lo empuja
	variants = []*entity.Variant{{ID: "p1_7"}, {ID: "tmp_1"}}
	next = inventory.FinalizeVariantIDs("p1", 2, variants)
	assert.Equal(t, "p1_2", variants[1].ID)
	assert.Equal(t, 8, next)
}

func TestOptionsSignature_NormalizaUnicode(t *testing.T) {
	composed := map[string]string{"Tamaño": "Pequeño"}
	decomposed := map[string]string{"Taman\u0303o": "Pequen\u0303o"}
	assert.Equal(t, inventory.OptionsSignature(composed), inventory.OptionsSignature(decomposed))
	assert.NotEqual(t,
		inventory.OptionsSignature(map[string]string{"a": "b"}),
		inventory.OptionsSignature(map[string]string{"a": "c"}))
}

func TestSplitOptionValues(t *testing.T) {
	assert.Equal(t, []string{"S", "M", "L", "M"}, inventory.SplitOptionValues(" S, M ,,L,M "))
	assert.Empty(t, inventory.SplitOptionValues(" , "))
}

func TestVariantLabel(t *testing.T) {
	p := &entity.Product{Name: "Camiseta", Options: []entity.OptionDefinition{{Name: "Talla"}, {Name: "Color"}}}
	v := &entity.Variant{Options: map[string]string{"Color": "Rojo", "Talla": "S"}}
	assert.Equal(t, "Camiseta (S / Rojo)", inventory.VariantLabel(p, v))
	assert.Equal(t, "Camiseta", inventory.VariantLabel(p, &entity.Variant{}))
}
