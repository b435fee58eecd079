package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Las lecturas devuelven el error del acceso al estado en lugar de responder vacío.
func TestRepos_LecturasPropaganErrorDeAcceso(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("estado no disponible")
	repos := reposFor(func(func(st *state) error) error { return boom })

	stock, err := repos.Stock.Get(ctx, "v1", "main")
	require.ErrorIs(t, err, boom)
	assert.Nil(t, stock)

	_, err = repos.Stock.ListByBranch(ctx, "main")
	assert.ErrorIs(t, err, boom)
	_, err = repos.Catalog.GetProduct(ctx, "p1")
	assert.ErrorIs(t, err, boom)
	_, err = repos.Catalog.GetVariantBySKU(ctx, "SKU-1")
	assert.ErrorIs(t, err, boom)
	_, err = repos.Returns.GetByID(ctx, "r1")
	assert.ErrorIs(t, err, boom)
	_, err = repos.Adjustments.DeltasFor(ctx, "v1", "main")
	assert.ErrorIs(t, err, boom)
}
