package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-engine/pkg/config"
)

func TestOpen_MemorySeedsBranches(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.StorageMemory, SeedBranches: "main:Principal,norte:Norte"}}

	b, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer b.Close()

	list, err := b.Branches.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Norte", list[0].Name)
	assert.Equal(t, "Principal", list[1].Name)
	assert.NotNil(t, b.TxRunner)
	assert.NotNil(t, b.Repos.Stock)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{Storage: config.StorageConfig{Driver: "sqlite"}})
	assert.Error(t, err)
}
