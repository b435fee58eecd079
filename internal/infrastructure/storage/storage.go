// Package storage arma el backend de persistencia configurado (memoria o PostgreSQL).
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-engine/internal/application/inventory"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
	"github.com/jhoicas/stock-engine/internal/infrastructure/memory"
	"github.com/jhoicas/stock-engine/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-engine/pkg/config"
)

// BranchStore lectura de sucursales más el alta usada al sembrar datos de referencia.
type BranchStore interface {
	repository.BranchRepository
	Upsert(ctx context.Context, b *entity.Branch) error
}

// Backend repositorios y runner de transacciones del driver elegido.
type Backend struct {
	Driver    string
	TxRunner  inventory.TxRunner
	Repos     repository.TxRepositories // fuera de transacción
	Branches  BranchStore
	Customers repository.CustomerRepository
	close     func()
}

// Close libera el pool (postgres). En memoria no hace nada.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open construye el backend y siembra las sucursales configuradas.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	var b *Backend
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		store := memory.NewStore()
		b = &Backend{
			Driver:    config.StorageMemory,
			TxRunner:  store,
			Repos:     store.Repositories(),
			Branches:  store.Branches(),
			Customers: store.Customers(),
		}
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.Storage.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}
		b = &Backend{
			Driver:    config.StoragePostgres,
			TxRunner:  postgres.NewTxRunner(pool),
			Repos:     postgres.Repositories(pool),
			Branches:  postgres.NewBranchRepository(pool),
			Customers: postgres.NewCustomerRepository(pool),
			close:     pool.Close,
		}
	default:
		return nil, fmt.Errorf("storage: driver %q no soportado", cfg.Storage.Driver)
	}

	if err := seedBranches(ctx, b.Branches, cfg.Storage.Branches()); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

// seedBranches registra las sucursales que aún no existen; las existentes no se tocan.
func seedBranches(ctx context.Context, repo BranchStore, branches map[string]string) error {
	now := time.Now()
	for id, name := range branches {
		existing, err := repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("sembrar sucursal %s: %w", id, err)
		}
		if existing != nil {
			continue
		}
		if err := repo.Upsert(ctx, &entity.Branch{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}); err != nil {
			return fmt.Errorf("sembrar sucursal %s: %w", id, err)
		}
	}
	return nil
}
