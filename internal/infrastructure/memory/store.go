// Package memory implementa los puertos de persistencia en memoria. Run serializa las transacciones
// sobre una copia del estado y solo la publica si fn no devuelve error (rollback implícito).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stock-engine/internal/application/inventory"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type cellKey struct {
	variantID string
	branchID  string
}

type state struct {
	stock        map[cellKey]entity.Stock
	adjustments  []*entity.Adjustment
	seq          int64
	products     map[string]*entity.Product
	productOrder []string
	consignments map[string]*entity.Consignment
	returns      map[string]*entity.ReturnRequest
	sales        map[string]*entity.Sale
	branches     map[string]*entity.Branch
	customers    map[string]*entity.Customer
}

func newState() *state {
	return &state{
		stock:        make(map[cellKey]entity.Stock),
		products:     make(map[string]*entity.Product),
		consignments: make(map[string]*entity.Consignment),
		returns:      make(map[string]*entity.ReturnRequest),
		sales:        make(map[string]*entity.Sale),
		branches:     make(map[string]*entity.Branch),
		customers:    make(map[string]*entity.Customer),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.stock {
		c.stock[k] = v
	}
	// Las entradas de la bitácora son inmutables: se comparten.
	c.adjustments = append([]*entity.Adjustment(nil), s.adjustments...)
	c.seq = s.seq
	for k, p := range s.products {
		c.products[k] = p.Clone()
	}
	c.productOrder = append([]string(nil), s.productOrder...)
	for k, v := range s.consignments {
		c.consignments[k] = cloneConsignment(v)
	}
	for k, v := range s.returns {
		c.returns[k] = cloneReturn(v)
	}
	for k, v := range s.sales {
		c.sales[k] = v
	}
	for k, v := range s.branches {
		c.branches[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	return c
}

// view da acceso al estado: con bloqueo del store (fuera de tx) o directo (dentro de tx).
type view func(fn func(st *state) error) error

// Store almacenamiento en memoria; seguro para uso concurrente.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) locked(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// Repositories devuelve repositorios fuera de transacción (cada llamada es atómica por sí sola).
func (s *Store) Repositories() repository.TxRepositories {
	return reposFor(s.locked)
}

// Branches repositorio de sucursales.
func (s *Store) Branches() *BranchRepo { return &BranchRepo{v: s.locked} }

// Customers repositorio de clientes.
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{v: s.locked} }

// Run ejecuta fn con repositorios atados a una transacción. Las transacciones se serializan,
// lo que linealiza cada celda del ledger; si fn falla, ningún cambio es visible.
func (s *Store) Run(ctx context.Context, fn func(repos repository.TxRepositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.st.clone()
	direct := func(f func(st *state) error) error { return f(tx) }
	if err := fn(reposFor(direct)); err != nil {
		return err
	}
	s.st = tx
	return nil
}

func reposFor(v view) repository.TxRepositories {
	return repository.TxRepositories{
		Stock:        &StockRepo{v: v},
		Adjustments:  &AdjustmentRepo{v: v},
		Catalog:      &CatalogRepo{v: v},
		Consignments: &ConsignmentRepo{v: v},
		Returns:      &ReturnRepo{v: v},
		Sales:        &SaleRepo{v: v},
	}
}
