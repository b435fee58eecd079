package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

var (
	_ repository.BranchRepository   = (*BranchRepo)(nil)
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
)

// BranchRepo sucursales en memoria.
type BranchRepo struct {
	v view
}

// Upsert registra o reemplaza una sucursal (datos de referencia).
func (r *BranchRepo) Upsert(_ context.Context, b *entity.Branch) error {
	return r.v(func(st *state) error {
		c := *b
		st.branches[b.ID] = &c
		return nil
	})
}

// GetByID devuelve (nil, nil) si no existe.
func (r *BranchRepo) GetByID(_ context.Context, id string) (*entity.Branch, error) {
	var out *entity.Branch
	if err := r.v(func(st *state) error {
		if b, ok := st.branches[id]; ok {
			c := *b
			out = &c
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// List sucursales ordenadas por nombre.
func (r *BranchRepo) List(_ context.Context) ([]*entity.Branch, error) {
	var out []*entity.Branch
	if err := r.v(func(st *state) error {
		for _, b := range st.branches {
			c := *b
			out = append(out, &c)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CustomerRepo clientes en memoria.
type CustomerRepo struct {
	v view
}

// Create registra un cliente.
func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	return r.v(func(st *state) error {
		cc := *c
		st.customers[c.ID] = &cc
		return nil
	})
}

// GetByID devuelve (nil, nil) si no existe.
func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	if err := r.v(func(st *state) error {
		if c, ok := st.customers[id]; ok {
			cc := *c
			out = &cc
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// List clientes ordenados por nombre.
func (r *CustomerRepo) List(_ context.Context, limit, offset int) ([]*entity.Customer, error) {
	var all []*entity.Customer
	if err := r.v(func(st *state) error {
		for _, c := range st.customers {
			cc := *c
			all = append(all, &cc)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginate(all, limit, offset), nil
}
