package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

var _ repository.ConsignmentRepository = (*ConsignmentRepo)(nil)

// ConsignmentRepo consignaciones en memoria.
type ConsignmentRepo struct {
	v view
}

// Create guarda una consignación nueva.
func (r *ConsignmentRepo) Create(_ context.Context, c *entity.Consignment) error {
	return r.v(func(st *state) error {
		if _, ok := st.consignments[c.ID]; ok {
			return fmt.Errorf("%w: consignación %s", domain.ErrDuplicate, c.ID)
		}
		st.consignments[c.ID] = cloneConsignment(c)
		return nil
	})
}

// GetByID devuelve (nil, nil) si no existe.
func (r *ConsignmentRepo) GetByID(_ context.Context, id string) (*entity.Consignment, error) {
	var out *entity.Consignment
	if err := r.v(func(st *state) error {
		if c, ok := st.consignments[id]; ok {
			out = cloneConsignment(c)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// GetForUpdate en memoria equivale a GetByID.
func (r *ConsignmentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Consignment, error) {
	return r.GetByID(ctx, id)
}

// Update reemplaza una consignación existente.
func (r *ConsignmentRepo) Update(_ context.Context, c *entity.Consignment) error {
	return r.v(func(st *state) error {
		if _, ok := st.consignments[c.ID]; !ok {
			return fmt.Errorf("%w: consignación %s", domain.ErrNotFound, c.ID)
		}
		st.consignments[c.ID] = cloneConsignment(c)
		return nil
	})
}

// List consignaciones más recientes primero, opcionalmente filtradas por estado.
func (r *ConsignmentRepo) List(_ context.Context, status string, limit, offset int) ([]*entity.Consignment, error) {
	var all []*entity.Consignment
	if err := r.v(func(st *state) error {
		for _, c := range st.consignments {
			if status == "" || c.Status == status {
				all = append(all, cloneConsignment(c))
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return paginate(all, limit, offset), nil
}

func cloneConsignment(c *entity.Consignment) *entity.Consignment {
	out := *c
	out.Items = append([]entity.ConsignmentItem(nil), c.Items...)
	return &out
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
