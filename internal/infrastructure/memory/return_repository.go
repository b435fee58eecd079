package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

var _ repository.ReturnRequestRepository = (*ReturnRepo)(nil)

// ReturnRepo cola de devoluciones en memoria.
type ReturnRepo struct {
	v view
}

// Create agrega una solicitud.
func (r *ReturnRepo) Create(_ context.Context, req *entity.ReturnRequest) error {
	return r.v(func(st *state) error {
		if _, ok := st.returns[req.ID]; ok {
			return fmt.Errorf("%w: devolución %s", domain.ErrDuplicate, req.ID)
		}
		st.returns[req.ID] = cloneReturn(req)
		return nil
	})
}

// GetByID devuelve (nil, nil) si no existe.
func (r *ReturnRepo) GetByID(_ context.Context, id string) (*entity.ReturnRequest, error) {
	var out *entity.ReturnRequest
	if err := r.v(func(st *state) error {
		if req, ok := st.returns[id]; ok {
			out = cloneReturn(req)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// Resolve cambia pending -> status en un solo paso.
func (r *ReturnRepo) Resolve(_ context.Context, id, status, actor string, at time.Time) (*entity.ReturnRequest, error) {
	var out *entity.ReturnRequest
	if err := r.v(func(st *state) error {
		req, ok := st.returns[id]
		if !ok || req.Status != entity.ReturnPending {
			return nil
		}
		req.Status = status
		req.ResolvedBy = actor
		resolved := at
		req.ResolvedAt = &resolved
		out = cloneReturn(req)
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPending solicitudes pendientes, más antiguas primero.
func (r *ReturnRepo) ListPending(_ context.Context, branchID string) ([]*entity.ReturnRequest, error) {
	var out []*entity.ReturnRequest
	if err := r.v(func(st *state) error {
		for _, req := range st.returns {
			if req.Status != entity.ReturnPending {
				continue
			}
			if branchID != "" && req.BranchID != branchID {
				continue
			}
			out = append(out, cloneReturn(req))
		}
		return nil
	}); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func cloneReturn(r *entity.ReturnRequest) *entity.ReturnRequest {
	out := *r
	out.Items = append([]entity.ReturnItem(nil), r.Items...)
	return &out
}
