package memory

import (
	"context"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas de reporte en memoria.
type SaleRepo struct {
	v view
}

// Create guarda la venta.
func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	return r.v(func(st *state) error {
		c := *sale
		c.Items = append([]entity.SaleItem(nil), sale.Items...)
		st.sales[sale.ID] = &c
		return nil
	})
}

// GetByID devuelve (nil, nil) si no existe.
func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	if err := r.v(func(st *state) error {
		if s, ok := st.sales[id]; ok {
			c := *s
			out = &c
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}
