package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
)

// ReturnRequestRepository puerto de la cola de devoluciones.
type ReturnRequestRepository interface {
	Create(ctx context.Context, r *entity.ReturnRequest) error
	GetByID(ctx context.Context, id string) (*entity.ReturnRequest, error)
	// Resolve pasa la solicitud de pending a status de forma atómica y la devuelve.
	// Devuelve (nil, nil) si la solicitud no existe o ya no está pendiente.
	Resolve(ctx context.Context, id, status, actor string, at time.Time) (*entity.ReturnRequest, error)
	ListPending(ctx context.Context, branchID string) ([]*entity.ReturnRequest, error)
}
