package repository

import (
	"context"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
)

// BranchRepository puerto de lectura de sucursales (datos de referencia).
type BranchRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Branch, error)
	List(ctx context.Context) ([]*entity.Branch, error)
}
