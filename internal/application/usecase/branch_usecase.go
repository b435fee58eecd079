package usecase

import (
	"context"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

// BranchUseCase consultas de sucursales (datos de referencia, solo lectura).
type BranchUseCase struct {
	repo repository.BranchRepository
}

// NewBranchUseCase construye el caso de uso.
func NewBranchUseCase(repo repository.BranchRepository) *BranchUseCase {
	return &BranchUseCase{repo: repo}
}

// GetByID obtiene una sucursal por ID. Devuelve (nil, nil) si no existe.
func (uc *BranchUseCase) GetByID(ctx context.Context, id string) (*entity.Branch, error) {
	return uc.repo.GetByID(ctx, id)
}

// List lista las sucursales.
func (uc *BranchUseCase) List(ctx context.Context) ([]*entity.Branch, error) {
	return uc.repo.List(ctx)
}
