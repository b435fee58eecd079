package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo celdas del ledger sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `variant_id, branch_id, quantity, updated_at`

// Get obtiene la celda; si no existe devuelve cantidad cero.
func (r *StockRepo) Get(ctx context.Context, variantID, branchID string) (*entity.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stock WHERE variant_id = $1 AND branch_id = $2`
	return r.getOne(ctx, query, variantID, branchID)
}

// GetForUpdate crea la fila si falta y la bloquea (SELECT FOR UPDATE) hasta el fin de la transacción,
// así la primera escritura de una celda también queda serializada.
func (r *StockRepo) GetForUpdate(ctx context.Context, variantID, branchID string) (*entity.Stock, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock (variant_id, branch_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (variant_id, branch_id) DO NOTHING`, variantID, branchID)
	if err != nil {
		return nil, fmt.Errorf("ensure stock cell: %w", err)
	}
	query := `SELECT ` + stockColumns + ` FROM stock WHERE variant_id = $1 AND branch_id = $2 FOR UPDATE`
	return r.getOne(ctx, query, variantID, branchID)
}

func (r *StockRepo) getOne(ctx context.Context, query, variantID, branchID string) (*entity.Stock, error) {
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, variantID, branchID).Scan(&s.VariantID, &s.BranchID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{VariantID: variantID, BranchID: branchID}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad de la celda.
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.Stock) error {
	query := `
		INSERT INTO stock (variant_id, branch_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (variant_id, branch_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(ctx, query, stock.VariantID, stock.BranchID, stock.Quantity)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: variante %s en sucursal %s", domain.ErrInsufficientStock, stock.VariantID, stock.BranchID)
		}
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// ListByBranch celdas de una sucursal.
func (r *StockRepo) ListByBranch(ctx context.Context, branchID string) ([]*entity.Stock, error) {
	return r.list(ctx, `SELECT `+stockColumns+` FROM stock WHERE branch_id = $1 ORDER BY variant_id`, branchID)
}

// ListByVariants celdas de las variantes indicadas en todas las sucursales.
func (r *StockRepo) ListByVariants(ctx context.Context, variantIDs []string) ([]*entity.Stock, error) {
	if len(variantIDs) == 0 {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+stockColumns+` FROM stock WHERE variant_id = ANY($1) ORDER BY variant_id, branch_id`, variantIDs)
}

func (r *StockRepo) list(ctx context.Context, query string, arg any) ([]*entity.Stock, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.Stock
	for rows.Next() {
		var s entity.Stock
		if err := rows.Scan(&s.VariantID, &s.BranchID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
