package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

var _ repository.ReturnRequestRepository = (*ReturnRepo)(nil)

// ReturnRepo cola de devoluciones sobre PostgreSQL.
type ReturnRepo struct {
	q Querier
}

// NewReturnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReturnRepository(q Querier) *ReturnRepo {
	return &ReturnRepo{q: q}
}

const returnColumns = `id, sale_id, branch_id, items, total_refund, requested_by, status, created_at, resolved_at, resolved_by`

// Create encola una solicitud.
func (r *ReturnRepo) Create(ctx context.Context, req *entity.ReturnRequest) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO return_requests (`+returnColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		req.ID, req.SaleID, req.BranchID, req.Items, req.TotalRefund, req.RequestedBy, req.Status,
		req.CreatedAt, req.ResolvedAt, req.ResolvedBy,
	)
	if err != nil {
		return fmt.Errorf("insert return request: %w", err)
	}
	return nil
}

// GetByID (nil, nil) si no existe.
func (r *ReturnRepo) GetByID(ctx context.Context, id string) (*entity.ReturnRequest, error) {
	req, err := scanReturn(r.q.QueryRow(ctx, `SELECT `+returnColumns+` FROM return_requests WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return req, nil
}

// Resolve transición condicional: solo la primera llamada sobre una solicitud pendiente afecta la fila.
func (r *ReturnRepo) Resolve(ctx context.Context, id, status, actor string, at time.Time) (*entity.ReturnRequest, error) {
	req, err := scanReturn(r.q.QueryRow(ctx, `
		UPDATE return_requests SET status = $2, resolved_by = $3, resolved_at = $4
		WHERE id = $1 AND status = 'pending'
		RETURNING `+returnColumns, id, status, actor, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return req, nil
}

// ListPending solicitudes pendientes en orden de llegada.
func (r *ReturnRepo) ListPending(ctx context.Context, branchID string) ([]*entity.ReturnRequest, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+returnColumns+` FROM return_requests
		WHERE status = 'pending' AND ($1 = '' OR branch_id = $1)
		ORDER BY created_at, id`, branchID)
	if err != nil {
		return nil, fmt.Errorf("list pending returns: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReturnRequest
	for rows.Next() {
		req, err := scanReturn(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

func scanReturn(row pgx.Row) (*entity.ReturnRequest, error) {
	var req entity.ReturnRequest
	err := row.Scan(&req.ID, &req.SaleID, &req.BranchID, &req.Items, &req.TotalRefund, &req.RequestedBy,
		&req.Status, &req.CreatedAt, &req.ResolvedAt, &req.ResolvedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan return request: %w", err)
	}
	return &req, nil
}
