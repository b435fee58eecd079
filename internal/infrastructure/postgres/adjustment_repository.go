package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo bitácora de ajustes sobre PostgreSQL. Solo INSERT y SELECT.
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

// Append inserta la cabecera (seq lo asigna la secuencia) y sus líneas.
func (r *AdjustmentRepo) Append(ctx context.Context, entry *entity.Adjustment) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO stock_adjustments (id, ts, actor, branch_id, type, reference)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING seq`,
		entry.ID, entry.Timestamp, entry.Actor, entry.BranchID, entry.Type, entry.Reference,
	).Scan(&entry.Seq)
	if err != nil {
		return fmt.Errorf("insert adjustment: %w", err)
	}
	for i, it := range entry.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO stock_adjustment_items (adjustment_seq, line, variant_id, product_name, delta)
			VALUES ($1, $2, $3, $4, $5)`,
			entry.Seq, i, it.VariantID, it.ProductName, it.Delta,
		)
		if err != nil {
			return fmt.Errorf("insert adjustment item: %w", err)
		}
	}
	return nil
}

// List devuelve entradas de la más reciente a la más antigua con sus líneas.
func (r *AdjustmentRepo) List(ctx context.Context, filter repository.AdjustmentFilter) ([]*entity.Adjustment, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.BranchID != "" {
		add("a.branch_id = $%d", filter.BranchID)
	}
	if filter.Type != "" {
		add("a.type = $%d", filter.Type)
	}
	if !filter.From.IsZero() {
		add("a.ts >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("a.ts < $%d", filter.To)
	}
	if filter.VariantID != "" {
		add("EXISTS (SELECT 1 FROM stock_adjustment_items i WHERE i.adjustment_seq = a.seq AND i.variant_id = $%d)", filter.VariantID)
	}
	query := `SELECT a.seq, a.id, a.ts, a.actor, a.branch_id, a.type, a.reference FROM stock_adjustments a`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	limit, offset := pageArgs(filter.Limit, filter.Offset)
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY a.seq DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()
	var (
		list []*entity.Adjustment
		seqs []int64
	)
	bySeq := make(map[int64]*entity.Adjustment)
	for rows.Next() {
		var a entity.Adjustment
		if err := rows.Scan(&a.Seq, &a.ID, &a.Timestamp, &a.Actor, &a.BranchID, &a.Type, &a.Reference); err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		list = append(list, &a)
		seqs = append(seqs, a.Seq)
		bySeq[a.Seq] = &a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(seqs) == 0 {
		return list, nil
	}

	itemRows, err := r.q.Query(ctx, `
		SELECT adjustment_seq, variant_id, product_name, delta
		FROM stock_adjustment_items WHERE adjustment_seq = ANY($1)
		ORDER BY adjustment_seq, line`, seqs)
	if err != nil {
		return nil, fmt.Errorf("list adjustment items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var (
			seq int64
			it  entity.AdjustmentItem
		)
		if err := itemRows.Scan(&seq, &it.VariantID, &it.ProductName, &it.Delta); err != nil {
			return nil, fmt.Errorf("scan adjustment item: %w", err)
		}
		if a, ok := bySeq[seq]; ok {
			a.Items = append(a.Items, it)
		}
	}
	return list, itemRows.Err()
}

// DeltasFor deltas de la celda en orden de inserción.
func (r *AdjustmentRepo) DeltasFor(ctx context.Context, variantID, branchID string) ([]int64, error) {
	rows, err := r.q.Query(ctx, `
		SELECT i.delta
		FROM stock_adjustment_items i
		JOIN stock_adjustments a ON a.seq = i.adjustment_seq
		WHERE i.variant_id = $1 AND a.branch_id = $2
		ORDER BY a.seq, i.line`, variantID, branchID)
	if err != nil {
		return nil, fmt.Errorf("deltas for cell: %w", err)
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var d int64
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan delta: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
