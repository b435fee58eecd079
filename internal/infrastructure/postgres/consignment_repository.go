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

var _ repository.ConsignmentRepository = (*ConsignmentRepo)(nil)

// ConsignmentRepo consignaciones sobre PostgreSQL; las líneas van en JSONB.
type ConsignmentRepo struct {
	q Querier
}

// NewConsignmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewConsignmentRepository(q Querier) *ConsignmentRepo {
	return &ConsignmentRepo{q: q}
}

const consignmentColumns = `id, origin_branch_id, destination_address, carrier_id, driver_id, items, status,
	created_by, created_at, dispatched_at, delivered_at, sold_at, customer_id, invoice_number`

// Create persiste una consignación nueva.
func (r *ConsignmentRepo) Create(ctx context.Context, c *entity.Consignment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO consignments (`+consignmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		c.ID, c.OriginBranchID, c.DestinationAddress, c.CarrierID, c.DriverID, c.Items, c.Status,
		c.CreatedBy, c.CreatedAt, c.DispatchedAt, c.DeliveredAt, c.SoldAt, c.CustomerID, c.InvoiceNumber,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: consignación %s", domain.ErrDuplicate, c.ID)
		}
		return fmt.Errorf("insert consignment: %w", err)
	}
	return nil
}

// GetByID (nil, nil) si no existe.
func (r *ConsignmentRepo) GetByID(ctx context.Context, id string) (*entity.Consignment, error) {
	return r.getOne(ctx, `SELECT `+consignmentColumns+` FROM consignments WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila: dos despachos concurrentes de la misma consignación se serializan
// y el segundo ve el estado InTransit.
func (r *ConsignmentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Consignment, error) {
	return r.getOne(ctx, `SELECT `+consignmentColumns+` FROM consignments WHERE id = $1 FOR UPDATE`, id)
}

func (r *ConsignmentRepo) getOne(ctx context.Context, query, id string) (*entity.Consignment, error) {
	c, err := scanConsignment(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// Update guarda estado, fechas de transición, cliente y factura.
func (r *ConsignmentRepo) Update(ctx context.Context, c *entity.Consignment) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE consignments SET status = $2, dispatched_at = $3, delivered_at = $4, sold_at = $5,
			customer_id = $6, invoice_number = $7
		WHERE id = $1`,
		c.ID, c.Status, c.DispatchedAt, c.DeliveredAt, c.SoldAt, c.CustomerID, c.InvoiceNumber,
	)
	if err != nil {
		return fmt.Errorf("update consignment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: consignación %s", domain.ErrNotFound, c.ID)
	}
	return nil
}

// List consignaciones más recientes primero; status vacío no filtra.
func (r *ConsignmentRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Consignment, error) {
	limit, offset = pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+consignmentColumns+` FROM consignments
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list consignments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Consignment
	for rows.Next() {
		c, err := scanConsignment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanConsignment(row pgx.Row) (*entity.Consignment, error) {
	var c entity.Consignment
	err := row.Scan(&c.ID, &c.OriginBranchID, &c.DestinationAddress, &c.CarrierID, &c.DriverID, &c.Items, &c.Status,
		&c.CreatedBy, &c.CreatedAt, &c.DispatchedAt, &c.DeliveredAt, &c.SoldAt, &c.CustomerID, &c.InvoiceNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan consignment: %w", err)
	}
	return &c, nil
}
