package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

// StockLedger es el único componente que muta cantidades. Debe construirse sobre un
// StockRepository atado a una transacción: GetForUpdate bloquea la celda hasta el Commit/Rollback,
// por lo que leer-verificar-escribir no se intercala con otro escritor de la misma celda.
type StockLedger struct {
	repo repository.StockRepository
	now  func() time.Time
}

// NewStockLedger construye el ledger sobre el repositorio de stock de la transacción.
func NewStockLedger(repo repository.StockRepository) *StockLedger {
	return &StockLedger{repo: repo, now: time.Now}
}

// SetStock fija la cantidad de la celda y devuelve el delta aplicado (nueva - actual).
func (l *StockLedger) SetStock(ctx context.Context, variantID, branchID string, newQuantity int64) (int64, error) {
	if newQuantity < 0 {
		return 0, fmt.Errorf("%w: cantidad negativa %d", domain.ErrInvalidInput, newQuantity)
	}
	cell, err := l.repo.GetForUpdate(ctx, variantID, branchID)
	if err != nil {
		return 0, err
	}
	delta := newQuantity - cell.Quantity
	if delta == 0 {
		return 0, nil
	}
	cell.Quantity = newQuantity
	cell.UpdatedAt = l.now()
	if err := l.repo.Upsert(ctx, cell); err != nil {
		return 0, err
	}
	return delta, nil
}

// ApplyDelta suma delta a la celda. Si el resultado fuera negativo devuelve domain.ErrInsufficientStock
// y la celda queda intacta.
func (l *StockLedger) ApplyDelta(ctx context.Context, variantID, branchID string, delta int64) error {
	cell, err := l.repo.GetForUpdate(ctx, variantID, branchID)
	if err != nil {
		return err
	}
	next := cell.Quantity + delta
	if next < 0 {
		return fmt.Errorf("%w: variante %s en sucursal %s (disponible %d, solicitado %d)",
			domain.ErrInsufficientStock, variantID, branchID, cell.Quantity, -delta)
	}
	if delta == 0 {
		return nil
	}
	cell.Quantity = next
	cell.UpdatedAt = l.now()
	return l.repo.Upsert(ctx, cell)
}

// Quantity lee la cantidad actual de la celda bloqueándola.
func (l *StockLedger) Quantity(ctx context.Context, variantID, branchID string) (int64, error) {
	cell, err := l.repo.GetForUpdate(ctx, variantID, branchID)
	if err != nil {
		return 0, err
	}
	return cell.Quantity, nil
}

// CellRef identifica una celda del ledger.
type CellRef struct {
	VariantID string
	BranchID  string
}

// LockCells bloquea las celdas en orden (variante, sucursal), sin repetir. Toda operación que toca
// varias celdas las bloquea en este mismo orden, así dos transacciones concurrentes no se esperan en ciclo.
func (l *StockLedger) LockCells(ctx context.Context, cells ...CellRef) error {
	sorted := append([]CellRef(nil), cells...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].VariantID != sorted[j].VariantID {
			return sorted[i].VariantID < sorted[j].VariantID
		}
		return sorted[i].BranchID < sorted[j].BranchID
	})
	for i, c := range sorted {
		if i > 0 && c == sorted[i-1] {
			continue
		}
		if _, err := l.repo.GetForUpdate(ctx, c.VariantID, c.BranchID); err != nil {
			return err
		}
	}
	return nil
}

// CheckDeductions verifica, con las celdas bloqueadas en orden de variante, que descontar cada
// cantidad (agrupada por variante) no deja ninguna celda negativa. No modifica nada.
func (l *StockLedger) CheckDeductions(ctx context.Context, branchID string, quantities map[string]int64) error {
	ids := make([]string, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, variantID := range ids {
		qty := quantities[variantID]
		current, err := l.Quantity(ctx, variantID, branchID)
		if err != nil {
			return err
		}
		if current < qty {
			return fmt.Errorf("%w: variante %s en sucursal %s (disponible %d, solicitado %d)",
				domain.ErrInsufficientStock, variantID, branchID, current, qty)
		}
	}
	return nil
}
