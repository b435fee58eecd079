// Package returns administra la cola de devoluciones. Una solicitud se resuelve a lo sumo una vez:
// aprobarla reingresa las unidades al ledger y deja una venta Refunded para reportes.
package returns

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-engine/internal/application/dto"
	"github.com/jhoicas/stock-engine/internal/application/inventory"
	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	invdomain "github.com/jhoicas/stock-engine/internal/domain/inventory"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

// UseCase procesa solicitudes de devolución.
type UseCase struct {
	txRunner    inventory.TxRunner
	returnRepo  repository.ReturnRequestRepository
	catalogRepo repository.CatalogRepository
	branchRepo  repository.BranchRepository
	log         *inventory.AdjustmentLog
	notifier    inventory.Notifier
	now         func() time.Time
}

// NewUseCase construye el procesador de devoluciones.
func NewUseCase(
	txRunner inventory.TxRunner,
	returnRepo repository.ReturnRequestRepository,
	catalogRepo repository.CatalogRepository,
	branchRepo repository.BranchRepository,
	log *inventory.AdjustmentLog,
	notifier inventory.Notifier,
) *UseCase {
	if notifier == nil {
		notifier = inventory.NopNotifier{}
	}
	return &UseCase{
		txRunner:    txRunner,
		returnRepo:  returnRepo,
		catalogRepo: catalogRepo,
		branchRepo:  branchRepo,
		log:         log,
		notifier:    notifier,
		now:         time.Now,
	}
}

// ApproveResult salida de Approve.
type ApproveResult struct {
	Request      *entity.ReturnRequest
	RefundSale   *entity.Sale
	AdjustmentID string
}

// Submit encola una solicitud pendiente. TotalRefund = suma de cantidad × precio unitario.
func (uc *UseCase) Submit(ctx context.Context, actor string, in dto.SubmitReturnRequest) (*entity.ReturnRequest, error) {
	r, err := uc.submit(ctx, actor, in)
	inventory.NotifyOutcome(ctx, uc.notifier, "return.submit", "devolución registrada", err)
	return r, err
}

func (uc *UseCase) submit(ctx context.Context, actor string, in dto.SubmitReturnRequest) (*entity.ReturnRequest, error) {
	if strings.TrimSpace(in.SaleID) == "" {
		return nil, fmt.Errorf("%w: sale_id es requerido", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la devolución no tiene líneas", domain.ErrInvalidInput)
	}
	branch, err := uc.branchRepo.GetByID(ctx, in.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, fmt.Errorf("%w: sucursal %s", domain.ErrNotFound, in.BranchID)
	}

	r := &entity.ReturnRequest{
		ID:          uuid.New().String(),
		SaleID:      strings.TrimSpace(in.SaleID),
		BranchID:    in.BranchID,
		Items:       make([]entity.ReturnItem, 0, len(in.Items)),
		TotalRefund: decimal.Zero,
		RequestedBy: actor,
		Status:      entity.ReturnPending,
		CreatedAt:   uc.now(),
	}
	for i, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: línea %d con cantidad %d", domain.ErrInvalidInput, i+1, it.Quantity)
		}
		if it.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: línea %d con precio negativo", domain.ErrInvalidInput, i+1)
		}
		v, err := uc.catalogRepo.GetVariant(ctx, it.VariantID)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, fmt.Errorf("%w: variante %s", domain.ErrNotFound, it.VariantID)
		}
		r.Items = append(r.Items, entity.ReturnItem{VariantID: it.VariantID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
		r.TotalRefund = r.TotalRefund.Add(it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)))
	}
	if err := uc.returnRepo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Approve resuelve la solicitud como aprobada en una sola transacción: transición condicional desde pending,
// reingreso de cada línea al ledger, una entrada SaleReturn que referencia la venta y la venta Refunded
// con montos negativos. Si ya estaba resuelta devuelve domain.ErrAlreadyResolved sin tocar el stock.
func (uc *UseCase) Approve(ctx context.Context, id, actor string) (*ApproveResult, error) {
	res, err := uc.approve(ctx, id, actor)
	inventory.NotifyOutcome(ctx, uc.notifier, "return.approve", "devolución aprobada", err)
	return res, err
}

func (uc *UseCase) approve(ctx context.Context, id, actor string) (*ApproveResult, error) {
	var res *ApproveResult
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		r, err := resolve(ctx, repos.Returns, id, entity.ReturnApproved, actor, uc.now())
		if err != nil {
			return err
		}

		ledger := invdomain.NewStockLedger(repos.Stock)
		cells := make([]invdomain.CellRef, 0, len(r.Items))
		for _, it := range r.Items {
			cells = append(cells, invdomain.CellRef{VariantID: it.VariantID, BranchID: r.BranchID})
		}
		if err := ledger.LockCells(ctx, cells...); err != nil {
			return err
		}
		adjItems := make([]entity.AdjustmentItem, 0, len(r.Items))
		sale := &entity.Sale{
			ID:        uuid.New().String(),
			Reference: r.SaleID,
			BranchID:  r.BranchID,
			Items:     make([]entity.SaleItem, 0, len(r.Items)),
			Total:     r.TotalRefund.Neg(),
			Status:    entity.SaleRefunded,
			CreatedAt: *r.ResolvedAt,
		}
		for _, it := range r.Items {
			if err := ledger.ApplyDelta(ctx, it.VariantID, r.BranchID, it.Quantity); err != nil {
				return err
			}
			v, err := repos.Catalog.GetVariant(ctx, it.VariantID)
			if err != nil {
				return err
			}
			if v == nil {
				return fmt.Errorf("%w: variante %s", domain.ErrDataInconsistency, it.VariantID)
			}
			name := ""
			if p, err := repos.Catalog.GetProduct(ctx, v.ProductID); err != nil {
				return err
			} else if p != nil {
				name = p.Name
			}
			adjItems = append(adjItems, entity.AdjustmentItem{VariantID: it.VariantID, ProductName: name, Delta: it.Quantity})
			price := it.UnitPrice.Neg()
			sale.Items = append(sale.Items, entity.SaleItem{
				VariantID:   it.VariantID,
				SKU:         v.SKU,
				ProductName: name,
				Options:     v.Options,
				Quantity:    it.Quantity,
				UnitPrice:   price,
				Subtotal:    price.Mul(decimal.NewFromInt(it.Quantity)),
			})
		}

		entry := &entity.Adjustment{
			Actor:     actor,
			BranchID:  r.BranchID,
			Type:      entity.AdjustmentSaleReturn,
			Reference: r.SaleID,
			Items:     inventory.NetItems(adjItems),
		}
		if err := uc.log.Record(ctx, repos.Adjustments, entry); err != nil {
			return err
		}
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		res = &ApproveResult{Request: r, RefundSale: sale, AdjustmentID: entry.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Reject resuelve la solicitud como rechazada. No afecta el ledger.
func (uc *UseCase) Reject(ctx context.Context, id, actor string) (*entity.ReturnRequest, error) {
	r, err := resolve(ctx, uc.returnRepo, id, entity.ReturnRejected, actor, uc.now())
	inventory.NotifyOutcome(ctx, uc.notifier, "return.reject", "devolución rechazada", err)
	return r, err
}

// ListPending solicitudes aún pendientes; branchID vacío lista todas.
func (uc *UseCase) ListPending(ctx context.Context, branchID string) ([]*entity.ReturnRequest, error) {
	return uc.returnRepo.ListPending(ctx, branchID)
}

func resolve(ctx context.Context, repo repository.ReturnRequestRepository, id, status, actor string, at time.Time) (*entity.ReturnRequest, error) {
	r, err := repo.Resolve(ctx, id, status, actor, at)
	if err != nil {
		return nil, err
	}
	if r != nil {
		return r, nil
	}
	existing, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: devolución %s", domain.ErrNotFound, id)
	}
	return nil, fmt.Errorf("%w: devolución %s ya está %s", domain.ErrAlreadyResolved, id, existing.Status)
}
