package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-engine/internal/application/dto"
	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	invdomain "github.com/jhoicas/stock-engine/internal/domain/inventory"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

// StockUseCase ajustes manuales, conteos, recepciones y traslados entre sucursales, más las consultas
// de stock. Cada mutación toca el ledger y registra una entrada de bitácora en la misma transacción.
type StockUseCase struct {
	txRunner    TxRunner
	stockRepo   repository.StockRepository
	catalogRepo repository.CatalogRepository
	adjRepo     repository.AdjustmentRepository
	branchRepo  repository.BranchRepository
	log         *AdjustmentLog
	notifier    Notifier
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	txRunner TxRunner,
	stockRepo repository.StockRepository,
	catalogRepo repository.CatalogRepository,
	adjRepo repository.AdjustmentRepository,
	branchRepo repository.BranchRepository,
	log *AdjustmentLog,
	notifier Notifier,
) *StockUseCase {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &StockUseCase{
		txRunner:    txRunner,
		stockRepo:   stockRepo,
		catalogRepo: catalogRepo,
		adjRepo:     adjRepo,
		branchRepo:  branchRepo,
		log:         log,
		notifier:    notifier,
	}
}

// Adjust aplica un ajuste a una celda. StockCount fija la cantidad (new_quantity); PurchaseOrderReceipt
// suma una entrada positiva (delta) y recalcula el costo promedio si trae unit_cost; ManualAdjustment
// acepta cualquiera de las dos formas. El motivo es obligatorio.
func (uc *StockUseCase) Adjust(ctx context.Context, actor string, in dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	out, err := uc.adjust(ctx, actor, in)
	NotifyOutcome(ctx, uc.notifier, "stock.adjust", "ajuste de stock registrado", err)
	return out, err
}

func (uc *StockUseCase) adjust(ctx context.Context, actor string, in dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	if in.Type == "" {
		in.Type = entity.AdjustmentManual
	}
	reason := strings.TrimSpace(in.Reason)
	switch {
	case in.BranchID == "" || in.VariantID == "":
		return nil, fmt.Errorf("%w: branch_id y variant_id son requeridos", domain.ErrInvalidInput)
	case reason == "":
		return nil, fmt.Errorf("%w: el motivo es requerido", domain.ErrInvalidInput)
	case (in.NewQuantity == nil) == (in.Delta == nil):
		return nil, fmt.Errorf("%w: indique new_quantity o delta", domain.ErrInvalidInput)
	}
	switch in.Type {
	case entity.AdjustmentManual:
	case entity.AdjustmentStockCount:
		if in.NewQuantity == nil {
			return nil, fmt.Errorf("%w: un conteo requiere new_quantity", domain.ErrInvalidInput)
		}
	case entity.AdjustmentPurchaseReceipt:
		if in.Delta == nil || *in.Delta <= 0 {
			return nil, fmt.Errorf("%w: una recepción requiere delta positivo", domain.ErrInvalidInput)
		}
		if in.UnitCost != nil && in.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: costo unitario negativo", domain.ErrInvalidInput)
		}
	default:
		return nil, fmt.Errorf("%w: tipo %q no admitido en ajustes", domain.ErrInvalidInput, in.Type)
	}

	branch, err := uc.branchRepo.GetByID(ctx, in.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, fmt.Errorf("%w: sucursal %s", domain.ErrNotFound, in.BranchID)
	}

	out := &dto.AdjustStockResponse{}
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		variant, err := repos.Catalog.GetVariant(ctx, in.VariantID)
		if err != nil {
			return err
		}
		if variant == nil {
			return fmt.Errorf("%w: variante %s", domain.ErrNotFound, in.VariantID)
		}
		product, err := repos.Catalog.GetProduct(ctx, variant.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto de la variante %s", domain.ErrDataInconsistency, variant.ID)
		}

		ledger := invdomain.NewStockLedger(repos.Stock)
		var delta int64
		if in.NewQuantity != nil {
			delta, err = ledger.SetStock(ctx, in.VariantID, in.BranchID, *in.NewQuantity)
			if err != nil {
				return err
			}
		} else {
			current, err := ledger.Quantity(ctx, in.VariantID, in.BranchID)
			if err != nil {
				return err
			}
			if err := ledger.ApplyDelta(ctx, in.VariantID, in.BranchID, *in.Delta); err != nil {
				return err
			}
			delta = *in.Delta
			if in.Type == entity.AdjustmentPurchaseReceipt && in.UnitCost != nil {
				variant.CostPrice = invdomain.CostCalculator(current, variant.CostPrice, delta, *in.UnitCost)
				if err := repos.Catalog.UpdateVariant(ctx, variant); err != nil {
					return err
				}
			}
		}
		qty, err := ledger.Quantity(ctx, in.VariantID, in.BranchID)
		if err != nil {
			return err
		}
		out.Delta = delta
		out.Quantity = qty
		if delta == 0 {
			return nil
		}
		entry := &entity.Adjustment{
			Actor:     actor,
			BranchID:  in.BranchID,
			Type:      in.Type,
			Reference: reason,
			Items:     []entity.AdjustmentItem{{VariantID: variant.ID, ProductName: product.Name, Delta: delta}},
		}
		if err := uc.log.Record(ctx, repos.Adjustments, entry); err != nil {
			return err
		}
		out.AdjustmentID = entry.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Transfer mueve stock entre dos sucursales: valida todas las líneas antes de tocar el ledger, descuenta en
// origen, suma en destino y registra una entrada StockTransferOut y otra StockTransferIn con la misma referencia.
func (uc *StockUseCase) Transfer(ctx context.Context, actor string, in dto.TransferRequest) (*dto.TransferResponse, error) {
	out, err := uc.transfer(ctx, actor, in)
	NotifyOutcome(ctx, uc.notifier, "stock.transfer", "traslado registrado", err)
	return out, err
}

func (uc *StockUseCase) transfer(ctx context.Context, actor string, in dto.TransferRequest) (*dto.TransferResponse, error) {
	if in.FromBranchID == "" || in.ToBranchID == "" || in.FromBranchID == in.ToBranchID {
		return nil, fmt.Errorf("%w: sucursales de origen y destino inválidas", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: el traslado no tiene líneas", domain.ErrInvalidInput)
	}
	ids := make([]string, len(in.Items))
	qtys := make([]int64, len(in.Items))
	for i, it := range in.Items {
		ids[i], qtys[i] = it.VariantID, it.Quantity
	}
	quantities, err := AggregateQuantities(ids, qtys)
	if err != nil {
		return nil, err
	}
	for _, id := range []string{in.FromBranchID, in.ToBranchID} {
		b, err := uc.branchRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if b == nil {
			return nil, fmt.Errorf("%w: sucursal %s", domain.ErrNotFound, id)
		}
	}
	ref := strings.TrimSpace(in.Reference)
	if ref == "" {
		ref = "transfer:" + uuid.New().String()
	}

	out := &dto.TransferResponse{Reference: ref}
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		names := make(map[string]string, len(quantities))
		for id := range quantities {
			v, err := repos.Catalog.GetVariant(ctx, id)
			if err != nil {
				return err
			}
			if v == nil {
				return fmt.Errorf("%w: variante %s", domain.ErrNotFound, id)
			}
			p, err := repos.Catalog.GetProduct(ctx, v.ProductID)
			if err != nil {
				return err
			}
			if p != nil {
				names[id] = p.Name
			}
		}
		ledger := invdomain.NewStockLedger(repos.Stock)
		cells := make([]invdomain.CellRef, 0, 2*len(quantities))
		for id := range quantities {
			cells = append(cells,
				invdomain.CellRef{VariantID: id, BranchID: in.FromBranchID},
				invdomain.CellRef{VariantID: id, BranchID: in.ToBranchID})
		}
		if err := ledger.LockCells(ctx, cells...); err != nil {
			return err
		}
		if err := ledger.CheckDeductions(ctx, in.FromBranchID, quantities); err != nil {
			return err
		}
		outItems := make([]entity.AdjustmentItem, 0, len(in.Items))
		inItems := make([]entity.AdjustmentItem, 0, len(in.Items))
		for _, it := range in.Items {
			if err := ledger.ApplyDelta(ctx, it.VariantID, in.FromBranchID, -it.Quantity); err != nil {
				return err
			}
			if err := ledger.ApplyDelta(ctx, it.VariantID, in.ToBranchID, it.Quantity); err != nil {
				return err
			}
			outItems = append(outItems, entity.AdjustmentItem{VariantID: it.VariantID, ProductName: names[it.VariantID], Delta: -it.Quantity})
			inItems = append(inItems, entity.AdjustmentItem{VariantID: it.VariantID, ProductName: names[it.VariantID], Delta: it.Quantity})
		}
		outEntry := &entity.Adjustment{
			Actor: actor, BranchID: in.FromBranchID, Type: entity.AdjustmentStockTransferOut,
			Reference: ref, Items: NetItems(outItems),
		}
		if err := uc.log.Record(ctx, repos.Adjustments, outEntry); err != nil {
			return err
		}
		inEntry := &entity.Adjustment{
			Actor: actor, BranchID: in.ToBranchID, Type: entity.AdjustmentStockTransferIn,
			Reference: ref, Items: NetItems(inItems),
		}
		if err := uc.log.Record(ctx, repos.Adjustments, inEntry); err != nil {
			return err
		}
		out.OutEntryID, out.InEntryID = outEntry.ID, inEntry.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BranchLevels stock de todas las variantes del catálogo en una sucursal, con su clasificación.
func (uc *StockUseCase) BranchLevels(ctx context.Context, branchID string) ([]dto.VariantStockDTO, error) {
	if branchID == "" {
		return nil, fmt.Errorf("%w: branch_id es requerido", domain.ErrInvalidInput)
	}
	products, err := uc.catalogRepo.ReadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, p := range products {
		for _, v := range p.Variants {
			ids = append(ids, v.ID)
		}
	}
	cells, err := uc.stockRepo.ListByVariants(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VariantStockDTO, 0, len(ids))
	for _, p := range products {
		for _, v := range p.Variants {
			out = append(out, variantStock(p, v, branchID, cells))
		}
	}
	return out, nil
}

// ProductLevels stock de un producto en una sucursal y en total, por variante.
func (uc *StockUseCase) ProductLevels(ctx context.Context, productID, branchID string) (*dto.ProductStockDTO, error) {
	p, err := uc.catalogRepo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	ids := make([]string, 0, len(p.Variants))
	for _, v := range p.Variants {
		ids = append(ids, v.ID)
	}
	cells, err := uc.stockRepo.ListByVariants(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductStockDTO{
		ProductID:   p.ID,
		ProductName: p.Name,
		BranchID:    branchID,
		Variants:    make([]dto.VariantStockDTO, 0, len(p.Variants)),
	}
	for _, v := range p.Variants {
		vs := variantStock(p, v, branchID, cells)
		out.TotalStock += vs.TotalStock
		out.Variants = append(out.Variants, vs)
	}
	if branchID != "" {
		out.BranchStock = invdomain.BranchStockForProduct(p, branchID, cells)
		out.Status = string(invdomain.ProductStatus(p, out.BranchStock))
	} else {
		out.Status = string(invdomain.ProductStatus(p, out.TotalStock))
	}
	return out, nil
}

// History consulta la bitácora de ajustes (más reciente primero).
func (uc *StockUseCase) History(ctx context.Context, filter repository.AdjustmentFilter) ([]*entity.Adjustment, error) {
	if filter.Type != "" && !entity.IsValidAdjustmentType(filter.Type) {
		return nil, fmt.Errorf("%w: tipo de ajuste %q", domain.ErrInvalidInput, filter.Type)
	}
	return uc.log.History(ctx, uc.adjRepo, filter)
}

// Reconcile compara la cantidad del ledger con la reconstruida desde la bitácora para una celda.
func (uc *StockUseCase) Reconcile(ctx context.Context, variantID, branchID string) (ledger, replayed int64, err error) {
	cell, err := uc.stockRepo.Get(ctx, variantID, branchID)
	if err != nil {
		return 0, 0, err
	}
	replayed, err = uc.log.Replay(ctx, uc.adjRepo, variantID, branchID)
	if err != nil {
		return 0, 0, err
	}
	return cell.Quantity, replayed, nil
}

func variantStock(p *entity.Product, v *entity.Variant, branchID string, cells []*entity.Stock) dto.VariantStockDTO {
	var branchQty int64
	for _, c := range cells {
		if c.VariantID == v.ID && c.BranchID == branchID {
			branchQty = c.Quantity
		}
	}
	total := invdomain.TotalStockForVariant(v.ID, cells)
	classified := total
	if branchID != "" {
		classified = branchQty
	}
	return dto.VariantStockDTO{
		VariantID:   v.ID,
		ProductID:   p.ID,
		ProductName: p.Name,
		SKU:         v.SKU,
		Options:     v.Options,
		BranchStock: branchQty,
		TotalStock:  total,
		Threshold:   v.LowStockThreshold,
		Status:      string(invdomain.Classify(classified, v.LowStockThreshold)),
	}
}
