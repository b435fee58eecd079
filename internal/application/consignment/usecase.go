// Package consignment orquesta el ciclo de vida de una consignación:
// Pending -> InTransit -> Delivered -> Sold (Sold también desde InTransit).
// El único efecto sobre el ledger ocurre al despachar.
package consignment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-engine/internal/application/dto"
	"github.com/jhoicas/stock-engine/internal/application/inventory"
	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	invdomain "github.com/jhoicas/stock-engine/internal/domain/inventory"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

// UseCase máquina de estados de consignaciones.
type UseCase struct {
	txRunner     inventory.TxRunner
	consignments repository.ConsignmentRepository
	catalogRepo  repository.CatalogRepository
	stockRepo    repository.StockRepository
	branchRepo   repository.BranchRepository
	customerRepo repository.CustomerRepository
	log          *inventory.AdjustmentLog
	notifier     inventory.Notifier
	renderer     DocumentRenderer
	now          func() time.Time
}

// NewUseCase construye el caso de uso inyectando todas sus dependencias.
func NewUseCase(
	txRunner inventory.TxRunner,
	consignments repository.ConsignmentRepository,
	catalogRepo repository.CatalogRepository,
	stockRepo repository.StockRepository,
	branchRepo repository.BranchRepository,
	customerRepo repository.CustomerRepository,
	log *inventory.AdjustmentLog,
	notifier inventory.Notifier,
	renderer DocumentRenderer,
) *UseCase {
	if notifier == nil {
		notifier = inventory.NopNotifier{}
	}
	return &UseCase{
		txRunner:     txRunner,
		consignments: consignments,
		catalogRepo:  catalogRepo,
		stockRepo:    stockRepo,
		branchRepo:   branchRepo,
		customerRepo: customerRepo,
		log:          log,
		notifier:     notifier,
		renderer:     renderer,
		now:          time.Now,
	}
}

// Create valida el borrador y lo guarda en estado Pending. Cada cantidad pedida (sumando líneas repetidas
// de la misma variante) no puede superar el stock actual de la sucursal de origen. No descuenta stock.
func (uc *UseCase) Create(ctx context.Context, actor string, in dto.CreateConsignmentRequest) (*entity.Consignment, error) {
	c, err := uc.create(ctx, actor, in)
	inventory.NotifyOutcome(ctx, uc.notifier, "consignment.create", "consignación creada", err)
	return c, err
}

func (uc *UseCase) create(ctx context.Context, actor string, in dto.CreateConsignmentRequest) (*entity.Consignment, error) {
	if in.OriginBranchID == "" {
		return nil, fmt.Errorf("%w: origin_branch_id es requerido", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la consignación no tiene líneas", domain.ErrInvalidInput)
	}
	quantities, err := aggregate(in.Items)
	if err != nil {
		return nil, err
	}
	branch, err := uc.branchRepo.GetByID(ctx, in.OriginBranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, fmt.Errorf("%w: sucursal %s", domain.ErrNotFound, in.OriginBranchID)
	}

	c := &entity.Consignment{
		ID:                 uuid.New().String(),
		OriginBranchID:     in.OriginBranchID,
		DestinationAddress: strings.TrimSpace(in.DestinationAddress),
		CarrierID:          in.CarrierID,
		DriverID:           in.DriverID,
		Items:              make([]entity.ConsignmentItem, 0, len(in.Items)),
		Status:             entity.ConsignmentPending,
		CreatedBy:          actor,
		CreatedAt:          uc.now(),
	}
	for _, it := range in.Items {
		c.Items = append(c.Items, entity.ConsignmentItem{VariantID: it.VariantID, Quantity: it.Quantity})
	}

	err = uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		for id, qty := range quantities {
			v, err := repos.Catalog.GetVariant(ctx, id)
			if err != nil {
				return err
			}
			if v == nil {
				return fmt.Errorf("%w: variante %s", domain.ErrNotFound, id)
			}
			cell, err := repos.Stock.Get(ctx, id, in.OriginBranchID)
			if err != nil {
				return err
			}
			if cell.Quantity < qty {
				return fmt.Errorf("%w: variante %s en sucursal %s (disponible %d, solicitado %d)",
					domain.ErrInsufficientStock, id, in.OriginBranchID, cell.Quantity, qty)
			}
		}
		return repos.Consignments.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Dispatch solo desde Pending. Bloquea y valida todas las líneas antes de aplicar cualquier delta: si alguna
// dejaría el ledger negativo, se rechaza todo y ninguna celda cambia. Luego descuenta cada línea del origen,
// registra una entrada StockTransferOut con la referencia de la consignación y pasa a InTransit.
// Reintentar sobre una consignación ya despachada falla con domain.ErrInvalidTransition sin descontar de nuevo.
func (uc *UseCase) Dispatch(ctx context.Context, id, actor string) (*entity.Consignment, error) {
	c, err := uc.dispatch(ctx, id, actor)
	inventory.NotifyOutcome(ctx, uc.notifier, "consignment.dispatch", "consignación despachada", err)
	return c, err
}

func (uc *UseCase) dispatch(ctx context.Context, id, actor string) (*entity.Consignment, error) {
	var out *entity.Consignment
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		c, err := loadForUpdate(ctx, repos, id, entity.ConsignmentInTransit)
		if err != nil {
			return err
		}
		quantities, err := aggregateItems(c.Items)
		if err != nil {
			return err
		}
		ledger := invdomain.NewStockLedger(repos.Stock)
		if err := ledger.CheckDeductions(ctx, c.OriginBranchID, quantities); err != nil {
			return err
		}
		items := make([]entity.AdjustmentItem, 0, len(c.Items))
		for _, it := range c.Items {
			if err := ledger.ApplyDelta(ctx, it.VariantID, c.OriginBranchID, -it.Quantity); err != nil {
				return err
			}
			name := ""
			if v, err := repos.Catalog.GetVariant(ctx, it.VariantID); err == nil && v != nil {
				if p, err := repos.Catalog.GetProduct(ctx, v.ProductID); err == nil && p != nil {
					name = p.Name
				}
			}
			items = append(items, entity.AdjustmentItem{VariantID: it.VariantID, ProductName: name, Delta: -it.Quantity})
		}
		entry := &entity.Adjustment{
			Actor:     actor,
			BranchID:  c.OriginBranchID,
			Type:      entity.AdjustmentStockTransferOut,
			Reference: c.ID,
			Items:     inventory.NetItems(items),
		}
		if err := uc.log.Record(ctx, repos.Adjustments, entry); err != nil {
			return err
		}
		now := uc.now()
		c.Status = entity.ConsignmentInTransit
		c.DispatchedAt = &now
		if err := repos.Consignments.Update(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkDelivered solo desde InTransit. Cambio de custodia, sin efecto en el ledger.
func (uc *UseCase) MarkDelivered(ctx context.Context, id string) (*entity.Consignment, error) {
	c, err := uc.transition(ctx, id, entity.ConsignmentDelivered, func(c *entity.Consignment, now time.Time) error {
		c.DeliveredAt = &now
		return nil
	})
	inventory.NotifyOutcome(ctx, uc.notifier, "consignment.deliver", "consignación entregada", err)
	return c, err
}

// Sell desde InTransit o Delivered: asigna cliente y número de factura y pasa a Sold. El stock ya salió
// al despachar, así que no hay mutación del ledger.
func (uc *UseCase) Sell(ctx context.Context, id, customerID string) (*entity.Consignment, error) {
	c, err := uc.sell(ctx, id, customerID)
	inventory.NotifyOutcome(ctx, uc.notifier, "consignment.sell", "consignación vendida", err)
	return c, err
}

func (uc *UseCase) sell(ctx context.Context, id, customerID string) (*entity.Consignment, error) {
	if customerID == "" {
		return nil, fmt.Errorf("%w: customer_id es requerido", domain.ErrInvalidInput)
	}
	customer, err := uc.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, customerID)
	}
	return uc.transition(ctx, id, entity.ConsignmentSold, func(c *entity.Consignment, now time.Time) error {
		c.CustomerID = customer.ID
		c.InvoiceNumber = invoiceNumber(c.ID, now)
		c.SoldAt = &now
		return nil
	})
}

// SaleRecord proyecta el registro de venta de una consignación vendida. No se persiste.
func (uc *UseCase) SaleRecord(ctx context.Context, id string) (*entity.Sale, error) {
	c, err := uc.consignments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: consignación %s", domain.ErrNotFound, id)
	}
	if c.Status != entity.ConsignmentSold {
		return nil, fmt.Errorf("%w: la consignación está en estado %s", domain.ErrInvalidTransition, c.Status)
	}
	customer, err := uc.customerRepo.GetByID(ctx, c.CustomerID)
	if err != nil {
		return nil, err
	}
	products, err := uc.catalogRepo.ReadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return invdomain.ProjectConsignmentSale(c, customer, invdomain.NewCatalog(products))
}

// SaleDocument genera el PDF de la venta. Devuelve los bytes y el nombre de archivo sugerido.
func (uc *UseCase) SaleDocument(ctx context.Context, id string) ([]byte, string, error) {
	if uc.renderer == nil {
		return nil, "", fmt.Errorf("consignment: renderizador de documentos no configurado")
	}
	sale, err := uc.SaleRecord(ctx, id)
	if err != nil {
		return nil, "", err
	}
	c, err := uc.consignments.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if c == nil {
		return nil, "", fmt.Errorf("%w: consignación %s", domain.ErrNotFound, id)
	}
	branch, err := uc.branchRepo.GetByID(ctx, c.OriginBranchID)
	if err != nil {
		return nil, "", err
	}
	if branch == nil {
		return nil, "", fmt.Errorf("%w: sucursal %s", domain.ErrDataInconsistency, c.OriginBranchID)
	}
	pdf, err := uc.renderer.RenderSaleDocument(ctx, SaleDocument{Sale: sale, Consignment: c, Branch: branch})
	if err != nil {
		return nil, "", err
	}
	return pdf, sale.Reference + ".pdf", nil
}

// Get obtiene una consignación.
func (uc *UseCase) Get(ctx context.Context, id string) (*entity.Consignment, error) {
	c, err := uc.consignments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: consignación %s", domain.ErrNotFound, id)
	}
	return c, nil
}

// List lista consignaciones, opcionalmente filtradas por estado.
func (uc *UseCase) List(ctx context.Context, status string, limit, offset int) ([]*entity.Consignment, error) {
	switch status {
	case "", entity.ConsignmentPending, entity.ConsignmentInTransit, entity.ConsignmentDelivered, entity.ConsignmentSold:
	default:
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	return uc.consignments.List(ctx, status, limit, offset)
}

func (uc *UseCase) transition(ctx context.Context, id, next string, apply func(c *entity.Consignment, now time.Time) error) (*entity.Consignment, error) {
	var out *entity.Consignment
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		c, err := loadForUpdate(ctx, repos, id, next)
		if err != nil {
			return err
		}
		if err := apply(c, uc.now()); err != nil {
			return err
		}
		c.Status = next
		if err := repos.Consignments.Update(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func loadForUpdate(ctx context.Context, repos repository.TxRepositories, id, next string) (*entity.Consignment, error) {
	c, err := repos.Consignments.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: consignación %s", domain.ErrNotFound, id)
	}
	if !c.CanTransition(next) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, c.Status, next)
	}
	return c, nil
}

func aggregate(items []dto.LineItem) (map[string]int64, error) {
	ids := make([]string, len(items))
	qtys := make([]int64, len(items))
	for i, it := range items {
		ids[i], qtys[i] = it.VariantID, it.Quantity
	}
	return inventory.AggregateQuantities(ids, qtys)
}

func aggregateItems(items []entity.ConsignmentItem) (map[string]int64, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: la consignación no tiene líneas", domain.ErrInvalidInput)
	}
	ids := make([]string, len(items))
	qtys := make([]int64, len(items))
	for i, it := range items {
		ids[i], qtys[i] = it.VariantID, it.Quantity
	}
	return inventory.AggregateQuantities(ids, qtys)
}

func invoiceNumber(id string, at time.Time) string {
	short := strings.ReplaceAll(id, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return "INV-" + at.Format("20060102") + "-" + strings.ToUpper(short)
}
