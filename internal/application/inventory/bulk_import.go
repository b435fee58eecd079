package inventory

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stock-engine/internal/application/dto"
	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	invdomain "github.com/jhoicas/stock-engine/internal/domain/inventory"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

// ImportHeader cabecera del formato de importación/exportación.
const ImportHeader = "sku,newQuantity"

// ImportReference referencia de la entrada de bitácora que agrupa una importación.
const ImportReference = "bulk-import"

// ImportOptions parámetros de una importación masiva.
type ImportOptions struct {
	BranchID string
	Actor    string
	Charset  string // "utf-8" (por defecto) o "latin1"
}

// BulkImportUseCase aplica un lote de filas sku,newQuantity contra una sucursal. Las filas inválidas se
// reportan y se omiten; una fila mala nunca aborta el lote.
type BulkImportUseCase struct {
	txRunner    TxRunner
	catalogRepo repository.CatalogRepository
	stockRepo   repository.StockRepository
	branchRepo  repository.BranchRepository
	log         *AdjustmentLog
	notifier    Notifier
	workers     int
}

// NewBulkImportUseCase construye el caso de uso. workers limita la validación en paralelo.
func NewBulkImportUseCase(
	txRunner TxRunner,
	catalogRepo repository.CatalogRepository,
	stockRepo repository.StockRepository,
	branchRepo repository.BranchRepository,
	log *AdjustmentLog,
	notifier Notifier,
	workers int,
) *BulkImportUseCase {
	if workers <= 0 {
		workers = 4
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &BulkImportUseCase{
		txRunner:    txRunner,
		catalogRepo: catalogRepo,
		stockRepo:   stockRepo,
		branchRepo:  branchRepo,
		log:         log,
		notifier:    notifier,
		workers:     workers,
	}
}

type importRow struct {
	sku   string
	value string
	blank bool
}

type rowCheck struct {
	variant *entity.Variant
	qty     int64
	err     string
}

// Import lee la cabecera y las filas, valida en paralelo y aplica las filas válidas en orden dentro de una
// transacción. Todas las filas aplicadas comparten una entrada StockCount con el delta neto por variante.
func (uc *BulkImportUseCase) Import(ctx context.Context, r io.Reader, opts ImportOptions) (*dto.ImportResult, error) {
	res, err := uc.importRows(ctx, r, opts)
	switch {
	case err != nil:
		NotifyOutcome(ctx, uc.notifier, "stock.import", "", err)
	case len(res.Errors) > 0:
		uc.notifier.Notify(ctx, Notification{
			Operation: "stock.import",
			Message:   fmt.Sprintf("importación con errores: %d filas aplicadas, %d errores", res.SuccessCount, len(res.Errors)),
			Severity:  SeverityWarning,
		})
	default:
		uc.notifier.Notify(ctx, Notification{
			Operation: "stock.import",
			Message:   fmt.Sprintf("importación completa: %d filas aplicadas", res.SuccessCount),
			Severity:  SeveritySuccess,
		})
	}
	return res, err
}

func (uc *BulkImportUseCase) importRows(ctx context.Context, r io.Reader, opts ImportOptions) (*dto.ImportResult, error) {
	if opts.BranchID == "" {
		return nil, fmt.Errorf("%w: branch_id es requerido", domain.ErrInvalidInput)
	}
	branch, err := uc.branchRepo.GetByID(ctx, opts.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, fmt.Errorf("%w: sucursal %s", domain.ErrNotFound, opts.BranchID)
	}
	decoded, err := decodeCharset(r, opts.Charset)
	if err != nil {
		return nil, err
	}
	rows, err := readRows(decoded)
	if err != nil {
		return nil, err
	}

	products, err := uc.catalogRepo.ReadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	catalog := invdomain.NewCatalog(products)

	checks := make([]rowCheck, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)
	for i := range rows {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			checks[i] = checkRow(rows[i], catalog)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &dto.ImportResult{Errors: []string{}}
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		ledger := invdomain.NewStockLedger(repos.Stock)
		items := make([]entity.AdjustmentItem, 0, len(rows))
		res.SuccessCount = 0
		res.Errors = res.Errors[:0]
		for i, row := range rows {
			if row.blank {
				continue
			}
			c := checks[i]
			if c.err != "" {
				res.Errors = append(res.Errors, c.err)
				continue
			}
			delta, err := ledger.SetStock(ctx, c.variant.ID, opts.BranchID, c.qty)
			if err != nil {
				return err
			}
			items = append(items, entity.AdjustmentItem{
				VariantID:   c.variant.ID,
				ProductName: catalog.ProductName(c.variant.ID),
				Delta:       delta,
			})
			res.SuccessCount++
		}
		net := NetItems(items)
		if len(net) == 0 {
			return nil
		}
		entry := &entity.Adjustment{
			Actor:     opts.Actor,
			BranchID:  opts.BranchID,
			Type:      entity.AdjustmentStockCount,
			Reference: ImportReference,
			Items:     net,
		}
		if err := uc.log.Record(ctx, repos.Adjustments, entry); err != nil {
			return err
		}
		res.AdjustmentID = entry.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Export escribe la cabecera y una fila sku,cantidad por cada variante del catálogo en la sucursal.
// El resultado puede volver a importarse sin cambios.
func (uc *BulkImportUseCase) Export(ctx context.Context, branchID string, w io.Writer) error {
	if branchID == "" {
		return fmt.Errorf("%w: branch_id es requerido", domain.ErrInvalidInput)
	}
	products, err := uc.catalogRepo.ReadCatalog(ctx)
	if err != nil {
		return err
	}
	cells, err := uc.stockRepo.ListByBranch(ctx, branchID)
	if err != nil {
		return err
	}
	qty := make(map[string]int64, len(cells))
	for _, c := range cells {
		qty[c.VariantID] = c.Quantity
	}
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(ImportHeader + "\n"); err != nil {
		return err
	}
	for _, p := range products {
		for _, v := range p.Variants {
			if _, err := fmt.Fprintf(bw, "%s,%d\n", v.SKU, qty[v.ID]); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func checkRow(row importRow, catalog *invdomain.Catalog) rowCheck {
	if row.blank {
		return rowCheck{}
	}
	qty, err := strconv.ParseInt(row.value, 10, 64)
	if err != nil || qty < 0 {
		return rowCheck{err: fmt.Sprintf("Invalid stock value for SKU %s: %s", row.sku, row.value)}
	}
	v, ok := catalog.VariantBySKU(row.sku)
	if !ok {
		return rowCheck{err: fmt.Sprintf("SKU not found: %s", row.sku)}
	}
	return rowCheck{variant: v, qty: qty}
}

// readRows descarta la cabecera y separa cada fila por comas (sin soporte de comillas).
func readRows(r io.Reader) ([]importRow, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	var rows []importRow
	first := true
	for sc.Scan() {
		line := sc.Text()
		if first {
			first = false
			continue
		}
		line = strings.TrimSpace(line)
		if line == "" {
			rows = append(rows, importRow{blank: true})
			continue
		}
		fields := strings.Split(line, ",")
		row := importRow{sku: strings.TrimSpace(fields[0])}
		if len(fields) > 1 {
			row.value = strings.TrimSpace(fields[1])
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("leer importación: %w", err)
	}
	return rows, nil
}

func decodeCharset(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		return transform.NewReader(r, xunicode.BOMOverride(xunicode.UTF8.NewDecoder())), nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	}
	return nil, fmt.Errorf("%w: charset %q no soportado", domain.ErrInvalidInput, charset)
}
