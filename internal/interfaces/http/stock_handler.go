package http

import (
	"bytes"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-engine/internal/application/dto"
	"github.com/jhoicas/stock-engine/internal/application/inventory"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

// StockHandler niveles de stock, ajustes, traslados, importación/exportación y bitácora (protegido).
type StockHandler struct {
	stock   *inventory.StockUseCase
	imports *inventory.BulkImportUseCase
	charset string
}

// NewStockHandler construye el handler. defaultCharset aplica a importaciones sin ?charset=.
func NewStockHandler(stock *inventory.StockUseCase, imports *inventory.BulkImportUseCase, defaultCharset string) *StockHandler {
	return &StockHandler{stock: stock, imports: imports, charset: defaultCharset}
}

// Levels godoc
// @Summary      Stock por sucursal
// @Description  Cantidad de cada variante en la sucursal y en total, con su estado (outOfStock, lowStock, inStock).
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query     string  true  "Sucursal"
// @Success      200        {array}   dto.VariantStockDTO
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/stock/levels [get]
func (h *StockHandler) Levels(c *fiber.Ctx) error {
	out, err := h.stock.BranchLevels(c.UserContext(), c.Query("branch_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ProductLevels GET /api/stock/products/:id?branch_id=
func (h *StockHandler) ProductLevels(c *fiber.Ctx) error {
	out, err := h.stock.ProductLevels(c.UserContext(), c.Params("id"), c.Query("branch_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Ajustar stock
// @Description  ManualAdjustment, StockCount o PurchaseOrderReceipt. Enviar new_quantity o delta; reason es obligatorio.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AdjustStockRequest  true  "ajuste"
// @Success      201   {object}  dto.AdjustStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjustments [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.stock.Adjust(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Transfer godoc
// @Summary      Trasladar stock entre sucursales
// @Description  Todo o nada: una entrada StockTransferOut en el origen y una StockTransferIn en el destino.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.TransferRequest  true  "from_branch_id, to_branch_id, items"
// @Success      201   {object}  dto.TransferResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfers [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.stock.Transfer(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Import godoc
// @Summary      Importación masiva de conteos
// @Description  Cuerpo texto: encabezado "sku,newQuantity" y una fila por SKU. Las filas inválidas se reportan y no bloquean las demás.
// @Tags         stock
// @Security     Bearer
// @Accept       plain
// @Produce      json
// @Param        branch_id  query     string  true   "Sucursal"
// @Param        charset    query     string  false  "utf-8 (defecto), latin1, windows-1252"
// @Success      200        {object}  dto.ImportResult
// @Router       /api/stock/import [post]
func (h *StockHandler) Import(c *fiber.Ctx) error {
	opts := inventory.ImportOptions{
		BranchID: c.Query("branch_id"),
		Actor:    GetUserID(c),
		Charset:  c.Query("charset", h.charset),
	}
	out, err := h.imports.Import(c.UserContext(), bytes.NewReader(c.Body()), opts)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Export GET /api/stock/export?branch_id= (mismo formato que la importación)
func (h *StockHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.imports.Export(c.UserContext(), c.Query("branch_id"), &buf); err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="stock-`+c.Query("branch_id")+`.csv"`)
	return c.Send(buf.Bytes())
}

// History GET /api/adjustments?branch_id=&variant_id=&type=&from=&to=&limit=&offset=
// from y to en RFC3339; to es exclusivo.
func (h *StockHandler) History(c *fiber.Ctx) error {
	page := pageQuery(c)
	filter := repository.AdjustmentFilter{
		BranchID:  c.Query("branch_id"),
		VariantID: c.Query("variant_id"),
		Type:      c.Query("type"),
		Limit:     page.Limit,
		Offset:    page.Offset,
	}
	for key, dst := range map[string]*time.Time{"from": &filter.From, "to": &filter.To} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: key + " debe ser RFC3339"})
		}
		*dst = t
	}
	list, err := h.stock.History(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.AdjustmentListResponse{
		Items: make([]dto.AdjustmentDTO, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, a := range list {
		out.Items = append(out.Items, dto.ToAdjustmentDTO(a))
	}
	return c.JSON(out)
}

// Reconcile GET /api/stock/reconcile?variant_id=&branch_id=
// Compara la celda con la suma de sus deltas en la bitácora.
func (h *StockHandler) Reconcile(c *fiber.Ctx) error {
	variantID, branchID := c.Query("variant_id"), c.Query("branch_id")
	if variantID == "" || branchID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "variant_id y branch_id son requeridos"})
	}
	ledger, replayed, err := h.stock.Reconcile(c.UserContext(), variantID, branchID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"variant_id": variantID,
		"branch_id":  branchID,
		"ledger":     ledger,
		"replayed":   replayed,
		"consistent": ledger == replayed,
	})
}
