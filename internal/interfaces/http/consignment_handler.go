package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-engine/internal/application/consignment"
	"github.com/jhoicas/stock-engine/internal/application/dto"
)

// ConsignmentHandler ciclo de vida de consignaciones (protegido).
type ConsignmentHandler struct {
	uc *consignment.UseCase
}

// NewConsignmentHandler construye el handler.
func NewConsignmentHandler(uc *consignment.UseCase) *ConsignmentHandler {
	return &ConsignmentHandler{uc: uc}
}

// Create godoc
// @Summary      Crear consignación
// @Description  Queda en Pending. Cada cantidad debe estar disponible en la sucursal de origen; no descuenta stock.
// @Tags         consignments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateConsignmentRequest  true  "origen, destino, líneas"
// @Success      201   {object}  dto.ConsignmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/consignments [post]
func (h *ConsignmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateConsignmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToConsignmentResponse(out))
}

// List GET /api/consignments?status=&limit=&offset=
func (h *ConsignmentHandler) List(c *fiber.Ctx) error {
	page := pageQuery(c)
	list, err := h.uc.List(c.UserContext(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.ConsignmentListResponse{
		Items: make([]dto.ConsignmentResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, item := range list {
		out.Items = append(out.Items, *dto.ToConsignmentResponse(item))
	}
	return c.JSON(out)
}

// GetByID GET /api/consignments/:id
func (h *ConsignmentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToConsignmentResponse(out))
}

// Dispatch godoc
// @Summary      Despachar consignación
// @Description  Solo desde Pending. Descuenta todas las líneas del origen o ninguna.
// @Tags         consignments
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la consignación"
// @Success      200  {object}  dto.ConsignmentResponse
// @Failure      409  {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK o INVALID_TRANSITION"
// @Router       /api/consignments/{id}/dispatch [post]
func (h *ConsignmentHandler) Dispatch(c *fiber.Ctx) error {
	out, err := h.uc.Dispatch(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToConsignmentResponse(out))
}

// Deliver POST /api/consignments/:id/deliver
func (h *ConsignmentHandler) Deliver(c *fiber.Ctx) error {
	out, err := h.uc.MarkDelivered(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToConsignmentResponse(out))
}

// Sell POST /api/consignments/:id/sell
func (h *ConsignmentHandler) Sell(c *fiber.Ctx) error {
	var in dto.SellConsignmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Sell(c.UserContext(), c.Params("id"), in.CustomerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToConsignmentResponse(out))
}

// Sale GET /api/consignments/:id/sale (proyección, no se persiste)
func (h *ConsignmentHandler) Sale(c *fiber.Ctx) error {
	sale, err := h.uc.SaleRecord(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToSaleResponse(sale))
}

// Document GET /api/consignments/:id/document (PDF)
func (h *ConsignmentHandler) Document(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.SaleDocument(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdf)
}
