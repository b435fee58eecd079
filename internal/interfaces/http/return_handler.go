package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-engine/internal/application/dto"
	"github.com/jhoicas/stock-engine/internal/application/returns"
)

// ReturnHandler cola de devoluciones (protegido).
type ReturnHandler struct {
	uc *returns.UseCase
}

// NewReturnHandler construye el handler.
func NewReturnHandler(uc *returns.UseCase) *ReturnHandler {
	return &ReturnHandler{uc: uc}
}

// Submit POST /api/returns
func (h *ReturnHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Submit(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToReturnRequestResponse(out))
}

// ListPending GET /api/returns/pending?branch_id=
func (h *ReturnHandler) ListPending(c *fiber.Ctx) error {
	list, err := h.uc.ListPending(c.UserContext(), c.Query("branch_id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]*dto.ReturnRequestResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.ToReturnRequestResponse(r))
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar devolución
// @Description  Reingresa las unidades a la sucursal, registra un ajuste SaleReturn y una venta Refunded.
//
//	Una solicitud ya resuelta responde 409 ALREADY_RESOLVED sin mover stock.
//
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la solicitud"
// @Success      200  {object}  dto.ApproveReturnResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/approve [post]
func (h *ReturnHandler) Approve(c *fiber.Ctx) error {
	res, err := h.uc.Approve(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ApproveReturnResponse{
		Request:      dto.ToReturnRequestResponse(res.Request),
		RefundSale:   dto.ToSaleResponse(res.RefundSale),
		AdjustmentID: res.AdjustmentID,
	})
}

// Reject POST /api/returns/:id/reject
func (h *ReturnHandler) Reject(c *fiber.Ctx) error {
	out, err := h.uc.Reject(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToReturnRequestResponse(out))
}
