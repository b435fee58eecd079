package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-engine/internal/application/dto"
	"github.com/jhoicas/stock-engine/internal/application/usecase"
)

// CustomerHandler clientes y sucursales: datos de referencia de ventas y documentos (protegido).
type CustomerHandler struct {
	customers *usecase.CustomerUseCase
	branches  *usecase.BranchUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(customers *usecase.CustomerUseCase, branches *usecase.BranchUseCase) *CustomerHandler {
	return &CustomerHandler{customers: customers, branches: branches}
}

// Create POST /api/customers
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	customer, err := h.customers.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

// List GET /api/customers?limit=20&offset=0
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	page := pageQuery(c)
	list, err := h.customers.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// ListBranches GET /api/branches
func (h *CustomerHandler) ListBranches(c *fiber.Ctx) error {
	list, err := h.branches.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]*dto.BranchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, dto.ToBranchResponse(b))
	}
	return c.JSON(out)
}
