package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-engine/internal/application/dto"
	"github.com/jhoicas/stock-engine/pkg/jwt"
)

// RequireBranchScope limita las rutas con ?branch_id= a la sucursal del token. El admin y los tokens
// sin sucursal asignada no tienen restricción. Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 400 si la ruta exige branch_id y no viene.
//   - 403 si branch_id no coincide con la sucursal del usuario.
func RequireBranchScope() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := c.Query("branch_id")
		if branchID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:    "VALIDATION",
				Message: "branch_id es requerido",
			})
		}
		if GetRole(c) == jwt.RoleAdmin {
			return c.Next()
		}
		own := GetBranchID(c)
		if own != "" && own != branchID {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "BRANCH_FORBIDDEN",
				Message: "la sucursal '" + branchID + "' no está asignada a este usuario",
			})
		}
		return c.Next()
	}
}
