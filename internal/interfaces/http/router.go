package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-engine/internal/application/analytics"
	"github.com/jhoicas/stock-engine/internal/application/consignment"
	"github.com/jhoicas/stock-engine/internal/application/inventory"
	"github.com/jhoicas/stock-engine/internal/application/returns"
	"github.com/jhoicas/stock-engine/internal/application/usecase"
	"github.com/jhoicas/stock-engine/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC     *usecase.ProductUseCase
	CustomerUC    *usecase.CustomerUseCase
	BranchUC      *usecase.BranchUseCase
	StockUC       *inventory.StockUseCase
	BulkImportUC  *inventory.BulkImportUseCase
	ConsignmentUC *consignment.UseCase
	ReturnUC      *returns.UseCase
	DashboardUC   *analytics.DashboardUseCase
	JWTSecret     string
	ImportCharset string
}

// Router registra las rutas de la API. Todo bajo /api requiere Bearer Token; las mutaciones de stock
// requieren admin o bodeguero, y la venta de consignaciones y solicitudes de devolución admiten vendedor.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	stockRoles := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	salesRoles := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleVendedor)
	adminOnly := RequireRole(jwt.RoleAdmin)

	// Catálogo
	productHandler := NewProductHandler(deps.ProductUC)
	api.Get("/products", productHandler.List)
	api.Get("/products/:id", productHandler.GetByID)
	api.Post("/products", adminOnly, productHandler.Save)
	api.Put("/variants/:id", adminOnly, productHandler.UpdateVariant)

	// Referencia
	customerHandler := NewCustomerHandler(deps.CustomerUC, deps.BranchUC)
	api.Get("/branches", customerHandler.ListBranches)
	api.Get("/customers", customerHandler.List)
	api.Post("/customers", salesRoles, customerHandler.Create)

	// Stock
	stockHandler := NewStockHandler(deps.StockUC, deps.BulkImportUC, deps.ImportCharset)
	stock := api.Group("/stock")
	stock.Get("/levels", stockHandler.Levels)
	stock.Get("/products/:id", stockHandler.ProductLevels)
	stock.Get("/reconcile", stockRoles, stockHandler.Reconcile)
	stock.Post("/adjustments", stockRoles, stockHandler.Adjust)
	stock.Post("/transfers", stockRoles, stockHandler.Transfer)
	stock.Post("/import", stockRoles, RequireBranchScope(), stockHandler.Import)
	stock.Get("/export", stockRoles, RequireBranchScope(), stockHandler.Export)
	api.Get("/adjustments", stockHandler.History)

	// Dashboard
	if deps.DashboardUC != nil {
		dashboardHandler := NewDashboardHandler(deps.DashboardUC)
		api.Get("/dashboard/summary", dashboardHandler.GetSummary)
	}

	// Consignaciones
	consignmentHandler := NewConsignmentHandler(deps.ConsignmentUC)
	consignments := api.Group("/consignments")
	consignments.Get("/", consignmentHandler.List)
	consignments.Get("/:id", consignmentHandler.GetByID)
	consignments.Get("/:id/sale", consignmentHandler.Sale)
	consignments.Get("/:id/document", consignmentHandler.Document)
	consignments.Post("/", stockRoles, consignmentHandler.Create)
	consignments.Post("/:id/dispatch", stockRoles, consignmentHandler.Dispatch)
	consignments.Post("/:id/deliver", stockRoles, consignmentHandler.Deliver)
	consignments.Post("/:id/sell", salesRoles, consignmentHandler.Sell)

	// Devoluciones
	returnHandler := NewReturnHandler(deps.ReturnUC)
	rets := api.Group("/returns")
	rets.Get("/pending", returnHandler.ListPending)
	rets.Post("/", salesRoles, returnHandler.Submit)
	rets.Post("/:id/approve", stockRoles, returnHandler.Approve)
	rets.Post("/:id/reject", stockRoles, returnHandler.Reject)
}
