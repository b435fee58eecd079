package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/stock-engine/internal/application/analytics"
	"github.com/jhoicas/stock-engine/internal/application/consignment"
	"github.com/jhoicas/stock-engine/internal/application/inventory"
	"github.com/jhoicas/stock-engine/internal/application/returns"
	"github.com/jhoicas/stock-engine/internal/application/usecase"
	infranotify "github.com/jhoicas/stock-engine/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/stock-engine/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-engine/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/stock-engine/internal/interfaces/http"
	"github.com/jhoicas/stock-engine/pkg/config"
	"github.com/jhoicas/stock-engine/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer backend.Close()

	repos := backend.Repos
	notifier := infranotify.NewLogNotifier(log)
	adjustmentLog := inventory.NewAdjustmentLog()

	productUC := usecase.NewProductUseCase(backend.TxRunner, repos.Catalog, notifier)
	customerUC := usecase.NewCustomerUseCase(backend.Customers)
	branchUC := usecase.NewBranchUseCase(backend.Branches)
	stockUC := inventory.NewStockUseCase(
		backend.TxRunner, repos.Stock, repos.Catalog, repos.Adjustments, backend.Branches,
		adjustmentLog, notifier,
	)
	bulkImportUC := inventory.NewBulkImportUseCase(
		backend.TxRunner, repos.Catalog, repos.Stock, backend.Branches,
		adjustmentLog, notifier, cfg.Import.Workers,
	)

	// Documento de venta de consignaciones (PDF)
	saleDocRenderer := infrapdf.NewSaleDocumentRenderer()
	consignmentUC := consignment.NewUseCase(
		backend.TxRunner, repos.Consignments, repos.Catalog, repos.Stock,
		backend.Branches, backend.Customers, adjustmentLog, notifier, saleDocRenderer,
	)
	returnUC := returns.NewUseCase(
		backend.TxRunner, repos.Returns, repos.Catalog, backend.Branches, adjustmentLog, notifier,
	)
	dashboardUC := analytics.NewDashboardUseCase(stockUC, repos.Adjustments, backend.Branches)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimit,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Engine API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:     productUC,
		CustomerUC:    customerUC,
		BranchUC:      branchUC,
		StockUC:       stockUC,
		BulkImportUC:  bulkImportUC,
		ConsignmentUC: consignmentUC,
		ReturnUC:      returnUC,
		DashboardUC:   dashboardUC,
		JWTSecret:     cfg.JWT.Secret,
		ImportCharset: cfg.Import.Charset,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
