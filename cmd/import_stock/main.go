// import_stock aplica un archivo sku,newQuantity contra una sucursal usando el mismo flujo que
// POST /api/stock/import, o exporta el stock de la sucursal con -export.
//
// Uso: go run ./cmd/import_stock -branch main [-charset latin1] [-actor cli] ruta/stock.csv
//
//	go run ./cmd/import_stock -branch main -export > stock.csv
//
// Requiere STORAGE_DRIVER=postgres para que el resultado persista.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/stock-engine/internal/application/inventory"
	infranotify "github.com/jhoicas/stock-engine/internal/infrastructure/notify"
	"github.com/jhoicas/stock-engine/internal/infrastructure/storage"
	"github.com/jhoicas/stock-engine/pkg/config"
	"github.com/jhoicas/stock-engine/pkg/logger"
)

func main() {
	branch := flag.String("branch", "", "sucursal destino (requerido)")
	charset := flag.String("charset", "", "charset del archivo; por defecto IMPORT_CHARSET")
	actor := flag.String("actor", "import_stock", "usuario registrado en la bitácora")
	export := flag.Bool("export", false, "exportar el stock de la sucursal a stdout en lugar de importar")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if *branch == "" {
		fmt.Fprintln(os.Stderr, "Falta -branch")
		os.Exit(2)
	}
	if *charset == "" {
		*charset = cfg.Import.Charset
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Out: os.Stderr})
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn().Msg("STORAGE_DRIVER=memory: el resultado no se conserva al terminar")
	}

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Inicializar almacenamiento: %v\n", err)
		os.Exit(1)
	}
	defer backend.Close()

	repos := backend.Repos
	uc := inventory.NewBulkImportUseCase(
		backend.TxRunner, repos.Catalog, repos.Stock, backend.Branches,
		inventory.NewAdjustmentLog(), infranotify.NewLogNotifier(log), cfg.Import.Workers,
	)

	if *export {
		if err := uc.Export(ctx, *branch, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Exportar: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Uso: import_stock -branch <id> [-charset latin1] archivo.csv")
		os.Exit(2)
	}
	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir archivo: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	res, err := uc.Import(ctx, f, inventory.ImportOptions{BranchID: *branch, Actor: *actor, Charset: *charset})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Importar: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Filas aplicadas: %d\n", res.SuccessCount)
	if res.AdjustmentID != "" {
		fmt.Printf("Ajuste registrado: %s\n", res.AdjustmentID)
	}
	for _, e := range res.Errors {
		fmt.Printf("  - %s\n", e)
	}
	if len(res.Errors) > 0 {
		os.Exit(3)
	}
}
