// Package analytics contiene los casos de uso de reportes de solo lectura sobre el stock.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/stock-engine/internal/application/dto"
	"github.com/jhoicas/stock-engine/internal/domain"
	invdomain "github.com/jhoicas/stock-engine/internal/domain/inventory"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

const (
	dashboardMaxAlerts = 20  // alertas en el widget del dashboard
	historyPageSize    = 200 // tamaño de página al recorrer la bitácora del mes
)

// LevelsReader fuente de niveles de stock por sucursal (lo implementa inventory.StockUseCase).
type LevelsReader interface {
	BranchLevels(ctx context.Context, branchID string) ([]dto.VariantStockDTO, error)
}

// DashboardUseCase genera el resumen de stock de una sucursal y la actividad del mes en curso.
type DashboardUseCase struct {
	levels     LevelsReader
	adjRepo    repository.AdjustmentRepository
	branchRepo repository.BranchRepository
	now        func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(levels LevelsReader, adjRepo repository.AdjustmentRepository, branchRepo repository.BranchRepository) *DashboardUseCase {
	return &DashboardUseCase{levels: levels, adjRepo: adjRepo, branchRepo: branchRepo, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO para la sucursal indicada.
//
// Dos consultas en paralelo:
//  1. BranchLevels(sucursal)        → conteos por estado y alertas
//  2. bitácora del mes (paginada)   → MonthlyAdjustments
func (uc *DashboardUseCase) GetSummary(ctx context.Context, branchID string) (*dto.DashboardSummaryDTO, error) {
	if branchID == "" {
		return nil, fmt.Errorf("%w: branch_id es requerido", domain.ErrInvalidInput)
	}
	branch, err := uc.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, fmt.Errorf("%w: sucursal %s", domain.ErrNotFound, branchID)
	}

	now := uc.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	// ── Goroutines para paralelizar las consultas ─────────────────────────────
	type levelsResult struct {
		levels []dto.VariantStockDTO
		err    error
	}
	type activityResult struct {
		byType map[string]int
		err    error
	}

	levelsCh := make(chan levelsResult, 1)
	activityCh := make(chan activityResult, 1)

	go func() {
		levels, err := uc.levels.BranchLevels(ctx, branchID)
		levelsCh <- levelsResult{levels, err}
	}()
	go func() {
		byType, err := uc.countAdjustments(ctx, branchID, monthStart, monthEnd)
		activityCh <- activityResult{byType, err}
	}()

	levels := <-levelsCh
	activity := <-activityCh

	if levels.err != nil {
		return nil, fmt.Errorf("dashboard: niveles de stock: %w", levels.err)
	}
	if activity.err != nil {
		return nil, fmt.Errorf("dashboard: ajustes del mes: %w", activity.err)
	}

	out := &dto.DashboardSummaryDTO{
		BranchID:           branchID,
		Variants:           len(levels.levels),
		Alerts:             []dto.VariantStockDTO{},
		MonthlyAdjustments: activity.byType,
		DateLabel:          monthLabel(now),
	}
	for _, l := range levels.levels {
		out.TotalUnits += l.BranchStock
		switch invdomain.StockStatus(l.Status) {
		case invdomain.StatusInStock:
			out.InStock++
		case invdomain.StatusLowStock:
			out.LowStock++
			out.Alerts = append(out.Alerts, l)
		default:
			out.OutOfStock++
			out.Alerts = append(out.Alerts, l)
		}
	}
	sort.SliceStable(out.Alerts, func(i, j int) bool {
		return out.Alerts[i].BranchStock < out.Alerts[j].BranchStock
	})
	if len(out.Alerts) > dashboardMaxAlerts {
		out.Alerts = out.Alerts[:dashboardMaxAlerts]
	}
	return out, nil
}

func (uc *DashboardUseCase) countAdjustments(ctx context.Context, branchID string, from, to time.Time) (map[string]int, error) {
	byType := make(map[string]int)
	for offset := 0; ; offset += historyPageSize {
		page, err := uc.adjRepo.List(ctx, repository.AdjustmentFilter{
			BranchID: branchID,
			From:     from,
			To:       to,
			Limit:    historyPageSize,
			Offset:   offset,
		})
		if err != nil {
			return nil, err
		}
		for _, a := range page {
			byType[a.Type]++
		}
		if len(page) < historyPageSize {
			return byType, nil
		}
	}
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
