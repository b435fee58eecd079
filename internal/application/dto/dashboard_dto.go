package dto

// DashboardSummaryDTO resumen de stock de una sucursal para la pantalla principal.
type DashboardSummaryDTO struct {
	BranchID   string            `json:"branch_id"`
	Variants   int               `json:"variants"`
	InStock    int               `json:"in_stock"`
	LowStock   int               `json:"low_stock"`
	OutOfStock int               `json:"out_of_stock"`
	TotalUnits int64             `json:"total_units"`
	Alerts     []VariantStockDTO `json:"alerts"` // variantes en lowStock u outOfStock, las más críticas primero
	// MonthlyAdjustments cantidad de entradas de bitácora del mes en curso por tipo.
	MonthlyAdjustments map[string]int `json:"monthly_adjustments"`
	DateLabel          string         `json:"date_label"`
}
