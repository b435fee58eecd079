package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
)

// OptionDefinitionRequest opción del producto. Values acepta la lista tal como se capturó;
// RawValues ("S, M, L") se separa por comas si Values viene vacío.
type OptionDefinitionRequest struct {
	Name      string   `json:"name"`
	Values    []string `json:"values"`
	RawValues string   `json:"raw_values,omitempty"`
}

// SaveProductRequest entrada para crear o actualizar un producto y regenerar sus variantes.
type SaveProductRequest struct {
	ID         string                    `json:"id,omitempty"`
	Name       string                    `json:"name"`
	Category   string                    `json:"category"`
	SupplierID string                    `json:"supplier_id"`
	HasOptions bool                      `json:"has_options"`
	Options    []OptionDefinitionRequest `json:"options"`
	// Variants permite fijar SKU/precio/costo/umbral por firma de opciones al guardar.
	Variants []VariantInput `json:"variants,omitempty"`
}

// VariantInput datos editables de una variante, identificada por su mapa de opciones.
type VariantInput struct {
	Options           map[string]string `json:"options"`
	SKU               string            `json:"sku"`
	Price             *decimal.Decimal  `json:"price,omitempty"`
	CostPrice         *decimal.Decimal  `json:"cost_price,omitempty"`
	LowStockThreshold *int64            `json:"low_stock_threshold,omitempty"`
}

// UpdateVariantRequest entrada para PUT /api/variants/:id.
type UpdateVariantRequest struct {
	SKU               *string          `json:"sku"`
	Price             *decimal.Decimal `json:"price"`
	CostPrice         *decimal.Decimal `json:"cost_price"`
	LowStockThreshold *int64           `json:"low_stock_threshold"`
}

// VariantResponse salida de una variante.
type VariantResponse struct {
	ID                string            `json:"id"`
	ProductID         string            `json:"product_id"`
	SKU               string            `json:"sku"`
	Price             decimal.Decimal   `json:"price"`
	CostPrice         decimal.Decimal   `json:"cost_price"`
	LowStockThreshold int64             `json:"low_stock_threshold"`
	Options           map[string]string `json:"options"`
}

// OptionDefinitionResponse opción guardada del producto.
type OptionDefinitionResponse struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// ProductResponse salida de un producto con sus variantes.
type ProductResponse struct {
	ID         string                     `json:"id"`
	Name       string                     `json:"name"`
	Category   string                     `json:"category"`
	SupplierID string                     `json:"supplier_id"`
	HasOptions bool                       `json:"has_options"`
	Options    []OptionDefinitionResponse `json:"options"`
	Variants   []VariantResponse          `json:"variants"`
	CreatedAt  time.Time                  `json:"created_at"`
	UpdatedAt  time.Time                  `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ToVariantResponse convierte la entidad a su salida HTTP.
func ToVariantResponse(v *entity.Variant) VariantResponse {
	return VariantResponse{
		ID:                v.ID,
		ProductID:         v.ProductID,
		SKU:               v.SKU,
		Price:             v.Price,
		CostPrice:         v.CostPrice,
		LowStockThreshold: v.LowStockThreshold,
		Options:           v.Options,
	}
}

// ToProductResponse convierte la entidad a su salida HTTP.
func ToProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	out := &ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		Category:   p.Category,
		SupplierID: p.SupplierID,
		HasOptions: p.HasOptions,
		Options:    make([]OptionDefinitionResponse, 0, len(p.Options)),
		Variants:   make([]VariantResponse, 0, len(p.Variants)),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	for _, o := range p.Options {
		out.Options = append(out.Options, OptionDefinitionResponse{Name: o.Name, Values: o.Values})
	}
	for _, v := range p.Variants {
		out.Variants = append(out.Variants, ToVariantResponse(v))
	}
	return out
}
