package consignment

import (
	"context"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
)

// DocumentRenderer genera el documento (PDF) de una venta de consignación a partir de su proyección.
type DocumentRenderer interface {
	RenderSaleDocument(ctx context.Context, doc SaleDocument) ([]byte, error)
}

// SaleDocument datos completos que consume el renderizador. Si falta cualquier referencia del catálogo
// no se construye (ver ProjectConsignmentSale).
type SaleDocument struct {
	Sale        *entity.Sale
	Consignment *entity.Consignment
	Branch      *entity.Branch
}
