package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-engine/internal/application/analytics"
	"github.com/jhoicas/stock-engine/internal/application/consignment"
	"github.com/jhoicas/stock-engine/internal/application/dto"
	"github.com/jhoicas/stock-engine/internal/application/inventory"
	"github.com/jhoicas/stock-engine/internal/application/returns"
	"github.com/jhoicas/stock-engine/internal/application/usecase"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/infrastructure/memory"
	"github.com/jhoicas/stock-engine/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/stock-engine/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/stock-engine/pkg/jwt"
)

// buildRouterApp arma el router completo sobre el store en memoria con sucursales main y norte.
func buildRouterApp(t *testing.T) *fiber.App {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	for _, b := range []*entity.Branch{{ID: "main", Name: "Principal"}, {ID: "norte", Name: "Norte"}} {
		require.NoError(t, store.Branches().Upsert(ctx, b))
	}
	repos := store.Repositories()
	log := inventory.NewAdjustmentLog()
	stockUC := inventory.NewStockUseCase(store, repos.Stock, repos.Catalog, repos.Adjustments, store.Branches(), log, nil)
	deps := apphttp.RouterDeps{
		ProductUC:    usecase.NewProductUseCase(store, repos.Catalog, nil),
		CustomerUC:   usecase.NewCustomerUseCase(store.Customers()),
		BranchUC:     usecase.NewBranchUseCase(store.Branches()),
		StockUC:      stockUC,
		BulkImportUC: inventory.NewBulkImportUseCase(store, repos.Catalog, repos.Stock, store.Branches(), log, nil, 2),
		ConsignmentUC: consignment.NewUseCase(store, repos.Consignments, repos.Catalog, repos.Stock,
			store.Branches(), store.Customers(), log, nil, pdf.NewSaleDocumentRenderer()),
		ReturnUC:      returns.NewUseCase(store, repos.Returns, repos.Catalog, store.Branches(), log, nil),
		DashboardUC:   analytics.NewDashboardUseCase(stockUC, repos.Adjustments, store.Branches()),
		JWTSecret:     testJWTSecret,
		ImportCharset: "utf-8",
	}
	app := fiber.New()
	apphttp.Router(app, deps)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	contentType := fiber.MIMEApplicationJSON
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
		contentType = fiber.MIMETextPlain
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, contentType)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func TestRouter_HealthEsPublico(t *testing.T) {
	app := buildRouterApp(t)
	resp, _ := call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/api/branches", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_FlujoDeStockYConsignacion(t *testing.T) {
	app := buildRouterApp(t)
	admin := tokenForRole(t, pkgjwt.RoleAdmin)
	bodeguero := tokenForRole(t, pkgjwt.RoleBodeguero)
	vendedor := tokenForRole(t, pkgjwt.RoleVendedor)

	// Catálogo: solo admin
	productReq := dto.SaveProductRequest{
		Name: "Camiseta", HasOptions: true,
		Options: []dto.OptionDefinitionRequest{{Name: "Talla", Values: []string{"S", "M"}}},
		Variants: []dto.VariantInput{
			{Options: map[string]string{"Talla": "S"}, SKU: "CAM-S"},
			{Options: map[string]string{"Talla": "M"}, SKU: "CAM-M"},
		},
	}
	resp, _ := call(t, app, http.MethodPost, "/api/products", bodeguero, productReq)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, raw := call(t, app, http.MethodPost, "/api/products", admin, productReq)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	product := decode[dto.ProductResponse](t, raw)
	require.Len(t, product.Variants, 2)
	variantS := product.Variants[0].ID

	// Importación masiva con alcance de sucursal
	resp, _ = call(t, app, http.MethodPost, "/api/stock/import?branch_id=norte", bodeguero, "sku,newQuantity\nCAM-S,5\n")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "bodeguero de main no importa en norte")
	resp, raw = call(t, app, http.MethodPost, "/api/stock/import?branch_id=main", bodeguero, "sku,newQuantity\nCAM-S,10\nCAM-X,1\n")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	imported := decode[dto.ImportResult](t, raw)
	assert.Equal(t, 1, imported.SuccessCount)
	assert.Equal(t, []string{"SKU not found: CAM-X"}, imported.Errors)

	resp, raw = call(t, app, http.MethodGet, "/api/stock/export?branch_id=main", bodeguero, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "sku,newQuantity\nCAM-S,10\nCAM-M,0\n", string(raw))

	// Ajuste: vendedor no puede
	resp, _ = call(t, app, http.MethodPost, "/api/stock/adjustments", vendedor, fiber.Map{
		"branch_id": "main", "variant_id": variantS, "delta": -1, "reason": "merma",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, raw = call(t, app, http.MethodPost, "/api/stock/adjustments", bodeguero, fiber.Map{
		"branch_id": "main", "variant_id": variantS, "delta": -20, "reason": "merma",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode[dto.ErrorResponse](t, raw).Code)

	// Consignación: crear, despachar, repetir despacho
	resp, raw = call(t, app, http.MethodPost, "/api/consignments", bodeguero, dto.CreateConsignmentRequest{
		OriginBranchID: "main", DestinationAddress: "Cra 7", Items: []dto.LineItem{{VariantID: variantS, Quantity: 4}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	cons := decode[dto.ConsignmentResponse](t, raw)

	resp, raw = call(t, app, http.MethodPost, "/api/consignments/"+cons.ID+"/dispatch", bodeguero, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, entity.ConsignmentInTransit, decode[dto.ConsignmentResponse](t, raw).Status)
	resp, raw = call(t, app, http.MethodPost, "/api/consignments/"+cons.ID+"/dispatch", bodeguero, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_TRANSITION", decode[dto.ErrorResponse](t, raw).Code)

	resp, raw = call(t, app, http.MethodGet, "/api/stock/reconcile?branch_id=main&variant_id="+variantS, admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rec := decode[map[string]any](t, raw)
	assert.Equal(t, float64(6), rec["ledger"])
	assert.Equal(t, true, rec["consistent"])

	// Venta por vendedor y documento
	resp, raw = call(t, app, http.MethodPost, "/api/customers", vendedor, dto.CreateCustomerRequest{Name: "Tienda", TaxID: "900123456"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	customer := decode[dto.CustomerResponse](t, raw)
	resp, raw = call(t, app, http.MethodPost, "/api/consignments/"+cons.ID+"/sell", vendedor, dto.SellConsignmentRequest{CustomerID: customer.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = call(t, app, http.MethodGet, "/api/consignments/"+cons.ID+"/sale", vendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	sale := decode[dto.SaleResponse](t, raw)
	assert.Equal(t, "Tienda", sale.CustomerName)

	resp, raw = call(t, app, http.MethodGet, "/api/consignments/"+cons.ID+"/document", vendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestRouter_DevolucionSeApruebaUnaVez(t *testing.T) {
	app := buildRouterApp(t)
	admin := tokenForRole(t, pkgjwt.RoleAdmin)
	vendedor := tokenForRole(t, pkgjwt.RoleVendedor)

	resp, raw := call(t, app, http.MethodPost, "/api/products", admin, dto.SaveProductRequest{Name: "Gorra"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	variantID := decode[dto.ProductResponse](t, raw).Variants[0].ID

	resp, raw = call(t, app, http.MethodPost, "/api/returns", vendedor, fiber.Map{
		"sale_id": "INV-1", "branch_id": "main",
		"items": []fiber.Map{{"variant_id": variantID, "quantity": 2, "unit_price": "15000"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	ret := decode[dto.ReturnRequestResponse](t, raw)

	resp, _ = call(t, app, http.MethodPost, "/api/returns/"+ret.ID+"/approve", vendedor, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, raw = call(t, app, http.MethodPost, "/api/returns/"+ret.ID+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	resp, raw = call(t, app, http.MethodPost, "/api/returns/"+ret.ID+"/approve", admin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_RESOLVED", decode[dto.ErrorResponse](t, raw).Code)

	resp, raw = call(t, app, http.MethodGet, "/api/adjustments?type=SaleReturn", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decode[dto.AdjustmentListResponse](t, raw)
	require.Len(t, history.Items, 1)
	assert.Equal(t, "INV-1", history.Items[0].Reference)

	resp, _ = call(t, app, http.MethodGet, "/api/adjustments?from=ayer", admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw = call(t, app, http.MethodGet, "/api/dashboard/summary?branch_id=main", vendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	summary := decode[dto.DashboardSummaryDTO](t, raw)
	assert.Equal(t, 1, summary.Variants)
	assert.Equal(t, int64(2), summary.TotalUnits)
	assert.Equal(t, 1, summary.MonthlyAdjustments[entity.AdjustmentSaleReturn])

	resp, _ = call(t, app, http.MethodGet, "/api/dashboard/summary?branch_id=sur", vendedor, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_ProductoInexistente(t *testing.T) {
	app := buildRouterApp(t)
	resp, raw := call(t, app, http.MethodGet, "/api/products/nope", tokenForRole(t, pkgjwt.RoleVendedor), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, raw).Code)
}
