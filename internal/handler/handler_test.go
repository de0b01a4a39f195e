package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"carniceria/internal/dto"
	"carniceria/internal/middleware"
	"carniceria/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubSaleService struct {
	err      error
	recorded []dto.RecordSaleRequest
}

func (s *stubSaleService) RecordSale(_ context.Context, req dto.RecordSaleRequest) (*dto.SaleResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.recorded = append(s.recorded, req)
	customer := dto.CustomerResponse{ID: uuid.NewString(), Name: "Cliente General"}
	return &dto.SaleResult{
		Sale: dto.SaleResponse{
			ID:            uuid.NewString(),
			Customer:      &customer,
			Total:         *req.Total,
			PaymentMethod: req.PaymentMethod,
			Status:        "pendiente",
		},
		Customer: customer,
	}, nil
}

func (s *stubSaleService) GetSale(_ context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SaleResponse{ID: id.String(), Status: "pendiente"}, nil
}

func (s *stubSaleService) ListSales(_ context.Context, f dto.SaleFilter) (*dto.SaleListResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SaleListResponse{Data: []dto.SaleResponse{}, Page: f.Page, Limit: f.Limit}, nil
}

type stubScanner struct {
	n   int
	err error
}

func (s stubScanner) Scan(context.Context) (int, error) { return s.n, s.err }

func newSalesEngine(svc service.SaleService) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	h := NewSalesHandler(svc)
	r.POST("/v1/sales", h.RecordSale)
	r.GET("/v1/sales", h.ListSales)
	r.GET("/v1/sales/:id", h.GetSale)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func validSaleBody() map[string]any {
	return map[string]any{
		"items": []map[string]any{{
			"product_id": uuid.NewString(),
			"quantity":   "1.5",
			"unit_price": "4000",
			"subtotal":   "6000",
		}},
		"payment_method": "efectivo",
		"total":          "6000",
	}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestRecordSale_Created(t *testing.T) {
	svc := &stubSaleService{}
	w, body := doJSON(t, newSalesEngine(svc), http.MethodPost, "/v1/sales", validSaleBody())

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Venta creada con éxito.", body["message"])
	assert.Contains(t, body, "sale")
	assert.Contains(t, body, "customer")

	require.Len(t, svc.recorded, 1)
	assert.True(t, svc.recorded[0].Items[0].Quantity.Equal(decimal.RequireFromString("1.5")))
}

func TestRecordSale_ValidationFailure(t *testing.T) {
	svc := &stubSaleService{}
	payload := validSaleBody()
	payload["payment_method"] = "cheque"
	payload["items"] = []map[string]any{}

	w, body := doJSON(t, newSalesEngine(svc), http.MethodPost, "/v1/sales", payload)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "oneof", fields["PaymentMethod"])
	assert.Equal(t, "min", fields["Items"])
	assert.Empty(t, svc.recorded)
}

func TestRecordSale_MissingAmountsRejected(t *testing.T) {
	svc := &stubSaleService{}
	payload := map[string]any{
		"payment_method": "efectivo",
		"items": []map[string]any{{
			"product_id": uuid.NewString(),
			"quantity":   "1",
		}},
	}

	w, body := doJSON(t, newSalesEngine(svc), http.MethodPost, "/v1/sales", payload)

	require.Equal(t, http.StatusBadRequest, w.Code)
	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "required", fields["Total"])
	assert.Equal(t, "required", fields["Items[0].UnitPrice"])
	assert.Equal(t, "required", fields["Items[0].Subtotal"])
	assert.Empty(t, svc.recorded)
}

func TestRecordSale_QuantityBeyondStoredPrecision(t *testing.T) {
	svc := &stubSaleService{}
	payload := validSaleBody()
	payload["items"].([]map[string]any)[0]["quantity"] = "0.0004"

	w, body := doJSON(t, newSalesEngine(svc), http.MethodPost, "/v1/sales", payload)

	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := body["fields"].(map[string]any)
	assert.Equal(t, "decimals", fields["Items[0].Quantity"])
	assert.Empty(t, svc.recorded)
}

func TestRecordSale_MalformedJSON(t *testing.T) {
	r := newSalesEngine(&stubSaleService{})
	req := httptest.NewRequest(http.MethodPost, "/v1/sales", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordSale_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"insufficient stock", &service.ConflictError{Message: "Stock insuficiente para Asado"}, http.StatusConflict, "Stock insuficiente para Asado"},
		{"unknown product", &service.NotFoundError{Entity: "Producto", ID: "x"}, http.StatusNotFound, "Producto x no encontrado"},
		{"storage failure", &service.TransientError{Op: "registrar venta", Err: errors.New("connection reset")}, http.StatusInternalServerError, "Error interno del servidor"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, body := doJSON(t, newSalesEngine(&stubSaleService{err: tc.err}), http.MethodPost, "/v1/sales", validSaleBody())
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tc.message, body["message"])
			// Internal details never reach the client.
			assert.NotContains(t, w.Body.String(), "connection reset")
		})
	}
}

func TestGetSale(t *testing.T) {
	id := uuid.NewString()
	w, body := doJSON(t, newSalesEngine(&stubSaleService{}), http.MethodGet, "/v1/sales/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Venta obtenida exitosamente", body["message"])
	sale := body["sale"].(map[string]any)
	assert.Equal(t, id, sale["id"])

	w, _ = doJSON(t, newSalesEngine(&stubSaleService{}), http.MethodGet, "/v1/sales/nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, newSalesEngine(&stubSaleService{err: &service.NotFoundError{Entity: "Venta"}}), http.MethodGet, "/v1/sales/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListSales_DefaultPagination(t *testing.T) {
	w, body := doJSON(t, newSalesEngine(&stubSaleService{}), http.MethodGet, "/v1/sales", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["page"])
	assert.EqualValues(t, 50, body["limit"])
}

func TestStockScan(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.POST("/v1/stock/scan", NewStockHandler(nil, stubScanner{n: 3}).Scan)

	w, body := doJSON(t, r, http.MethodPost, "/v1/stock/scan", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 3, body["reported"])

	r = gin.New()
	r.Use(middleware.ErrorHandler())
	r.POST("/v1/stock/scan", NewStockHandler(nil, stubScanner{err: errors.New("db down")}).Scan)
	w, _ = doJSON(t, r, http.MethodPost, "/v1/stock/scan", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
