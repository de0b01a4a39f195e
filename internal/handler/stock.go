package handler

import (
	"context"
	"net/http"

	"carniceria/internal/apierror"
	"carniceria/internal/dto"
	"carniceria/internal/service"

	"github.com/gin-gonic/gin"
)

// Scanner runs an on-demand low-stock scan. *service.StockMonitor satisfies it.
type Scanner interface {
	Scan(ctx context.Context) (int, error)
}

type StockHandler struct {
	svc     service.StockService
	scanner Scanner
}

func NewStockHandler(svc service.StockService, scanner Scanner) *StockHandler {
	return &StockHandler{svc: svc, scanner: scanner}
}

// ListLow godoc
// @Summary      Productos con bajo stock
// @Tags         stock
// @Produce      json
// @Success      200 {array} dto.LowStockResponse
// @Router       /v1/stock/low [get]
func (h *StockHandler) ListLow(c *gin.Context) {
	resp, err := h.svc.ListLow(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListMovements godoc
// @Summary      Movimientos de stock
// @Tags         stock
// @Produce      json
// @Param        product_id query    string false "UUID del producto"
// @Param        kind       query    string false "venta | ajuste"
// @Success      200        {object} dto.StockMovementListResponse
// @Router       /v1/stock/movements [get]
func (h *StockHandler) ListMovements(c *gin.Context) {
	var filter dto.StockMovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parámetros inválidos: "+err.Error()))
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Scan godoc
// @Summary      Verificar bajo stock
// @Description  Envía una única notificación con todos los productos con stock menor o igual a 5.
// @Tags         stock
// @Produce      json
// @Success      200 {object} dto.ScanResponse
// @Router       /v1/stock/scan [post]
func (h *StockHandler) Scan(c *gin.Context) {
	n, err := h.scanner.Scan(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ScanResponse{Success: true, Reported: n})
}
