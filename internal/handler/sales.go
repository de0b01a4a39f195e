package handler

import (
	"net/http"

	"carniceria/internal/apierror"
	"carniceria/internal/dto"
	"carniceria/internal/service"

	"github.com/gin-gonic/gin"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

// RecordSale godoc
// @Summary      Registrar una venta
// @Description  Crea la venta, sus ítems y descuenta stock en una sola transacción. Rechaza toda la venta si algún producto no tiene stock suficiente.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Param        body body     dto.RecordSaleRequest true "Detalle de la venta"
// @Success      201  {object} map[string]interface{}
// @Failure      400  {object} apierror.ValidationError
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Failure      500  {object} apierror.APIError
// @Router       /v1/sales [post]
func (h *SalesHandler) RecordSale(c *gin.Context) {
	var req dto.RecordSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	result, err := h.svc.RecordSale(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Venta creada con éxito.",
		"sale":     result.Sale,
		"customer": result.Customer,
	})
}

// GetSale godoc
// @Summary      Obtener venta
// @Tags         ventas
// @Produce      json
// @Param        id  path     string true "UUID de la venta"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sales/{id} [get]
func (h *SalesHandler) GetSale(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sale, err := h.svc.GetSale(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"sale":    sale,
		"message": "Venta obtenida exitosamente",
	})
}

// ListSales godoc
// @Summary      Listar ventas
// @Description  Lista paginada de ventas, más recientes primero. Filtro opcional por fecha (YYYY-MM-DD).
// @Tags         ventas
// @Produce      json
// @Param        fecha query    string false "Fecha YYYY-MM-DD"
// @Param        page  query    int    false "Página"
// @Param        limit query    int    false "Tamaño de página"
// @Success      200   {object} dto.SaleListResponse
// @Router       /v1/sales [get]
func (h *SalesHandler) ListSales(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parámetros inválidos: "+err.Error()))
		return
	}
	resp, err := h.svc.ListSales(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
