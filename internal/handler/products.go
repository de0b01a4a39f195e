package handler

import (
	"net/http"

	"carniceria/internal/apierror"
	"carniceria/internal/dto"
	"carniceria/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// Create godoc
// @Summary      Crear producto
// @Tags         productos
// @Accept       json
// @Produce      json
// @Param        body body     dto.ProductRequest true "Producto"
// @Success      201  {object} dto.ProductResponse
// @Failure      400  {object} apierror.ValidationError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      Listar productos
// @Tags         productos
// @Produce      json
// @Param        name        query    string false "Búsqueda por nombre"
// @Param        category_id query    string false "Categoría"
// @Param        cut_id      query    string false "Corte"
// @Param        active      query    string false "true | false"
// @Success      200         {object} dto.ProductListResponse
// @Router       /v1/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parámetros inválidos: "+err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Actualizar producto
// @Description  Reemplaza los datos del producto. Un cambio de stock queda registrado como ajuste y puede disparar la alerta de bajo stock.
// @Tags         productos
// @Accept       json
// @Produce      json
// @Param        id   path     string             true "UUID del producto"
// @Param        body body     dto.ProductRequest true "Producto"
// @Success      200  {object} dto.ProductResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/products/{id} [put]
func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         productos
// @Param        id  path string true "UUID del producto"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/products/{id} [delete]
func (h *ProductsHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
