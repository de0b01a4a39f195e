package handler

import (
	"net/http"

	"carniceria/internal/apierror"
	"carniceria/internal/dto"
	"carniceria/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CategoriesHandler struct {
	categories service.CategoryService
	cuts       service.CutService
}

func NewCategoriesHandler(categories service.CategoryService, cuts service.CutService) *CategoriesHandler {
	return &CategoriesHandler{categories: categories, cuts: cuts}
}

func (h *CategoriesHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.categories.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CategoriesHandler) ListCategories(c *gin.Context) {
	resp, err := h.categories.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoriesHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.categories.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteCategory godoc
// @Summary      Eliminar categoría
// @Description  Elimina la categoría y sus cortes; los productos quedan sin categoría.
// @Tags         categorias
// @Param        id  path string true "UUID de la categoría"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/categories/{id} [delete]
func (h *CategoriesHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CategoriesHandler) CreateCut(c *gin.Context) {
	var req dto.CutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.cuts.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListCuts accepts an optional ?category_id= filter.
func (h *CategoriesHandler) ListCuts(c *gin.Context) {
	var categoryID *uuid.UUID
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("category_id inválido"))
			return
		}
		categoryID = &id
	}
	resp, err := h.cuts.List(c.Request.Context(), categoryID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoriesHandler) UpdateCut(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.CutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.cuts.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoriesHandler) DeleteCut(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.cuts.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
