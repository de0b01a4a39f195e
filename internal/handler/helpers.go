package handler

import (
	"errors"
	"net/http"

	"carniceria/internal/apierror"
	"carniceria/internal/service"
	"carniceria/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	fields, err := validation.Struct(req)
	if err != nil {
		_ = c.Error(err)
		return false
	}
	if fields != nil {
		c.JSON(http.StatusBadRequest, apierror.NewValidation(fields))
		return false
	}
	return true
}

// parseID reads the :id path parameter, answering 400 when it is not a UUID.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps service errors to status codes. Unknown errors are handed
// to the ErrorHandler middleware, which logs them and answers a generic 500.
func writeError(c *gin.Context, err error) {
	var (
		ve *service.ValidationError
		nf *service.NotFoundError
		ce *service.ConflictError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, apierror.NewValidation(ve.Fields))
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, apierror.New(nf.Error()))
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, apierror.New(ce.Message))
	default:
		_ = c.Error(err)
	}
}
