package handler

import (
	"errors"
	"net/http"
	"strings"

	"weighstation/internal/apierror"
	"weighstation/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps service sentinel errors onto HTTP statuses. Anything
// unexpected is pushed to the ErrorHandler middleware, which logs it and
// answers a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, apierror.New(errDetail(err, service.ErrValidation)))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New(errDetail(err, service.ErrNotFound)))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, apierror.New(errDetail(err, service.ErrConflict)))
	case errors.Is(err, service.ErrUpstream):
		c.JSON(http.StatusBadGateway, apierror.New("Weight service unavailable"))
	default:
		_ = c.Error(err)
	}
}

// errDetail strips the sentinel prefix so clients see only the message.
func errDetail(err, sentinel error) string {
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}
