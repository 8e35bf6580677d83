package handler

import (
	"net/http"
	"strconv"

	"weighstation/internal/apierror"
	"weighstation/internal/dto"
	"weighstation/internal/service"

	"github.com/gin-gonic/gin"
)

type ProviderHandler struct{ svc service.ProviderService }

func NewProviderHandler(svc service.ProviderService) *ProviderHandler {
	return &ProviderHandler{svc: svc}
}

// Create godoc
// @Summary      Create a provider
// @Tags         providers
// @Accept       json
// @Produce      json
// @Param        body body dto.ProviderRequest true "Provider"
// @Success      201  {object} dto.ProviderResponse
// @Failure      409  {object} apierror.APIError
// @Router       /provider [post]
func (h *ProviderHandler) Create(c *gin.Context) {
	var req dto.ProviderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary      Rename a provider
// @Tags         providers
// @Accept       json
// @Produce      json
// @Param        id   path int                 true "Provider id"
// @Param        body body dto.ProviderRequest true "Provider"
// @Success      200  {object} dto.ProviderResponse
// @Failure      404  {object} apierror.APIError
// @Router       /provider/{id} [put]
func (h *ProviderHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid provider id"))
		return
	}
	var req dto.ProviderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, svcErr := h.svc.Update(c.Request.Context(), uint(id), req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}
