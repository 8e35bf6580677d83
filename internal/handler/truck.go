package handler

import (
	"net/http"

	"weighstation/internal/dto"
	"weighstation/internal/service"

	"github.com/gin-gonic/gin"
)

type TruckHandler struct{ svc service.TruckService }

func NewTruckHandler(svc service.TruckService) *TruckHandler { return &TruckHandler{svc: svc} }

// Create godoc
// @Summary      Register a truck
// @Tags         trucks
// @Accept       json
// @Produce      json
// @Param        body body dto.TruckRequest true "Truck plate and provider id"
// @Success      201  {object} dto.TruckResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /truck [post]
func (h *TruckHandler) Create(c *gin.Context) {
	var req dto.TruckRequest
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
// @Summary      Reassign a truck to another provider
// @Tags         trucks
// @Accept       json
// @Produce      json
// @Param        id   path string                true "Truck plate"
// @Param        body body dto.TruckUpdateRequest true "New provider id"
// @Success      200  {object} dto.TruckResponse
// @Failure      404  {object} apierror.APIError
// @Router       /truck/{id} [put]
func (h *TruckHandler) Update(c *gin.Context) {
	var req dto.TruckUpdateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetData godoc
// @Summary      Truck weighing history
// @Description  Validates the truck locally, then proxies the weight service item lookup (tare + sessions) for the window.
// @Tags         trucks
// @Produce      json
// @Param        id   path  string true  "Truck plate"
// @Param        from query string false "yyyymmddhhmmss"
// @Param        to   query string false "yyyymmddhhmmss"
// @Success      200  {object} dto.ItemResponse
// @Failure      404  {object} apierror.APIError
// @Failure      502  {object} apierror.APIError
// @Router       /truck/{id} [get]
func (h *TruckHandler) GetData(c *gin.Context) {
	resp, err := h.svc.GetData(c.Request.Context(), c.Param("id"), c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
