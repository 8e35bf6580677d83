package handler

import (
	"net/http"
	"strconv"

	"weighstation/internal/apierror"
	"weighstation/internal/dto"
	"weighstation/internal/service"

	"github.com/gin-gonic/gin"
)

type WeightHandler struct{ svc service.WeighingService }

func NewWeightHandler(svc service.WeighingService) *WeightHandler { return &WeightHandler{svc: svc} }

// Record godoc
// @Summary      Record a weighing event
// @Description  Records an in/out/none weighing. An "out" closes the truck's open session atomically: the matching "in" row gets truck_tara/neto and an "out" row is inserted.
// @Tags         weight
// @Accept       json
// @Produce      json
// @Param        body body dto.WeightRequest true "Weighing event"
// @Success      201  {object} dto.WeightResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /weight [post]
func (h *WeightHandler) Record(c *gin.Context) {
	var req dto.WeightRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Record(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List weighings
// @Description  Transactions in [from, to), newest first. Defaults: from = start of today, to = now, filter = in,out,none.
// @Tags         weight
// @Produce      json
// @Param        from   query string false "yyyymmddhhmmss"
// @Param        to     query string false "yyyymmddhhmmss"
// @Param        filter query string false "comma list of in,out,none"
// @Success      200    {array} dto.TransactionResponse
// @Router       /weight [get]
func (h *WeightHandler) List(c *gin.Context) {
	var filter dto.WeightFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetSession godoc
// @Summary      Session lookup
// @Description  Given an "in" transaction id, returns the session; truckTara/neto appear once the matching out exists.
// @Tags         weight
// @Produce      json
// @Param        id path int true "Transaction id of the in event"
// @Success      200 {object} dto.SessionResponse
// @Failure      404 {object} apierror.APIError
// @Router       /session/{id} [get]
func (h *WeightHandler) GetSession(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Session not found"))
		return
	}
	resp, svcErr := h.svc.GetSession(c.Request.Context(), uint(id))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetItem godoc
// @Summary      Truck or container lookup
// @Description  For a truck: last known tare and session ids in the window. For a container: registered weights and the sessions it appeared in.
// @Tags         weight
// @Produce      json
// @Param        id   path  string true  "Truck or container id"
// @Param        from query string false "yyyymmddhhmmss"
// @Param        to   query string false "yyyymmddhhmmss"
// @Success      200  {object} dto.ItemResponse
// @Failure      404  {object} apierror.APIError
// @Router       /item/{id} [get]
func (h *WeightHandler) GetItem(c *gin.Context) {
	var filter dto.ItemFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.GetItem(c.Request.Context(), c.Param("id"), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
