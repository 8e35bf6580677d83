package handler

import (
	"net/http"
	"strconv"

	"weighstation/internal/apierror"
	"weighstation/internal/dto"
	"weighstation/internal/service"

	"github.com/gin-gonic/gin"
)

type BillsHandler struct{ svc service.BillingService }

func NewBillsHandler(svc service.BillingService) *BillsHandler { return &BillsHandler{svc: svc} }

// GetBill godoc
// @Summary      Provider bill for a time window
// @Description  Aggregates the provider's closed sessions by produce and prices them: provider-scoped rate, else "All", else zero. Defaults: from = start of this month, to = now.
// @Tags         bills
// @Produce      json
// @Param        id   path  int    true  "Provider id"
// @Param        from query string false "yyyymmddhhmmss"
// @Param        to   query string false "yyyymmddhhmmss"
// @Success      200  {object} dto.BillResponse
// @Failure      404  {object} apierror.APIError
// @Failure      502  {object} apierror.APIError
// @Router       /bills/{id} [get]
func (h *BillsHandler) GetBill(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Provider not found"))
		return
	}
	var filter dto.BillFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, svcErr := h.svc.GetBill(c.Request.Context(), uint(id), filter)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}
