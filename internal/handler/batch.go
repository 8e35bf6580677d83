package handler

import (
	"io"
	"net/http"

	"weighstation/internal/apierror"
	"weighstation/internal/dto"
	"weighstation/internal/service"

	"github.com/gin-gonic/gin"
)

type BatchHandler struct{ svc service.ContainerService }

func NewBatchHandler(svc service.ContainerService) *BatchHandler { return &BatchHandler{svc: svc} }

// maxBatchFileSize caps container uploads at 5 MiB.
const maxBatchFileSize = 5 << 20

// Import godoc
// @Summary      Bulk container registration
// @Description  Upserts container tare weights from a CSV (header id,kg or id,lbs) or JSON file. Last write wins per container id.
// @Tags         containers
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "containers file (.csv or .json)"
// @Success      201  {object} dto.BatchResponse
// @Failure      400  {object} apierror.APIError
// @Router       /batch-weight [post]
func (h *BatchHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No file part in the request"))
		return
	}
	if fileHeader.Size > maxBatchFileSize {
		c.JSON(http.StatusBadRequest, apierror.New("File too large"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp, svcErr := h.svc.ImportBatch(c.Request.Context(), fileHeader.Filename, data)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Unknown godoc
// @Summary      Unregistered containers report
// @Tags         containers
// @Produce      json
// @Success      200 {object} dto.UnknownResponse
// @Router       /unknown [get]
func (h *BatchHandler) Unknown(c *gin.Context) {
	ids, err := h.svc.UnknownContainers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UnknownResponse{UnknownContainers: ids})
}
