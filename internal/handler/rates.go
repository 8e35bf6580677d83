package handler

import (
	"io"
	"net/http"

	"weighstation/internal/apierror"
	"weighstation/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxRatesFileSize caps rate sheet uploads at 5 MiB.
const maxRatesFileSize = 5 << 20

type RatesHandler struct{ svc service.RateService }

func NewRatesHandler(svc service.RateService) *RatesHandler { return &RatesHandler{svc: svc} }

// Upload godoc
// @Summary      Replace the rate table
// @Description  Uploads an xlsx with Product/Rate/Scope columns. The whole table is replaced atomically and the rates cache is invalidated.
// @Tags         rates
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "rates.xlsx"
// @Success      201  {object} dto.RatesUploadResponse
// @Failure      400  {object} apierror.APIError
// @Router       /rates [post]
func (h *RatesHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No file part in the request"))
		return
	}
	if fileHeader.Size > maxRatesFileSize {
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

	resp, svcErr := h.svc.Import(c.Request.Context(), data)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Download godoc
// @Summary      Download the rate table as xlsx
// @Tags         rates
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200 {file} binary
// @Router       /rates [get]
func (h *RatesHandler) Download(c *gin.Context) {
	data, err := h.svc.Export(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="rates.xlsx"`)
	c.Data(http.StatusOK, xlsxMIME, data)
}
