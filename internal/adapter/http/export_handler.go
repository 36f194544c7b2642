package http

import (
	"net/http"
	"time"

	"ilmfund-backend/internal/usecase/export"

	"github.com/labstack/echo/v4"
)

type ExportHandler struct{ uc *export.Usecase }

func NewExportHandler(uc *export.Usecase) *ExportHandler { return &ExportHandler{uc: uc} }

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Applications streams the full application book as an xlsx download.
func (h *ExportHandler) Applications(c echo.Context) error {
	data, err := h.uc.Applications(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="`+export.FileName(time.Now().UTC())+`"`)
	return c.Blob(http.StatusOK, xlsxMIME, data)
}
