package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/ceibcn/crm-api/internal/service"
	appErrors "github.com/ceibcn/crm-api/pkg/errors"
	"github.com/ceibcn/crm-api/pkg/response"
)

// ExportHandler exposes dataset exports.
type ExportHandler struct {
	exports *service.ExportService
	metrics *service.MetricsService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService, metrics *service.MetricsService) *ExportHandler {
	return &ExportHandler{exports: exports, metrics: metrics}
}

// Export godoc
// @Summary Export a filtered dataset
// @Description Renders the chosen view with the requested columns, fixed
// @Description filters and attribute filters as a CSV, XLSX or PDF download.
// @Tags Export
// @Accept json
// @Produce octet-stream
// @Security BearerAuth
// @Param payload body service.ExportRequest true "Export payload"
// @Success 200 {file} binary
// @Router /export [post]
func (h *ExportHandler) Export(c *gin.Context) {
	var req service.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	result, err := h.exports.Export(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.CountExport(req.EntityType, req.Format)
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.Filename))
	c.Data(200, result.ContentType, result.Content)
}

// ExportEntity godoc
// @Summary Export one view using query-string filters
// @Description Shorthand GET variant of the export. Query parameters other
// @Description than format and columns are applied as fixed filters.
// @Tags Export
// @Produce octet-stream
// @Security BearerAuth
// @Param entity path string true "students, applicants, persons or system"
// @Param format query string false "csv, xlsx or pdf" default(xlsx)
// @Param columns query []string false "Column selection"
// @Success 200 {file} binary
// @Router /export/{entity} [get]
func (h *ExportHandler) ExportEntity(c *gin.Context) {
	req := service.ExportRequest{
		EntityType: c.Param("entity"),
		Format:     c.DefaultQuery("format", "xlsx"),
		Columns:    c.QueryArray("columns"),
		Filters:    map[string]string{},
	}
	for key, values := range c.Request.URL.Query() {
		if key == "format" || key == "columns" || len(values) == 0 {
			continue
		}
		req.Filters[key] = values[0]
	}

	result, err := h.exports.Export(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.CountExport(req.EntityType, req.Format)
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.Filename))
	c.Data(200, result.ContentType, result.Content)
}
