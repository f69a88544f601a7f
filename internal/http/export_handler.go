package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mood-tracker/internal/service"
	"mood-tracker/internal/sheets"
)

// ExportHandler exporta el historial del scope a la tabla configurada.
type ExportHandler struct {
	logger   *zap.Logger
	store    *service.EntryStore
	exporter *service.ExportService
}

func NewExportHandler(logger *zap.Logger, store *service.EntryStore, exporter *service.ExportService) *ExportHandler {
	return &ExportHandler{
		logger:   logger,
		store:    store,
		exporter: exporter,
	}
}

// Export maneja POST /export.
func (h *ExportHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "export target not configured", "category": sheets.CategoryConfiguration})
		return
	}
	entries := h.store.GetAllEntries(c.Request.Context(), scopeFrom(c))
	result, err := h.exporter.Export(c.Request.Context(), entries)
	if err != nil {
		category := sheets.CategoryTransient
		var exportErr *service.ExportError
		if errors.As(err, &exportErr) {
			category = exportErr.Category
		}
		h.logger.Warn("export failed", zap.Error(err), zap.String("category", string(category)))
		c.JSON(exportStatus(category), gin.H{
			"error":          err.Error(),
			"category":       category,
			"retryable":      category.Retryable(),
			"rows_updated":   result.RowsUpdated,
			"rows_appended":  result.RowsAppended,
			"header_written": result.HeaderWritten,
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

func exportStatus(category sheets.Category) int {
	switch category {
	case sheets.CategoryValidation:
		return http.StatusBadRequest
	case sheets.CategoryConfiguration, sheets.CategoryHeaderMismatch:
		return http.StatusConflict
	case sheets.CategoryNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
