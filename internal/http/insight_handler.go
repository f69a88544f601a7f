package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mood-tracker/internal/service"
)

type InsightHandler struct {
	logger   *zap.Logger
	insights *service.InsightService
}

func NewInsightHandler(logger *zap.Logger, insights *service.InsightService) *InsightHandler {
	return &InsightHandler{logger: logger, insights: insights}
}

// Generate maneja POST /insights.
func (h *InsightHandler) Generate(c *gin.Context) {
	text, err := h.insights.Generate(c.Request.Context(), scopeFrom(c))
	if err != nil {
		if errors.Is(err, service.ErrInsufficientData) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":    "not enough data yet",
				"min_days": service.MinInsightDays,
			})
			return
		}
		h.logger.Error("insights failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not generate insights"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"insights": text})
}
