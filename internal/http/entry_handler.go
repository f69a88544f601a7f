package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mood-tracker/internal/catalog"
	"mood-tracker/internal/domain"
	"mood-tracker/internal/service"
)

// EntryHandler expone el EntryStore y el catalogo de preguntas.
type EntryHandler struct {
	logger  *zap.Logger
	store   *service.EntryStore
	catalog *catalog.Catalog
}

func NewEntryHandler(logger *zap.Logger, store *service.EntryStore, cat *catalog.Catalog) *EntryHandler {
	return &EntryHandler{
		logger:  logger,
		store:   store,
		catalog: cat,
	}
}

// GetEntry maneja GET /entries/:date. Nunca devuelve 404: una fecha sin datos es una entrada neutral.
func (h *EntryHandler) GetEntry(c *gin.Context) {
	date := c.Param("date")
	if !domain.ValidDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}
	entry := h.store.GetEntry(c.Request.Context(), date, scopeFrom(c))
	c.JSON(http.StatusOK, gin.H{"entry": entry, "mood": h.store.Evaluate(entry)})
}

// PutEntry maneja PUT /entries/:date con la entrada completa.
func (h *EntryHandler) PutEntry(c *gin.Context) {
	date := c.Param("date")
	if !domain.ValidDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}
	var req domain.DailyEntry
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid entry request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	req.Date = date

	scope := scopeFrom(c)
	if err := h.store.SaveEntry(c.Request.Context(), req, scope); err != nil {
		h.respondSaveError(c, err)
		return
	}
	entry := service.CompleteEntry(req)
	c.JSON(http.StatusOK, gin.H{"entry": entry, "mood": h.store.Evaluate(entry)})
}

// SetAnswer maneja PATCH /entries/:date/answers.
func (h *EntryHandler) SetAnswer(c *gin.Context) {
	var req struct {
		Theme  string   `json:"theme" binding:"required"`
		Slot   *int     `json:"slot"`
		Answer *float64 `json:"answer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Slot == nil || req.Answer == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	theme, ok := domain.ParseTheme(req.Theme)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid theme"})
		return
	}

	entry, mood, err := h.store.SetAnswer(c.Request.Context(), c.Param("date"), scopeFrom(c), theme, *req.Slot, domain.Answer(*req.Answer))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDate),
			errors.Is(err, service.ErrInvalidSlot),
			errors.Is(err, service.ErrInvalidAnswer),
			errors.Is(err, service.ErrInvalidTheme):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.respondSaveError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry, "mood": mood})
}

// SetMood maneja PUT /entries/:date/mood.
func (h *EntryHandler) SetMood(c *gin.Context) {
	var req struct {
		Mood *string `json:"mood"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	entry, err := h.store.SetMood(c.Request.Context(), c.Param("date"), scopeFrom(c), req.Mood)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		h.respondSaveError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// ListEntries maneja GET /entries.
func (h *EntryHandler) ListEntries(c *gin.Context) {
	entries := h.store.GetAllEntries(c.Request.Context(), scopeFrom(c))
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}

// Themes maneja GET /themes.
func (h *EntryHandler) Themes(c *gin.Context) {
	if h.catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog not loaded"})
		return
	}
	c.JSON(http.StatusOK, h.catalog)
}

func (h *EntryHandler) respondSaveError(c *gin.Context, err error) {
	var saveErr *service.SaveError
	if errors.As(err, &saveErr) {
		if errors.Is(err, service.ErrInvalidDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not save entry", "backend": saveErr.Backend})
		return
	}
	h.logger.Error("entry request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
