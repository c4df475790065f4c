package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"houseprice/internal/model"
	"houseprice/internal/service"
)

const maxHistoryLimit = 100

// HistoryHandler serves recorded predictions
type HistoryHandler struct {
	backend      Backend
	recentLimit  int
	similarLimit int
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(backend Backend, recentLimit, similarLimit int) *HistoryHandler {
	return &HistoryHandler{
		backend:      backend,
		recentLimit:  recentLimit,
		similarLimit: similarLimit,
	}
}

func (h *HistoryHandler) limit(c *gin.Context, def int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return 0, false
	}
	if n > maxHistoryLimit {
		n = maxHistoryLimit
	}
	return n, true
}

func (h *HistoryHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, service.ErrHistoryDisabled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Prediction history is not enabled"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history: " + err.Error()})
}

// Recent handles GET /api/v1/history
func (h *HistoryHandler) Recent(c *gin.Context) {
	if !h.backend.HistoryEnabled() {
		h.fail(c, service.ErrHistoryDisabled)
		return
	}
	limit, ok := h.limit(c, h.recentLimit)
	if !ok {
		return
	}

	entries, err := h.backend.RecentPredictions(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, model.HistoryResponse{Results: entries, Count: len(entries)})
}

// Similar handles POST /api/v1/history/similar
func (h *HistoryHandler) Similar(c *gin.Context) {
	if !h.backend.HistoryEnabled() {
		h.fail(c, service.ErrHistoryDisabled)
		return
	}
	limit, ok := h.limit(c, h.similarLimit)
	if !ok {
		return
	}

	var form model.PredictionForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	entries, err := h.backend.SimilarPredictions(c.Request.Context(), form.Vector(), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, model.HistoryResponse{Results: entries, Count: len(entries)})
}
