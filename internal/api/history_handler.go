package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bedrijfslens/kvk-intel-api/internal/gate"
	"github.com/bedrijfslens/kvk-intel-api/internal/repository"
)

// HistoryHandler exposes lookup-history for usage accounting
type HistoryHandler struct {
	history repository.HistoryRepository
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(history repository.HistoryRepository) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// Recent handles GET /api/v1/history (admin only)
func (h *HistoryHandler) Recent(c *gin.Context) {
	role, exists := c.Get(gate.ConsumerRoleKey)
	if !exists || role != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "History store not configured"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := h.history.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get lookup history"})
		return
	}

	since := time.Now().AddDate(0, 0, -1)
	countToday, err := h.history.CountSince(c.Request.Context(), since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count lookups"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries":     entries,
		"last24Hours": countToday,
		"timestamp":   time.Now().UTC(),
	})
}
