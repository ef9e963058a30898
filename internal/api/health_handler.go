package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bedrijfslens/kvk-intel-api/internal/cache"
	"github.com/bedrijfslens/kvk-intel-api/internal/database"
)

// HealthHandler reports the state of the engine's backing services
type HealthHandler struct {
	store cache.Store
	db    *database.DB
}

// NewHealthHandler creates a new health handler. The database is optional.
func NewHealthHandler(store cache.Store, db *database.DB) *HealthHandler {
	return &HealthHandler{store: store, db: db}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	status := "ok"

	cacheStatus := "ok"
	if err := h.store.Ping(c.Request.Context()); err != nil {
		cacheStatus = "unavailable"
		status = "degraded"
	}

	dbStatus := "not_configured"
	if h.db != nil {
		dbStatus = "ok"
		if err := h.db.HealthCheck(); err != nil {
			dbStatus = "unavailable"
			status = "degraded"
		}
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}

	payload := gin.H{
		"status":    status,
		"cache":     cacheStatus,
		"database":  dbStatus,
		"timestamp": time.Now().UTC(),
	}
	if h.db != nil {
		payload["databaseStats"] = h.db.GetStats()
	}

	c.JSON(code, payload)
}
