package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/services"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/database"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	db    *database.DB
	cache *services.CacheService
	sync  *services.SyncScheduler
}

func NewHealthHandler(db *database.DB, cache *services.CacheService, sync *services.SyncScheduler) *HealthHandler {
	return &HealthHandler{
		db:    db,
		cache: cache,
		sync:  sync,
	}
}

// GetHealth returns basic health status - always returns 200 if server is running
// This is used for basic liveness checks
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"service":   "nfl-stats",
	})
}

// GetReady returns readiness status - only returns 200 when the database answers
func (h *HealthHandler) GetReady(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	body := gin.H{
		"status":   "ready",
		"database": h.db.Driver,
		"cache":    "none",
	}
	if h.cache != nil {
		body["cache"] = h.cache.Backend()
	}
	if h.sync != nil {
		body["sync"] = h.sync.Status()
	}

	sqlDB, err := h.db.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		body["status"] = "not_ready"
		body["error"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	c.JSON(http.StatusOK, body)
}
