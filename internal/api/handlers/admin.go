package handlers

import (
	"errors"
	"net/http"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/services"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/validation"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/database"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AdminHandler serves the operator endpoints under /api/admin.
type AdminHandler struct {
	db            *database.DB
	cache         *services.CacheService
	sync          *services.SyncScheduler
	smash         *services.SmashService
	schedule      *services.ScheduleService
	limiter       RateStats
	logger        *logrus.Logger
	currentSeason int
}

// RateStats reports the admin rate limiter's state.
type RateStats interface {
	Stats() map[string]interface{}
}

type adminStatus struct {
	services.SyncStatus
	RateLimit map[string]interface{} `json:"rate_limit,omitempty"`
}

func NewAdminHandler(
	db *database.DB,
	cache *services.CacheService,
	sync *services.SyncScheduler,
	smash *services.SmashService,
	schedule *services.ScheduleService,
	limiter RateStats,
	logger *logrus.Logger,
	currentSeason int,
) *AdminHandler {
	return &AdminHandler{
		db:            db,
		cache:         cache,
		sync:          sync,
		smash:         smash,
		schedule:      schedule,
		limiter:       limiter,
		logger:        logger,
		currentSeason: currentSeason,
	}
}

// TriggerSync runs a provider sync now and waits for it to finish.
func (h *AdminHandler) TriggerSync(c *gin.Context) {
	result, err := h.sync.TriggerNow(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrSyncInProgress) {
			utils.SendConflict(c, "A sync is already running")
			return
		}
		_ = c.Error(err)
		utils.SendError(c, http.StatusBadGateway, utils.NewAppError(utils.ErrCodeUpstream, "Sync failed", err.Error()))
		return
	}
	utils.SendSuccess(c, result)
}

// SyncStatus reports the scheduler state and the admin rate limiter.
func (h *AdminHandler) SyncStatus(c *gin.Context) {
	status := adminStatus{SyncStatus: h.sync.Status()}
	if h.limiter != nil {
		status.RateLimit = h.limiter.Stats()
	}
	utils.SendSuccess(c, status)
}

// RebuildSmash rematerializes one week, the latest by default.
func (h *AdminHandler) RebuildSmash(c *gin.Context) {
	var q weekQuery
	if !bindQuery(c, &q) {
		return
	}
	season := q.seasonOr(h.currentSeason)
	week, ok := resolveWeek(c, h.schedule, season, q.Week)
	if !ok {
		return
	}

	rows, err := h.smash.Materialize(c.Request.Context(), season, week)
	if err != nil {
		_ = c.Error(err)
		utils.SendServiceError(c, err, "Failed to rebuild smash scores")
		return
	}
	h.logger.WithFields(logrus.Fields{
		"component": "admin",
		"season":    season,
		"week":      week,
		"rows":      rows,
	}).Info("Smash scores rebuilt")

	utils.SendSuccess(c, gin.H{
		"season": season,
		"week":   week,
		"rows":   rows,
	})
}

// Validate runs the data integrity checks. Issues are data, not errors,
// so the response is 200 either way.
func (h *AdminHandler) Validate(c *gin.Context) {
	issues := validation.Run(c.Request.Context(), h.db, h.logger)
	utils.SendSuccess(c, gin.H{
		"ok":     len(issues) == 0,
		"issues": issues,
	})
}

// ClearCache drops every cached response, or only keys under ?prefix=.
func (h *AdminHandler) ClearCache(c *gin.Context) {
	if h.cache == nil {
		utils.SendSuccess(c, gin.H{"cleared": false, "backend": "none"})
		return
	}

	ctx := c.Request.Context()
	prefix := c.Query("prefix")
	var err error
	if prefix != "" {
		err = h.cache.DeletePrefix(ctx, prefix)
	} else {
		err = h.cache.Clear(ctx)
	}
	if err != nil {
		_ = c.Error(err)
		utils.SendInternalError(c, "Failed to clear cache")
		return
	}
	utils.SendSuccess(c, gin.H{
		"cleared": true,
		"backend": h.cache.Backend(),
		"prefix":  prefix,
	})
}
