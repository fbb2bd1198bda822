package handlers

import (
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/services"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/utils"
	"github.com/gin-gonic/gin"
)

type SmashHandler struct {
	smash         *services.SmashService
	schedule      *services.ScheduleService
	currentSeason int
}

func NewSmashHandler(smash *services.SmashService, schedule *services.ScheduleService, currentSeason int) *SmashHandler {
	return &SmashHandler{smash: smash, schedule: schedule, currentSeason: currentSeason}
}

type feedQuery struct {
	weekQuery
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// GetFeed returns the week's smash spots across QB, RB, WR and TE.
func (h *SmashHandler) GetFeed(c *gin.Context) {
	var q feedQuery
	if !bindQuery(c, &q) {
		return
	}
	if q.Limit == 0 {
		q.Limit = services.DefaultFeedLimit
	}
	season := q.seasonOr(h.currentSeason)
	week, ok := resolveWeek(c, h.schedule, season, q.Week)
	if !ok {
		return
	}

	spots, err := h.smash.Feed(c.Request.Context(), season, week, q.Limit)
	if err != nil {
		_ = c.Error(err)
		utils.SendServiceError(c, err, "Failed to build smash feed")
		return
	}
	utils.SendSuccess(c, gin.H{
		"season": season,
		"week":   week,
		"spots":  spots,
	})
}
