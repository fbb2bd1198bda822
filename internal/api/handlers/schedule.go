package handlers

import (
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/services"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/utils"
	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	schedule      *services.ScheduleService
	games         *services.GameService
	currentSeason int
}

func NewScheduleHandler(schedule *services.ScheduleService, games *services.GameService, currentSeason int) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule, games: games, currentSeason: currentSeason}
}

type weekQuery struct {
	seasonQuery
	Week int `form:"week" binding:"omitempty,min=1,max=22"`
}

// resolveWeek falls back to the latest week with games in the season.
func resolveWeek(c *gin.Context, schedule *services.ScheduleService, season, week int) (int, bool) {
	if week > 0 {
		return week, true
	}
	latest, err := schedule.LatestWeek(c.Request.Context(), season)
	if err != nil {
		_ = c.Error(err)
		utils.SendInternalError(c, "Failed to resolve week")
		return 0, false
	}
	return latest, true
}

// GetWeek lists one week's games, defaulting to the latest week.
func (h *ScheduleHandler) GetWeek(c *gin.Context) {
	var q weekQuery
	if !bindQuery(c, &q) {
		return
	}
	season := q.seasonOr(h.currentSeason)
	week, ok := resolveWeek(c, h.schedule, season, q.Week)
	if !ok {
		return
	}

	games, err := h.schedule.Week(c.Request.Context(), season, week)
	if err != nil {
		_ = c.Error(err)
		utils.SendServiceError(c, err, "Failed to fetch schedule")
		return
	}
	utils.SendSuccess(c, gin.H{
		"season": season,
		"week":   week,
		"games":  games,
	})
}

func (h *ScheduleHandler) GetPlayoffs(c *gin.Context) {
	var q seasonQuery
	if !bindQuery(c, &q) {
		return
	}
	games, err := h.schedule.Playoffs(c.Request.Context(), q.seasonOr(h.currentSeason))
	if err != nil {
		_ = c.Error(err)
		utils.SendServiceError(c, err, "Failed to fetch playoff schedule")
		return
	}
	utils.SendSuccess(c, games)
}

type matchupQuery struct {
	TeamA string `form:"team_a" binding:"required,max=4"`
	TeamB string `form:"team_b" binding:"required,max=4"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=20"`
}

// GetMatchupHistory lists recent meetings between two teams in either
// orientation, newest first.
func (h *ScheduleHandler) GetMatchupHistory(c *gin.Context) {
	var q matchupQuery
	if !bindQuery(c, &q) {
		return
	}
	if q.Limit == 0 {
		q.Limit = 5
	}
	games, err := h.schedule.MatchupHistory(c.Request.Context(), q.TeamA, q.TeamB, q.Limit)
	if err != nil {
		_ = c.Error(err)
		utils.SendServiceError(c, err, "Failed to fetch matchup history")
		return
	}
	utils.SendSuccess(c, games)
}

// GetGame returns the game page: teams, win probability, comparison,
// leaders, props and head-to-head history.
func (h *ScheduleHandler) GetGame(c *gin.Context) {
	gameID := c.Param("id")
	if gameID == "" || len(gameID) > 32 {
		utils.SendValidationError(c, "Invalid game ID", gameID)
		return
	}
	detail, err := h.games.Detail(c.Request.Context(), gameID)
	if err != nil {
		_ = c.Error(err)
		utils.SendServiceError(c, err, "Game not found")
		return
	}
	utils.SendSuccess(c, detail)
}
