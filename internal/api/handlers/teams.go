package handlers

import (
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/services"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/utils"
	"github.com/gin-gonic/gin"
)

type TeamHandler struct {
	teams         *services.TeamService
	standings     *services.StandingsService
	schedule      *services.ScheduleService
	currentSeason int
}

func NewTeamHandler(teams *services.TeamService, standings *services.StandingsService, schedule *services.ScheduleService, currentSeason int) *TeamHandler {
	return &TeamHandler{
		teams:         teams,
		standings:     standings,
		schedule:      schedule,
		currentSeason: currentSeason,
	}
}

// GetStandings returns league standings with ATS records and advanced stats.
func (h *TeamHandler) GetStandings(c *gin.Context) {
	var q seasonQuery
	if !bindQuery(c, &q) {
		return
	}
	rows, err := h.standings.Standings(c.Request.Context(), q.seasonOr(h.currentSeason))
	if err != nil {
		_ = c.Error(err)
		utils.SendServiceError(c, err, "Failed to fetch standings")
		return
	}
	utils.SendSuccess(c, rows)
}

func (h *TeamHandler) GetRoster(c *gin.Context) {
	abbr, ok := teamParam(c)
	if !ok {
		return
	}
	var q seasonQuery
	if !bindQuery(c, &q) {
		return
	}
	rows, err := h.teams.Roster(c.Request.Context(), abbr, q.seasonOr(h.currentSeason))
	if err != nil {
		_ = c.Error(err)
		utils.SendServiceError(c, err, "Team not found")
		return
	}
	utils.SendSuccess(c, rows)
}

type teamStatsQuery struct {
	seasonQuery
	SeasonType int `form:"season_type" binding:"omitempty,oneof=2 3"`
}

// GetStats returns the team's season line with league ranks. season_type
// 2 is the regular season, 3 the postseason.
func (h *TeamHandler) GetStats(c *gin.Context) {
	abbr, ok := teamParam(c)
	if !ok {
		return
	}
	var q teamStatsQuery
	if !bindQuery(c, &q) {
		return
	}
	if q.SeasonType == 0 {
		q.SeasonType = services.SeasonTypeRegular
	}
	stats, err := h.teams.SeasonStats(c.Request.Context(), abbr, q.seasonOr(h.currentSeason), q.SeasonType)
	if err != nil {
		_ = c.Error(err)
		utils.SendServiceError(c, err, "Team stats not found")
		return
	}
	utils.SendSuccess(c, stats)
}

func (h *TeamHandler) GetSchedule(c *gin.Context) {
	abbr, ok := teamParam(c)
	if !ok {
		return
	}
	var q seasonQuery
	if !bindQuery(c, &q) {
		return
	}
	if _, err := h.teams.Team(abbr); err != nil {
		utils.SendServiceError(c, err, "Team not found")
		return
	}
	games, err := h.schedule.TeamSchedule(c.Request.Context(), abbr, q.seasonOr(h.currentSeason))
	if err != nil {
		_ = c.Error(err)
		utils.SendServiceError(c, err, "Team not found")
		return
	}
	utils.SendSuccess(c, games)
}

func (h *TeamHandler) GetLeaders(c *gin.Context) {
	abbr, ok := teamParam(c)
	if !ok {
		return
	}
	var q seasonQuery
	if !bindQuery(c, &q) {
		return
	}
	leaders, err := h.teams.Leaders(c.Request.Context(), abbr, q.seasonOr(h.currentSeason))
	if err != nil {
		_ = c.Error(err)
		utils.SendServiceError(c, err, "Team not found")
		return
	}
	utils.SendSuccess(c, leaders)
}
