package handlers

import (
	"strconv"
	"strings"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/services"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/utils"
	"github.com/gin-gonic/gin"
)

const defaultPlayerLimit = 50

type PlayerHandler struct {
	players       *services.PlayerService
	currentSeason int
}

func NewPlayerHandler(players *services.PlayerService, currentSeason int) *PlayerHandler {
	return &PlayerHandler{players: players, currentSeason: currentSeason}
}

type playerListQuery struct {
	seasonQuery
	Position string `form:"position"`
	Team     string `form:"team"`
	Q        string `form:"q"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset   int    `form:"offset" binding:"omitempty,min=0"`
}

// GetPlayers returns a team roster when ?team= is set and the season
// leaderboard otherwise.
func (h *PlayerHandler) GetPlayers(c *gin.Context) {
	var q playerListQuery
	if !bindQuery(c, &q) {
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultPlayerLimit
	}

	rows, err := h.players.List(c.Request.Context(), services.PlayerFilter{
		Season:   q.seasonOr(h.currentSeason),
		Position: q.Position,
		Team:     q.Team,
		Query:    q.Q,
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
	if err != nil {
		_ = c.Error(err)
		utils.SendServiceError(c, err, "Failed to fetch players")
		return
	}

	utils.SendSuccessWithMeta(c, rows, &utils.Meta{Limit: q.Limit, Offset: q.Offset})
}

type playerDetailQuery struct {
	seasonQuery
	IncludePostseason bool `form:"include_postseason"`
}

// GetPlayer returns a single player's profile, season line and game logs.
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	id, ok := idParam(c, "id", "player ID")
	if !ok {
		return
	}
	var q playerDetailQuery
	if !bindQuery(c, &q) {
		return
	}

	detail, err := h.players.Detail(c.Request.Context(), id, q.seasonOr(h.currentSeason), q.IncludePostseason)
	if err != nil {
		_ = c.Error(err)
		utils.SendServiceError(c, err, "Player not found")
		return
	}
	utils.SendSuccess(c, detail)
}

type compareQuery struct {
	seasonQuery
	IDs string `form:"ids" binding:"required"`
}

// ComparePlayers lines up two to four players, ?ids=1,2[,3,4].
func (h *PlayerHandler) ComparePlayers(c *gin.Context) {
	var q compareQuery
	if !bindQuery(c, &q) {
		return
	}

	ids, err := parseIDList(q.IDs)
	if err != nil {
		utils.SendValidationError(c, "Invalid player ids", err.Error())
		return
	}

	cmp, err := h.players.Compare(c.Request.Context(), ids, q.seasonOr(h.currentSeason))
	if err != nil {
		_ = c.Error(err)
		utils.SendServiceError(c, err, "Failed to compare players")
		return
	}
	utils.SendSuccess(c, cmp)
}

func parseIDList(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.Atoi(p)
		if err != nil || id < 1 {
			return nil, &strconv.NumError{Func: "parseIDList", Num: p, Err: strconv.ErrSyntax}
		}
		ids = append(ids, id)
	}
	return ids, nil
}
