package handlers

import (
	"strconv"
	"strings"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/utils"
	"github.com/gin-gonic/gin"
)

// seasonQuery is embedded by every request that accepts ?season=.
type seasonQuery struct {
	Season int `form:"season" binding:"omitempty,min=1920,max=2100"`
}

func (q seasonQuery) seasonOr(fallback int) int {
	if q.Season == 0 {
		return fallback
	}
	return q.Season
}

// bindQuery binds query parameters and answers 400 on failure.
func bindQuery(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindQuery(dest); err != nil {
		utils.SendValidationError(c, "Invalid query parameters", err.Error())
		return false
	}
	return true
}

// idParam parses a positive integer path parameter and answers 400 on
// failure.
func idParam(c *gin.Context, name, label string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		utils.SendValidationError(c, "Invalid "+label, "expected a positive integer, got "+strconv.Quote(c.Param(name)))
		return 0, false
	}
	return id, true
}

// teamParam reads a team abbreviation path parameter.
func teamParam(c *gin.Context) (string, bool) {
	abbr := strings.ToUpper(strings.TrimSpace(c.Param("abbr")))
	if abbr == "" || len(abbr) > 4 {
		utils.SendValidationError(c, "Invalid team abbreviation", strconv.Quote(c.Param("abbr")))
		return "", false
	}
	return abbr, true
}
