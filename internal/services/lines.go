package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/models"
)

// Game lines use nflverse abbreviations, which differ from the team table
// for two franchises.
var lineToTeamAbbr = map[string]string{
	"LA":  "LAR",
	"WAS": "WSH",
}

var teamToLineAbbr = map[string]string{
	"LAR": "LA",
	"WSH": "WAS",
}

// TeamAbbr maps a game-line abbreviation onto the team table's.
func TeamAbbr(lineAbbr string) string {
	if a, ok := lineToTeamAbbr[lineAbbr]; ok {
		return a
	}
	return lineAbbr
}

// LineAbbr maps a team-table abbreviation onto the game-line spelling.
func LineAbbr(teamAbbr string) string {
	if a, ok := teamToLineAbbr[teamAbbr]; ok {
		return a
	}
	return teamAbbr
}

// lineAbbrs lists every spelling a team may carry in game lines.
func lineAbbrs(teamAbbr string) []string {
	if a := LineAbbr(teamAbbr); a != teamAbbr {
		return []string{teamAbbr, a}
	}
	return []string{teamAbbr}
}

// ParseSpread reads a posted spread; pick'em spellings are 0.
func ParseSpread(raw *string) *float64 {
	if raw == nil {
		return nil
	}
	s := strings.ToUpper(strings.TrimSpace(*raw))
	switch s {
	case "":
		return nil
	case "PK", "PICK", "PICKEM":
		v := 0.0
		return &v
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// NormalizeSpread orients a spread from the home team's side using the
// moneylines: a favored home team gets a negative spread and an underdog
// home team a positive one. Without both moneylines the spread is kept.
func NormalizeSpread(spread, homeML, awayML *float64) *float64 {
	if spread == nil || homeML == nil || awayML == nil {
		return spread
	}
	v := *spread
	homeFavored := *homeML < *awayML
	switch {
	case homeFavored && v > 0:
		v = -math.Abs(v)
	case !homeFavored && v < 0:
		v = math.Abs(v)
	}
	return &v
}

// HomeSpread is the parsed and normalized home spread of a line.
func HomeSpread(l models.GameLine) *float64 {
	return NormalizeSpread(ParseSpread(l.SpreadLine), l.HomeMoneyline, l.AwayMoneyline)
}

// ATS results from one side's perspective.
const (
	ATSWin  = "W"
	ATSLoss = "L"
	ATSPush = "P"
)

// HomeATS grades the home side against the spread: home score plus spread
// against away score. ok is false for unplayed or unlined games.
func HomeATS(l models.GameLine) (result string, ok bool) {
	spread := HomeSpread(l)
	if !l.IsPlayed() || spread == nil {
		return "", false
	}
	diff := float64(*l.HomeScore) + *spread - float64(*l.AwayScore)
	switch {
	case diff > 0:
		return ATSWin, true
	case diff < 0:
		return ATSLoss, true
	}
	return ATSPush, true
}

func flipATS(result string) string {
	switch result {
	case ATSWin:
		return ATSLoss
	case ATSLoss:
		return ATSWin
	}
	return result
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
