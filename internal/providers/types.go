package providers

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/models"
)

type Team struct {
	ID           int    `json:"id"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
	Location     string `json:"location"`
	Name         string `json:"name"`
	FullName     string `json:"full_name"`
	Abbreviation string `json:"abbreviation"`
}

type Player struct {
	ID           int    `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Position     string `json:"position"`
	PositionAbbr string `json:"position_abbreviation"`
	Height       string `json:"height"`
	Weight       string `json:"weight"`
	JerseyNumber string `json:"jersey_number"`
	College      string `json:"college"`
	Age          *int   `json:"age"`
	Team         *Team  `json:"team"`
}

type Game struct {
	ID           int    `json:"id"`
	Season       int    `json:"season"`
	Week         int    `json:"week"`
	Date         string `json:"date"`
	Postseason   bool   `json:"postseason"`
	Status       string `json:"status"`
	HomeTeam     Team   `json:"home_team"`
	VisitorTeam  Team   `json:"visitor_team"`
	HomeScore    *int   `json:"home_team_score"`
	VisitorScore *int   `json:"visitor_team_score"`
}

type Standing struct {
	Team              Team   `json:"team"`
	Season            int    `json:"season"`
	Wins              int    `json:"wins"`
	Losses            int    `json:"losses"`
	Ties              int    `json:"ties"`
	PointsFor         int    `json:"points_for"`
	PointsAgainst     int    `json:"points_against"`
	PointDifferential int    `json:"point_differential"`
	PlayoffSeed       *int   `json:"playoff_seed"`
	OverallRecord     string `json:"overall_record"`
	ConferenceRecord  string `json:"conference_record"`
	DivisionRecord    string `json:"division_record"`
	HomeRecord        string `json:"home_record"`
	RoadRecord        string `json:"road_record"`
	WinStreak         int    `json:"win_streak"`
}

type Injury struct {
	Player  Player `json:"player"`
	Status  string `json:"status"`
	Comment string `json:"comment"`
	Date    string `json:"date"`
}

type PropMarket struct {
	Type      string        `json:"type"`
	OverOdds  flexibleFloat `json:"over_odds"`
	UnderOdds flexibleFloat `json:"under_odds"`
	Odds      flexibleFloat `json:"odds"`
}

type PlayerProp struct {
	ID        flexibleID    `json:"id"`
	GameID    int           `json:"game_id"`
	PlayerID  int           `json:"player_id"`
	Vendor    string        `json:"vendor"`
	PropType  string        `json:"prop_type"`
	LineValue flexibleFloat `json:"line_value"`
	Market    PropMarket    `json:"market"`
	UpdatedAt string        `json:"updated_at"`
}

// flexibleFloat accepts numbers, numeric strings and null.
type flexibleFloat struct {
	Value *float64
}

func (f *flexibleFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	f.Value = nil
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	raw := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		// non-numeric strings carry no price
		return nil
	}
	f.Value = &v
	return nil
}

func MapTeam(t Team) models.Team {
	name := t.FullName
	if name == "" {
		name = strings.TrimSpace(t.Location + " " + t.Name)
	}
	return models.Team{
		ID:           t.ID,
		Abbreviation: strings.ToUpper(t.Abbreviation),
		Name:         name,
		Conference:   strings.ToUpper(t.Conference),
		Division:     strings.ToUpper(t.Division),
	}
}

func MapPlayer(p Player) models.Player {
	pos := p.PositionAbbr
	if pos == "" {
		pos = p.Position
	}
	out := models.Player{
		ID:           p.ID,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Position:     strings.ToUpper(pos),
		JerseyNumber: p.JerseyNumber,
		Height:       p.Height,
		Weight:       p.Weight,
		College:      p.College,
		Age:          p.Age,
	}
	if p.Team != nil && p.Team.ID != 0 {
		id := p.Team.ID
		out.TeamID = &id
	}
	return out
}

func MapGame(g Game) models.Game {
	out := models.Game{
		ID:            g.ID,
		Season:        g.Season,
		Week:          g.Week,
		Postseason:    g.Postseason,
		HomeTeamID:    g.HomeTeam.ID,
		VisitorTeamID: g.VisitorTeam.ID,
	}
	if t, err := time.Parse(time.RFC3339, g.Date); err == nil {
		out.Date = t
	}
	return out
}

func MapStanding(s Standing) models.TeamStanding {
	return models.TeamStanding{
		TeamID:            s.Team.ID,
		Season:            s.Season,
		Wins:              s.Wins,
		Losses:            s.Losses,
		Ties:              s.Ties,
		PointsFor:         s.PointsFor,
		PointsAgainst:     s.PointsAgainst,
		PointDifferential: s.PointDifferential,
		PlayoffSeed:       s.PlayoffSeed,
		WinStreak:         s.WinStreak,
		OverallRecord:     s.OverallRecord,
		ConferenceRecord:  s.ConferenceRecord,
		DivisionRecord:    s.DivisionRecord,
		HomeRecord:        s.HomeRecord,
		RoadRecord:        s.RoadRecord,
	}
}

// MapInjury returns false when the report carries no player.
func MapInjury(i Injury) (models.Injury, bool) {
	if i.Player.ID == 0 {
		return models.Injury{}, false
	}
	return models.Injury{
		PlayerID: i.Player.ID,
		Date:     i.Date,
		Status:   i.Status,
		Comment:  i.Comment,
	}, true
}

// MapPlayerProp keeps only the odds that belong to the market type.
func MapPlayerProp(p PlayerProp) models.PlayerProp {
	out := models.PlayerProp{
		ID:         string(p.ID),
		GameID:     p.GameID,
		PlayerID:   p.PlayerID,
		Vendor:     strings.ToLower(p.Vendor),
		PropType:   p.PropType,
		MarketType: p.Market.Type,
		LineValue:  p.LineValue.Value,
	}
	switch p.Market.Type {
	case models.MarketOverUnder:
		out.OverOdds = p.Market.OverOdds.Value
		out.UnderOdds = p.Market.UnderOdds.Value
	case models.MarketMilestone:
		out.MilestoneOdds = p.Market.Odds.Value
	}
	if t, err := time.Parse(time.RFC3339, p.UpdatedAt); err == nil {
		out.CreatedAt = t
	}
	return out
}

// SeasonStat is one player's season line from /season_stats.
type SeasonStat struct {
	Player                 Player        `json:"player"`
	Season                 int           `json:"season"`
	Postseason             bool          `json:"postseason"`
	GamesPlayed            int           `json:"games_played"`
	PassingCompletions     int           `json:"passing_completions"`
	PassingAttempts        int           `json:"passing_attempts"`
	PassingYards           int           `json:"passing_yards"`
	PassingTouchdowns      int           `json:"passing_touchdowns"`
	PassingInterceptions   int           `json:"passing_interceptions"`
	PassingCompletionPct   flexibleFloat `json:"passing_completion_pct"`
	QBR                    flexibleFloat `json:"qbr"`
	RushingAttempts        int           `json:"rushing_attempts"`
	RushingYards           int           `json:"rushing_yards"`
	RushingTouchdowns      int           `json:"rushing_touchdowns"`
	Receptions             int           `json:"receptions"`
	ReceivingYards         int           `json:"receiving_yards"`
	ReceivingTouchdowns    int           `json:"receiving_touchdowns"`
	ReceivingTargets       int           `json:"receiving_targets"`
	TotalTackles           flexibleFloat `json:"total_tackles"`
	DefensiveSacks         flexibleFloat `json:"defensive_sacks"`
	DefensiveInterceptions flexibleFloat `json:"defensive_interceptions"`
}

// GameRef is the game summary nested in box score rows.
type GameRef struct {
	ID         int  `json:"id"`
	Season     int  `json:"season"`
	Week       int  `json:"week"`
	Postseason bool `json:"postseason"`
}

// GameStat is one player's box score line from /stats.
type GameStat struct {
	Player               Player        `json:"player"`
	Team                 *Team         `json:"team"`
	Game                 GameRef       `json:"game"`
	PassingCompletions   int           `json:"passing_completions"`
	PassingAttempts      int           `json:"passing_attempts"`
	PassingYards         int           `json:"passing_yards"`
	PassingTouchdowns    int           `json:"passing_touchdowns"`
	PassingInterceptions int           `json:"passing_interceptions"`
	QBR                  flexibleFloat `json:"qbr"`
	RushingAttempts      int           `json:"rushing_attempts"`
	RushingYards         int           `json:"rushing_yards"`
	RushingTouchdowns    int           `json:"rushing_touchdowns"`
	Receptions           int           `json:"receptions"`
	ReceivingYards       int           `json:"receiving_yards"`
	ReceivingTouchdowns  int           `json:"receiving_touchdowns"`
	ReceivingTargets     int           `json:"receiving_targets"`
}

// TeamSeasonStat is one team's season line from /team_season_stats.
type TeamSeasonStat struct {
	Team                       Team          `json:"team"`
	Season                     int           `json:"season"`
	SeasonType                 int           `json:"season_type"`
	GamesPlayed                int           `json:"games_played"`
	TotalPoints                float64       `json:"total_points"`
	TotalPointsPerGame         float64       `json:"total_points_per_game"`
	TotalOffensiveYards        float64       `json:"total_offensive_yards"`
	TotalOffensiveYardsPerGame float64       `json:"total_offensive_yards_per_game"`
	PassingYards               float64       `json:"passing_yards"`
	PassingYardsPerGame        float64       `json:"passing_yards_per_game"`
	PassingAttempts            float64       `json:"passing_attempts"`
	PassingTouchdowns          float64       `json:"passing_touchdowns"`
	PassingCompletionPct       float64       `json:"passing_completion_pct"`
	PassingSacks               float64       `json:"passing_sacks"`
	PassingInterceptions       float64       `json:"passing_interceptions"`
	YardsPerPassAttempt        float64       `json:"yards_per_pass_attempt"`
	RushingYards               float64       `json:"rushing_yards"`
	RushingYardsPerGame        float64       `json:"rushing_yards_per_game"`
	RushingAttempts            float64       `json:"rushing_attempts"`
	RushingTouchdowns          float64       `json:"rushing_touchdowns"`
	RushingYardsPerRushAttempt float64       `json:"rushing_yards_per_rush_attempt"`
	ThirdDownConvPct           flexibleFloat `json:"misc_third_down_conv_pct"`
	RedZoneEfficiency          string        `json:"misc_red_zone_efficiency"`
	TotalGiveaways             float64       `json:"misc_total_giveaways"`
	TurnoverDifferential       float64       `json:"misc_turnover_differential"`
	DefensiveInterceptions     float64       `json:"defensive_interceptions"`
	FumblesRecovered           float64       `json:"fumbles_recovered"`
	PossessionTime             string        `json:"possession_time"`
	OppPointsPerGame           flexibleFloat `json:"opp_total_points_per_game"`
	OppTotalYardsPerGame       flexibleFloat `json:"opp_total_offensive_yards_per_game"`
	OppPassingYardsPerGame     float64       `json:"opp_passing_yards_per_game"`
	OppRushingYardsPerGame     float64       `json:"opp_rushing_yards_per_game"`
	MiscTotalPenalties         float64       `json:"misc_total_penalties"`
	MiscTotalPenaltyYards      float64       `json:"misc_total_penalty_yards"`
}

// TeamGameStat is one team's box score from /team_stats.
type TeamGameStat struct {
	Team            Team    `json:"team"`
	Game            GameRef `json:"game"`
	TotalYards      float64 `json:"total_yards"`
	RedZoneScores   int     `json:"red_zone_scores"`
	RedZoneAttempts int     `json:"red_zone_attempts"`
}

// RosterSlot is one depth chart entry from /teams/{id}/roster.
type RosterSlot struct {
	Player       Player `json:"player"`
	Position     string `json:"position"`
	Depth        int    `json:"depth"`
	InjuryStatus string `json:"injury_status"`
}

// GameOdds is one book's game line from /odds.
type GameOdds struct {
	ID                flexibleID    `json:"id"`
	GameID            int           `json:"game_id"`
	Vendor            string        `json:"vendor"`
	SpreadHomeValue   flexibleFloat `json:"spread_home_value"`
	TotalValue        flexibleFloat `json:"total_value"`
	MoneylineHomeOdds flexibleFloat `json:"moneyline_home_odds"`
	MoneylineAwayOdds flexibleFloat `json:"moneyline_away_odds"`
	UpdatedAt         string        `json:"updated_at"`
}

// specialTeamsSlots are depth chart slots that duplicate a player's real
// position on the roster.
var specialTeamsSlots = map[string]bool{"KR": true, "PR": true, "LS": true, "P": true, "PK": true, "H": true}

// MapSeasonStat returns false when the line carries no player.
func MapSeasonStat(s SeasonStat) (models.PlayerSeasonStat, bool) {
	if s.Player.ID == 0 {
		return models.PlayerSeasonStat{}, false
	}
	out := models.PlayerSeasonStat{
		PlayerID:               s.Player.ID,
		Season:                 s.Season,
		Postseason:             s.Postseason,
		GamesPlayed:            s.GamesPlayed,
		PassingAttempts:        s.PassingAttempts,
		PassingCompletions:     s.PassingCompletions,
		PassingYards:           s.PassingYards,
		PassingTouchdowns:      s.PassingTouchdowns,
		PassingInterceptions:   s.PassingInterceptions,
		QBR:                    s.QBR.Value,
		RushingAttempts:        s.RushingAttempts,
		RushingYards:           s.RushingYards,
		RushingTouchdowns:      s.RushingTouchdowns,
		ReceivingTargets:       s.ReceivingTargets,
		Receptions:             s.Receptions,
		ReceivingYards:         s.ReceivingYards,
		ReceivingTouchdowns:    s.ReceivingTouchdowns,
		TotalTackles:           valueOr(s.TotalTackles),
		DefensiveSacks:         valueOr(s.DefensiveSacks),
		DefensiveInterceptions: valueOr(s.DefensiveInterceptions),
	}
	if s.PassingCompletionPct.Value != nil {
		out.PassingCompletionPct = *s.PassingCompletionPct.Value
	} else if s.PassingAttempts > 0 {
		out.PassingCompletionPct = float64(s.PassingCompletions) / float64(s.PassingAttempts) * 100
	}
	return out, true
}

// MapGameStat returns false when the line carries no player or game.
func MapGameStat(s GameStat) (models.PlayerGameStat, bool) {
	if s.Player.ID == 0 || s.Game.ID == 0 {
		return models.PlayerGameStat{}, false
	}
	out := models.PlayerGameStat{
		PlayerID:             s.Player.ID,
		GameID:               s.Game.ID,
		Season:               s.Game.Season,
		Week:                 s.Game.Week,
		PassingAttempts:      s.PassingAttempts,
		PassingCompletions:   s.PassingCompletions,
		PassingYards:         s.PassingYards,
		PassingTouchdowns:    s.PassingTouchdowns,
		PassingInterceptions: s.PassingInterceptions,
		QBR:                  s.QBR.Value,
		RushingAttempts:      s.RushingAttempts,
		RushingYards:         s.RushingYards,
		RushingTouchdowns:    s.RushingTouchdowns,
		ReceivingTargets:     s.ReceivingTargets,
		Receptions:           s.Receptions,
		ReceivingYards:       s.ReceivingYards,
		ReceivingTouchdowns:  s.ReceivingTouchdowns,
	}
	if s.Team != nil && s.Team.ID != 0 {
		id := s.Team.ID
		out.TeamID = &id
	}
	return out, true
}

// MapTeamSeasonStat fills a missing season from the requested one.
func MapTeamSeasonStat(s TeamSeasonStat, season int) models.TeamSeasonStat {
	if s.Season != 0 {
		season = s.Season
	}
	seasonType := s.SeasonType
	if seasonType == 0 {
		seasonType = 2
	}
	return models.TeamSeasonStat{
		TeamID:                     s.Team.ID,
		Season:                     season,
		SeasonType:                 seasonType,
		GamesPlayed:                s.GamesPlayed,
		TotalPoints:                s.TotalPoints,
		TotalPointsPerGame:         s.TotalPointsPerGame,
		TotalOffensiveYards:        s.TotalOffensiveYards,
		TotalOffensiveYardsPerGame: s.TotalOffensiveYardsPerGame,
		PassingYards:               s.PassingYards,
		PassingYardsPerGame:        s.PassingYardsPerGame,
		PassingAttempts:            s.PassingAttempts,
		PassingTouchdowns:          s.PassingTouchdowns,
		PassingCompletionPct:       s.PassingCompletionPct,
		PassingSacks:               s.PassingSacks,
		PassingInterceptions:       s.PassingInterceptions,
		YardsPerPassAttempt:        s.YardsPerPassAttempt,
		RushingYards:               s.RushingYards,
		RushingYardsPerGame:        s.RushingYardsPerGame,
		RushingAttempts:            s.RushingAttempts,
		RushingTouchdowns:          s.RushingTouchdowns,
		RushingAverage:             s.RushingYardsPerRushAttempt,
		ThirdDownConvPct:           s.ThirdDownConvPct.Value,
		RedZoneEfficiency:          s.RedZoneEfficiency,
		Turnovers:                  s.TotalGiveaways,
		TurnoverDifferential:       int(math.Round(s.TurnoverDifferential)),
		DefensiveInterceptions:     s.DefensiveInterceptions,
		FumblesRecovered:           s.FumblesRecovered,
		PossessionTime:             s.PossessionTime,
		OppPointsPerGame:           s.OppPointsPerGame.Value,
		OppTotalYardsPerGame:       s.OppTotalYardsPerGame.Value,
		OppPassingYardsPerGame:     s.OppPassingYardsPerGame,
		OppRushingYardsPerGame:     s.OppRushingYardsPerGame,
		MiscTotalPenalties:         s.MiscTotalPenalties,
		MiscTotalPenaltyYards:      s.MiscTotalPenaltyYards,
	}
}

// MapTeamGameStat returns false when the row carries no team or game.
func MapTeamGameStat(s TeamGameStat) (models.TeamGameStat, bool) {
	if s.Team.ID == 0 || s.Game.ID == 0 {
		return models.TeamGameStat{}, false
	}
	return models.TeamGameStat{
		TeamID:          s.Team.ID,
		GameID:          s.Game.ID,
		Season:          s.Game.Season,
		Week:            s.Game.Week,
		TotalYards:      s.TotalYards,
		RedZoneScores:   s.RedZoneScores,
		RedZoneAttempts: s.RedZoneAttempts,
	}, true
}

// MapRoster keeps one entry per player. A player listed in both an
// offensive or defensive slot and a special teams slot keeps the former.
func MapRoster(slots []RosterSlot, teamID, season int) []models.RosterEntry {
	index := make(map[int]int, len(slots))
	out := make([]models.RosterEntry, 0, len(slots))
	for _, s := range slots {
		if s.Player.ID == 0 {
			continue
		}
		entry := models.RosterEntry{
			TeamID:       teamID,
			Season:       season,
			PlayerID:     s.Player.ID,
			Position:     strings.ToUpper(s.Position),
			Depth:        s.Depth,
			InjuryStatus: s.InjuryStatus,
		}
		if i, ok := index[s.Player.ID]; ok {
			if specialTeamsSlots[out[i].Position] && !specialTeamsSlots[entry.Position] {
				out[i] = entry
			}
			continue
		}
		index[s.Player.ID] = len(out)
		out = append(out, entry)
	}
	return out
}

// ApplyOdds copies a book's game line onto l. The home spread keeps the
// book's sign; readers normalize it against the moneylines.
func ApplyOdds(l *models.GameLine, o GameOdds) {
	if v := o.SpreadHomeValue.Value; v != nil {
		s := strconv.FormatFloat(*v, 'f', -1, 64)
		l.SpreadLine = &s
	}
	if o.TotalValue.Value != nil {
		l.TotalLine = o.TotalValue.Value
	}
	if o.MoneylineHomeOdds.Value != nil {
		l.HomeMoneyline = o.MoneylineHomeOdds.Value
	}
	if o.MoneylineAwayOdds.Value != nil {
		l.AwayMoneyline = o.MoneylineAwayOdds.Value
	}
}

func valueOr(f flexibleFloat) float64 {
	if f.Value == nil {
		return 0
	}
	return *f.Value
}
