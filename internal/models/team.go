package models

import (
	"strings"
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/database"
)

type Team struct {
	ID             int       `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Abbreviation   string    `gorm:"uniqueIndex;size:10;not null" json:"abbreviation"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Conference     string    `gorm:"size:10" json:"conference"` // "AFC" or "NFC"
	Division       string    `gorm:"size:10" json:"division"`   // "EAST", "NORTH", ...
	PrimaryColor   string    `gorm:"size:16" json:"primary_color"`
	SecondaryColor string    `gorm:"size:16" json:"secondary_color"`
	LogoURL        string    `json:"logo_url"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Team) TableName() string {
	return "teams"
}

// DivisionLabel renders "AFC East" style labels from the stored parts.
func (t Team) DivisionLabel() string {
	div := strings.ToLower(t.Division)
	if div != "" {
		div = strings.ToUpper(div[:1]) + div[1:]
	}
	return strings.TrimSpace(t.Conference + " " + div)
}

type TeamStanding struct {
	TeamID            int       `gorm:"primaryKey;autoIncrement:false" json:"team_id"`
	Season            int       `gorm:"primaryKey;autoIncrement:false" json:"season"`
	Wins              int       `json:"wins"`
	Losses            int       `json:"losses"`
	Ties              int       `json:"ties"`
	PointsFor         int       `json:"points_for"`
	PointsAgainst     int       `json:"points_against"`
	PointDifferential int       `json:"point_differential"`
	PlayoffSeed       *int      `json:"playoff_seed"`
	WinStreak         int       `json:"win_streak"`
	OverallRecord     string    `gorm:"size:16" json:"overall_record"`
	ConferenceRecord  string    `gorm:"size:16" json:"conference_record"`
	DivisionRecord    string    `gorm:"size:16" json:"division_record"`
	HomeRecord        string    `gorm:"size:16" json:"home_record"`
	RoadRecord        string    `gorm:"size:16" json:"road_record"`
	UpdatedAt         time.Time `json:"updated_at"`

	Team Team `gorm:"foreignKey:TeamID" json:"-"`
}

func (TeamStanding) TableName() string {
	return "team_standings"
}

// TeamSeasonStat is one team's season line. SeasonType follows the provider:
// 2 regular season, 3 postseason.
type TeamSeasonStat struct {
	TeamID     int `gorm:"primaryKey;autoIncrement:false" json:"team_id"`
	Season     int `gorm:"primaryKey;autoIncrement:false" json:"season"`
	SeasonType int `gorm:"primaryKey;autoIncrement:false;default:2" json:"season_type"`

	GamesPlayed                 int      `json:"games_played"`
	TotalPoints                 float64  `json:"total_points"`
	TotalPointsPerGame          float64  `json:"total_points_per_game"`
	TotalOffensiveYards         float64  `json:"total_offensive_yards"`
	TotalOffensiveYardsPerGame  float64  `json:"total_offensive_yards_per_game"`
	PassingYards                float64  `json:"passing_yards"`
	PassingYardsPerGame         float64  `json:"passing_yards_per_game"`
	PassingAttempts             float64  `json:"passing_attempts"`
	PassingTouchdowns           float64  `json:"passing_touchdowns"`
	PassingCompletionPct        float64  `json:"passing_completion_pct"`
	PassingSacks                float64  `json:"passing_sacks"`
	PassingInterceptions        float64  `json:"passing_interceptions"`
	YardsPerPassAttempt         float64  `json:"yards_per_pass_attempt"`
	RushingYards                float64  `json:"rushing_yards"`
	RushingYardsPerGame         float64  `json:"rushing_yards_per_game"`
	RushingAttempts             float64  `json:"rushing_attempts"`
	RushingTouchdowns           float64  `json:"rushing_touchdowns"`
	RushingAverage              float64  `json:"rushing_average"`
	ThirdDownConvPct            *float64 `json:"third_down_conv_pct"`
	RedZoneEfficiency           string   `gorm:"size:16" json:"red_zone_efficiency"` // "made-att"
	Turnovers                   float64  `json:"turnovers"`
	TurnoverDifferential        int      `json:"turnover_differential"`
	DefensiveInterceptions      float64  `json:"defensive_interceptions"`
	FumblesRecovered            float64  `json:"fumbles_recovered"`
	PossessionTime              string   `gorm:"size:16" json:"possession_time"`
	OppPointsPerGame            *float64 `json:"opp_points_per_game"`
	OppTotalYardsPerGame        *float64 `json:"opp_total_yards_per_game"`
	OppPassingYardsPerGame      float64  `json:"opp_passing_yards_per_game"`
	OppRushingYardsPerGame      float64  `json:"opp_rushing_yards_per_game"`
	MiscTotalPenalties          float64  `json:"misc_total_penalties"`
	MiscTotalPenaltyYards       float64  `json:"misc_total_penalty_yards"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (TeamSeasonStat) TableName() string {
	return "team_season_stats"
}

type TeamGameStat struct {
	TeamID          int     `gorm:"primaryKey;autoIncrement:false" json:"team_id"`
	GameID          int     `gorm:"primaryKey;autoIncrement:false" json:"game_id"`
	Season          int     `gorm:"index" json:"season"`
	Week            int     `json:"week"`
	TotalYards      float64 `json:"total_yards"`
	RedZoneScores   int     `json:"red_zone_scores"`
	RedZoneAttempts int     `json:"red_zone_attempts"`
}

func (TeamGameStat) TableName() string {
	return "team_game_stats"
}

type RosterEntry struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	TeamID       int    `gorm:"index:idx_roster_team_season" json:"team_id"`
	Season       int    `gorm:"index:idx_roster_team_season" json:"season"`
	PlayerID     int    `gorm:"index" json:"player_id"`
	Position     string `gorm:"size:8" json:"position"` // depth chart slot
	Depth        int    `json:"depth"`
	InjuryStatus string `gorm:"size:32" json:"injury_status"`

	Player Player `gorm:"foreignKey:PlayerID" json:"-"`
}

func (RosterEntry) TableName() string {
	return "rosters"
}

// GetTeamByAbbreviation looks up a team by its abbreviation, case-insensitively.
func GetTeamByAbbreviation(db *database.DB, abbreviation string) (*Team, error) {
	var team Team
	err := db.Where("abbreviation = ?", strings.ToUpper(strings.TrimSpace(abbreviation))).First(&team).Error
	return &team, err
}

// TeamsByAbbreviation loads every team keyed by abbreviation.
func TeamsByAbbreviation(db *database.DB) (map[string]Team, error) {
	var teams []Team
	if err := db.Order("abbreviation").Find(&teams).Error; err != nil {
		return nil, err
	}
	out := make(map[string]Team, len(teams))
	for _, t := range teams {
		out[t.Abbreviation] = t
	}
	return out, nil
}
