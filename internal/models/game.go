package models

import (
	"time"
)

// GameLine is a schedule row with its betting line. Providers re-post lines
// during the week, so several rows may share a GameID; readers keep the one
// with the latest UpdatedAt.
type GameLine struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	GameID        string   `gorm:"size:32;index;not null" json:"game_id"` // nflverse id, e.g. 2025_05_KC_BUF
	Season        int      `gorm:"index:idx_lines_season_week" json:"season"`
	Week          int      `gorm:"index:idx_lines_season_week" json:"week"`
	GameType      string   `gorm:"size:8;default:REG" json:"game_type"` // REG, WC, DIV, CON, SB
	Gameday       string   `gorm:"size:10" json:"gameday"`              // YYYY-MM-DD
	HomeTeam      string   `gorm:"size:10;index" json:"home_team"`
	AwayTeam      string   `gorm:"size:10;index" json:"away_team"`
	HomeScore     *int     `json:"home_score"`
	AwayScore     *int     `json:"away_score"`
	SpreadLine    *string  `gorm:"size:16" json:"spread_line"` // home spread; may be "PK"
	TotalLine     *float64 `json:"total_line"`
	HomeMoneyline *float64 `json:"home_moneyline"`
	AwayMoneyline *float64 `json:"away_moneyline"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (GameLine) TableName() string {
	return "game_lines"
}

// IsPlayed reports whether both final scores are present.
func (g GameLine) IsPlayed() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// Game is the provider's game record; props and box scores hang off its ID.
type Game struct {
	ID            int       `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Season        int       `gorm:"index" json:"season"`
	Week          int       `json:"week"`
	Postseason    bool      `json:"postseason"`
	HomeTeamID    int       `gorm:"index" json:"home_team_id"`
	VisitorTeamID int       `gorm:"index" json:"visitor_team_id"`
	Date          time.Time `json:"date"`
}

func (Game) TableName() string {
	return "games"
}

// LatestLines keeps the most recently updated row per GameID, preserving the
// order in which each game was first seen.
func LatestLines(lines []GameLine) []GameLine {
	index := make(map[string]int, len(lines))
	out := make([]GameLine, 0, len(lines))
	for _, l := range lines {
		key := l.GameID
		if key == "" {
			key = l.HomeTeam + "@" + l.AwayTeam + ":" + l.Gameday
		}
		if i, ok := index[key]; ok {
			if l.UpdatedAt.After(out[i].UpdatedAt) {
				out[i] = l
			}
			continue
		}
		index[key] = len(out)
		out = append(out, l)
	}
	return out
}
