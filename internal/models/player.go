package models

import (
	"fmt"
	"strings"
	"time"
)

type Player struct {
	ID           int       `gorm:"primaryKey;autoIncrement:false" json:"id"`
	FirstName    string    `gorm:"size:64;not null" json:"first_name"`
	LastName     string    `gorm:"size:64;not null;index" json:"last_name"`
	Position     string    `gorm:"size:8;index" json:"position"`
	TeamID       *int      `gorm:"index" json:"team_id"`
	JerseyNumber string    `gorm:"size:4" json:"jersey_number"`
	Height       string    `gorm:"size:8" json:"height"`
	Weight       string    `gorm:"size:8" json:"weight"`
	College      string    `gorm:"size:64" json:"college"`
	Age          *int      `json:"age"`
	EspnID       string    `gorm:"size:16" json:"espn_id"`
	UpdatedAt    time.Time `json:"updated_at"`

	Team *Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}

func (Player) TableName() string {
	return "players"
}

func (p Player) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// PhotoURL returns the ESPN headshot for players with a known ESPN id.
func (p Player) PhotoURL() *string {
	if p.EspnID == "" {
		return nil
	}
	url := fmt.Sprintf("https://a.espncdn.com/i/headshots/nfl/players/full/%s.png", p.EspnID)
	return &url
}

// PlayerSeasonStat holds one player's season totals. Postseason rows are
// stored separately from the regular season.
type PlayerSeasonStat struct {
	PlayerID   int  `gorm:"primaryKey;autoIncrement:false" json:"player_id"`
	Season     int  `gorm:"primaryKey;autoIncrement:false" json:"season"`
	Postseason bool `gorm:"primaryKey;default:false" json:"postseason"`

	GamesPlayed            int      `json:"games_played"`
	PassingAttempts        int      `json:"passing_attempts"`
	PassingCompletions     int      `json:"passing_completions"`
	PassingYards           int      `json:"passing_yards"`
	PassingTouchdowns      int      `json:"passing_touchdowns"`
	PassingInterceptions   int      `json:"passing_interceptions"`
	PassingCompletionPct   float64  `json:"passing_completion_pct"`
	QBR                    *float64 `gorm:"column:qbr" json:"qbr"`
	RushingAttempts        int      `json:"rushing_attempts"`
	RushingYards           int      `json:"rushing_yards"`
	RushingTouchdowns      int      `json:"rushing_touchdowns"`
	ReceivingTargets       int      `json:"receiving_targets"`
	Receptions             int      `json:"receptions"`
	ReceivingYards         int      `json:"receiving_yards"`
	ReceivingTouchdowns    int      `json:"receiving_touchdowns"`
	TotalTackles           float64  `json:"total_tackles"`
	DefensiveSacks         float64  `json:"defensive_sacks"`
	DefensiveInterceptions float64  `json:"defensive_interceptions"`

	Player Player `gorm:"foreignKey:PlayerID" json:"-"`
}

func (PlayerSeasonStat) TableName() string {
	return "player_season_stats"
}

// HasOffensiveStats reports whether the line carries any passing, rushing or
// receiving production.
func (s PlayerSeasonStat) HasOffensiveStats() bool {
	return s.PassingAttempts > 0 || s.PassingYards > 0 || s.PassingTouchdowns > 0 ||
		s.RushingAttempts > 0 || s.RushingYards > 0 || s.RushingTouchdowns > 0 ||
		s.ReceivingTargets > 0 || s.Receptions > 0 || s.ReceivingYards > 0 || s.ReceivingTouchdowns > 0
}

// PlayerGameStat is one player's box score line for one provider game.
type PlayerGameStat struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	PlayerID int  `gorm:"index:idx_pgs_player_season" json:"player_id"`
	GameID   int  `gorm:"index" json:"game_id"`
	Season   int  `gorm:"index:idx_pgs_player_season" json:"season"`
	Week     int  `json:"week"`
	TeamID   *int `json:"team_id"`

	PassingAttempts      int      `json:"passing_attempts"`
	PassingCompletions   int      `json:"passing_completions"`
	PassingYards         int      `json:"passing_yards"`
	PassingTouchdowns    int      `json:"passing_touchdowns"`
	PassingInterceptions int      `json:"passing_interceptions"`
	QBR                  *float64 `gorm:"column:qbr" json:"qbr"`
	RushingAttempts      int      `json:"rushing_attempts"`
	RushingYards         int      `json:"rushing_yards"`
	RushingTouchdowns    int      `json:"rushing_touchdowns"`
	ReceivingTargets     int      `json:"receiving_targets"`
	Receptions           int      `json:"receptions"`
	ReceivingYards       int      `json:"receiving_yards"`
	ReceivingTouchdowns  int      `json:"receiving_touchdowns"`
}

func (PlayerGameStat) TableName() string {
	return "player_game_stats"
}
