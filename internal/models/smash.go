package models

import (
	"time"

	"gorm.io/datatypes"
)

// SmashFeature holds the weekly model inputs for one player. Only the
// columns for the player's position group are populated; the rest stay 0.
// Percentages are stored on a 0-100 scale.
type SmashFeature struct {
	Season   int    `gorm:"primaryKey;autoIncrement:false" json:"season"`
	Week     int    `gorm:"primaryKey;autoIncrement:false" json:"week"`
	PlayerID int    `gorm:"primaryKey;autoIncrement:false" json:"player_id"`
	Position string `gorm:"size:8;index" json:"position"`
	Team     string `gorm:"size:10" json:"team"`

	// Receivers
	AirSharePct    float64 `json:"air_share_pct"`
	Adot           float64 `json:"adot"`
	Separation     float64 `json:"separation"`
	CatchRate      float64 `json:"catch_rate"`
	TargetsPerGame float64 `json:"targets_per_game"`
	QBCpoe         float64 `gorm:"column:qb_cpoe" json:"qb_cpoe"`

	// Running backs
	RyoePerAtt     float64 `json:"ryoe_per_att"`
	RushAttPerGame float64 `json:"rush_att_per_game"`
	YardsPerCarry  float64 `json:"yards_per_carry"`
	TouchesPerGame float64 `json:"touches_per_game"`
	RecTargets     int     `json:"rec_targets"`

	// Quarterbacks
	Cpoe           float64 `json:"cpoe"`
	Aggressiveness float64 `json:"aggressiveness"`
	OlineRankPct   float64 `json:"oline_rank_pct"`
	PassAttPerGame float64 `json:"pass_att_per_game"`
	QBRating       float64 `gorm:"column:qb_rating" json:"qb_rating"`
	CompPct        float64 `json:"comp_pct"`

	UpdatedAt time.Time `json:"updated_at"`

	Player Player `gorm:"foreignKey:PlayerID" json:"-"`
}

func (SmashFeature) TableName() string {
	return "smash_features"
}

// SmashScore is a materialized smash row. SmashScore here is the raw model
// total; the feed rescales it per position at read time.
type SmashScore struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	Season        int                         `gorm:"index:idx_smash_week" json:"season"`
	Week          int                         `gorm:"index:idx_smash_week" json:"week"`
	PlayerID      int                         `gorm:"index" json:"player_id"`
	PlayerName    string                      `gorm:"size:128" json:"player_name"`
	Position      string                      `gorm:"size:8;index" json:"position"`
	Team          string                      `gorm:"size:10" json:"team"`
	Opponent      string                      `gorm:"size:10" json:"opponent"`
	SmashScore    float64                     `gorm:"index" json:"smash_score"`
	DKLine        *float64                    `gorm:"column:dk_line" json:"dk_line"`
	GameTotal     float64                     `json:"game_total"`
	Spread        float64                     `json:"spread"`
	OppDefRankPct float64                     `json:"opp_def_rank_pct"`
	OpponentRank  int                         `json:"opponent_rank"`
	MatchupFlags  datatypes.JSONSlice[string] `json:"matchup_flags"`
	Stat1         string                      `gorm:"size:32" json:"stat1"`
	Stat2         string                      `gorm:"size:32" json:"stat2"`
	Stat3         string                      `gorm:"size:32" json:"stat3"`
	RawStats      datatypes.JSON              `json:"raw_stats"`
	ComputedAt    time.Time                   `json:"computed_at"`
}

func (SmashScore) TableName() string {
	return "smash_scores"
}
