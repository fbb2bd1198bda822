package models

import "time"

const (
	MarketOverUnder  = "over_under"
	MarketMilestone  = "milestone"
	PropAnytimeTD    = "anytime_td"
	VendorDraftKings = "draftkings"
)

// PlayerProp is one vendor's posting of a player prop market. Vendors
// repost the same market as lines move, so the newest CreatedAt wins.
type PlayerProp struct {
	ID            string   `gorm:"primaryKey;size:64" json:"id"`
	GameID        int      `gorm:"index" json:"game_id"`
	PlayerID      int      `gorm:"index" json:"player_id"`
	Vendor        string   `gorm:"size:32" json:"vendor"`
	PropType      string   `gorm:"size:48" json:"prop_type"`
	MarketType    string   `gorm:"size:16" json:"market_type"`
	LineValue     *float64 `json:"line_value"`
	OverOdds      *float64 `json:"over_odds"`
	UnderOdds     *float64 `json:"under_odds"`
	MilestoneOdds *float64 `json:"milestone_odds"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PlayerProp) TableName() string {
	return "player_props"
}
