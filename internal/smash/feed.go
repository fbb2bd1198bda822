package smash

import (
	"math"
	"sort"
)

// Spot is one entry of the smash feed as served to clients.
type Spot struct {
	PlayerID     string             `json:"player_id"`
	PlayerName   string             `json:"player_name"`
	Position     string             `json:"position"`
	Team         string             `json:"team"`
	Opponent     string             `json:"opponent"`
	SmashScore   float64            `json:"smash_score"`
	DKLine       *float64           `json:"dk_line"`
	GameTotal    float64            `json:"game_total"`
	OpponentRank int                `json:"opponent_rank"`
	MatchupFlags []string           `json:"matchup_flags"`
	PhotoURL     *string            `json:"photoUrl"`
	Stat1        string             `json:"stat1"`
	Stat2        string             `json:"stat2"`
	Stat3        string             `json:"stat3"`
	RawStats     map[string]float64 `json:"raw_stats"`
}

// DefaultCaps bounds how many spots each position contributes to the feed.
var DefaultCaps = map[string]int{
	"QB": 25,
	"RB": 25,
	"WR": 30,
	"TE": 15,
}

// NormalizeByPosition rescales scores so the best spot at each position
// reads 100. Positions whose best score is 0 or already at least 100 are
// left unscaled. Every score ends up rounded and within [0,100].
func NormalizeByPosition(spots []Spot) {
	best := make(map[string]float64)
	for _, s := range spots {
		if s.SmashScore > best[s.Position] {
			best[s.Position] = s.SmashScore
		}
	}

	for i := range spots {
		score := spots[i].SmashScore
		if m := best[spots[i].Position]; m > 0 && m < 100 {
			score = math.RoundToEven(score * 100 / m)
		}
		spots[i].SmashScore = clamp(score, 0, 100)
	}
}

// Feed applies the position caps to spots already ordered best-first
// within each position, then merges them into one list ordered by score.
// Positions without a cap are dropped.
func Feed(spots []Spot, caps map[string]int) []Spot {
	if caps == nil {
		caps = DefaultCaps
	}

	taken := make(map[string]int, len(caps))
	out := make([]Spot, 0, len(spots))
	for _, s := range spots {
		limit, ok := caps[s.Position]
		if !ok || taken[s.Position] >= limit {
			continue
		}
		taken[s.Position]++
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SmashScore > out[j].SmashScore
	})
	return out
}
