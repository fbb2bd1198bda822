// Package props selects prop lines out of the raw vendor postings: the
// current line per vendor, the DraftKings line shown on the smash feed and
// the best available line across books for game pages.
package props

import (
	"sort"
	"strings"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/models"
)

// Stat categories quoted on the smash feed per position.
var dkPropTypes = map[string]string{
	"QB": "passing_yards",
	"RB": "rushing_yards",
	"HB": "rushing_yards",
	"WR": "receiving_yards",
	"TE": "receiving_yards",
}

// PropTypeFor returns the yardage prop that represents a position, or ""
// when the position has none.
func PropTypeFor(position string) string {
	return dkPropTypes[strings.ToUpper(strings.TrimSpace(position))]
}

// ShouldKeep reports whether a market is worth storing: every over/under
// plus the anytime touchdown milestone.
func ShouldKeep(marketType, propType string) bool {
	if marketType == models.MarketOverUnder {
		return true
	}
	return marketType == models.MarketMilestone && propType == models.PropAnytimeTD
}

type vendorKey struct {
	playerID int
	propType string
	vendor   string
}

// LatestByVendor keeps the newest posting per (player, prop type, vendor),
// the same rows a DISTINCT ON ... ORDER BY created_at DESC would return.
// Equal timestamps keep the first row seen. Output order follows the first
// appearance of each key.
func LatestByVendor(rows []models.PlayerProp) []models.PlayerProp {
	index := make(map[vendorKey]int, len(rows))
	out := make([]models.PlayerProp, 0, len(rows))
	for _, r := range rows {
		k := vendorKey{r.PlayerID, r.PropType, r.Vendor}
		if i, ok := index[k]; ok {
			if r.CreatedAt.After(out[i].CreatedAt) {
				out[i] = r
			}
			continue
		}
		index[k] = len(out)
		out = append(out, r)
	}
	return out
}

// DKLine returns the current DraftKings over/under line for the player's
// position category. A missing or zero line is nil.
func DKLine(rows []models.PlayerProp, playerID int, position string) *float64 {
	propType := PropTypeFor(position)
	if propType == "" {
		return nil
	}

	var latest *models.PlayerProp
	for i := range rows {
		r := &rows[i]
		if r.PlayerID != playerID || r.PropType != propType ||
			r.Vendor != models.VendorDraftKings || r.MarketType != models.MarketOverUnder {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	if latest == nil || latest.LineValue == nil || *latest.LineValue == 0 {
		return nil
	}
	v := *latest.LineValue
	return &v
}

// VendorOdds is one book's price inside a best-line entry.
type VendorOdds struct {
	Vendor    string   `json:"vendor"`
	Odds      *float64 `json:"odds,omitempty"`
	OverOdds  *float64 `json:"over_odds,omitempty"`
	UnderOdds *float64 `json:"under_odds,omitempty"`
	LineValue *float64 `json:"line_value,omitempty"`
}

// AnytimeTD is the best price to score a touchdown.
type AnytimeTD struct {
	PlayerName string       `json:"player_name"`
	PlayerID   int          `json:"player_id"`
	Position   string       `json:"position"`
	TeamID     *int         `json:"team_id"`
	PropType   string       `json:"prop_type"`
	MarketType string       `json:"market_type"`
	LineValue  *float64     `json:"line_value"`
	BestOdds   *float64     `json:"best_odds"`
	BestVendor string       `json:"best_vendor"`
	AllVendors []VendorOdds `json:"all_vendors"`
}

// OverUnder is the best over and under prices on the consensus line.
type OverUnder struct {
	PlayerName      string       `json:"player_name"`
	PlayerID        int          `json:"player_id"`
	Position        string       `json:"position"`
	TeamID          *int         `json:"team_id"`
	PropType        string       `json:"prop_type"`
	MarketType      string       `json:"market_type"`
	LineValue       float64      `json:"line_value"`
	BestOverOdds    *float64     `json:"best_over_odds"`
	BestOverVendor  string       `json:"best_over_vendor"`
	BestUnderOdds   *float64     `json:"best_under_odds"`
	BestUnderVendor string       `json:"best_under_vendor"`
	AllVendors      []VendorOdds `json:"all_vendors"`
}

// Board groups a game's best lines by market.
type Board struct {
	AnytimeTD []AnytimeTD `json:"anytime_td"`
	OverUnder []OverUnder `json:"over_under"`
}

// EmptyBoard is served for played games and games without props.
func EmptyBoard() Board {
	return Board{AnytimeTD: []AnytimeTD{}, OverUnder: []OverUnder{}}
}

type propKey struct {
	playerID int
	propType string
}

// BestLines shops every vendor's posting for the best price. Anytime TD
// entries only consider the standard one-touchdown line (0.5 or unset) and
// are ordered most likely first. Over/under entries price both sides on the
// line most vendors agree on so the pair always refers to one number; they
// are ordered by prop type then player name.
func BestLines(rows []models.PlayerProp, players map[int]models.Player) Board {
	board := EmptyBoard()
	if len(rows) == 0 {
		return board
	}

	var order []propKey
	grouped := make(map[propKey][]models.PlayerProp)
	for _, r := range rows {
		k := propKey{r.PlayerID, r.PropType}
		if _, ok := grouped[k]; !ok {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], r)
	}

	for _, k := range order {
		vendorRows := grouped[k]
		p := players[k.playerID]
		name := p.FullName()

		if k.propType == models.PropAnytimeTD || vendorRows[0].MarketType == models.PropAnytimeTD {
			if entry, ok := bestAnytime(vendorRows); ok {
				entry.PlayerName, entry.PlayerID, entry.Position, entry.TeamID = name, k.playerID, p.Position, p.TeamID
				entry.PropType = k.propType
				board.AnytimeTD = append(board.AnytimeTD, entry)
			}
			continue
		}

		if entry, ok := bestOverUnder(vendorRows); ok {
			entry.PlayerName, entry.PlayerID, entry.Position, entry.TeamID = name, k.playerID, p.Position, p.TeamID
			entry.PropType = k.propType
			board.OverUnder = append(board.OverUnder, entry)
		}
	}

	sort.SliceStable(board.AnytimeTD, func(i, j int) bool {
		return oddsOr(board.AnytimeTD[i].BestOdds, 9999) < oddsOr(board.AnytimeTD[j].BestOdds, 9999)
	})
	sort.SliceStable(board.OverUnder, func(i, j int) bool {
		a, b := board.OverUnder[i], board.OverUnder[j]
		if a.PropType != b.PropType {
			return a.PropType < b.PropType
		}
		return a.PlayerName < b.PlayerName
	})
	return board
}

func bestAnytime(rows []models.PlayerProp) (AnytimeTD, bool) {
	var std []models.PlayerProp
	for _, r := range rows {
		if r.LineValue == nil || *r.LineValue == 0.5 {
			std = append(std, r)
		}
	}
	if len(std) == 0 {
		return AnytimeTD{}, false
	}

	best := std[0]
	for _, r := range std[1:] {
		if oddsOr(r.MilestoneOdds, -9999) > oddsOr(best.MilestoneOdds, -9999) {
			best = r
		}
	}

	sort.SliceStable(std, func(i, j int) bool {
		return oddsOr(std[i].MilestoneOdds, -9999) > oddsOr(std[j].MilestoneOdds, -9999)
	})
	vendors := make([]VendorOdds, len(std))
	for i, r := range std {
		vendors[i] = VendorOdds{Vendor: r.Vendor, Odds: r.MilestoneOdds}
	}

	return AnytimeTD{
		MarketType: models.PropAnytimeTD,
		LineValue:  best.LineValue,
		BestOdds:   best.MilestoneOdds,
		BestVendor: best.Vendor,
		AllVendors: vendors,
	}, true
}

func bestOverUnder(rows []models.PlayerProp) (OverUnder, bool) {
	var lineOrder []float64
	byLine := make(map[float64][]models.PlayerProp)
	for _, r := range rows {
		if r.LineValue == nil {
			continue
		}
		lv := *r.LineValue
		if _, ok := byLine[lv]; !ok {
			lineOrder = append(lineOrder, lv)
		}
		byLine[lv] = append(byLine[lv], r)
	}
	if len(lineOrder) == 0 {
		return OverUnder{}, false
	}

	consensus := lineOrder[0]
	for _, lv := range lineOrder[1:] {
		if len(byLine[lv]) > len(byLine[consensus]) {
			consensus = lv
		}
	}
	lineRows := byLine[consensus]

	bestOver, bestUnder := lineRows[0], lineRows[0]
	vendors := make([]VendorOdds, len(lineRows))
	for i, r := range lineRows {
		if oddsOr(r.OverOdds, -9999) > oddsOr(bestOver.OverOdds, -9999) {
			bestOver = r
		}
		if oddsOr(r.UnderOdds, -9999) > oddsOr(bestUnder.UnderOdds, -9999) {
			bestUnder = r
		}
		vendors[i] = VendorOdds{Vendor: r.Vendor, OverOdds: r.OverOdds, UnderOdds: r.UnderOdds, LineValue: r.LineValue}
	}

	return OverUnder{
		MarketType:      models.MarketOverUnder,
		LineValue:       consensus,
		BestOverOdds:    bestOver.OverOdds,
		BestOverVendor:  bestOver.Vendor,
		BestUnderOdds:   bestUnder.UnderOdds,
		BestUnderVendor: bestUnder.Vendor,
		AllVendors:      vendors,
	}, true
}

// oddsOr treats missing and zero odds as absent.
func oddsOr(v *float64, fallback float64) float64 {
	if v == nil || *v == 0 {
		return fallback
	}
	return *v
}
