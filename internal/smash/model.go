package smash

import (
	"strings"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/models"
)

// Position groups. Tight ends are scored with the receivers.
const (
	GroupReceiver = "WR"
	GroupRusher   = "RB"
	GroupPasser   = "QB"
)

// Component keys. They double as raw_stats keys in the feed.
const (
	AirShareScore        = "air_share_score"
	AdotScore            = "adot_score"
	SeparationScore      = "separation_score"
	MatchupScore         = "matchup_score"
	QBEfficiencyScore    = "qb_efficiency_score"
	CatchRateScore       = "catch_rate_score"
	VolumeScore          = "volume_score"
	EfficiencyScore      = "efficiency_score"
	RunFunnelScore       = "run_funnel_score"
	FavoriteScore        = "favorite_score"
	ReceivingUpsideScore = "receiving_upside_score"
	ShootoutScore        = "shootout_score"
	AggressivenessScore  = "aggressiveness_score"
	PassFunnelScore      = "pass_funnel_score"
	PocketScore          = "pocket_score"
	ScriptScore          = "script_score"
)

// Inputs is one player's weekly features joined with the game context.
// Spread is from the player's team's perspective: negative when favored.
type Inputs struct {
	models.SmashFeature

	PlayerName      string
	Opponent        string
	GameTotal       float64
	Spread          float64
	IsFavorite      bool
	IsUnderdog      bool
	OppDefRankPct   *float64
	OppPassYPG      float64
	OppRushYPG      float64
	OppTurnoverDiff int
}

// DefensePct returns the opponent's defense percentile or the league
// average when it is unknown.
func (in Inputs) DefensePct() float64 {
	if in.OppDefRankPct == nil {
		return DefaultDefensePct
	}
	return *in.OppDefRankPct
}

// OpponentRank is DefensePct on the 1-32 scale.
func (in Inputs) OpponentRank() int {
	return PercentileToRank(in.DefensePct())
}

// Row is a scored player-week.
type Row struct {
	Inputs
	Components map[string]float64
	Score      float64
}

// Group maps a roster position onto the model that scores it; "" when the
// position is not modeled.
func Group(position string) string {
	switch strings.ToUpper(strings.TrimSpace(position)) {
	case "WR", "TE":
		return GroupReceiver
	case "RB", "HB", "FB":
		return GroupRusher
	case "QB":
		return GroupPasser
	}
	return ""
}

// CanonicalPosition folds HB and FB into RB so feed caps see every back.
func CanonicalPosition(position string) string {
	p := strings.ToUpper(strings.TrimSpace(position))
	if p == "HB" || p == "FB" {
		return "RB"
	}
	return p
}

// component scores one facet of a matchup. Exactly one of ranked or direct
// is set: ranked values are percent-ranked across the position group for
// the week, direct values are already a 0-1 strength.
type component struct {
	key    string
	weight float64
	ranked func(in *Inputs) float64
	direct func(in *Inputs) float64
}

// Weights in each model sum to 100 so a raw total is already on the
// 0-100 scale.
var receiverModel = []component{
	{key: AirShareScore, weight: 20, ranked: func(in *Inputs) float64 { return in.AirSharePct }},
	{key: AdotScore, weight: 10, ranked: func(in *Inputs) float64 { return in.Adot }},
	{key: SeparationScore, weight: 15, ranked: func(in *Inputs) float64 { return in.Separation }},
	{key: MatchupScore, weight: 20, direct: defenseStrength},
	{key: QBEfficiencyScore, weight: 10, ranked: func(in *Inputs) float64 { return in.QBCpoe }},
	{key: CatchRateScore, weight: 10, ranked: func(in *Inputs) float64 { return in.CatchRate }},
	{key: VolumeScore, weight: 15, ranked: func(in *Inputs) float64 { return in.TargetsPerGame }},
}

var rusherModel = []component{
	{key: EfficiencyScore, weight: 20, ranked: func(in *Inputs) float64 { return in.RyoePerAtt }},
	{key: VolumeScore, weight: 25, ranked: func(in *Inputs) float64 { return in.RushAttPerGame }},
	{key: RunFunnelScore, weight: 20, direct: defenseStrength},
	{key: FavoriteScore, weight: 15, direct: func(in *Inputs) float64 {
		if !in.IsFavorite {
			return 0
		}
		return clamp(-in.Spread/14, 0, 1)
	}},
	{key: ReceivingUpsideScore, weight: 20, ranked: func(in *Inputs) float64 { return float64(in.RecTargets) }},
}

var passerModel = []component{
	{key: ShootoutScore, weight: 25, ranked: func(in *Inputs) float64 { return in.GameTotal }},
	{key: EfficiencyScore, weight: 20, ranked: func(in *Inputs) float64 { return in.Cpoe }},
	{key: AggressivenessScore, weight: 10, ranked: func(in *Inputs) float64 { return in.Aggressiveness }},
	{key: PassFunnelScore, weight: 20, direct: defenseStrength},
	{key: PocketScore, weight: 15, direct: func(in *Inputs) float64 { return clamp(in.OlineRankPct/100, 0, 1) }},
	{key: ScriptScore, weight: 10, direct: func(in *Inputs) float64 {
		if !in.IsUnderdog {
			return 0
		}
		return clamp(in.Spread/14, 0, 1)
	}},
}

func defenseStrength(in *Inputs) float64 {
	return clamp(in.DefensePct()/100, 0, 1)
}

func modelFor(group string) []component {
	switch group {
	case GroupReceiver:
		return receiverModel
	case GroupRusher:
		return rusherModel
	case GroupPasser:
		return passerModel
	}
	return nil
}

// ScoreWeek scores one week of inputs. Percent ranks are taken within each
// position group, so callers must pass the whole week at once. Inputs with
// an unmodeled position are dropped. Output order follows input order.
func ScoreWeek(inputs []Inputs) []Row {
	byGroup := make(map[string][]int)
	for i := range inputs {
		if g := Group(inputs[i].Position); g != "" {
			byGroup[g] = append(byGroup[g], i)
		}
	}

	scored := make(map[int]Row, len(inputs))
	for group, idx := range byGroup {
		model := modelFor(group)

		ranks := make(map[string][]float64, len(model))
		for _, c := range model {
			if c.ranked == nil {
				continue
			}
			values := make([]float64, len(idx))
			for j, i := range idx {
				values[j] = c.ranked(&inputs[i])
			}
			ranks[c.key] = PercentRank(values)
		}

		for j, i := range idx {
			in := &inputs[i]
			components := make(map[string]float64, len(model))
			total := 0.0
			for _, c := range model {
				var strength float64
				if c.ranked != nil {
					strength = ranks[c.key][j]
				} else {
					strength = c.direct(in)
				}
				s := round2(c.weight * strength)
				components[c.key] = s
				total += s
			}
			scored[i] = Row{
				Inputs:     *in,
				Components: components,
				Score:      round2(clamp(total, 0, 100)),
			}
		}
	}

	out := make([]Row, 0, len(scored))
	for i := range inputs {
		if r, ok := scored[i]; ok {
			out = append(out, r)
		}
	}
	return out
}
