package smash

import (
	"fmt"
	"math"
	"sort"
)

const notAvailable = "N/A"

type statChip struct {
	score float64
	label string
}

// DynamicStats picks the three stat chips for a row: the labels behind the
// component scores that contributed most. Ties keep model order.
func DynamicStats(row Row) (string, string, string) {
	var chips []statChip
	c := row.Components
	in := row.Inputs

	switch Group(in.Position) {
	case GroupReceiver:
		chips = []statChip{
			{c[AirShareScore], fmt.Sprintf("%.0f%% Air", in.AirSharePct)},
			{c[AdotScore], fmt.Sprintf("%.1f aDOT", in.Adot)},
			{c[SeparationScore], fmt.Sprintf("%.1fyd Sep", in.Separation)},
			{c[MatchupScore], fmt.Sprintf("#%d Def", in.OpponentRank())},
			{c[QBEfficiencyScore], fmt.Sprintf("+%.1f QB CPOE", in.QBCpoe)},
			{c[CatchRateScore], fmt.Sprintf("%.0f%% Catch", in.CatchRate)},
			{c[VolumeScore], fmt.Sprintf("%.1f TGT/G", in.TargetsPerGame)},
		}
	case GroupRusher:
		favorite := "Script"
		if in.IsFavorite {
			favorite = fmt.Sprintf("%.1fpt Fav", math.Abs(in.Spread))
		}
		chips = []statChip{
			{c[EfficiencyScore], fmt.Sprintf("+%.2f RYOE", in.RyoePerAtt)},
			{c[VolumeScore], fmt.Sprintf("%.1f ATT/G", in.RushAttPerGame)},
			{c[RunFunnelScore], fmt.Sprintf("#%d Run D", in.OpponentRank())},
			{c[FavoriteScore], favorite},
			{c[ReceivingUpsideScore], fmt.Sprintf("%d Rec TGT", in.RecTargets)},
			{c[ReceivingUpsideScore] + 1, fmt.Sprintf("%.1f Touch/G", in.TouchesPerGame)},
		}
	case GroupPasser:
		script := "Script"
		if in.IsUnderdog {
			script = fmt.Sprintf("%.1fpt Dog", in.Spread)
		}
		chips = []statChip{
			{c[ShootoutScore], fmt.Sprintf("%.0f O/U", in.GameTotal)},
			{c[EfficiencyScore], fmt.Sprintf("+%.1f CPOE", in.Cpoe)},
			{c[AggressivenessScore], fmt.Sprintf("%.1f%% AGG", in.Aggressiveness)},
			{c[PassFunnelScore], fmt.Sprintf("#%d Pass D", in.OpponentRank())},
			{c[PocketScore], fmt.Sprintf("#%d OLine", int(100-in.OlineRankPct))},
			{c[ScriptScore], script},
			{1, fmt.Sprintf("%.1f ATT/G", in.PassAttPerGame)},
		}
	default:
		return notAvailable, notAvailable, notAvailable
	}

	sort.SliceStable(chips, func(i, j int) bool {
		return chips[i].score > chips[j].score
	})
	return chips[0].label, chips[1].label, chips[2].label
}
