package smash

import (
	"fmt"
	"math"
)

const (
	minFlags = 3
	maxFlags = 4

	// StatUnavailable pads flag lists and stat chips when the data for a
	// real one is missing.
	StatUnavailable = "Stat Unavailable"
)

// MatchupFlags explains why a player is a smash spot. Rules fire in a fixed
// order; when fewer than three fire, volume fallbacks for the position group
// fill in, then StatUnavailable. At most four flags are returned.
func MatchupFlags(in Inputs) []string {
	var flags []string
	group := Group(in.Position)

	switch group {
	case GroupReceiver:
		flags = receiverFlags(in)
	case GroupRusher:
		flags = rusherFlags(in)
	case GroupPasser:
		flags = passerFlags(in)
	}

	if len(flags) < minFlags {
		for _, f := range fallbackFlags(in, group) {
			if len(flags) >= minFlags {
				break
			}
			flags = append(flags, f)
		}
	}
	for len(flags) < minFlags {
		flags = append(flags, StatUnavailable)
	}

	if len(flags) > maxFlags {
		flags = flags[:maxFlags]
	}
	return flags
}

func receiverFlags(in Inputs) []string {
	var flags []string

	switch air := in.AirSharePct; {
	case air >= 40:
		flags = append(flags, fmt.Sprintf("Commands %.0f%% of team's deep targets", air))
	case air >= 35:
		flags = append(flags, fmt.Sprintf("Primary receiving option with %.0f%% air share", air))
	case air >= 30:
		flags = append(flags, fmt.Sprintf("Top target with %.0f%% of team's air yards", air))
	}

	switch sep := in.Separation; {
	case sep >= 3.5:
		flags = append(flags, fmt.Sprintf("Consistently creates %.1f yards of separation", sep))
	case sep >= 3.0:
		flags = append(flags, fmt.Sprintf("Gets open with %.1fyd average cushion", sep))
	}

	switch rank := in.OpponentRank(); {
	case rank >= 28:
		flags = append(flags, fmt.Sprintf("Facing #%d ranked pass defense (allows %.0f YPG)", rank, in.OppPassYPG))
	case rank >= 23:
		flags = append(flags, fmt.Sprintf("Favorable matchup vs #%d ranked secondary", rank))
	}

	switch cpoe := in.QBCpoe; {
	case cpoe >= 3.0:
		flags = append(flags, fmt.Sprintf("Elite QB play (+%.1f completion %% over expected)", cpoe))
	case cpoe >= 2.0:
		flags = append(flags, fmt.Sprintf("Efficient QB with +%.1f CPOE above average", cpoe))
	}

	switch total := in.GameTotal; {
	case total >= 48 && in.IsUnderdog:
		flags = append(flags, fmt.Sprintf("High-scoring environment (%.0f O/U) + trailing script", total))
	case total >= 50:
		flags = append(flags, fmt.Sprintf("Shootout potential with %.0f point total", total))
	case total >= 48:
		flags = append(flags, fmt.Sprintf("High over/under of %.0f points expected", total))
	}

	return flags
}

func rusherFlags(in Inputs) []string {
	var flags []string

	switch rank := in.OpponentRank(); {
	case rank >= 28:
		flags = append(flags, fmt.Sprintf("Facing #%d ranked run defense (allows %.0f YPG)", rank, in.OppRushYPG))
	case rank >= 23:
		flags = append(flags, fmt.Sprintf("Favorable run matchup vs #%d ranked defense", rank))
	}

	switch diff := in.OppTurnoverDiff; {
	case diff <= -5:
		flags = append(flags, fmt.Sprintf("Opponent giveaway-prone with %d turnover differential", absInt(diff)))
	case diff <= -3:
		flags = append(flags, "Short field opportunities with turnover-prone opponent")
	}

	switch spread := in.Spread; {
	case in.IsFavorite && spread <= -7:
		flags = append(flags, fmt.Sprintf("Heavy %.1f-pt favorite (run-heavy 4th quarter)", math.Abs(spread)))
	case in.IsFavorite && spread <= -3.5:
		flags = append(flags, fmt.Sprintf("Favored by %.1f points (positive game script)", math.Abs(spread)))
	}

	switch ryoe := in.RyoePerAtt; {
	case ryoe >= 0.20:
		flags = append(flags, fmt.Sprintf("Elite efficiency at +%.2f rush yards over expected per carry", ryoe))
	case ryoe >= 0.15:
		flags = append(flags, fmt.Sprintf("Creating extra yardage at +%.2f RYOE per attempt", ryoe))
	}

	switch touches := in.TouchesPerGame; {
	case touches >= 22:
		flags = append(flags, fmt.Sprintf("True workhorse with %.1f touches per game", touches))
	case touches >= 20:
		flags = append(flags, fmt.Sprintf("High-volume back averaging %.1f touches/game", touches))
	}

	switch targets := in.RecTargets; {
	case targets >= 60:
		flags = append(flags, fmt.Sprintf("Dual-threat back with %d targets on the season", targets))
	case targets >= 40:
		flags = append(flags, fmt.Sprintf("Pass-catching upside with %d receiving targets", targets))
	}

	return flags
}

func passerFlags(in Inputs) []string {
	var flags []string

	switch total := in.GameTotal; {
	case total >= 52:
		flags = append(flags, fmt.Sprintf("Massive shootout potential with %.0f O/U", total))
	case total >= 50:
		flags = append(flags, fmt.Sprintf("High-scoring game expected (%.0f O/U)", total))
	case total >= 48:
		flags = append(flags, fmt.Sprintf("Elevated passing environment with %.0f point total", total))
	}

	switch rank := in.OpponentRank(); {
	case rank >= 28:
		flags = append(flags, fmt.Sprintf("Facing #%d ranked pass defense (allows %.0f YPG)", rank, in.OppPassYPG))
	case rank >= 23:
		flags = append(flags, fmt.Sprintf("Soft secondary ranked #%d in pass yards allowed", rank))
	}

	switch oline := in.OlineRankPct; {
	case oline >= 75:
		flags = append(flags, fmt.Sprintf("Elite pass protection from top-%d offensive line", int(100-oline)))
	case oline >= 70:
		flags = append(flags, "Clean pocket with strong O-line protection")
	}

	switch cpoe := in.Cpoe; {
	case cpoe >= 3.0:
		flags = append(flags, fmt.Sprintf("Elite accuracy at +%.1f completion %% above expectation", cpoe))
	case cpoe >= 2.5:
		flags = append(flags, fmt.Sprintf("Highly efficient with +%.1f CPOE", cpoe))
	}

	switch spread := in.Spread; {
	case in.IsUnderdog && spread >= 7:
		flags = append(flags, fmt.Sprintf("Underdog by %.1f points (pass-heavy trailing script)", spread))
	case in.IsUnderdog && spread >= 3.5:
		flags = append(flags, fmt.Sprintf("Expected to trail (%.1f-pt underdog)", spread))
	}

	return flags
}

// fallbackFlags lists the volume lines for a group in priority order,
// skipping any whose stat is missing.
func fallbackFlags(in Inputs, group string) []string {
	var out []string
	switch group {
	case GroupReceiver:
		if in.TargetsPerGame > 0 {
			out = append(out, fmt.Sprintf("Averages %.1f targets per game", in.TargetsPerGame))
		}
		if in.CatchRate > 0 {
			out = append(out, fmt.Sprintf("Reliable hands with %.0f%% catch rate", in.CatchRate))
		}
		if in.Adot > 0 {
			out = append(out, fmt.Sprintf("Average depth of target: %.1f yards downfield", in.Adot))
		}
	case GroupRusher:
		if in.RushAttPerGame > 0 {
			out = append(out, fmt.Sprintf("Sees %.1f carries per game", in.RushAttPerGame))
		}
		if in.YardsPerCarry > 0 {
			out = append(out, fmt.Sprintf("Averages %.1f yards per carry", in.YardsPerCarry))
		}
		if in.TouchesPerGame > 0 {
			out = append(out, fmt.Sprintf("Total touches: %.1f per game", in.TouchesPerGame))
		}
	case GroupPasser:
		if in.PassAttPerGame > 0 {
			out = append(out, fmt.Sprintf("Throws %.1f passes per game", in.PassAttPerGame))
		}
		if in.QBRating > 0 {
			out = append(out, fmt.Sprintf("QB rating of %.1f this season", in.QBRating))
		}
		if in.Cpoe != 0 {
			out = append(out, fmt.Sprintf("Completion percentage: %.1f%%", in.CompPct))
		}
	}
	return out
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
