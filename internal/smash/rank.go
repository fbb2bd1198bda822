package smash

import (
	"math"
	"sort"
)

// DefaultDefensePct stands in for a missing opponent percentile: a league
// average defense.
const DefaultDefensePct = 50.0

// PercentRank mirrors SQL PERCENT_RANK(): (rank-1)/(n-1) where tied values
// share the lowest rank. A single value ranks 0.
func PercentRank(values []float64) []float64 {
	out := make([]float64, len(values))
	n := len(values)
	if n <= 1 {
		return out
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	for i, v := range values {
		below := sort.SearchFloat64s(sorted, v)
		out[i] = float64(below) / float64(n-1)
	}
	return out
}

// PercentileToRank maps a 0-100 defense percentile onto a 1-32 league rank.
// A higher percentile means more yards allowed, so rank 32 is the softest
// defense.
func PercentileToRank(pct float64) int {
	rank := int(math.RoundToEven(1 + (pct/100)*31))
	if rank < 1 {
		return 1
	}
	if rank > 32 {
		return 32
	}
	return rank
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
