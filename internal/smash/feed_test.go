package smash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spot(pos string, score float64) Spot {
	return Spot{Position: pos, SmashScore: score}
}

func scores(spots []Spot) []float64 {
	out := make([]float64, len(spots))
	for i, s := range spots {
		out[i] = s.SmashScore
	}
	return out
}

func TestNormalizeByPosition(t *testing.T) {
	spots := []Spot{
		spot("QB", 80), spot("QB", 40),
		spot("WR", 120), spot("WR", 60),
		spot("TE", 0),
		spot("RB", 33.3), spot("RB", 10),
	}

	NormalizeByPosition(spots)

	assert.Equal(t, []float64{100, 50, 100, 60, 0, 100, 30}, scores(spots))
}

func TestNormalizeByPosition_StaysInRange(t *testing.T) {
	spots := []Spot{spot("WR", -5), spot("WR", 250), spot("QB", 12.345)}
	NormalizeByPosition(spots)
	for _, s := range spots {
		assert.GreaterOrEqual(t, s.SmashScore, 0.0)
		assert.LessOrEqual(t, s.SmashScore, 100.0)
	}
}

func TestFeed_AppliesCapsAndSorts(t *testing.T) {
	spots := []Spot{
		spot("QB", 90), spot("QB", 80),
		spot("WR", 70), spot("WR", 95), spot("WR", 60),
		spot("K", 99),
	}

	out := Feed(spots, map[string]int{"QB": 1, "WR": 2})

	require.Len(t, out, 3)
	assert.Equal(t, []float64{95, 90, 70}, scores(out))
}

func TestFeed_DefaultCaps(t *testing.T) {
	var spots []Spot
	for i := 0; i < 40; i++ {
		spots = append(spots, spot("RB", float64(100-i)), spot("TE", float64(50-i)))
	}

	out := Feed(spots, nil)

	counts := map[string]int{}
	for _, s := range out {
		counts[s.Position]++
	}
	assert.Equal(t, 25, counts["RB"])
	assert.Equal(t, 15, counts["TE"])
	assert.Equal(t, 100.0, out[0].SmashScore)
}
