package props

import (
	"testing"
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

var base = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

func prop(player int, propType, market, vendor string, line *float64, minutes int) models.PlayerProp {
	return models.PlayerProp{
		PlayerID:   player,
		PropType:   propType,
		MarketType: market,
		Vendor:     vendor,
		LineValue:  line,
		CreatedAt:  base.Add(time.Duration(minutes) * time.Minute),
	}
}

func TestShouldKeep(t *testing.T) {
	assert.True(t, ShouldKeep(models.MarketOverUnder, "receiving_yards"))
	assert.True(t, ShouldKeep(models.MarketMilestone, models.PropAnytimeTD))
	assert.False(t, ShouldKeep(models.MarketMilestone, "passing_yards"))
	assert.False(t, ShouldKeep("spread", "anytime_td"))
}

func TestPropTypeFor(t *testing.T) {
	assert.Equal(t, "passing_yards", PropTypeFor("QB"))
	assert.Equal(t, "rushing_yards", PropTypeFor("hb"))
	assert.Equal(t, "receiving_yards", PropTypeFor("TE"))
	assert.Equal(t, "", PropTypeFor("K"))
}

func TestLatestByVendor(t *testing.T) {
	rows := []models.PlayerProp{
		prop(1, "receiving_yards", models.MarketOverUnder, "draftkings", f(60.5), 0),
		prop(1, "receiving_yards", models.MarketOverUnder, "fanduel", f(61.5), 5),
		prop(1, "receiving_yards", models.MarketOverUnder, "draftkings", f(64.5), 30),
		prop(1, "receiving_yards", models.MarketOverUnder, "draftkings", f(62.5), 10),
	}

	got := LatestByVendor(rows)

	require.Len(t, got, 2)
	assert.Equal(t, "draftkings", got[0].Vendor)
	assert.Equal(t, 64.5, *got[0].LineValue)
	assert.Equal(t, "fanduel", got[1].Vendor)
}

func TestDKLine(t *testing.T) {
	rows := []models.PlayerProp{
		prop(7, "rushing_yards", models.MarketOverUnder, "draftkings", f(55.5), 0),
		prop(7, "rushing_yards", models.MarketOverUnder, "draftkings", f(58.5), 20),
		prop(7, "rushing_yards", models.MarketOverUnder, "fanduel", f(70.5), 60),
		prop(7, "receiving_yards", models.MarketOverUnder, "draftkings", f(20.5), 90),
		prop(8, "rushing_yards", models.MarketOverUnder, "draftkings", f(0), 0),
	}

	line := DKLine(rows, 7, "RB")
	require.NotNil(t, line)
	assert.Equal(t, 58.5, *line)

	assert.Nil(t, DKLine(rows, 8, "RB"), "zero line is treated as missing")
	assert.Nil(t, DKLine(rows, 7, "QB"))
	assert.Nil(t, DKLine(rows, 7, "K"))
}

func TestBestLines_AnytimeTD(t *testing.T) {
	players := map[int]models.Player{
		1: {ID: 1, FirstName: "Ja'Marr", LastName: "Chase", Position: "WR"},
		2: {ID: 2, FirstName: "Derrick", LastName: "Henry", Position: "RB"},
	}

	a := prop(1, models.PropAnytimeTD, models.MarketMilestone, "draftkings", f(0.5), 0)
	a.MilestoneOdds = f(120)
	b := prop(1, models.PropAnytimeTD, models.MarketMilestone, "fanduel", nil, 0)
	b.MilestoneOdds = f(135)
	alt := prop(1, models.PropAnytimeTD, models.MarketMilestone, "fanduel", f(2), 0)
	alt.MilestoneOdds = f(900)
	c := prop(2, models.PropAnytimeTD, models.MarketMilestone, "draftkings", f(0.5), 0)
	c.MilestoneOdds = f(-150)

	board := BestLines([]models.PlayerProp{a, b, alt, c}, players)

	require.Len(t, board.AnytimeTD, 2)
	assert.Empty(t, board.OverUnder)

	assert.Equal(t, "Derrick Henry", board.AnytimeTD[0].PlayerName)
	assert.Equal(t, -150.0, *board.AnytimeTD[0].BestOdds)

	chase := board.AnytimeTD[1]
	assert.Equal(t, 135.0, *chase.BestOdds)
	assert.Equal(t, "fanduel", chase.BestVendor)
	require.Len(t, chase.AllVendors, 2)
	assert.Equal(t, "fanduel", chase.AllVendors[0].Vendor)
	assert.Equal(t, "draftkings", chase.AllVendors[1].Vendor)
}

func TestBestLines_OverUnderUsesConsensusLine(t *testing.T) {
	players := map[int]models.Player{
		3: {ID: 3, FirstName: "Josh", LastName: "Allen", Position: "QB"},
		4: {ID: 4, FirstName: "Aaron", LastName: "Jones", Position: "RB"},
	}

	mk := func(vendor string, line, over, under float64) models.PlayerProp {
		p := prop(3, "passing_yards", models.MarketOverUnder, vendor, f(line), 0)
		p.OverOdds, p.UnderOdds = f(over), f(under)
		return p
	}
	rows := []models.PlayerProp{
		mk("draftkings", 249.5, 270, -350),
		mk("fanduel", 274.5, -110, -110),
		mk("betmgm", 274.5, -105, -120),
		mk("caesars", 274.5, -115, -102),
	}
	rush := prop(4, "rushing_yards", models.MarketOverUnder, "draftkings", f(45.5), 0)
	rush.OverOdds, rush.UnderOdds = f(-110), f(-110)
	rows = append(rows, rush)

	board := BestLines(rows, players)

	require.Len(t, board.OverUnder, 2)
	qb := board.OverUnder[0]
	assert.Equal(t, "passing_yards", qb.PropType)
	assert.Equal(t, 274.5, qb.LineValue)
	assert.Equal(t, -105.0, *qb.BestOverOdds)
	assert.Equal(t, "betmgm", qb.BestOverVendor)
	assert.Equal(t, -102.0, *qb.BestUnderOdds)
	assert.Equal(t, "caesars", qb.BestUnderVendor)
	assert.Len(t, qb.AllVendors, 3)

	assert.Equal(t, "rushing_yards", board.OverUnder[1].PropType)
}

func TestBestLines_Empty(t *testing.T) {
	board := BestLines(nil, nil)
	assert.NotNil(t, board.AnytimeTD)
	assert.NotNil(t, board.OverUnder)
}
