package services

import (
	"encoding/json"
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/models"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/smash"
)

// seedSmashWeek loads week 3 features. BUF visits KC, so MIA's receiver has
// no game and the linebacker has no model.
func (s *ServiceSuite) seedSmashWeek() {
	s.create(&[]models.SmashFeature{
		{Season: testSeason, Week: 3, PlayerID: 10, Position: "QB", Team: "BUF", Cpoe: 5, Aggressiveness: 10, OlineRankPct: 60, PassAttPerGame: 34, QBRating: 104.2, CompPct: 68.8},
		{Season: testSeason, Week: 3, PlayerID: 30, Position: "QB", Team: "KC", Cpoe: 2, Aggressiveness: 8, OlineRankPct: 80, PassAttPerGame: 36, QBRating: 98.1, CompPct: 66.1},
		{Season: testSeason, Week: 3, PlayerID: 11, Position: "HB", Team: "BUF", RyoePerAtt: 0.4, RushAttPerGame: 16, YardsPerCarry: 5, TouchesPerGame: 18, RecTargets: 12},
		{Season: testSeason, Week: 3, PlayerID: 12, Position: "WR", Team: "BUF", AirSharePct: 25, Adot: 8, Separation: 3, CatchRate: 70, TargetsPerGame: 7, QBCpoe: 5},
		{Season: testSeason, Week: 3, PlayerID: 31, Position: "TE", Team: "KC", AirSharePct: 20, Adot: 7, Separation: 2.5, CatchRate: 80, TargetsPerGame: 8, QBCpoe: 2},
		{Season: testSeason, Week: 3, PlayerID: 21, Position: "WR", Team: "MIA", AirSharePct: 35, Adot: 12, Separation: 3.5, CatchRate: 65, TargetsPerGame: 9},
		{Season: testSeason, Week: 3, PlayerID: 13, Position: "LB", Team: "BUF"},
	})
	s.create(&[]models.PlayerProp{
		{ID: "dk-12-old", GameID: 103, PlayerID: 12, Vendor: models.VendorDraftKings, PropType: "receiving_yards", MarketType: models.MarketOverUnder, LineValue: f64p(49.5), CreatedAt: time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)},
		{ID: "dk-12", GameID: 103, PlayerID: 12, Vendor: models.VendorDraftKings, PropType: "receiving_yards", MarketType: models.MarketOverUnder, LineValue: f64p(55.5), CreatedAt: time.Date(2025, 9, 18, 0, 0, 0, 0, time.UTC)},
		{ID: "fd-12", GameID: 103, PlayerID: 12, Vendor: "fanduel", PropType: "receiving_yards", MarketType: models.MarketOverUnder, LineValue: f64p(60.5), CreatedAt: time.Date(2025, 9, 19, 0, 0, 0, 0, time.UTC)},
	})
}

func (s *ServiceSuite) smashService() *SmashService {
	return NewSmashService(s.db, s.cache, nil, nil, s.logger, time.Minute)
}

func (s *ServiceSuite) smashRows(week int) map[int]models.SmashScore {
	var rows []models.SmashScore
	s.Require().NoError(s.db.Where("season = ? AND week = ?", testSeason, week).Find(&rows).Error)
	out := make(map[int]models.SmashScore, len(rows))
	for _, r := range rows {
		out[r.PlayerID] = r
	}
	return out
}

func (s *ServiceSuite) TestMaterializeScoresWeek() {
	s.seedSmashWeek()

	n, err := s.smashService().Materialize(s.ctx, testSeason, 3)
	s.Require().NoError(err)
	s.Equal(5, n)

	rows := s.smashRows(3)
	s.Require().Len(rows, 5)
	s.NotContains(rows, 21)
	s.NotContains(rows, 13)

	allen := rows[10]
	s.Equal("Josh Allen", allen.PlayerName)
	s.Equal("BUF", allen.Team)
	s.Equal("KC", allen.Opponent)
	s.InDelta(52.5, allen.GameTotal, 1e-9)
	s.InDelta(0, allen.Spread, 1e-9)
	// KC allows the middle pass yardage of the three defenses
	s.InDelta(50, allen.OppDefRankPct, 1e-9)
	s.Equal(16, allen.OpponentRank)
	s.InDelta(49, allen.SmashScore, 1e-6)
	s.Len(allen.MatchupFlags, 3)
	s.NotEmpty(allen.Stat1)

	var raw map[string]float64
	s.Require().NoError(json.Unmarshal(allen.RawStats, &raw))
	s.InDelta(49, raw["smash_score"], 1e-6)
	s.InDelta(10, raw[smash.PassFunnelScore], 1e-6)
	s.InDelta(52.5, raw["game_total"], 1e-9)

	mahomes := rows[30]
	s.Equal("BUF", mahomes.Opponent)
	s.Equal(1, mahomes.OpponentRank)
	s.InDelta(12, mahomes.SmashScore, 1e-6)

	cook := rows[11]
	s.Equal("RB", cook.Position)
	s.InDelta(10, cook.SmashScore, 1e-6)

	shakir := rows[12]
	s.InDelta(65, shakir.SmashScore, 1e-6)
	s.Require().NotNil(shakir.DKLine)
	s.InDelta(55.5, *shakir.DKLine, 1e-9)

	kelce := rows[31]
	s.InDelta(25, kelce.SmashScore, 1e-6)
	s.Nil(kelce.DKLine)
}

func (s *ServiceSuite) TestMaterializeReplacesWeek() {
	s.seedSmashWeek()
	svc := s.smashService()

	_, err := svc.Materialize(s.ctx, testSeason, 3)
	s.Require().NoError(err)

	s.Require().NoError(s.db.Where("player_id = ?", 31).Delete(&models.SmashFeature{}).Error)
	n, err := svc.Materialize(s.ctx, testSeason, 3)
	s.Require().NoError(err)
	s.Equal(4, n)
	s.Len(s.smashRows(3), 4)
}

func (s *ServiceSuite) TestMaterializeEmptyWeek() {
	n, err := s.smashService().Materialize(s.ctx, testSeason, 9)
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *ServiceSuite) TestFeedMaterializesOnDemand() {
	s.seedSmashWeek()

	spots, err := s.smashService().Feed(s.ctx, testSeason, 3, 10)
	s.Require().NoError(err)
	s.Require().Len(spots, 5)
	s.Len(s.smashRows(3), 5)

	// every position's best spot reads 100; the weaker passer sorts last
	for _, sp := range spots[:4] {
		s.InDelta(100, sp.SmashScore, 1e-9, sp.PlayerName)
	}
	last := spots[4]
	s.Equal("30", last.PlayerID)
	s.Less(last.SmashScore, 100.0)
	s.Greater(last.SmashScore, 0.0)

	for _, sp := range spots {
		s.Len(sp.MatchupFlags, 3)
		s.GreaterOrEqual(sp.OpponentRank, 1)
		s.LessOrEqual(sp.OpponentRank, 32)
		s.NotEmpty(sp.RawStats)
	}

	byID := map[string]smash.Spot{}
	for _, sp := range spots {
		byID[sp.PlayerID] = sp
	}
	s.Require().NotNil(byID["12"].DKLine)
	s.InDelta(55.5, *byID["12"].DKLine, 1e-9)
	s.Nil(byID["31"].DKLine)
	s.Require().NotNil(byID["10"].PhotoURL)
}

func (s *ServiceSuite) TestFeedCacheInvalidatedByMaterialize() {
	s.seedSmashWeek()
	svc := s.smashService()

	spots, err := svc.Feed(s.ctx, testSeason, 3, 10)
	s.Require().NoError(err)
	s.Len(spots, 5)

	s.Require().NoError(s.db.Where("player_id = ?", 31).Delete(&models.SmashFeature{}).Error)
	_, err = svc.Materialize(s.ctx, testSeason, 3)
	s.Require().NoError(err)

	spots, err = svc.Feed(s.ctx, testSeason, 3, 10)
	s.Require().NoError(err)
	s.Len(spots, 4)
}

func (s *ServiceSuite) TestFeedBroadcastsMaterialization() {
	s.seedSmashWeek()

	hub, client, stop := runTestHub(s.T(), TopicSmashFeed)
	defer stop()

	svc := NewSmashService(s.db, s.cache, hub, nil, s.logger, time.Minute)
	_, err := svc.Materialize(s.ctx, testSeason, 3)
	s.Require().NoError(err)

	msg := receiveMessage(s.T(), client)
	s.Equal("smash_feed_updated", msg.Type)
	s.Equal(TopicSmashFeed, msg.Topic)

	var data map[string]int
	s.Require().NoError(json.Unmarshal(msg.Data, &data))
	s.Equal(map[string]int{"season": testSeason, "week": 3, "rows": 5}, data)
}
