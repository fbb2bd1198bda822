package services

import (
	"testing"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/models"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func rowIDs(rows []PlayerRow) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.PlayerID
	}
	return ids
}

func TestSanitizeSearch(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Josh Allen", "Josh Allen"},
		{"  De'Von   Achane ", "De Von Achane"},
		{"a", ""},
		{"%_", ""},
		{"x;DROP TABLE", "x DROP TABLE"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeSearch(tt.in), tt.in)
	}
}

func TestMatchesPositionFilter(t *testing.T) {
	passer := models.PlayerSeasonStat{PassingYards: 100}
	assert.True(t, matchesPositionFilter("WR", "", passer))
	assert.True(t, matchesPositionFilter("QB", "QB", passer))
	assert.False(t, matchesPositionFilter("RB", "QB", passer))
	assert.True(t, matchesPositionFilter("UNK", "QB", passer))
	assert.False(t, matchesPositionFilter("UNK", "RB", passer))
	assert.False(t, matchesPositionFilter("UNK", "WR", passer))
}

func (s *ServiceSuite) TestLeaderboardOrdersByPositionYards() {
	svc := NewPlayerService(s.db, s.logger)

	rows, err := svc.List(s.ctx, PlayerFilter{Season: testSeason, Limit: 50})
	s.Require().NoError(err)
	// the linebacker never shows up
	s.Equal([]string{"30", "10", "20", "21", "11", "22", "31", "12"}, rowIDs(rows))

	allen := rows[1]
	s.Equal("Josh Allen", allen.PlayerName)
	s.Equal("BUF", allen.Team)
	s.Equal(1300, allen.PassingYards)
	s.InDelta(5.0, allen.AvgYardsPerRush, 1e-9)
	s.Require().NotNil(allen.PhotoURL)
	s.Contains(*allen.PhotoURL, "3918298")
}

func (s *ServiceSuite) TestLeaderboardPaging() {
	svc := NewPlayerService(s.db, s.logger)

	rows, err := svc.List(s.ctx, PlayerFilter{Season: testSeason, Limit: 3, Offset: 1})
	s.Require().NoError(err)
	s.Equal([]string{"10", "20", "21"}, rowIDs(rows))

	rows, err = svc.List(s.ctx, PlayerFilter{Season: testSeason, Limit: 3, Offset: 40})
	s.Require().NoError(err)
	s.Empty(rows)
}

func (s *ServiceSuite) TestLeaderboardFilters() {
	svc := NewPlayerService(s.db, s.logger)

	rows, err := svc.List(s.ctx, PlayerFilter{Season: testSeason, Position: "wr", Limit: 50})
	s.Require().NoError(err)
	s.Equal([]string{"21", "12"}, rowIDs(rows))

	rows, err = svc.List(s.ctx, PlayerFilter{Season: testSeason, Query: "josh allen", Limit: 50})
	s.Require().NoError(err)
	s.Equal([]string{"10"}, rowIDs(rows))

	rows, err = svc.List(s.ctx, PlayerFilter{Season: testSeason, Query: "HILL", Limit: 50})
	s.Require().NoError(err)
	s.Equal([]string{"21"}, rowIDs(rows))

	// one character is not a search
	rows, err = svc.List(s.ctx, PlayerFilter{Season: testSeason, Query: "k", Limit: 50})
	s.Require().NoError(err)
	s.Len(rows, 8)
}

func (s *ServiceSuite) TestTeamRosterList() {
	svc := NewPlayerService(s.db, s.logger)

	rows, err := svc.List(s.ctx, PlayerFilter{Season: testSeason, Team: "BUF", Limit: 50})
	s.Require().NoError(err)
	s.Equal([]string{"13", "10", "11", "12"}, rowIDs(rows))
	for _, r := range rows {
		s.Equal("BUF", r.Team)
		s.Zero(r.AvgYardsPerRush)
		s.Zero(r.AvgYardsPerCatch)
	}

	rows, err = svc.List(s.ctx, PlayerFilter{Season: testSeason, Team: "BUF", Position: "QB", Limit: 50})
	s.Require().NoError(err)
	s.Equal([]string{"10"}, rowIDs(rows))

	rows, err = svc.List(s.ctx, PlayerFilter{Season: testSeason, Team: "XXX", Limit: 50})
	s.Require().NoError(err)
	s.Empty(rows)
}

func (s *ServiceSuite) TestPlayerDetail() {
	s.create(&[]models.PlayerGameStat{
		{PlayerID: 10, GameID: 101, Season: testSeason, Week: 1, TeamID: intp(1), PassingAttempts: 33, PassingCompletions: 24, PassingYards: 280, PassingTouchdowns: 3},
		{PlayerID: 10, GameID: 103, Season: testSeason, Week: 3, TeamID: intp(1), PassingYards: 250},
	})
	s.create(&[]models.Injury{
		{PlayerID: 10, Date: "2025-09-10", Status: "Questionable", Comment: "Shoulder"},
		{PlayerID: 10, Date: "2025-09-17", Status: "Out", Comment: "Shoulder"},
	})

	svc := NewPlayerService(s.db, s.logger)
	detail, err := svc.Detail(s.ctx, 10, testSeason, false)
	s.Require().NoError(err)

	s.Equal("10", detail.Player.ID)
	s.Equal("Josh Allen", detail.Player.Name)
	s.Equal("BUF", detail.Player.Team)
	s.Equal("Buffalo Bills", detail.Player.TeamName)
	s.Require().NotNil(detail.SeasonStats)
	s.Equal(1300, detail.SeasonStats.PassingYards)

	s.Require().Len(detail.GameLogs, 2)
	wk1 := detail.GameLogs[0]
	s.Equal(1, wk1.Week)
	s.Equal("home", wk1.Location)
	s.Equal("MIA", wk1.Opponent)
	s.Equal(280, wk1.PassingYards)
	wk3 := detail.GameLogs[1]
	s.Equal("away", wk3.Location)
	s.Equal("KC", wk3.Opponent)
	s.Equal("KC", wk3.HomeTeam)

	s.Require().NotNil(detail.Injury)
	s.Equal("Out", detail.Injury.Status)
}

func (s *ServiceSuite) TestGameLogsSkipPostseasonUnlessAsked() {
	s.create(&models.Game{ID: 190, Season: testSeason, Week: 19, Postseason: true, HomeTeamID: 1, VisitorTeamID: 3})
	s.create(&[]models.PlayerGameStat{
		{PlayerID: 10, GameID: 101, Season: testSeason, Week: 1, TeamID: intp(1), PassingYards: 280},
		{PlayerID: 10, GameID: 190, Season: testSeason, Week: 19, TeamID: intp(1), PassingYards: 250},
	})

	svc := NewPlayerService(s.db, s.logger)

	logs, err := svc.GameLogs(s.ctx, 10, testSeason, false)
	s.Require().NoError(err)
	s.Len(logs, 1)

	logs, err = svc.GameLogs(s.ctx, 10, testSeason, true)
	s.Require().NoError(err)
	s.Require().Len(logs, 2)
	s.True(logs[1].IsPostseason)
}

func (s *ServiceSuite) TestPlayerDetailWithoutStats() {
	svc := NewPlayerService(s.db, s.logger)

	detail, err := svc.Detail(s.ctx, 13, 2019, false)
	s.Require().NoError(err)
	s.Nil(detail.SeasonStats)
	s.NotNil(detail.GameLogs)
	s.Empty(detail.GameLogs)
	s.Nil(detail.Injury)
}

func (s *ServiceSuite) TestPlayerDetailNotFound() {
	svc := NewPlayerService(s.db, s.logger)

	_, err := svc.Detail(s.ctx, 999, testSeason, false)
	s.ErrorIs(err, utils.ErrNotFound)
}

func (s *ServiceSuite) TestComparePlayers() {
	svc := NewPlayerService(s.db, s.logger)

	cmp, err := svc.Compare(s.ctx, []int{10, 30}, testSeason)
	s.Require().NoError(err)
	s.Require().Len(cmp.Players, 2)
	s.Equal("10", cmp.Players[0].PlayerID)
	s.InDelta(68.8, cmp.Players[0].Stats["completion_pct"], 1e-9)

	s.Equal("30", cmp.Leaders["passing_yards"])
	s.Equal("10", cmp.Leaders["interceptions"])
	s.Equal("10", cmp.Leaders["rushing_yards"])
	s.NotContains(cmp.Leaders, "receiving_yards")
}

func (s *ServiceSuite) TestCompareValidation() {
	svc := NewPlayerService(s.db, s.logger)

	_, err := svc.Compare(s.ctx, []int{10}, testSeason)
	s.ErrorIs(err, utils.ErrInvalidInput)

	_, err = svc.Compare(s.ctx, []int{10, 11, 12, 20, 21}, testSeason)
	s.ErrorIs(err, utils.ErrInvalidInput)

	_, err = svc.Compare(s.ctx, []int{10, 999}, testSeason)
	s.ErrorIs(err, utils.ErrNotFound)
}
