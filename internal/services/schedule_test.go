package services

import (
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/models"
)

func (s *ServiceSuite) TestLatestWeek() {
	svc := NewScheduleService(s.db, s.logger)

	week, err := svc.LatestWeek(s.ctx, testSeason)
	s.Require().NoError(err)
	s.Equal(3, week)

	week, err = svc.LatestWeek(s.ctx, 2030)
	s.Require().NoError(err)
	s.Equal(1, week)
}

func (s *ServiceSuite) TestWeekKeepsLatestPosting() {
	svc := NewScheduleService(s.db, s.logger)

	games, err := svc.Week(s.ctx, testSeason, 1)
	s.Require().NoError(err)
	s.Require().Len(games, 1)

	g := games[0]
	s.Equal("2025_01_MIA_BUF", g.GameID)
	s.Equal("Buffalo Bills", g.HomeName)
	s.Equal("Miami Dolphins", g.AwayName)
	s.Equal("#00338D", g.HomeColor)
	s.Equal("#008E97", g.AwayColor)
	s.Require().NotNil(g.TotalLine)
	s.InDelta(48.5, *g.TotalLine, 1e-9)
	s.Nil(g.Conference)
}

func (s *ServiceSuite) TestPlayoffsTagConference() {
	updated := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	s.create(&[]models.GameLine{
		{GameID: "2025_19_MIA_BUF", Season: testSeason, Week: 19, GameType: "WC", Gameday: "2026-01-11", HomeTeam: "BUF", AwayTeam: "MIA", UpdatedAt: updated},
		{GameID: "2025_22_KC_XYZ", Season: testSeason, Week: 22, GameType: "SB", Gameday: "2026-02-08", HomeTeam: "XYZ", AwayTeam: "KC", UpdatedAt: updated},
	})

	svc := NewScheduleService(s.db, s.logger)
	games, err := svc.Playoffs(s.ctx, testSeason)
	s.Require().NoError(err)
	s.Require().Len(games, 2)

	s.Require().NotNil(games[0].Conference)
	s.Equal("AFC", *games[0].Conference)
	s.Require().NotNil(games[1].Conference)
	s.Equal("SB", *games[1].Conference)
	// unknown teams fall back to their abbreviation
	s.Equal("XYZ", games[1].HomeName)
	s.Equal("Kansas City Chiefs", games[1].AwayName)
}

func (s *ServiceSuite) TestMatchupHistory() {
	svc := NewScheduleService(s.db, s.logger)

	lines, err := svc.MatchupHistory(s.ctx, "buf", "MIA", 5)
	s.Require().NoError(err)
	s.Require().Len(lines, 2)
	s.Equal("2025_01_MIA_BUF", lines[0].GameID)
	s.Equal("2024_10_BUF_MIA", lines[1].GameID)

	lines, err = svc.MatchupHistory(s.ctx, "MIA", "BUF", 1)
	s.Require().NoError(err)
	s.Require().Len(lines, 1)
	s.Equal("2025_01_MIA_BUF", lines[0].GameID)

	lines, err = svc.MatchupHistory(s.ctx, "BUF", "SEA", 5)
	s.Require().NoError(err)
	s.Empty(lines)
}

func (s *ServiceSuite) TestTeamSchedule() {
	svc := NewScheduleService(s.db, s.logger)

	games, err := svc.TeamSchedule(s.ctx, "buf", testSeason)
	s.Require().NoError(err)
	s.Require().Len(games, 2)

	home := games[0]
	s.Equal(1, home.Week)
	s.True(home.IsHome)
	s.Equal("MIA", home.Opponent)
	s.Require().NotNil(home.Result)
	s.Equal("W", *home.Result)
	s.Require().NotNil(home.Score)
	s.Equal("31-20", *home.Score)
	s.Require().NotNil(home.ATSResult)
	s.Equal(ATSWin, *home.ATSResult)
	s.Require().NotNil(home.Spread)
	s.InDelta(-6.5, *home.Spread, 1e-9)

	road := games[1]
	s.Equal(3, road.Week)
	s.False(road.IsHome)
	s.Equal("KC", road.Opponent)
	s.Nil(road.Result)
	s.Nil(road.Score)
	s.Nil(road.ATSResult)
	s.Require().NotNil(road.Spread)
	s.InDelta(0, *road.Spread, 1e-9)
}

func (s *ServiceSuite) TestTeamScheduleRoadGameFlipsGrades() {
	svc := NewScheduleService(s.db, s.logger)

	games, err := svc.TeamSchedule(s.ctx, "KC", testSeason)
	s.Require().NoError(err)
	s.Require().Len(games, 2)

	g := games[0]
	s.Equal("MIA", g.Opponent)
	s.Equal("L", *g.Result)
	s.Equal("21-24", *g.Score)
	s.Equal(ATSLoss, *g.ATSResult)
	s.InDelta(-3, *g.Spread, 1e-9)
}
