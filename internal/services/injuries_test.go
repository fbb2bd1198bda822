package services

import (
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/models"
)

func (s *ServiceSuite) seedInjuries() {
	s.create(&[]models.Injury{
		{PlayerID: 11, Date: "2025-09-18", Status: "Questionable", Comment: "Ankle"},
		{PlayerID: 21, Date: "2025-09-17", Status: "Out", Comment: "Hamstring"},
		{PlayerID: 31, Date: "2025-09-16", Status: "out", Comment: "Knee"},
	})
}

func (s *ServiceSuite) TestInjuryList() {
	s.seedInjuries()
	svc := NewInjuryService(s.db, s.logger)

	rows, err := svc.List(s.ctx, "", "")
	s.Require().NoError(err)
	s.Require().Len(rows, 3)
	s.Equal("11", rows[0].PlayerID)
	s.Equal("James Cook", rows[0].PlayerName)
	s.Equal("BUF", rows[0].Team)
	s.Equal("RB", rows[0].Position)
	s.Equal("Ankle", rows[0].Comment)

	rows, err = svc.List(s.ctx, "mia", "")
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal("Tyreek Hill", rows[0].PlayerName)

	rows, err = svc.List(s.ctx, "", "OUT")
	s.Require().NoError(err)
	s.Len(rows, 2)

	rows, err = svc.List(s.ctx, "BUF", "Out")
	s.Require().NoError(err)
	s.Empty(rows)
}

func (s *ServiceSuite) TestInjuryReplace() {
	s.seedInjuries()
	svc := NewInjuryService(s.db, s.logger)

	update := []models.Injury{{PlayerID: 11, Date: "2025-09-18", Status: "Out", Comment: "Ankle", UpdatedAt: time.Now()}}

	s.Require().NoError(svc.Replace(s.ctx, update, false))
	rows, err := svc.List(s.ctx, "", "")
	s.Require().NoError(err)
	s.Len(rows, 3)
	s.Equal("Out", rows[0].Status)

	s.Require().NoError(svc.Replace(s.ctx, update, true))
	rows, err = svc.List(s.ctx, "", "")
	s.Require().NoError(err)
	s.Len(rows, 1)

	s.Require().NoError(svc.Replace(s.ctx, nil, true))
	rows, err = svc.List(s.ctx, "", "")
	s.Require().NoError(err)
	s.Empty(rows)
}

func (s *ServiceSuite) TestOptions() {
	svc := NewOptionsService(s.db, s.cache, s.logger, time.Minute)

	opts, err := svc.Options(s.ctx)
	s.Require().NoError(err)
	s.Equal([]int{testSeason}, opts.Seasons)
	s.Equal([]int{1, 2, 3}, opts.Weeks)
	s.Equal([]string{"BUF", "KC", "MIA"}, opts.Teams)
	s.Equal(SkillPositions, opts.Positions)

	summary, err := svc.Summary(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(3, summary.Games)
	s.EqualValues(9, summary.Players)
	s.EqualValues(3, summary.Teams)
	s.Equal([]int{testSeason}, summary.Seasons)
}

func (s *ServiceSuite) TestOptionsEmptyDatabase() {
	svc := NewOptionsService(newTestDB(s.T()), nil, s.logger, time.Minute)

	opts, err := svc.Options(s.ctx)
	s.Require().NoError(err)
	s.NotNil(opts.Seasons)
	s.Empty(opts.Seasons)
	s.NotNil(opts.Teams)
	s.Empty(opts.Teams)
}
