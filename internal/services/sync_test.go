package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/models"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/providers"
	"github.com/stretchr/testify/mock"
)

// MockStatsProvider for testing
type MockStatsProvider struct {
	mock.Mock
}

func (m *MockStatsProvider) Teams(ctx context.Context) ([]providers.Team, error) {
	args := m.Called(ctx)
	teams, _ := args.Get(0).([]providers.Team)
	return teams, args.Error(1)
}

func (m *MockStatsProvider) ActivePlayers(ctx context.Context) ([]providers.Player, error) {
	args := m.Called(ctx)
	players, _ := args.Get(0).([]providers.Player)
	return players, args.Error(1)
}

func (m *MockStatsProvider) TeamSeasonStats(ctx context.Context, season int, teamIDs ...int) ([]providers.TeamSeasonStat, error) {
	args := m.Called(ctx, season, teamIDs)
	stats, _ := args.Get(0).([]providers.TeamSeasonStat)
	return stats, args.Error(1)
}

func (m *MockStatsProvider) Roster(ctx context.Context, teamID, season int) ([]providers.RosterSlot, error) {
	args := m.Called(ctx, teamID, season)
	slots, _ := args.Get(0).([]providers.RosterSlot)
	return slots, args.Error(1)
}

func (m *MockStatsProvider) SeasonStats(ctx context.Context, season int) ([]providers.SeasonStat, error) {
	args := m.Called(ctx, season)
	stats, _ := args.Get(0).([]providers.SeasonStat)
	return stats, args.Error(1)
}

func (m *MockStatsProvider) GameStats(ctx context.Context, season int, weeks ...int) ([]providers.GameStat, error) {
	args := m.Called(ctx, season, weeks)
	stats, _ := args.Get(0).([]providers.GameStat)
	return stats, args.Error(1)
}

func (m *MockStatsProvider) TeamGameStats(ctx context.Context, season int, weeks ...int) ([]providers.TeamGameStat, error) {
	args := m.Called(ctx, season, weeks)
	stats, _ := args.Get(0).([]providers.TeamGameStat)
	return stats, args.Error(1)
}

func (m *MockStatsProvider) Odds(ctx context.Context, gameIDs ...int) ([]providers.GameOdds, error) {
	args := m.Called(ctx, gameIDs)
	odds, _ := args.Get(0).([]providers.GameOdds)
	return odds, args.Error(1)
}

func (m *MockStatsProvider) Standings(ctx context.Context, season int) ([]providers.Standing, error) {
	args := m.Called(ctx, season)
	standings, _ := args.Get(0).([]providers.Standing)
	return standings, args.Error(1)
}

func (m *MockStatsProvider) Injuries(ctx context.Context, teamIDs ...int) ([]providers.Injury, error) {
	args := m.Called(ctx)
	injuries, _ := args.Get(0).([]providers.Injury)
	return injuries, args.Error(1)
}

func (m *MockStatsProvider) Games(ctx context.Context, season int, weeks ...int) ([]providers.Game, error) {
	args := m.Called(ctx, season, weeks)
	games, _ := args.Get(0).([]providers.Game)
	return games, args.Error(1)
}

func (m *MockStatsProvider) PlayerProps(ctx context.Context, gameID int, vendors ...string) ([]providers.PlayerProp, error) {
	args := m.Called(ctx, gameID)
	props, _ := args.Get(0).([]providers.PlayerProp)
	return props, args.Error(1)
}

const syncPropsJSON = `[
	{"id": 9001, "game_id": 103, "player_id": 12, "vendor": "DraftKings", "prop_type": "receiving_yards", "line_value": "57.5",
	 "market": {"type": "over_under", "over_odds": -110, "under_odds": -110}, "updated_at": "2025-09-19T12:00:00Z"},
	{"id": 9002, "game_id": 103, "player_id": 12, "vendor": "fanduel", "prop_type": "receiving_yards", "line_value": 80,
	 "market": {"type": "milestone", "odds": 250}, "updated_at": "2025-09-19T12:00:00Z"},
	{"id": "9003", "game_id": 103, "player_id": 31, "vendor": "caesars", "prop_type": "anytime_td", "line_value": null,
	 "market": {"type": "milestone", "odds": 130}, "updated_at": "2025-09-19T12:00:00Z"}
]`

const syncOddsJSON = `[
	{"id": 1, "game_id": 103, "vendor": "DraftKings", "spread_home_value": "-2.5", "total_value": "51.5",
	 "moneyline_home_odds": -135, "moneyline_away_odds": 115, "updated_at": "2025-09-20T12:00:00Z"},
	{"id": 2, "game_id": 103, "vendor": "DraftKings", "spread_home_value": "-1", "total_value": "50",
	 "updated_at": "2025-09-18T12:00:00Z"},
	{"id": 3, "game_id": 103, "vendor": "fanduel", "spread_home_value": "-3", "total_value": "53"}
]`

const syncTeamStatsJSON = `[
	{"team": {"id": 1}, "season": 2025, "season_type": 2, "games_played": 6, "total_points_per_game": 29,
	 "misc_turnover_differential": 5, "misc_red_zone_efficiency": "14-20", "opp_passing_yards_per_game": 205, "opp_rushing_yards_per_game": 98},
	{"team": {"id": 99}, "season": 2025, "season_type": 2, "games_played": 6}
]`

func (s *ServiceSuite) newSyncScheduler(provider StatsProvider, hub *WebSocketHub) *SyncScheduler {
	schedule := NewScheduleService(s.db, s.logger)
	smashSvc := NewSmashService(s.db, s.cache, hub, nil, s.logger, time.Minute)
	injuries := NewInjuryService(s.db, s.logger)
	return NewSyncScheduler(s.db, provider, NewFeatureService(s.db, s.logger), smashSvc, schedule, injuries, s.cache, hub, nil, s.logger, "@every 1h", testSeason)
}

// mockProvider serves a week 3 snapshot. propsErr fails every props fetch.
func (s *ServiceSuite) mockProvider(propsErr error) *MockStatsProvider {
	var propRows []providers.PlayerProp
	s.Require().NoError(json.Unmarshal([]byte(syncPropsJSON), &propRows))

	bills := providers.Team{ID: 1, Abbreviation: "buf", Location: "Buffalo", Name: "Bills", FullName: "Buffalo Bills", Conference: "AFC", Division: "EAST"}
	jets := providers.Team{ID: 4, Abbreviation: "NYJ", Location: "New York", Name: "Jets", Conference: "AFC", Division: "EAST"}

	var odds []providers.GameOdds
	s.Require().NoError(json.Unmarshal([]byte(syncOddsJSON), &odds))
	var teamStats []providers.TeamSeasonStat
	s.Require().NoError(json.Unmarshal([]byte(syncTeamStatsJSON), &teamStats))

	p := new(MockStatsProvider)
	p.On("Teams", mock.Anything).Return([]providers.Team{bills, jets}, nil)
	p.On("ActivePlayers", mock.Anything).Return([]providers.Player{
		{ID: 10, FirstName: "Josh", LastName: "Allen", PositionAbbr: "QB", JerseyNumber: "17", Team: &bills},
		{ID: 40, FirstName: "Ray", LastName: "Davis", PositionAbbr: "RB", Team: &bills},
		{ID: 41, FirstName: "Free", LastName: "Agent", PositionAbbr: "WR"},
	}, nil)
	p.On("TeamSeasonStats", mock.Anything, testSeason, []int{1, 2, 3, 4}).Return(teamStats, nil)
	p.On("Roster", mock.Anything, 1, testSeason).Return([]providers.RosterSlot{
		{Player: providers.Player{ID: 12}, Position: "WR", Depth: 1},
		{Player: providers.Player{ID: 40}, Position: "RB", Depth: 2},
		{Player: providers.Player{ID: 42, FirstName: "Ty", LastName: "Johnson", PositionAbbr: "RB", Team: &bills}, Position: "KR", Depth: 1},
	}, nil)
	p.On("Roster", mock.Anything, 2, testSeason).Return(nil, errors.New("502 bad gateway"))
	p.On("Roster", mock.Anything, mock.Anything, testSeason).Return(nil, nil)
	p.On("SeasonStats", mock.Anything, testSeason).Return([]providers.SeasonStat{
		{Player: providers.Player{ID: 12}, Season: testSeason, GamesPlayed: 6, ReceivingTargets: 42, Receptions: 33, ReceivingYards: 420},
		{Player: providers.Player{ID: 43, FirstName: "New", LastName: "Guy", PositionAbbr: "WR", Team: &jets}, Season: testSeason, GamesPlayed: 1, ReceivingTargets: 3},
		{Season: testSeason, GamesPlayed: 2},
	}, nil)
	p.On("GameStats", mock.Anything, testSeason, []int{1, 2}).Return([]providers.GameStat{
		{Player: providers.Player{ID: 12}, Team: &bills, Game: providers.GameRef{ID: 101, Season: testSeason, Week: 1}, ReceivingTargets: 8, Receptions: 6, ReceivingYards: 90},
		{Player: providers.Player{ID: 12}, Team: &bills, Game: providers.GameRef{ID: 104, Season: testSeason, Week: 2}, ReceivingTargets: 6, Receptions: 3, ReceivingYards: 40},
		{Player: providers.Player{ID: 12}},
	}, nil)
	p.On("TeamGameStats", mock.Anything, testSeason, []int{1, 2}).Return([]providers.TeamGameStat{
		{Team: bills, Game: providers.GameRef{ID: 101, Season: testSeason, Week: 1}, TotalYards: 415, RedZoneScores: 3, RedZoneAttempts: 4},
	}, nil)
	p.On("Odds", mock.Anything, []int{103}).Return(odds, nil)
	p.On("Standings", mock.Anything, testSeason).Return([]providers.Standing{
		{Team: bills, Season: testSeason, Wins: 5, Losses: 1, PointsFor: 170, PointsAgainst: 120, PointDifferential: 50, WinStreak: 4},
		{Team: providers.Team{}, Wins: 9},
	}, nil)
	p.On("Injuries", mock.Anything).Return([]providers.Injury{
		{Player: providers.Player{ID: 11, FirstName: "James", LastName: "Cook", PositionAbbr: "RB", Team: &bills}, Status: "Questionable", Comment: "Ankle", Date: "2025-09-18"},
		{Player: providers.Player{ID: 11, FirstName: "James", LastName: "Cook", PositionAbbr: "RB", Team: &bills}, Status: "Questionable", Comment: "Ankle", Date: "2025-09-18"},
		{Player: providers.Player{ID: 99, FirstName: "Garrett", LastName: "Wilson", PositionAbbr: "wr", Team: &jets}, Status: "Out", Date: "2025-09-17"},
		{Player: providers.Player{ID: 98, FirstName: "Sam", LastName: "Unknown", Position: "Linebacker", Team: &providers.Team{ID: 77}}, Status: "Doubtful", Date: "2025-09-17"},
		{Status: "Out", Date: "2025-09-17"},
	}, nil)
	p.On("Games", mock.Anything, testSeason, []int{3}).Return([]providers.Game{
		{ID: 103, Season: testSeason, Week: 3, Date: "2025-09-21T20:20:00Z", HomeTeam: providers.Team{ID: 3, Abbreviation: "KC"}, VisitorTeam: bills},
	}, nil)
	if propsErr != nil {
		p.On("PlayerProps", mock.Anything, 103).Return(nil, propsErr)
	} else {
		p.On("PlayerProps", mock.Anything, 103).Return(propRows, nil)
	}
	return p
}

func (s *ServiceSuite) TestSyncPullsProviderData() {
	s.seedSmashWeek()
	s.Require().NoError(s.cache.Set(s.ctx, StandingsCacheKey(testSeason), "stale", time.Hour))
	s.create(&models.Injury{PlayerID: 20, Date: "2025-09-01", Status: "Out"})

	provider := s.mockProvider(nil)
	result, err := s.newSyncScheduler(provider, nil).TriggerNow(s.ctx)
	s.Require().NoError(err)
	provider.AssertExpectations(s.T())

	s.Equal(testSeason, result.Season)
	s.Equal(3, result.Week)
	s.Equal(2, result.Teams)
	s.Equal(3, result.Players)
	s.Equal(1, result.Standings)
	s.Equal(1, result.TeamStats)
	s.Equal(3, result.Rosters)
	s.Equal(2, result.SeasonStats)
	s.Equal(2, result.GameStats)
	s.Equal(1, result.TeamGames)
	s.Equal(3, result.Injuries)
	s.Equal(1, result.Games)
	s.Equal(1, result.Lines)
	s.Equal(2, result.Props)
	s.Equal(5, result.Features)
	s.Equal(5, result.SmashRows)
	s.Equal(5, result.FeedSize)
	s.False(result.ProviderSkip)
	s.False(result.CompletedAt.IsZero())

	var buf models.Team
	s.Require().NoError(s.db.First(&buf, 1).Error)
	s.Equal("#00338D", buf.PrimaryColor)
	var jets models.Team
	s.Require().NoError(s.db.First(&jets, 4).Error)
	s.Equal("New York Jets", jets.Name)

	var standing models.TeamStanding
	s.Require().NoError(s.db.Where("team_id = ? AND season = ?", 1, testSeason).First(&standing).Error)
	s.Equal(5, standing.Wins)
	s.Equal(4, standing.WinStreak)

	var injuries []models.Injury
	s.Require().NoError(s.db.Order("player_id ASC").Find(&injuries).Error)
	s.Require().Len(injuries, 3)
	s.Equal([]int{11, 98, 99}, []int{injuries[0].PlayerID, injuries[1].PlayerID, injuries[2].PlayerID})

	var wilson, unknown models.Player
	s.Require().NoError(s.db.First(&wilson, 99).Error)
	s.Equal("WR", wilson.Position)
	s.Require().NotNil(wilson.TeamID)
	s.Equal(4, *wilson.TeamID)
	s.Require().NoError(s.db.First(&unknown, 98).Error)
	s.Nil(unknown.TeamID)

	// player refresh keeps the locally curated ESPN id
	var allen, davis, agent models.Player
	s.Require().NoError(s.db.First(&allen, 10).Error)
	s.Equal("17", allen.JerseyNumber)
	s.Equal("3918298", allen.EspnID)
	s.Require().NoError(s.db.First(&davis, 40).Error)
	s.Require().NotNil(davis.TeamID)
	s.Equal(1, *davis.TeamID)
	s.Require().NoError(s.db.First(&agent, 41).Error)
	s.Nil(agent.TeamID)

	var bufStats models.TeamSeasonStat
	s.Require().NoError(s.db.Where("team_id = ? AND season = ? AND season_type = ?", 1, testSeason, SeasonTypeRegular).First(&bufStats).Error)
	s.Equal(6, bufStats.GamesPlayed)
	s.Equal(5, bufStats.TurnoverDifferential)
	s.InDelta(205, bufStats.OppPassingYardsPerGame, 1e-9)

	var roster []models.RosterEntry
	s.Require().NoError(s.db.Where("team_id = ? AND season = ?", 1, testSeason).Order("player_id").Find(&roster).Error)
	s.Require().Len(roster, 3)
	s.Equal([]int{12, 40, 42}, []int{roster[0].PlayerID, roster[1].PlayerID, roster[2].PlayerID})
	s.Equal("KR", roster[2].Position)

	var shakirSeason models.PlayerSeasonStat
	s.Require().NoError(s.db.Where("player_id = ? AND season = ? AND postseason = ?", 12, testSeason, false).First(&shakirSeason).Error)
	s.Equal(420, shakirSeason.ReceivingYards)
	var newGuy models.Player
	s.Require().NoError(s.db.First(&newGuy, 43).Error)

	var logs []models.PlayerGameStat
	s.Require().NoError(s.db.Where("player_id = ?", 12).Order("week").Find(&logs).Error)
	s.Require().Len(logs, 2)
	s.Equal(90, logs[0].ReceivingYards)

	var teamGame models.TeamGameStat
	s.Require().NoError(s.db.Where("team_id = ? AND game_id = ?", 1, 101).First(&teamGame).Error)
	s.InDelta(415, teamGame.TotalYards, 1e-9)

	// the freshest DraftKings line lands on the scheduled row
	var lines []models.GameLine
	s.Require().NoError(s.db.Where("game_id = ?", "2025_03_BUF_KC").Find(&lines).Error)
	s.Require().Len(lines, 1)
	s.Require().NotNil(lines[0].SpreadLine)
	s.Equal("-2.5", *lines[0].SpreadLine)
	s.Require().NotNil(lines[0].TotalLine)
	s.InDelta(51.5, *lines[0].TotalLine, 1e-9)
	s.Equal("2025-09-21", lines[0].Gameday)

	// features come from the synced game logs
	feature := s.features(3)[12]
	s.InDelta(7, feature.TargetsPerGame, 1e-9)
	s.InDelta(130.0/210.0*100, feature.AirSharePct, 1e-9)
	s.LessOrEqual(feature.AirSharePct, 100.0)

	var warmed []map[string]interface{}
	s.Require().NoError(s.cache.Get(s.ctx, SmashFeedCacheKey(testSeason, 3, DefaultFeedLimit), &warmed))
	s.Len(warmed, 5)

	var props []models.PlayerProp
	s.Require().NoError(s.db.Where("game_id = ?", 103).Order("id ASC").Find(&props).Error)
	ids := make([]string, 0, len(props))
	for _, p := range props {
		ids = append(ids, p.ID)
	}
	s.Equal([]string{"9001", "9003", "dk-12", "dk-12-old", "fd-12"}, ids)
	s.Equal("draftkings", props[0].Vendor)

	// the fresh DraftKings posting reaches the smash row
	shakir := s.smashRows(3)[12]
	s.Require().NotNil(shakir.DKLine)
	s.InDelta(57.5, *shakir.DKLine, 1e-9)

	var cached string
	s.ErrorIs(s.cache.Get(s.ctx, StandingsCacheKey(testSeason), &cached), ErrCacheMiss)
}

func (s *ServiceSuite) TestSyncWithoutProviderOnlyMaterializes() {
	s.seedSmashWeek()

	result, err := s.newSyncScheduler(nil, nil).TriggerNow(s.ctx)
	s.Require().NoError(err)
	s.True(result.ProviderSkip)
	s.Equal(5, result.SmashRows)
	s.Zero(result.Teams)
}

func (s *ServiceSuite) TestSyncSkipsGamesWhosePropsFail() {
	provider := s.mockProvider(errors.New("503 from upstream"))

	result, err := s.newSyncScheduler(provider, nil).TriggerNow(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, result.Games)
	s.Zero(result.Props)
}

func (s *ServiceSuite) TestSyncFailureIsReported() {
	provider := new(MockStatsProvider)
	provider.On("Teams", mock.Anything).Return(nil, errors.New("401 unauthorized"))

	scheduler := s.newSyncScheduler(provider, nil)
	_, err := scheduler.TriggerNow(s.ctx)
	s.Require().Error(err)
	s.Contains(err.Error(), "fetch teams")

	status := scheduler.Status()
	s.False(status.Syncing)
	s.NotNil(status.LastRun)
	s.Contains(status.LastError, "401 unauthorized")
	s.Nil(status.LastResult)
}

func (s *ServiceSuite) TestSyncRejectsOverlap() {
	scheduler := s.newSyncScheduler(nil, nil)
	scheduler.syncing = true

	_, err := scheduler.TriggerNow(s.ctx)
	s.ErrorIs(err, ErrSyncInProgress)
}

func (s *ServiceSuite) TestSyncBroadcastsCompletion() {
	hub, client, stop := runTestHub(s.T(), TopicSync)
	defer stop()

	_, err := s.newSyncScheduler(nil, hub).TriggerNow(s.ctx)
	s.Require().NoError(err)

	msg := receiveMessage(s.T(), client)
	s.Equal("sync_completed", msg.Type)

	var result SyncResult
	s.Require().NoError(json.Unmarshal(msg.Data, &result))
	s.Equal(3, result.Week)
}

func (s *ServiceSuite) TestSchedulerLifecycle() {
	scheduler := s.newSyncScheduler(nil, nil)

	s.Require().NoError(scheduler.Start())
	s.Error(scheduler.Start())

	status := scheduler.Status()
	s.True(status.Scheduled)
	s.Equal("@every 1h", status.Schedule)
	s.Len(status.NextRuns, 1)

	scheduler.Stop()
	s.False(scheduler.Status().Scheduled)
	scheduler.Stop()
}

func (s *ServiceSuite) TestSchedulerRejectsBadSpec() {
	scheduler := s.newSyncScheduler(nil, nil)
	scheduler.spec = "every now and then"

	s.Error(scheduler.Start())
	s.False(scheduler.Status().Scheduled)
}
