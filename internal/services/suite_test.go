package services

import (
	"context"
	"testing"
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/models"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/database"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// MockCacheService for testing
type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockCacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheService) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockCacheService) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

const testSeason = 2025

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.NewInMemory()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	t.Cleanup(func() { db.Close() })
	return db
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func intp(v int) *int { return &v }

func f64p(v float64) *float64 { return &v }

func strp(v string) *string { return &v }

// ServiceSuite seeds a small league: two AFC East teams and one AFC West
// team with players, standings, stats and lines.
type ServiceSuite struct {
	suite.Suite
	db     *database.DB
	ctx    context.Context
	logger *logrus.Logger
	cache  *CacheService
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.ctx = context.Background()
	s.logger = quietLogger()
	s.cache = NewMemoryCache()
	s.seed()
}

func (s *ServiceSuite) create(value interface{}) {
	s.Require().NoError(s.db.Create(value).Error)
}

func (s *ServiceSuite) seed() {
	s.create(&[]models.Team{
		{ID: 1, Abbreviation: "BUF", Name: "Buffalo Bills", Conference: "AFC", Division: "EAST", PrimaryColor: "#00338D", SecondaryColor: "#C60C30"},
		{ID: 2, Abbreviation: "MIA", Name: "Miami Dolphins", Conference: "AFC", Division: "EAST", PrimaryColor: "#008E97", SecondaryColor: "#FC4C02"},
		{ID: 3, Abbreviation: "KC", Name: "Kansas City Chiefs", Conference: "AFC", Division: "WEST", PrimaryColor: "#E31837", SecondaryColor: "#FFB81C"},
	})

	s.create(&[]models.Player{
		{ID: 10, FirstName: "Josh", LastName: "Allen", Position: "QB", TeamID: intp(1), EspnID: "3918298"},
		{ID: 11, FirstName: "James", LastName: "Cook", Position: "RB", TeamID: intp(1)},
		{ID: 12, FirstName: "Khalil", LastName: "Shakir", Position: "WR", TeamID: intp(1)},
		{ID: 13, FirstName: "Matt", LastName: "Milano", Position: "LB", TeamID: intp(1)},
		{ID: 20, FirstName: "Tua", LastName: "Tagovailoa", Position: "QB", TeamID: intp(2)},
		{ID: 21, FirstName: "Tyreek", LastName: "Hill", Position: "WR", TeamID: intp(2)},
		{ID: 22, FirstName: "De'Von", LastName: "Achane", Position: "RB", TeamID: intp(2)},
		{ID: 30, FirstName: "Patrick", LastName: "Mahomes", Position: "QB", TeamID: intp(3)},
		{ID: 31, FirstName: "Travis", LastName: "Kelce", Position: "TE", TeamID: intp(3)},
	})

	s.create(&[]models.PlayerSeasonStat{
		{PlayerID: 10, Season: testSeason, GamesPlayed: 5, PassingAttempts: 160, PassingCompletions: 110, PassingYards: 1300, PassingTouchdowns: 10, PassingInterceptions: 2, PassingCompletionPct: 68.75, RushingAttempts: 30, RushingYards: 150, RushingTouchdowns: 3},
		{PlayerID: 11, Season: testSeason, GamesPlayed: 5, RushingAttempts: 80, RushingYards: 400, RushingTouchdowns: 4, ReceivingTargets: 12, Receptions: 10, ReceivingYards: 80},
		{PlayerID: 12, Season: testSeason, GamesPlayed: 5, ReceivingTargets: 35, Receptions: 28, ReceivingYards: 350, ReceivingTouchdowns: 2},
		{PlayerID: 13, Season: testSeason, GamesPlayed: 5, TotalTackles: 40, DefensiveSacks: 2, DefensiveInterceptions: 1},
		{PlayerID: 20, Season: testSeason, GamesPlayed: 5, PassingAttempts: 170, PassingYards: 1200, PassingTouchdowns: 7, PassingInterceptions: 5},
		{PlayerID: 21, Season: testSeason, GamesPlayed: 5, ReceivingTargets: 45, Receptions: 30, ReceivingYards: 500, ReceivingTouchdowns: 3},
		{PlayerID: 22, Season: testSeason, GamesPlayed: 5, RushingAttempts: 60, RushingYards: 380, RushingTouchdowns: 2},
		{PlayerID: 30, Season: testSeason, GamesPlayed: 5, PassingAttempts: 180, PassingYards: 1400, PassingTouchdowns: 11, PassingInterceptions: 3},
		{PlayerID: 31, Season: testSeason, GamesPlayed: 5, ReceivingTargets: 40, Receptions: 33, ReceivingYards: 360, ReceivingTouchdowns: 2},
		{PlayerID: 10, Season: testSeason, Postseason: true, GamesPlayed: 1, PassingYards: 250},
	})

	s.create(&[]models.TeamStanding{
		{TeamID: 1, Season: testSeason, Wins: 4, Losses: 1, PointsFor: 140, PointsAgainst: 100, PointDifferential: 40, PlayoffSeed: intp(2), WinStreak: 3, ConferenceRecord: "3-1", DivisionRecord: "1-0"},
		{TeamID: 2, Season: testSeason, Wins: 1, Losses: 3, Ties: 1, PointsFor: 90, PointsAgainst: 120, PointDifferential: -30, ConferenceRecord: "1-2", DivisionRecord: "0-1"},
		{TeamID: 3, Season: testSeason, Wins: 4, Losses: 1, PointsFor: 130, PointsAgainst: 95, PointDifferential: 35, PlayoffSeed: intp(1)},
	})

	s.create(&[]models.TeamSeasonStat{
		{TeamID: 1, Season: testSeason, SeasonType: SeasonTypeRegular, GamesPlayed: 5, TotalPointsPerGame: 28, TotalOffensiveYardsPerGame: 380, PassingYardsPerGame: 260, RushingYardsPerGame: 120, PassingYards: 1300, RushingYards: 600, Turnovers: 4, ThirdDownConvPct: f64p(45.2), RedZoneEfficiency: "12-18", YardsPerPassAttempt: 7.8, PassingSacks: 12, DefensiveInterceptions: 5, FumblesRecovered: 3, TurnoverDifferential: 4, OppPassingYardsPerGame: 210, OppRushingYardsPerGame: 95},
		{TeamID: 2, Season: testSeason, SeasonType: SeasonTypeRegular, GamesPlayed: 5, TotalPointsPerGame: 18, TotalOffensiveYardsPerGame: 320, PassingYardsPerGame: 240, RushingYardsPerGame: 80, RedZoneEfficiency: "6-14", TurnoverDifferential: -3, OppPassingYardsPerGame: 250, OppRushingYardsPerGame: 140},
		{TeamID: 3, Season: testSeason, SeasonType: SeasonTypeRegular, GamesPlayed: 5, TotalPointsPerGame: 26, TotalOffensiveYardsPerGame: 360, PassingYardsPerGame: 250, RushingYardsPerGame: 110, TurnoverDifferential: 2, OppPassingYardsPerGame: 230, OppRushingYardsPerGame: 110},
	})

	updated := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	s.create(&[]models.GameLine{
		// week 1: BUF beat MIA 31-20 as a 6.5 point home favorite
		{GameID: "2025_01_MIA_BUF", Season: testSeason, Week: 1, GameType: "REG", Gameday: "2025-09-07", HomeTeam: "BUF", AwayTeam: "MIA", HomeScore: intp(31), AwayScore: intp(20), SpreadLine: strp("6.5"), TotalLine: f64p(48.5), HomeMoneyline: f64p(-280), AwayMoneyline: f64p(230), UpdatedAt: updated},
		// a stale posting of the same game
		{GameID: "2025_01_MIA_BUF", Season: testSeason, Week: 1, GameType: "REG", Gameday: "2025-09-07", HomeTeam: "BUF", AwayTeam: "MIA", HomeScore: intp(31), AwayScore: intp(20), SpreadLine: strp("3"), TotalLine: f64p(47), UpdatedAt: updated.Add(-48 * time.Hour)},
		// week 2: KC at MIA, MIA won 24-21 getting 3
		{GameID: "2025_02_KC_MIA", Season: testSeason, Week: 2, GameType: "REG", Gameday: "2025-09-14", HomeTeam: "MIA", AwayTeam: "KC", HomeScore: intp(24), AwayScore: intp(21), SpreadLine: strp("3"), TotalLine: f64p(51), HomeMoneyline: f64p(140), AwayMoneyline: f64p(-165), UpdatedAt: updated},
		// week 3: unplayed BUF at KC
		{GameID: "2025_03_BUF_KC", Season: testSeason, Week: 3, GameType: "REG", Gameday: "2025-09-21", HomeTeam: "KC", AwayTeam: "BUF", SpreadLine: strp("PK"), TotalLine: f64p(52.5), HomeMoneyline: f64p(-110), AwayMoneyline: f64p(-110), UpdatedAt: updated},
		// last season's meeting
		{GameID: "2024_10_BUF_MIA", Season: 2024, Week: 10, GameType: "REG", Gameday: "2024-11-10", HomeTeam: "MIA", AwayTeam: "BUF", HomeScore: intp(17), AwayScore: intp(27), SpreadLine: strp("-2.5"), UpdatedAt: updated},
	})

	s.create(&[]models.Game{
		{ID: 101, Season: testSeason, Week: 1, HomeTeamID: 1, VisitorTeamID: 2},
		{ID: 102, Season: testSeason, Week: 2, HomeTeamID: 2, VisitorTeamID: 3},
		{ID: 103, Season: testSeason, Week: 3, HomeTeamID: 3, VisitorTeamID: 1},
	})

	s.create(&[]models.TeamGameStat{
		{TeamID: 1, GameID: 101, Season: testSeason, Week: 1, TotalYards: 410, RedZoneScores: 3, RedZoneAttempts: 4},
		{TeamID: 2, GameID: 101, Season: testSeason, Week: 1, TotalYards: 300, RedZoneScores: 2, RedZoneAttempts: 3},
		{TeamID: 2, GameID: 102, Season: testSeason, Week: 2, TotalYards: 340, RedZoneScores: 2, RedZoneAttempts: 2},
		{TeamID: 3, GameID: 102, Season: testSeason, Week: 2, TotalYards: 360, RedZoneScores: 2, RedZoneAttempts: 4},
	})

	s.create(&[]models.RosterEntry{
		{TeamID: 1, Season: testSeason, PlayerID: 10, Position: "QB", Depth: 1},
		{TeamID: 1, Season: testSeason, PlayerID: 11, Position: "RB", Depth: 1},
		{TeamID: 1, Season: testSeason, PlayerID: 12, Position: "WR", Depth: 1},
		{TeamID: 1, Season: testSeason, PlayerID: 13, Position: "LB", Depth: 1},
	})
}
