// Package seed loads a small demo league: three AFC teams, a handful of
// skill players, three weeks of lines and week 3 smash inputs.
package seed

import (
	"errors"
	"fmt"
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/models"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/database"
	"gorm.io/gorm"
)

// ErrNotEmpty is returned when the database already holds teams.
var ErrNotEmpty = errors.New("database already contains data")

func intp(v int) *int { return &v }

func f64p(v float64) *float64 { return &v }

func strp(v string) *string { return &v }

// Demo writes the demo league for season in one transaction.
func Demo(db *database.DB, season int) error {
	var teams int64
	if err := db.Model(&models.Team{}).Count(&teams).Error; err != nil {
		return fmt.Errorf("count teams: %w", err)
	}
	if teams > 0 {
		return ErrNotEmpty
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, step := range []struct {
			name string
			rows interface{}
		}{
			{"teams", demoTeams()},
			{"players", demoPlayers()},
			{"player season stats", demoPlayerSeasonStats(season)},
			{"player game stats", demoPlayerGameStats(season)},
			{"standings", demoStandings(season)},
			{"team season stats", demoTeamSeasonStats(season)},
			{"game lines", demoGameLines(season)},
			{"games", demoGames(season)},
			{"team game stats", demoTeamGameStats(season)},
			{"rosters", demoRosters(season)},
			{"injuries", demoInjuries(season)},
			{"player props", demoProps()},
			{"smash features", demoSmashFeatures(season)},
		} {
			if err := tx.Create(step.rows).Error; err != nil {
				return fmt.Errorf("seed %s: %w", step.name, err)
			}
		}
		return nil
	})
}

func demoTeams() *[]models.Team {
	return &[]models.Team{
		{ID: 1, Abbreviation: "BUF", Name: "Buffalo Bills", Conference: "AFC", Division: "EAST", PrimaryColor: "#00338D", SecondaryColor: "#C60C30"},
		{ID: 2, Abbreviation: "MIA", Name: "Miami Dolphins", Conference: "AFC", Division: "EAST", PrimaryColor: "#008E97", SecondaryColor: "#FC4C02"},
		{ID: 3, Abbreviation: "KC", Name: "Kansas City Chiefs", Conference: "AFC", Division: "WEST", PrimaryColor: "#E31837", SecondaryColor: "#FFB81C"},
	}
}

func demoPlayers() *[]models.Player {
	return &[]models.Player{
		{ID: 10, FirstName: "Josh", LastName: "Allen", Position: "QB", TeamID: intp(1), EspnID: "3918298"},
		{ID: 11, FirstName: "James", LastName: "Cook", Position: "RB", TeamID: intp(1)},
		{ID: 12, FirstName: "Khalil", LastName: "Shakir", Position: "WR", TeamID: intp(1)},
		{ID: 13, FirstName: "Matt", LastName: "Milano", Position: "LB", TeamID: intp(1)},
		{ID: 20, FirstName: "Tua", LastName: "Tagovailoa", Position: "QB", TeamID: intp(2)},
		{ID: 21, FirstName: "Tyreek", LastName: "Hill", Position: "WR", TeamID: intp(2)},
		{ID: 22, FirstName: "De'Von", LastName: "Achane", Position: "RB", TeamID: intp(2)},
		{ID: 30, FirstName: "Patrick", LastName: "Mahomes", Position: "QB", TeamID: intp(3)},
		{ID: 31, FirstName: "Travis", LastName: "Kelce", Position: "TE", TeamID: intp(3)},
	}
}

func demoPlayerSeasonStats(season int) *[]models.PlayerSeasonStat {
	return &[]models.PlayerSeasonStat{
		{PlayerID: 10, Season: season, GamesPlayed: 3, PassingAttempts: 100, PassingCompletions: 68, PassingYards: 780, PassingTouchdowns: 6, PassingInterceptions: 1, PassingCompletionPct: 68, RushingAttempts: 18, RushingYards: 90, RushingTouchdowns: 2},
		{PlayerID: 11, Season: season, GamesPlayed: 3, RushingAttempts: 48, RushingYards: 240, RushingTouchdowns: 3, ReceivingTargets: 8, Receptions: 7, ReceivingYards: 50},
		{PlayerID: 12, Season: season, GamesPlayed: 3, ReceivingTargets: 21, Receptions: 17, ReceivingYards: 210, ReceivingTouchdowns: 1},
		{PlayerID: 13, Season: season, GamesPlayed: 3, TotalTackles: 24, DefensiveSacks: 1, DefensiveInterceptions: 1},
		{PlayerID: 20, Season: season, GamesPlayed: 3, PassingAttempts: 102, PassingCompletions: 70, PassingYards: 720, PassingTouchdowns: 4, PassingInterceptions: 3},
		{PlayerID: 21, Season: season, GamesPlayed: 3, ReceivingTargets: 27, Receptions: 18, ReceivingYards: 300, ReceivingTouchdowns: 2},
		{PlayerID: 22, Season: season, GamesPlayed: 3, RushingAttempts: 36, RushingYards: 228, RushingTouchdowns: 1},
		{PlayerID: 30, Season: season, GamesPlayed: 3, PassingAttempts: 108, PassingCompletions: 72, PassingYards: 840, PassingTouchdowns: 7, PassingInterceptions: 2},
		{PlayerID: 31, Season: season, GamesPlayed: 3, ReceivingTargets: 24, Receptions: 20, ReceivingYards: 215, ReceivingTouchdowns: 1},
	}
}

func demoPlayerGameStats(season int) *[]models.PlayerGameStat {
	return &[]models.PlayerGameStat{
		{PlayerID: 10, GameID: 101, Season: season, Week: 1, TeamID: intp(1), PassingAttempts: 34, PassingCompletions: 24, PassingYards: 285, PassingTouchdowns: 3, RushingAttempts: 6, RushingYards: 32, RushingTouchdowns: 1},
		{PlayerID: 11, GameID: 101, Season: season, Week: 1, TeamID: intp(1), RushingAttempts: 17, RushingYards: 88, RushingTouchdowns: 1, ReceivingTargets: 3, Receptions: 3, ReceivingYards: 18},
		{PlayerID: 12, GameID: 101, Season: season, Week: 1, TeamID: intp(1), ReceivingTargets: 7, Receptions: 6, ReceivingYards: 74, ReceivingTouchdowns: 1},
		{PlayerID: 21, GameID: 101, Season: season, Week: 1, TeamID: intp(2), ReceivingTargets: 10, Receptions: 6, ReceivingYards: 96},
		{PlayerID: 30, GameID: 102, Season: season, Week: 2, TeamID: intp(3), PassingAttempts: 38, PassingCompletions: 25, PassingYards: 290, PassingTouchdowns: 2, PassingInterceptions: 1},
		{PlayerID: 31, GameID: 102, Season: season, Week: 2, TeamID: intp(3), ReceivingTargets: 9, Receptions: 7, ReceivingYards: 71},
	}
}

func demoStandings(season int) *[]models.TeamStanding {
	return &[]models.TeamStanding{
		{TeamID: 1, Season: season, Wins: 2, Losses: 0, PointsFor: 58, PointsAgainst: 40, PointDifferential: 18, PlayoffSeed: intp(2), WinStreak: 2, OverallRecord: "2-0", ConferenceRecord: "2-0", DivisionRecord: "1-0", HomeRecord: "1-0", RoadRecord: "1-0"},
		{TeamID: 2, Season: season, Wins: 1, Losses: 1, PointsFor: 44, PointsAgainst: 52, PointDifferential: -8, OverallRecord: "1-1", ConferenceRecord: "1-1", DivisionRecord: "0-1", HomeRecord: "1-0", RoadRecord: "0-1"},
		{TeamID: 3, Season: season, Wins: 1, Losses: 1, PointsFor: 48, PointsAgainst: 38, PointDifferential: 10, PlayoffSeed: intp(1), OverallRecord: "1-1", ConferenceRecord: "1-1", HomeRecord: "1-0", RoadRecord: "0-1"},
	}
}

func demoTeamSeasonStats(season int) *[]models.TeamSeasonStat {
	return &[]models.TeamSeasonStat{
		{TeamID: 1, Season: season, SeasonType: 2, GamesPlayed: 2, TotalPointsPerGame: 29, TotalOffensiveYardsPerGame: 390, PassingYardsPerGame: 265, RushingYardsPerGame: 125, ThirdDownConvPct: f64p(46.1), RedZoneEfficiency: "7-9", TurnoverDifferential: 3, OppPassingYardsPerGame: 205, OppRushingYardsPerGame: 98},
		{TeamID: 2, Season: season, SeasonType: 2, GamesPlayed: 2, TotalPointsPerGame: 22, TotalOffensiveYardsPerGame: 335, PassingYardsPerGame: 250, RushingYardsPerGame: 85, ThirdDownConvPct: f64p(38.5), RedZoneEfficiency: "4-8", TurnoverDifferential: -2, OppPassingYardsPerGame: 255, OppRushingYardsPerGame: 138},
		{TeamID: 3, Season: season, SeasonType: 2, GamesPlayed: 2, TotalPointsPerGame: 24, TotalOffensiveYardsPerGame: 355, PassingYardsPerGame: 255, RushingYardsPerGame: 100, ThirdDownConvPct: f64p(42), RedZoneEfficiency: "5-8", TurnoverDifferential: 1, OppPassingYardsPerGame: 228, OppRushingYardsPerGame: 112},
	}
}

func demoGameLines(season int) *[]models.GameLine {
	updated := time.Date(season, 9, 1, 12, 0, 0, 0, time.UTC)
	id := func(week int, away, home string) string {
		return fmt.Sprintf("%d_%02d_%s_%s", season, week, away, home)
	}
	return &[]models.GameLine{
		{GameID: id(1, "MIA", "BUF"), Season: season, Week: 1, GameType: "REG", Gameday: fmt.Sprintf("%d-09-07", season), HomeTeam: "BUF", AwayTeam: "MIA", HomeScore: intp(31), AwayScore: intp(20), SpreadLine: strp("6.5"), TotalLine: f64p(48.5), HomeMoneyline: f64p(-280), AwayMoneyline: f64p(230), UpdatedAt: updated},
		{GameID: id(2, "KC", "MIA"), Season: season, Week: 2, GameType: "REG", Gameday: fmt.Sprintf("%d-09-14", season), HomeTeam: "MIA", AwayTeam: "KC", HomeScore: intp(24), AwayScore: intp(21), SpreadLine: strp("3"), TotalLine: f64p(51), HomeMoneyline: f64p(140), AwayMoneyline: f64p(-165), UpdatedAt: updated},
		{GameID: id(2, "BUF", "NYJ"), Season: season, Week: 2, GameType: "REG", Gameday: fmt.Sprintf("%d-09-14", season), HomeTeam: "NYJ", AwayTeam: "BUF", HomeScore: intp(20), AwayScore: intp(27), SpreadLine: strp("-4.5"), TotalLine: f64p(44.5), UpdatedAt: updated},
		{GameID: id(3, "BUF", "KC"), Season: season, Week: 3, GameType: "REG", Gameday: fmt.Sprintf("%d-09-21", season), HomeTeam: "KC", AwayTeam: "BUF", SpreadLine: strp("PK"), TotalLine: f64p(52.5), HomeMoneyline: f64p(-110), AwayMoneyline: f64p(-110), UpdatedAt: updated},
		{GameID: id(3, "MIA", "NE"), Season: season, Week: 3, GameType: "REG", Gameday: fmt.Sprintf("%d-09-21", season), HomeTeam: "NE", AwayTeam: "MIA", SpreadLine: strp("1.5"), TotalLine: f64p(43), UpdatedAt: updated},
	}
}

func demoGames(season int) *[]models.Game {
	return &[]models.Game{
		{ID: 101, Season: season, Week: 1, HomeTeamID: 1, VisitorTeamID: 2, Date: time.Date(season, 9, 7, 17, 0, 0, 0, time.UTC)},
		{ID: 102, Season: season, Week: 2, HomeTeamID: 2, VisitorTeamID: 3, Date: time.Date(season, 9, 14, 17, 0, 0, 0, time.UTC)},
		{ID: 103, Season: season, Week: 3, HomeTeamID: 3, VisitorTeamID: 1, Date: time.Date(season, 9, 21, 20, 20, 0, 0, time.UTC)},
	}
}

func demoTeamGameStats(season int) *[]models.TeamGameStat {
	return &[]models.TeamGameStat{
		{TeamID: 1, GameID: 101, Season: season, Week: 1, TotalYards: 410, RedZoneScores: 4, RedZoneAttempts: 5},
		{TeamID: 2, GameID: 101, Season: season, Week: 1, TotalYards: 300, RedZoneScores: 2, RedZoneAttempts: 4},
		{TeamID: 2, GameID: 102, Season: season, Week: 2, TotalYards: 370, RedZoneScores: 2, RedZoneAttempts: 4},
		{TeamID: 3, GameID: 102, Season: season, Week: 2, TotalYards: 340, RedZoneScores: 2, RedZoneAttempts: 3},
	}
}

func demoRosters(season int) *[]models.RosterEntry {
	return &[]models.RosterEntry{
		{TeamID: 1, Season: season, PlayerID: 10, Position: "QB", Depth: 1},
		{TeamID: 1, Season: season, PlayerID: 11, Position: "RB", Depth: 1, InjuryStatus: "Questionable"},
		{TeamID: 1, Season: season, PlayerID: 12, Position: "WR", Depth: 1},
		{TeamID: 1, Season: season, PlayerID: 13, Position: "LB", Depth: 1},
		{TeamID: 2, Season: season, PlayerID: 20, Position: "QB", Depth: 1},
		{TeamID: 2, Season: season, PlayerID: 21, Position: "WR", Depth: 1},
		{TeamID: 2, Season: season, PlayerID: 22, Position: "RB", Depth: 1},
		{TeamID: 3, Season: season, PlayerID: 30, Position: "QB", Depth: 1},
		{TeamID: 3, Season: season, PlayerID: 31, Position: "TE", Depth: 1},
	}
}

func demoInjuries(season int) *[]models.Injury {
	return &[]models.Injury{
		{PlayerID: 11, Date: fmt.Sprintf("%d-09-18", season), Status: "Questionable", Comment: "Ankle"},
		{PlayerID: 21, Date: fmt.Sprintf("%d-09-17", season), Status: "Out", Comment: "Hamstring"},
	}
}

func demoProps() *[]models.PlayerProp {
	posted := time.Date(2025, 9, 18, 12, 0, 0, 0, time.UTC)
	return &[]models.PlayerProp{
		{ID: "demo-dk-10-py", GameID: 103, PlayerID: 10, Vendor: models.VendorDraftKings, PropType: "passing_yards", MarketType: models.MarketOverUnder, LineValue: f64p(262.5), OverOdds: f64p(-115), UnderOdds: f64p(-105), CreatedAt: posted},
		{ID: "demo-fd-10-py", GameID: 103, PlayerID: 10, Vendor: "fanduel", PropType: "passing_yards", MarketType: models.MarketOverUnder, LineValue: f64p(262.5), OverOdds: f64p(-110), UnderOdds: f64p(-110), CreatedAt: posted},
		{ID: "demo-dk-12-rec", GameID: 103, PlayerID: 12, Vendor: models.VendorDraftKings, PropType: "receiving_yards", MarketType: models.MarketOverUnder, LineValue: f64p(55.5), OverOdds: f64p(-110), UnderOdds: f64p(-110), CreatedAt: posted},
		{ID: "demo-dk-30-py", GameID: 103, PlayerID: 30, Vendor: models.VendorDraftKings, PropType: "passing_yards", MarketType: models.MarketOverUnder, LineValue: f64p(275.5), OverOdds: f64p(-110), UnderOdds: f64p(-110), CreatedAt: posted},
		{ID: "demo-cz-31-td", GameID: 103, PlayerID: 31, Vendor: "caesars", PropType: models.PropAnytimeTD, MarketType: models.MarketMilestone, LineValue: f64p(0.5), MilestoneOdds: f64p(130), CreatedAt: posted},
	}
}

func demoSmashFeatures(season int) *[]models.SmashFeature {
	return &[]models.SmashFeature{
		{Season: season, Week: 3, PlayerID: 10, Position: "QB", Team: "BUF", Cpoe: 5, Aggressiveness: 10, OlineRankPct: 60, PassAttPerGame: 34, QBRating: 104.2, CompPct: 68.8},
		{Season: season, Week: 3, PlayerID: 30, Position: "QB", Team: "KC", Cpoe: 2, Aggressiveness: 8, OlineRankPct: 80, PassAttPerGame: 36, QBRating: 98.1, CompPct: 66.1},
		{Season: season, Week: 3, PlayerID: 11, Position: "RB", Team: "BUF", RyoePerAtt: 0.4, RushAttPerGame: 16, YardsPerCarry: 5, TouchesPerGame: 18, RecTargets: 8},
		{Season: season, Week: 3, PlayerID: 12, Position: "WR", Team: "BUF", AirSharePct: 25, Adot: 8, Separation: 3, CatchRate: 70, TargetsPerGame: 7, QBCpoe: 5},
		{Season: season, Week: 3, PlayerID: 21, Position: "WR", Team: "MIA", AirSharePct: 35, Adot: 12, Separation: 3.5, CatchRate: 65, TargetsPerGame: 9, QBCpoe: -1},
		{Season: season, Week: 3, PlayerID: 22, Position: "RB", Team: "MIA", RyoePerAtt: 0.8, RushAttPerGame: 12, YardsPerCarry: 6.3, TouchesPerGame: 15, RecTargets: 10},
		{Season: season, Week: 3, PlayerID: 31, Position: "TE", Team: "KC", AirSharePct: 20, Adot: 7, Separation: 2.5, CatchRate: 80, TargetsPerGame: 8, QBCpoe: 2},
	}
}
