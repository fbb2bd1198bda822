package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/models"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/props"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/database"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// postseasonStartWeek is the first nflverse week of the playoffs.
const postseasonStartWeek = 19

type WinProbability struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`
}

// ImpliedProbability converts American odds into a raw win probability.
func ImpliedProbability(ml float64) float64 {
	switch {
	case ml == 0:
		return 0.5
	case ml < 0:
		return math.Abs(ml) / (math.Abs(ml) + 100)
	}
	return 100 / (ml + 100)
}

// WinProbabilityFromMoneylines removes the vig from both moneylines and
// reports percentages with one decimal. Missing odds give an even game.
func WinProbabilityFromMoneylines(homeML, awayML *float64) WinProbability {
	even := WinProbability{Home: 50, Away: 50}
	if homeML == nil || awayML == nil {
		return even
	}
	home, away := ImpliedProbability(*homeML), ImpliedProbability(*awayML)
	total := home + away
	if total <= 0 {
		return even
	}
	h := math.Max(0.01, math.Min(0.99, home/total))
	return WinProbability{
		Home: round1(h * 100),
		Away: round1((1 - h) * 100),
	}
}

type ComparisonRow struct {
	Label          string   `json:"label"`
	Key            string   `json:"key"`
	Home           *float64 `json:"home"`
	Away           *float64 `json:"away"`
	HigherIsBetter bool     `json:"higher_is_better"`
}

type TeamComparison struct {
	Stats []ComparisonRow `json:"stats"`
}

type comparisonBuilder struct {
	rows []ComparisonRow
}

func (b *comparisonBuilder) add(label, key string, home, away *float64, higherIsBetter bool) {
	if home == nil && away == nil {
		return
	}
	round := func(v *float64) *float64 {
		if v == nil {
			return nil
		}
		r := round1(*v)
		return &r
	}
	b.rows = append(b.rows, ComparisonRow{
		Label:          label,
		Key:            key,
		Home:           round(home),
		Away:           round(away),
		HigherIsBetter: higherIsBetter,
	})
}

type opponentAverages struct {
	PPG *float64
	YPG *float64
}

// GameInfo is the game line plus both teams' metadata and records.
type GameInfo struct {
	models.GameLine
	HomeAbbr       string  `json:"home_abbr"`
	AwayAbbr       string  `json:"away_abbr"`
	HomeName       string  `json:"home_name"`
	AwayName       string  `json:"away_name"`
	HomeColor      string  `json:"home_color"`
	AwayColor      string  `json:"away_color"`
	HomeSecondary  string  `json:"home_secondary"`
	AwaySecondary  string  `json:"away_secondary"`
	HomeConference string  `json:"home_conference"`
	AwayConference string  `json:"away_conference"`
	HomeRecord     string  `json:"home_record"`
	AwayRecord     string  `json:"away_record"`
	HomeSeed       *int    `json:"home_seed"`
	AwaySeed       *int    `json:"away_seed"`
	HomeConfRecord *string `json:"home_conf_record"`
	AwayConfRecord *string `json:"away_conf_record"`
	HomeDivRecord  *string `json:"home_div_record"`
	AwayDivRecord  *string `json:"away_div_record"`
	IsPlayed       bool    `json:"is_played"`
}

type GameLeaders struct {
	Home map[string]Leader `json:"home"`
	Away map[string]Leader `json:"away"`
}

type GameDetail struct {
	Game           GameInfo          `json:"game"`
	WinProbability WinProbability    `json:"win_probability"`
	Comparison     TeamComparison    `json:"comparison"`
	Leaders        GameLeaders       `json:"leaders"`
	Props          props.Board       `json:"props"`
	History        []models.GameLine `json:"history"`
	PreviewText    *string           `json:"preview_text"`
}

type GameService struct {
	db       *database.DB
	teams    *TeamService
	schedule *ScheduleService
	logger   *logrus.Logger
}

func NewGameService(db *database.DB, teams *TeamService, schedule *ScheduleService, logger *logrus.Logger) *GameService {
	return &GameService{db: db, teams: teams, schedule: schedule, logger: logger}
}

// Detail assembles the matchup page for one game: metadata, win
// probability, team comparison, leaders, best lines and recent meetings.
func (s *GameService) Detail(ctx context.Context, gameID string) (*GameDetail, error) {
	db := s.db.WithContext(ctx)

	var lines []models.GameLine
	if err := db.Where("game_id = ?", gameID).Order("id ASC").Find(&lines).Error; err != nil {
		return nil, err
	}
	latest := models.LatestLines(lines)
	if len(latest) == 0 {
		return nil, fmt.Errorf("game %q: %w", gameID, utils.ErrNotFound)
	}
	game := latest[0]

	teams, err := models.TeamsByAbbreviation(s.db)
	if err != nil {
		return nil, err
	}
	homeAbbr, awayAbbr := TeamAbbr(game.HomeTeam), TeamAbbr(game.AwayTeam)
	home, hasHome := teams[homeAbbr]
	away, hasAway := teams[awayAbbr]

	info := GameInfo{
		GameLine:       game,
		HomeAbbr:       homeAbbr,
		AwayAbbr:       awayAbbr,
		HomeName:       homeAbbr,
		AwayName:       awayAbbr,
		HomeColor:      home.PrimaryColor,
		AwayColor:      away.PrimaryColor,
		HomeSecondary:  home.SecondaryColor,
		AwaySecondary:  away.SecondaryColor,
		HomeConference: home.Conference,
		AwayConference: away.Conference,
		HomeRecord:     "0-0",
		AwayRecord:     "0-0",
		IsPlayed:       game.IsPlayed(),
	}
	if hasHome {
		info.HomeName = home.Name
	}
	if hasAway {
		info.AwayName = away.Name
	}

	detail := &GameDetail{
		Game:           info,
		WinProbability: WinProbabilityFromMoneylines(game.HomeMoneyline, game.AwayMoneyline),
		Comparison:     TeamComparison{Stats: []ComparisonRow{}},
		Leaders:        GameLeaders{Home: map[string]Leader{}, Away: map[string]Leader{}},
		Props:          props.EmptyBoard(),
	}

	if hasHome && hasAway {
		if err := s.attachRecords(ctx, &detail.Game, home.ID, away.ID, game.Season); err != nil {
			return nil, err
		}
		if detail.Comparison, err = s.comparison(ctx, home, away, game.Season); err != nil {
			return nil, err
		}
		if !game.IsPlayed() {
			if detail.Props, err = s.bestLineProps(ctx, game, home.ID, away.ID); err != nil {
				return nil, err
			}
		}
	}

	if hasHome {
		if detail.Leaders.Home, err = s.teams.Leaders(ctx, homeAbbr, game.Season); err != nil {
			return nil, err
		}
	}
	if hasAway {
		if detail.Leaders.Away, err = s.teams.Leaders(ctx, awayAbbr, game.Season); err != nil {
			return nil, err
		}
	}

	if detail.History, err = s.schedule.MatchupHistory(ctx, homeAbbr, awayAbbr, 5); err != nil {
		return nil, err
	}
	return detail, nil
}

func formatRecord(wins, losses, ties int) string {
	if ties > 0 {
		return fmt.Sprintf("%d-%d-%d", wins, losses, ties)
	}
	return fmt.Sprintf("%d-%d", wins, losses)
}

func (s *GameService) attachRecords(ctx context.Context, info *GameInfo, homeID, awayID, season int) error {
	var rows []models.TeamStanding
	err := s.db.WithContext(ctx).
		Where("season = ? AND team_id IN ?", season, []int{homeID, awayID}).
		Find(&rows).Error
	if err != nil {
		return err
	}
	for _, r := range rows {
		r := r
		rec := formatRecord(r.Wins, r.Losses, r.Ties)
		switch r.TeamID {
		case homeID:
			info.HomeRecord, info.HomeSeed = rec, r.PlayoffSeed
			info.HomeConfRecord, info.HomeDivRecord = &r.ConferenceRecord, &r.DivisionRecord
		case awayID:
			info.AwayRecord, info.AwaySeed = rec, r.PlayoffSeed
			info.AwayConfRecord, info.AwayDivRecord = &r.ConferenceRecord, &r.DivisionRecord
		}
	}
	return nil
}

func (s *GameService) comparison(ctx context.Context, home, away models.Team, season int) (TeamComparison, error) {
	var rows []models.TeamSeasonStat
	err := s.db.WithContext(ctx).
		Where("season = ? AND season_type = ? AND team_id IN ?", season, SeasonTypeRegular, []int{home.ID, away.ID}).
		Find(&rows).Error
	if err != nil {
		return TeamComparison{}, err
	}
	var h, a *models.TeamSeasonStat
	for i := range rows {
		switch rows[i].TeamID {
		case home.ID:
			h = &rows[i]
		case away.ID:
			a = &rows[i]
		}
	}

	hOpp, err := s.opponentAverages(ctx, home, season)
	if err != nil {
		return TeamComparison{}, err
	}
	aOpp, err := s.opponentAverages(ctx, away, season)
	if err != nil {
		return TeamComparison{}, err
	}

	field := func(st *models.TeamSeasonStat, get func(models.TeamSeasonStat) *float64) *float64 {
		if st == nil {
			return nil
		}
		return get(*st)
	}
	val := func(v float64) *float64 { return &v }

	var b comparisonBuilder
	b.add("PPG", "ppg",
		field(h, func(st models.TeamSeasonStat) *float64 { return val(st.TotalPointsPerGame) }),
		field(a, func(st models.TeamSeasonStat) *float64 { return val(st.TotalPointsPerGame) }), true)
	b.add("YPG", "ypg",
		field(h, func(st models.TeamSeasonStat) *float64 { return val(st.TotalOffensiveYardsPerGame) }),
		field(a, func(st models.TeamSeasonStat) *float64 { return val(st.TotalOffensiveYardsPerGame) }), true)
	b.add("Pass YPG", "pass_ypg",
		field(h, func(st models.TeamSeasonStat) *float64 { return val(st.PassingYardsPerGame) }),
		field(a, func(st models.TeamSeasonStat) *float64 { return val(st.PassingYardsPerGame) }), true)
	b.add("Rush YPG", "rush_ypg",
		field(h, func(st models.TeamSeasonStat) *float64 { return val(st.RushingYardsPerGame) }),
		field(a, func(st models.TeamSeasonStat) *float64 { return val(st.RushingYardsPerGame) }), true)
	b.add("3rd Down %", "third_down_pct",
		field(h, func(st models.TeamSeasonStat) *float64 { return st.ThirdDownConvPct }),
		field(a, func(st models.TeamSeasonStat) *float64 { return st.ThirdDownConvPct }), true)
	b.add("Red Zone %", "rz_pct",
		field(h, func(st models.TeamSeasonStat) *float64 { return ParseEfficiencyPct(st.RedZoneEfficiency) }),
		field(a, func(st models.TeamSeasonStat) *float64 { return ParseEfficiencyPct(st.RedZoneEfficiency) }), true)
	b.add("Yds/Pass", "ypa",
		field(h, func(st models.TeamSeasonStat) *float64 { return val(st.YardsPerPassAttempt) }),
		field(a, func(st models.TeamSeasonStat) *float64 { return val(st.YardsPerPassAttempt) }), true)
	b.add("Opp PPG", "opp_ppg", hOpp.PPG, aOpp.PPG, false)
	b.add("Opp YPG", "opp_ypg", hOpp.YPG, aOpp.YPG, false)
	b.add("Sacks", "sacks",
		field(h, func(st models.TeamSeasonStat) *float64 { return val(st.PassingSacks) }),
		field(a, func(st models.TeamSeasonStat) *float64 { return val(st.PassingSacks) }), true)
	b.add("DEF INTs", "def_ints",
		field(h, func(st models.TeamSeasonStat) *float64 { return val(st.DefensiveInterceptions) }),
		field(a, func(st models.TeamSeasonStat) *float64 { return val(st.DefensiveInterceptions) }), true)
	b.add("Fum Rec", "fum_rec",
		field(h, func(st models.TeamSeasonStat) *float64 { return val(st.FumblesRecovered) }),
		field(a, func(st models.TeamSeasonStat) *float64 { return val(st.FumblesRecovered) }), true)
	b.add("TO Diff", "to_diff",
		field(h, func(st models.TeamSeasonStat) *float64 { return val(float64(st.TurnoverDifferential)) }),
		field(a, func(st models.TeamSeasonStat) *float64 { return val(float64(st.TurnoverDifferential)) }), true)

	if b.rows == nil {
		b.rows = []ComparisonRow{}
	}
	return TeamComparison{Stats: b.rows}, nil
}

// opponentAverages computes points allowed from regular season scores and
// yards allowed from the opponent's box score in each of the team's games.
func (s *GameService) opponentAverages(ctx context.Context, team models.Team, season int) (opponentAverages, error) {
	db := s.db.WithContext(ctx)
	names := lineAbbrs(team.Abbreviation)

	var lines []models.GameLine
	err := db.Where("season = ? AND game_type = ?", season, "REG").
		Where("home_team IN ? OR away_team IN ?", names, names).
		Order("id ASC").
		Find(&lines).Error
	if err != nil {
		return opponentAverages{}, err
	}

	var out opponentAverages
	var pts []float64
	for _, l := range models.LatestLines(lines) {
		if !l.IsPlayed() {
			continue
		}
		if TeamAbbr(l.HomeTeam) == team.Abbreviation {
			pts = append(pts, float64(*l.AwayScore))
		} else {
			pts = append(pts, float64(*l.HomeScore))
		}
	}
	out.PPG = mean(pts)

	var gameIDs []int
	if err := db.Model(&models.TeamGameStat{}).Where("season = ? AND team_id = ?", season, team.ID).Pluck("game_id", &gameIDs).Error; err != nil {
		return opponentAverages{}, err
	}
	if len(gameIDs) > 0 {
		var opp []models.TeamGameStat
		if err := db.Where("game_id IN ? AND team_id <> ?", gameIDs, team.ID).Order("game_id ASC").Find(&opp).Error; err != nil {
			return opponentAverages{}, err
		}
		seen := make(map[int]bool, len(opp))
		var yds []float64
		for _, r := range opp {
			if seen[r.GameID] {
				continue
			}
			seen[r.GameID] = true
			yds = append(yds, r.TotalYards)
		}
		out.YPG = mean(yds)
	}
	return out, nil
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	m := round1(sum / float64(len(values)))
	return &m
}

// bestLineProps bridges the nflverse game to the provider game by its teams
// and shops that game's props.
func (s *GameService) bestLineProps(ctx context.Context, line models.GameLine, homeID, awayID int) (props.Board, error) {
	db := s.db.WithContext(ctx)
	teamIDs := []int{homeID, awayID}

	var game models.Game
	err := db.Where("season = ? AND postseason = ? AND home_team_id IN ? AND visitor_team_id IN ?",
		line.Season, line.Week >= postseasonStartWeek, teamIDs, teamIDs).
		Order("week DESC").
		First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return props.EmptyBoard(), nil
		}
		return props.Board{}, err
	}

	var rows []models.PlayerProp
	if err := db.Where("game_id = ?", game.ID).Order("created_at ASC").Limit(2000).Find(&rows).Error; err != nil {
		return props.Board{}, err
	}
	if len(rows) == 0 {
		return props.EmptyBoard(), nil
	}
	rows = props.LatestByVendor(rows)

	ids := make([]int, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.PlayerID)
	}
	var players []models.Player
	if err := db.Where("id IN ?", ids).Find(&players).Error; err != nil {
		return props.Board{}, err
	}
	byID := make(map[int]models.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	return props.BestLines(rows, byID), nil
}
