package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/models"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/database"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Provider season types.
const (
	SeasonTypeRegular = 2
	SeasonTypePost    = 3
)

type RosterRow struct {
	PlayerID     int     `json:"player_id"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	PlayerName   string  `json:"player_name"`
	Position     string  `json:"position"`
	Depth        int     `json:"depth"`
	JerseyNumber string  `json:"jersey_number"`
	Height       string  `json:"height"`
	Weight       string  `json:"weight"`
	College      string  `json:"college"`
	Age          *int    `json:"age"`
	InjuryStatus string  `json:"injury_status"`
	PhotoURL     *string `json:"photoUrl"`
}

// RosterPosition resolves the position shown for a depth chart slot.
// Punters listed at holder keep their natural position.
func RosterPosition(depthChartPos, naturalPos string) string {
	pos := depthChartPos
	if pos == "" {
		pos = naturalPos
	}
	if pos == "H" && naturalPos == "P" {
		return "P"
	}
	return pos
}

// TeamSeasonStats is a team's season line with derived metrics and its
// league rank for every numeric stat.
type TeamSeasonStats struct {
	Team    string                `json:"team"`
	Stats   models.TeamSeasonStat `json:"stats"`
	Derived map[string]*float64   `json:"derived"`
	Ranks   map[string]int        `json:"ranks"`
}

type LeaderStat struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type Leader struct {
	PlayerID    int          `json:"player_id"`
	PlayerName  string       `json:"player_name"`
	Position    string       `json:"position"`
	PhotoURL    *string      `json:"photoUrl"`
	GamesPlayed int          `json:"games_played"`
	Stats       []LeaderStat `json:"stats"`
}

type TeamService struct {
	db     *database.DB
	cache  Cache
	logger *logrus.Logger
	ttl    time.Duration
}

func NewTeamService(db *database.DB, cache Cache, logger *logrus.Logger, ttl time.Duration) *TeamService {
	return &TeamService{db: db, cache: cache, logger: logger, ttl: ttl}
}

// Team resolves an abbreviation, case-insensitively.
func (s *TeamService) Team(abbr string) (*models.Team, error) {
	team, err := models.GetTeamByAbbreviation(s.db, abbr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("team %q: %w", abbr, utils.ErrNotFound)
		}
		return nil, err
	}
	return team, nil
}

// Roster lists a team's depth chart for the season.
func (s *TeamService) Roster(ctx context.Context, abbr string, season int) ([]RosterRow, error) {
	team, err := s.Team(abbr)
	if err != nil {
		return nil, err
	}

	var entries []models.RosterEntry
	err = s.db.WithContext(ctx).
		Preload("Player").
		Where("team_id = ? AND season = ?", team.ID, season).
		Order("position ASC, depth ASC").
		Limit(200).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	out := make([]RosterRow, 0, len(entries))
	for _, e := range entries {
		p := e.Player
		out = append(out, RosterRow{
			PlayerID:     e.PlayerID,
			FirstName:    p.FirstName,
			LastName:     p.LastName,
			PlayerName:   p.FullName(),
			Position:     RosterPosition(e.Position, p.Position),
			Depth:        e.Depth,
			JerseyNumber: p.JerseyNumber,
			Height:       p.Height,
			Weight:       p.Weight,
			College:      p.College,
			Age:          p.Age,
			InjuryStatus: e.InjuryStatus,
			PhotoURL:     p.PhotoURL(),
		})
	}
	return out, nil
}

// Stats where a smaller number ranks higher.
var lowerIsBetter = map[string]bool{
	"turnovers":                  true,
	"passing_sacks":              true,
	"passing_interceptions":      true,
	"misc_total_penalties":       true,
	"misc_total_penalty_yards":   true,
	"opp_points_per_game":        true,
	"opp_total_yards_per_game":   true,
	"opp_passing_yards_per_game": true,
	"opp_rushing_yards_per_game": true,
}

// teamStatValues flattens the rankable stats of a season line.
func teamStatValues(st models.TeamSeasonStat) map[string]*float64 {
	f := func(v float64) *float64 { return &v }
	values := map[string]*float64{
		"total_points":                   f(st.TotalPoints),
		"total_points_per_game":          f(st.TotalPointsPerGame),
		"total_offensive_yards":          f(st.TotalOffensiveYards),
		"total_offensive_yards_per_game": f(st.TotalOffensiveYardsPerGame),
		"passing_yards":                  f(st.PassingYards),
		"passing_yards_per_game":         f(st.PassingYardsPerGame),
		"passing_touchdowns":             f(st.PassingTouchdowns),
		"passing_completion_pct":         f(st.PassingCompletionPct),
		"passing_sacks":                  f(st.PassingSacks),
		"passing_interceptions":          f(st.PassingInterceptions),
		"yards_per_pass_attempt":         f(st.YardsPerPassAttempt),
		"rushing_yards":                  f(st.RushingYards),
		"rushing_yards_per_game":         f(st.RushingYardsPerGame),
		"rushing_touchdowns":             f(st.RushingTouchdowns),
		"rushing_average":                f(st.RushingAverage),
		"turnovers":                      f(st.Turnovers),
		"turnover_differential":          f(float64(st.TurnoverDifferential)),
		"defensive_interceptions":        f(st.DefensiveInterceptions),
		"fumbles_recovered":              f(st.FumblesRecovered),
		"opp_passing_yards_per_game":     f(st.OppPassingYardsPerGame),
		"opp_rushing_yards_per_game":     f(st.OppRushingYardsPerGame),
		"misc_total_penalties":           f(st.MiscTotalPenalties),
		"misc_total_penalty_yards":       f(st.MiscTotalPenaltyYards),
		"third_down_conv_pct":            st.ThirdDownConvPct,
		"opp_points_per_game":            st.OppPointsPerGame,
		"opp_total_yards_per_game":       st.OppTotalYardsPerGame,
	}
	return values
}

// leagueTable holds the derived metrics and ranks of every team for one
// season and season type.
type leagueTable struct {
	Derived map[int]map[string]*float64 `json:"derived"`
	Ranks   map[string]map[int]int      `json:"ranks"`
}

func (s *TeamService) leagueTable(ctx context.Context, season, seasonType int) (*leagueTable, error) {
	return remember(ctx, s.cache, LeagueRanksCacheKey(season, seasonType), s.ttl, func() (*leagueTable, error) {
		db := s.db.WithContext(ctx)

		var rows []models.TeamSeasonStat
		if err := db.Where("season = ? AND season_type = ?", season, seasonType).Find(&rows).Error; err != nil {
			return nil, err
		}

		var gameRows []models.TeamGameStat
		if err := db.Where("season = ? AND week BETWEEN ? AND ?", season, 1, 18).Find(&gameRows).Error; err != nil {
			return nil, err
		}
		type totals struct{ rzScores, rzAtts, yards, games float64 }
		byTeam := make(map[int]*totals)
		for _, g := range gameRows {
			t := byTeam[g.TeamID]
			if t == nil {
				t = &totals{}
				byTeam[g.TeamID] = t
			}
			t.rzScores += float64(g.RedZoneScores)
			t.rzAtts += float64(g.RedZoneAttempts)
			t.yards += g.TotalYards
			t.games++
		}

		table := &leagueTable{
			Derived: make(map[int]map[string]*float64, len(rows)),
			Ranks:   make(map[string]map[int]int),
		}
		values := make(map[string]map[int]float64)
		collect := func(teamID int, key string, v *float64) {
			if v == nil {
				return
			}
			if values[key] == nil {
				values[key] = make(map[int]float64)
			}
			values[key][teamID] = *v
		}

		for _, r := range rows {
			derived := deriveTeamMetrics(r)
			if t := byTeam[r.TeamID]; t != nil {
				if derived["red_zone_pct"] == nil && t.rzAtts > 0 {
					v := t.rzScores / t.rzAtts * 100
					derived["red_zone_pct"] = &v
				}
				rz, att := t.rzScores, t.rzAtts
				derived["red_zone_scores"], derived["red_zone_attempts"] = &rz, &att
				yards := t.yards
				derived["game_total_yards"] = &yards
				if t.games > 0 {
					pg := t.yards / t.games
					derived["game_total_yards_pg"] = &pg
				}
			}
			table.Derived[r.TeamID] = derived

			for key, v := range teamStatValues(r) {
				collect(r.TeamID, key, v)
			}
			for key, v := range derived {
				collect(r.TeamID, key, v)
			}
		}

		for key, byTeamValue := range values {
			table.Ranks[key] = CompetitionRanks(byTeamValue, !lowerIsBetter[key])
		}
		return table, nil
	})
}

func deriveTeamMetrics(r models.TeamSeasonStat) map[string]*float64 {
	derived := map[string]*float64{
		"pass_rate":            nil,
		"points_per_100_yards": nil,
		"red_zone_pct":         ParseEfficiencyPct(r.RedZoneEfficiency),
	}
	if total := r.PassingAttempts + r.RushingAttempts; total > 0 {
		v := r.PassingAttempts / total * 100
		derived["pass_rate"] = &v
	}
	if r.TotalOffensiveYards > 0 {
		v := r.TotalPoints / r.TotalOffensiveYards * 100
		derived["points_per_100_yards"] = &v
	}
	return derived
}

// CompetitionRanks ranks teams by value, best first. Tied values share a
// rank and the next distinct value takes its position in the order, so
// 1, 2, 2, 4.
func CompetitionRanks(values map[int]float64, higherIsBetter bool) map[int]int {
	ids := make([]int, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := values[ids[i]], values[ids[j]]
		if a != b {
			if higherIsBetter {
				return a > b
			}
			return a < b
		}
		return ids[i] < ids[j]
	})

	ranks := make(map[int]int, len(ids))
	rank := 0
	for i, id := range ids {
		if i == 0 || values[id] != values[ids[i-1]] {
			rank = i + 1
		}
		ranks[id] = rank
	}
	return ranks
}

// SeasonStats returns the team's season line with league ranks attached.
func (s *TeamService) SeasonStats(ctx context.Context, abbr string, season, seasonType int) (*TeamSeasonStats, error) {
	if seasonType == 0 {
		seasonType = SeasonTypeRegular
	}
	team, err := s.Team(abbr)
	if err != nil {
		return nil, err
	}

	var row models.TeamSeasonStat
	err = s.db.WithContext(ctx).
		Where("team_id = ? AND season = ? AND season_type = ?", team.ID, season, seasonType).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no %d stats for %s: %w", season, team.Abbreviation, utils.ErrNotFound)
		}
		return nil, err
	}

	table, err := s.leagueTable(ctx, season, seasonType)
	if err != nil {
		return nil, err
	}

	out := &TeamSeasonStats{
		Team:    team.Abbreviation,
		Stats:   row,
		Derived: table.Derived[team.ID],
		Ranks:   make(map[string]int),
	}
	if out.Derived == nil {
		out.Derived = map[string]*float64{}
	}
	for key, byTeam := range table.Ranks {
		if r, ok := byTeam[team.ID]; ok {
			out.Ranks[key] = r
		}
	}
	return out, nil
}

type leaderCandidate struct {
	player models.Player
	stat   models.PlayerSeasonStat
}

// Leaders picks the team's top passer, rusher, receiver, tackler,
// interception and sack leaders for the regular season.
func (s *TeamService) Leaders(ctx context.Context, abbr string, season int) (map[string]Leader, error) {
	team, err := s.Team(abbr)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	var ids []int
	err = db.Model(&models.RosterEntry{}).
		Where("team_id = ? AND season = ?", team.ID, season).
		Distinct().
		Pluck("player_id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		if err := db.Model(&models.Player{}).Where("team_id = ?", team.ID).Pluck("id", &ids).Error; err != nil {
			return nil, err
		}
	}
	if len(ids) == 0 {
		return map[string]Leader{}, nil
	}

	var players []models.Player
	if err := db.Where("id IN ?", ids).Order("id ASC").Find(&players).Error; err != nil {
		return nil, err
	}
	var stats []models.PlayerSeasonStat
	if err := db.Where("player_id IN ? AND season = ? AND postseason = ?", ids, season, false).Find(&stats).Error; err != nil {
		return nil, err
	}
	statByPlayer := make(map[int]models.PlayerSeasonStat, len(stats))
	for _, st := range stats {
		statByPlayer[st.PlayerID] = st
	}

	candidates := make([]leaderCandidate, 0, len(players))
	for _, p := range players {
		if p.FullName() == "" {
			continue
		}
		candidates = append(candidates, leaderCandidate{player: p, stat: statByPlayer[p.ID]})
	}

	best := func(value func(models.PlayerSeasonStat) float64) *leaderCandidate {
		var top *leaderCandidate
		for i := range candidates {
			v := value(candidates[i].stat)
			if v > 0 && (top == nil || v > value(top.stat)) {
				top = &candidates[i]
			}
		}
		return top
	}

	categories := []struct {
		key   string
		value func(models.PlayerSeasonStat) float64
		chips func(models.PlayerSeasonStat) []LeaderStat
	}{
		{"passer", func(st models.PlayerSeasonStat) float64 { return float64(st.PassingYards) }, func(st models.PlayerSeasonStat) []LeaderStat {
			return []LeaderStat{{"YDS", float64(st.PassingYards)}, {"TD", float64(st.PassingTouchdowns)}, {"CMP%", round1(st.PassingCompletionPct)}}
		}},
		{"rusher", func(st models.PlayerSeasonStat) float64 { return float64(st.RushingYards) }, func(st models.PlayerSeasonStat) []LeaderStat {
			return []LeaderStat{{"YDS", float64(st.RushingYards)}, {"TD", float64(st.RushingTouchdowns)}, {"ATT", float64(st.RushingAttempts)}}
		}},
		{"receiver", func(st models.PlayerSeasonStat) float64 { return float64(st.ReceivingYards) }, func(st models.PlayerSeasonStat) []LeaderStat {
			return []LeaderStat{{"YDS", float64(st.ReceivingYards)}, {"REC", float64(st.Receptions)}, {"TD", float64(st.ReceivingTouchdowns)}}
		}},
		{"tackler", func(st models.PlayerSeasonStat) float64 { return st.TotalTackles }, func(st models.PlayerSeasonStat) []LeaderStat {
			return []LeaderStat{{"TCKL", st.TotalTackles}, {"SACK", st.DefensiveSacks}, {"GP", float64(st.GamesPlayed)}}
		}},
		{"int_leader", func(st models.PlayerSeasonStat) float64 { return st.DefensiveInterceptions }, func(st models.PlayerSeasonStat) []LeaderStat {
			return []LeaderStat{{"INT", st.DefensiveInterceptions}, {"TCKL", st.TotalTackles}, {"GP", float64(st.GamesPlayed)}}
		}},
		{"sack_leader", func(st models.PlayerSeasonStat) float64 { return st.DefensiveSacks }, func(st models.PlayerSeasonStat) []LeaderStat {
			return []LeaderStat{{"SACK", st.DefensiveSacks}, {"TCKL", st.TotalTackles}, {"GP", float64(st.GamesPlayed)}}
		}},
	}

	leaders := make(map[string]Leader, len(categories))
	for _, c := range categories {
		top := best(c.value)
		if top == nil {
			continue
		}
		leaders[c.key] = Leader{
			PlayerID:    top.player.ID,
			PlayerName:  top.player.FullName(),
			Position:    strings.ToUpper(top.player.Position),
			PhotoURL:    top.player.PhotoURL(),
			GamesPlayed: top.stat.GamesPlayed,
			Stats:       c.chips(top.stat),
		}
	}
	return leaders, nil
}
