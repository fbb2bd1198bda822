package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/models"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/smash"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/database"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm/clause"
)

// boxScoreColumns are the smash_features columns Build owns. Tracking
// columns (adot, separation, cpoe, ryoe, aggressiveness, oline rank) keep
// whatever was loaded for them.
var boxScoreColumns = []string{
	"position", "team",
	"air_share_pct", "catch_rate", "targets_per_game",
	"rush_att_per_game", "yards_per_carry", "touches_per_game", "rec_targets",
	"pass_att_per_game", "qb_rating", "comp_pct",
	"updated_at",
}

// FeatureService derives the weekly smash inputs from box scores.
type FeatureService struct {
	db     *database.DB
	logger *logrus.Logger
}

func NewFeatureService(db *database.DB, logger *logrus.Logger) *FeatureService {
	return &FeatureService{db: db, logger: logger}
}

// production is one player's totals over the games considered.
type production struct {
	games      int
	passAtt    int
	passCmp    int
	passYds    int
	passTD     int
	passInt    int
	rushAtt    int
	rushYds    int
	targets    int
	receptions int
	recYds     int
	qbrSum     float64
	qbrGames   int
}

func (p *production) addGame(g models.PlayerGameStat) {
	p.games++
	p.passAtt += g.PassingAttempts
	p.passCmp += g.PassingCompletions
	p.passYds += g.PassingYards
	p.passTD += g.PassingTouchdowns
	p.passInt += g.PassingInterceptions
	p.rushAtt += g.RushingAttempts
	p.rushYds += g.RushingYards
	p.targets += g.ReceivingTargets
	p.receptions += g.Receptions
	p.recYds += g.ReceivingYards
	if g.QBR != nil {
		p.qbrSum += *g.QBR
		p.qbrGames++
	}
}

func seasonProduction(st models.PlayerSeasonStat) production {
	p := production{
		games:      st.GamesPlayed,
		passAtt:    st.PassingAttempts,
		passCmp:    st.PassingCompletions,
		passYds:    st.PassingYards,
		passTD:     st.PassingTouchdowns,
		passInt:    st.PassingInterceptions,
		rushAtt:    st.RushingAttempts,
		rushYds:    st.RushingYards,
		targets:    st.ReceivingTargets,
		receptions: st.Receptions,
		recYds:     st.ReceivingYards,
	}
	if st.QBR != nil {
		p.qbrSum, p.qbrGames = *st.QBR, 1
	}
	return p
}

// Build writes the box-score feature columns for every skill player on a
// team with a game line in the week. Game logs before the week are used
// when a player has them, regular-season totals otherwise. It returns the
// number of feature rows written.
func (s *FeatureService) Build(ctx context.Context, season, week int) (int, error) {
	teamAbbrs, err := s.weekTeams(ctx, season, week)
	if err != nil {
		return 0, err
	}
	if len(teamAbbrs) == 0 {
		return 0, nil
	}
	teamIDs := make([]int, 0, len(teamAbbrs))
	for id := range teamAbbrs {
		teamIDs = append(teamIDs, id)
	}

	var players []models.Player
	if err := s.db.WithContext(ctx).Where("team_id IN ?", teamIDs).Order("id ASC").Find(&players).Error; err != nil {
		return 0, fmt.Errorf("load players: %w", err)
	}
	ids := make([]int, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.ID)
	}

	prod, err := s.production(ctx, season, week, ids)
	if err != nil {
		return 0, err
	}

	teamRecYds := make(map[int]int, len(teamIDs))
	for _, p := range players {
		if pr, ok := prod[p.ID]; ok {
			teamRecYds[*p.TeamID] += pr.recYds
		}
	}

	now := time.Now().UTC()
	rows := make([]models.SmashFeature, 0, len(players))
	for _, p := range players {
		group := smash.Group(p.Position)
		pr, ok := prod[p.ID]
		if group == "" || !ok || pr.games <= 0 {
			continue
		}
		row := models.SmashFeature{
			Season:    season,
			Week:      week,
			PlayerID:  p.ID,
			Position:  smash.CanonicalPosition(p.Position),
			Team:      teamAbbrs[*p.TeamID],
			UpdatedAt: now,
		}
		games := float64(pr.games)
		switch group {
		case smash.GroupReceiver:
			row.TargetsPerGame = float64(pr.targets) / games
			row.CatchRate = pct(pr.receptions, pr.targets)
			row.AirSharePct = math.Max(0, math.Min(100, pct(pr.recYds, teamRecYds[*p.TeamID])))
		case smash.GroupRusher:
			row.RushAttPerGame = float64(pr.rushAtt) / games
			if pr.rushAtt > 0 {
				row.YardsPerCarry = float64(pr.rushYds) / float64(pr.rushAtt)
			}
			row.TouchesPerGame = float64(pr.rushAtt+pr.receptions) / games
			row.RecTargets = pr.targets
		case smash.GroupPasser:
			row.PassAttPerGame = float64(pr.passAtt) / games
			row.CompPct = pct(pr.passCmp, pr.passAtt)
			if pr.qbrGames > 0 {
				row.QBRating = pr.qbrSum / float64(pr.qbrGames)
			} else {
				row.QBRating = PasserRating(pr.passCmp, pr.passAtt, pr.passYds, pr.passTD, pr.passInt)
			}
		}
		rows = append(rows, row)
	}

	if len(rows) > 0 {
		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "season"}, {Name: "week"}, {Name: "player_id"}},
			DoUpdates: clause.AssignmentColumns(boxScoreColumns),
		}).CreateInBatches(rows, 200).Error
		if err != nil {
			return 0, fmt.Errorf("store features: %w", err)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"season": season,
		"week":   week,
		"rows":   len(rows),
	}).Info("Built smash features")
	return len(rows), nil
}

// weekTeams maps the id of every team with a line in the week to its
// abbreviation.
func (s *FeatureService) weekTeams(ctx context.Context, season, week int) (map[int]string, error) {
	var lines []models.GameLine
	if err := s.db.WithContext(ctx).Where("season = ? AND week = ?", season, week).Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("load game lines: %w", err)
	}
	playing := make(map[string]bool, len(lines)*2)
	for _, l := range models.LatestLines(lines) {
		playing[TeamAbbr(l.HomeTeam)] = true
		playing[TeamAbbr(l.AwayTeam)] = true
	}

	var teams []models.Team
	if err := s.db.WithContext(ctx).Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}
	out := make(map[int]string, len(playing))
	for _, t := range teams {
		if playing[t.Abbreviation] {
			out[t.ID] = t.Abbreviation
		}
	}
	return out, nil
}

// production totals each player's game logs before week, falling back to
// the regular-season line for players without logs.
func (s *FeatureService) production(ctx context.Context, season, week int, playerIDs []int) (map[int]production, error) {
	out := make(map[int]production, len(playerIDs))
	if len(playerIDs) == 0 {
		return out, nil
	}
	db := s.db.WithContext(ctx)

	var logs []models.PlayerGameStat
	err := db.Where("season = ? AND week < ? AND player_id IN ?", season, week, playerIDs).
		Order("player_id, week").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("load game stats: %w", err)
	}
	for _, g := range logs {
		p := out[g.PlayerID]
		p.addGame(g)
		out[g.PlayerID] = p
	}

	var totals []models.PlayerSeasonStat
	err = db.Where("season = ? AND postseason = ? AND player_id IN ?", season, false, playerIDs).
		Find(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("load season stats: %w", err)
	}
	for _, st := range totals {
		if _, ok := out[st.PlayerID]; !ok {
			out[st.PlayerID] = seasonProduction(st)
		}
	}
	return out, nil
}

// PasserRating is the NFL passer rating for a stat line. Zero attempts
// rate 0.
func PasserRating(cmp, att, yds, td, ints int) float64 {
	if att <= 0 {
		return 0
	}
	a := float64(att)
	clamp := func(v float64) float64 { return math.Max(0, math.Min(2.375, v)) }
	sum := clamp((float64(cmp)/a-0.3)*5) +
		clamp((float64(yds)/a-3)*0.25) +
		clamp(float64(td)/a*20) +
		clamp(2.375-float64(ints)/a*25)
	return sum / 6 * 100
}

func pct(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
