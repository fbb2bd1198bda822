package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/models"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/props"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/smash"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/database"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/metrics"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// minPerGroup is the smallest number of rows read per position group when
// assembling the feed.
const minPerGroup = 25

// DefaultFeedLimit is the feed size served when a request names none.
const DefaultFeedLimit = 25

const warmRetries = 3

// feedGroups are the position groups read for the feed; tight ends come
// from the receiver group.
var feedGroups = [][]string{
	{"QB"},
	{"RB"},
	{"WR", "TE"},
}

type SmashService struct {
	db      *database.DB
	cache   Cache
	hub     *WebSocketHub
	metrics *metrics.Manager
	logger  *logrus.Logger
	ttl     time.Duration
}

func NewSmashService(db *database.DB, cache Cache, hub *WebSocketHub, m *metrics.Manager, logger *logrus.Logger, ttl time.Duration) *SmashService {
	return &SmashService{
		db:      db,
		cache:   cache,
		hub:     hub,
		metrics: m,
		logger:  logger,
		ttl:     ttl,
	}
}

// defenseLine is one team's defensive context for the week.
type defenseLine struct {
	passPct      float64
	rushPct      float64
	passYPG      float64
	rushYPG      float64
	turnoverDiff int
}

type gameSide struct {
	line     models.GameLine
	isHome   bool
	opponent string
}

// Materialize scores every featured player for the week and replaces the
// week's smash_scores rows. It returns the number of rows written.
func (s *SmashService) Materialize(ctx context.Context, season, week int) (n int, err error) {
	defer func() { s.metrics.RecordMaterialization(n, err) }()

	db := s.db.WithContext(ctx)

	var features []models.SmashFeature
	if err := db.Preload("Player").Where("season = ? AND week = ?", season, week).Order("player_id ASC").Find(&features).Error; err != nil {
		return 0, fmt.Errorf("load features: %w", err)
	}

	sides, err := s.weekGames(ctx, season, week)
	if err != nil {
		return 0, err
	}
	defenses, err := s.defenses(ctx, season)
	if err != nil {
		return 0, err
	}
	propRows, err := s.weekProps(ctx, season, week)
	if err != nil {
		return 0, err
	}

	inputs := make([]smash.Inputs, 0, len(features))
	for _, f := range features {
		team := TeamAbbr(f.Team)
		side, ok := sides[team]
		if !ok {
			continue
		}
		f.Position = smash.CanonicalPosition(f.Position)
		inputs = append(inputs, buildInputs(f, team, side, defenses))
	}

	rows := smash.ScoreWeek(inputs)
	now := time.Now().UTC()
	scores := make([]models.SmashScore, 0, len(rows))
	for _, row := range rows {
		score, err := smashScoreRow(row, props.DKLine(propRows, row.PlayerID, row.Position), now)
		if err != nil {
			return 0, err
		}
		scores = append(scores, score)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("season = ? AND week = ?", season, week).Delete(&models.SmashScore{}).Error; err != nil {
			return err
		}
		if len(scores) == 0 {
			return nil
		}
		return tx.CreateInBatches(scores, 200).Error
	})
	if err != nil {
		return 0, fmt.Errorf("replace smash scores: %w", err)
	}

	s.invalidateFeed(ctx, season, week)
	s.logger.WithFields(logrus.Fields{
		"season": season,
		"week":   week,
		"rows":   len(scores),
	}).Info("Materialized smash scores")

	if err := s.hub.BroadcastToTopic(TopicSmashFeed, "smash_feed_updated", map[string]int{
		"season": season,
		"week":   week,
		"rows":   len(scores),
	}); err != nil {
		s.logger.WithError(err).Warn("Failed to broadcast smash feed update")
	}
	return len(scores), nil
}

func buildInputs(f models.SmashFeature, team string, side gameSide, defenses map[string]defenseLine) smash.Inputs {
	in := smash.Inputs{
		SmashFeature: f,
		PlayerName:   f.Player.FullName(),
		Opponent:     side.opponent,
	}
	if side.line.TotalLine != nil {
		in.GameTotal = *side.line.TotalLine
	}
	if hs := HomeSpread(side.line); hs != nil {
		in.Spread = *hs
		if !side.isHome {
			in.Spread = -in.Spread
		}
		in.IsFavorite = in.Spread < 0
		in.IsUnderdog = in.Spread > 0
	}

	if d, ok := defenses[side.opponent]; ok {
		pct := d.passPct
		if smash.Group(f.Position) == smash.GroupRusher {
			pct = d.rushPct
		}
		in.OppDefRankPct = &pct
		in.OppPassYPG = d.passYPG
		in.OppRushYPG = d.rushYPG
		in.OppTurnoverDiff = d.turnoverDiff
	}
	return in
}

func smashScoreRow(row smash.Row, dkLine *float64, computedAt time.Time) (models.SmashScore, error) {
	raw := make(map[string]float64, len(row.Components)+4)
	for k, v := range row.Components {
		raw[k] = v
	}
	raw["game_total"] = row.GameTotal
	raw["spread"] = row.Spread
	raw["opp_def_rank_pct"] = row.DefensePct()
	raw["smash_score"] = row.Score

	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return models.SmashScore{}, err
	}

	stat1, stat2, stat3 := smash.DynamicStats(row)
	return models.SmashScore{
		Season:        row.Season,
		Week:          row.Week,
		PlayerID:      row.PlayerID,
		PlayerName:    row.PlayerName,
		Position:      row.Position,
		Team:          TeamAbbr(row.Team),
		Opponent:      row.Opponent,
		SmashScore:    row.Score,
		DKLine:        dkLine,
		GameTotal:     row.GameTotal,
		Spread:        row.Spread,
		OppDefRankPct: row.DefensePct(),
		OpponentRank:  row.OpponentRank(),
		MatchupFlags:  datatypes.JSONSlice[string](smash.MatchupFlags(row.Inputs)),
		Stat1:         stat1,
		Stat2:         stat2,
		Stat3:         stat3,
		RawStats:      datatypes.JSON(rawJSON),
		ComputedAt:    computedAt,
	}, nil
}

// weekGames maps each team playing in the week to its game line.
func (s *SmashService) weekGames(ctx context.Context, season, week int) (map[string]gameSide, error) {
	var lines []models.GameLine
	err := s.db.WithContext(ctx).
		Where("season = ? AND week = ?", season, week).
		Order("id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("load game lines: %w", err)
	}

	out := make(map[string]gameSide, len(lines)*2)
	for _, l := range models.LatestLines(lines) {
		home, away := TeamAbbr(l.HomeTeam), TeamAbbr(l.AwayTeam)
		out[home] = gameSide{line: l, isHome: true, opponent: away}
		out[away] = gameSide{line: l, isHome: false, opponent: home}
	}
	return out, nil
}

// defenses percent-ranks every team's pass and rush yards allowed per game
// for the regular season. Higher percentiles are softer defenses.
func (s *SmashService) defenses(ctx context.Context, season int) (map[string]defenseLine, error) {
	var stats []models.TeamSeasonStat
	err := s.db.WithContext(ctx).
		Where("season = ? AND season_type = ?", season, SeasonTypeRegular).
		Order("team_id ASC").
		Find(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("load team stats: %w", err)
	}
	if len(stats) == 0 {
		return map[string]defenseLine{}, nil
	}

	var teams []models.Team
	if err := s.db.WithContext(ctx).Find(&teams).Error; err != nil {
		return nil, err
	}
	abbr := make(map[int]string, len(teams))
	for _, t := range teams {
		abbr[t.ID] = t.Abbreviation
	}

	pass := make([]float64, len(stats))
	rush := make([]float64, len(stats))
	for i, st := range stats {
		pass[i] = st.OppPassingYardsPerGame
		rush[i] = st.OppRushingYardsPerGame
	}
	passRank, rushRank := smash.PercentRank(pass), smash.PercentRank(rush)

	out := make(map[string]defenseLine, len(stats))
	for i, st := range stats {
		a, ok := abbr[st.TeamID]
		if !ok {
			continue
		}
		out[a] = defenseLine{
			passPct:      passRank[i] * 100,
			rushPct:      rushRank[i] * 100,
			passYPG:      st.OppPassingYardsPerGame,
			rushYPG:      st.OppRushingYardsPerGame,
			turnoverDiff: st.TurnoverDifferential,
		}
	}
	return out, nil
}

// weekProps loads the prop postings for the provider games of the week.
func (s *SmashService) weekProps(ctx context.Context, season, week int) ([]models.PlayerProp, error) {
	db := s.db.WithContext(ctx)

	var gameIDs []int
	if err := db.Model(&models.Game{}).Where("season = ? AND week = ?", season, week).Pluck("id", &gameIDs).Error; err != nil {
		return nil, fmt.Errorf("load provider games: %w", err)
	}
	if len(gameIDs) == 0 {
		return nil, nil
	}

	var rows []models.PlayerProp
	err := db.Where("game_id IN ? AND vendor = ? AND market_type = ?", gameIDs, models.VendorDraftKings, models.MarketOverUnder).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load props: %w", err)
	}
	return rows, nil
}

func (s *SmashService) invalidateFeed(ctx context.Context, season, week int) {
	if s.cache == nil {
		return
	}
	prefixer, ok := s.cache.(interface {
		DeletePrefix(ctx context.Context, prefix string) error
	})
	if !ok {
		return
	}
	if err := prefixer.DeletePrefix(ctx, fmt.Sprintf("smash_feed:%d:%d:", season, week)); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate smash feed cache")
	}
}

// Warm computes the week's feed at limit and stores it in the cache so
// the first request after a sync is a hit. It returns the feed size.
func (s *SmashService) Warm(ctx context.Context, season, week, limit int) (int, error) {
	spots, err := s.feed(ctx, season, week, limit)
	if err != nil {
		return 0, err
	}
	if s.cache == nil {
		return len(spots), nil
	}

	key := SmashFeedCacheKey(season, week, limit)
	if retrier, ok := s.cache.(interface {
		SetWithRetry(ctx context.Context, key string, value interface{}, expiration time.Duration, maxRetries int) error
	}); ok {
		err = retrier.SetWithRetry(ctx, key, spots, s.ttl, warmRetries)
	} else {
		err = s.cache.Set(ctx, key, spots, s.ttl)
	}
	if err != nil {
		return 0, fmt.Errorf("store smash feed: %w", err)
	}
	return len(spots), nil
}

// Feed returns the week's smash spots: the best rows per position group,
// rescaled per position, capped and merged best-first. An empty week is
// materialized on demand.
func (s *SmashService) Feed(ctx context.Context, season, week, limit int) ([]smash.Spot, error) {
	return remember(ctx, s.cache, SmashFeedCacheKey(season, week, limit), s.ttl, func() ([]smash.Spot, error) {
		return s.feed(ctx, season, week, limit)
	})
}

func (s *SmashService) feed(ctx context.Context, season, week, limit int) ([]smash.Spot, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.SmashScore{}).Where("season = ? AND week = ?", season, week).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		if _, err := s.Materialize(ctx, season, week); err != nil {
			return nil, err
		}
	}

	perGroup := limit
	if perGroup < minPerGroup {
		perGroup = minPerGroup
	}

	var rows []models.SmashScore
	for _, positions := range feedGroups {
		var group []models.SmashScore
		err := s.db.WithContext(ctx).
			Where("season = ? AND week = ? AND position IN ?", season, week, positions).
			Order("smash_score DESC").
			Order("player_id ASC").
			Limit(perGroup).
			Find(&group).Error
		if err != nil {
			return nil, err
		}
		rows = append(rows, group...)
	}

	players, err := s.players(ctx, rows)
	if err != nil {
		return nil, err
	}

	spots := make([]smash.Spot, 0, len(rows))
	for _, r := range rows {
		spots = append(spots, newSpot(r, players[r.PlayerID]))
	}
	smash.NormalizeByPosition(spots)
	return smash.Feed(spots, nil), nil
}

func (s *SmashService) players(ctx context.Context, rows []models.SmashScore) (map[int]models.Player, error) {
	ids := make([]int, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.PlayerID)
	}
	out := make(map[int]models.Player, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var players []models.Player
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&players).Error; err != nil {
		return nil, err
	}
	for _, p := range players {
		out[p.ID] = p
	}
	return out, nil
}

func newSpot(r models.SmashScore, p models.Player) smash.Spot {
	var dk *float64
	if r.DKLine != nil && *r.DKLine != 0 {
		v := *r.DKLine
		dk = &v
	}

	raw := map[string]float64{}
	if len(r.RawStats) > 0 {
		if err := json.Unmarshal(r.RawStats, &raw); err != nil {
			logrus.WithError(err).WithField("player_id", r.PlayerID).Warn("Invalid smash raw stats")
		}
	}

	flags := []string(r.MatchupFlags)
	if flags == nil {
		flags = []string{}
	}

	return smash.Spot{
		PlayerID:     strconv.Itoa(r.PlayerID),
		PlayerName:   r.PlayerName,
		Position:     r.Position,
		Team:         r.Team,
		Opponent:     r.Opponent,
		SmashScore:   r.SmashScore,
		DKLine:       dk,
		GameTotal:    r.GameTotal,
		OpponentRank: smash.PercentileToRank(r.OppDefRankPct),
		MatchupFlags: flags,
		PhotoURL:     p.PhotoURL(),
		Stat1:        r.Stat1,
		Stat2:        r.Stat2,
		Stat3:        r.Stat3,
		RawStats:     raw,
	}
}
