package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/models"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/props"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/providers"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/database"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/metrics"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSyncInProgress is returned when a sync is requested while one runs.
var ErrSyncInProgress = errors.New("sync already in progress")

// PropVendors are the books whose player props are stored.
var PropVendors = []string{"draftkings", "fanduel", "caesars", "betmgm", "bet365"}

// LineVendor is the book whose game lines are stored.
const LineVendor = "draftkings"

// StatsProvider is the slice of the BALLDONTLIE client the sync uses.
type StatsProvider interface {
	Teams(ctx context.Context) ([]providers.Team, error)
	ActivePlayers(ctx context.Context) ([]providers.Player, error)
	Standings(ctx context.Context, season int) ([]providers.Standing, error)
	TeamSeasonStats(ctx context.Context, season int, teamIDs ...int) ([]providers.TeamSeasonStat, error)
	Roster(ctx context.Context, teamID, season int) ([]providers.RosterSlot, error)
	SeasonStats(ctx context.Context, season int) ([]providers.SeasonStat, error)
	GameStats(ctx context.Context, season int, weeks ...int) ([]providers.GameStat, error)
	TeamGameStats(ctx context.Context, season int, weeks ...int) ([]providers.TeamGameStat, error)
	Injuries(ctx context.Context, teamIDs ...int) ([]providers.Injury, error)
	Games(ctx context.Context, season int, weeks ...int) ([]providers.Game, error)
	Odds(ctx context.Context, gameIDs ...int) ([]providers.GameOdds, error)
	PlayerProps(ctx context.Context, gameID int, vendors ...string) ([]providers.PlayerProp, error)
}

type SyncResult struct {
	Season       int           `json:"season"`
	Week         int           `json:"week"`
	Teams        int           `json:"teams"`
	Players      int           `json:"players"`
	Standings    int           `json:"standings"`
	TeamStats    int           `json:"team_stats"`
	Rosters      int           `json:"rosters"`
	SeasonStats  int           `json:"season_stats"`
	GameStats    int           `json:"game_stats"`
	TeamGames    int           `json:"team_game_stats"`
	Injuries     int           `json:"injuries"`
	Games        int           `json:"games"`
	Lines        int           `json:"lines"`
	Props        int           `json:"props"`
	Features     int           `json:"features"`
	SmashRows    int           `json:"smash_rows"`
	FeedSize     int           `json:"feed_size"`
	ProviderSkip bool          `json:"provider_skipped"`
	Duration     time.Duration `json:"duration_ns"`
	CompletedAt  time.Time     `json:"completed_at"`
}

type SyncStatus struct {
	Scheduled  bool        `json:"scheduled"`
	Syncing    bool        `json:"syncing"`
	Schedule   string      `json:"schedule"`
	Season     int         `json:"season"`
	LastRun    *time.Time  `json:"last_run"`
	LastError  string      `json:"last_error,omitempty"`
	LastResult *SyncResult `json:"last_result,omitempty"`
	NextRuns   []time.Time `json:"next_runs"`
}

// SyncScheduler pulls provider data on a cron schedule and rebuilds the
// latest week's smash scores afterwards.
type SyncScheduler struct {
	db       *database.DB
	provider StatsProvider
	features *FeatureService
	smash    *SmashService
	schedule *ScheduleService
	injuries *InjuryService
	cache    Cache
	hub      *WebSocketHub
	metrics  *metrics.Manager
	logger   *logrus.Logger
	cron     *cron.Cron
	spec     string
	season   int

	mu         sync.Mutex
	isRunning  bool
	syncing    bool
	lastRun    *time.Time
	lastError  error
	lastResult *SyncResult
}

// NewSyncScheduler wires the sync. provider may be nil, in which case only
// the feature build and smash materialization run.
func NewSyncScheduler(
	db *database.DB,
	provider StatsProvider,
	features *FeatureService,
	smash *SmashService,
	schedule *ScheduleService,
	injuries *InjuryService,
	cache Cache,
	hub *WebSocketHub,
	m *metrics.Manager,
	logger *logrus.Logger,
	spec string,
	season int,
) *SyncScheduler {
	return &SyncScheduler{
		db:       db,
		provider: provider,
		features: features,
		smash:    smash,
		schedule: schedule,
		injuries: injuries,
		cache:    cache,
		hub:      hub,
		metrics:  m,
		logger:   logger,
		cron:     cron.New(),
		spec:     spec,
		season:   season,
	}
}

// Start schedules the sync. It does not run one immediately.
func (s *SyncScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("sync scheduler is already running")
	}
	if _, err := s.cron.AddFunc(s.spec, s.runScheduled); err != nil {
		return fmt.Errorf("failed to schedule sync %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("schedule", s.spec).Info("Sync scheduler started")
	return nil
}

func (s *SyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Sync scheduler stopped")
}

func (s *SyncScheduler) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	if _, err := s.TriggerNow(ctx); err != nil && !errors.Is(err, ErrSyncInProgress) {
		s.logger.WithError(err).Error("Scheduled sync failed")
	}
}

// TriggerNow runs one sync synchronously. Overlapping runs are rejected.
func (s *SyncScheduler) TriggerNow(ctx context.Context) (*SyncResult, error) {
	s.mu.Lock()
	if s.syncing {
		s.mu.Unlock()
		return nil, ErrSyncInProgress
	}
	s.syncing = true
	s.mu.Unlock()

	start := time.Now()
	result, err := s.sync(ctx)
	if result != nil {
		result.Duration = time.Since(start)
		result.CompletedAt = time.Now().UTC()
	}
	s.metrics.RecordSync(err)

	s.mu.Lock()
	now := time.Now().UTC()
	s.syncing = false
	s.lastRun = &now
	s.lastError = err
	if err == nil {
		s.lastResult = result
	}
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"season":     result.Season,
		"week":       result.Week,
		"players":    result.Players,
		"injuries":   result.Injuries,
		"props":      result.Props,
		"features":   result.Features,
		"smash_rows": result.SmashRows,
		"duration":   result.Duration.String(),
	}).Info("Sync completed")

	if err := s.hub.BroadcastToTopic(TopicSync, "sync_completed", result); err != nil {
		s.logger.WithError(err).Warn("Failed to broadcast sync result")
	}
	return result, nil
}

func (s *SyncScheduler) Status() SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := SyncStatus{
		Scheduled:  s.isRunning,
		Syncing:    s.syncing,
		Schedule:   s.spec,
		Season:     s.season,
		LastRun:    s.lastRun,
		LastResult: s.lastResult,
		NextRuns:   []time.Time{},
	}
	if s.lastError != nil {
		status.LastError = s.lastError.Error()
	}
	for _, e := range s.cron.Entries() {
		status.NextRuns = append(status.NextRuns, e.Next)
	}
	return status
}

func (s *SyncScheduler) sync(ctx context.Context) (*SyncResult, error) {
	week, err := s.schedule.LatestWeek(ctx, s.season)
	if err != nil {
		return nil, fmt.Errorf("latest week: %w", err)
	}
	result := &SyncResult{Season: s.season, Week: week}

	if s.provider == nil {
		result.ProviderSkip = true
	} else if err := s.syncProvider(ctx, result); err != nil {
		return nil, err
	}

	if result.Features, err = s.features.Build(ctx, s.season, week); err != nil {
		return nil, fmt.Errorf("build smash features: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Clear(ctx); err != nil {
			s.logger.WithError(err).Warn("Failed to clear cache after sync")
		}
	}

	rows, err := s.smash.Materialize(ctx, s.season, week)
	if err != nil {
		return nil, fmt.Errorf("materialize smash scores: %w", err)
	}
	result.SmashRows = rows

	if result.FeedSize, err = s.smash.Warm(ctx, s.season, week, DefaultFeedLimit); err != nil {
		s.logger.WithError(err).Warn("Failed to warm smash feed cache")
	}
	return result, nil
}

func (s *SyncScheduler) syncProvider(ctx context.Context, result *SyncResult) error {
	db := s.db.WithContext(ctx)

	teams, err := s.provider.Teams(ctx)
	if err != nil {
		return fmt.Errorf("fetch teams: %w", err)
	}
	teamRows := make([]models.Team, 0, len(teams))
	for _, t := range teams {
		if t.ID != 0 && t.Abbreviation != "" {
			teamRows = append(teamRows, providers.MapTeam(t))
		}
	}
	// colors are curated locally and never come from the provider
	if err := upsert(db, teamRows, "abbreviation", "name", "conference", "division", "updated_at"); err != nil {
		return fmt.Errorf("store teams: %w", err)
	}
	result.Teams = len(teamRows)

	known, err := s.knownTeams(ctx)
	if err != nil {
		return err
	}

	if result.Players, err = s.syncPlayers(ctx, known); err != nil {
		return err
	}

	standings, err := s.provider.Standings(ctx, s.season)
	if err != nil {
		return fmt.Errorf("fetch standings: %w", err)
	}
	standingRows := make([]models.TeamStanding, 0, len(standings))
	for _, st := range standings {
		if known[st.Team.ID] {
			row := providers.MapStanding(st)
			row.Season = s.season
			standingRows = append(standingRows, row)
		}
	}
	if err := upsertAll(db, standingRows); err != nil {
		return fmt.Errorf("store standings: %w", err)
	}
	result.Standings = len(standingRows)

	if result.TeamStats, err = s.syncTeamSeasonStats(ctx, known); err != nil {
		return err
	}
	if result.Rosters, err = s.syncRosters(ctx, known); err != nil {
		return err
	}
	if result.SeasonStats, err = s.syncSeasonStats(ctx, known); err != nil {
		return err
	}
	if result.GameStats, result.TeamGames, err = s.syncBoxScores(ctx, known, result.Week); err != nil {
		return err
	}
	if result.Injuries, err = s.syncInjuries(ctx, known); err != nil {
		return err
	}

	games, err := s.provider.Games(ctx, s.season, result.Week)
	if err != nil {
		return fmt.Errorf("fetch games: %w", err)
	}
	gameRows := make([]models.Game, 0, len(games))
	for _, g := range games {
		gameRows = append(gameRows, providers.MapGame(g))
	}
	if err := upsertAll(db, gameRows); err != nil {
		return fmt.Errorf("store games: %w", err)
	}
	result.Games = len(gameRows)

	if result.Lines, err = s.syncLines(ctx, games); err != nil {
		return err
	}

	for _, g := range gameRows {
		raw, err := s.provider.PlayerProps(ctx, g.ID, PropVendors...)
		if err != nil {
			s.logger.WithError(err).WithField("game_id", g.ID).Warn("Failed to fetch player props")
			continue
		}
		propRows := make([]models.PlayerProp, 0, len(raw))
		for _, p := range raw {
			row := providers.MapPlayerProp(p)
			if row.ID == "" || !props.ShouldKeep(row.MarketType, row.PropType) {
				continue
			}
			propRows = append(propRows, row)
		}
		if err := upsertAll(db, propRows); err != nil {
			return fmt.Errorf("store props for game %d: %w", g.ID, err)
		}
		result.Props += len(propRows)
	}
	return nil
}

// knownTeams is the set of team ids stored locally.
func (s *SyncScheduler) knownTeams(ctx context.Context) (map[int]bool, error) {
	var ids []int
	if err := s.db.WithContext(ctx).Model(&models.Team{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}
	out := make(map[int]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func sortedTeamIDs(known map[int]bool) []int {
	out := make([]int, 0, len(known))
	for id := range known {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// mapPlayers converts provider players, dropping duplicates and team ids
// that are not stored locally.
func mapPlayers(raw []providers.Player, known map[int]bool) []models.Player {
	seen := make(map[int]bool, len(raw))
	out := make([]models.Player, 0, len(raw))
	for _, rp := range raw {
		if rp.ID == 0 || seen[rp.ID] {
			continue
		}
		seen[rp.ID] = true
		p := providers.MapPlayer(rp)
		if p.TeamID != nil && !known[*p.TeamID] {
			p.TeamID = nil
		}
		out = append(out, p)
	}
	return out
}

// ensurePlayers creates referenced players missing locally without
// touching existing rows.
func (s *SyncScheduler) ensurePlayers(ctx context.Context, raw []providers.Player, known map[int]bool) error {
	players := mapPlayers(raw, known)
	if len(players) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(players, 200).Error
}

// syncPlayers refreshes the active player pool. ESPN ids are curated
// locally and never overwritten.
func (s *SyncScheduler) syncPlayers(ctx context.Context, known map[int]bool) (int, error) {
	raw, err := s.provider.ActivePlayers(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch players: %w", err)
	}
	rows := mapPlayers(raw, known)
	err = upsert(s.db.WithContext(ctx), rows,
		"first_name", "last_name", "position", "team_id", "jersey_number",
		"height", "weight", "college", "age", "updated_at")
	if err != nil {
		return 0, fmt.Errorf("store players: %w", err)
	}
	return len(rows), nil
}

func (s *SyncScheduler) syncTeamSeasonStats(ctx context.Context, known map[int]bool) (int, error) {
	raw, err := s.provider.TeamSeasonStats(ctx, s.season, sortedTeamIDs(known)...)
	if err != nil {
		return 0, fmt.Errorf("fetch team season stats: %w", err)
	}
	rows := make([]models.TeamSeasonStat, 0, len(raw))
	for _, st := range raw {
		if known[st.Team.ID] {
			rows = append(rows, providers.MapTeamSeasonStat(st, s.season))
		}
	}
	if err := upsertAll(s.db.WithContext(ctx), rows); err != nil {
		return 0, fmt.Errorf("store team season stats: %w", err)
	}
	return len(rows), nil
}

// syncRosters replaces each team's depth chart for the season. A team
// whose roster fails to load keeps its previous chart.
func (s *SyncScheduler) syncRosters(ctx context.Context, known map[int]bool) (int, error) {
	total := 0
	for _, teamID := range sortedTeamIDs(known) {
		slots, err := s.provider.Roster(ctx, teamID, s.season)
		if err != nil {
			s.logger.WithError(err).WithField("team_id", teamID).Warn("Failed to fetch roster")
			continue
		}
		players := make([]providers.Player, 0, len(slots))
		for _, sl := range slots {
			players = append(players, sl.Player)
		}
		if err := s.ensurePlayers(ctx, players, known); err != nil {
			return 0, fmt.Errorf("store roster players: %w", err)
		}

		entries := providers.MapRoster(slots, teamID, s.season)
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("team_id = ? AND season = ?", teamID, s.season).Delete(&models.RosterEntry{}).Error; err != nil {
				return err
			}
			if len(entries) == 0 {
				return nil
			}
			return tx.CreateInBatches(entries, 200).Error
		})
		if err != nil {
			return 0, fmt.Errorf("store roster for team %d: %w", teamID, err)
		}
		total += len(entries)
	}
	return total, nil
}

func (s *SyncScheduler) syncSeasonStats(ctx context.Context, known map[int]bool) (int, error) {
	raw, err := s.provider.SeasonStats(ctx, s.season)
	if err != nil {
		return 0, fmt.Errorf("fetch season stats: %w", err)
	}
	players := make([]providers.Player, 0, len(raw))
	rows := make([]models.PlayerSeasonStat, 0, len(raw))
	for _, st := range raw {
		row, ok := providers.MapSeasonStat(st)
		if !ok {
			continue
		}
		if row.Season == 0 {
			row.Season = s.season
		}
		players = append(players, st.Player)
		rows = append(rows, row)
	}
	if err := s.ensurePlayers(ctx, players, known); err != nil {
		return 0, fmt.Errorf("store season stat players: %w", err)
	}
	if err := upsertAll(s.db.WithContext(ctx), rows); err != nil {
		return 0, fmt.Errorf("store season stats: %w", err)
	}
	return len(rows), nil
}

// syncBoxScores replaces the player and team box scores of every week
// before week.
func (s *SyncScheduler) syncBoxScores(ctx context.Context, known map[int]bool, week int) (int, int, error) {
	if week <= 1 {
		return 0, 0, nil
	}
	weeks := make([]int, 0, week-1)
	for w := 1; w < week; w++ {
		weeks = append(weeks, w)
	}

	raw, err := s.provider.GameStats(ctx, s.season, weeks...)
	if err != nil {
		return 0, 0, fmt.Errorf("fetch game stats: %w", err)
	}
	players := make([]providers.Player, 0, len(raw))
	rows := make([]models.PlayerGameStat, 0, len(raw))
	gameIDs := make([]int, 0)
	seenGame := make(map[int]bool)
	for _, st := range raw {
		row, ok := providers.MapGameStat(st)
		if !ok {
			continue
		}
		if row.TeamID != nil && !known[*row.TeamID] {
			row.TeamID = nil
		}
		if !seenGame[row.GameID] {
			seenGame[row.GameID] = true
			gameIDs = append(gameIDs, row.GameID)
		}
		players = append(players, st.Player)
		rows = append(rows, row)
	}
	if err := s.ensurePlayers(ctx, players, known); err != nil {
		return 0, 0, fmt.Errorf("store game stat players: %w", err)
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(gameIDs) > 0 {
			if err := tx.Where("game_id IN ?", gameIDs).Delete(&models.PlayerGameStat{}).Error; err != nil {
				return err
			}
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 200).Error
	})
	if err != nil {
		return 0, 0, fmt.Errorf("store game stats: %w", err)
	}

	teamRaw, err := s.provider.TeamGameStats(ctx, s.season, weeks...)
	if err != nil {
		return 0, 0, fmt.Errorf("fetch team game stats: %w", err)
	}
	teamRows := make([]models.TeamGameStat, 0, len(teamRaw))
	for _, st := range teamRaw {
		if row, ok := providers.MapTeamGameStat(st); ok && known[row.TeamID] {
			teamRows = append(teamRows, row)
		}
	}
	if err := upsertAll(s.db.WithContext(ctx), teamRows); err != nil {
		return 0, 0, fmt.Errorf("store team game stats: %w", err)
	}
	return len(rows), len(teamRows), nil
}

// syncLines stores the DraftKings game line of each game onto its
// game_lines row, creating the row when the schedule has none.
func (s *SyncScheduler) syncLines(ctx context.Context, games []providers.Game) (int, error) {
	if len(games) == 0 {
		return 0, nil
	}
	ids := make([]int, 0, len(games))
	for _, g := range games {
		ids = append(ids, g.ID)
	}
	raw, err := s.provider.Odds(ctx, ids...)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to fetch game odds")
		return 0, nil
	}

	latest := make(map[int]providers.GameOdds, len(raw))
	for _, o := range raw {
		if !strings.EqualFold(o.Vendor, LineVendor) {
			continue
		}
		if prev, ok := latest[o.GameID]; ok && prev.UpdatedAt > o.UpdatedAt {
			continue
		}
		latest[o.GameID] = o
	}

	var teams []models.Team
	if err := s.db.WithContext(ctx).Find(&teams).Error; err != nil {
		return 0, err
	}
	abbr := make(map[int]string, len(teams))
	for _, t := range teams {
		abbr[t.ID] = LineAbbr(t.Abbreviation)
	}

	n := 0
	for _, g := range games {
		o, ok := latest[g.ID]
		home, away := abbr[g.HomeTeam.ID], abbr[g.VisitorTeam.ID]
		if !ok || home == "" || away == "" {
			continue
		}
		line, err := s.lineFor(ctx, g, home, away)
		if err != nil {
			return n, err
		}
		providers.ApplyOdds(&line, o)
		line.UpdatedAt = time.Now().UTC()
		if err := s.db.WithContext(ctx).Save(&line).Error; err != nil {
			return n, fmt.Errorf("store line for game %d: %w", g.ID, err)
		}
		n++
	}
	return n, nil
}

// lineFor loads the latest game_lines row for g or starts a new one.
func (s *SyncScheduler) lineFor(ctx context.Context, g providers.Game, home, away string) (models.GameLine, error) {
	gameID := fmt.Sprintf("%d_%02d_%s_%s", g.Season, g.Week, away, home)
	var existing []models.GameLine
	err := s.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("updated_at DESC").
		Limit(1).
		Find(&existing).Error
	if err != nil {
		return models.GameLine{}, fmt.Errorf("load line %s: %w", gameID, err)
	}
	line := models.GameLine{GameID: gameID}
	if len(existing) > 0 {
		line = existing[0]
	}
	line.Season = g.Season
	line.Week = g.Week
	line.HomeTeam = home
	line.AwayTeam = away
	line.GameType = GameType(g.Postseason, g.Week)
	if d := providers.MapGame(g).Date; !d.IsZero() {
		line.Gameday = d.Format("2006-01-02")
	}
	if g.HomeScore != nil && g.VisitorScore != nil {
		line.HomeScore = g.HomeScore
		line.AwayScore = g.VisitorScore
	}
	return line, nil
}

// GameType names a game's round the way game lines do. Provider playoff
// weeks count from 1.
func GameType(postseason bool, week int) string {
	if !postseason {
		return "REG"
	}
	switch week {
	case 1:
		return "WC"
	case 2:
		return "DIV"
	case 3:
		return "CON"
	case 4, 5:
		return "SB"
	}
	return "POST"
}

// syncInjuries replaces the injury table with the provider's current
// reports. Reported players missing locally are created first.
func (s *SyncScheduler) syncInjuries(ctx context.Context, known map[int]bool) (int, error) {
	raw, err := s.provider.Injuries(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch injuries: %w", err)
	}

	players := make([]providers.Player, 0, len(raw))
	rows := make([]models.Injury, 0, len(raw))
	seenInjury := make(map[string]bool, len(raw))
	for _, inj := range raw {
		row, ok := providers.MapInjury(inj)
		if !ok {
			continue
		}
		key := fmt.Sprintf("%d|%s", row.PlayerID, row.Date)
		if seenInjury[key] {
			continue
		}
		seenInjury[key] = true
		rows = append(rows, row)
		players = append(players, inj.Player)
	}

	if err := s.ensurePlayers(ctx, players, known); err != nil {
		return 0, fmt.Errorf("store injured players: %w", err)
	}

	if err := s.injuries.Replace(ctx, rows, true); err != nil {
		return 0, fmt.Errorf("replace injuries: %w", err)
	}
	if err := s.hub.BroadcastToTopic(TopicInjuries, "injuries_updated", map[string]int{"count": len(rows)}); err != nil {
		s.logger.WithError(err).Warn("Failed to broadcast injury update")
	}
	return len(rows), nil
}

func upsertAll[T any](db *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return db.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(rows, 200).Error
}

func upsert[T any](db *gorm.DB, rows []T, columns ...string) error {
	if len(rows) == 0 {
		return nil
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).CreateInBatches(rows, 200).Error
}
