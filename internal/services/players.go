package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/models"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/database"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	nonSearchChars = regexp.MustCompile(`[^a-zA-Z0-9 ]+`)
	spaceRuns      = regexp.MustCompile(`\s+`)
)

// Positions that never appear on the yardage leaderboard.
var blockedPositions = map[string]bool{
	"DB": true, "CB": true, "S": true, "SS": true, "FS": true,
	"LB": true, "ILB": true, "OLB": true,
	"DL": true, "DE": true, "DT": true, "NT": true,
	"OL": true, "OT": true, "OG": true, "C": true,
	"K": true, "P": true, "LS": true,
}

var unknownPositions = map[string]bool{"UNK": true, "UNKNOWN": true, "NULL": true, "ROOKIE": true}

// SanitizeSearch reduces free text to letters, digits and single spaces.
// Anything shorter than two characters is no search at all.
func SanitizeSearch(q string) string {
	s := nonSearchChars.ReplaceAllString(strings.TrimSpace(q), " ")
	s = strings.TrimSpace(spaceRuns.ReplaceAllString(s, " "))
	if len(s) < 2 {
		return ""
	}
	return s
}

type PlayerFilter struct {
	Season   int
	Position string
	Team     string
	Query    string
	Limit    int
	Offset   int
}

// PlayerRow is one line of the players table.
type PlayerRow struct {
	PlayerID             string   `json:"player_id"`
	PlayerName           string   `json:"player_name"`
	Team                 string   `json:"team"`
	Position             string   `json:"position"`
	Season               int      `json:"season"`
	Games                int      `json:"games"`
	Targets              int      `json:"targets"`
	Receptions           int      `json:"receptions"`
	ReceivingYards       int      `json:"receivingYards"`
	ReceivingTouchdowns  int      `json:"receivingTouchdowns"`
	AvgYardsPerCatch     float64  `json:"avgYardsPerCatch"`
	RushAttempts         int      `json:"rushAttempts"`
	RushingYards         int      `json:"rushingYards"`
	RushingTouchdowns    int      `json:"rushingTouchdowns"`
	AvgYardsPerRush      float64  `json:"avgYardsPerRush"`
	PassingAttempts      int      `json:"passingAttempts"`
	PassingCompletions   int      `json:"passingCompletions"`
	PassingYards         int      `json:"passingYards"`
	PassingTouchdowns    int      `json:"passingTouchdowns"`
	PassingInterceptions int      `json:"passingInterceptions"`
	QBRating             *float64 `json:"qbRating"`
	QBR                  *float64 `json:"qbr"`
	PhotoURL             *string  `json:"photoUrl"`
}

// sortYards is the yardage the leaderboard orders a row by.
func (r PlayerRow) sortYards() int {
	switch r.Position {
	case "QB":
		return r.PassingYards
	case "RB", "HB":
		return r.RushingYards
	case "WR", "TE":
		return r.ReceivingYards
	}
	return r.PassingYards + r.RushingYards + r.ReceivingYards
}

func newPlayerRow(p models.Player, team string, season int, st models.PlayerSeasonStat) PlayerRow {
	pos := strings.ToUpper(strings.TrimSpace(p.Position))
	if pos == "" {
		pos = "UNK"
	}
	row := PlayerRow{
		PlayerID:             fmt.Sprint(p.ID),
		PlayerName:           p.FullName(),
		Team:                 team,
		Position:             pos,
		Season:               season,
		Games:                st.GamesPlayed,
		Targets:              st.ReceivingTargets,
		Receptions:           st.Receptions,
		ReceivingYards:       st.ReceivingYards,
		ReceivingTouchdowns:  st.ReceivingTouchdowns,
		RushAttempts:         st.RushingAttempts,
		RushingYards:         st.RushingYards,
		RushingTouchdowns:    st.RushingTouchdowns,
		PassingAttempts:      st.PassingAttempts,
		PassingCompletions:   st.PassingCompletions,
		PassingYards:         st.PassingYards,
		PassingTouchdowns:    st.PassingTouchdowns,
		PassingInterceptions: st.PassingInterceptions,
		QBRating:             st.QBR,
		QBR:                  st.QBR,
		PhotoURL:             p.PhotoURL(),
	}
	if st.Receptions > 0 {
		row.AvgYardsPerCatch = float64(st.ReceivingYards) / float64(st.Receptions)
	}
	if st.RushingAttempts > 0 {
		row.AvgYardsPerRush = float64(st.RushingYards) / float64(st.RushingAttempts)
	}
	return row
}

type PlayerService struct {
	db     *database.DB
	logger *logrus.Logger
}

func NewPlayerService(db *database.DB, logger *logrus.Logger) *PlayerService {
	return &PlayerService{db: db, logger: logger}
}

// List returns a team's roster when a team is given and the season's
// yardage leaderboard otherwise.
func (s *PlayerService) List(ctx context.Context, f PlayerFilter) ([]PlayerRow, error) {
	if f.Limit < 1 {
		f.Limit = 1
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.Query = SanitizeSearch(f.Query)
	f.Position = strings.ToUpper(strings.TrimSpace(f.Position))

	if f.Team != "" {
		return s.roster(ctx, f)
	}
	return s.leaderboard(ctx, f)
}

func (s *PlayerService) roster(ctx context.Context, f PlayerFilter) ([]PlayerRow, error) {
	db := s.db.WithContext(ctx)
	team, err := models.GetTeamByAbbreviation(s.db, f.Team)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []PlayerRow{}, nil
		}
		return nil, err
	}

	q := db.Where("team_id = ?", team.ID)
	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like)
	}
	if f.Position != "" {
		q = q.Where("position = ?", f.Position)
	}

	var players []models.Player
	if err := q.Order("position ASC, last_name ASC").Limit(f.Limit).Offset(f.Offset).Find(&players).Error; err != nil {
		return nil, err
	}

	stats, err := s.seasonStats(ctx, playerIDs(players), f.Season)
	if err != nil {
		return nil, err
	}

	out := make([]PlayerRow, 0, len(players))
	for _, p := range players {
		row := newPlayerRow(p, team.Abbreviation, f.Season, stats[p.ID])
		// Roster rows show raw counting stats only.
		row.AvgYardsPerCatch, row.AvgYardsPerRush = 0, 0
		out = append(out, row)
	}
	return out, nil
}

func (s *PlayerService) leaderboard(ctx context.Context, f PlayerFilter) ([]PlayerRow, error) {
	q := s.db.WithContext(ctx).
		Model(&models.PlayerSeasonStat{}).
		Joins("JOIN players ON players.id = player_season_stats.player_id").
		Where("player_season_stats.season = ? AND player_season_stats.postseason = ?", f.Season, false)

	if f.Query != "" {
		if strings.Contains(f.Query, " ") {
			parts := strings.Fields(f.Query)
			q = q.Where("LOWER(players.first_name) LIKE ? AND LOWER(players.last_name) LIKE ?",
				"%"+strings.ToLower(parts[0])+"%", "%"+strings.ToLower(parts[len(parts)-1])+"%")
		} else {
			like := "%" + strings.ToLower(f.Query) + "%"
			q = q.Where("LOWER(players.first_name) LIKE ? OR LOWER(players.last_name) LIKE ?", like, like)
		}
		q = q.Where("players.position IN ?", SkillPositions)
	}

	var stats []models.PlayerSeasonStat
	if err := q.Order("player_season_stats.passing_yards DESC").Limit(5000).Find(&stats).Error; err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(stats))
	for _, st := range stats {
		ids = append(ids, st.PlayerID)
	}
	players, err := s.playersByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(stats))
	rows := make([]PlayerRow, 0, len(stats))
	for _, st := range stats {
		p, ok := players[st.PlayerID]
		if !ok || seen[p.ID] {
			continue
		}
		seen[p.ID] = true

		pos := strings.ToUpper(strings.TrimSpace(p.Position))
		if pos == "" {
			pos = "UNK"
		}
		if blockedPositions[pos] || !matchesPositionFilter(pos, f.Position, st) {
			continue
		}

		team := ""
		if p.Team != nil {
			team = p.Team.Abbreviation
		}
		rows = append(rows, newPlayerRow(p, team, f.Season, st))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].sortYards() > rows[j].sortYards()
	})

	if f.Offset >= len(rows) {
		return []PlayerRow{}, nil
	}
	end := f.Offset + f.Limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[f.Offset:end], nil
}

// matchesPositionFilter lets players with an unknown position through when
// their production fits the requested position.
func matchesPositionFilter(pos, filter string, st models.PlayerSeasonStat) bool {
	if filter == "" {
		return true
	}
	if !unknownPositions[pos] {
		return pos == filter
	}
	switch filter {
	case "QB":
		return st.PassingYards != 0
	case "RB":
		return st.RushingYards != 0
	case "WR", "TE":
		return st.ReceivingYards != 0
	}
	return true
}

func (s *PlayerService) playersByID(ctx context.Context, ids []int) (map[int]models.Player, error) {
	out := make(map[int]models.Player, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var players []models.Player
	if err := s.db.WithContext(ctx).Preload("Team").Where("id IN ?", ids).Find(&players).Error; err != nil {
		return nil, err
	}
	for _, p := range players {
		out[p.ID] = p
	}
	return out, nil
}

func (s *PlayerService) seasonStats(ctx context.Context, ids []int, season int) (map[int]models.PlayerSeasonStat, error) {
	out := make(map[int]models.PlayerSeasonStat, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var stats []models.PlayerSeasonStat
	err := s.db.WithContext(ctx).
		Where("player_id IN ? AND season = ? AND postseason = ?", ids, season, false).
		Find(&stats).Error
	if err != nil {
		return nil, err
	}
	for _, st := range stats {
		out[st.PlayerID] = st
	}
	return out, nil
}

func playerIDs(players []models.Player) []int {
	ids := make([]int, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return ids
}

// GameLog is one game of a player's box score with the matchup resolved.
type GameLog struct {
	Season             int      `json:"season"`
	Week               int      `json:"week"`
	GameID             string   `json:"game_id"`
	Team               string   `json:"team"`
	Opponent           string   `json:"opponent"`
	HomeTeam           string   `json:"home_team"`
	AwayTeam           string   `json:"away_team"`
	Location           string   `json:"location"`
	IsPostseason       bool     `json:"is_postseason"`
	Targets            int      `json:"targets"`
	Receptions         int      `json:"receptions"`
	RecYards           int      `json:"rec_yards"`
	RecTDs             int      `json:"rec_tds"`
	RushAttempts       int      `json:"rush_attempts"`
	RushYards          int      `json:"rush_yards"`
	RushTDs            int      `json:"rush_tds"`
	PassingAttempts    int      `json:"passing_attempts"`
	PassingCompletions int      `json:"passing_completions"`
	PassingYards       int      `json:"passing_yards"`
	PassingTDs         int      `json:"passing_tds"`
	Interceptions      int      `json:"interceptions"`
	QBRating           *float64 `json:"qb_rating"`
}

type PlayerProfile struct {
	ID           string  `json:"player_id"`
	Name         string  `json:"player_name"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Position     string  `json:"position"`
	Team         string  `json:"team"`
	TeamName     string  `json:"team_name"`
	JerseyNumber string  `json:"jersey_number"`
	Height       string  `json:"height"`
	Weight       string  `json:"weight"`
	College      string  `json:"college"`
	Age          *int    `json:"age"`
	PhotoURL     *string `json:"photoUrl"`
}

type PlayerDetail struct {
	Player      PlayerProfile `json:"player"`
	Season      int           `json:"season"`
	SeasonStats *PlayerRow    `json:"season_stats"`
	GameLogs    []GameLog     `json:"game_logs"`
	Injury      *InjuryRow    `json:"injury"`
}

// Detail returns a player's profile, season line, game logs and most
// recent injury report.
func (s *PlayerService) Detail(ctx context.Context, playerID, season int, includePostseason bool) (*PlayerDetail, error) {
	db := s.db.WithContext(ctx)

	var p models.Player
	if err := db.Preload("Team").First(&p, playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("player %d: %w", playerID, utils.ErrNotFound)
		}
		return nil, err
	}

	profile := PlayerProfile{
		ID:           fmt.Sprint(p.ID),
		Name:         p.FullName(),
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Position:     p.Position,
		JerseyNumber: p.JerseyNumber,
		Height:       p.Height,
		Weight:       p.Weight,
		College:      p.College,
		Age:          p.Age,
		PhotoURL:     p.PhotoURL(),
	}
	if p.Team != nil {
		profile.Team = p.Team.Abbreviation
		profile.TeamName = p.Team.Name
	}

	detail := &PlayerDetail{Player: profile, Season: season, GameLogs: []GameLog{}}

	stats, err := s.seasonStats(ctx, []int{p.ID}, season)
	if err != nil {
		return nil, err
	}
	if st, ok := stats[p.ID]; ok {
		row := newPlayerRow(p, profile.Team, season, st)
		detail.SeasonStats = &row
	}

	if detail.GameLogs, err = s.GameLogs(ctx, p.ID, season, includePostseason); err != nil {
		return nil, err
	}

	var inj models.Injury
	err = db.Where("player_id = ?", p.ID).Order("date DESC").First(&inj).Error
	switch {
	case err == nil:
		row := newInjuryRow(inj, p)
		detail.Injury = &row
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	return detail, nil
}

// GameLogs lists a player's games for a season in week order. Postseason
// games are left out unless asked for.
func (s *PlayerService) GameLogs(ctx context.Context, playerID, season int, includePostseason bool) ([]GameLog, error) {
	db := s.db.WithContext(ctx)

	var rows []models.PlayerGameStat
	if err := db.Where("player_id = ? AND season = ?", playerID, season).Order("week ASC").Limit(400).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []GameLog{}, nil
	}

	gameIDs := make([]int, 0, len(rows))
	for _, r := range rows {
		gameIDs = append(gameIDs, r.GameID)
	}
	var games []models.Game
	if err := db.Where("id IN ?", gameIDs).Find(&games).Error; err != nil {
		return nil, err
	}
	gameMap := make(map[int]models.Game, len(games))
	for _, g := range games {
		gameMap[g.ID] = g
	}

	var teams []models.Team
	if err := db.Find(&teams).Error; err != nil {
		return nil, err
	}
	abbr := make(map[int]string, len(teams))
	for _, t := range teams {
		abbr[t.ID] = t.Abbreviation
	}

	out := make([]GameLog, 0, len(rows))
	for _, r := range rows {
		g, hasGame := gameMap[r.GameID]
		if g.Postseason && !includePostseason {
			continue
		}

		log := GameLog{
			Season:             r.Season,
			Week:               r.Week,
			GameID:             fmt.Sprint(r.GameID),
			Location:           "home",
			IsPostseason:       g.Postseason,
			Targets:            r.ReceivingTargets,
			Receptions:         r.Receptions,
			RecYards:           r.ReceivingYards,
			RecTDs:             r.ReceivingTouchdowns,
			RushAttempts:       r.RushingAttempts,
			RushYards:          r.RushingYards,
			RushTDs:            r.RushingTouchdowns,
			PassingAttempts:    r.PassingAttempts,
			PassingCompletions: r.PassingCompletions,
			PassingYards:       r.PassingYards,
			PassingTDs:         r.PassingTouchdowns,
			Interceptions:      r.PassingInterceptions,
			QBRating:           r.QBR,
		}
		if hasGame {
			log.HomeTeam = abbr[g.HomeTeamID]
			log.AwayTeam = abbr[g.VisitorTeamID]
		}
		if r.TeamID != nil {
			log.Team = abbr[*r.TeamID]
			if hasGame {
				if *r.TeamID == g.HomeTeamID {
					log.Opponent = log.AwayTeam
				} else {
					log.Location = "away"
					log.Opponent = log.HomeTeam
				}
			}
		}
		out = append(out, log)
	}
	return out, nil
}

// CompareEntry is one player's column in a head-to-head comparison.
type CompareEntry struct {
	PlayerID   string             `json:"player_id"`
	PlayerName string             `json:"player_name"`
	Position   string             `json:"position"`
	Team       string             `json:"team"`
	PhotoURL   *string            `json:"photoUrl"`
	Stats      map[string]float64 `json:"stats"`
}

type Comparison struct {
	Season  int               `json:"season"`
	Players []CompareEntry    `json:"players"`
	Leaders map[string]string `json:"leaders"`
}

var compareStats = []string{
	"games", "passing_yards", "passing_tds", "interceptions", "completion_pct",
	"rushing_attempts", "rushing_yards", "rushing_tds", "yards_per_rush",
	"targets", "receptions", "receiving_yards", "receiving_tds", "yards_per_catch",
}

var compareLowerIsBetter = map[string]bool{"interceptions": true}

// Compare lines up two to four players' season totals and marks the
// leader of each stat.
func (s *PlayerService) Compare(ctx context.Context, ids []int, season int) (*Comparison, error) {
	if len(ids) < 2 || len(ids) > 4 {
		return nil, fmt.Errorf("compare needs 2 to 4 players, got %d: %w", len(ids), utils.ErrInvalidInput)
	}

	players, err := s.playersByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	stats, err := s.seasonStats(ctx, ids, season)
	if err != nil {
		return nil, err
	}

	out := &Comparison{Season: season, Players: make([]CompareEntry, 0, len(ids)), Leaders: map[string]string{}}
	for _, id := range ids {
		p, ok := players[id]
		if !ok {
			return nil, fmt.Errorf("player %d: %w", id, utils.ErrNotFound)
		}
		team := ""
		if p.Team != nil {
			team = p.Team.Abbreviation
		}
		row := newPlayerRow(p, team, season, stats[id])
		entry := CompareEntry{
			PlayerID:   row.PlayerID,
			PlayerName: row.PlayerName,
			Position:   row.Position,
			Team:       team,
			PhotoURL:   row.PhotoURL,
			Stats: map[string]float64{
				"games":            float64(row.Games),
				"passing_yards":    float64(row.PassingYards),
				"passing_tds":      float64(row.PassingTouchdowns),
				"interceptions":    float64(row.PassingInterceptions),
				"completion_pct":   round1(stats[id].PassingCompletionPct),
				"rushing_attempts": float64(row.RushAttempts),
				"rushing_yards":    float64(row.RushingYards),
				"rushing_tds":      float64(row.RushingTouchdowns),
				"yards_per_rush":   round1(row.AvgYardsPerRush),
				"targets":          float64(row.Targets),
				"receptions":       float64(row.Receptions),
				"receiving_yards":  float64(row.ReceivingYards),
				"receiving_tds":    float64(row.ReceivingTouchdowns),
				"yards_per_catch":  round1(row.AvgYardsPerCatch),
			},
		}
		out.Players = append(out.Players, entry)
	}

	for _, key := range compareStats {
		leader, best, found := "", 0.0, false
		for _, e := range out.Players {
			v := e.Stats[key]
			if compareLowerIsBetter[key] {
				// Only players who threw can lead a passing mistake stat.
				if e.Stats["passing_yards"] == 0 {
					continue
				}
				if !found || v < best {
					leader, best, found = e.PlayerID, v, true
				}
				continue
			}
			if v > 0 && (!found || v > best) {
				leader, best, found = e.PlayerID, v, true
			}
		}
		if found {
			out.Leaders[key] = leader
		}
	}
	return out, nil
}
