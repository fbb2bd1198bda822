package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/models"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/database"
	"github.com/sirupsen/logrus"
)

// ScheduleGame is a game line decorated with both teams' display data.
type ScheduleGame struct {
	models.GameLine
	HomeColor  string  `json:"home_color"`
	AwayColor  string  `json:"away_color"`
	HomeName   string  `json:"home_name"`
	AwayName   string  `json:"away_name"`
	Conference *string `json:"conference,omitempty"`
}

// TeamGame is one game on a team's schedule, from that team's side.
type TeamGame struct {
	GameID    string   `json:"game_id"`
	Week      int      `json:"week"`
	Gameday   string   `json:"gameday"`
	GameType  string   `json:"game_type"`
	Opponent  string   `json:"opponent"`
	IsHome    bool     `json:"is_home"`
	Result    *string  `json:"result"`
	Score     *string  `json:"score"`
	ATSResult *string  `json:"ats_result"`
	Spread    *float64 `json:"spread"`
}

type ScheduleService struct {
	db     *database.DB
	logger *logrus.Logger
}

func NewScheduleService(db *database.DB, logger *logrus.Logger) *ScheduleService {
	return &ScheduleService{db: db, logger: logger}
}

// LatestWeek is the highest week with any game line in the season, or 1.
func (s *ScheduleService) LatestWeek(ctx context.Context, season int) (int, error) {
	var week sql.NullInt64
	err := s.db.WithContext(ctx).
		Model(&models.GameLine{}).
		Where("season = ?", season).
		Select("MAX(week)").
		Row().Scan(&week)
	if err != nil {
		return 0, err
	}
	if !week.Valid || week.Int64 < 1 {
		return 1, nil
	}
	return int(week.Int64), nil
}

// Week lists a week's games in kickoff order.
func (s *ScheduleService) Week(ctx context.Context, season, week int) ([]ScheduleGame, error) {
	var lines []models.GameLine
	err := s.db.WithContext(ctx).
		Where("season = ? AND week = ?", season, week).
		Order("gameday ASC, game_id ASC, id ASC").
		Limit(500).
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return s.decorate(models.LatestLines(lines), false)
}

// Playoffs lists every postseason game. Conference comes from the home
// team except for the Super Bowl.
func (s *ScheduleService) Playoffs(ctx context.Context, season int) ([]ScheduleGame, error) {
	var lines []models.GameLine
	err := s.db.WithContext(ctx).
		Where("season = ? AND game_type <> ?", season, "REG").
		Order("gameday ASC, id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return s.decorate(models.LatestLines(lines), true)
}

func (s *ScheduleService) decorate(lines []models.GameLine, withConference bool) ([]ScheduleGame, error) {
	teams, err := models.TeamsByAbbreviation(s.db)
	if err != nil {
		return nil, err
	}

	out := make([]ScheduleGame, 0, len(lines))
	for _, l := range lines {
		home, hasHome := teams[TeamAbbr(l.HomeTeam)]
		away, hasAway := teams[TeamAbbr(l.AwayTeam)]

		g := ScheduleGame{
			GameLine:  l,
			HomeColor: home.PrimaryColor,
			AwayColor: away.PrimaryColor,
			HomeName:  l.HomeTeam,
			AwayName:  l.AwayTeam,
		}
		if hasHome {
			g.HomeName = home.Name
		}
		if hasAway {
			g.AwayName = away.Name
		}
		if withConference {
			conf := home.Conference
			if l.GameType == "SB" {
				conf = "SB"
			}
			g.Conference = &conf
		}
		out = append(out, g)
	}
	return out, nil
}

// MatchupHistory returns the most recent meetings of two teams in either
// home/away orientation, newest first.
func (s *ScheduleService) MatchupHistory(ctx context.Context, teamA, teamB string, limit int) ([]models.GameLine, error) {
	if limit < 1 {
		limit = 5
	}
	a := lineAbbrs(strings.ToUpper(strings.TrimSpace(teamA)))
	b := lineAbbrs(strings.ToUpper(strings.TrimSpace(teamB)))

	var lines []models.GameLine
	err := s.db.WithContext(ctx).
		Where("(home_team IN ? AND away_team IN ?) OR (home_team IN ? AND away_team IN ?)", a, b, b, a).
		Order("season DESC, week DESC, id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}

	out := models.LatestLines(lines)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// TeamSchedule lists a team's season with results, scores and ATS grades
// from that team's side. Spreads are flipped for road games.
func (s *ScheduleService) TeamSchedule(ctx context.Context, teamAbbr string, season int) ([]TeamGame, error) {
	teamAbbr = strings.ToUpper(strings.TrimSpace(teamAbbr))
	names := lineAbbrs(teamAbbr)

	var lines []models.GameLine
	err := s.db.WithContext(ctx).
		Where("season = ?", season).
		Where("home_team IN ? OR away_team IN ?", names, names).
		Order("id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}

	lines = models.LatestLines(lines)
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Week < lines[j].Week })

	out := make([]TeamGame, 0, len(lines))
	for _, l := range lines {
		out = append(out, teamGame(l, TeamAbbr(l.HomeTeam) == teamAbbr))
	}
	return out, nil
}

func teamGame(l models.GameLine, isHome bool) TeamGame {
	g := TeamGame{
		GameID:   l.GameID,
		Week:     l.Week,
		Gameday:  l.Gameday,
		GameType: l.GameType,
		IsHome:   isHome,
	}
	if isHome {
		g.Opponent = TeamAbbr(l.AwayTeam)
	} else {
		g.Opponent = TeamAbbr(l.HomeTeam)
	}

	spread := HomeSpread(l)
	if spread != nil {
		v := *spread
		if !isHome {
			v = -v
		}
		g.Spread = &v
	}

	if !l.IsPlayed() {
		return g
	}

	mine, theirs := *l.HomeScore, *l.AwayScore
	if !isHome {
		mine, theirs = theirs, mine
	}
	score := fmt.Sprintf("%d-%d", mine, theirs)
	g.Score = &score

	result := "T"
	switch {
	case mine > theirs:
		result = "W"
	case mine < theirs:
		result = "L"
	}
	g.Result = &result

	if ats, ok := HomeATS(l); ok {
		if !isHome {
			ats = flipATS(ats)
		}
		g.ATSResult = &ats
	}
	return g
}
