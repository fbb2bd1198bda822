package services

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/models"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/database"
	"github.com/sirupsen/logrus"
)

// StandingRow is one team's line in the standings table.
type StandingRow struct {
	Team             string   `json:"team"`
	TeamName         string   `json:"team_name"`
	Division         string   `json:"division"`
	Conference       string   `json:"conference"`
	PrimaryColor     string   `json:"primary_color"`
	SecondaryColor   string   `json:"secondary_color"`
	Wins             int      `json:"wins"`
	Losses           int      `json:"losses"`
	Ties             int      `json:"ties"`
	Games            int      `json:"games"`
	Pct              *float64 `json:"pct"`
	WinPct           *float64 `json:"win_pct"`
	PF               int      `json:"pf"`
	PA               int      `json:"pa"`
	Diff             int      `json:"diff"`
	Strk             int      `json:"strk"`
	ATSW             int      `json:"ats_w"`
	ATSL             int      `json:"ats_l"`
	ATSP             int      `json:"ats_p"`
	ATSWins          int      `json:"ats_wins"`
	ATSLosses        int      `json:"ats_losses"`
	ThirdDownPct     *float64 `json:"third_down_pct"`
	RedZonePct       *float64 `json:"red_zone_pct"`
	TurnoverDiff     *int     `json:"turnover_diff"`
	PossessionTime   string   `json:"possession_time"`
	PassYards        *int     `json:"pass_yards"`
	RushYards        *int     `json:"rush_yards"`
	Turnovers        *int     `json:"turnovers"`
	OffenseYPG       *float64 `json:"offense_ypg"`
	LogoURL          string   `json:"logo_url"`
	PlayoffSeed      *int     `json:"playoff_seed"`
	WinStreak        int      `json:"win_streak"`
	ConferenceRecord string   `json:"conference_record"`
	DivisionRecord   string   `json:"division_record"`
	HomeRecord       string   `json:"home_record"`
	RoadRecord       string   `json:"road_record"`
	DivisionRank     int      `json:"division_rank"`
}

type atsRecord struct {
	W, L, P int
}

type StandingsService struct {
	db     *database.DB
	cache  Cache
	logger *logrus.Logger
	ttl    time.Duration
}

func NewStandingsService(db *database.DB, cache Cache, logger *logrus.Logger, ttl time.Duration) *StandingsService {
	return &StandingsService{db: db, cache: cache, logger: logger, ttl: ttl}
}

// Standings builds the season table: records, ATS from regular season
// lines, advanced team stats and a rank within each division.
func (s *StandingsService) Standings(ctx context.Context, season int) ([]StandingRow, error) {
	return remember(ctx, s.cache, StandingsCacheKey(season), s.ttl, func() ([]StandingRow, error) {
		return s.build(ctx, season)
	})
}

func (s *StandingsService) build(ctx context.Context, season int) ([]StandingRow, error) {
	db := s.db.WithContext(ctx)

	var standings []models.TeamStanding
	err := db.Preload("Team").
		Joins("JOIN teams ON teams.id = team_standings.team_id").
		Where("team_standings.season = ?", season).
		Order("teams.abbreviation ASC").
		Find(&standings).Error
	if err != nil {
		return nil, err
	}

	ats, err := s.atsByTeam(ctx, season)
	if err != nil {
		return nil, err
	}

	var advanced []models.TeamSeasonStat
	if err := db.Where("season = ? AND season_type = ?", season, SeasonTypeRegular).Find(&advanced).Error; err != nil {
		return nil, err
	}
	advByTeam := make(map[int]models.TeamSeasonStat, len(advanced))
	for _, a := range advanced {
		advByTeam[a.TeamID] = a
	}

	rows := make([]StandingRow, 0, len(standings))
	for _, st := range standings {
		t := st.Team
		rec := ats[t.Abbreviation]
		games := st.Wins + st.Losses + st.Ties

		row := StandingRow{
			Team:             t.Abbreviation,
			TeamName:         t.Name,
			Division:         t.DivisionLabel(),
			Conference:       t.Conference,
			PrimaryColor:     t.PrimaryColor,
			SecondaryColor:   t.SecondaryColor,
			Wins:             st.Wins,
			Losses:           st.Losses,
			Ties:             st.Ties,
			Games:            games,
			PF:               st.PointsFor,
			PA:               st.PointsAgainst,
			Diff:             st.PointDifferential,
			Strk:             st.WinStreak,
			ATSW:             rec.W,
			ATSL:             rec.L,
			ATSP:             rec.P,
			ATSWins:          rec.W,
			ATSLosses:        rec.L,
			LogoURL:          t.LogoURL,
			PlayoffSeed:      st.PlayoffSeed,
			WinStreak:        st.WinStreak,
			ConferenceRecord: st.ConferenceRecord,
			DivisionRecord:   st.DivisionRecord,
			HomeRecord:       st.HomeRecord,
			RoadRecord:       st.RoadRecord,
		}
		if games > 0 {
			pct := round3(float64(st.Wins) / float64(games))
			row.Pct, row.WinPct = &pct, &pct
		}

		if adv, ok := advByTeam[t.ID]; ok {
			row.ThirdDownPct = adv.ThirdDownConvPct
			row.RedZonePct = ParseEfficiencyPct(adv.RedZoneEfficiency)
			row.TurnoverDiff = intPtr(adv.TurnoverDifferential)
			row.PossessionTime = adv.PossessionTime
			row.PassYards = intPtr(int(adv.PassingYards))
			row.RushYards = intPtr(int(adv.RushingYards))
			row.Turnovers = intPtr(int(adv.Turnovers))
			ypg := adv.TotalOffensiveYardsPerGame
			row.OffenseYPG = &ypg
		}
		rows = append(rows, row)
	}

	rankDivisions(rows)
	return rows, nil
}

// atsByTeam grades every played regular season game against the spread,
// keyed by team-table abbreviation.
func (s *StandingsService) atsByTeam(ctx context.Context, season int) (map[string]atsRecord, error) {
	var lines []models.GameLine
	err := s.db.WithContext(ctx).
		Where("season = ? AND game_type = ?", season, "REG").
		Order("id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]atsRecord)
	for _, l := range models.LatestLines(lines) {
		result, ok := HomeATS(l)
		if !ok {
			continue
		}
		home, away := TeamAbbr(l.HomeTeam), TeamAbbr(l.AwayTeam)
		out[home] = out[home].add(result)
		out[away] = out[away].add(flipATS(result))
	}
	return out, nil
}

func (r atsRecord) add(result string) atsRecord {
	switch result {
	case ATSWin:
		r.W++
	case ATSLoss:
		r.L++
	case ATSPush:
		r.P++
	}
	return r
}

// rankDivisions orders each division by wins, then playoff seed (unseeded
// teams count as 99), then point differential.
func rankDivisions(rows []StandingRow) {
	byDivision := make(map[string][]int)
	for i, r := range rows {
		byDivision[r.Division] = append(byDivision[r.Division], i)
	}

	for _, idx := range byDivision {
		sort.SliceStable(idx, func(a, b int) bool {
			ra, rb := rows[idx[a]], rows[idx[b]]
			if ra.Wins != rb.Wins {
				return ra.Wins > rb.Wins
			}
			if sa, sb := seedScore(ra.PlayoffSeed), seedScore(rb.PlayoffSeed); sa != sb {
				return sa > sb
			}
			return ra.Diff > rb.Diff
		})
		for rank, i := range idx {
			rows[i].DivisionRank = rank + 1
		}
	}
}

func seedScore(seed *int) int {
	if seed == nil || *seed == 0 {
		return 100 - 99
	}
	return 100 - *seed
}

// ParseEfficiencyPct turns a "made-att" efficiency into a percentage with
// one decimal.
func ParseEfficiencyPct(eff string) *float64 {
	parts := strings.Split(strings.TrimSpace(eff), "-")
	if len(parts) != 2 {
		return nil
	}
	made, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	att, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil || att <= 0 {
		return nil
	}
	pct := round1(made / att * 100)
	return &pct
}

func intPtr(v int) *int {
	return &v
}
