package validation

import (
	"context"
	"fmt"
	"math"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/models"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/props"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/database"
	"github.com/sirupsen/logrus"
)

// Issue is one data integrity problem found by a check.
type Issue struct {
	Check   string `json:"check"`
	Message string `json:"message"`
}

// Check inspects the database and reports what it finds wrong. An error
// means the check itself could not run.
type Check struct {
	Name string
	Run  func(ctx context.Context, db *database.DB) ([]Issue, error)
}

// Checks is the full integrity suite in the order it runs.
var Checks = []Check{
	{"air_share_bounds", checkAirShareBounds},
	{"smash_opponent_rank", checkOpponentRank},
	{"smash_score_bounds", checkSmashScoreBounds},
	{"smash_matchup_flags", checkMatchupFlags},
	{"smash_dk_line", checkDKLines},
	{"duplicate_game_stats", checkDuplicateGameStats},
	{"game_stats_unknown_player", checkUnknownPlayers},
	{"targets_ge_receptions", checkTargetsVsReceptions},
}

// Run executes every check. A failing check is logged and reported as an
// issue so the rest of the suite still runs.
func Run(ctx context.Context, db *database.DB, logger *logrus.Logger) []Issue {
	issues := make([]Issue, 0)
	for _, c := range Checks {
		found, err := c.Run(ctx, db)
		if err != nil {
			logger.WithError(err).WithField("check", c.Name).Error("Validation check failed to run")
			issues = append(issues, Issue{Check: c.Name, Message: "check failed: " + err.Error()})
			continue
		}
		issues = append(issues, found...)
	}
	return issues
}

func checkAirShareBounds(ctx context.Context, db *database.DB) ([]Issue, error) {
	var rows []models.SmashFeature
	err := db.WithContext(ctx).
		Where("air_share_pct < 0 OR air_share_pct > 100").
		Order("season, week, player_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	issues := make([]Issue, 0, len(rows))
	for _, r := range rows {
		issues = append(issues, Issue{
			Check:   "air_share_bounds",
			Message: fmt.Sprintf("Air share out of range: player_id=%d season=%d week=%d air_share_pct=%.2f",
				r.PlayerID, r.Season, r.Week, r.AirSharePct),
		})
	}
	return issues, nil
}

func checkOpponentRank(ctx context.Context, db *database.DB) ([]Issue, error) {
	var rows []models.SmashScore
	err := db.WithContext(ctx).
		Where("opponent_rank < 1 OR opponent_rank > 32").
		Order("season, week, player_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	issues := make([]Issue, 0, len(rows))
	for _, r := range rows {
		issues = append(issues, Issue{
			Check:   "smash_opponent_rank",
			Message: fmt.Sprintf("Opponent rank out of range: player_id=%d season=%d week=%d rank=%d",
				r.PlayerID, r.Season, r.Week, r.OpponentRank),
		})
	}
	return issues, nil
}

func checkSmashScoreBounds(ctx context.Context, db *database.DB) ([]Issue, error) {
	var rows []models.SmashScore
	err := db.WithContext(ctx).
		Where("smash_score < 0 OR smash_score > 100").
		Order("season, week, player_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	issues := make([]Issue, 0, len(rows))
	for _, r := range rows {
		issues = append(issues, Issue{
			Check:   "smash_score_bounds",
			Message: fmt.Sprintf("Smash score out of range: player_id=%d season=%d week=%d score=%.2f",
				r.PlayerID, r.Season, r.Week, r.SmashScore),
		})
	}
	return issues, nil
}

func checkMatchupFlags(ctx context.Context, db *database.DB) ([]Issue, error) {
	var rows []models.SmashScore
	err := db.WithContext(ctx).
		Select("id", "season", "week", "player_id", "matchup_flags").
		Order("season, week, player_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	var issues []Issue
	for _, r := range rows {
		if len(r.MatchupFlags) >= 3 {
			continue
		}
		issues = append(issues, Issue{
			Check:   "smash_matchup_flags",
			Message: fmt.Sprintf("Too few matchup flags: player_id=%d season=%d week=%d flags=%d",
				r.PlayerID, r.Season, r.Week, len(r.MatchupFlags)),
		})
	}
	return issues, nil
}

type seasonWeek struct {
	Season int
	Week   int
}

// checkDKLines recomputes every stored dk_line from the week's DraftKings
// postings.
func checkDKLines(ctx context.Context, db *database.DB) ([]Issue, error) {
	tx := db.WithContext(ctx)

	var weeks []seasonWeek
	if err := tx.Model(&models.SmashScore{}).Distinct("season", "week").Order("season, week").Scan(&weeks).Error; err != nil {
		return nil, err
	}

	var issues []Issue
	for _, w := range weeks {
		var rows []models.SmashScore
		if err := tx.Where("season = ? AND week = ?", w.Season, w.Week).Order("player_id").Find(&rows).Error; err != nil {
			return nil, err
		}

		var gameIDs []int
		if err := tx.Model(&models.Game{}).Where("season = ? AND week = ?", w.Season, w.Week).Pluck("id", &gameIDs).Error; err != nil {
			return nil, err
		}
		var propRows []models.PlayerProp
		if len(gameIDs) > 0 {
			err := tx.Where("game_id IN ? AND vendor = ? AND market_type = ?", gameIDs, models.VendorDraftKings, models.MarketOverUnder).
				Find(&propRows).Error
			if err != nil {
				return nil, err
			}
		}

		for _, r := range rows {
			want := props.DKLine(propRows, r.PlayerID, r.Position)
			if sameLine(r.DKLine, want) {
				continue
			}
			issues = append(issues, Issue{
				Check:   "smash_dk_line",
				Message: fmt.Sprintf("DK line mismatch: player_id=%d season=%d week=%d stored=%s latest=%s",
					r.PlayerID, r.Season, r.Week, formatLine(r.DKLine), formatLine(want)),
			})
		}
	}
	return issues, nil
}

func sameLine(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return math.Abs(*a-*b) < 1e-9
}

func formatLine(v *float64) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%.1f", *v)
}

func checkDuplicateGameStats(ctx context.Context, db *database.DB) ([]Issue, error) {
	var rows []struct {
		PlayerID int
		GameID   int
		C        int
	}
	err := db.WithContext(ctx).Model(&models.PlayerGameStat{}).
		Select("player_id, game_id, COUNT(*) AS c").
		Group("player_id, game_id").
		Having("COUNT(*) > 1").
		Order("player_id, game_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	issues := make([]Issue, 0, len(rows))
	for _, r := range rows {
		issues = append(issues, Issue{
			Check:   "duplicate_game_stats",
			Message: fmt.Sprintf("Duplicate game stats: player_id=%d game_id=%d count=%d", r.PlayerID, r.GameID, r.C),
		})
	}
	return issues, nil
}

func checkUnknownPlayers(ctx context.Context, db *database.DB) ([]Issue, error) {
	var rows []struct {
		PlayerID int
		C        int
	}
	err := db.WithContext(ctx).Table("player_game_stats AS d").
		Select("d.player_id, COUNT(*) AS c").
		Joins("LEFT JOIN players p ON p.id = d.player_id").
		Where("p.id IS NULL").
		Group("d.player_id").
		Order("d.player_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	issues := make([]Issue, 0, len(rows))
	for _, r := range rows {
		issues = append(issues, Issue{
			Check:   "game_stats_unknown_player",
			Message: fmt.Sprintf("Missing player referenced in player_game_stats: player_id=%d rows=%d", r.PlayerID, r.C),
		})
	}
	return issues, nil
}

func checkTargetsVsReceptions(ctx context.Context, db *database.DB) ([]Issue, error) {
	var rows []models.PlayerGameStat
	err := db.WithContext(ctx).
		Where("receiving_targets < receptions").
		Order("player_id, game_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	issues := make([]Issue, 0, len(rows))
	for _, r := range rows {
		issues = append(issues, Issue{
			Check:   "targets_ge_receptions",
			Message: fmt.Sprintf("Targets < receptions: player_id=%d game_id=%d targets=%d receptions=%d",
				r.PlayerID, r.GameID, r.ReceivingTargets, r.Receptions),
		})
	}
	return issues, nil
}
