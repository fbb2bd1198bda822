package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/api/middleware"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/models"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/seed"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/validation"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/config"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/database"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/logger"
	"github.com/sirupsen/logrus"
)

const usage = "Usage: migrate [up|down|seed|check|token <subject> [ttl]]"

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	lg := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())

	command := os.Args[1]

	// token does not touch the database
	if command == "token" {
		if err := issueToken(cfg, os.Args[2:]); err != nil {
			lg.Fatalf("Failed to issue token: %v", err)
		}
		return
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		lg.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch command {
	case "up":
		if err := runMigrations(db); err != nil {
			lg.Fatalf("Failed to run migrations: %v", err)
		}
		lg.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			lg.Fatalf("Failed to drop tables: %v", err)
		}
		lg.Info("Tables dropped successfully")

	case "seed":
		if err := seed.Demo(db, cfg.CurrentSeason); err != nil {
			if errors.Is(err, seed.ErrNotEmpty) {
				lg.Warn("Database already has teams, skipping seed")
				return
			}
			lg.Fatalf("Failed to seed data: %v", err)
		}
		lg.WithField("season", cfg.CurrentSeason).Info("Data seeded successfully")

	case "check":
		issues := validation.Run(context.Background(), db, lg)
		for _, issue := range issues {
			fmt.Printf("[%s] %s\n", issue.Check, issue.Message)
		}
		if len(issues) > 0 {
			lg.WithField("issues", len(issues)).Error("Data checks failed")
			os.Exit(1)
		}
		lg.Info("All data checks passed")

	default:
		log.Fatalf("Unknown command: %s\n%s", command, usage)
	}
}

func runMigrations(db *database.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	// Create indexes
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_game_lines_teams ON game_lines(home_team, away_team)",
		"CREATE INDEX IF NOT EXISTS idx_game_lines_season_week ON game_lines(season, week)",
		"CREATE INDEX IF NOT EXISTS idx_player_game_stats_player_season ON player_game_stats(player_id, season)",
		"CREATE INDEX IF NOT EXISTS idx_player_props_game_player ON player_props(game_id, player_id)",
		"CREATE INDEX IF NOT EXISTS idx_player_props_created ON player_props(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_injuries_player ON injuries(player_id)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func dropTables(db *database.DB) error {
	// Drop in reverse dependency order
	all := models.All()
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(all[i]); err != nil {
			return fmt.Errorf("failed to drop table for %T: %w", all[i], err)
		}
	}
	return nil
}

func issueToken(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return errors.New(usage)
	}
	ttl := 24 * time.Hour
	if len(args) > 1 {
		d, err := time.ParseDuration(args[1])
		if err != nil {
			return fmt.Errorf("invalid ttl %q: %w", args[1], err)
		}
		ttl = d
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}

	token, err := middleware.IssueToken(cfg.JWTSecret, args[0], middleware.RoleAdmin, ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
