package main

import (
	"context"
	"os"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/services"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/config"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/database"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/logger"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"
)

// mcp serves read-only NFL tools over stdio for LLM clients.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	log := logger.InitLogger(cfg.LogLevel, false)
	// stdout carries the protocol
	log.SetOutput(os.Stderr)

	db, err := database.NewConnection(cfg.DatabaseURL, false)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	reg := services.NewRegistry(db, services.NewMemoryCache(), nil, nil, nil, log, services.RegistryConfig{
		CacheTTL:      cfg.CacheTTL,
		SyncSchedule:  cfg.SyncSchedule,
		CurrentSeason: cfg.CurrentSeason,
	})

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "nfl-stats-mcp",
			Version: "0.1.0",
		},
		nil,
	)
	tools := &toolset{reg: reg, season: cfg.CurrentSeason}
	tools.register(server)

	log.WithField("season", cfg.CurrentSeason).Info("MCP server listening on stdio")
	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatalf("MCP server stopped: %v", err)
	}
}
