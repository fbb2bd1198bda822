package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/dbexport"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/config"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/database"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Usage: exportdb [name]
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	log := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())

	if database.DriverFor(cfg.DatabaseURL) != "sqlite" {
		log.Fatal("exportdb only works with a SQLite DATABASE_URL")
	}
	dbPath := strings.TrimPrefix(cfg.DatabaseURL, "sqlite://")
	if i := strings.Index(dbPath, "?"); i >= 0 {
		dbPath = dbPath[:i]
	}

	var name string
	if len(os.Args) > 1 {
		name = os.Args[1]
	}

	res, err := dbexport.NewExporter(dbPath, cfg.ExportDir, log).Export(name)
	if err != nil {
		log.Errorf("Export failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("Package location: %s\n", res.Dir)
	fmt.Printf("Archive: %s\n", res.Archive)
	fmt.Printf("Size: %.1f MB\n", float64(res.ArchiveSize)/1024/1024)
}
