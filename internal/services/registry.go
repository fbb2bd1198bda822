package services

import (
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/database"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/metrics"
	"github.com/sirupsen/logrus"
)

// Registry holds every query service built over one database and cache.
type Registry struct {
	Options   *OptionsService
	Players   *PlayerService
	Teams     *TeamService
	Standings *StandingsService
	Schedule  *ScheduleService
	Games     *GameService
	Injuries  *InjuryService
	Features  *FeatureService
	Smash     *SmashService
	Sync      *SyncScheduler
}

type RegistryConfig struct {
	CacheTTL      time.Duration
	SyncSchedule  string
	CurrentSeason int
}

// NewRegistry wires the services together. cache and provider may be nil.
func NewRegistry(
	db *database.DB,
	cache *CacheService,
	hub *WebSocketHub,
	provider StatsProvider,
	m *metrics.Manager,
	logger *logrus.Logger,
	cfg RegistryConfig,
) *Registry {
	// a nil *CacheService must stay a nil interface
	var c Cache
	if cache != nil {
		c = cache
	}

	schedule := NewScheduleService(db, logger)
	teams := NewTeamService(db, c, logger, cfg.CacheTTL)
	injuries := NewInjuryService(db, logger)
	features := NewFeatureService(db, logger)
	smashSvc := NewSmashService(db, c, hub, m, logger, cfg.CacheTTL)

	return &Registry{
		Options:   NewOptionsService(db, c, logger, cfg.CacheTTL),
		Players:   NewPlayerService(db, logger),
		Teams:     teams,
		Standings: NewStandingsService(db, c, logger, cfg.CacheTTL),
		Schedule:  schedule,
		Games:     NewGameService(db, teams, schedule, logger),
		Injuries:  injuries,
		Features:  features,
		Smash:     smashSvc,
		Sync:      NewSyncScheduler(db, provider, features, smashSvc, schedule, injuries, c, hub, m, logger, cfg.SyncSchedule, cfg.CurrentSeason),
	}
}
