package api

import (
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/api/handlers"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/api/middleware"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/services"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/config"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/database"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/metrics"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Admin endpoints kick off syncs and rebuilds, so they get a tight budget.
const (
	adminRateLimit  = 10
	adminRateWindow = time.Minute
)

// Server bundles what the HTTP layer needs.
type Server struct {
	Config   *config.Config
	DB       *database.DB
	Cache    *services.CacheService
	Hub      *services.WebSocketHub
	Services *services.Registry
	Metrics  *metrics.Manager
	Logger   *logrus.Logger
}

// NewRouter builds the gin engine with middleware, the operational
// endpoints and every /api route.
func NewRouter(s Server) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(s.Logger))
	router.Use(middleware.Metrics(s.Metrics))

	health := handlers.NewHealthHandler(s.DB, s.Cache, s.Services.Sync)
	router.GET("/health", health.GetHealth)
	router.GET("/ready", health.GetReady)
	if s.Metrics != nil {
		router.GET("/metrics", gin.WrapH(s.Metrics.Handler()))
	}
	if s.Hub != nil {
		router.GET("/ws", handlers.NewWebSocketHandler(s.Hub, s.Config.CorsOrigins).HandleWebSocket)
	}

	SetupRoutes(router.Group("/api"), s)

	router.NoRoute(func(c *gin.Context) {
		utils.SendNotFound(c, "Route not found")
	})
	return router
}

func SetupRoutes(api *gin.RouterGroup, s Server) {
	season := s.Config.CurrentSeason
	reg := s.Services

	optionsHandler := handlers.NewOptionsHandler(reg.Options)
	playerHandler := handlers.NewPlayerHandler(reg.Players, season)
	teamHandler := handlers.NewTeamHandler(reg.Teams, reg.Standings, reg.Schedule, season)
	scheduleHandler := handlers.NewScheduleHandler(reg.Schedule, reg.Games, season)
	injuryHandler := handlers.NewInjuryHandler(reg.Injuries)
	smashHandler := handlers.NewSmashHandler(reg.Smash, reg.Schedule, season)
	adminLimiter := middleware.NewRateLimiter(adminRateLimit, adminRateWindow)
	adminHandler := handlers.NewAdminHandler(s.DB, s.Cache, reg.Sync, reg.Smash, reg.Schedule, adminLimiter, s.Logger, season)

	api.GET("/options", optionsHandler.GetOptions)
	api.GET("/summary", optionsHandler.GetSummary)

	// Players
	api.GET("/players", playerHandler.GetPlayers)
	api.GET("/players/compare", playerHandler.ComparePlayers)
	api.GET("/player/:id", playerHandler.GetPlayer)

	api.GET("/smash_feed", smashHandler.GetFeed)

	// Teams
	api.GET("/teams/standings", teamHandler.GetStandings)
	team := api.Group("/team/:abbr")
	{
		team.GET("/roster", teamHandler.GetRoster)
		team.GET("/stats", teamHandler.GetStats)
		team.GET("/schedule", teamHandler.GetSchedule)
		team.GET("/leaders", teamHandler.GetLeaders)
	}

	// Games
	api.GET("/schedule", scheduleHandler.GetWeek)
	api.GET("/schedule/playoffs", scheduleHandler.GetPlayoffs)
	api.GET("/game/:id", scheduleHandler.GetGame)
	api.GET("/matchup_history", scheduleHandler.GetMatchupHistory)

	api.GET("/injuries", injuryHandler.GetInjuries)

	admin := api.Group("/admin")
	admin.Use(middleware.RateLimit(adminLimiter))
	admin.Use(middleware.AuthRequired(s.Config.JWTSecret), middleware.RequireRole(middleware.RoleAdmin))
	{
		admin.POST("/sync", adminHandler.TriggerSync)
		admin.GET("/sync/status", adminHandler.SyncStatus)
		admin.POST("/smash/rebuild", adminHandler.RebuildSmash)
		admin.GET("/validate", adminHandler.Validate)
		admin.DELETE("/cache", adminHandler.ClearCache)
	}
}
