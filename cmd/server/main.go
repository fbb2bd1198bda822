package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/api"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/providers"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/services"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/config"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/database"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/logger"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	m := metrics.NewManager()

	// Redis is optional; without it the cache stays in process.
	redisClient, err := services.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, using in-memory cache")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	cacheService := services.NewCacheService(redisClient, m)
	log.WithField("backend", cacheService.Backend()).Info("Cache ready")

	hub := services.NewWebSocketHub()
	go hub.Run(ctx)

	// a nil client must stay a nil interface so sync skips the provider
	var provider services.StatsProvider
	if cfg.SyncEnabled() {
		client, err := providers.NewBallDontLieClient(providers.ClientConfig{
			APIKey:           cfg.BallDontLieAPIKey,
			BaseURL:          cfg.BallDontLieBaseURL,
			RatePerSecond:    cfg.BallDontLieRatePerSec,
			Timeout:          cfg.ExternalAPITimeout,
			BreakerThreshold: cfg.CircuitBreakerThreshold,
		}, m, log)
		if err != nil {
			log.WithError(err).Warn("Provider disabled")
		} else {
			provider = client
		}
	} else {
		log.Info("BALLDONTLIE_API_KEY not set, provider sync disabled")
	}

	registry := services.NewRegistry(db, cacheService, hub, provider, m, log, services.RegistryConfig{
		CacheTTL:      cfg.CacheTTL,
		SyncSchedule:  cfg.SyncSchedule,
		CurrentSeason: cfg.CurrentSeason,
	})

	if cfg.EnableBackgroundJobs {
		if err := registry.Sync.Start(); err != nil {
			log.Errorf("Failed to start sync scheduler: %v", err)
		}
		defer registry.Sync.Stop()
	}

	router := api.NewRouter(api.Server{
		Config:   cfg,
		DB:       db,
		Cache:    cacheService,
		Hub:      hub,
		Services: registry,
		Metrics:  m,
		Logger:   log,
	})

	if cfg.IsDevelopment() {
		for _, route := range router.Routes() {
			log.Debugf("%s %s", route.Method, route.Path)
		}
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.WithFields(logrus.Fields{
			"port":   cfg.Port,
			"env":    cfg.Env,
			"driver": db.Driver,
			"season": cfg.CurrentSeason,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}
	stop()

	log.Info("Server exited")
}
