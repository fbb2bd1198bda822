package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port     string `mapstructure:"PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Database
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DataDir     string `mapstructure:"DATA_DIR"`
	ExportDir   string `mapstructure:"EXPORT_DIR"`

	// Cache
	RedisURL string        `mapstructure:"REDIS_URL"`
	CacheTTL time.Duration `mapstructure:"CACHE_TTL"`

	// JWT
	JWTSecret string `mapstructure:"JWT_SECRET"`

	// CORS
	CorsOrigins []string `mapstructure:"CORS_ORIGINS"`

	// External APIs
	BallDontLieAPIKey       string        `mapstructure:"BALLDONTLIE_API_KEY"`
	BallDontLieBaseURL      string        `mapstructure:"BALLDONTLIE_BASE_URL"`
	BallDontLieRatePerSec   float64       `mapstructure:"BALLDONTLIE_RATE_PER_SEC"`
	ExternalAPITimeout      time.Duration `mapstructure:"EXTERNAL_API_TIMEOUT"`
	CircuitBreakerThreshold int           `mapstructure:"CIRCUIT_BREAKER_THRESHOLD"`

	// Background jobs
	SyncSchedule         string `mapstructure:"SYNC_SCHEDULE"`
	EnableBackgroundJobs bool   `mapstructure:"ENABLE_BACKGROUND_JOBS"`
	CurrentSeason        int    `mapstructure:"CURRENT_SEASON"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "data/nfl_data.db")
	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("EXPORT_DIR", "exports")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("CACHE_TTL", "10m")
	viper.SetDefault("JWT_SECRET", "change-me")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("BALLDONTLIE_API_KEY", "")
	viper.SetDefault("BALLDONTLIE_BASE_URL", "https://api.balldontlie.io/nfl/v1")
	viper.SetDefault("BALLDONTLIE_RATE_PER_SEC", 9)
	viper.SetDefault("EXTERNAL_API_TIMEOUT", "30s")
	viper.SetDefault("CIRCUIT_BREAKER_THRESHOLD", 5)
	viper.SetDefault("SYNC_SCHEDULE", "@every 6h")
	viper.SetDefault("ENABLE_BACKGROUND_JOBS", false)
	viper.SetDefault("CURRENT_SEASON", 2025)

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Parse CORS origins from comma-separated string
	if corsStr := viper.GetString("CORS_ORIGINS"); corsStr != "" {
		config.CorsOrigins = splitAndTrim(corsStr)
	}

	return &config, nil
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// SyncEnabled reports whether the provider sync has credentials to run.
func (c *Config) SyncEnabled() bool {
	return c.BallDontLieAPIKey != ""
}
