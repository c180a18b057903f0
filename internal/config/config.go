package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"protracker/internal/constants"
)

type Config struct {
	FaceitAPIKey string
	FaceitAPIURL string
	ServerPort   string
	LogLevel     string
	CacheEnabled bool
	CacheTTL     time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		FaceitAPIKey: getEnv("FACEIT_API_KEY", ""),
		FaceitAPIURL: getEnv("FACEIT_API_URL", "https://open.faceit.com/data/v4"),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		CacheEnabled: getEnv("CACHE_ENABLED", "true") != "false",
		CacheTTL:     constants.GeneralCacheTTL,
	}

	if cfg.FaceitAPIKey == "" {
		return nil, fmt.Errorf("FACEIT_API_KEY is required")
	}

	logger.Info().
		Str("faceit_api_url", cfg.FaceitAPIURL).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Bool("cache_enabled", cfg.CacheEnabled).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
