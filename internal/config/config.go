package config

import (
	"fmt"
	"os"
	"time"

	"brawlstars-tracker/internal/constants"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	BrawlAPIKey  string `validate:"required"`
	GeminiAPIKey string
	GeminiModel  string
	DBPath       string
	ServerPort   string
	LogLevel     string `validate:"oneof=trace debug info warn error"`
	Locale       string `validate:"oneof=en de"`
	WinRule      string `validate:"oneof=raw display"`
	CacheTTL     time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		BrawlAPIKey:  getEnv("BRAWLSTARS_API_KEY", ""),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		DBPath:       getEnv("DB_PATH", "brawlstars.db"),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Locale:       getEnv("LOCALE", "en"),
		WinRule:      getEnv("WIN_RULE", "raw"),
		CacheTTL:     getEnvDuration("CACHE_TTL", constants.PlayerRefreshTTL),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("locale", cfg.Locale).
		Str("win_rule", cfg.WinRule).
		Bool("ai_enabled", cfg.GeminiAPIKey != "").
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

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

var Module = fx.Provide(Load)
