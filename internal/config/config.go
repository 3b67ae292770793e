package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	ServerPort string
	DBPath     string
	LogLevel   string

	RiotAPIKey  string
	RiotBaseURL string

	HenrikAPIKey  string
	HenrikBaseURL string
	HenrikRegion  string

	NewsAPIKey  string
	NewsBaseURL string

	JWTSecret string

	UpstreamTimeout    time.Duration
	CORSAllowedOrigins []string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	timeout, err := time.ParseDuration(getEnv("UPSTREAM_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("parse UPSTREAM_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", timeout)
	}

	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "5000"),
		DBPath:             getEnv("DB_PATH", "riot-reimagined.db"),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		RiotAPIKey:         getEnv("RIOT_API_KEY", ""),
		RiotBaseURL:        trimBase(getEnv("RIOT_BASE_URL", "https://americas.api.riotgames.com")),
		HenrikAPIKey:       getEnv("HENRIK_DEV_API_KEY", ""),
		HenrikBaseURL:      trimBase(getEnv("HENRIK_BASE_URL", "https://api.henrikdev.xyz")),
		HenrikRegion:       getEnv("HENRIK_REGION", "na"),
		NewsAPIKey:         getEnv("NEWS_API_KEY", ""),
		NewsBaseURL:        trimBase(getEnv("NEWS_BASE_URL", "https://newsapi.org")),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		UpstreamTimeout:    timeout,
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	// missing secrets only fail the requests that need them
	for name, v := range map[string]string{
		"RIOT_API_KEY":       cfg.RiotAPIKey,
		"HENRIK_DEV_API_KEY": cfg.HenrikAPIKey,
		"NEWS_API_KEY":       cfg.NewsAPIKey,
		"JWT_SECRET":         cfg.JWTSecret,
	} {
		if v == "" {
			logger.Warn().Str("setting", name).Msg("secret not configured, dependent endpoints will fail")
		}
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("henrik_region", cfg.HenrikRegion).
		Dur("upstream_timeout", cfg.UpstreamTimeout).
		Strs("cors_allowed_origins", cfg.CORSAllowedOrigins).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func trimBase(raw string) string {
	return strings.TrimRight(raw, "/")
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var Module = fx.Provide(Load)
