package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/panai/console/config"
)

// InitLogger initializes the structured logger.
func InitLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (config.AppConfig, error) {
	// Load .env file if it exists (development)
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// ValidateConfig rejects configurations the console cannot start with.
func ValidateConfig(cfg *config.AppConfig) error {
	if cfg == nil {
		return errors.New("config is required")
	}

	var errs []error
	u, err := url.Parse(cfg.API.BaseURL)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("PANAI_API_BASE_URL: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("PANAI_API_BASE_URL: unsupported scheme %q", u.Scheme))
	case u.Host == "":
		errs = append(errs, errors.New("PANAI_API_BASE_URL: host is required"))
	}
	if cfg.Session.RefreshInterval >= cfg.Session.Lifetime {
		errs = append(errs, errors.New("SESSION_REFRESH_INTERVAL must be shorter than SESSION_LIFETIME"))
	}
	if cfg.Redis.UseCluster && cfg.Redis.DB != 0 {
		errs = append(errs, errors.New("REDIS_DB must be 0 in cluster mode"))
	}
	return errors.Join(errs...)
}
