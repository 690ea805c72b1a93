package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/panai/console/config"
	"github.com/panai/console/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	if err = bootstrap.ValidateConfig(&cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logStartupInfo(ctx, logger, &cfg)

	dbCfg := bootstrap.DatabaseConfig{LeadsConfig: cfg.Leads, RedisConfig: cfg.Redis, Logger: logger}

	redisClient, err := bootstrap.ConnectRedis(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close redis failed", "error", cerr)
		}
	}()

	leadsDB, err := bootstrap.ConnectLeadsDB(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("connect leads db: %w", err)
	}
	defer leadsDB.Close()

	if cfg.Leads.RunMigrationsOnStart {
		if err = bootstrap.RunMigrations(ctx, leadsDB, logger); err != nil {
			return err
		}
	} else {
		logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
	}

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:      &cfg,
		LeadsDB:     leadsDB,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := services.Observability.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close metrics sink failed", "error", cerr)
		}
	}()

	return bootstrap.RunWithShutdown(&bootstrap.RunConfig{
		Config:      &cfg,
		Services:    services,
		RedisClient: redisClient,
		LeadsDB:     leadsDB,
		Logger:      logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting panai console",
		"api_base_url", cfg.API.BaseURL,
		"http_addr", cfg.HTTP.Addr,
		"leads_db_host", cfg.Leads.Host,
		"session_lifetime", cfg.Session.Lifetime,
		"sample_data_fallback", cfg.UI.SampleDataFallback,
		"dev", cfg.IsDev,
	)
}
