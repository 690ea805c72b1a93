package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/panai/console/config"
	"github.com/panai/console/internal/adapters/consoleapi"
	redisadapter "github.com/panai/console/internal/adapters/redis"
	"github.com/panai/console/internal/data"
	"github.com/panai/console/internal/data/pgxutil"
	"github.com/panai/console/internal/observability/notify"
	"github.com/panai/console/internal/observability/notify/slack"
	"github.com/panai/console/internal/observability/statsd"
	"github.com/panai/console/internal/ports"
	"github.com/panai/console/internal/service"
	"github.com/redis/go-redis/v9"
)

const shutdownWaitTimeout = 15 * time.Second

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Sessions      *service.SessionManager
	Console       *service.ConsoleService
	Leads         *service.SalesLeadService
	Tokens        *redisadapter.TokenStore
	SessionStore  *redisadapter.SessionStore
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink    *statsd.Client
	MetricsConfig  config.ObservabilityMetricsConfig
	LeadNotifier   *notify.LeadNotifier
	NotifierConfig config.ObservabilityNotificationsConfig
}

// Close releases observability connections.
func (o ObservabilityContainer) Close() error {
	return o.MetricsSink.Close()
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	LeadsDB     pgxutil.Querier
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires the session, console and lead services over the shared clients.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	if deps.RedisClient == nil {
		return ServiceContainer{}, errors.New("redis client is required")
	}
	if deps.LeadsDB == nil {
		return ServiceContainer{}, errors.New("leads database is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	obs := buildObservability(logger, cfg.Observability)

	api, err := consoleapi.New(consoleapi.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Envelopes: consoleapi.EnvelopeConfig{
			Settings:      cfg.API.SettingsEnvelope,
			Members:       cfg.API.MembersEnvelope,
			Conversations: cfg.API.ConversationsEnvelope,
		},
		Metrics: obs.sink(),
		Logger:  logger,
	})
	if err != nil {
		return ServiceContainer{}, errors.Join(fmt.Errorf("create api client: %w", err), obs.Close())
	}

	sessionStore := redisadapter.NewSessionStoreWithPrefix(deps.RedisClient, cfg.Session.KeyPrefix+"session:")
	tokens := redisadapter.NewTokenStore(redisadapter.TokenStoreOptions{
		Client: deps.RedisClient,
		Prefix: cfg.Session.KeyPrefix,
		TTL:    cfg.Session.Lifetime,
		DB:     cfg.Redis.DB,
		Logger: logger,
	})

	sessions := service.NewSessionManager(service.SessionManagerOptions{
		Sessions:          sessionStore,
		Tokens:            tokens,
		API:               func(ts ports.TokenSource) ports.ConsoleAPI { return api.WithTokens(ts) },
		Lifetime:          cfg.Session.Lifetime,
		LoadingStaleAfter: cfg.Session.LoadingStaleAfter,
		RefreshInterval:   cfg.Session.RefreshInterval,
		Logger:            logger,
	})

	console := service.NewConsoleService(service.ConsoleServiceOptions{
		SampleDataFallback: cfg.UI.SampleDataFallback,
		Logger:             logger,
	})

	leads := service.NewSalesLeadService(service.SalesLeadServiceOptions{
		Store:    data.NewSalesLeadRepo(deps.LeadsDB),
		Notifier: obs.notifier(),
		Metrics:  obs.sink(),
		Logger:   logger,
	})

	return ServiceContainer{
		Sessions:      sessions,
		Console:       console,
		Leads:         leads,
		Tokens:        tokens,
		SessionStore:  sessionStore,
		Observability: obs,
	}, nil
}

// sink hides a nil *statsd.Client behind a nil interface.
//
//nolint:ireturn // callers accept any statsd.Sink.
func (o ObservabilityContainer) sink() statsd.Sink {
	if o.MetricsSink == nil {
		return nil
	}
	return o.MetricsSink
}

//nolint:ireturn // callers accept any ports.LeadNotifier.
func (o ObservabilityContainer) notifier() ports.LeadNotifier {
	if !o.LeadNotifier.Enabled() {
		return nil
	}
	return o.LeadNotifier
}

// buildObservability configures metrics and notification adapters.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	var metricsSink *statsd.Client
	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled:    true,
			Address:    cfg.Metrics.StatsdAddress,
			Prefix:     cfg.Metrics.Prefix,
			Logger:     obsLogger,
			GlobalTags: map[string]string{"service": "panai-console"},
		})
		if err != nil {
			obsLogger.Error("failed to initialise statsd client", "error", err)
		} else {
			metricsSink = client
		}
	}

	return ObservabilityContainer{
		MetricsSink:    metricsSink,
		MetricsConfig:  cfg.Metrics,
		LeadNotifier:   buildLeadNotifier(obsLogger, cfg.Notifications),
		NotifierConfig: cfg.Notifications,
	}
}

func buildLeadNotifier(logger *slog.Logger, cfg config.ObservabilityNotificationsConfig) *notify.LeadNotifier {
	if !cfg.Enabled {
		return nil
	}

	var sinks []notify.Sink
	if cfg.Slack.Enabled {
		client, err := slack.NewClient(slack.Config{
			WebhookURL: cfg.Slack.WebhookURL,
			Channel:    cfg.Slack.Channel,
			Username:   cfg.Slack.Username,
			Timeout:    cfg.Timeout,
			RetryLimit: cfg.RetryLimit,
		})
		if err != nil {
			logger.Error("failed to configure slack notifier", "error", err)
		} else {
			sinks = append(sinks, client)
		}
	}

	if len(sinks) == 0 {
		logger.Warn("lead notifications enabled but no sinks configured")
		return nil
	}

	return notify.NewLeadNotifier(notify.LeadNotifierOptions{
		Sinks:   sinks,
		Timeout: cfg.Timeout,
		Logger:  logger,
	})
}

// PrepareTokenEvents asks Redis to publish keyspace events so that token
// expiry and external deletes reach open tabs. Failure only degrades those
// cases; explicit logouts are still published.
func PrepareTokenEvents(ctx context.Context, tokens *redisadapter.TokenStore, logger *slog.Logger) {
	if tokens == nil {
		return
	}
	if err := tokens.EnableKeyspaceNotifications(ctx); err != nil {
		logger.WarnContext(ctx, "keyspace notifications unavailable; token expiry will not reach open tabs", "error", err)
	}
}

// RunConfig contains everything needed to serve until shutdown.
type RunConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	RedisClient redis.UniversalClient
	LeadsDB     Pinger
	Logger      *slog.Logger
}

// Pinger reports the health of a connection pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RunWithShutdown starts the HTTP server and blocks until a shutdown signal
// is received or the server fails.
func RunWithShutdown(cfg *RunConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("run config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	serviceCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	PrepareTokenEvents(serviceCtx, cfg.Services.Tokens, logger)

	errCh := make(chan error, 1)
	server, err := StartHTTPServer(&HTTPServerConfig{
		Config:       cfg.Config,
		Services:     cfg.Services,
		HealthChecks: healthChecks(cfg.RedisClient, cfg.LeadsDB),
		Logger:       logger,
		ErrCh:        errCh,
	})
	if err != nil {
		return err
	}

	return waitForShutdown(shutdownConfig{
		ctx:        serviceCtx,
		cancel:     cancel,
		errCh:      errCh,
		httpServer: server,
		logger:     logger,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx        context.Context
	cancel     context.CancelFunc
	errCh      <-chan error
	httpServer httpShutdowner
	logger     *slog.Logger
	// signals defaults to SIGINT and SIGTERM from the OS.
	signals <-chan os.Signal
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	quit := cfg.signals
	if quit == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(ch)
		quit = ch
	}

	select {
	case <-quit:
		cfg.logger.Info("shutting down services...")
		err := gracefulStop(cfg)
		cfg.cancel()
		return err
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		cfg.cancel()
		return err
	}
}

// gracefulStop drains the HTTP server. Session event streams end when their
// request contexts are cancelled by Shutdown.
func gracefulStop(cfg shutdownConfig) error {
	if cfg.httpServer == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(cfg.ctx), shutdownWaitTimeout)
	defer cancel()

	return ShutdownHTTPServer(ShutdownConfig{
		Context: shutdownCtx,
		Server:  cfg.httpServer,
		Logger:  cfg.logger,
	})
}
