package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/panai/console/config"
	httpx "github.com/panai/console/internal/http"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const sseHeartbeatInterval = 25 * time.Second

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config       *config.AppConfig
	Services     ServiceContainer
	HealthChecks []httpx.HealthCheck
	Logger       *slog.Logger
	// ErrCh receives the listener error when the server stops unexpectedly.
	ErrCh chan<- error
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	if cfg == nil {
		return nil, errors.New("http server config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	handler, err := httpx.NewRouter(routerServices(appCfg, cfg.Services, cfg.HealthChecks, logger))
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}

	return startServer(logger, handler, appCfg.HTTP.Addr, cfg.ErrCh), nil
}

// routerServices maps configuration and services onto the router's inputs.
func routerServices(cfg *config.AppConfig, svcs ServiceContainer, checks []httpx.HealthCheck, logger *slog.Logger) httpx.RouterServices {
	rs := httpx.RouterServices{
		Sessions:     svcs.Sessions,
		Console:      svcs.Console,
		Leads:        svcs.Leads,
		HealthChecks: checks,
		SessionCookie: httpx.SessionCookieConfig{
			Name:   cfg.Session.CookieName,
			Domain: cfg.Session.CookieDomain,
			MaxAge: cfg.Session.Lifetime,
		},
		SessionPolicy: httpx.SessionPolicy{
			Lifetime:          cfg.Session.Lifetime,
			RefreshInterval:   cfg.Session.RefreshInterval,
			LoadingStaleAfter: cfg.Session.LoadingStaleAfter,
		},
		CSRF:              httpx.CSRFConfig{CookieDomain: cfg.Session.CookieDomain},
		HeartbeatInterval: sseHeartbeatInterval,
		IsDev:             cfg.IsDev,
		Logger:            logger,
	}
	if cfg.RateLimit.Enabled {
		rs.RateLimiter = httpx.NewRateLimiter(httpx.RateLimitOptions{
			Rate:    rate.Limit(cfg.RateLimit.RequestsPerSecond),
			Burst:   cfg.RateLimit.Burst,
			IdleTTL: cfg.RateLimit.IdleTTL,
		})
	}
	if cfg.HTTP.CompressionEnabled {
		logger.Info("HTTP compression enabled", "level", cfg.HTTP.CompressionLevel)
		rs.Compression = &httpx.CompressionConfig{Level: cfg.HTTP.CompressionLevel, Logger: logger}
	}
	return rs
}

// healthChecks probes Redis and the lead store; either may be nil.
func healthChecks(rdb redis.UniversalClient, leads Pinger) []httpx.HealthCheck {
	var checks []httpx.HealthCheck
	if rdb != nil {
		checks = append(checks, httpx.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}
	if leads != nil {
		checks = append(checks, httpx.HealthCheck{Name: "leads_db", Check: leads.Ping})
	}
	return checks
}

func startServer(logger *slog.Logger, handler http.Handler, addr string, errCh chan<- error) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	// WriteTimeout stays zero: session event streams are long-lived responses.
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			if errCh != nil {
				errCh <- fmt.Errorf("http server: %w", err)
			}
		}
	}()

	return server
}

type httpShutdowner interface {
	Shutdown(ctx context.Context) error
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  httpShutdowner
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}
