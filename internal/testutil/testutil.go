package testutil

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/panai/console/internal/migrate"
)

// TestingTB is an interface that covers both *testing.T and *testing.B.
type TestingTB interface {
	Helper()
	Skip(args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
}

// TestDBConfig holds configuration for the lead store test database.
type TestDBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// DefaultTestDBConfig returns default test database configuration.
// Defaults to port 55432 (local test DB from docker-compose test profile).
// CI/CD environments should set TEST_DB_PORT=5432 explicitly.
func DefaultTestDBConfig() TestDBConfig {
	return TestDBConfig{
		Host:     getEnvOrDefault("TEST_DB_HOST", "localhost"),
		Port:     getEnvOrDefault("TEST_DB_PORT", "55432"),
		User:     getEnvOrDefault("TEST_DB_USER", "panai"),
		Password: getEnvOrDefault("TEST_DB_PASSWORD", "panai"),
		DBName:   getEnvOrDefault("TEST_DB_NAME", "panai"),
	}
}

// DSN builds a pgx connection string for cfg.
func (cfg TestDBConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, cfg.Port),
		Path:   "/" + cfg.DBName,
	}
	q := u.Query()
	q.Set("sslmode", getEnvOrDefault("DB_SSL_MODE", "disable"))
	u.RawQuery = q.Encode()
	return u.String()
}

// SetupTestDB connects to the lead store test database, applies migrations and
// empties sales_signups. Tests are skipped when the database is not reachable.
func SetupTestDB(t TestingTB) *pgxpool.Pool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, DefaultTestDBConfig().DSN())
	if err != nil {
		skipOrFail(t, requireDB(), "Test database not available:", err)
		return nil
	}
	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		skipOrFail(t, requireDB(), "Test database not available:", pingErr)
		return nil
	}

	if migrateErr := migrate.Run(ctx, pool); migrateErr != nil {
		pool.Close()
		t.Fatal("Failed to run migrations:", migrateErr)
	}
	if _, cleanErr := pool.Exec(ctx, "DELETE FROM sales_signups"); cleanErr != nil {
		pool.Close()
		t.Fatalf("Failed to clean up table sales_signups: %v", cleanErr)
	}

	registerCleanup(t, pool.Close)
	return pool
}

func skipOrFail(t TestingTB, required bool, msg string, err error) {
	t.Helper()
	if required {
		t.Fatal(msg, err)
	}
	t.Skip(msg, err)
}

// getEnvOrDefault returns environment variable value or default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envBool parses common truthy values from env vars.
func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

func requireDB() bool    { return envBool("TEST_REQUIRE_DB") || envBool("TEST_REQUIRE_INFRA") }
func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }

// FixedTimeFunc returns a function that always returns the same time.
func FixedTimeFunc(t time.Time) func() time.Time {
	return func() time.Time {
		return t
	}
}

// TestTime returns a fixed time for testing.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

// TestRedis is the Redis a test talks to: a real server when TEST_REDIS_ADDR
// is set, an in-process miniredis otherwise.
type TestRedis struct {
	Client *redis.Client
	mini   *miniredis.Miniredis
}

// Advance moves time forward by d so TTLs can lapse. miniredis is fast-forwarded;
// a real server is waited on.
func (r *TestRedis) Advance(d time.Duration) {
	if r.mini != nil {
		r.mini.FastForward(d)
		return
	}
	time.Sleep(d)
}

// SetupTestRedis returns a flushed Redis for the test and closes it on cleanup.
// With TEST_REDIS_ADDR set the test is skipped (or fails under TEST_REQUIRE_REDIS)
// when that server does not answer.
func SetupTestRedis(t TestingTB) *TestRedis {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		return startMiniredis(t)
	}

	db := 0
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			t.Fatalf("invalid TEST_REDIS_DB=%q", v)
		}
		db = n
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		skipOrFail(t, requireRedis(), fmt.Sprintf("Redis not available at %s:", addr), err)
		return nil
	}
	if err := client.FlushDB(ctx).Err(); err != nil {
		_ = client.Close()
		t.Fatalf("flush redis db %d: %v", db, err)
	}
	registerCleanup(t, func() { _ = client.Close() })
	return &TestRedis{Client: client}
}

func startMiniredis(t TestingTB) *TestRedis {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	registerCleanup(t, func() {
		_ = client.Close()
		mr.Close()
	})
	return &TestRedis{Client: client, mini: mr}
}

func registerCleanup(t TestingTB, fn func()) {
	if tc, ok := any(t).(interface{ Cleanup(func()) }); ok {
		tc.Cleanup(fn)
	}
}
