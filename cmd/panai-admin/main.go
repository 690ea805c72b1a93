package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/panai/console/config"
	"github.com/panai/console/internal/bootstrap"
	"github.com/panai/console/internal/data/pgxutil"
	"github.com/redis/go-redis/v9"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer
	In     io.Reader

	// Connectors are swapped in tests.
	ConnectRedis func(ctx context.Context) (redis.UniversalClient, error)
	ConnectLeads func(ctx context.Context) (leadsConn, error)
}

// leadsConn is a lead store connection the command owns.
type leadsConn interface {
	pgxutil.DB
	Close()
}

const defaultMigrationTimeout = 5 * time.Minute

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(os.Stderr); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmdCtx := newCommandContext(ctx, logger, cfg)
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		stop()
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func newCommandContext(ctx context.Context, logger *slog.Logger, cfg config.AppConfig) *commandContext {
	dbCfg := bootstrap.DatabaseConfig{LeadsConfig: cfg.Leads, RedisConfig: cfg.Redis, Logger: logger}
	return &commandContext{
		Ctx:    ctx,
		Logger: logger,
		Config: cfg,
		Out:    os.Stdout,
		In:     os.Stdin,
		ConnectRedis: func(ctx context.Context) (redis.UniversalClient, error) {
			return bootstrap.ConnectRedis(ctx, dbCfg)
		},
		ConnectLeads: func(ctx context.Context) (leadsConn, error) {
			return bootstrap.ConnectLeadsDB(ctx, dbCfg)
		},
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Create or upgrade the sales_signups schema",
			run:         runMigrations,
		},
		"sessions": {
			name:        "sessions",
			description: "Inspect or revoke a browser session (show|revoke <id>)",
			run:         runSessions,
		},
		"leads": {
			name:        "leads",
			description: "List captured sales leads (list [--limit N] [--offset N] [--json])",
			run:         runLeads,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: panai-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(w, "  %-12s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}

type migrateOptions struct {
	Timeout time.Duration
}

func parseMigrateFlags(args []string) (migrateOptions, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := migrateOptions{Timeout: defaultMigrationTimeout}
	fs.DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout, "Maximum duration to wait for migrations to complete")

	if err := fs.Parse(args); err != nil {
		return migrateOptions{}, err
	}
	if opts.Timeout <= 0 {
		return migrateOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	db, err := cmdCtx.ConnectLeads(ctx)
	if err != nil {
		return fmt.Errorf("connect leads db: %w", err)
	}
	defer db.Close()

	cmdCtx.Logger.Info("running database migrations")
	if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
		return migrateErr
	}
	return writeln(cmdCtx.Out, "migrations completed successfully")
}

// confirm asks a yes/no question on In and reports whether the answer was yes.
func (cmdCtx *commandContext) confirm(prompt string) (bool, error) {
	if err := writef(cmdCtx.Out, "%s [y/N]: ", prompt); err != nil {
		return false, fmt.Errorf("print confirmation prompt: %w", err)
	}
	resp, err := bufio.NewReader(cmdCtx.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(resp)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}
