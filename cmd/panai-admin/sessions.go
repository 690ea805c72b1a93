package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	redisadapter "github.com/panai/console/internal/adapters/redis"
	domainauth "github.com/panai/console/internal/domain/auth"
	"github.com/panai/console/internal/service"
	"github.com/redis/go-redis/v9"
)

type sessionsOptions struct {
	Action  string
	ID      string
	Yes     bool
	RawJSON bool
}

func parseSessionsArgs(args []string) (sessionsOptions, error) {
	if len(args) == 0 {
		return sessionsOptions{}, errors.New("usage: panai-admin sessions <show|revoke> [flags] <session-id>")
	}
	opts := sessionsOptions{Action: args[0]}
	if opts.Action != "show" && opts.Action != "revoke" {
		return sessionsOptions{}, fmt.Errorf("unknown sessions action %q", opts.Action)
	}

	fs := flag.NewFlagSet("sessions "+opts.Action, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.BoolVar(&opts.Yes, "yes", false, "Skip the confirmation prompt")
	fs.BoolVar(&opts.RawJSON, "json", false, "Print the stored session record as JSON")
	if err := fs.Parse(args[1:]); err != nil {
		return sessionsOptions{}, err
	}
	if fs.NArg() != 1 {
		return sessionsOptions{}, errors.New("exactly one session id is required")
	}
	opts.ID = strings.TrimSpace(fs.Arg(0))
	if opts.ID == "" {
		return sessionsOptions{}, errors.New("session id must not be empty")
	}
	return opts, nil
}

// sessionStores binds the Redis adapters with the same key layout the server uses.
type sessionStores struct {
	sessions *redisadapter.SessionStore
	tokens   *redisadapter.TokenStore
}

func (cmdCtx *commandContext) sessionStores(client redis.UniversalClient) sessionStores {
	prefix := cmdCtx.Config.Session.KeyPrefix
	return sessionStores{
		sessions: redisadapter.NewSessionStoreWithPrefix(client, prefix+"session:"),
		tokens: redisadapter.NewTokenStore(redisadapter.TokenStoreOptions{
			Client: client,
			Prefix: prefix,
			TTL:    cmdCtx.Config.Session.Lifetime,
			DB:     cmdCtx.Config.Redis.DB,
			Logger: cmdCtx.Logger,
		}),
	}
}

func runSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseSessionsArgs(args)
	if err != nil {
		return err
	}

	client, err := cmdCtx.ConnectRedis(cmdCtx.Ctx)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", cerr)
		}
	}()
	stores := cmdCtx.sessionStores(client)

	switch opts.Action {
	case "show":
		return cmdCtx.showSession(stores, opts)
	default:
		return cmdCtx.revokeSession(stores, opts)
	}
}

func (cmdCtx *commandContext) showSession(stores sessionStores, opts sessionsOptions) error {
	sess, err := stores.sessions.Get(cmdCtx.Ctx, opts.ID)
	if err != nil {
		return fmt.Errorf("load session %s: %w", opts.ID, err)
	}
	ttl, err := stores.tokens.TTL(cmdCtx.Ctx, opts.ID)
	if err != nil {
		return err
	}

	if opts.RawJSON {
		enc := json.NewEncoder(cmdCtx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(sess)
	}
	return printSession(cmdCtx, sess, ttl)
}

func printSession(cmdCtx *commandContext, sess domainauth.Session, tokenTTL time.Duration) error {
	tw := tabwriter.NewWriter(cmdCtx.Out, 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"Session", sess.ID},
		{"Organization", valueOr(sess.OrgName, "-")},
		{"Email", valueOr(sess.Email, "-")},
		{"Authenticated", fmt.Sprintf("%t", sess.IsAuthenticated())},
		{"Role", valueOr(string(sess.Role()), "-")},
		{"Loading", fmt.Sprintf("%t", sess.Loading)},
		{"Refreshed", formatTime(sess.RefreshedAt)},
		{"Expires", formatTime(sess.ExpiresAt)},
		{"Token", renderTokenTTL(tokenTTL)},
	}
	if sess.User != nil {
		rows = append(rows, [2]string{"User", strings.TrimSpace(sess.User.FirstName + " " + sess.User.LastName)})
	}
	for _, row := range rows {
		if err := writef(tw, "%s\t%s\n", row[0], row[1]); err != nil {
			return fmt.Errorf("write session row %q: %w", row[0], err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush session details: %w", err)
	}
	return nil
}

func (cmdCtx *commandContext) revokeSession(stores sessionStores, opts sessionsOptions) error {
	if !opts.Yes {
		ok, err := cmdCtx.confirm(fmt.Sprintf("Revoke session %s and sign out its open tabs?", opts.ID))
		if err != nil {
			return err
		}
		if !ok {
			return writeln(cmdCtx.Out, "Aborted.")
		}
	}

	manager := service.NewSessionManager(service.SessionManagerOptions{
		Sessions: stores.sessions,
		Tokens:   stores.tokens,
		Logger:   cmdCtx.Logger,
	})
	if err := manager.Revoke(cmdCtx.Ctx, opts.ID); err != nil {
		return fmt.Errorf("revoke session %s: %w", opts.ID, err)
	}
	return writef(cmdCtx.Out, "Session %s revoked.\n", opts.ID)
}

// renderTokenTTL reads the TTL reply for a token key.
func renderTokenTTL(d time.Duration) string {
	switch {
	case d == -2*time.Second || d == -2:
		return "absent"
	case d == -1*time.Second || d == -1:
		return "present (no expiry)"
	case d < 0:
		return d.String()
	default:
		return "present (expires in " + d.Round(time.Second).String() + ")"
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
