package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panai/console/config"
	domainauth "github.com/panai/console/internal/domain/auth"
)

// mockConn keeps the pgxmock pool open after a command closes it.
type mockConn struct {
	pgxmock.PgxPoolIface
}

func (mockConn) Close() {}

type harness struct {
	cmd *commandContext
	out *bytes.Buffer
	mr  *miniredis.Miniredis
	db  pgxmock.PgxPoolIface
}

func newHarness(t *testing.T, stdin string) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	db, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(db.Close)

	var cfg config.AppConfig
	cfg.Session.KeyPrefix = "panai:"
	cfg.Sanitize()

	out := &bytes.Buffer{}
	h := &harness{out: out, mr: mr, db: db}
	h.cmd = &commandContext{
		Ctx:    context.Background(),
		Logger: slog.New(slog.DiscardHandler),
		Config: cfg,
		Out:    out,
		In:     strings.NewReader(stdin),
		ConnectRedis: func(context.Context) (redis.UniversalClient, error) {
			return redis.NewClient(&redis.Options{Addr: mr.Addr()}), nil
		},
		ConnectLeads: func(context.Context) (leadsConn, error) {
			return mockConn{db}, nil
		},
	}
	return h
}

// seedSession stores an authenticated session and its token the way the server does.
func (h *harness) seedSession(t *testing.T, id string) {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: h.mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	stores := h.cmd.sessionStores(client)

	sess := domainauth.Session{
		ID:      id,
		OrgName: "beta",
		Email:   "pat@beta.test",
		User:    &domainauth.User{ID: "u1", Email: "pat@beta.test", FirstName: "Pat", LastName: "Lee"},
		Membership: &domainauth.Membership{
			Role: domainauth.RoleManager,
			User: domainauth.User{ID: "u1", Email: "pat@beta.test"},
		},
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, stores.sessions.Save(context.Background(), sess))
	require.NoError(t, stores.tokens.Set(context.Background(), id, "tok-"+id))
}

func TestParseSessionsArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    sessionsOptions
		wantErr bool
	}{
		{name: "show", args: []string{"show", "abc"}, want: sessionsOptions{Action: "show", ID: "abc"}},
		{name: "revoke yes", args: []string{"revoke", "--yes", "abc"}, want: sessionsOptions{Action: "revoke", ID: "abc", Yes: true}},
		{name: "show json", args: []string{"show", "--json", "abc"}, want: sessionsOptions{Action: "show", ID: "abc", RawJSON: true}},
		{name: "no action", args: nil, wantErr: true},
		{name: "unknown action", args: []string{"purge", "abc"}, wantErr: true},
		{name: "missing id", args: []string{"show"}, wantErr: true},
		{name: "two ids", args: []string{"show", "a", "b"}, wantErr: true},
		{name: "blank id", args: []string{"show", " "}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSessionsArgs(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLeadsArgs(t *testing.T) {
	opts, err := parseLeadsArgs([]string{"list", "--limit", "10", "--offset", "20"})
	require.NoError(t, err)
	assert.Equal(t, leadsOptions{Limit: 10, Offset: 20}, opts)

	for _, args := range [][]string{nil, {"show"}, {"list", "--limit", "0"}, {"list", "--offset", "-1"}} {
		_, err := parseLeadsArgs(args)
		assert.Error(t, err, "args %v", args)
	}
}

func TestSessionsShow(t *testing.T) {
	h := newHarness(t, "")
	h.seedSession(t, "sess-1")

	require.NoError(t, runSessions(h.cmd, []string{"show", "sess-1"}))

	out := h.out.String()
	for _, want := range []string{"sess-1", "beta", "pat@beta.test", "manager", "Pat Lee", "present (expires in"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "tok-sess-1")
}

func TestSessionsShow_Missing(t *testing.T) {
	h := newHarness(t, "")
	err := runSessions(h.cmd, []string{"show", "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load session nope")
}

func TestSessionsRevoke(t *testing.T) {
	h := newHarness(t, "")
	h.seedSession(t, "sess-1")

	require.NoError(t, runSessions(h.cmd, []string{"revoke", "--yes", "sess-1"}))

	assert.Contains(t, h.out.String(), "Session sess-1 revoked.")
	assert.False(t, h.mr.Exists("panai:session:sess-1"))
	assert.False(t, h.mr.Exists("panai:sess-1:authToken"))
}

func TestSessionsRevoke_Declined(t *testing.T) {
	h := newHarness(t, "n\n")
	h.seedSession(t, "sess-1")

	require.NoError(t, runSessions(h.cmd, []string{"revoke", "sess-1"}))

	assert.Contains(t, h.out.String(), "Aborted.")
	assert.True(t, h.mr.Exists("panai:session:sess-1"))
	assert.True(t, h.mr.Exists("panai:sess-1:authToken"))
}

func TestLeadsList(t *testing.T) {
	h := newHarness(t, "")
	now := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	var none *string
	rows := pgxmock.NewRows([]string{
		"id", "first_name", "last_name", "email", "phone", "role", "decision_maker",
		"pharmacy_name", "pharmacy_address", "pharmacy_city", "pharmacy_state", "pharmacy_zip",
		"pharmacy_size", "notes", "created_at", "updated_at",
	}).AddRow("l1", "Grace", "Hopper", "grace@rx.test", none, "pharmacist", "influence",
		"Harbor Pharmacy", none, none, none, none, none, none, now, now)

	h.db.ExpectQuery("SELECT (.+) FROM sales_signups").WithArgs(5, 0).WillReturnRows(rows)

	require.NoError(t, runLeads(h.cmd, []string{"list", "--limit", "5"}))

	out := h.out.String()
	for _, want := range []string{"SUBMITTED", "Grace Hopper", "Harbor Pharmacy", "2025-03-04T10:00:00Z", "1 lead(s)"} {
		assert.Contains(t, out, want)
	}
	assert.NoError(t, h.db.ExpectationsWereMet())
}

func TestLeadsList_Empty(t *testing.T) {
	h := newHarness(t, "")
	h.db.ExpectQuery("SELECT (.+) FROM sales_signups").
		WithArgs(50, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	require.NoError(t, runLeads(h.cmd, []string{"list"}))
	assert.Contains(t, h.out.String(), "No sales leads found.")
}

func TestMigrate_SkipsAppliedVersions(t *testing.T) {
	h := newHarness(t, "")
	h.db.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	h.db.ExpectQuery("SELECT EXISTS").
		WithArgs("0001_create_sales_signups").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	require.NoError(t, runMigrations(h.cmd, nil))
	assert.Contains(t, h.out.String(), "migrations completed successfully")
	assert.NoError(t, h.db.ExpectationsWereMet())
}

func TestParseMigrateFlags(t *testing.T) {
	opts, err := parseMigrateFlags([]string{"--timeout", "30s"})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, opts.Timeout)

	_, err = parseMigrateFlags([]string{"--timeout", "0s"})
	assert.Error(t, err)
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printUsage(&buf))
	out := buf.String()
	assert.Less(t, strings.Index(out, "leads"), strings.Index(out, "migrate"))
	assert.Less(t, strings.Index(out, "migrate"), strings.Index(out, "sessions"))
}

func TestRenderTokenTTL(t *testing.T) {
	assert.Equal(t, "absent", renderTokenTTL(-2))
	assert.Equal(t, "present (no expiry)", renderTokenTTL(-1*time.Second))
	assert.Equal(t, "present (expires in 1m30s)", renderTokenTTL(90*time.Second))
}
