package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	domainauth "github.com/panai/console/internal/domain/auth"
	"github.com/panai/console/internal/ports"
)

// ErrNoToken is returned by Login when the API accepted the credentials but sent no token.
var ErrNoToken = errors.New("no token received from server")

const (
	defaultSessionLifetime   = 24 * time.Hour
	defaultLoadingStaleAfter = 2 * time.Minute
	defaultRefreshInterval   = 5 * time.Minute
)

// SessionManagerOptions groups dependencies for SessionManager.
type SessionManagerOptions struct {
	Sessions ports.SessionStore
	Tokens   ports.TokenStore
	API      ports.ConsoleAPIFactory

	Lifetime          time.Duration
	LoadingStaleAfter time.Duration
	RefreshInterval   time.Duration

	Logger *slog.Logger
	Now    func() time.Time
}

// SessionManager opens Session objects for browser sessions.
type SessionManager struct {
	sessions ports.SessionStore
	tokens   ports.TokenStore
	api      ports.ConsoleAPIFactory

	lifetime          time.Duration
	loadingStaleAfter time.Duration
	refreshInterval   time.Duration

	logger *slog.Logger
	now    func() time.Time
}

// NewSessionManager constructs a SessionManager.
func NewSessionManager(opts SessionManagerOptions) *SessionManager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	m := &SessionManager{
		sessions:          opts.Sessions,
		tokens:            opts.Tokens,
		api:               opts.API,
		lifetime:          opts.Lifetime,
		loadingStaleAfter: opts.LoadingStaleAfter,
		refreshInterval:   opts.RefreshInterval,
		logger:            logger.With("component", "session"),
		now:               now,
	}
	if m.lifetime <= 0 {
		m.lifetime = defaultSessionLifetime
	}
	if m.loadingStaleAfter <= 0 {
		m.loadingStaleAfter = defaultLoadingStaleAfter
	}
	if m.refreshInterval <= 0 {
		m.refreshInterval = defaultRefreshInterval
	}
	return m
}

// Open loads the session identified by id, or starts a new one when id is empty
// or unknown. nav receives navigations produced by session operations.
func (m *SessionManager) Open(ctx context.Context, id string, nav ports.Navigator) (*Session, error) {
	if nav == nil {
		nav = ports.NavigatorFunc(func(string) {})
	}
	s := &Session{m: m, nav: nav}

	if id != "" {
		rec, err := m.sessions.Get(ctx, id)
		switch {
		case err == nil:
			s.rec = rec
		case isNotFound(err):
			id = ""
		default:
			return nil, fmt.Errorf("load session: %w", err)
		}
	}
	if id == "" {
		s.rec = domainauth.Session{ID: uuid.NewString()}
		s.isNew = true
	}

	s.tokens = &sessionTokens{store: m.tokens, sessionID: s.rec.ID, nav: nav, logger: m.logger}
	if m.api != nil {
		s.api = m.api(s.tokens)
	}
	return s, nil
}

// Revoke ends a session from outside the browser: its token is cleared, which
// logs out every open tab, and the record is deleted.
func (m *SessionManager) Revoke(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("session ID is required")
	}
	var errs []error
	if err := m.tokens.Clear(ctx, id); err != nil {
		errs = append(errs, fmt.Errorf("clear token: %w", err))
	}
	if err := m.sessions.Delete(ctx, id); err != nil {
		errs = append(errs, fmt.Errorf("delete session: %w", err))
	}
	return errors.Join(errs...)
}

// Session is the per-request view of a browser session: user, membership and
// organization plus the operations that change them. Methods are safe for
// concurrent use; each mutation is persisted before it returns.
type Session struct {
	mu    sync.Mutex
	m     *SessionManager
	rec   domainauth.Session
	isNew bool

	nav    ports.Navigator
	tokens *sessionTokens
	api    ports.ConsoleAPI
}

// ID returns the opaque session identifier.
func (s *Session) ID() string { return s.rec.ID }

// IsNew reports whether the session was created by this request.
func (s *Session) IsNew() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isNew
}

// Snapshot returns a copy of the session record.
func (s *Session) Snapshot() domainauth.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec
}

// OrgName returns the organization in scope.
func (s *Session) OrgName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.OrgName
}

// IsAuthenticated is true when both user and membership are present.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.IsAuthenticated()
}

// GuardState summarizes the session for the route guard.
func (s *Session) GuardState() domainauth.GuardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domainauth.GuardState{
		Loading:       s.rec.IsLoading(s.m.now(), s.m.loadingStaleAfter),
		Authenticated: s.rec.IsAuthenticated(),
		Role:          s.rec.Role(),
	}
}

// API returns the API client bound to this session's token.
//
//nolint:ireturn // the factory decides the concrete client
func (s *Session) API() ports.ConsoleAPI { return s.api }

// HasToken reports whether a token is stored for the session. It does not take
// the session lock.
func (s *Session) HasToken(ctx context.Context) bool {
	_, ok := s.tokens.Token(ctx)
	return ok
}

// Watch delivers token removal events for this session until ctx is done.
func (s *Session) Watch(ctx context.Context) (<-chan ports.TokenEvent, error) {
	return s.m.tokens.Watch(ctx, s.rec.ID)
}

// Login exchanges credentials for a token, stores it, refreshes the session and
// navigates to the organization dashboard.
func (s *Session) Login(ctx context.Context, email, password, orgName string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orgName = strings.TrimSpace(orgName)
	email = strings.TrimSpace(email)
	log := s.m.logger.With("session_id", s.rec.ID, "org", orgName)

	s.setLoadingLocked(ctx, true)
	defer s.setLoadingLocked(ctx, false)

	token, err := s.api.Login(ctx, orgName, email, password)
	if err != nil {
		log.WarnContext(ctx, "login failed", "error", err)
		return err
	}
	if token == "" {
		log.WarnContext(ctx, "login response carried no token")
		return ErrNoToken
	}
	if err = s.m.tokens.Set(ctx, s.rec.ID, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	if s.rec.OrgName != orgName {
		s.rec.Clear()
	}
	s.rec.OrgName = orgName
	s.rec.Email = email

	if refreshErr := s.refreshLocked(ctx); refreshErr != nil {
		log.WarnContext(ctx, "refresh after login failed", "error", refreshErr)
	}
	s.nav.Navigate(domainauth.DashboardPath(orgName))
	log.InfoContext(ctx, "login succeeded", "authenticated", s.rec.IsAuthenticated())
	return nil
}

// Refresh reloads the current membership and organization from the API.
// Without an organization in scope it does nothing. A 401 logs the session out.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Session) refreshLocked(ctx context.Context) error {
	s.setLoadingLocked(ctx, true)
	defer s.setLoadingLocked(ctx, false)

	orgName := s.rec.OrgName
	if orgName == "" {
		return nil
	}

	var (
		members  []domainauth.Membership
		settings *domainauth.Organization
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		members, err = s.api.ListMembers(gctx, orgName)
		return err
	})
	g.Go(func() error {
		var err error
		settings, err = s.api.GetSettings(gctx, orgName)
		return err
	})
	if err := g.Wait(); err != nil {
		s.m.logger.ErrorContext(ctx, "failed to refresh session", "session_id", s.rec.ID, "org", orgName, "error", err)
		if isUnauthorized(err) {
			if logoutErr := s.logoutLocked(ctx); logoutErr != nil {
				err = errors.Join(err, logoutErr)
			}
		}
		return fmt.Errorf("refresh session: %w", err)
	}

	s.rec.RefreshedAt = s.m.now()
	current, ok := domainauth.SelectCurrent(members, s.rec.Email)
	if !ok || !s.HasToken(ctx) {
		s.rec.Clear()
		return nil
	}
	user := current.User
	s.rec.User = &user
	s.rec.Membership = &current
	if settings != nil {
		org := *settings
		s.rec.Organization = &org
	} else {
		org := current.Organization
		s.rec.Organization = &org
	}
	return nil
}

// Logout clears user, membership and organization, removes the token and
// navigates to the organization login page (or "/" without an organization).
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logoutLocked(ctx)
}

func (s *Session) logoutLocked(ctx context.Context) error {
	s.rec.Clear()
	var errs []error
	if err := s.m.tokens.Clear(ctx, s.rec.ID); err != nil {
		errs = append(errs, fmt.Errorf("clear token: %w", err))
	}
	if err := s.saveLocked(ctx); err != nil {
		errs = append(errs, err)
	}
	if s.rec.OrgName != "" {
		s.nav.Navigate(domainauth.LoginPath(s.rec.OrgName))
	} else {
		s.nav.Navigate("/")
	}
	s.m.logger.InfoContext(ctx, "session logged out", "session_id", s.rec.ID, "org", s.rec.OrgName)
	return errors.Join(errs...)
}

// SwitchOrganization puts name in scope. With a token the session is refreshed
// for the new organization; otherwise only the loading flag is cleared.
func (s *Session) SwitchOrganization(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name != s.rec.OrgName {
		// A membership belongs to exactly one organization.
		s.rec.Clear()
		s.rec.OrgName = name
	}
	if name != "" && s.HasToken(ctx) {
		return s.refreshLocked(ctx)
	}
	s.rec.Loading = false
	s.rec.LoadingSince = time.Time{}
	return s.saveLocked(ctx)
}

// Sync brings the session in line with the request: it switches organization
// when the URL names a different one, drops identity whose token is gone and
// refreshes when the last refresh is older than the refresh interval.
func (s *Session) Sync(ctx context.Context, orgName string) error {
	s.mu.Lock()
	if orgName != "" && orgName != s.rec.OrgName {
		s.mu.Unlock()
		return s.SwitchOrganization(ctx, orgName)
	}
	defer s.mu.Unlock()

	hasToken := s.HasToken(ctx)
	if !hasToken {
		if s.rec.IsAuthenticated() {
			s.rec.Clear()
			return s.saveLocked(ctx)
		}
		if s.isNew {
			return s.saveLocked(ctx)
		}
		return nil
	}
	if s.rec.OrgName != "" && s.m.now().Sub(s.rec.RefreshedAt) > s.m.refreshInterval {
		return s.refreshLocked(ctx)
	}
	if s.isNew {
		return s.saveLocked(ctx)
	}
	return nil
}

func (s *Session) setLoadingLocked(ctx context.Context, loading bool) {
	s.rec.Loading = loading
	if loading {
		s.rec.LoadingSince = s.m.now()
	} else {
		s.rec.LoadingSince = time.Time{}
	}
	if err := s.saveLocked(ctx); err != nil {
		s.m.logger.WarnContext(ctx, "failed to persist session", "session_id", s.rec.ID, "error", err)
	}
}

func (s *Session) saveLocked(ctx context.Context) error {
	s.rec.ExpiresAt = s.m.now().Add(s.m.lifetime)
	if err := s.m.sessions.Save(ctx, s.rec); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.isNew = false
	return nil
}

// sessionTokens binds the token store to one session for the API client.
type sessionTokens struct {
	store     ports.TokenStore
	sessionID string
	nav       ports.Navigator
	logger    *slog.Logger
}

var _ ports.TokenSource = (*sessionTokens)(nil)

func (t *sessionTokens) Token(ctx context.Context) (string, bool) {
	token, ok, err := t.store.Get(ctx, t.sessionID)
	if err != nil {
		t.logger.WarnContext(ctx, "failed to read token", "session_id", t.sessionID, "error", err)
		return "", false
	}
	return token, ok && token != ""
}

// Revoke clears the token and sends the browser to the generic login page.
func (t *sessionTokens) Revoke(ctx context.Context) {
	if err := t.store.Clear(ctx, t.sessionID); err != nil {
		t.logger.ErrorContext(ctx, "failed to clear rejected token", "session_id", t.sessionID, "error", err)
	}
	t.nav.Navigate("/login")
}

func isNotFound(err error) bool {
	var nf interface{ NotFound() bool }
	return errors.As(err, &nf) && nf.NotFound()
}

func isUnauthorized(err error) bool {
	var st interface{ HTTPStatus() int }
	return errors.As(err, &st) && st.HTTPStatus() == http.StatusUnauthorized
}
