package auth

// Package auth contains simple hand-written test doubles for session ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"sync"

	domainauth "github.com/panai/console/internal/domain/auth"
	"github.com/panai/console/internal/domain/model"
	"github.com/panai/console/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.SessionStore = (*MemorySessionStore)(nil)
	_ ports.TokenStore   = (*MemoryTokenStore)(nil)
	_ ports.Navigator    = (*RecordingNavigator)(nil)
	_ ports.LeadNotifier = (*RecordingLeadNotifier)(nil)
)

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// ErrNotFound is returned by mocks when an entity is not present.
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

// NotFound marks the error for errors.As based classification.
func (notFoundError) NotFound() bool { return true }

var ErrNotFound error = notFoundError{}

// MemoryTokenStore keeps tokens in a map and fans out removal events to watchers.
type MemoryTokenStore struct {
	mu       sync.Mutex
	tokens   map[string]string
	watchers map[string][]chan ports.TokenEvent

	// SetErr, when non-nil, is returned by Set.
	SetErr error
}

// NewMemoryTokenStore creates an empty token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		tokens:   make(map[string]string),
		watchers: make(map[string][]chan ports.TokenEvent),
	}
}

func (m *MemoryTokenStore) Get(_ context.Context, sessionID string) (string, bool, error) {
	if sessionID == "" {
		return "", false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tok, ok := m.tokens[sessionID]
	return tok, ok, nil
}

func (m *MemoryTokenStore) Set(_ context.Context, sessionID, token string) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[sessionID] = token
	return nil
}

func (m *MemoryTokenStore) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.tokens, sessionID)
	m.mu.Unlock()
	m.Remove(sessionID)
	return nil
}

// Remove simulates an external removal of the token key (another tab, expiry, operator).
func (m *MemoryTokenStore) Remove(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, sessionID)
	for _, ch := range m.watchers[sessionID] {
		select {
		case ch <- ports.TokenEvent{SessionID: sessionID, Kind: ports.TokenRemoved}:
		default:
		}
	}
}

func (m *MemoryTokenStore) Watch(ctx context.Context, sessionID string) (<-chan ports.TokenEvent, error) {
	ch := make(chan ports.TokenEvent, 4)
	m.mu.Lock()
	m.watchers[sessionID] = append(m.watchers[sessionID], ch)
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		list := m.watchers[sessionID]
		for i, c := range list {
			if c == ch {
				m.watchers[sessionID] = append(list[:i], list[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}

// RecordingNavigator records every navigation in order.
type RecordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *RecordingNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

// Paths returns a copy of the recorded navigations.
func (n *RecordingNavigator) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

// Last returns the most recent navigation or "".
func (n *RecordingNavigator) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.paths) == 0 {
		return ""
	}
	return n.paths[len(n.paths)-1]
}

// RecordingLeadNotifier records notified leads and optionally fails.
type RecordingLeadNotifier struct {
	mu    sync.Mutex
	Leads []model.SalesLead
	Err   error
}

func (r *RecordingLeadNotifier) NotifyLead(_ context.Context, lead model.SalesLead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Leads = append(r.Leads, lead)
	return r.Err
}
