package auth

import (
	"context"
	"testing"
	"time"

	domainauth "github.com/panai/console/internal/domain/auth"
	"github.com/panai/console/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore_RoundTrip(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	require.Error(t, store.Save(ctx, domainauth.Session{}))
	require.NoError(t, store.Save(ctx, domainauth.Session{ID: "s1", OrgName: "beta"}))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "beta", got.OrgName)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryTokenStore_WatchReceivesRemoval(t *testing.T) {
	store := NewMemoryTokenStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, store.Set(ctx, "s1", "abc123"))
	events, err := store.Watch(ctx, "s1")
	require.NoError(t, err)

	store.Remove("s1")

	select {
	case ev := <-events:
		assert.Equal(t, ports.TokenRemoved, ev.Kind)
		assert.Equal(t, "s1", ev.SessionID)
	case <-time.After(time.Second):
		t.Fatal("expected removal event")
	}

	_, ok, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	cancel()
	assert.Eventually(t, func() bool {
		_, open := <-events
		return !open
	}, time.Second, 10*time.Millisecond)
}

func TestRecordingNavigator(t *testing.T) {
	var nav RecordingNavigator
	assert.Empty(t, nav.Last())
	nav.Navigate("/login")
	nav.Navigate("/beta/login")
	assert.Equal(t, []string{"/login", "/beta/login"}, nav.Paths())
	assert.Equal(t, "/beta/login", nav.Last())
}
