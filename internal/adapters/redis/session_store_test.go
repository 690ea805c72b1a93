package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/panai/console/internal/domain/auth"
	"github.com/panai/console/internal/testutil"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t).Client
}

func testSession(id string, ttl time.Duration) domainauth.Session {
	return domainauth.Session{
		ID:      id,
		OrgName: "beta",
		Email:   "clerk@beta.test",
		User:    &domainauth.User{ID: "u1", Email: "clerk@beta.test", FirstName: "Casey"},
		Membership: &domainauth.Membership{
			ID:           "m1",
			Role:         domainauth.RoleManager,
			Organization: domainauth.Organization{ID: "o1", Name: "beta"},
			User:         domainauth.User{ID: "u1", Email: "clerk@beta.test"},
		},
		Organization: &domainauth.Organization{ID: "o1", Name: "beta"},
		ExpiresAt:    time.Now().Add(ttl),
	}
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	client := setupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	session := testSession("test-session-1", 30*time.Minute)
	require.NoError(t, store.Save(ctx, session))

	retrieved, err := store.Get(ctx, "test-session-1")
	require.NoError(t, err)
	assert.Equal(t, session.OrgName, retrieved.OrgName)
	assert.Equal(t, session.Email, retrieved.Email)
	require.NotNil(t, retrieved.Membership)
	assert.Equal(t, domainauth.RoleManager, retrieved.Membership.Role)
	assert.True(t, retrieved.IsAuthenticated())
	assert.WithinDuration(t, session.ExpiresAt, retrieved.ExpiresAt, time.Second)
}

func TestSessionStore_GetNonExistent(t *testing.T) {
	store := NewSessionStore(setupTestRedis(t))

	_, err := store.Get(context.Background(), "non-existent")
	assert.Equal(t, ErrNotFound, err)

	_, err = store.Get(context.Background(), "")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_Delete(t *testing.T) {
	store := NewSessionStore(setupTestRedis(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession("test-session-delete", 30*time.Minute)))
	require.NoError(t, store.Delete(ctx, "test-session-delete"))

	_, err := store.Get(ctx, "test-session-delete")
	assert.Equal(t, ErrNotFound, err)
	assert.NoError(t, store.Delete(ctx, ""))
}

func TestSessionStore_TTLExpiration(t *testing.T) {
	rdb := testutil.SetupTestRedis(t)
	store := NewSessionStore(rdb.Client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession("test-session-ttl", time.Second)))
	rdb.Advance(1500 * time.Millisecond)

	_, err := store.Get(ctx, "test-session-ttl")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_CustomPrefix(t *testing.T) {
	client := setupTestRedis(t)
	store := NewSessionStoreWithPrefix(client, "test-prefix:")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession("prefix-test", 30*time.Minute)))
	assert.Equal(t, int64(1), client.Exists(ctx, "test-prefix:prefix-test").Val())
}

func TestSessionStore_SaveRejectsInvalid(t *testing.T) {
	store := NewSessionStore(setupTestRedis(t))
	ctx := context.Background()

	err := store.Save(ctx, testSession("", 30*time.Minute))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session ID cannot be empty")

	err = store.Save(ctx, testSession("expired-session", -time.Hour))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session is expired")
}
