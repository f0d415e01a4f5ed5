package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkdeck/api/internal/models"
	"linkdeck/api/internal/security"
)

func seedUser(t *testing.T, f *fixture, id string) models.User {
	t.Helper()
	verifiedAt := f.clock.Now()
	user := models.User{ID: id, Email: id + "@x.com", PasswordHash: "hash", EmailVerified: &verifiedAt}
	require.NoError(t, f.store.Users().Create(context.Background(), user))
	return user
}

func TestSessionCreateAndValidate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := seedUser(t, f, "u1")

	token, session, err := f.sessions.Create(ctx, f.store, user.ID)
	require.NoError(t, err)

	assert.Len(t, token, 43)
	assert.Equal(t, security.HashSessionToken(token), session.TokenHash)
	assert.NotEqual(t, token, session.TokenHash)
	assert.Equal(t, f.clock.Now().Add(testSessionTTL), session.ExpiresAt)

	got, err := f.sessions.Validate(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.User.ID)
	assert.Equal(t, session.ID, got.Session.ID)
}

func TestSessionTokensAreUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := seedUser(t, f, "u1")

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, _, err := f.sessions.Create(ctx, f.store, user.ID)
		require.NoError(t, err)
		require.False(t, seen[token])
		seen[token] = true
	}
}

func TestSessionLookupUnknownToken(t *testing.T) {
	f := newFixture(t)

	for _, token := range []string{"", "not-a-real-token"} {
		lookup, err := f.sessions.Lookup(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, SessionNotFound, lookup.State)
		assert.Nil(t, lookup.Session)
	}
}

func TestSessionLazyExpiry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := seedUser(t, f, "u1")

	token, _, err := f.sessions.Create(ctx, f.store, user.ID)
	require.NoError(t, err)

	f.clock.Advance(testSessionTTL + time.Second)

	lookup, err := f.sessions.Lookup(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, SessionExpired, lookup.State)
	assert.Equal(t, 0, f.store.Counts().Sessions)

	lookup, err = f.sessions.Lookup(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, SessionNotFound, lookup.State)

	got, err := f.sessions.Validate(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionValidateDoesNotSlideExpiry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := seedUser(t, f, "u1")

	token, session, err := f.sessions.Create(ctx, f.store, user.ID)
	require.NoError(t, err)

	f.clock.Advance(6 * 24 * time.Hour)
	got, err := f.sessions.Validate(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, session.ExpiresAt, got.Session.ExpiresAt)

	f.clock.Advance(24*time.Hour + time.Second)
	got, err = f.sessions.Validate(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionDeleteIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := seedUser(t, f, "u1")

	token, _, err := f.sessions.Create(ctx, f.store, user.ID)
	require.NoError(t, err)

	require.NoError(t, f.sessions.Delete(ctx, token))
	require.NoError(t, f.sessions.Delete(ctx, token))
	require.NoError(t, f.sessions.Delete(ctx, ""))

	got, err := f.sessions.Validate(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionCacheReadThrough(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := seedUser(t, f, "u1")

	token, _, err := f.sessions.Create(ctx, f.store, user.ID)
	require.NoError(t, err)
	hash := security.HashSessionToken(token)

	_, err = f.sessions.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, f.sessionCache.ttls[hash])

	require.NoError(t, f.sessions.Delete(ctx, token))
	_, cached := f.sessionCache.entries[hash]
	assert.False(t, cached)
}

func TestSessionCacheTTLBoundedByRemainingLifetime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := seedUser(t, f, "u1")

	token, _, err := f.sessions.Create(ctx, f.store, user.ID)
	require.NoError(t, err)

	f.clock.Advance(testSessionTTL - time.Minute)
	_, err = f.sessions.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, f.sessionCache.ttls[security.HashSessionToken(token)])
}

func TestSessionExpiredCacheEntryFallsBackToStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := seedUser(t, f, "u1")

	token, _, err := f.sessions.Create(ctx, f.store, user.ID)
	require.NoError(t, err)
	_, err = f.sessions.Validate(ctx, token)
	require.NoError(t, err)

	// The map cache ignores TTLs, so the stale entry is still there.
	f.clock.Advance(testSessionTTL + time.Second)
	lookup, err := f.sessions.Lookup(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, SessionExpired, lookup.State)
	assert.Empty(t, f.sessionCache.entries)
}

func TestSessionSweepExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := seedUser(t, f, "u1")

	_, _, err := f.sessions.Create(ctx, f.store, user.ID)
	require.NoError(t, err)
	f.clock.Advance(testSessionTTL + time.Second)
	_, _, err = f.sessions.Create(ctx, f.store, user.ID)
	require.NoError(t, err)

	n, err := f.sessions.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, f.store.Counts().Sessions)
}
