package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkdeck/api/internal/models"
)

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "session:abc123", sessionKey("abc123"))
}

func TestCachedSessionOmitsCredentials(t *testing.T) {
	name := "Ann"
	code := "ABC123"
	verified := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	expires := verified.Add(7 * 24 * time.Hour)

	raw, err := encodeSession(models.SessionWithUser{
		Session: models.Session{ID: "s1", TokenHash: "h1", UserID: "u1", ExpiresAt: expires},
		User: models.User{
			ID:               "u1",
			Email:            "ann@x.com",
			Name:             &name,
			PasswordHash:     "$2a$12$secrethash",
			EmailVerified:    &verified,
			VerificationCode: &code,
			CodeExpires:      &expires,
		},
	})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secrethash")
	assert.NotContains(t, string(raw), code)

	got, err := decodeSession(raw)
	require.NoError(t, err)
	assert.Equal(t, "h1", got.Session.TokenHash)
	assert.True(t, got.Session.ExpiresAt.Equal(expires))
	assert.Equal(t, "ann@x.com", got.User.Email)
	assert.Equal(t, "Ann", got.User.DisplayName())
	assert.True(t, got.User.IsVerified())
	assert.Empty(t, got.User.PasswordHash)
	assert.Nil(t, got.User.VerificationCode)
}

func TestNopSessionCacheAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	var c SessionCache = NopSessionCache{}

	require.NoError(t, c.Set(ctx, "hash", models.SessionWithUser{}, time.Minute))
	got, err := c.Get(ctx, "hash")
	require.NoError(t, err)
	assert.Nil(t, got)
	require.NoError(t, c.Delete(ctx, "hash"))
}

func TestNopEnrichQueueAcceptsJobs(t *testing.T) {
	var q EnrichQueue = NopEnrichQueue{}
	require.NoError(t, q.Enqueue(context.Background(), EnrichJob{URLID: "u1"}))
}
