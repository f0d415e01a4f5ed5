package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"linkdeck/api/internal/cache"
	"linkdeck/api/internal/mail/mailtest"
	"linkdeck/api/internal/models"
	"linkdeck/api/internal/repository/memstore"
	"linkdeck/api/internal/security"
)

const (
	testSessionTTL      = 7 * 24 * time.Hour
	testVerificationTTL = 24 * time.Hour
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// mapSessionCache records TTLs so tests can assert on them.
type mapSessionCache struct {
	mu      sync.Mutex
	entries map[string]models.SessionWithUser
	ttls    map[string]time.Duration
}

func newMapSessionCache() *mapSessionCache {
	return &mapSessionCache{
		entries: make(map[string]models.SessionWithUser),
		ttls:    make(map[string]time.Duration),
	}
}

func (c *mapSessionCache) Get(_ context.Context, hash string) (*models.SessionWithUser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[hash]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (c *mapSessionCache) Set(_ context.Context, hash string, s models.SessionWithUser, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[hash] = s
	c.ttls[hash] = ttl
	return nil
}

func (c *mapSessionCache) Delete(_ context.Context, hash string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, hash)
	delete(c.ttls, hash)
	return nil
}

var _ cache.SessionCache = (*mapSessionCache)(nil)

type fixture struct {
	clock        *fakeClock
	store        *memstore.Store
	mailer       *mailtest.Recorder
	sessionCache *mapSessionCache
	sessions     *SessionManager
	verification *VerificationManager
	workspaces   *WorkspaceService
	auth         *AuthService
	team         *TeamService
	categories   *CategoryService
	urls         *URLService
	gate         *Gate
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := newFakeClock()
	log := zerolog.Nop()
	store := memstore.New().WithClock(clock.Now)
	mailer := &mailtest.Recorder{}
	sessionCache := newMapSessionCache()

	sessions := NewSessionManager(store, sessionCache, testSessionTTL, 5*time.Minute, log)
	sessions.now = clock.Now
	verification := NewVerificationManager(testVerificationTTL)
	verification.now = clock.Now
	workspaces := NewWorkspaceService(store, log)
	workspaces.now = clock.Now

	invites := security.NewInviteSigner("test-invite-secret", 7*24*time.Hour).WithClock(clock.Now)
	team := NewTeamService(store, invites, mailer, "https://app.linkdeck.test/", log)
	team.now = clock.Now

	auth := NewAuthService(
		store,
		security.NewPasswordHasher(bcrypt.MinCost),
		sessions,
		verification,
		workspaces,
		mailer,
		true,
		log,
	)

	return &fixture{
		clock:        clock,
		store:        store,
		mailer:       mailer,
		sessionCache: sessionCache,
		sessions:     sessions,
		verification: verification,
		workspaces:   workspaces,
		auth:         auth,
		team:         team,
		categories:   NewCategoryService(store),
		urls:         NewURLService(store, nil, log),
		gate:         NewGate(store),
	}
}

// pendingCode reads the outstanding verification code straight from the store.
func (f *fixture) pendingCode(t *testing.T, email string) string {
	t.Helper()
	user, err := f.store.Users().FindByEmail(context.Background(), email)
	require.NoError(t, err)
	require.NotNil(t, user.VerificationCode)
	return *user.VerificationCode
}

// verifiedUser signs up and verifies a user, returning the verify result.
func (f *fixture) verifiedUser(t *testing.T, name string, email string) VerifyResult {
	t.Helper()
	ctx := context.Background()

	_, err := f.auth.Signup(ctx, SignupInput{Name: name, Email: email, Password: "longpass1"})
	require.NoError(t, err)

	result, err := f.auth.Verify(ctx, email, f.pendingCode(t, email))
	require.NoError(t, err)
	return result
}

// addMember joins user to workspace with role directly through the store.
func (f *fixture) addMember(t *testing.T, workspaceID string, user models.User, role models.Role) models.WorkspaceMember {
	t.Helper()
	member := models.WorkspaceMember{
		ID:          "m-" + user.ID,
		UserID:      user.ID,
		WorkspaceID: workspaceID,
		Role:        role,
		JoinedAt:    f.clock.Now(),
	}
	require.NoError(t, f.store.Members().Create(context.Background(), member))
	return member
}
