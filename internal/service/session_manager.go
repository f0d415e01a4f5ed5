package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"linkdeck/api/internal/cache"
	"linkdeck/api/internal/ids"
	"linkdeck/api/internal/models"
	"linkdeck/api/internal/repository"
	"linkdeck/api/internal/security"
)

type SessionState int

const (
	SessionNotFound SessionState = iota
	SessionExpired
	SessionValid
)

func (s SessionState) String() string {
	switch s {
	case SessionValid:
		return "valid"
	case SessionExpired:
		return "expired"
	default:
		return "not_found"
	}
}

// SessionLookup is the tagged outcome of resolving a token. Session is set
// only when State is SessionValid.
type SessionLookup struct {
	State   SessionState
	Session *models.SessionWithUser
}

type sessionTokenSource interface {
	GenerateSessionToken() (string, error)
}

// SessionManager issues opaque session tokens and resolves them with lazy
// expiry. Expiry is fixed at creation; use never extends it.
type SessionManager struct {
	store    repository.Store
	cache    cache.SessionCache
	tokens   sessionTokenSource
	ttl      time.Duration
	cacheTTL time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

func NewSessionManager(store repository.Store, sessionCache cache.SessionCache, ttl time.Duration, cacheTTL time.Duration, log zerolog.Logger) *SessionManager {
	if sessionCache == nil {
		sessionCache = cache.NopSessionCache{}
	}
	return &SessionManager{
		store:    store,
		cache:    sessionCache,
		tokens:   security.NewTokenGenerator(),
		ttl:      ttl,
		cacheTTL: cacheTTL,
		now:      time.Now,
		log:      log.With().Str("component", "sessions").Logger(),
	}
}

func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Create persists a new session through stores, which may be bound to an
// open transaction. The raw token is returned once and never stored.
func (m *SessionManager) Create(ctx context.Context, stores repository.Stores, userID string) (string, models.Session, error) {
	token, err := m.tokens.GenerateSessionToken()
	if err != nil {
		return "", models.Session{}, err
	}

	now := m.now().UTC()
	session := models.Session{
		ID:        ids.New(),
		TokenHash: security.HashSessionToken(token),
		UserID:    userID,
		ExpiresAt: now.Add(m.ttl),
		CreatedAt: now,
	}

	if err := stores.Sessions().Create(ctx, session); err != nil {
		return "", models.Session{}, fmt.Errorf("create session: %w", err)
	}

	m.log.Debug().Str("user_id", userID).Str("session_id", session.ID).Msg("session created")
	return token, session, nil
}

// Lookup resolves token. An expired session is deleted before returning
// SessionExpired, so the next lookup of the same token reports
// SessionNotFound.
func (m *SessionManager) Lookup(ctx context.Context, token string) (SessionLookup, error) {
	if token == "" {
		return SessionLookup{State: SessionNotFound}, nil
	}

	hash := security.HashSessionToken(token)
	now := m.now()

	cached, err := m.cache.Get(ctx, hash)
	if err != nil {
		m.log.Warn().Err(err).Msg("session cache read failed")
	}
	if cached != nil && !cached.Session.Expired(now) {
		return SessionLookup{State: SessionValid, Session: cached}, nil
	}

	found, err := m.store.Sessions().FindByTokenHash(ctx, hash)
	if errors.Is(err, repository.ErrNotFound) {
		return SessionLookup{State: SessionNotFound}, nil
	}
	if err != nil {
		return SessionLookup{}, fmt.Errorf("find session: %w", err)
	}

	if found.Session.Expired(now) {
		if err := m.remove(ctx, hash); err != nil {
			return SessionLookup{}, err
		}
		m.log.Debug().Str("session_id", found.Session.ID).Msg("expired session removed")
		return SessionLookup{State: SessionExpired}, nil
	}

	if ttl := m.cacheTTLFor(found.Session, now); ttl > 0 {
		if err := m.cache.Set(ctx, hash, found, ttl); err != nil {
			m.log.Warn().Err(err).Msg("session cache write failed")
		}
	}

	return SessionLookup{State: SessionValid, Session: &found}, nil
}

// Validate collapses Lookup to nil for anything but a live session.
func (m *SessionManager) Validate(ctx context.Context, token string) (*models.SessionWithUser, error) {
	lookup, err := m.Lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	if lookup.State != SessionValid {
		return nil, nil
	}
	return lookup.Session, nil
}

// Delete removes the session for token. Deleting an unknown token succeeds.
func (m *SessionManager) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.remove(ctx, security.HashSessionToken(token))
}

// SweepExpired deletes every session already past its expiry.
func (m *SessionManager) SweepExpired(ctx context.Context) (int64, error) {
	n, err := m.store.Sessions().DeleteExpired(ctx, m.now())
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	return n, nil
}

func (m *SessionManager) remove(ctx context.Context, hash string) error {
	if err := m.store.Sessions().DeleteByTokenHash(ctx, hash); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if err := m.cache.Delete(ctx, hash); err != nil {
		m.log.Warn().Err(err).Msg("session cache evict failed")
	}
	return nil
}

func (m *SessionManager) cacheTTLFor(session models.Session, now time.Time) time.Duration {
	remaining := session.ExpiresAt.Sub(now)
	if m.cacheTTL < remaining {
		return m.cacheTTL
	}
	return remaining
}
