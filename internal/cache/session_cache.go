package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"linkdeck/api/internal/models"
)

const sessionKeyPrefix = "session:"

// SessionCache holds resolved sessions keyed by token hash.
type SessionCache interface {
	Get(ctx context.Context, tokenHash string) (*models.SessionWithUser, error)
	Set(ctx context.Context, tokenHash string, session models.SessionWithUser, ttl time.Duration) error
	Delete(ctx context.Context, tokenHash string) error
}

type RedisSessionCache struct {
	client *redis.Client
}

func NewRedisSessionCache(client *redis.Client) *RedisSessionCache {
	return &RedisSessionCache{client: client}
}

// Get returns nil without error on a miss.
func (c *RedisSessionCache) Get(ctx context.Context, tokenHash string) (*models.SessionWithUser, error) {
	raw, err := c.client.Get(ctx, sessionKey(tokenHash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached session: %w", err)
	}

	session, err := decodeSession(raw)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *RedisSessionCache) Set(ctx context.Context, tokenHash string, session models.SessionWithUser, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	raw, err := encodeSession(session)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, sessionKey(tokenHash), raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache session: %w", err)
	}
	return nil
}

func (c *RedisSessionCache) Delete(ctx context.Context, tokenHash string) error {
	if err := c.client.Del(ctx, sessionKey(tokenHash)).Err(); err != nil {
		return fmt.Errorf("evict session: %w", err)
	}
	return nil
}

// cachedSession is the Redis form of a resolved session. Credentials and
// verification state other than the verified stamp stay in the database.
type cachedSession struct {
	ID        string     `json:"id"`
	TokenHash string     `json:"tokenHash"`
	UserID    string     `json:"userId"`
	ExpiresAt time.Time  `json:"expiresAt"`
	CreatedAt time.Time  `json:"createdAt"`
	User      cachedUser `json:"user"`
}

type cachedUser struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Name          *string    `json:"name,omitempty"`
	EmailVerified *time.Time `json:"emailVerified,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func encodeSession(s models.SessionWithUser) ([]byte, error) {
	raw, err := json.Marshal(cachedSession{
		ID:        s.Session.ID,
		TokenHash: s.Session.TokenHash,
		UserID:    s.Session.UserID,
		ExpiresAt: s.Session.ExpiresAt,
		CreatedAt: s.Session.CreatedAt,
		User: cachedUser{
			ID:            s.User.ID,
			Email:         s.User.Email,
			Name:          s.User.Name,
			EmailVerified: s.User.EmailVerified,
			CreatedAt:     s.User.CreatedAt,
			UpdatedAt:     s.User.UpdatedAt,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return raw, nil
}

func decodeSession(raw []byte) (models.SessionWithUser, error) {
	var c cachedSession
	if err := json.Unmarshal(raw, &c); err != nil {
		return models.SessionWithUser{}, fmt.Errorf("decode cached session: %w", err)
	}
	return models.SessionWithUser{
		Session: models.Session{
			ID:        c.ID,
			TokenHash: c.TokenHash,
			UserID:    c.UserID,
			ExpiresAt: c.ExpiresAt,
			CreatedAt: c.CreatedAt,
		},
		User: models.User{
			ID:            c.User.ID,
			Email:         c.User.Email,
			Name:          c.User.Name,
			EmailVerified: c.User.EmailVerified,
			CreatedAt:     c.User.CreatedAt,
			UpdatedAt:     c.User.UpdatedAt,
		},
	}, nil
}

func sessionKey(tokenHash string) string {
	return sessionKeyPrefix + tokenHash
}

// NopSessionCache always misses.
type NopSessionCache struct{}

func (NopSessionCache) Get(context.Context, string) (*models.SessionWithUser, error) { return nil, nil }
func (NopSessionCache) Set(context.Context, string, models.SessionWithUser, time.Duration) error {
	return nil
}
func (NopSessionCache) Delete(context.Context, string) error { return nil }
