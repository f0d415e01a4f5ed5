package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"linkdeck/api/internal/models"
	"linkdeck/api/internal/repository"
	"linkdeck/api/internal/security"
)

// VerificationManager issues and checks the six-character email
// verification codes.
type VerificationManager struct {
	tokens security.TokenGenerator
	ttl    time.Duration
	now    func() time.Time
}

func NewVerificationManager(ttl time.Duration) *VerificationManager {
	return &VerificationManager{
		tokens: security.NewTokenGenerator(),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (v *VerificationManager) TTL() time.Duration {
	return v.ttl
}

// Generate returns a fresh code and its expiry without persisting anything.
func (v *VerificationManager) Generate() (string, time.Time, error) {
	code, err := v.tokens.GenerateVerificationCode()
	if err != nil {
		return "", time.Time{}, err
	}
	return code, v.now().UTC().Add(v.ttl), nil
}

// Issue replaces any outstanding code for the user.
func (v *VerificationManager) Issue(ctx context.Context, users repository.UserStore, userID string) (string, time.Time, error) {
	code, expiresAt, err := v.Generate()
	if err != nil {
		return "", time.Time{}, err
	}
	if err := users.SetVerificationCode(ctx, userID, code, expiresAt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", time.Time{}, ErrUserNotFound
		}
		return "", time.Time{}, fmt.Errorf("store verification code: %w", err)
	}
	return code, expiresAt, nil
}

// Check normalizes submitted and verifies it against the user's outstanding
// code. Failures leave the stored code untouched. On success the code is
// cleared only if it is still the one that was compared, so of two
// concurrent checks at most one succeeds.
func (v *VerificationManager) Check(ctx context.Context, users repository.UserStore, email string, submitted string) (models.User, error) {
	code := security.NormalizeVerificationCode(submitted)
	if !security.IsVerificationCodeFormat(code) {
		return models.User{}, ErrMalformedCode
	}

	user, err := users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return models.User{}, ErrVerificationNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	if !user.HasPendingVerification() {
		return models.User{}, ErrVerificationNotFound
	}

	now := v.now().UTC()
	if !now.Before(*user.CodeExpires) {
		return models.User{}, ErrCodeExpired
	}
	if *user.VerificationCode != code {
		return models.User{}, ErrCodeMismatch
	}

	if err := users.MarkVerified(ctx, user.ID, code, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.User{}, ErrVerificationNotFound
		}
		return models.User{}, fmt.Errorf("mark verified: %w", err)
	}

	user.EmailVerified = &now
	user.VerificationCode = nil
	user.CodeExpires = nil
	return user, nil
}
