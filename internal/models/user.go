package models

import "time"

type User struct {
	ID               string
	Email            string
	PasswordHash     string
	Name             *string
	EmailVerified    *time.Time
	VerificationCode *string
	CodeExpires      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (u User) IsVerified() bool {
	return u.EmailVerified != nil
}

// HasPendingVerification reports whether an outstanding code exists. Code and
// expiry are always written together.
func (u User) HasPendingVerification() bool {
	return u.VerificationCode != nil && u.CodeExpires != nil
}

// DisplayName falls back to the local part of the email address.
func (u User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	for i := 0; i < len(u.Email); i++ {
		if u.Email[i] == '@' {
			return u.Email[:i]
		}
	}
	return u.Email
}

type Session struct {
	ID        string
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}

type SessionWithUser struct {
	Session Session
	User    User
}
