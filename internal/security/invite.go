package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const invitePurpose = "workspace_invite"

var ErrInvalidInvite = errors.New("invalid invitation token")

type InviteClaims struct {
	WorkspaceID string `json:"wid"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	InvitedBy   string `json:"by"`
	Purpose     string `json:"purpose"`
	jwt.RegisteredClaims
}

type InviteSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewInviteSigner(secret string, ttl time.Duration) *InviteSigner {
	return &InviteSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock overrides the time source used for issuing and checking tokens.
func (s *InviteSigner) WithClock(now func() time.Time) *InviteSigner {
	s.now = now
	return s
}

// InviteGrant is what an invitation token vouches for. ID names the persisted
// invitation row and makes the token single-use.
type InviteGrant struct {
	ID          string
	WorkspaceID string
	Email       string
	Role        string
	InvitedBy   string
}

func (s *InviteSigner) Sign(grant InviteGrant) (string, time.Time, error) {
	if grant.ID == "" {
		return "", time.Time{}, errors.New("sign invite: missing invitation id")
	}
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := InviteClaims{
		WorkspaceID: grant.WorkspaceID,
		Email:       grant.Email,
		Role:        grant.Role,
		InvitedBy:   grant.InvitedBy,
		Purpose:     invitePurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        grant.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Subject:   grant.Email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign invite: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *InviteSigner) Parse(tokenStr string) (*InviteClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &InviteClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInvite, err)
	}

	claims, ok := token.Claims.(*InviteClaims)
	if !ok || !token.Valid || claims.Purpose != invitePurpose || claims.WorkspaceID == "" || claims.ID == "" {
		return nil, ErrInvalidInvite
	}
	return claims, nil
}
