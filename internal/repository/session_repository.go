package repository

import (
	"context"
	"time"

	"linkdeck/api/internal/models"
)

type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session models.Session) error {
	const query = `
		INSERT INTO sessions (id, token_hash, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.Exec(ctx, query, session.ID, session.TokenHash, session.UserID, session.ExpiresAt)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (r *SessionRepository) FindByTokenHash(ctx context.Context, tokenHash string) (models.SessionWithUser, error) {
	const query = `
		SELECT s.id, s.token_hash, s.user_id, s.expires_at, s.created_at,
		       u.id, u.email, u.password_hash, u.name, u.email_verified,
		       u.verification_code, u.code_expires, u.created_at, u.updated_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token_hash = $1
	`

	var out models.SessionWithUser
	err := r.db.QueryRow(ctx, query, tokenHash).Scan(
		&out.Session.ID,
		&out.Session.TokenHash,
		&out.Session.UserID,
		&out.Session.ExpiresAt,
		&out.Session.CreatedAt,
		&out.User.ID,
		&out.User.Email,
		&out.User.PasswordHash,
		&out.User.Name,
		&out.User.EmailVerified,
		&out.User.VerificationCode,
		&out.User.CodeExpires,
		&out.User.CreatedAt,
		&out.User.UpdatedAt,
	)
	if err != nil {
		return models.SessionWithUser{}, notFoundOr(err)
	}
	return out, nil
}

func (r *SessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	const query = `DELETE FROM sessions WHERE token_hash = $1`
	_, err := r.db.Exec(ctx, query, tokenHash)
	return err
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	const query = `DELETE FROM sessions WHERE expires_at < $1`
	tag, err := r.db.Exec(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
