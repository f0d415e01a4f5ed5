package repository

import (
	"context"
	"time"

	"linkdeck/api/internal/models"
)

const userColumns = `id, email, password_hash, name, email_verified, verification_code, code_expires, created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (
			id, email, password_hash, name, email_verified, verification_code, code_expires, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
		)
	`

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.EmailVerified,
		user.VerificationCode,
		user.CodeExpires,
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) SetVerificationCode(ctx context.Context, userID string, code string, expiresAt time.Time) error {
	const query = `
		UPDATE users
		SET verification_code = $2,
		    code_expires = $3,
		    updated_at = NOW()
		WHERE id = $1
	`
	return requireAffected(r.db.Exec(ctx, query, userID, code, expiresAt))
}

func (r *UserRepository) MarkVerified(ctx context.Context, userID string, code string, verifiedAt time.Time) error {
	const query = `
		UPDATE users
		SET email_verified = $3,
		    verification_code = NULL,
		    code_expires = NULL,
		    updated_at = NOW()
		WHERE id = $1 AND verification_code = $2
	`
	return requireAffected(r.db.Exec(ctx, query, userID, code, verifiedAt))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var user models.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.EmailVerified,
		&user.VerificationCode,
		&user.CodeExpires,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return models.User{}, notFoundOr(err)
	}
	return user, nil
}
