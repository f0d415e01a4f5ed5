package repository

import (
	"context"
	"time"

	"linkdeck/api/internal/models"
)

type InvitationRepository struct {
	db DBTX
}

func NewInvitationRepository(db DBTX) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) Create(ctx context.Context, inv models.Invitation) error {
	const query = `
		INSERT INTO workspace_invitations (id, workspace_id, email, role, invited_by, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, inv.ID, inv.WorkspaceID, inv.Email, inv.Role, inv.InvitedBy, inv.ExpiresAt)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (r *InvitationRepository) Consume(ctx context.Context, workspaceID string, id string, at time.Time) error {
	const query = `
		UPDATE workspace_invitations SET accepted_at = $3
		WHERE workspace_id = $1 AND id = $2
		  AND accepted_at IS NULL AND revoked_at IS NULL AND expires_at > $3
	`
	return requireAffected(r.db.Exec(ctx, query, workspaceID, id, at))
}

func (r *InvitationRepository) RevokePending(ctx context.Context, workspaceID string, email string, at time.Time) (int64, error) {
	const query = `
		UPDATE workspace_invitations SET revoked_at = $3
		WHERE workspace_id = $1 AND lower(email) = lower($2)
		  AND accepted_at IS NULL AND revoked_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query, workspaceID, email, at)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
