package repository

import (
	"context"

	"linkdeck/api/internal/models"
)

type MemberRepository struct {
	db DBTX
}

func NewMemberRepository(db DBTX) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Create(ctx context.Context, member models.WorkspaceMember) error {
	const query = `
		INSERT INTO workspace_members (id, user_id, workspace_id, role, joined_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, member.ID, member.UserID, member.WorkspaceID, member.Role, member.JoinedAt)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (r *MemberRepository) Find(ctx context.Context, workspaceID string, userID string) (models.WorkspaceMember, error) {
	const query = `
		SELECT id, user_id, workspace_id, role, joined_at
		FROM workspace_members
		WHERE workspace_id = $1 AND user_id = $2
	`
	return scanMember(r.db.QueryRow(ctx, query, workspaceID, userID))
}

func (r *MemberRepository) GetByID(ctx context.Context, workspaceID string, memberID string) (models.WorkspaceMember, error) {
	const query = `
		SELECT id, user_id, workspace_id, role, joined_at
		FROM workspace_members
		WHERE workspace_id = $1 AND id = $2
	`
	return scanMember(r.db.QueryRow(ctx, query, workspaceID, memberID))
}

func (r *MemberRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]models.MemberWithUser, error) {
	const query = `
		SELECT m.id, m.user_id, m.workspace_id, m.role, m.joined_at,
		       u.id, u.email, u.name, u.email_verified, u.created_at, u.updated_at
		FROM workspace_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.workspace_id = $1
		ORDER BY m.joined_at ASC
	`
	rows, err := r.db.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.MemberWithUser
	for rows.Next() {
		var m models.MemberWithUser
		if err := rows.Scan(
			&m.Member.ID,
			&m.Member.UserID,
			&m.Member.WorkspaceID,
			&m.Member.Role,
			&m.Member.JoinedAt,
			&m.User.ID,
			&m.User.Email,
			&m.User.Name,
			&m.User.EmailVerified,
			&m.User.CreatedAt,
			&m.User.UpdatedAt,
		); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *MemberRepository) UpdateRole(ctx context.Context, workspaceID string, memberID string, role models.Role) error {
	const query = `
		UPDATE workspace_members SET role = $3
		WHERE workspace_id = $1 AND id = $2
	`
	return requireAffected(r.db.Exec(ctx, query, workspaceID, memberID, role))
}

func (r *MemberRepository) Delete(ctx context.Context, workspaceID string, memberID string) error {
	const query = `DELETE FROM workspace_members WHERE workspace_id = $1 AND id = $2`
	return requireAffected(r.db.Exec(ctx, query, workspaceID, memberID))
}

func scanMember(row rowScanner) (models.WorkspaceMember, error) {
	var m models.WorkspaceMember
	if err := row.Scan(&m.ID, &m.UserID, &m.WorkspaceID, &m.Role, &m.JoinedAt); err != nil {
		return models.WorkspaceMember{}, notFoundOr(err)
	}
	return m, nil
}
