package repository

import (
	"context"

	"linkdeck/api/internal/models"
)

type WorkspaceRepository struct {
	db DBTX
}

func NewWorkspaceRepository(db DBTX) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

func (r *WorkspaceRepository) Create(ctx context.Context, workspace models.Workspace) error {
	const query = `
		INSERT INTO workspaces (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, workspace.ID, workspace.Name, workspace.Description)
	return err
}

func (r *WorkspaceRepository) GetByID(ctx context.Context, id string) (models.Workspace, error) {
	const query = `
		SELECT id, name, description, created_at, updated_at
		FROM workspaces WHERE id = $1
	`
	var ws models.Workspace
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&ws.ID,
		&ws.Name,
		&ws.Description,
		&ws.CreatedAt,
		&ws.UpdatedAt,
	); err != nil {
		return models.Workspace{}, notFoundOr(err)
	}
	return ws, nil
}

func (r *WorkspaceRepository) Update(ctx context.Context, workspace models.Workspace) error {
	const query = `
		UPDATE workspaces
		SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
	`
	return requireAffected(r.db.Exec(ctx, query, workspace.ID, workspace.Name, workspace.Description))
}

func (r *WorkspaceRepository) FindOwnedBy(ctx context.Context, userID string) (models.Workspace, error) {
	const query = `
		SELECT w.id, w.name, w.description, w.created_at, w.updated_at
		FROM workspaces w
		JOIN workspace_members m ON m.workspace_id = w.id
		WHERE m.user_id = $1 AND m.role = 'OWNER'
		ORDER BY w.created_at ASC
		LIMIT 1
	`
	var ws models.Workspace
	if err := r.db.QueryRow(ctx, query, userID).Scan(
		&ws.ID,
		&ws.Name,
		&ws.Description,
		&ws.CreatedAt,
		&ws.UpdatedAt,
	); err != nil {
		return models.Workspace{}, notFoundOr(err)
	}
	return ws, nil
}

func (r *WorkspaceRepository) ListForUser(ctx context.Context, userID string) ([]models.Membership, error) {
	const query = `
		SELECT w.id, w.name, w.description, w.created_at, w.updated_at, m.role, m.joined_at
		FROM workspaces w
		JOIN workspace_members m ON m.workspace_id = w.id
		WHERE m.user_id = $1
		ORDER BY m.joined_at ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []models.Membership
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(
			&m.Workspace.ID,
			&m.Workspace.Name,
			&m.Workspace.Description,
			&m.Workspace.CreatedAt,
			&m.Workspace.UpdatedAt,
			&m.Role,
			&m.JoinedAt,
		); err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}
