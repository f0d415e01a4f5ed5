package repository

import (
	"context"

	"linkdeck/api/internal/models"
)

type CategoryRepository struct {
	db DBTX
}

func NewCategoryRepository(db DBTX) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category models.Category) error {
	const query = `
		INSERT INTO categories (id, name, color, icon, workspace_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query,
		category.ID,
		category.Name,
		category.Color,
		category.Icon,
		category.WorkspaceID,
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (r *CategoryRepository) GetByID(ctx context.Context, workspaceID string, id string) (models.Category, error) {
	const query = `
		SELECT id, name, color, icon, workspace_id, created_at, updated_at
		FROM categories
		WHERE workspace_id = $1 AND id = $2
	`
	var c models.Category
	if err := r.db.QueryRow(ctx, query, workspaceID, id).Scan(
		&c.ID,
		&c.Name,
		&c.Color,
		&c.Icon,
		&c.WorkspaceID,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return models.Category{}, notFoundOr(err)
	}
	return c, nil
}

func (r *CategoryRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Category, error) {
	const query = `
		SELECT id, name, color, icon, workspace_id, created_at, updated_at
		FROM categories
		WHERE workspace_id = $1
		ORDER BY created_at ASC, name ASC
	`
	rows, err := r.db.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Color,
			&c.Icon,
			&c.WorkspaceID,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Update(ctx context.Context, category models.Category) error {
	const query = `
		UPDATE categories
		SET name = $3, color = $4, icon = $5, updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2
	`
	tag, err := r.db.Exec(ctx, query,
		category.WorkspaceID,
		category.ID,
		category.Name,
		category.Color,
		category.Icon,
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return requireAffected(tag, err)
}

// Delete relies on the urls.category_id foreign key (ON DELETE SET NULL).
func (r *CategoryRepository) Delete(ctx context.Context, workspaceID string, id string) error {
	const query = `DELETE FROM categories WHERE workspace_id = $1 AND id = $2`
	return requireAffected(r.db.Exec(ctx, query, workspaceID, id))
}
