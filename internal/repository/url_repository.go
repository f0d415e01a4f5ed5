package repository

import (
	"context"
	"fmt"

	"linkdeck/api/internal/models"
)

const urlColumns = `id, url, title, description, favicon, screenshot, category_id, workspace_id, user_id, created_at, updated_at`

type URLRepository struct {
	db DBTX
}

func NewURLRepository(db DBTX) *URLRepository {
	return &URLRepository{db: db}
}

func (r *URLRepository) Create(ctx context.Context, url models.URL) error {
	const query = `
		INSERT INTO urls (
			id, url, title, description, favicon, screenshot, category_id, workspace_id, user_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW()
		)
	`
	_, err := r.db.Exec(ctx, query,
		url.ID,
		url.URL,
		url.Title,
		url.Description,
		url.Favicon,
		url.Screenshot,
		url.CategoryID,
		url.WorkspaceID,
		url.UserID,
	)
	return err
}

func (r *URLRepository) GetByID(ctx context.Context, workspaceID string, id string) (models.URL, error) {
	query := `SELECT ` + urlColumns + ` FROM urls WHERE workspace_id = $1 AND id = $2`
	url, err := scanURL(r.db.QueryRow(ctx, query, workspaceID, id))
	if err != nil {
		return models.URL{}, notFoundOr(err)
	}
	return url, nil
}

func (r *URLRepository) List(ctx context.Context, workspaceID string, categoryID *string) ([]models.URL, error) {
	query := `
		SELECT ` + urlColumns + `
		FROM urls
		WHERE workspace_id = $1 AND ($2::text IS NULL OR category_id = $2)
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, workspaceID, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var urls []models.URL
	for rows.Next() {
		url, err := scanURL(rows)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, rows.Err()
}

func (r *URLRepository) Update(ctx context.Context, url models.URL) error {
	const query = `
		UPDATE urls
		SET url = $3, title = $4, description = $5, category_id = $6, updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2
	`
	return requireAffected(r.db.Exec(ctx, query,
		url.WorkspaceID,
		url.ID,
		url.URL,
		url.Title,
		url.Description,
		url.CategoryID,
	))
}

func (r *URLRepository) SetAsset(ctx context.Context, workspaceID string, id string, kind models.AssetKind, location string) error {
	var column string
	switch kind {
	case models.AssetScreenshot:
		column = "screenshot"
	case models.AssetFavicon:
		column = "favicon"
	default:
		return fmt.Errorf("unknown asset kind %q", kind)
	}

	query := `UPDATE urls SET ` + column + ` = $3, updated_at = NOW() WHERE workspace_id = $1 AND id = $2`
	return requireAffected(r.db.Exec(ctx, query, workspaceID, id, location))
}

func (r *URLRepository) Delete(ctx context.Context, workspaceID string, id string) error {
	const query = `DELETE FROM urls WHERE workspace_id = $1 AND id = $2`
	return requireAffected(r.db.Exec(ctx, query, workspaceID, id))
}

func scanURL(row rowScanner) (models.URL, error) {
	var u models.URL
	err := row.Scan(
		&u.ID,
		&u.URL,
		&u.Title,
		&u.Description,
		&u.Favicon,
		&u.Screenshot,
		&u.CategoryID,
		&u.WorkspaceID,
		&u.UserID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}
