package models

import "time"

type Category struct {
	ID          string
	Name        string
	Color       string
	Icon        *string
	WorkspaceID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type URL struct {
	ID          string
	URL         string
	Title       string
	Description *string
	Favicon     *string
	Screenshot  *string
	CategoryID  *string
	WorkspaceID string
	UserID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AssetKind names the image slots a URL can carry.
type AssetKind string

const (
	AssetScreenshot AssetKind = "screenshot"
	AssetFavicon    AssetKind = "favicon"
)
