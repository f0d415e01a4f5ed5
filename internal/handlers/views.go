package handlers

import (
	"time"

	"linkdeck/api/internal/models"
)

type userResponse struct {
	ID            string     `json:"id"`
	Name          *string    `json:"name"`
	Email         string     `json:"email"`
	EmailVerified *time.Time `json:"emailVerified,omitempty"`
}

func newUserResponse(u models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, EmailVerified: u.EmailVerified}
}

type workspaceResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newWorkspaceResponse(w models.Workspace) workspaceResponse {
	return workspaceResponse{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

type membershipResponse struct {
	Workspace workspaceResponse `json:"workspace"`
	Role      models.Role       `json:"role"`
	JoinedAt  time.Time         `json:"joinedAt"`
}

func newMembershipResponse(m models.Membership) membershipResponse {
	return membershipResponse{
		Workspace: newWorkspaceResponse(m.Workspace),
		Role:      m.Role,
		JoinedAt:  m.JoinedAt,
	}
}

type memberResponse struct {
	ID       string       `json:"id"`
	Role     models.Role  `json:"role"`
	JoinedAt time.Time    `json:"joinedAt"`
	User     userResponse `json:"user"`
}

type categoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Icon        *string   `json:"icon"`
	WorkspaceID string    `json:"workspaceId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newCategoryResponse(c models.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Color:       c.Color,
		Icon:        c.Icon,
		WorkspaceID: c.WorkspaceID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type urlResponse struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Favicon     *string   `json:"favicon"`
	Screenshot  *string   `json:"screenshot"`
	CategoryID  *string   `json:"categoryId"`
	WorkspaceID string    `json:"workspaceId"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newURLResponse(u models.URL) urlResponse {
	return urlResponse{
		ID:          u.ID,
		URL:         u.URL,
		Title:       u.Title,
		Description: u.Description,
		Favicon:     u.Favicon,
		Screenshot:  u.Screenshot,
		CategoryID:  u.CategoryID,
		WorkspaceID: u.WorkspaceID,
		UserID:      u.UserID,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
