package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"linkdeck/api/internal/apperr"
	"linkdeck/api/internal/ids"
	"linkdeck/api/internal/models"
	"linkdeck/api/internal/repository"
)

const maxWorkspaceNameLength = 100

type starterCategory struct {
	Name  string
	Color string
	Icon  string
}

// Every new workspace starts with these categories.
var starterCategories = []starterCategory{
	{Name: "Work", Color: "#3B82F6", Icon: "briefcase"},
	{Name: "Personal", Color: "#10B981", Icon: "user"},
	{Name: "Reading", Color: "#F59E0B", Icon: "book"},
	{Name: "Tools", Color: "#8B5CF6", Icon: "wrench"},
}

type WorkspaceService struct {
	store repository.Store
	now   func() time.Time
	log   zerolog.Logger
}

func NewWorkspaceService(store repository.Store, log zerolog.Logger) *WorkspaceService {
	return &WorkspaceService{
		store: store,
		now:   time.Now,
		log:   log.With().Str("component", "workspaces").Logger(),
	}
}

// EnsureDefaultWorkspace returns the workspace the user owns, creating it
// with an OWNER membership and the starter categories on first call.
func (s *WorkspaceService) EnsureDefaultWorkspace(ctx context.Context, stores repository.Stores, user models.User) (models.Workspace, error) {
	existing, err := stores.Workspaces().FindOwnedBy(ctx, user.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return models.Workspace{}, fmt.Errorf("find owned workspace: %w", err)
	}

	now := s.now().UTC()
	workspace := models.Workspace{
		ID:        ids.New(),
		Name:      fmt.Sprintf("%s's Workspace", user.DisplayName()),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := stores.Workspaces().Create(ctx, workspace); err != nil {
		return models.Workspace{}, fmt.Errorf("create workspace: %w", err)
	}

	owner := models.WorkspaceMember{
		ID:          ids.New(),
		UserID:      user.ID,
		WorkspaceID: workspace.ID,
		Role:        models.RoleOwner,
		JoinedAt:    now,
	}
	if err := stores.Members().Create(ctx, owner); err != nil {
		return models.Workspace{}, fmt.Errorf("create owner membership: %w", err)
	}

	for _, starter := range starterCategories {
		icon := starter.Icon
		category := models.Category{
			ID:          ids.New(),
			Name:        starter.Name,
			Color:       starter.Color,
			Icon:        &icon,
			WorkspaceID: workspace.ID,
		}
		if err := stores.Categories().Create(ctx, category); err != nil {
			return models.Workspace{}, fmt.Errorf("create starter category %s: %w", starter.Name, err)
		}
	}

	s.log.Info().
		Str("user_id", user.ID).
		Str("workspace_id", workspace.ID).
		Msg("default workspace created")

	return workspace, nil
}

func (s *WorkspaceService) ListForUser(ctx context.Context, userID string) ([]models.Membership, error) {
	memberships, err := s.store.Workspaces().ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	return memberships, nil
}

func (s *WorkspaceService) Get(ctx context.Context, workspaceID string) (models.Workspace, error) {
	workspace, err := s.store.Workspaces().GetByID(ctx, workspaceID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Workspace{}, ErrWorkspaceNotFound
	}
	if err != nil {
		return models.Workspace{}, fmt.Errorf("get workspace: %w", err)
	}
	return workspace, nil
}

type UpdateWorkspaceInput struct {
	Name        *string
	Description *string
}

func (s *WorkspaceService) Update(ctx context.Context, workspaceID string, input UpdateWorkspaceInput) (models.Workspace, error) {
	workspace, err := s.Get(ctx, workspaceID)
	if err != nil {
		return models.Workspace{}, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" || len(name) > maxWorkspaceNameLength {
			return models.Workspace{}, apperr.Validation("workspace name must be between 1 and 100 characters")
		}
		workspace.Name = name
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			workspace.Description = nil
		} else {
			workspace.Description = &description
		}
	}

	if err := s.store.Workspaces().Update(ctx, workspace); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Workspace{}, ErrWorkspaceNotFound
		}
		return models.Workspace{}, fmt.Errorf("update workspace: %w", err)
	}
	return s.Get(ctx, workspaceID)
}
