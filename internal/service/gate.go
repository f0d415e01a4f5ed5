package service

import (
	"context"
	"errors"
	"fmt"

	"linkdeck/api/internal/models"
	"linkdeck/api/internal/repository"
)

// Action is a workspace-scoped operation guarded by a minimum role.
type Action int

const (
	ActionView Action = iota + 1
	ActionEditContent
	ActionManageMembers
	ActionManageWorkspace
)

var actionMinimumRoles = map[Action]models.Role{
	ActionView:            models.RoleViewer,
	ActionEditContent:     models.RoleEditor,
	ActionManageMembers:   models.RoleAdmin,
	ActionManageWorkspace: models.RoleOwner,
}

func (a Action) String() string {
	switch a {
	case ActionView:
		return "view"
	case ActionEditContent:
		return "edit_content"
	case ActionManageMembers:
		return "manage_members"
	case ActionManageWorkspace:
		return "manage_workspace"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// MinimumRole returns the least privileged role allowed to perform a.
// Unknown actions require OWNER.
func MinimumRole(a Action) models.Role {
	if role, ok := actionMinimumRoles[a]; ok {
		return role
	}
	return models.RoleOwner
}

type Gate struct {
	stores repository.Stores
}

func NewGate(stores repository.Stores) *Gate {
	return &Gate{stores: stores}
}

// Authorize resolves the caller's membership in workspaceID and checks it
// against the action's minimum role. Non-members get ErrWorkspaceNotFound so
// workspace ids are not disclosed.
func (g *Gate) Authorize(ctx context.Context, userID string, workspaceID string, action Action) (models.WorkspaceMember, error) {
	member, err := g.stores.Members().Find(ctx, workspaceID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.WorkspaceMember{}, ErrWorkspaceNotFound
	}
	if err != nil {
		return models.WorkspaceMember{}, fmt.Errorf("resolve membership: %w", err)
	}

	if !member.Role.AtLeast(MinimumRole(action)) {
		return member, ErrInsufficientRole
	}
	return member, nil
}
