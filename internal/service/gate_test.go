package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkdeck/api/internal/models"
)

func TestMinimumRole(t *testing.T) {
	assert.Equal(t, models.RoleViewer, MinimumRole(ActionView))
	assert.Equal(t, models.RoleEditor, MinimumRole(ActionEditContent))
	assert.Equal(t, models.RoleAdmin, MinimumRole(ActionManageMembers))
	assert.Equal(t, models.RoleOwner, MinimumRole(ActionManageWorkspace))
	assert.Equal(t, models.RoleOwner, MinimumRole(Action(99)))
}

func TestGateAuthorize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.verifiedUser(t, "Owner", "owner@x.com")
	workspaceID := owner.Workspace.ID

	users := map[models.Role]models.User{models.RoleOwner: owner.User}
	for _, role := range []models.Role{models.RoleAdmin, models.RoleEditor, models.RoleViewer} {
		u := seedUser(t, f, string(role))
		f.addMember(t, workspaceID, u, role)
		users[role] = u
	}

	roles := []models.Role{models.RoleViewer, models.RoleEditor, models.RoleAdmin, models.RoleOwner}
	actions := []Action{ActionView, ActionEditContent, ActionManageMembers, ActionManageWorkspace}

	for _, action := range actions {
		for _, role := range roles {
			t.Run(fmt.Sprintf("%s/%s", action, role), func(t *testing.T) {
				member, err := f.gate.Authorize(ctx, users[role].ID, workspaceID, action)
				if role.Rank() >= MinimumRole(action).Rank() {
					require.NoError(t, err)
					assert.Equal(t, role, member.Role)
				} else {
					assert.ErrorIs(t, err, ErrInsufficientRole)
				}
			})
		}
	}
}

func TestGateNonMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.verifiedUser(t, "Owner", "owner@x.com")
	outsider := seedUser(t, f, "outsider")

	for _, action := range []Action{ActionView, ActionEditContent, ActionManageMembers, ActionManageWorkspace} {
		_, err := f.gate.Authorize(ctx, outsider.ID, owner.Workspace.ID, action)
		assert.ErrorIs(t, err, ErrWorkspaceNotFound)
	}

	_, err := f.gate.Authorize(ctx, owner.User.ID, "no-such-workspace", ActionView)
	assert.ErrorIs(t, err, ErrWorkspaceNotFound)
}
