package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"linkdeck/api/internal/models"
	"linkdeck/api/internal/service"
)

const WorkspaceParam = "workspaceId"

// WorkspaceAuthorizer checks a user's membership role in a workspace.
type WorkspaceAuthorizer interface {
	Authorize(ctx context.Context, userID string, workspaceID string, action service.Action) (models.WorkspaceMember, error)
}

// RequireWorkspaceRole must run after Auth. It gates the route on the
// caller's role in the :workspaceId workspace.
func RequireWorkspaceRole(gate WorkspaceAuthorizer, action service.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			AbortWithError(c, errNoSession)
			return
		}

		member, err := gate.Authorize(c.Request.Context(), user.ID, c.Param(WorkspaceParam), action)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(currentMemberKey, member)
		c.Next()
	}
}

func CurrentMember(c *gin.Context) (models.WorkspaceMember, bool) {
	val, ok := c.Get(currentMemberKey)
	if !ok {
		return models.WorkspaceMember{}, false
	}
	member, ok := val.(models.WorkspaceMember)
	return member, ok
}
