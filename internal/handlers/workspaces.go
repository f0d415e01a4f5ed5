package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"linkdeck/api/internal/middleware"
	"linkdeck/api/internal/service"
)

func (h HandlerSet) ListWorkspaces(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	memberships, err := h.workspaces.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	items := make([]membershipResponse, 0, len(memberships))
	for _, m := range memberships {
		items = append(items, newMembershipResponse(m))
	}
	c.JSON(http.StatusOK, gin.H{"workspaces": items})
}

func (h HandlerSet) GetWorkspace(c *gin.Context) {
	workspace, err := h.workspaces.Get(c.Request.Context(), workspaceID(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	member, _ := middleware.CurrentMember(c)
	c.JSON(http.StatusOK, gin.H{
		"workspace": newWorkspaceResponse(workspace),
		"role":      member.Role,
	})
}

type updateWorkspaceRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h HandlerSet) UpdateWorkspace(c *gin.Context) {
	var req updateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, errInvalidBody)
		return
	}

	workspace, err := h.workspaces.Update(c.Request.Context(), workspaceID(c), service.UpdateWorkspaceInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"workspace": newWorkspaceResponse(workspace)})
}
