package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"linkdeck/api/internal/middleware"
	"linkdeck/api/internal/service"
)

func (h HandlerSet) ListMembers(c *gin.Context) {
	members, err := h.team.ListMembers(c.Request.Context(), workspaceID(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	items := make([]memberResponse, 0, len(members))
	for _, m := range members {
		items = append(items, memberResponse{
			ID:       m.Member.ID,
			Role:     m.Member.Role,
			JoinedAt: m.Member.JoinedAt,
			User:     newUserResponse(m.User),
		})
	}
	c.JSON(http.StatusOK, gin.H{"members": items})
}

type inviteRequest struct {
	Email string `json:"email" binding:"required"`
	Role  string `json:"role" binding:"required"`
}

func (h HandlerSet) Invite(c *gin.Context) {
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, errInvalidBody)
		return
	}
	user, _ := middleware.CurrentUser(c)

	result, err := h.team.Invite(c.Request.Context(), service.InviteInput{
		WorkspaceID: workspaceID(c),
		Inviter:     user,
		Email:       req.Email,
		Role:        req.Role,
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email":     result.Email,
		"role":      result.Role,
		"inviteUrl": result.InviteURL,
		"expiresAt": result.ExpiresAt,
	})
}

type acceptInviteRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h HandlerSet) AcceptInvitation(c *gin.Context) {
	var req acceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, errInvalidBody)
		return
	}
	user, _ := middleware.CurrentUser(c)

	membership, err := h.team.AcceptInvite(c.Request.Context(), user, req.Token)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"membership": newMembershipResponse(membership)})
}

type updateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h HandlerSet) UpdateMemberRole(c *gin.Context) {
	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, errInvalidBody)
		return
	}

	member, err := h.team.UpdateRole(c.Request.Context(), workspaceID(c), c.Param("memberId"), req.Role)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"member": gin.H{
		"id":       member.ID,
		"userId":   member.UserID,
		"role":     member.Role,
		"joinedAt": member.JoinedAt,
	}})
}

func (h HandlerSet) RemoveMember(c *gin.Context) {
	if err := h.team.RemoveMember(c.Request.Context(), workspaceID(c), c.Param("memberId")); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
