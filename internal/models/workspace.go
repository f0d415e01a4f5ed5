package models

import (
	"fmt"
	"strings"
	"time"
)

type Workspace struct {
	ID          string
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Role is a member's privilege level inside a workspace.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleEditor Role = "EDITOR"
	RoleViewer Role = "VIEWER"
)

var roleRanks = map[Role]int{
	RoleViewer: 1,
	RoleEditor: 2,
	RoleAdmin:  3,
	RoleOwner:  4,
}

// Rank orders roles by privilege. Unknown roles rank zero and satisfy nothing.
func (r Role) Rank() int {
	return roleRanks[r]
}

func (r Role) Valid() bool {
	return r.Rank() > 0
}

func (r Role) AtLeast(min Role) bool {
	return r.Valid() && r.Rank() >= min.Rank()
}

func ParseRole(s string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return role, nil
}

type WorkspaceMember struct {
	ID          string
	UserID      string
	WorkspaceID string
	Role        Role
	JoinedAt    time.Time
}

type MemberWithUser struct {
	Member WorkspaceMember
	User   User
}

type Membership struct {
	Workspace Workspace
	Role      Role
	JoinedAt  time.Time
}

// Invitation is a pending grant of Role in a workspace to Email. It is
// consumed on acceptance and revoked when the invitee is removed.
type Invitation struct {
	ID          string
	WorkspaceID string
	Email       string
	Role        Role
	InvitedBy   string
	ExpiresAt   time.Time
	AcceptedAt  *time.Time
	RevokedAt   *time.Time
	CreatedAt   time.Time
}

// Pending reports whether the invitation can still be accepted at now.
func (i Invitation) Pending(now time.Time) bool {
	return i.AcceptedAt == nil && i.RevokedAt == nil && now.Before(i.ExpiresAt)
}
