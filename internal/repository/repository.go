package repository

import (
	"context"
	"errors"
	"time"

	"linkdeck/api/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

type UserStore interface {
	Create(ctx context.Context, user models.User) error
	GetByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	// SetVerificationCode overwrites any outstanding code.
	SetVerificationCode(ctx context.Context, userID string, code string, expiresAt time.Time) error
	// MarkVerified clears the code and stamps email_verified, but only while the
	// stored code still equals code. Returns ErrNotFound otherwise.
	MarkVerified(ctx context.Context, userID string, code string, verifiedAt time.Time) error
}

type SessionStore interface {
	Create(ctx context.Context, session models.Session) error
	FindByTokenHash(ctx context.Context, tokenHash string) (models.SessionWithUser, error)
	// DeleteByTokenHash is idempotent.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type WorkspaceStore interface {
	Create(ctx context.Context, workspace models.Workspace) error
	GetByID(ctx context.Context, id string) (models.Workspace, error)
	Update(ctx context.Context, workspace models.Workspace) error
	FindOwnedBy(ctx context.Context, userID string) (models.Workspace, error)
	ListForUser(ctx context.Context, userID string) ([]models.Membership, error)
}

type MemberStore interface {
	Create(ctx context.Context, member models.WorkspaceMember) error
	Find(ctx context.Context, workspaceID string, userID string) (models.WorkspaceMember, error)
	GetByID(ctx context.Context, workspaceID string, memberID string) (models.WorkspaceMember, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]models.MemberWithUser, error)
	UpdateRole(ctx context.Context, workspaceID string, memberID string, role models.Role) error
	Delete(ctx context.Context, workspaceID string, memberID string) error
}

type InvitationStore interface {
	Create(ctx context.Context, invitation models.Invitation) error
	// Consume marks a pending invitation accepted. Returns ErrNotFound when it
	// is unknown, already accepted, revoked or expired at.
	Consume(ctx context.Context, workspaceID string, id string, at time.Time) error
	// RevokePending revokes every pending invitation for email in the
	// workspace. Email is matched case-insensitively.
	RevokePending(ctx context.Context, workspaceID string, email string, at time.Time) (int64, error)
}

type CategoryStore interface {
	Create(ctx context.Context, category models.Category) error
	GetByID(ctx context.Context, workspaceID string, id string) (models.Category, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Category, error)
	Update(ctx context.Context, category models.Category) error
	// Delete detaches the category's URLs instead of removing them.
	Delete(ctx context.Context, workspaceID string, id string) error
}

type URLStore interface {
	Create(ctx context.Context, url models.URL) error
	GetByID(ctx context.Context, workspaceID string, id string) (models.URL, error)
	List(ctx context.Context, workspaceID string, categoryID *string) ([]models.URL, error)
	Update(ctx context.Context, url models.URL) error
	SetAsset(ctx context.Context, workspaceID string, id string, kind models.AssetKind, location string) error
	Delete(ctx context.Context, workspaceID string, id string) error
}

// Stores groups the per-entity stores bound to one connection or transaction.
type Stores interface {
	Users() UserStore
	Sessions() SessionStore
	Workspaces() WorkspaceStore
	Members() MemberStore
	Invitations() InvitationStore
	Categories() CategoryStore
	URLs() URLStore
}

// TxRunner runs fn with stores bound to a single transaction. Returning an
// error from fn rolls everything back.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores Stores) error) error
}

type Store interface {
	Stores
	TxRunner
	Ping(ctx context.Context) error
}
