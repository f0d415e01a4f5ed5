package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"linkdeck/api/internal/apperr"
	"linkdeck/api/internal/ids"
	"linkdeck/api/internal/mail"
	"linkdeck/api/internal/models"
	"linkdeck/api/internal/repository"
	"linkdeck/api/internal/security"
)

const invitePath = "/invite"

type TeamService struct {
	store      repository.Store
	invites    *security.InviteSigner
	mailer     mail.Mailer
	appBaseURL string
	now        func() time.Time
	log        zerolog.Logger
}

func NewTeamService(store repository.Store, invites *security.InviteSigner, mailer mail.Mailer, appBaseURL string, log zerolog.Logger) *TeamService {
	return &TeamService{
		store:      store,
		invites:    invites,
		mailer:     mailer,
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
		now:        time.Now,
		log:        log.With().Str("component", "team").Logger(),
	}
}

func (s *TeamService) ListMembers(ctx context.Context, workspaceID string) ([]models.MemberWithUser, error) {
	members, err := s.store.Members().ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

type InviteInput struct {
	WorkspaceID string
	Inviter     models.User
	Email       string
	Role        string
}

type InviteResult struct {
	Email     string
	Role      models.Role
	InviteURL string
	ExpiresAt time.Time
}

func (s *TeamService) Invite(ctx context.Context, input InviteInput) (InviteResult, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return InviteResult{}, apperr.Validation("a valid email is required")
	}
	role, err := assignableRole(input.Role)
	if err != nil {
		return InviteResult{}, err
	}

	workspace, err := s.store.Workspaces().GetByID(ctx, input.WorkspaceID)
	if errors.Is(err, repository.ErrNotFound) {
		return InviteResult{}, ErrWorkspaceNotFound
	}
	if err != nil {
		return InviteResult{}, fmt.Errorf("get workspace: %w", err)
	}

	if invitee, err := s.store.Users().FindByEmail(ctx, email); err == nil {
		if _, err := s.store.Members().Find(ctx, workspace.ID, invitee.ID); err == nil {
			return InviteResult{}, ErrAlreadyMember
		} else if !errors.Is(err, repository.ErrNotFound) {
			return InviteResult{}, fmt.Errorf("find member: %w", err)
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return InviteResult{}, fmt.Errorf("find invitee: %w", err)
	}

	var (
		link      string
		expiresAt time.Time
	)
	err = s.store.WithTx(ctx, func(stores repository.Stores) error {
		invitationID := ids.New()
		token, exp, err := s.invites.Sign(security.InviteGrant{
			ID:          invitationID,
			WorkspaceID: workspace.ID,
			Email:       email,
			Role:        string(role),
			InvitedBy:   input.Inviter.ID,
		})
		if err != nil {
			return fmt.Errorf("sign invitation: %w", err)
		}
		expiresAt = exp
		link = s.appBaseURL + invitePath + "?token=" + url.QueryEscape(token)

		if err := stores.Invitations().Create(ctx, models.Invitation{
			ID:          invitationID,
			WorkspaceID: workspace.ID,
			Email:       email,
			Role:        role,
			InvitedBy:   input.Inviter.ID,
			ExpiresAt:   expiresAt,
		}); err != nil {
			return fmt.Errorf("store invitation: %w", err)
		}

		msg, err := mail.InvitationEmail(email, input.Inviter.DisplayName(), workspace.Name, string(role), link, expiresAt)
		if err != nil {
			return err
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			return apperr.Wrap(apperr.KindInternal, "failed to send invitation email", err)
		}
		return nil
	})
	if err != nil {
		return InviteResult{}, err
	}

	s.log.Info().
		Str("workspace_id", workspace.ID).
		Str("invited_by", input.Inviter.ID).
		Str("role", string(role)).
		Msg("invitation sent")

	return InviteResult{Email: email, Role: role, InviteURL: link, ExpiresAt: expiresAt}, nil
}

// AcceptInvite adds user to the workspace named in the invitation token. The
// token must have been issued to the user's email address and is consumed on
// success, so it cannot be replayed after the member is removed.
func (s *TeamService) AcceptInvite(ctx context.Context, user models.User, token string) (models.Membership, error) {
	claims, err := s.invites.Parse(strings.TrimSpace(token))
	if err != nil {
		return models.Membership{}, ErrInvalidInvite
	}
	if !strings.EqualFold(claims.Email, user.Email) {
		return models.Membership{}, ErrInviteMismatch
	}
	role, err := assignableRole(claims.Role)
	if err != nil {
		return models.Membership{}, err
	}

	var (
		workspace models.Workspace
		member    models.WorkspaceMember
	)
	err = s.store.WithTx(ctx, func(stores repository.Stores) error {
		now := s.now().UTC()

		workspace, err = stores.Workspaces().GetByID(ctx, claims.WorkspaceID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkspaceNotFound
		}
		if err != nil {
			return fmt.Errorf("get workspace: %w", err)
		}

		if err := stores.Invitations().Consume(ctx, workspace.ID, claims.ID, now); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrInvalidInvite
			}
			return fmt.Errorf("consume invitation: %w", err)
		}

		member = models.WorkspaceMember{
			ID:          ids.New(),
			UserID:      user.ID,
			WorkspaceID: workspace.ID,
			Role:        role,
			JoinedAt:    now,
		}
		if err := stores.Members().Create(ctx, member); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrAlreadyMember
			}
			return fmt.Errorf("add member: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Membership{}, err
	}

	s.log.Info().
		Str("workspace_id", workspace.ID).
		Str("user_id", user.ID).
		Str("role", string(role)).
		Msg("invitation accepted")

	return models.Membership{Workspace: workspace, Role: role, JoinedAt: member.JoinedAt}, nil
}

func (s *TeamService) UpdateRole(ctx context.Context, workspaceID string, memberID string, roleName string) (models.WorkspaceMember, error) {
	role, err := models.ParseRole(roleName)
	if err != nil {
		return models.WorkspaceMember{}, ErrUnknownRole
	}

	member, err := getMember(ctx, s.store, workspaceID, memberID)
	if err != nil {
		return models.WorkspaceMember{}, err
	}
	if member.Role == models.RoleOwner {
		return models.WorkspaceMember{}, ErrOwnerImmutable
	}
	if role == models.RoleOwner {
		return models.WorkspaceMember{}, ErrOwnerNotAssignable
	}

	if err := s.store.Members().UpdateRole(ctx, workspaceID, memberID, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.WorkspaceMember{}, ErrMemberNotFound
		}
		return models.WorkspaceMember{}, fmt.Errorf("update role: %w", err)
	}

	member.Role = role
	return member, nil
}

// RemoveMember deletes the membership and revokes any invitation still
// pending for the member's email in the same workspace.
func (s *TeamService) RemoveMember(ctx context.Context, workspaceID string, memberID string) error {
	var revoked int64
	err := s.store.WithTx(ctx, func(stores repository.Stores) error {
		member, err := getMember(ctx, stores, workspaceID, memberID)
		if err != nil {
			return err
		}
		if member.Role == models.RoleOwner {
			return ErrOwnerImmutable
		}

		user, err := stores.Users().GetByID(ctx, member.UserID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("get member user: %w", err)
		}

		if err := stores.Members().Delete(ctx, workspaceID, memberID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrMemberNotFound
			}
			return fmt.Errorf("remove member: %w", err)
		}

		if user.Email != "" {
			revoked, err = stores.Invitations().RevokePending(ctx, workspaceID, user.Email, s.now().UTC())
			if err != nil {
				return fmt.Errorf("revoke invitations: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info().
		Str("workspace_id", workspaceID).
		Str("member_id", memberID).
		Int64("invitations_revoked", revoked).
		Msg("member removed")
	return nil
}

func getMember(ctx context.Context, stores repository.Stores, workspaceID string, memberID string) (models.WorkspaceMember, error) {
	member, err := stores.Members().GetByID(ctx, workspaceID, memberID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.WorkspaceMember{}, ErrMemberNotFound
	}
	if err != nil {
		return models.WorkspaceMember{}, fmt.Errorf("get member: %w", err)
	}
	return member, nil
}

// assignableRole parses a role that may be granted through an invitation.
func assignableRole(name string) (models.Role, error) {
	role, err := models.ParseRole(name)
	if err != nil {
		return "", ErrUnknownRole
	}
	if role == models.RoleOwner {
		return "", ErrOwnerNotAssignable
	}
	return role, nil
}
