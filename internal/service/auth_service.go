package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"linkdeck/api/internal/apperr"
	"linkdeck/api/internal/ids"
	"linkdeck/api/internal/mail"
	"linkdeck/api/internal/models"
	"linkdeck/api/internal/repository"
	"linkdeck/api/internal/security"
)

const (
	MinPasswordLength = 8
	DashboardPath     = "/dashboard"

	signupMailWarning = "account created but the verification email could not be sent; request a new code"
)

type AuthService struct {
	store        repository.Store
	hasher       *security.PasswordHasher
	sessions     *SessionManager
	verification *VerificationManager
	workspaces   *WorkspaceService
	mailer       mail.Mailer
	// failOnMailError rolls signup back when the verification email
	// cannot be sent.
	failOnMailError bool
	log             zerolog.Logger
}

func NewAuthService(
	store repository.Store,
	hasher *security.PasswordHasher,
	sessions *SessionManager,
	verification *VerificationManager,
	workspaces *WorkspaceService,
	mailer mail.Mailer,
	failOnMailError bool,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		store:           store,
		hasher:          hasher,
		sessions:        sessions,
		verification:    verification,
		workspaces:      workspaces,
		mailer:          mailer,
		failOnMailError: failOnMailError,
		log:             log.With().Str("component", "auth").Logger(),
	}
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

type SignupResult struct {
	UserID  string
	Warning string
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (SignupResult, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return SignupResult{}, apperr.Validation("name, email and password are required")
	}
	if !strings.Contains(email, "@") {
		return SignupResult{}, apperr.Validation("email address is invalid")
	}
	if len(input.Password) < MinPasswordLength {
		return SignupResult{}, apperr.Validation(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if errors.Is(err, security.ErrPasswordTooLong) {
		return SignupResult{}, apperr.Validation(fmt.Sprintf("password must be at most %d bytes", security.MaxPasswordBytes))
	}
	if err != nil {
		return SignupResult{}, fmt.Errorf("hash password: %w", err)
	}

	code, expiresAt, err := s.verification.Generate()
	if err != nil {
		return SignupResult{}, err
	}

	user := models.User{
		ID:               ids.New(),
		Email:            email,
		PasswordHash:     passwordHash,
		Name:             &name,
		VerificationCode: &code,
		CodeExpires:      &expiresAt,
	}

	var result SignupResult
	err = s.store.WithTx(ctx, func(stores repository.Stores) error {
		if _, err := stores.Users().FindByEmail(ctx, email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("find user: %w", err)
		}

		if err := stores.Users().Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrEmailTaken
			}
			return fmt.Errorf("create user: %w", err)
		}

		result.UserID = user.ID
		if err := s.sendVerification(ctx, user, code); err != nil {
			if s.failOnMailError {
				return err
			}
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("signup kept despite verification email failure")
			result.Warning = signupMailWarning
		}
		return nil
	})
	if err != nil {
		return SignupResult{}, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user signed up")
	return result, nil
}

type VerifyResult struct {
	User       models.User
	Workspace  models.Workspace
	Session    models.Session
	Token      string
	RedirectTo string
}

// Verify checks the code, then ensures the default workspace and opens a
// session in the same transaction.
func (s *AuthService) Verify(ctx context.Context, email string, code string) (VerifyResult, error) {
	if !security.IsVerificationCodeFormat(security.NormalizeVerificationCode(code)) {
		return VerifyResult{}, ErrMalformedCode
	}
	email = strings.TrimSpace(email)

	var result VerifyResult
	err := s.store.WithTx(ctx, func(stores repository.Stores) error {
		verified, err := s.verification.Check(ctx, stores.Users(), email, code)
		if err != nil {
			return err
		}

		user, err := stores.Users().GetByID(ctx, verified.ID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("reload user: %w", err)
		}

		workspace, err := s.workspaces.EnsureDefaultWorkspace(ctx, stores, user)
		if err != nil {
			return err
		}

		token, session, err := s.sessions.Create(ctx, stores, user.ID)
		if err != nil {
			return err
		}

		result = VerifyResult{
			User:       user,
			Workspace:  workspace,
			Session:    session,
			Token:      token,
			RedirectTo: DashboardPath,
		}
		return nil
	})
	if err != nil {
		return VerifyResult{}, err
	}

	s.log.Info().
		Str("user_id", result.User.ID).
		Str("workspace_id", result.Workspace.ID).
		Msg("email verified")
	return result, nil
}

func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperr.Validation("email is required")
	}

	return s.store.WithTx(ctx, func(stores repository.Stores) error {
		user, err := stores.Users().FindByEmail(ctx, email)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		if user.IsVerified() {
			return ErrAlreadyVerified
		}

		code, _, err := s.verification.Issue(ctx, stores.Users(), user.ID)
		if err != nil {
			return err
		}
		return s.sendVerification(ctx, user, code)
	})
}

type LoginResult struct {
	User    models.User
	Session models.Session
	Token   string
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return LoginResult{}, apperr.Validation("email and password are required")
	}

	user, err := s.store.Users().FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if !user.IsVerified() {
		return LoginResult{}, ErrEmailNotVerified
	}

	token, session, err := s.sessions.Create(ctx, s.store, user.ID)
	if err != nil {
		return LoginResult{}, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return LoginResult{User: user, Session: session, Token: token}, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Authenticate resolves a session token to its live session. Missing,
// unknown and expired tokens are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.SessionWithUser, error) {
	session, err := s.sessions.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrUnauthenticated
	}
	if !session.User.IsVerified() {
		return nil, ErrSessionUnverified
	}
	return session, nil
}

func (s *AuthService) sendVerification(ctx context.Context, user models.User, code string) error {
	msg, err := mail.VerificationEmail(user.Email, user.DisplayName(), code, s.verification.TTL())
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to send verification email", err)
	}
	return nil
}
