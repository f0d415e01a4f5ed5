package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"linkdeck/api/internal/apperr"
	"linkdeck/api/internal/cache"
	"linkdeck/api/internal/config"
	"linkdeck/api/internal/mail"
	"linkdeck/api/internal/middleware"
	"linkdeck/api/internal/repository"
	"linkdeck/api/internal/security"
	"linkdeck/api/internal/service"
)

var errInvalidBody = apperr.Validation("invalid request body")

// Dependencies are the infrastructure handles the handler set is built on.
// Redis and Assets may be nil when the corresponding backend is disabled.
type Dependencies struct {
	Store        repository.Store
	Redis        *redis.Client
	SessionCache cache.SessionCache
	EnrichQueue  cache.EnrichQueue
	Assets       service.AssetStore
	Mailer       mail.Mailer
}

type HandlerSet struct {
	log        zerolog.Logger
	cfg        *config.AppConfig
	store      repository.Store
	redis      *redis.Client
	sessions   *service.SessionManager
	auth       *service.AuthService
	workspaces *service.WorkspaceService
	team       *service.TeamService
	categories *service.CategoryService
	urls       *service.URLService
	media      *service.MediaService
	gate       *service.Gate
}

func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, deps Dependencies) HandlerSet {
	sessions := service.NewSessionManager(deps.Store, deps.SessionCache, cfg.Security.SessionTTL, cfg.Redis.SessionCacheTTL, log)
	workspaces := service.NewWorkspaceService(deps.Store, log)
	auth := service.NewAuthService(
		deps.Store,
		security.NewPasswordHasher(cfg.Security.BcryptCost),
		sessions,
		service.NewVerificationManager(cfg.Security.VerificationTTL),
		workspaces,
		deps.Mailer,
		cfg.Mail.FailSignupOnError,
		log,
	)
	invites := security.NewInviteSigner(cfg.Security.InviteSecret, cfg.Security.InviteTTL)

	return HandlerSet{
		log:        log,
		cfg:        cfg,
		store:      deps.Store,
		redis:      deps.Redis,
		sessions:   sessions,
		auth:       auth,
		workspaces: workspaces,
		team:       service.NewTeamService(deps.Store, invites, deps.Mailer, cfg.Mail.AppBaseURL, log),
		categories: service.NewCategoryService(deps.Store),
		urls:       service.NewURLService(deps.Store, deps.EnrichQueue, log),
		media:      service.NewMediaService(deps.Store, deps.Assets, cfg.Storage.MaxUploadSize, log),
		gate:       service.NewGate(deps.Store),
	}
}

// Sessions exposes the session manager for background maintenance jobs.
func (h HandlerSet) Sessions() *service.SessionManager {
	return h.sessions
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	requireSession := middleware.Auth(h.auth)
	can := func(action service.Action) gin.HandlerFunc {
		return middleware.RequireWorkspaceRole(h.gate, action)
	}

	auth := v1.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/verify", h.Verify)
		auth.POST("/resend-verification", h.ResendVerification)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", requireSession, h.Me)
	}

	v1.POST("/invitations/accept", requireSession, h.AcceptInvitation)

	workspaces := v1.Group("/workspaces", requireSession)
	workspaces.GET("", h.ListWorkspaces)

	ws := workspaces.Group("/:" + middleware.WorkspaceParam)
	{
		ws.GET("", can(service.ActionView), h.GetWorkspace)
		ws.PATCH("", can(service.ActionManageWorkspace), h.UpdateWorkspace)

		ws.GET("/team/members", can(service.ActionView), h.ListMembers)
		ws.POST("/team/invitations", can(service.ActionManageMembers), h.Invite)
		ws.PATCH("/team/members/:memberId", can(service.ActionManageMembers), h.UpdateMemberRole)
		ws.DELETE("/team/members/:memberId", can(service.ActionManageMembers), h.RemoveMember)

		ws.GET("/categories", can(service.ActionView), h.ListCategories)
		ws.POST("/categories", can(service.ActionEditContent), h.CreateCategory)
		ws.PATCH("/categories/:categoryId", can(service.ActionEditContent), h.UpdateCategory)
		ws.DELETE("/categories/:categoryId", can(service.ActionEditContent), h.DeleteCategory)

		ws.GET("/urls", can(service.ActionView), h.ListURLs)
		ws.POST("/urls", can(service.ActionEditContent), h.CreateURL)
		ws.GET("/urls/:urlId", can(service.ActionView), h.GetURL)
		ws.PATCH("/urls/:urlId", can(service.ActionEditContent), h.UpdateURL)
		ws.DELETE("/urls/:urlId", can(service.ActionEditContent), h.DeleteURL)
		ws.PUT("/urls/:urlId/screenshot", can(service.ActionEditContent), h.UploadScreenshot)
		ws.PUT("/urls/:urlId/favicon", can(service.ActionEditContent), h.UploadFavicon)
	}
}

func workspaceID(c *gin.Context) string {
	return c.Param(middleware.WorkspaceParam)
}
