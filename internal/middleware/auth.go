package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"linkdeck/api/internal/apperr"
	"linkdeck/api/internal/models"
)

const (
	SessionCookie = "session"

	currentUserKey    = "current_user"
	currentSessionKey = "current_session"
	currentMemberKey  = "current_member"
)

var errNoSession = apperr.Unauthenticated("authentication required")

// Authenticator resolves a raw session token to a live, verified session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.SessionWithUser, error)
}

func Auth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			AbortWithError(c, errNoSession)
			return
		}

		session, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(currentUserKey, session.User)
		c.Set(currentSessionKey, session.Session)

		c.Next()
	}
}

func CurrentUser(c *gin.Context) (models.User, bool) {
	val, ok := c.Get(currentUserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}

func CurrentSession(c *gin.Context) (models.Session, bool) {
	val, ok := c.Get(currentSessionKey)
	if !ok {
		return models.Session{}, false
	}
	session, ok := val.(models.Session)
	return session, ok
}
