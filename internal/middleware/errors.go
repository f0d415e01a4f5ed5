package middleware

import (
	"github.com/gin-gonic/gin"

	"linkdeck/api/internal/apperr"
)

// AbortWithError records err on the context for the request logger and
// writes the client-safe JSON body for its kind.
func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(apperr.HTTPStatus(apperr.KindOf(err)), gin.H{
		"error": apperr.PublicMessage(err),
	})
}
