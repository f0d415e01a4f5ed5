package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"linkdeck/api/internal/apperr"
	"linkdeck/api/internal/middleware"
	"linkdeck/api/internal/models"
	"linkdeck/api/internal/service"
)

var errFileRequired = apperr.Validation("multipart field \"file\" is required")

func (h HandlerSet) UploadScreenshot(c *gin.Context) {
	h.uploadAsset(c, models.AssetScreenshot)
}

func (h HandlerSet) UploadFavicon(c *gin.Context) {
	h.uploadAsset(c, models.AssetFavicon)
}

func (h HandlerSet) uploadAsset(c *gin.Context, kind models.AssetKind) {
	// Leave room for the multipart envelope around the file itself.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.media.MaxSize()+64<<10)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.AbortWithError(c, service.ErrUploadTooLarge)
			return
		}
		middleware.AbortWithError(c, errFileRequired)
		return
	}
	defer file.Close()

	updated, err := h.media.Upload(c.Request.Context(), service.AssetUpload{
		WorkspaceID:  workspaceID(c),
		URLID:        c.Param("urlId"),
		Kind:         kind,
		File:         file,
		DeclaredType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": newURLResponse(updated)})
}
