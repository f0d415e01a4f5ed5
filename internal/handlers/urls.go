package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"linkdeck/api/internal/middleware"
	"linkdeck/api/internal/service"
)

func (h HandlerSet) ListURLs(c *gin.Context) {
	var categoryID *string
	if id := c.Query("categoryId"); id != "" {
		categoryID = &id
	}

	urls, err := h.urls.List(c.Request.Context(), workspaceID(c), categoryID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	items := make([]urlResponse, 0, len(urls))
	for _, u := range urls {
		items = append(items, newURLResponse(u))
	}
	c.JSON(http.StatusOK, gin.H{"urls": items})
}

func (h HandlerSet) GetURL(c *gin.Context) {
	found, err := h.urls.Get(c.Request.Context(), workspaceID(c), c.Param("urlId"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": newURLResponse(found)})
}

type createURLRequest struct {
	URL         string  `json:"url" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	CategoryID  *string `json:"categoryId"`
}

func (h HandlerSet) CreateURL(c *gin.Context) {
	var req createURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, errInvalidBody)
		return
	}
	user, _ := middleware.CurrentUser(c)

	created, err := h.urls.Create(c.Request.Context(), workspaceID(c), user.ID, service.URLInput{
		URL:         req.URL,
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": newURLResponse(created)})
}

type updateURLRequest struct {
	URL         *string `json:"url"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	CategoryID  *string `json:"categoryId"`
}

func (h HandlerSet) UpdateURL(c *gin.Context) {
	var req updateURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, errInvalidBody)
		return
	}

	updated, err := h.urls.Update(c.Request.Context(), workspaceID(c), c.Param("urlId"), service.URLPatch{
		URL:         req.URL,
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": newURLResponse(updated)})
}

func (h HandlerSet) DeleteURL(c *gin.Context) {
	if err := h.urls.Delete(c.Request.Context(), workspaceID(c), c.Param("urlId")); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
