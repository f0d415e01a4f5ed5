package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"linkdeck/api/internal/middleware"
	"linkdeck/api/internal/service"
)

func (h HandlerSet) ListCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context(), workspaceID(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	items := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		items = append(items, newCategoryResponse(category))
	}
	c.JSON(http.StatusOK, gin.H{"categories": items})
}

type createCategoryRequest struct {
	Name  string  `json:"name" binding:"required"`
	Color string  `json:"color" binding:"required"`
	Icon  *string `json:"icon"`
}

func (h HandlerSet) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, errInvalidBody)
		return
	}

	category, err := h.categories.Create(c.Request.Context(), workspaceID(c), service.CategoryInput{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": newCategoryResponse(category)})
}

type updateCategoryRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}

func (h HandlerSet) UpdateCategory(c *gin.Context) {
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, errInvalidBody)
		return
	}

	category, err := h.categories.Update(c.Request.Context(), workspaceID(c), c.Param("categoryId"), service.CategoryPatch{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": newCategoryResponse(category)})
}

func (h HandlerSet) DeleteCategory(c *gin.Context) {
	if err := h.categories.Delete(c.Request.Context(), workspaceID(c), c.Param("categoryId")); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
