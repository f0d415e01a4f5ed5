package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"linkdeck/api/internal/apperr"
	"linkdeck/api/internal/ids"
	"linkdeck/api/internal/models"
	"linkdeck/api/internal/repository"
)

const maxCategoryNameLength = 50

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type CategoryService struct {
	store repository.Store
}

func NewCategoryService(store repository.Store) *CategoryService {
	return &CategoryService{store: store}
}

type CategoryInput struct {
	Name  string
	Color string
	Icon  *string
}

type CategoryPatch struct {
	Name  *string
	Color *string
	Icon  *string
}

func (s *CategoryService) List(ctx context.Context, workspaceID string) ([]models.Category, error) {
	categories, err := s.store.Categories().ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) Create(ctx context.Context, workspaceID string, input CategoryInput) (models.Category, error) {
	category := models.Category{
		ID:          ids.New(),
		Name:        strings.TrimSpace(input.Name),
		Color:       strings.TrimSpace(input.Color),
		Icon:        trimOptional(input.Icon),
		WorkspaceID: workspaceID,
	}
	if err := validateCategory(category); err != nil {
		return models.Category{}, err
	}

	if err := s.store.Categories().Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return models.Category{}, ErrCategoryExists
		}
		return models.Category{}, fmt.Errorf("create category: %w", err)
	}
	return s.get(ctx, workspaceID, category.ID)
}

func (s *CategoryService) Update(ctx context.Context, workspaceID string, categoryID string, patch CategoryPatch) (models.Category, error) {
	category, err := s.get(ctx, workspaceID, categoryID)
	if err != nil {
		return models.Category{}, err
	}

	if patch.Name != nil {
		category.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Color != nil {
		category.Color = strings.TrimSpace(*patch.Color)
	}
	if patch.Icon != nil {
		category.Icon = trimOptional(patch.Icon)
	}
	if err := validateCategory(category); err != nil {
		return models.Category{}, err
	}

	if err := s.store.Categories().Update(ctx, category); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return models.Category{}, ErrCategoryExists
		case errors.Is(err, repository.ErrNotFound):
			return models.Category{}, ErrCategoryNotFound
		}
		return models.Category{}, fmt.Errorf("update category: %w", err)
	}
	return s.get(ctx, workspaceID, categoryID)
}

// Delete removes the category; its URLs stay in the workspace uncategorized.
func (s *CategoryService) Delete(ctx context.Context, workspaceID string, categoryID string) error {
	if err := s.store.Categories().Delete(ctx, workspaceID, categoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (s *CategoryService) get(ctx context.Context, workspaceID string, categoryID string) (models.Category, error) {
	category, err := s.store.Categories().GetByID(ctx, workspaceID, categoryID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Category{}, ErrCategoryNotFound
	}
	if err != nil {
		return models.Category{}, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

func validateCategory(category models.Category) error {
	if category.Name == "" || len(category.Name) > maxCategoryNameLength {
		return apperr.Validation("category name must be between 1 and 50 characters")
	}
	if !colorPattern.MatchString(category.Color) {
		return apperr.Validation("color must be a hex value like #3B82F6")
	}
	return nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
