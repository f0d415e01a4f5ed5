package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"linkdeck/api/internal/apperr"
	"linkdeck/api/internal/cache"
	"linkdeck/api/internal/ids"
	"linkdeck/api/internal/models"
	"linkdeck/api/internal/repository"
)

const (
	maxURLLength   = 2048
	maxTitleLength = 300
)

type URLService struct {
	store  repository.Store
	enrich cache.EnrichQueue
	log    zerolog.Logger
}

func NewURLService(store repository.Store, enrich cache.EnrichQueue, log zerolog.Logger) *URLService {
	if enrich == nil {
		enrich = cache.NopEnrichQueue{}
	}
	return &URLService{
		store:  store,
		enrich: enrich,
		log:    log.With().Str("component", "urls").Logger(),
	}
}

type URLInput struct {
	URL         string
	Title       string
	Description *string
	CategoryID  *string
}

// URLPatch leaves nil fields unchanged. A CategoryID pointing at an empty
// string detaches the URL from its category.
type URLPatch struct {
	URL         *string
	Title       *string
	Description *string
	CategoryID  *string
}

func (s *URLService) List(ctx context.Context, workspaceID string, categoryID *string) ([]models.URL, error) {
	urls, err := s.store.URLs().List(ctx, workspaceID, trimOptional(categoryID))
	if err != nil {
		return nil, fmt.Errorf("list urls: %w", err)
	}
	return urls, nil
}

func (s *URLService) Get(ctx context.Context, workspaceID string, urlID string) (models.URL, error) {
	found, err := s.store.URLs().GetByID(ctx, workspaceID, urlID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.URL{}, ErrURLNotFound
	}
	if err != nil {
		return models.URL{}, fmt.Errorf("get url: %w", err)
	}
	return found, nil
}

func (s *URLService) Create(ctx context.Context, workspaceID string, userID string, input URLInput) (models.URL, error) {
	link, err := normalizeLink(input.URL)
	if err != nil {
		return models.URL{}, err
	}
	title, err := normalizeTitle(input.Title)
	if err != nil {
		return models.URL{}, err
	}

	categoryID := trimOptional(input.CategoryID)
	if err := s.checkCategory(ctx, workspaceID, categoryID); err != nil {
		return models.URL{}, err
	}

	record := models.URL{
		ID:          ids.New(),
		URL:         link,
		Title:       title,
		Description: trimOptional(input.Description),
		CategoryID:  categoryID,
		WorkspaceID: workspaceID,
		UserID:      userID,
	}
	if err := s.store.URLs().Create(ctx, record); err != nil {
		return models.URL{}, fmt.Errorf("create url: %w", err)
	}

	if err := s.enrich.Enqueue(ctx, cache.EnrichJob{
		URLID:       record.ID,
		WorkspaceID: workspaceID,
		URL:         link,
	}); err != nil {
		s.log.Warn().Err(err).Str("url_id", record.ID).Msg("enqueue enrichment failed")
	}

	return s.Get(ctx, workspaceID, record.ID)
}

func (s *URLService) Update(ctx context.Context, workspaceID string, urlID string, patch URLPatch) (models.URL, error) {
	record, err := s.Get(ctx, workspaceID, urlID)
	if err != nil {
		return models.URL{}, err
	}

	if patch.URL != nil {
		if record.URL, err = normalizeLink(*patch.URL); err != nil {
			return models.URL{}, err
		}
	}
	if patch.Title != nil {
		if record.Title, err = normalizeTitle(*patch.Title); err != nil {
			return models.URL{}, err
		}
	}
	if patch.Description != nil {
		record.Description = trimOptional(patch.Description)
	}
	if patch.CategoryID != nil {
		record.CategoryID = trimOptional(patch.CategoryID)
		if err := s.checkCategory(ctx, workspaceID, record.CategoryID); err != nil {
			return models.URL{}, err
		}
	}

	if err := s.store.URLs().Update(ctx, record); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.URL{}, ErrURLNotFound
		}
		return models.URL{}, fmt.Errorf("update url: %w", err)
	}
	return s.Get(ctx, workspaceID, urlID)
}

func (s *URLService) Delete(ctx context.Context, workspaceID string, urlID string) error {
	if err := s.store.URLs().Delete(ctx, workspaceID, urlID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrURLNotFound
		}
		return fmt.Errorf("delete url: %w", err)
	}
	return nil
}

func (s *URLService) checkCategory(ctx context.Context, workspaceID string, categoryID *string) error {
	if categoryID == nil {
		return nil
	}
	_, err := s.store.Categories().GetByID(ctx, workspaceID, *categoryID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrForeignCategory
	}
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	return nil
}

func normalizeLink(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxURLLength {
		return "", apperr.Validation("url is required and must be at most 2048 characters")
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", apperr.Validation("url must be an absolute http or https address")
	}
	return parsed.String(), nil
}

func normalizeTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" || len(title) > maxTitleLength {
		return "", apperr.Validation("title must be between 1 and 300 characters")
	}
	return title, nil
}
