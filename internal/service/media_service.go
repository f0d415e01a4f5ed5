package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/rs/zerolog"

	"linkdeck/api/internal/ids"
	"linkdeck/api/internal/media/sniffer"
	"linkdeck/api/internal/media/svg"
	"linkdeck/api/internal/models"
	"linkdeck/api/internal/repository"
)

// AssetStore persists an uploaded object and returns its public URL.
type AssetStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type AssetUpload struct {
	WorkspaceID  string
	URLID        string
	Kind         models.AssetKind
	File         io.Reader
	DeclaredType string
}

// MediaService stores screenshots and favicons for saved URLs.
type MediaService struct {
	store   repository.Store
	assets  AssetStore
	maxSize int64
	log     zerolog.Logger
}

func NewMediaService(store repository.Store, assets AssetStore, maxSize int64, log zerolog.Logger) *MediaService {
	return &MediaService{
		store:   store,
		assets:  assets,
		maxSize: maxSize,
		log:     log.With().Str("component", "media").Logger(),
	}
}

func (s *MediaService) MaxSize() int64 {
	return s.maxSize
}

func (s *MediaService) Upload(ctx context.Context, input AssetUpload) (models.URL, error) {
	if s.assets == nil {
		return models.URL{}, ErrStorageDisabled
	}
	if input.Kind != models.AssetScreenshot && input.Kind != models.AssetFavicon {
		return models.URL{}, fmt.Errorf("unknown asset kind %q", input.Kind)
	}
	if input.File == nil {
		return models.URL{}, ErrEmptyUpload
	}

	if _, err := s.store.URLs().GetByID(ctx, input.WorkspaceID, input.URLID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.URL{}, ErrURLNotFound
		}
		return models.URL{}, fmt.Errorf("get url: %w", err)
	}

	data, err := io.ReadAll(io.LimitReader(input.File, s.maxSize+1))
	if err != nil {
		return models.URL{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return models.URL{}, ErrEmptyUpload
	}
	if int64(len(data)) > s.maxSize {
		return models.URL{}, ErrUploadTooLarge
	}

	head := data
	if len(head) > sniffer.HeadSize {
		head = head[:sniffer.HeadSize]
	}
	detected, err := sniffer.DetectHead(head)
	if err != nil {
		return models.URL{}, ErrUnsupportedMedia
	}
	if !sniffer.Matches(input.DeclaredType, detected) {
		return models.URL{}, ErrContentMismatch
	}

	if detected.Type == sniffer.TypeSVG {
		if data, err = svg.Sanitize(data); err != nil {
			return models.URL{}, ErrUnsupportedMedia
		}
	}

	key := path.Join(input.WorkspaceID, input.URLID, fmt.Sprintf("%s-%s.%s", input.Kind, ids.New(), detected.Ext()))
	location, err := s.assets.Put(ctx, key, data, detected.MIME)
	if err != nil {
		return models.URL{}, fmt.Errorf("store asset: %w", err)
	}

	if err := s.store.URLs().SetAsset(ctx, input.WorkspaceID, input.URLID, input.Kind, location); err != nil {
		if delErr := s.assets.Delete(ctx, key); delErr != nil {
			s.log.Warn().Err(delErr).Str("key", key).Msg("remove orphaned asset failed")
		}
		if errors.Is(err, repository.ErrNotFound) {
			return models.URL{}, ErrURLNotFound
		}
		return models.URL{}, fmt.Errorf("save asset location: %w", err)
	}

	s.log.Info().
		Str("workspace_id", input.WorkspaceID).
		Str("url_id", input.URLID).
		Str("kind", string(input.Kind)).
		Str("format", string(detected.Type)).
		Int("bytes", len(data)).
		Msg("asset stored")

	updated, err := s.store.URLs().GetByID(ctx, input.WorkspaceID, input.URLID)
	if err != nil {
		return models.URL{}, fmt.Errorf("reload url: %w", err)
	}
	return updated, nil
}
