package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"galleria/api/internal/ids"
	"galleria/api/internal/media/sniffer"
	"galleria/api/internal/models"
	"galleria/api/internal/repository"
)

var (
	ErrTitleRequired    = errors.New("title required")
	ErrFileRequired     = errors.New("image file required")
	ErrUnsupportedImage = errors.New("unsupported image format")
	ErrImageHost        = errors.New("image host failure")
)

type ImageService struct {
	images   ImageStore
	likes    LikeStore
	comments CommentStore
	users    UserStore
	host     ObjectHost
	cache    ListingCache
	log      zerolog.Logger
}

func NewImageService(
	images ImageStore,
	likes LikeStore,
	comments CommentStore,
	users UserStore,
	host ObjectHost,
	listCache ListingCache,
	log zerolog.Logger,
) *ImageService {
	return &ImageService{
		images:   images,
		likes:    likes,
		comments: comments,
		users:    users,
		host:     host,
		cache:    listCache,
		log:      log,
	}
}

type UploadInput struct {
	AdminID     string
	Title       string
	Description string
	File        io.Reader
}

func (s *ImageService) Upload(ctx context.Context, input UploadInput) (models.Image, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return models.Image{}, ErrTitleRequired
	}
	if input.File == nil {
		return models.Image{}, ErrFileRequired
	}

	data, err := io.ReadAll(input.File)
	if err != nil {
		return models.Image{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return models.Image{}, ErrFileRequired
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	detected, err := sniffer.DetectHead(head)
	if err != nil {
		return models.Image{}, ErrUnsupportedImage
	}

	stored, err := s.host.Upload(ctx, bytes.NewReader(data), int64(len(data)), detected.MIME, string(detected.Type))
	if err != nil {
		return models.Image{}, fmt.Errorf("%w: %v", ErrImageHost, err)
	}

	image := models.Image{
		ID:           ids.New(),
		URL:          stored.URL,
		ObjectKey:    stored.Key,
		Title:        title,
		Description:  strings.TrimSpace(input.Description),
		UploadedBy:   input.AdminID,
		UploadedDate: nowUTC(),
		LikeCount:    0,
	}

	if err := s.images.Create(ctx, image); err != nil {
		return models.Image{}, fmt.Errorf("save metadata: %w", err)
	}

	s.cache.Bump(ctx)
	return image, nil
}

// List returns enriched images. Anonymous listings (no viewer) are served
// through the versioned cache; viewer-specific listings always hit the store
// because the like flag is per viewer.
func (s *ImageService) List(ctx context.Context, filter repository.ImageFilter, viewerID string) ([]ImageView, error) {
	cacheable := viewerID == ""

	var key string
	if cacheable {
		key = s.cache.Key(ctx, "list", string(filter.Sort), filter.Search, filter.Title, filter.Description)
		var cached []ImageView
		if s.cache.Get(ctx, key, &cached) {
			return cached, nil
		}
	}

	images, err := s.images.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	views, err := buildImageViews(ctx, images, viewerID, s.likes, s.users)
	if err != nil {
		return nil, err
	}

	if cacheable {
		s.cache.Set(ctx, key, views)
	}
	return views, nil
}

func (s *ImageService) Get(ctx context.Context, id, viewerID string) (ImageView, error) {
	image, err := s.images.GetByID(ctx, id)
	if err != nil {
		return ImageView{}, err
	}

	views, err := buildImageViews(ctx, []models.Image{image}, viewerID, s.likes, s.users)
	if err != nil {
		return ImageView{}, err
	}
	return views[0], nil
}

func (s *ImageService) Update(ctx context.Context, id string, title, description *string) (models.Image, error) {
	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if trimmed == "" {
			return models.Image{}, ErrTitleRequired
		}
		title = &trimmed
	}

	image, err := s.images.Update(ctx, id, title, description)
	if err != nil {
		return models.Image{}, err
	}

	s.cache.Bump(ctx)
	return image, nil
}

// Delete removes the remote object first: if the image host refuses, the
// whole operation aborts with no local change. Likes and comments cascade
// after the image document goes.
func (s *ImageService) Delete(ctx context.Context, id string) error {
	image, err := s.images.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.host.Remove(ctx, image.ObjectKey); err != nil {
		return fmt.Errorf("%w: %v", ErrImageHost, err)
	}

	if err := s.images.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.likes.DeleteByImage(ctx, id); err != nil {
		s.log.Error().Err(err).Str("image_id", id).Msg("cascade likes failed")
	}
	if err := s.comments.DeleteByImage(ctx, id); err != nil {
		s.log.Error().Err(err).Str("image_id", id).Msg("cascade comments failed")
	}

	s.cache.Bump(ctx)
	return nil
}
