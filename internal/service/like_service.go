package service

import (
	"context"

	"github.com/rs/zerolog"

	"galleria/api/internal/ids"
	"galleria/api/internal/models"
	"galleria/api/internal/repository"
)

type LikeService struct {
	likes  LikeStore
	images ImageStore
	users  UserStore
	cache  ListingCache
	log    zerolog.Logger
}

func NewLikeService(likes LikeStore, images ImageStore, users UserStore, listCache ListingCache, log zerolog.Logger) *LikeService {
	return &LikeService{
		likes:  likes,
		images: images,
		users:  users,
		cache:  listCache,
		log:    log,
	}
}

// Like records that userID liked imageID and returns the new like-count.
// The unique index behind LikeStore.Create closes the window between two
// concurrent duplicate likes; the counter adjustment is a single atomic
// document operation, so the reported count is the post-mutation value.
func (s *LikeService) Like(ctx context.Context, userID, imageID string) (int64, error) {
	if _, err := s.images.GetByID(ctx, imageID); err != nil {
		return 0, err
	}

	like := models.Like{
		ID:        ids.New(),
		UserID:    userID,
		ImageID:   imageID,
		CreatedAt: nowUTC(),
	}
	if err := s.likes.Create(ctx, like); err != nil {
		return 0, err
	}

	count, err := s.images.AdjustLikeCount(ctx, imageID, 1)
	if err != nil {
		return 0, err
	}

	s.cache.Bump(ctx)
	return count, nil
}

// Unlike removes the like and returns the new count, floored at 0.
func (s *LikeService) Unlike(ctx context.Context, userID, imageID string) (int64, error) {
	if err := s.likes.Delete(ctx, userID, imageID); err != nil {
		return 0, err
	}

	count, err := s.images.AdjustLikeCount(ctx, imageID, -1)
	if err != nil {
		return 0, err
	}

	s.cache.Bump(ctx)
	return count, nil
}

// ListLiked returns the viewer's liked images, sorted like the public
// listing and flagged as liked.
func (s *LikeService) ListLiked(ctx context.Context, userID string, sort repository.SortKey) ([]ImageView, error) {
	imageIDs, err := s.likes.ListImageIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(imageIDs) == 0 {
		return []ImageView{}, nil
	}

	images, err := s.images.ListByIDs(ctx, imageIDs, sort)
	if err != nil {
		return nil, err
	}
	return buildImageViews(ctx, images, userID, s.likes, s.users)
}

// ReconcileLikeCounts rewrites every image whose cached counter diverged
// from the authoritative like rows, and returns how many were repaired.
func (s *LikeService) ReconcileLikeCounts(ctx context.Context) (int64, error) {
	cached, err := s.images.ListCounts(ctx)
	if err != nil {
		return 0, err
	}
	actual, err := s.likes.CountsByImage(ctx)
	if err != nil {
		return 0, err
	}

	var repaired int64
	for imageID, have := range cached {
		want := actual[imageID]
		if have == want {
			continue
		}
		if err := s.images.SetLikeCount(ctx, imageID, want); err != nil {
			s.log.Error().Err(err).Str("image_id", imageID).Msg("reconcile like count failed")
			continue
		}
		repaired++
	}

	if repaired > 0 {
		s.cache.Bump(ctx)
		s.log.Info().Int64("repaired", repaired).Msg("like counts reconciled")
	}
	return repaired, nil
}
