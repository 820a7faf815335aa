package service

import (
	"context"
	"io"

	"galleria/api/internal/models"
	"galleria/api/internal/repository"
	"galleria/api/internal/security"
	"galleria/api/internal/storage"
)

// Store interfaces consumed by the services. The repository package provides
// the Mongo-backed implementations; tests substitute in-memory fakes that
// honor the same sentinel-error contracts.

type AdminStore interface {
	Create(ctx context.Context, admin models.Admin) error
	FindByEmail(ctx context.Context, email string) (models.Admin, error)
	GetByID(ctx context.Context, id string) (models.Admin, error)
}

type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByFirebaseUID(ctx context.Context, uid string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByFederated(ctx context.Context, uid, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.User, error)
	Update(ctx context.Context, user models.User) error
}

type ImageStore interface {
	Create(ctx context.Context, image models.Image) error
	GetByID(ctx context.Context, id string) (models.Image, error)
	List(ctx context.Context, filter repository.ImageFilter) ([]models.Image, error)
	ListByIDs(ctx context.Context, ids []string, sort repository.SortKey) ([]models.Image, error)
	Update(ctx context.Context, id string, title, description *string) (models.Image, error)
	Delete(ctx context.Context, id string) error
	AdjustLikeCount(ctx context.Context, id string, delta int64) (int64, error)
	SetLikeCount(ctx context.Context, id string, count int64) error
	ListCounts(ctx context.Context) (map[string]int64, error)
}

type LikeStore interface {
	Create(ctx context.Context, like models.Like) error
	Delete(ctx context.Context, userID, imageID string) error
	DeleteByImage(ctx context.Context, imageID string) error
	ListByImageIDs(ctx context.Context, imageIDs []string) ([]models.Like, error)
	ListImageIDsByUser(ctx context.Context, userID string) ([]string, error)
	CountsByImage(ctx context.Context) (map[string]int64, error)
}

type CommentStore interface {
	Create(ctx context.Context, comment models.Comment) error
	ListByImage(ctx context.Context, imageID string) ([]models.Comment, error)
	DeleteByImage(ctx context.Context, imageID string) error
}

// ListingCache holds serialized listings under versioned keys.
// *cache.ListCache is the redis-backed implementation.
type ListingCache interface {
	Key(ctx context.Context, parts ...string) string
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any)
	Bump(ctx context.Context)
}

// ObjectHost is the external image-hosting service.
type ObjectHost interface {
	Upload(ctx context.Context, reader io.Reader, size int64, contentType, ext string) (storage.StoredObject, error)
	Remove(ctx context.Context, key string) error
}

// TokenVerifier validates third-party federated identity tokens.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (security.FederatedIdentity, error)
}
