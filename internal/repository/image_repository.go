package repository

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"galleria/api/internal/models"
)

var ErrImageNotFound = errors.New("image not found")

type SortKey string

const (
	SortNewest  SortKey = "newest"
	SortOldest  SortKey = "oldest"
	SortPopular SortKey = "popular"
)

// ParseSortKey maps a query parameter to a sort key, defaulting to newest.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortOldest:
		return SortOldest
	case SortPopular:
		return SortPopular
	default:
		return SortNewest
	}
}

// SortDocument returns the Mongo sort for a key. Popular carries upload time
// descending as a secondary key so equal like-counts order deterministically.
func SortDocument(key SortKey) bson.D {
	switch key {
	case SortOldest:
		return bson.D{{Key: "uploadedDate", Value: 1}}
	case SortPopular:
		return bson.D{{Key: "likeCount", Value: -1}, {Key: "uploadedDate", Value: -1}}
	default:
		return bson.D{{Key: "uploadedDate", Value: -1}}
	}
}

// ImageFilter narrows a listing. All text matches are case-insensitive
// substring matches; Search matches title or description.
type ImageFilter struct {
	Search      string
	Title       string
	Description string
	Sort        SortKey
}

type ImageRepository struct {
	coll *mongo.Collection
}

func NewImageRepository(db *mongo.Database) *ImageRepository {
	return &ImageRepository{coll: db.Collection("images")}
}

func (r *ImageRepository) Create(ctx context.Context, image models.Image) error {
	_, err := r.coll.InsertOne(ctx, image)
	return err
}

func (r *ImageRepository) GetByID(ctx context.Context, id string) (models.Image, error) {
	var image models.Image
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&image); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Image{}, ErrImageNotFound
		}
		return models.Image{}, err
	}
	return image, nil
}

func (r *ImageRepository) List(ctx context.Context, filter ImageFilter) ([]models.Image, error) {
	query := bson.M{}
	if filter.Search != "" {
		re := containsRegex(filter.Search)
		query["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
		}
	}
	if filter.Title != "" {
		query["title"] = containsRegex(filter.Title)
	}
	if filter.Description != "" {
		query["description"] = containsRegex(filter.Description)
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(SortDocument(filter.Sort)))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var images []models.Image
	if err := cursor.All(ctx, &images); err != nil {
		return nil, err
	}
	return images, nil
}

func (r *ImageRepository) ListByIDs(ctx context.Context, ids []string, sort SortKey) ([]models.Image, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.coll.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetSort(SortDocument(sort)),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var images []models.Image
	if err := cursor.All(ctx, &images); err != nil {
		return nil, err
	}
	return images, nil
}

// Update applies a partial edit. Nil fields are left untouched.
func (r *ImageRepository) Update(ctx context.Context, id string, title, description *string) (models.Image, error) {
	set := bson.M{}
	if title != nil {
		set["title"] = *title
	}
	if description != nil {
		set["description"] = *description
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var image models.Image
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&image)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Image{}, ErrImageNotFound
		}
		return models.Image{}, err
	}
	return image, nil
}

func (r *ImageRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrImageNotFound
	}
	return nil
}

// AdjustLikeCount atomically adds delta to the cached counter, floored at 0,
// and returns the new value. A single pipeline update keeps the floor and the
// adjustment in one document operation.
func (r *ImageRepository) AdjustLikeCount(ctx context.Context, id string, delta int64) (int64, error) {
	update := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{{Key: "likeCount", Value: bson.D{
			{Key: "$max", Value: bson.A{
				int64(0),
				bson.D{{Key: "$add", Value: bson.A{"$likeCount", delta}}},
			}},
		}}}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var image models.Image
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&image); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrImageNotFound
		}
		return 0, err
	}
	return image.LikeCount, nil
}

func (r *ImageRepository) SetLikeCount(ctx context.Context, id string, count int64) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"likeCount": count}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrImageNotFound
	}
	return nil
}

// ListCounts returns every image id with its cached like-count. Used by the
// reconciliation job to find drift.
func (r *ImageRepository) ListCounts(ctx context.Context) (map[string]int64, error) {
	cursor, err := r.coll.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"likeCount": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := make(map[string]int64)
	for cursor.Next(ctx) {
		var doc struct {
			ID        string `bson:"_id"`
			LikeCount int64  `bson:"likeCount"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		counts[doc.ID] = doc.LikeCount
	}
	return counts, cursor.Err()
}

func containsRegex(term string) bson.Regex {
	return bson.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}
