package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"galleria/api/internal/models"
)

var (
	ErrLikeNotFound = errors.New("like not found")
	ErrAlreadyLiked = errors.New("image already liked")
)

type LikeRepository struct {
	coll *mongo.Collection
}

func NewLikeRepository(db *mongo.Database) *LikeRepository {
	return &LikeRepository{coll: db.Collection("likes")}
}

// Create inserts a like. The unique (user, image) index turns a concurrent
// duplicate into ErrAlreadyLiked rather than a second row.
func (r *LikeRepository) Create(ctx context.Context, like models.Like) error {
	if _, err := r.coll.InsertOne(ctx, like); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyLiked
		}
		return err
	}
	return nil
}

func (r *LikeRepository) Delete(ctx context.Context, userID, imageID string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"user": userID, "image": imageID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrLikeNotFound
	}
	return nil
}

func (r *LikeRepository) DeleteByImage(ctx context.Context, imageID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"image": imageID})
	return err
}

func (r *LikeRepository) ListByImageIDs(ctx context.Context, imageIDs []string) ([]models.Like, error) {
	if len(imageIDs) == 0 {
		return nil, nil
	}
	cursor, err := r.coll.Find(ctx, bson.M{"image": bson.M{"$in": imageIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var likes []models.Like
	if err := cursor.All(ctx, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

func (r *LikeRepository) ListImageIDsByUser(ctx context.Context, userID string) ([]string, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"user": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			ImageID string `bson:"image"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ImageID)
	}
	return ids, cursor.Err()
}

// CountsByImage recomputes the true like-count of every image that has at
// least one like.
func (r *LikeRepository) CountsByImage(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$image"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := make(map[string]int64)
	for cursor.Next(ctx) {
		var doc struct {
			ImageID string `bson:"_id"`
			Count   int64  `bson:"count"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		counts[doc.ImageID] = doc.Count
	}
	return counts, cursor.Err()
}
