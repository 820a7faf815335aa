package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"galleria/api/internal/models"
)

type CommentRepository struct {
	coll *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{coll: db.Collection("comments")}
}

func (r *CommentRepository) Create(ctx context.Context, comment models.Comment) error {
	_, err := r.coll.InsertOne(ctx, comment)
	return err
}

// ListByImage returns an image's comments newest first.
func (r *CommentRepository) ListByImage(ctx context.Context, imageID string) ([]models.Comment, error) {
	cursor, err := r.coll.Find(ctx,
		bson.M{"image": imageID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *CommentRepository) DeleteByImage(ctx context.Context, imageID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"image": imageID})
	return err
}
