package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"galleria/api/internal/config"
)

func NewMongoDatabase(ctx context.Context, cfg config.MongoConfig) (*mongo.Database, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetRetryWrites(true).
		SetRetryReads(true)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client.Database(cfg.Database), nil
}

// EnsureIndexes creates the indexes the data model relies on. The unique
// index on likes (user, image) is what closes the duplicate-like race; the
// unique indexes on admins and users back the Conflict error taxonomy.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		"admins": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"users": {
			{Keys: bson.D{{Key: "firebaseUid", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"images": {
			{Keys: bson.D{{Key: "uploadedDate", Value: -1}}},
			{Keys: bson.D{{Key: "likeCount", Value: -1}}},
		},
		"likes": {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "image", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "image", Value: 1}}},
		},
		"comments": {
			{Keys: bson.D{{Key: "image", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for collection, models := range specs {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", collection, err)
		}
	}
	return nil
}
