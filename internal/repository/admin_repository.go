package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"galleria/api/internal/models"
)

var (
	ErrAdminNotFound = errors.New("admin not found")
	ErrAdminExists   = errors.New("admin already exists")
)

type AdminRepository struct {
	coll *mongo.Collection
}

func NewAdminRepository(db *mongo.Database) *AdminRepository {
	return &AdminRepository{coll: db.Collection("admins")}
}

func (r *AdminRepository) Create(ctx context.Context, admin models.Admin) error {
	if _, err := r.coll.InsertOne(ctx, admin); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAdminExists
		}
		return err
	}
	return nil
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (models.Admin, error) {
	var admin models.Admin
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&admin); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Admin{}, ErrAdminNotFound
		}
		return models.Admin{}, err
	}
	return admin, nil
}

func (r *AdminRepository) GetByID(ctx context.Context, id string) (models.Admin, error) {
	var admin models.Admin
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&admin); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Admin{}, ErrAdminNotFound
		}
		return models.Admin{}, err
	}
	return admin, nil
}
