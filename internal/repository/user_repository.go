package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"galleria/api/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection("users")}
}

// Create inserts a new user. ErrUserExists signals that another request
// created a user with the same federated id or email first.
func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUserExists
		}
		return err
	}
	return nil
}

func (r *UserRepository) FindByFirebaseUID(ctx context.Context, uid string) (models.User, error) {
	return r.findOne(ctx, bson.M{"firebaseUid": uid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByFederated matches by federated id or email, whichever hits. Used to
// recover the winning record after a duplicate-key failure on Create.
func (r *UserRepository) FindByFederated(ctx context.Context, uid, email string) (models.User, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"firebaseUid": uid},
		bson.M{"email": email},
	}})
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user models.User) error {
	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
