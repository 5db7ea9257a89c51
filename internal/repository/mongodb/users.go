package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cocopets/boarding/internal/domain"
	"github.com/cocopets/boarding/internal/domain/models"
)

// UserRepo persists user accounts.
type UserRepo struct {
	coll *mongo.Collection
}

// Create inserts a new account. Fails with ErrConflict when the email is
// taken: the unique email index rejects the insert, so two concurrent
// registrations for the same address cannot both land.
func (r *UserRepo) Create(ctx context.Context, user models.User) (models.User, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		return models.User{}, mapInsertUserError(err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return user, nil
}

func mapInsertUserError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: email already registered", domain.ErrConflict)
	}
	return fmt.Errorf("insert user: %w", err)
}

// FindByEmail looks an account up by email address.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, domain.ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return user, nil
}

// FindByID looks an account up by its object ID.
func (r *UserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, domain.ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return user, nil
}
