package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cocopets/boarding/internal/domain"
	"github.com/cocopets/boarding/internal/domain/models"
)

// PetRepo persists pet profiles.
type PetRepo struct {
	coll *mongo.Collection
}

// Create inserts a pet profile.
func (r *PetRepo) Create(ctx context.Context, pet models.Pet) (models.Pet, error) {
	now := time.Now().UTC()
	pet.CreatedAt = now
	pet.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, pet)
	if err != nil {
		return models.Pet{}, fmt.Errorf("insert pet: %w", err)
	}
	pet.ID = res.InsertedID.(primitive.ObjectID)
	return pet, nil
}

// FindByID returns one pet profile.
func (r *PetRepo) FindByID(ctx context.Context, id primitive.ObjectID) (models.Pet, error) {
	var pet models.Pet
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&pet)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Pet{}, domain.ErrNotFound
	}
	if err != nil {
		return models.Pet{}, fmt.Errorf("find pet: %w", err)
	}
	return pet, nil
}

// ListByOwner returns every pet belonging to one account, newest first.
func (r *PetRepo) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Pet, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}
	defer cursor.Close(ctx)

	var pets []models.Pet
	if err := cursor.All(ctx, &pets); err != nil {
		return nil, fmt.Errorf("decode pets: %w", err)
	}
	return pets, nil
}

// Update replaces the mutable fields of a pet profile.
func (r *PetRepo) Update(ctx context.Context, pet models.Pet) (models.Pet, error) {
	pet.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"name":              pet.Name,
		"pet_type":          pet.Type,
		"size":              pet.Size,
		"breed":             pet.Breed,
		"vaccination_notes": pet.VaccinationNotes,
		"notes":             pet.Notes,
		"updated_at":        pet.UpdatedAt,
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": pet.ID}, update)
	if err != nil {
		return models.Pet{}, fmt.Errorf("update pet: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.Pet{}, domain.ErrNotFound
	}
	return pet, nil
}

// Delete removes a pet profile.
func (r *PetRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete pet: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
