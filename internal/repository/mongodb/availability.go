package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cocopets/boarding/internal/domain"
	"github.com/cocopets/boarding/internal/domain/models"
)

// AvailabilityRepo persists the per-day, per-species capacity ledger.
type AvailabilityRepo struct {
	coll *mongo.Collection
}

// FindRange returns every persisted ledger day with start <= date < end,
// ascending by date. When petType is non-nil only that species is fetched.
func (r *AvailabilityRepo) FindRange(ctx context.Context, start, end time.Time, petType *models.PetType) ([]models.AvailabilityDay, error) {
	filter := bson.M{"date": bson.M{"$gte": start, "$lt": end}}
	if petType != nil {
		filter["pet_type"] = *petType
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "pet_type", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find availability range: %w", err)
	}
	defer cursor.Close(ctx)

	var days []models.AvailabilityDay
	if err := cursor.All(ctx, &days); err != nil {
		return nil, fmt.Errorf("decode availability range: %w", err)
	}
	return days, nil
}

// Upsert creates or patches the ledger day keyed by (date, petType). Only the
// non-nil patch fields are written; everything else keeps its stored value, or
// the schema default when the document is created by this call. Counter
// consistency is not checked here: writing total below booked+blocked is
// allowed and shows up as negative availability on reads.
func (r *AvailabilityRepo) Upsert(ctx context.Context, date time.Time, petType models.PetType, patch models.AvailabilityPatch, defaultTotal int) (models.AvailabilityDay, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Capacity != nil {
		set["capacity"] = *patch.Capacity
	}
	if patch.IsBlocked != nil {
		set["is_blocked"] = *patch.IsBlocked
	}
	if patch.BlockReason != nil {
		set["block_reason"] = *patch.BlockReason
	}
	if patch.Pricing != nil {
		set["pricing"] = *patch.Pricing
	}
	if patch.Notes != nil {
		set["notes"] = *patch.Notes
	}

	update := bson.M{"$set": set}
	if patch.Capacity == nil {
		update["$setOnInsert"] = bson.M{
			"capacity": models.Capacity{Total: defaultTotal},
		}
	}

	filter := bson.M{"date": date, "pet_type": petType}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var day models.AvailabilityDay
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&day); err != nil {
		return models.AvailabilityDay{}, fmt.Errorf("upsert availability day: %w", err)
	}
	return day, nil
}

// ensureDay makes sure a ledger document exists for (date, petType), seeding
// it with the default capacity when absent.
func (r *AvailabilityRepo) ensureDay(ctx context.Context, date time.Time, petType models.PetType, defaultTotal int) error {
	filter := bson.M{"date": date, "pet_type": petType}
	update := bson.M{"$setOnInsert": bson.M{
		"capacity":   models.Capacity{Total: defaultTotal},
		"is_blocked": false,
		"updated_at": time.Now().UTC(),
	}}

	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("ensure availability day: %w", err)
	}
	return nil
}

// ReserveSlot atomically increments the booked counter for one day, but only
// when the day is not blocked and a free slot remains. The capacity check and
// the increment run as a single conditional update so two concurrent bookings
// cannot both take the last slot.
func (r *AvailabilityRepo) ReserveSlot(ctx context.Context, date time.Time, petType models.PetType, defaultTotal int) error {
	if err := r.ensureDay(ctx, date, petType, defaultTotal); err != nil {
		return err
	}

	filter := bson.M{
		"date":       date,
		"pet_type":   petType,
		"is_blocked": bson.M{"$ne": true},
		"$expr": bson.M{"$lt": bson.A{
			bson.M{"$add": bson.A{"$capacity.booked", "$capacity.blocked"}},
			"$capacity.total",
		}},
	}
	update := bson.M{
		"$inc": bson.M{"capacity.booked": 1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("reserve slot: %w", err)
	}
	if res.ModifiedCount == 0 {
		return domain.ErrNoCapacity
	}
	return nil
}

// ReleaseSlot decrements the booked counter for one day, not below zero.
func (r *AvailabilityRepo) ReleaseSlot(ctx context.Context, date time.Time, petType models.PetType) error {
	filter := bson.M{
		"date":            date,
		"pet_type":        petType,
		"capacity.booked": bson.M{"$gt": 0},
	}
	update := bson.M{
		"$inc": bson.M{"capacity.booked": -1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	_, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("release slot: %w", err)
	}
	return nil
}
