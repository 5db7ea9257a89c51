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

// BookingRepo persists bookings.
type BookingRepo struct {
	coll *mongo.Collection
}

// Create inserts a booking.
func (r *BookingRepo) Create(ctx context.Context, booking models.Booking) (models.Booking, error) {
	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, booking)
	if err != nil {
		return models.Booking{}, fmt.Errorf("insert booking: %w", err)
	}
	booking.ID = res.InsertedID.(primitive.ObjectID)
	return booking, nil
}

// FindByID returns one booking.
func (r *BookingRepo) FindByID(ctx context.Context, id primitive.ObjectID) (models.Booking, error) {
	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Booking{}, domain.ErrNotFound
	}
	if err != nil {
		return models.Booking{}, fmt.Errorf("find booking: %w", err)
	}
	return booking, nil
}

// FindByStripeSession returns the booking tied to a checkout session.
func (r *BookingRepo) FindByStripeSession(ctx context.Context, sessionID string) (models.Booking, error) {
	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"stripe_session_id": sessionID}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Booking{}, domain.ErrNotFound
	}
	if err != nil {
		return models.Booking{}, fmt.Errorf("find booking by session: %w", err)
	}
	return booking, nil
}

// ListByUser returns a user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

// ListAll returns every booking, newest first. Admin surface only.
func (r *BookingRepo) ListAll(ctx context.Context) ([]models.Booking, error) {
	return r.list(ctx, bson.M{})
}

// ListByStatus returns bookings in one lifecycle state, newest first.
func (r *BookingRepo) ListByStatus(ctx context.Context, status models.BookingStatus) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"status": status})
}

// ListStalePending returns pending-payment bookings created before the cutoff.
func (r *BookingRepo) ListStalePending(ctx context.Context, cutoff time.Time) ([]models.Booking, error) {
	return r.list(ctx, bson.M{
		"status":     models.BookingPendingPayment,
		"created_at": bson.M{"$lt": cutoff},
	})
}

// ListStartingOn returns confirmed bookings whose stay begins on the given day.
func (r *BookingRepo) ListStartingOn(ctx context.Context, day time.Time) ([]models.Booking, error) {
	return r.list(ctx, bson.M{
		"status":     models.BookingConfirmed,
		"start_date": bson.M{"$gte": day, "$lt": day.AddDate(0, 0, 1)},
	})
}

// ListEndingOn returns confirmed bookings whose stay ends on the given day.
func (r *BookingRepo) ListEndingOn(ctx context.Context, day time.Time) ([]models.Booking, error) {
	return r.list(ctx, bson.M{
		"status":   models.BookingConfirmed,
		"end_date": bson.M{"$gte": day, "$lt": day.AddDate(0, 0, 1)},
	})
}

func (r *BookingRepo) list(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	return bookings, nil
}

// UpdateStatus moves a booking into a new lifecycle state.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.BookingStatus) error {
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetStripeSession records the checkout session created for a booking.
func (r *BookingRepo) SetStripeSession(ctx context.Context, id primitive.ObjectID, sessionID string) error {
	update := bson.M{"$set": bson.M{"stripe_session_id": sessionID, "updated_at": time.Now().UTC()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("set stripe session: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountCompletedByUser reports how many stays a customer has finished. The
// booking service uses it to derive the returning-customer discount flag.
func (r *BookingRepo) CountCompletedByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{
		"user_id": userID,
		"status":  models.BookingCompleted,
	})
	if err != nil {
		return 0, fmt.Errorf("count completed bookings: %w", err)
	}
	return count, nil
}
