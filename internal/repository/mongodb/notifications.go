package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cocopets/boarding/internal/domain/models"
)

// NotificationRepo persists notifications and chat messages.
type NotificationRepo struct {
	notifications *mongo.Collection
	messages      *mongo.Collection
}

// CreateNotification inserts one notification.
func (r *NotificationRepo) CreateNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	n.CreatedAt = time.Now().UTC()

	res, err := r.notifications.InsertOne(ctx, n)
	if err != nil {
		return models.Notification{}, fmt.Errorf("insert notification: %w", err)
	}
	n.ID = res.InsertedID.(primitive.ObjectID)
	return n, nil
}

// ListNotifications returns one user's notifications, newest first.
func (r *NotificationRepo) ListNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(100)
	cursor, err := r.notifications.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Notification
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return out, nil
}

// MarkNotificationsRead flags all of a user's notifications as read.
func (r *NotificationRepo) MarkNotificationsRead(ctx context.Context, userID primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"read": true}}
	if _, err := r.notifications.UpdateMany(ctx, bson.M{"user_id": userID, "read": false}, update); err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}

// DeleteNotificationsBefore purges notifications older than the cutoff.
func (r *NotificationRepo) DeleteNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.notifications.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("purge notifications: %w", err)
	}
	return res.DeletedCount, nil
}

// CreateMessage inserts one chat message.
func (r *NotificationRepo) CreateMessage(ctx context.Context, m models.Message) (models.Message, error) {
	m.CreatedAt = time.Now().UTC()

	res, err := r.messages.InsertOne(ctx, m)
	if err != nil {
		return models.Message{}, fmt.Errorf("insert message: %w", err)
	}
	m.ID = res.InsertedID.(primitive.ObjectID)
	return m, nil
}

// ListThread returns a conversation oldest first.
func (r *NotificationRepo) ListThread(ctx context.Context, threadID primitive.ObjectID) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.messages.Find(ctx, bson.M{"thread_id": threadID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list thread: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Message
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode thread: %w", err)
	}
	return out, nil
}

// MarkThreadRead flags messages in a thread as read for one side of the
// conversation. Staff mark customer messages and vice versa.
func (r *NotificationRepo) MarkThreadRead(ctx context.Context, threadID primitive.ObjectID, fromStaff bool) error {
	filter := bson.M{"thread_id": threadID, "from_staff": fromStaff, "read": false}
	if _, err := r.messages.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"read": true}}); err != nil {
		return fmt.Errorf("mark thread read: %w", err)
	}
	return nil
}
