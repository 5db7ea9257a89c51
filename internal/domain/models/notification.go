package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationKind categorizes in-app notifications.
type NotificationKind string

const (
	NotificationReminder NotificationKind = "checkin_reminder"
	NotificationBooking  NotificationKind = "booking_update"
	NotificationMessage  NotificationKind = "new_message"
)

// Notification is an in-app notice shown to one user.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	Kind      NotificationKind   `bson:"kind" json:"kind"`
	Title     string             `bson:"title" json:"title"`
	Body      string             `bson:"body" json:"body"`
	Read      bool               `bson:"read" json:"read"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// Message is one chat message between a customer and staff. Threads are keyed
// by the customer account: staff replies carry the customer's ID as ThreadID.
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ThreadID  primitive.ObjectID `bson:"thread_id" json:"threadId"`
	SenderID  primitive.ObjectID `bson:"sender_id" json:"senderId"`
	FromStaff bool               `bson:"from_staff" json:"fromStaff"`
	Body      string             `bson:"body" json:"body"`
	Read      bool               `bson:"read" json:"read"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
