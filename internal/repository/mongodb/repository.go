package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client wraps the MongoDB connection and hands out typed repositories.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, uri, dbName string) (*Client, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(dbName)
	if err := ensureIndexes(ctx, db); err != nil {
		return nil, err
	}

	return &Client{client: client, db: db}, nil
}

// ensureIndexes creates the indexes the repositories rely on. The unique email
// index is what makes concurrent registrations for the same address safe: the
// second insert fails with a duplicate-key error instead of creating a twin
// account.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("ensure user indexes: %w", err)
	}

	availabilityIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "date", Value: 1}, {Key: "pet_type", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection("availability_days").Indexes().CreateMany(ctx, availabilityIndexes); err != nil {
		return fmt.Errorf("ensure availability indexes: %w", err)
	}

	return nil
}

// Users returns the user account repository.
func (c *Client) Users() *UserRepo {
	return &UserRepo{coll: c.db.Collection("users")}
}

// Pets returns the pet profile repository.
func (c *Client) Pets() *PetRepo {
	return &PetRepo{coll: c.db.Collection("pets")}
}

// Bookings returns the booking repository.
func (c *Client) Bookings() *BookingRepo {
	return &BookingRepo{coll: c.db.Collection("bookings")}
}

// Availability returns the capacity ledger repository.
func (c *Client) Availability() *AvailabilityRepo {
	return &AvailabilityRepo{coll: c.db.Collection("availability_days")}
}

// Notifications returns the notification and message repository.
func (c *Client) Notifications() *NotificationRepo {
	return &NotificationRepo{
		notifications: c.db.Collection("notifications"),
		messages:      c.db.Collection("messages"),
	}
}

// Reports returns the occupancy report repository.
func (c *Client) Reports() *ReportRepo {
	return &ReportRepo{coll: c.db.Collection("occupancy_reports")}
}

// Close closes the MongoDB connection.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
