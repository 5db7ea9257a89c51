package notification_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cocopets/boarding/internal/domain"
	"github.com/cocopets/boarding/internal/domain/models"
	"github.com/cocopets/boarding/internal/service/notification"
)

type mockStore struct {
	createNotification        func(ctx context.Context, n models.Notification) (models.Notification, error)
	listNotifications         func(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	markNotificationsRead     func(ctx context.Context, userID primitive.ObjectID) error
	deleteNotificationsBefore func(ctx context.Context, cutoff time.Time) (int64, error)
	createMessage             func(ctx context.Context, m models.Message) (models.Message, error)
	listThread                func(ctx context.Context, threadID primitive.ObjectID) ([]models.Message, error)
	markThreadRead            func(ctx context.Context, threadID primitive.ObjectID, fromStaff bool) error
}

func (m *mockStore) CreateNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	return m.createNotification(ctx, n)
}

func (m *mockStore) ListNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return m.listNotifications(ctx, userID)
}

func (m *mockStore) MarkNotificationsRead(ctx context.Context, userID primitive.ObjectID) error {
	return m.markNotificationsRead(ctx, userID)
}

func (m *mockStore) DeleteNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return m.deleteNotificationsBefore(ctx, cutoff)
}

func (m *mockStore) CreateMessage(ctx context.Context, msg models.Message) (models.Message, error) {
	return m.createMessage(ctx, msg)
}

func (m *mockStore) ListThread(ctx context.Context, threadID primitive.ObjectID) ([]models.Message, error) {
	return m.listThread(ctx, threadID)
}

func (m *mockStore) MarkThreadRead(ctx context.Context, threadID primitive.ObjectID, fromStaff bool) error {
	return m.markThreadRead(ctx, threadID, fromStaff)
}

func customer() models.User {
	return models.User{ID: primitive.NewObjectID(), Role: models.RoleCustomer}
}

func admin() models.User {
	return models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
}

func TestSendMessage_CustomerPinnedToOwnThread(t *testing.T) {
	sender := customer()
	var stored models.Message
	store := &mockStore{
		createMessage: func(_ context.Context, m models.Message) (models.Message, error) {
			stored = m
			return m, nil
		},
	}
	svc := notification.NewService(store, nil)

	// The customer tries to write into someone else's thread.
	_, err := svc.SendMessage(context.Background(), sender, primitive.NewObjectID(), "hello")
	require.NoError(t, err)

	assert.Equal(t, sender.ID, stored.ThreadID)
	assert.Equal(t, sender.ID, stored.SenderID)
	assert.False(t, stored.FromStaff)
}

func TestSendMessage_StaffRequiresThread(t *testing.T) {
	svc := notification.NewService(&mockStore{}, nil)

	_, err := svc.SendMessage(context.Background(), admin(), primitive.NilObjectID, "hello")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSendMessage_StaffReplyNotifiesCustomer(t *testing.T) {
	sender := admin()
	threadID := primitive.NewObjectID()
	var notified models.Notification
	store := &mockStore{
		createMessage: func(_ context.Context, m models.Message) (models.Message, error) {
			return m, nil
		},
		createNotification: func(_ context.Context, n models.Notification) (models.Notification, error) {
			notified = n
			return n, nil
		},
	}
	svc := notification.NewService(store, nil)

	msg, err := svc.SendMessage(context.Background(), sender, threadID, "your pup is doing great")
	require.NoError(t, err)

	assert.True(t, msg.FromStaff)
	assert.Equal(t, threadID, msg.ThreadID)
	assert.Equal(t, threadID, notified.UserID)
	assert.Equal(t, models.NotificationMessage, notified.Kind)
}

func TestSendMessage_EmptyBodyRejected(t *testing.T) {
	svc := notification.NewService(&mockStore{}, nil)

	_, err := svc.SendMessage(context.Background(), customer(), primitive.NilObjectID, "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestThread_CustomerCannotReadOtherThreads(t *testing.T) {
	svc := notification.NewService(&mockStore{}, nil)

	_, err := svc.Thread(context.Background(), customer(), primitive.NewObjectID())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestThread_MarksOtherSideRead(t *testing.T) {
	caller := customer()
	var markedThread primitive.ObjectID
	var markedFromStaff bool
	store := &mockStore{
		listThread: func(_ context.Context, threadID primitive.ObjectID) ([]models.Message, error) {
			return []models.Message{{ThreadID: threadID}}, nil
		},
		markThreadRead: func(_ context.Context, threadID primitive.ObjectID, fromStaff bool) error {
			markedThread, markedFromStaff = threadID, fromStaff
			return nil
		},
	}
	svc := notification.NewService(store, nil)

	messages, err := svc.Thread(context.Background(), caller, primitive.NilObjectID)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	assert.Equal(t, caller.ID, markedThread)
	// A customer reading their thread clears the staff side's unread flags.
	assert.True(t, markedFromStaff)
}

func TestPurgeOlderThan(t *testing.T) {
	var gotCutoff time.Time
	store := &mockStore{
		deleteNotificationsBefore: func(_ context.Context, cutoff time.Time) (int64, error) {
			gotCutoff = cutoff
			return 7, nil
		},
	}
	svc := notification.NewService(store, nil)

	deleted, err := svc.PurgeOlderThan(context.Background(), 90*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted)
	assert.WithinDuration(t, time.Now().UTC().Add(-90*24*time.Hour), gotCutoff, time.Minute)
}
