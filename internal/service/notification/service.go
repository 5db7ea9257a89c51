package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/cocopets/boarding/internal/domain"
	"github.com/cocopets/boarding/internal/domain/models"
)

// Store is the persistence surface for notifications and chat messages.
type Store interface {
	CreateNotification(ctx context.Context, n models.Notification) (models.Notification, error)
	ListNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	MarkNotificationsRead(ctx context.Context, userID primitive.ObjectID) error
	DeleteNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	CreateMessage(ctx context.Context, m models.Message) (models.Message, error)
	ListThread(ctx context.Context, threadID primitive.ObjectID) ([]models.Message, error)
	MarkThreadRead(ctx context.Context, threadID primitive.ObjectID, fromStaff bool) error
}

// Service manages in-app notifications and customer/staff chat threads.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService wires the notification service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Notify records one in-app notification for a user.
func (s *Service) Notify(ctx context.Context, userID primitive.ObjectID, kind models.NotificationKind, title, body string) error {
	_, err := s.store.CreateNotification(ctx, models.Notification{
		UserID: userID,
		Kind:   kind,
		Title:  title,
		Body:   body,
	})
	return err
}

// List returns a user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return s.store.ListNotifications(ctx, userID)
}

// MarkRead flags all of a user's notifications as read.
func (s *Service) MarkRead(ctx context.Context, userID primitive.ObjectID) error {
	return s.store.MarkNotificationsRead(ctx, userID)
}

// PurgeOlderThan deletes notifications past their retention window. The
// cleanup job runs this together with stale-booking expiry.
func (s *Service) PurgeOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	deleted, err := s.store.DeleteNotificationsBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("purged old notifications", zap.Int64("count", deleted))
	}
	return deleted, nil
}

// SendMessage posts one chat message. Customers write into their own thread;
// staff pass the customer's ID as threadID. A notification is raised for the
// customer when staff reply.
func (s *Service) SendMessage(ctx context.Context, sender models.User, threadID primitive.ObjectID, body string) (models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return models.Message{}, fmt.Errorf("%w: message body must not be empty", domain.ErrValidation)
	}

	fromStaff := sender.IsAdmin()
	if !fromStaff {
		threadID = sender.ID
	} else if threadID.IsZero() {
		return models.Message{}, fmt.Errorf("%w: staff messages require a thread id", domain.ErrValidation)
	}

	msg, err := s.store.CreateMessage(ctx, models.Message{
		ThreadID:  threadID,
		SenderID:  sender.ID,
		FromStaff: fromStaff,
		Body:      body,
	})
	if err != nil {
		return models.Message{}, err
	}

	if fromStaff {
		if err := s.Notify(ctx, threadID, models.NotificationMessage, "New message", "The boarding team sent you a message."); err != nil {
			s.logger.Warn("failed raising message notification", zap.Error(err))
		}
	}
	return msg, nil
}

// Thread returns one conversation oldest first and marks the other side's
// messages as read for the caller.
func (s *Service) Thread(ctx context.Context, caller models.User, threadID primitive.ObjectID) ([]models.Message, error) {
	if !caller.IsAdmin() {
		if !threadID.IsZero() && threadID != caller.ID {
			return nil, domain.ErrForbidden
		}
		threadID = caller.ID
	}

	messages, err := s.store.ListThread(ctx, threadID)
	if err != nil {
		return nil, err
	}

	if err := s.store.MarkThreadRead(ctx, threadID, !caller.IsAdmin()); err != nil {
		s.logger.Warn("failed marking thread read", zap.Error(err))
	}
	return messages, nil
}
