package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/cocopets/boarding/internal/domain"
	"github.com/cocopets/boarding/internal/domain/models"
	"github.com/cocopets/boarding/internal/pricing"
	"github.com/cocopets/boarding/pkg/clients/stripe"
)

// Store is the booking persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, booking models.Booking) (models.Booking, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Booking, error)
	FindByStripeSession(ctx context.Context, sessionID string) (models.Booking, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Booking, error)
	ListAll(ctx context.Context) ([]models.Booking, error)
	ListByStatus(ctx context.Context, status models.BookingStatus) ([]models.Booking, error)
	ListStalePending(ctx context.Context, cutoff time.Time) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.BookingStatus) error
	SetStripeSession(ctx context.Context, id primitive.ObjectID, sessionID string) error
	CountCompletedByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// PetStore resolves pet profiles for ownership and rate lookup.
type PetStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Pet, error)
}

// UserStore resolves accounts for checkout email addresses.
type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

// CapacityTracker reserves and releases boarding slots.
type CapacityTracker interface {
	Reserve(ctx context.Context, start, end time.Time, petType models.PetType) error
	Release(ctx context.Context, start, end time.Time, petType models.PetType) error
}

// Notifier pushes in-app notifications about booking changes.
type Notifier interface {
	Notify(ctx context.Context, userID primitive.ObjectID, kind models.NotificationKind, title, body string) error
}

// Service coordinates pricing, capacity and payment for bookings.
type Service struct {
	store      Store
	pets       PetStore
	users      UserStore
	capacity   CapacityTracker
	payments   stripe.Client
	notifier   Notifier
	pricingCfg pricing.Config
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires the booking service.
func NewService(store Store, pets PetStore, users UserStore, capacity CapacityTracker, payments stripe.Client, notifier Notifier, pricingCfg pricing.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:      store,
		pets:       pets,
		users:      users,
		capacity:   capacity,
		payments:   payments,
		notifier:   notifier,
		pricingCfg: pricingCfg,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateInput is one booking request from an authenticated customer.
type CreateInput struct {
	PetID          primitive.ObjectID
	StartDate      time.Time
	EndDate        time.Time
	AddOns         []string
	PromoCode      string
	DepositPercent models.DepositPercent
}

// CreateResult carries the stored booking plus the hosted checkout URL the
// customer is redirected to.
type CreateResult struct {
	Booking     models.Booking
	CheckoutURL string
}

// Create validates the request, prices the stay, reserves capacity for every
// night and opens a checkout session. The booking starts in pending_payment
// and is confirmed by the payment webhook.
func (s *Service) Create(ctx context.Context, userID primitive.ObjectID, in CreateInput) (CreateResult, error) {
	if !in.StartDate.Before(in.EndDate) {
		return CreateResult{}, fmt.Errorf("%w: end date must be after start date", domain.ErrValidation)
	}
	if in.StartDate.Before(startOfDay(s.now())) {
		return CreateResult{}, fmt.Errorf("%w: start date must not be in the past", domain.ErrValidation)
	}
	switch in.DepositPercent {
	case models.DepositThirty, models.DepositFifty, models.DepositFull:
	case 0:
		in.DepositPercent = models.DepositFull
	default:
		return CreateResult{}, fmt.Errorf("%w: deposit percent must be 30, 50 or 100", domain.ErrValidation)
	}

	pet, err := s.pets.FindByID(ctx, in.PetID)
	if err != nil {
		return CreateResult{}, err
	}
	if pet.OwnerID != userID {
		return CreateResult{}, domain.ErrForbidden
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return CreateResult{}, err
	}

	completed, err := s.store.CountCompletedByUser(ctx, userID)
	if err != nil {
		return CreateResult{}, err
	}

	quote := pricing.Calculate(s.pricingCfg, pricing.Input{
		PetType:           pet.Type,
		PetSize:           pet.Size,
		StartDate:         in.StartDate,
		EndDate:           in.EndDate,
		AddOns:            in.AddOns,
		PromoCode:         in.PromoCode,
		ReturningCustomer: completed > 0,
	})

	amountDue := quote.Total
	switch in.DepositPercent {
	case models.DepositThirty:
		amountDue = quote.Deposit30
	case models.DepositFifty:
		amountDue = quote.Deposit50
	}

	if err := s.capacity.Reserve(ctx, in.StartDate, in.EndDate, pet.Type); err != nil {
		return CreateResult{}, err
	}

	booking := models.Booking{
		Reference:      uuid.NewString(),
		UserID:         userID,
		PetID:          pet.ID,
		PetType:        pet.Type,
		PetSize:        pet.Size,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		AddOns:         in.AddOns,
		PromoCode:      in.PromoCode,
		Quote:          quote,
		DepositPercent: in.DepositPercent,
		AmountDue:      amountDue,
		Status:         models.BookingPendingPayment,
	}

	created, err := s.store.Create(ctx, booking)
	if err != nil {
		s.rollbackCapacity(ctx, booking)
		return CreateResult{}, err
	}
	booking = created

	session, err := s.payments.CreateCheckoutSession(ctx, stripe.CheckoutSessionRequest{
		BookingReference: booking.Reference,
		Description:      fmt.Sprintf("Boarding for %s (%s)", pet.Name, booking.StartDate.Format("Jan 2")),
		AmountCents:      amountDue,
		CustomerEmail:    user.Email,
	})
	if err != nil {
		s.rollbackCapacity(ctx, booking)
		if stErr := s.store.UpdateStatus(ctx, booking.ID, models.BookingCancelled); stErr != nil {
			s.logger.Error("failed cancelling booking after checkout failure", zap.Error(stErr))
		}
		return CreateResult{}, fmt.Errorf("open checkout session: %w", err)
	}

	if err := s.store.SetStripeSession(ctx, booking.ID, session.ID); err != nil {
		return CreateResult{}, err
	}
	booking.StripeSessionID = session.ID

	s.logger.Info("booking created",
		zap.String("reference", booking.Reference),
		zap.String("pet_type", string(booking.PetType)),
		zap.Int64("amount_due", amountDue))

	return CreateResult{Booking: booking, CheckoutURL: session.URL}, nil
}

// Get returns one booking, restricted to its owner unless the caller is admin.
func (s *Service) Get(ctx context.Context, callerID primitive.ObjectID, callerRole models.Role, id primitive.ObjectID) (models.Booking, error) {
	booking, err := s.store.FindByID(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if booking.UserID != callerID && callerRole != models.RoleAdmin {
		return models.Booking{}, domain.ErrForbidden
	}
	return booking, nil
}

// ListMine returns the caller's bookings.
func (s *Service) ListMine(ctx context.Context, userID primitive.ObjectID) ([]models.Booking, error) {
	return s.store.ListByUser(ctx, userID)
}

// ListAll returns bookings for the admin dashboard, optionally filtered by
// status.
func (s *Service) ListAll(ctx context.Context, status models.BookingStatus) ([]models.Booking, error) {
	if status == "" {
		return s.store.ListAll(ctx)
	}
	switch status {
	case models.BookingPendingPayment, models.BookingConfirmed, models.BookingCompleted, models.BookingCancelled:
	default:
		return nil, fmt.Errorf("%w: unknown booking status %q", domain.ErrValidation, status)
	}
	return s.store.ListByStatus(ctx, status)
}

// Cancel releases the booking's capacity and moves it to cancelled. Owners may
// cancel their own bookings; admins may cancel any.
func (s *Service) Cancel(ctx context.Context, callerID primitive.ObjectID, callerRole models.Role, id primitive.ObjectID) error {
	booking, err := s.Get(ctx, callerID, callerRole, id)
	if err != nil {
		return err
	}

	switch booking.Status {
	case models.BookingPendingPayment, models.BookingConfirmed:
	default:
		return fmt.Errorf("%w: booking is %s", domain.ErrValidation, booking.Status)
	}

	if err := s.store.UpdateStatus(ctx, booking.ID, models.BookingCancelled); err != nil {
		return err
	}
	s.rollbackCapacity(ctx, booking)

	if err := s.notifier.Notify(ctx, booking.UserID, models.NotificationBooking,
		"Booking cancelled",
		fmt.Sprintf("Your booking %s has been cancelled.", booking.Reference)); err != nil {
		s.logger.Warn("failed sending cancellation notification", zap.Error(err))
	}
	return nil
}

// ConfirmPayment moves the booking tied to a completed checkout session into
// confirmed. Repeat webhook deliveries for an already confirmed booking are
// no-ops.
func (s *Service) ConfirmPayment(ctx context.Context, sessionID string) error {
	booking, err := s.store.FindByStripeSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if booking.Status != models.BookingPendingPayment {
		return nil
	}

	if err := s.store.UpdateStatus(ctx, booking.ID, models.BookingConfirmed); err != nil {
		return err
	}

	if err := s.notifier.Notify(ctx, booking.UserID, models.NotificationBooking,
		"Booking confirmed",
		fmt.Sprintf("Payment received. Your booking %s is confirmed.", booking.Reference)); err != nil {
		s.logger.Warn("failed sending confirmation notification", zap.Error(err))
	}
	return nil
}

// ExpireStale cancels pending-payment bookings older than maxAge and returns
// their capacity to the pool. The cleanup job runs this hourly.
func (s *Service) ExpireStale(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := s.now().UTC().Add(-maxAge)
	stale, err := s.store.ListStalePending(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, booking := range stale {
		if err := s.store.UpdateStatus(ctx, booking.ID, models.BookingCancelled); err != nil {
			s.logger.Error("failed expiring booking",
				zap.String("reference", booking.Reference), zap.Error(err))
			continue
		}
		s.rollbackCapacity(ctx, booking)
		expired++
	}
	return expired, nil
}

func (s *Service) rollbackCapacity(ctx context.Context, booking models.Booking) {
	if err := s.capacity.Release(ctx, booking.StartDate, booking.EndDate, booking.PetType); err != nil {
		s.logger.Error("failed releasing capacity",
			zap.String("reference", booking.Reference), zap.Error(err))
	}
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
