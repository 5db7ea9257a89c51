package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cocopets/boarding/internal/domain"
	"github.com/cocopets/boarding/internal/domain/models"
	"github.com/cocopets/boarding/internal/pricing"
	"github.com/cocopets/boarding/pkg/clients/stripe"
)

type mockStore struct {
	create               func(ctx context.Context, booking models.Booking) (models.Booking, error)
	findByID             func(ctx context.Context, id primitive.ObjectID) (models.Booking, error)
	findByStripeSession  func(ctx context.Context, sessionID string) (models.Booking, error)
	listByUser           func(ctx context.Context, userID primitive.ObjectID) ([]models.Booking, error)
	listAll              func(ctx context.Context) ([]models.Booking, error)
	listByStatus         func(ctx context.Context, status models.BookingStatus) ([]models.Booking, error)
	listStalePending     func(ctx context.Context, cutoff time.Time) ([]models.Booking, error)
	updateStatus         func(ctx context.Context, id primitive.ObjectID, status models.BookingStatus) error
	setStripeSession     func(ctx context.Context, id primitive.ObjectID, sessionID string) error
	countCompletedByUser func(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

func (m *mockStore) Create(ctx context.Context, b models.Booking) (models.Booking, error) {
	return m.create(ctx, b)
}

func (m *mockStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Booking, error) {
	return m.findByID(ctx, id)
}

func (m *mockStore) FindByStripeSession(ctx context.Context, sessionID string) (models.Booking, error) {
	return m.findByStripeSession(ctx, sessionID)
}

func (m *mockStore) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Booking, error) {
	return m.listByUser(ctx, userID)
}

func (m *mockStore) ListAll(ctx context.Context) ([]models.Booking, error) {
	return m.listAll(ctx)
}

func (m *mockStore) ListByStatus(ctx context.Context, status models.BookingStatus) ([]models.Booking, error) {
	return m.listByStatus(ctx, status)
}

func (m *mockStore) ListStalePending(ctx context.Context, cutoff time.Time) ([]models.Booking, error) {
	return m.listStalePending(ctx, cutoff)
}

func (m *mockStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.BookingStatus) error {
	return m.updateStatus(ctx, id, status)
}

func (m *mockStore) SetStripeSession(ctx context.Context, id primitive.ObjectID, sessionID string) error {
	return m.setStripeSession(ctx, id, sessionID)
}

func (m *mockStore) CountCompletedByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return m.countCompletedByUser(ctx, userID)
}

type mockPetStore struct {
	findByID func(ctx context.Context, id primitive.ObjectID) (models.Pet, error)
}

func (m *mockPetStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Pet, error) {
	return m.findByID(ctx, id)
}

type mockUserStore struct {
	findByID func(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

func (m *mockUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return m.findByID(ctx, id)
}

type mockCapacity struct {
	reserve func(ctx context.Context, start, end time.Time, petType models.PetType) error
	release func(ctx context.Context, start, end time.Time, petType models.PetType) error
}

func (m *mockCapacity) Reserve(ctx context.Context, start, end time.Time, petType models.PetType) error {
	return m.reserve(ctx, start, end, petType)
}

func (m *mockCapacity) Release(ctx context.Context, start, end time.Time, petType models.PetType) error {
	return m.release(ctx, start, end, petType)
}

type mockPayments struct {
	createCheckoutSession func(ctx context.Context, req stripe.CheckoutSessionRequest) (*stripe.CheckoutSession, error)
}

func (m *mockPayments) CreateCheckoutSession(ctx context.Context, req stripe.CheckoutSessionRequest) (*stripe.CheckoutSession, error) {
	return m.createCheckoutSession(ctx, req)
}

type mockNotifier struct {
	notify func(ctx context.Context, userID primitive.ObjectID, kind models.NotificationKind, title, body string) error
}

func (m *mockNotifier) Notify(ctx context.Context, userID primitive.ObjectID, kind models.NotificationKind, title, body string) error {
	return m.notify(ctx, userID, kind, title, body)
}

var (
	testNow    = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	testUserID = primitive.NewObjectID()
	testPetID  = primitive.NewObjectID()
)

type fixture struct {
	store    *mockStore
	pets     *mockPetStore
	users    *mockUserStore
	capacity *mockCapacity
	payments *mockPayments
	notifier *mockNotifier
}

func newFixture() *fixture {
	f := &fixture{
		store: &mockStore{
			create: func(_ context.Context, b models.Booking) (models.Booking, error) {
				b.ID = primitive.NewObjectID()
				return b, nil
			},
			countCompletedByUser: func(context.Context, primitive.ObjectID) (int64, error) {
				return 0, nil
			},
			setStripeSession: func(context.Context, primitive.ObjectID, string) error {
				return nil
			},
			updateStatus: func(context.Context, primitive.ObjectID, models.BookingStatus) error {
				return nil
			},
		},
		pets: &mockPetStore{
			findByID: func(context.Context, primitive.ObjectID) (models.Pet, error) {
				return models.Pet{
					ID:      testPetID,
					OwnerID: testUserID,
					Name:    "Biscuit",
					Type:    models.PetTypeDog,
					Size:    models.PetSizeMedium,
				}, nil
			},
		},
		users: &mockUserStore{
			findByID: func(context.Context, primitive.ObjectID) (models.User, error) {
				return models.User{ID: testUserID, Email: "owner@example.com"}, nil
			},
		},
		capacity: &mockCapacity{
			reserve: func(context.Context, time.Time, time.Time, models.PetType) error { return nil },
			release: func(context.Context, time.Time, time.Time, models.PetType) error { return nil },
		},
		payments: &mockPayments{
			createCheckoutSession: func(_ context.Context, req stripe.CheckoutSessionRequest) (*stripe.CheckoutSession, error) {
				return &stripe.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.test/cs_test_1"}, nil
			},
		},
		notifier: &mockNotifier{
			notify: func(context.Context, primitive.ObjectID, models.NotificationKind, string, string) error {
				return nil
			},
		},
	}
	return f
}

func (f *fixture) service() *Service {
	svc := NewService(f.store, f.pets, f.users, f.capacity, f.payments, f.notifier, pricing.DefaultConfig(), nil)
	svc.now = func() time.Time { return testNow }
	return svc
}

func createInput(days int) CreateInput {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return CreateInput{
		PetID:     testPetID,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, days),
	}
}

func TestCreate_Success(t *testing.T) {
	f := newFixture()
	var reservedType models.PetType
	f.capacity.reserve = func(_ context.Context, _, _ time.Time, petType models.PetType) error {
		reservedType = petType
		return nil
	}
	var checkoutAmount int64
	f.payments.createCheckoutSession = func(_ context.Context, req stripe.CheckoutSessionRequest) (*stripe.CheckoutSession, error) {
		checkoutAmount = req.AmountCents
		return &stripe.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.test/cs_test_1"}, nil
	}

	res, err := f.service().Create(context.Background(), testUserID, createInput(5))
	require.NoError(t, err)

	assert.Equal(t, models.BookingPendingPayment, res.Booking.Status)
	assert.Equal(t, models.DepositFull, res.Booking.DepositPercent)
	assert.Equal(t, models.PetTypeDog, reservedType)
	assert.NotEmpty(t, res.Booking.Reference)
	assert.Equal(t, "cs_test_1", res.Booking.StripeSessionID)
	assert.Equal(t, "https://checkout.test/cs_test_1", res.CheckoutURL)
	// Full payment: checkout charges the quoted total.
	assert.Equal(t, res.Booking.Quote.Total, checkoutAmount)
	assert.Equal(t, res.Booking.Quote.Total, res.Booking.AmountDue)
}

func TestCreate_DepositThirtyChargesDeposit(t *testing.T) {
	f := newFixture()
	var checkoutAmount int64
	f.payments.createCheckoutSession = func(_ context.Context, req stripe.CheckoutSessionRequest) (*stripe.CheckoutSession, error) {
		checkoutAmount = req.AmountCents
		return &stripe.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.test/cs_test_1"}, nil
	}

	in := createInput(5)
	in.DepositPercent = models.DepositThirty
	res, err := f.service().Create(context.Background(), testUserID, in)
	require.NoError(t, err)

	assert.Equal(t, res.Booking.Quote.Deposit30, checkoutAmount)
	assert.Equal(t, res.Booking.Quote.Deposit30, res.Booking.AmountDue)
}

func TestCreate_ReturningCustomerGetsDiscount(t *testing.T) {
	f := newFixture()
	f.store.countCompletedByUser = func(context.Context, primitive.ObjectID) (int64, error) {
		return 2, nil
	}

	res, err := f.service().Create(context.Background(), testUserID, createInput(3))
	require.NoError(t, err)

	assert.Equal(t, int64(5), res.Booking.Quote.DiscountPercentage)
	assert.Contains(t, res.Booking.Quote.DiscountReason, "Returning customer")
}

func TestCreate_EndNotAfterStart(t *testing.T) {
	f := newFixture()

	in := createInput(0)
	_, err := f.service().Create(context.Background(), testUserID, in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreate_StartInPast(t *testing.T) {
	f := newFixture()

	in := createInput(3)
	in.StartDate = testNow.AddDate(0, 0, -2)
	_, err := f.service().Create(context.Background(), testUserID, in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreate_InvalidDepositPercent(t *testing.T) {
	f := newFixture()

	in := createInput(3)
	in.DepositPercent = 75
	_, err := f.service().Create(context.Background(), testUserID, in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreate_OtherUsersPetForbidden(t *testing.T) {
	f := newFixture()
	f.pets.findByID = func(context.Context, primitive.ObjectID) (models.Pet, error) {
		return models.Pet{ID: testPetID, OwnerID: primitive.NewObjectID(), Type: models.PetTypeCat}, nil
	}

	_, err := f.service().Create(context.Background(), testUserID, createInput(3))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreate_NoCapacity(t *testing.T) {
	f := newFixture()
	f.capacity.reserve = func(context.Context, time.Time, time.Time, models.PetType) error {
		return domain.ErrNoCapacity
	}
	createCalled := false
	f.store.create = func(_ context.Context, b models.Booking) (models.Booking, error) {
		createCalled = true
		return b, nil
	}

	_, err := f.service().Create(context.Background(), testUserID, createInput(3))
	assert.ErrorIs(t, err, domain.ErrNoCapacity)
	assert.False(t, createCalled, "booking must not be stored when reservation fails")
}

func TestCreate_CheckoutFailureRollsBack(t *testing.T) {
	f := newFixture()
	released := false
	f.capacity.release = func(context.Context, time.Time, time.Time, models.PetType) error {
		released = true
		return nil
	}
	var cancelled models.BookingStatus
	f.store.updateStatus = func(_ context.Context, _ primitive.ObjectID, status models.BookingStatus) error {
		cancelled = status
		return nil
	}
	f.payments.createCheckoutSession = func(context.Context, stripe.CheckoutSessionRequest) (*stripe.CheckoutSession, error) {
		return nil, errors.New("stripe down")
	}

	_, err := f.service().Create(context.Background(), testUserID, createInput(3))
	require.Error(t, err)
	assert.True(t, released, "reserved nights must be returned")
	assert.Equal(t, models.BookingCancelled, cancelled)
}

func TestGet_OwnerAndAdminAccess(t *testing.T) {
	f := newFixture()
	bookingID := primitive.NewObjectID()
	f.store.findByID = func(context.Context, primitive.ObjectID) (models.Booking, error) {
		return models.Booking{ID: bookingID, UserID: testUserID}, nil
	}
	svc := f.service()

	_, err := svc.Get(context.Background(), testUserID, models.RoleCustomer, bookingID)
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), primitive.NewObjectID(), models.RoleAdmin, bookingID)
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), primitive.NewObjectID(), models.RoleCustomer, bookingID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCancel_ReleasesCapacityAndNotifies(t *testing.T) {
	f := newFixture()
	bookingID := primitive.NewObjectID()
	f.store.findByID = func(context.Context, primitive.ObjectID) (models.Booking, error) {
		return models.Booking{
			ID:        bookingID,
			UserID:    testUserID,
			PetType:   models.PetTypeCat,
			Status:    models.BookingConfirmed,
			Reference: "ref-1",
		}, nil
	}
	released := false
	f.capacity.release = func(_ context.Context, _, _ time.Time, petType models.PetType) error {
		released = true
		assert.Equal(t, models.PetTypeCat, petType)
		return nil
	}
	notified := false
	f.notifier.notify = func(_ context.Context, userID primitive.ObjectID, kind models.NotificationKind, _, _ string) error {
		notified = true
		assert.Equal(t, testUserID, userID)
		assert.Equal(t, models.NotificationBooking, kind)
		return nil
	}

	err := f.service().Cancel(context.Background(), testUserID, models.RoleCustomer, bookingID)
	require.NoError(t, err)
	assert.True(t, released)
	assert.True(t, notified)
}

func TestCancel_CompletedBookingRejected(t *testing.T) {
	f := newFixture()
	f.store.findByID = func(context.Context, primitive.ObjectID) (models.Booking, error) {
		return models.Booking{UserID: testUserID, Status: models.BookingCompleted}, nil
	}

	err := f.service().Cancel(context.Background(), testUserID, models.RoleCustomer, primitive.NewObjectID())
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestConfirmPayment_Confirms(t *testing.T) {
	f := newFixture()
	bookingID := primitive.NewObjectID()
	f.store.findByStripeSession = func(_ context.Context, sessionID string) (models.Booking, error) {
		assert.Equal(t, "cs_test_1", sessionID)
		return models.Booking{ID: bookingID, UserID: testUserID, Status: models.BookingPendingPayment}, nil
	}
	var gotStatus models.BookingStatus
	f.store.updateStatus = func(_ context.Context, id primitive.ObjectID, status models.BookingStatus) error {
		assert.Equal(t, bookingID, id)
		gotStatus = status
		return nil
	}

	err := f.service().ConfirmPayment(context.Background(), "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, gotStatus)
}

func TestConfirmPayment_RedeliveryIsNoOp(t *testing.T) {
	f := newFixture()
	f.store.findByStripeSession = func(context.Context, string) (models.Booking, error) {
		return models.Booking{Status: models.BookingConfirmed}, nil
	}
	f.store.updateStatus = func(context.Context, primitive.ObjectID, models.BookingStatus) error {
		t.Fatal("status must not change on redelivery")
		return nil
	}

	err := f.service().ConfirmPayment(context.Background(), "cs_test_1")
	assert.NoError(t, err)
}

func TestListAll_StatusFilter(t *testing.T) {
	f := newFixture()
	f.store.listAll = func(context.Context) ([]models.Booking, error) {
		return []models.Booking{{Reference: "a"}, {Reference: "b"}}, nil
	}
	f.store.listByStatus = func(_ context.Context, status models.BookingStatus) ([]models.Booking, error) {
		assert.Equal(t, models.BookingConfirmed, status)
		return []models.Booking{{Reference: "a"}}, nil
	}
	svc := f.service()

	all, err := svc.ListAll(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	confirmed, err := svc.ListAll(context.Background(), models.BookingConfirmed)
	require.NoError(t, err)
	assert.Len(t, confirmed, 1)

	_, err = svc.ListAll(context.Background(), "paused")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExpireStale_CancelsAndReleases(t *testing.T) {
	f := newFixture()
	var gotCutoff time.Time
	f.store.listStalePending = func(_ context.Context, cutoff time.Time) ([]models.Booking, error) {
		gotCutoff = cutoff
		return []models.Booking{
			{ID: primitive.NewObjectID(), Reference: "a", PetType: models.PetTypeDog},
			{ID: primitive.NewObjectID(), Reference: "b", PetType: models.PetTypeCat},
		}, nil
	}
	statusUpdates := 0
	f.store.updateStatus = func(_ context.Context, _ primitive.ObjectID, status models.BookingStatus) error {
		assert.Equal(t, models.BookingCancelled, status)
		statusUpdates++
		return nil
	}
	releases := 0
	f.capacity.release = func(context.Context, time.Time, time.Time, models.PetType) error {
		releases++
		return nil
	}

	expired, err := f.service().ExpireStale(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, expired)
	assert.Equal(t, 2, statusUpdates)
	assert.Equal(t, 2, releases)
	assert.Equal(t, testNow.Add(-24*time.Hour), gotCutoff)
}
