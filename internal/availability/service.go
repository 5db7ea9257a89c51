package availability

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cocopets/boarding/internal/domain"
	"github.com/cocopets/boarding/internal/domain/models"
)

// Default slot counts applied to days with no persisted ledger record.
const (
	DefaultDogCapacity = 20
	DefaultCatCapacity = 12

	// DefaultWindowDays is the range length used when a query gives no dates.
	DefaultWindowDays = 60
)

// DefaultCapacity returns the implicit total slot count for a species.
func DefaultCapacity(petType models.PetType) int {
	if petType == models.PetTypeCat {
		return DefaultCatCapacity
	}
	return DefaultDogCapacity
}

// Store is the persistence surface the tracker needs.
type Store interface {
	FindRange(ctx context.Context, start, end time.Time, petType *models.PetType) ([]models.AvailabilityDay, error)
	Upsert(ctx context.Context, date time.Time, petType models.PetType, patch models.AvailabilityPatch, defaultTotal int) (models.AvailabilityDay, error)
	ReserveSlot(ctx context.Context, date time.Time, petType models.PetType, defaultTotal int) error
	ReleaseSlot(ctx context.Context, date time.Time, petType models.PetType) error
}

// Service answers calendar queries and applies admin capacity edits.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService wires the availability tracker.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Midnight truncates a timestamp to UTC midnight, the ledger's day key.
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Range builds the day-by-day calendar for [start, end]. Every day of both
// species starts from the static defaults; persisted ledger records then
// replace their default entry wholesale. A petType filter restricts which
// persisted records are overlaid, so the other species still reports
// defaults. Results are ordered by date ascending, cat before dog within a
// day.
func (s *Service) Range(ctx context.Context, start, end time.Time, petType *models.PetType) ([]models.AvailabilityDay, error) {
	start = Midnight(start)
	end = Midnight(end)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date before start date", domain.ErrValidation)
	}

	type key struct {
		date    time.Time
		petType models.PetType
	}

	species := []models.PetType{models.PetTypeCat, models.PetTypeDog}

	var days []models.AvailabilityDay
	index := make(map[key]int)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		for _, pt := range species {
			index[key{d, pt}] = len(days)
			days = append(days, models.AvailabilityDay{
				Date:     d,
				PetType:  pt,
				Capacity: models.Capacity{Total: DefaultCapacity(pt)},
			})
		}
	}

	stored, err := s.store.FindRange(ctx, start, end.AddDate(0, 0, 1), petType)
	if err != nil {
		return nil, fmt.Errorf("load availability records: %w", err)
	}

	for _, rec := range stored {
		k := key{Midnight(rec.Date), rec.PetType}
		i, ok := index[k]
		if !ok {
			continue
		}
		rec.Date = k.date
		days[i] = rec
	}

	return days, nil
}

// DefaultRange returns today through today+DefaultWindowDays.
func DefaultRange(now time.Time) (time.Time, time.Time) {
	start := Midnight(now)
	return start, start.AddDate(0, 0, DefaultWindowDays)
}

// MonthRange expands a YYYY-MM month token into its first and last day.
func MonthRange(month string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: month must be YYYY-MM", domain.ErrValidation)
	}
	return start, start.AddDate(0, 1, -1), nil
}

// Set upserts one ledger day from an admin edit. Only fields present in the
// patch change; omitted fields keep their stored values, or the schema
// defaults when the record is created by this call.
func (s *Service) Set(ctx context.Context, date time.Time, petType models.PetType, patch models.AvailabilityPatch) (models.AvailabilityDay, error) {
	day := Midnight(date)

	rec, err := s.store.Upsert(ctx, day, petType, patch, DefaultCapacity(petType))
	if err != nil {
		return models.AvailabilityDay{}, err
	}

	s.logger.Info("availability day updated",
		zap.Time("date", day),
		zap.String("pet_type", string(petType)),
		zap.Bool("blocked", rec.IsBlocked))
	return rec, nil
}

// Reserve takes one slot for every day of [start, end). On a full or blocked
// day it releases the slots already taken and reports ErrNoCapacity.
func (s *Service) Reserve(ctx context.Context, start, end time.Time, petType models.PetType) error {
	start = Midnight(start)
	end = Midnight(end)

	var taken []time.Time
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if err := s.store.ReserveSlot(ctx, d, petType, DefaultCapacity(petType)); err != nil {
			for _, t := range taken {
				if relErr := s.store.ReleaseSlot(ctx, t, petType); relErr != nil {
					s.logger.Error("failed rolling back slot reservation",
						zap.Time("date", t), zap.Error(relErr))
				}
			}
			return err
		}
		taken = append(taken, d)
	}
	return nil
}

// Release returns the slots held by a cancelled booking.
func (s *Service) Release(ctx context.Context, start, end time.Time, petType models.PetType) error {
	start = Midnight(start)
	end = Midnight(end)

	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if err := s.store.ReleaseSlot(ctx, d, petType); err != nil {
			return fmt.Errorf("release slot for %s: %w", d.Format("2006-01-02"), err)
		}
	}
	return nil
}
