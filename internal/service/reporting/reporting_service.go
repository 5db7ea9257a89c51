package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cocopets/boarding/internal/availability"
	"github.com/cocopets/boarding/internal/domain/models"
)

// AvailabilityStore reads the capacity ledger for the report date.
type AvailabilityStore interface {
	FindRange(ctx context.Context, start, end time.Time, petType *models.PetType) ([]models.AvailabilityDay, error)
}

// BookingStore reads the day's arrivals and departures.
type BookingStore interface {
	ListStartingOn(ctx context.Context, day time.Time) ([]models.Booking, error)
	ListEndingOn(ctx context.Context, day time.Time) ([]models.Booking, error)
}

// ReportStore persists the generated report.
type ReportStore interface {
	Save(ctx context.Context, report models.OccupancyReport) error
}

// Exporter mirrors a report row to the admin spreadsheet. Nil exporter means
// the export is not configured.
type Exporter interface {
	AppendOccupancyRow(ctx context.Context, report models.OccupancyReport) error
}

// Service builds the nightly occupancy report.
type Service struct {
	days     AvailabilityStore
	bookings BookingStore
	reports  ReportStore
	exporter Exporter
	logger   *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(days AvailabilityStore, bookings BookingStore, reports ReportStore, exporter Exporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{days: days, bookings: bookings, reports: reports, exporter: exporter, logger: logger}
}

// GenerateDaily aggregates occupancy for one calendar day, persists the report
// and appends it to the spreadsheet export when configured.
func (s *Service) GenerateDaily(ctx context.Context, day time.Time) (models.OccupancyReport, error) {
	day = availability.Midnight(day)

	report := models.OccupancyReport{
		Date:        day,
		DogCapacity: availability.DefaultCapacity(models.PetTypeDog),
		CatCapacity: availability.DefaultCapacity(models.PetTypeCat),
	}

	stored, err := s.days.FindRange(ctx, day, day.AddDate(0, 0, 1), nil)
	if err != nil {
		return models.OccupancyReport{}, fmt.Errorf("load ledger for report: %w", err)
	}
	for _, rec := range stored {
		switch rec.PetType {
		case models.PetTypeDog:
			report.DogsBooked = rec.Capacity.Booked
			report.DogCapacity = rec.Capacity.Total
		case models.PetTypeCat:
			report.CatsBooked = rec.Capacity.Booked
			report.CatCapacity = rec.Capacity.Total
		}
	}

	arrivals, err := s.bookings.ListStartingOn(ctx, day)
	if err != nil {
		return models.OccupancyReport{}, fmt.Errorf("load arrivals: %w", err)
	}
	departures, err := s.bookings.ListEndingOn(ctx, day)
	if err != nil {
		return models.OccupancyReport{}, fmt.Errorf("load departures: %w", err)
	}
	report.CheckIns = len(arrivals)
	report.CheckOuts = len(departures)

	if err := s.reports.Save(ctx, report); err != nil {
		return models.OccupancyReport{}, err
	}

	if s.exporter != nil {
		if err := s.exporter.AppendOccupancyRow(ctx, report); err != nil {
			s.logger.Error("failed exporting occupancy row", zap.Error(err))
		}
	}

	s.logger.Info("occupancy report generated",
		zap.Time("date", day),
		zap.Int("dogs_booked", report.DogsBooked),
		zap.Int("cats_booked", report.CatsBooked))
	return report, nil
}
