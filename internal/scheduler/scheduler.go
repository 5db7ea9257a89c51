package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/cocopets/boarding/internal/config"
	"github.com/cocopets/boarding/internal/domain/models"
)

const (
	pendingPaymentMaxAge  = 24 * time.Hour
	notificationRetention = 90 * 24 * time.Hour
)

// BookingJobs is the booking maintenance surface the scheduler drives.
type BookingJobs interface {
	ExpireStale(ctx context.Context, maxAge time.Duration) (int, error)
}

// ReminderSource lists tomorrow's arrivals for check-in reminders.
type ReminderSource interface {
	ListStartingOn(ctx context.Context, day time.Time) ([]models.Booking, error)
}

// Notifier raises the reminder notifications.
type Notifier interface {
	Notify(ctx context.Context, userID primitive.ObjectID, kind models.NotificationKind, title, body string) error
	PurgeOlderThan(ctx context.Context, retention time.Duration) (int64, error)
}

// Reporter generates the nightly occupancy report.
type Reporter interface {
	GenerateDaily(ctx context.Context, day time.Time) (models.OccupancyReport, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	cfg       config.SchedulerConfig
	bookings  BookingJobs
	reminders ReminderSource
	notifier  Notifier
	reporter  Reporter
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.SchedulerConfig, bookings BookingJobs, reminders ReminderSource, notifier Notifier, reporter Reporter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:      cron.New(),
		cfg:       cfg,
		bookings:  bookings,
		reminders: reminders,
		notifier:  notifier,
		reporter:  reporter,
		logger:    logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	jobs := []struct {
		name     string
		schedule string
		run      func()
	}{
		{"checkin-reminders", s.cfg.ReminderSchedule, s.sendCheckinReminders},
		{"cleanup", s.cfg.CleanupSchedule, s.runCleanup},
		{"occupancy-report", s.cfg.ReportSchedule, s.generateOccupancyReport},
	}

	for _, job := range jobs {
		if _, err := s.cron.AddFunc(job.schedule, job.run); err != nil {
			s.logger.Error("failed to schedule job",
				zap.String("job", job.name),
				zap.String("schedule", job.schedule),
				zap.Error(err))
		}
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) sendCheckinReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	tomorrow := time.Now().UTC().AddDate(0, 0, 1)
	tomorrow = time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, time.UTC)

	arrivals, err := s.reminders.ListStartingOn(ctx, tomorrow)
	if err != nil {
		s.logger.Error("failed loading tomorrow's arrivals", zap.Error(err))
		return
	}

	for _, booking := range arrivals {
		body := fmt.Sprintf("Reminder: your pet's boarding stay %s starts tomorrow.", booking.Reference)
		if err := s.notifier.Notify(ctx, booking.UserID, models.NotificationReminder, "Check-in tomorrow", body); err != nil {
			s.logger.Error("failed sending check-in reminder",
				zap.String("reference", booking.Reference), zap.Error(err))
		}
	}

	s.logger.Info("check-in reminders sent", zap.Int("count", len(arrivals)))
}

func (s *Scheduler) runCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	expired, err := s.bookings.ExpireStale(ctx, pendingPaymentMaxAge)
	if err != nil {
		s.logger.Error("failed expiring stale bookings", zap.Error(err))
	} else if expired > 0 {
		s.logger.Info("expired stale bookings", zap.Int("count", expired))
	}

	if _, err := s.notifier.PurgeOlderThan(ctx, notificationRetention); err != nil {
		s.logger.Error("failed purging notifications", zap.Error(err))
	}
}

func (s *Scheduler) generateOccupancyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	if _, err := s.reporter.GenerateDaily(ctx, yesterday); err != nil {
		s.logger.Error("failed generating occupancy report", zap.Error(err))
	}
}
