package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/cocopets/boarding/internal/auth"
	"github.com/cocopets/boarding/internal/availability"
	"github.com/cocopets/boarding/internal/config"
	"github.com/cocopets/boarding/internal/pricing"
	"github.com/cocopets/boarding/internal/repository/mongodb"
	"github.com/cocopets/boarding/internal/repository/sheets"
	"github.com/cocopets/boarding/internal/scheduler"
	"github.com/cocopets/boarding/internal/server/handlers"
	"github.com/cocopets/boarding/internal/server/router"
	bookingsvc "github.com/cocopets/boarding/internal/service/booking"
	notificationsvc "github.com/cocopets/boarding/internal/service/notification"
	reportingsvc "github.com/cocopets/boarding/internal/service/reporting"
	stripeclient "github.com/cocopets/boarding/pkg/clients/stripe"
	"github.com/cocopets/boarding/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	db, err := mongodb.Connect(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	if err != nil {
		baseLogger.Fatal("failed to init token manager", zap.Error(err))
	}

	pricingCfg := pricing.DefaultConfig()

	availabilitySvc := availability.NewService(db.Availability(), baseLogger.Named("svc.availability"))
	notificationSvc := notificationsvc.NewService(db.Notifications(), baseLogger.Named("svc.notification"))

	stripeClient := stripeclient.NewClient(cfg.Stripe)
	bookingSvc := bookingsvc.NewService(
		db.Bookings(), db.Pets(), db.Users(),
		availabilitySvc, stripeClient, notificationSvc,
		pricingCfg, baseLogger.Named("svc.booking"))

	// The spreadsheet export is optional; reporting runs without it.
	var exporter reportingsvc.Exporter
	if cfg.Sheets.SpreadsheetID != "" {
		sheetExporter, err := sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		exporter = sheetExporter
	} else {
		baseLogger.Warn("spreadsheet export not configured, occupancy reports stay in mongodb only")
	}
	reportingSvc := reportingsvc.NewService(db.Availability(), db.Bookings(), db.Reports(), exporter, baseLogger.Named("svc.reporting"))

	engine := router.New(router.Handlers{
		Auth:         handlers.NewAuthHandler(db.Users(), tokens, baseLogger.Named("handlers.auth")),
		Pricing:      handlers.NewPricingHandler(pricingCfg, baseLogger.Named("handlers.pricing")),
		Availability: handlers.NewAvailabilityHandler(availabilitySvc, baseLogger.Named("handlers.availability")),
		Pets:         handlers.NewPetsHandler(db.Pets(), baseLogger.Named("handlers.pets")),
		Bookings:     handlers.NewBookingsHandler(bookingSvc, baseLogger.Named("handlers.bookings")),
		Payments:     handlers.NewPaymentsHandler(bookingSvc, cfg.Stripe.WebhookSecret, baseLogger.Named("handlers.payments")),
		Messages:     handlers.NewMessagesHandler(notificationSvc, db.Users(), baseLogger.Named("handlers.messages")),
		Reports:      handlers.NewReportsHandler(db.Reports(), baseLogger.Named("handlers.reports")),
	}, tokens, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Scheduler, bookingSvc, db.Bookings(), notificationSvc, reportingSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
