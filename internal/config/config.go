package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Auth      AuthConfig
	Stripe    StripeConfig
	Sheets    SheetsConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// AuthConfig carries the JWT signing secret and token issuer.
type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

// StripeConfig contains credentials for the Stripe REST API.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	BaseURL       string
	SuccessURL    string
	CancelURL     string
}

// SheetsConfig contains configuration for the occupancy export spreadsheet.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// SchedulerConfig holds the cron expressions for the background jobs.
type SchedulerConfig struct {
	ReminderSchedule string
	CleanupSchedule  string
	ReportSchedule   string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "cocopets"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			Issuer:    getenvWithDefault("JWT_ISSUER", "cocopets-boarding"),
		},
		Stripe: StripeConfig{
			SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
			BaseURL:       getenvWithDefault("STRIPE_BASE_URL", "https://api.stripe.com"),
			SuccessURL:    getenvWithDefault("CHECKOUT_SUCCESS_URL", "http://localhost:3000/bookings/success"),
			CancelURL:     getenvWithDefault("CHECKOUT_CANCEL_URL", "http://localhost:3000/bookings/cancelled"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_EXPORT_ID"),
		},
		Scheduler: SchedulerConfig{
			ReminderSchedule: getenvWithDefault("REMINDER_CRON_SCHEDULE", "0 8 * * *"),
			CleanupSchedule:  getenvWithDefault("CLEANUP_CRON_SCHEDULE", "30 * * * *"),
			ReportSchedule:   getenvWithDefault("REPORT_CRON_SCHEDULE", "5 0 * * *"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be provided")
	}

	if c.Stripe.SecretKey == "" {
		return errors.New("STRIPE_SECRET_KEY must be provided")
	}

	if c.Stripe.BaseURL == "" {
		return errors.New("STRIPE_BASE_URL must not be empty")
	}

	switch {
	case c.Scheduler.ReminderSchedule == "":
		return errors.New("REMINDER_CRON_SCHEDULE must be provided")
	case c.Scheduler.CleanupSchedule == "":
		return errors.New("CLEANUP_CRON_SCHEDULE must be provided")
	case c.Scheduler.ReportSchedule == "":
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	// The spreadsheet export is optional; both fields must be set together.
	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_EXPORT_ID must be set together")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
