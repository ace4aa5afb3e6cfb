package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap/zapcore"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageMongoDB = "mongodb"
	StorageMemory  = "memory"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Storage   StorageConfig
	MongoDB   MongoDBConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
	Notifier  NotifierConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig holds logger options.
type LogConfig struct {
	Level string
}

// StorageConfig selects the document store backing the services.
type StorageConfig struct {
	Driver string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
// Export is disabled when both fields are empty.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether capacity reports should be exported to a spreadsheet.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// Location resolves the configured timezone.
func (c ReportingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// NotifierConfig holds the webhook capacity reports are posted to.
type NotifierConfig struct {
	WebhookURL string
}

// Enabled reports whether report delivery is configured.
func (c NotifierConfig) Enabled() bool {
	return c.WebhookURL != ""
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
		// Missing .env files are fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getenvWithDefault("STORAGE_DRIVER", StorageMongoDB)),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "stockflow"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_ID"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "UTC"),
		},
		Notifier: NotifierConfig{
			WebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated and consistent.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StorageMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided")
		}
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must be provided")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageMongoDB, StorageMemory, c.Storage.Driver)
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_ID must be provided together")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}
	if _, err := cron.ParseStandard(c.Reporting.CronSchedule); err != nil {
		return fmt.Errorf("REPORT_CRON_SCHEDULE is invalid: %w", err)
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}
	if _, err := c.Reporting.Location(); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
