package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"budgetflow/internal/core"
)

type Config struct {
	// Backend selection
	DataBackend   string
	SQLiteDBPath  string
	DataDirectory string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets report export
	GoogleSpreadsheetID   string
	GoogleSheetName       string
	GoogleCredentialsFile string
	GoogleCredentialsJSON string

	// Reminder worker
	ReminderInterval time.Duration
	ReminderLeadDays int

	// Locale
	Currency string
	Timezone string

	// Logging
	LogLevel  string
	LogFormat string

	// Analytics
	TopCategories           int
	TrendEpsilon            float64
	OverspendThreshold      float64
	ExpenseRatioThreshold   float64
	SuggestedCutPercent     float64
	SavingsAchievementRatio float64
	SpendingIncrease        float64
	DailyLimitShare         float64
	SnapshotCacheSize       int
	SnapshotCacheTTL        time.Duration
}

func Load() *Config {
	return &Config{
		DataBackend:   getEnv("DATA_BACKEND", "memory"),
		SQLiteDBPath:  getEnv("SQLITE_DB_PATH", "./data/budgetflow.db"),
		DataDirectory: getEnv("DATA_DIRECTORY", "data"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "budgetflow"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "planned_reminders"),

		GoogleSpreadsheetID:   getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:       getEnv("GOOGLE_SHEET_NAME", "Reports"),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),

		ReminderInterval: getEnvDuration("REMINDER_INTERVAL", time.Hour),
		ReminderLeadDays: getEnvInt("REMINDER_LEAD_DAYS", 1),

		Currency: strings.ToUpper(getEnv("CURRENCY", "UZS")),
		Timezone: getEnv("TIMEZONE", "Local"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		TopCategories:           getEnvInt("TOP_CATEGORIES", 5),
		TrendEpsilon:            getEnvFloat("TREND_EPSILON", 0.01),
		OverspendThreshold:      getEnvFloat("OVERSPEND_THRESHOLD", 0.10),
		ExpenseRatioThreshold:   getEnvFloat("EXPENSE_RATIO_THRESHOLD", 0.6),
		SuggestedCutPercent:     getEnvFloat("SUGGESTED_CUT_PERCENT", 0.15),
		SavingsAchievementRatio: getEnvFloat("SAVINGS_ACHIEVEMENT_RATIO", 0.8),
		SpendingIncrease:        getEnvFloat("SPENDING_INCREASE_THRESHOLD", 0.25),
		DailyLimitShare:         getEnvFloat("DAILY_LIMIT_SHARE", 1),
		SnapshotCacheSize:       getEnvInt("SNAPSHOT_CACHE_SIZE", 64),
		SnapshotCacheTTL:        getEnvDuration("SNAPSHOT_CACHE_TTL", 5*time.Minute),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.GoogleSpreadsheetID != "" {
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when a spreadsheet ID is set")
		}
		if c.GoogleCredentialsFile == "" && c.GoogleCredentialsJSON == "" {
			errors = append(errors, "either GOOGLE_CREDENTIALS_FILE or GOOGLE_CREDENTIALS_JSON must be provided for sheets export")
		}
		if c.GoogleCredentialsFile != "" {
			if _, err := os.Stat(c.GoogleCredentialsFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google credentials file does not exist: %s", c.GoogleCredentialsFile))
			}
		}
	}

	if c.ReminderInterval < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid reminder interval %v: must be at least 1 minute", c.ReminderInterval))
	} else if c.ReminderInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid reminder interval %v: must be at most 24 hours", c.ReminderInterval))
	}
	if c.ReminderLeadDays < 0 || c.ReminderLeadDays > 31 {
		errors = append(errors, fmt.Sprintf("invalid reminder lead days %d: must be between 0 and 31", c.ReminderLeadDays))
	}

	if _, ok := core.MinorUnits[c.Currency]; !ok {
		errors = append(errors, fmt.Sprintf("unsupported currency '%s'", c.Currency))
	}
	if _, err := c.Location(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	if c.TopCategories == 0 {
		errors = append(errors, "top categories cannot be 0: use a negative value for no limit")
	}
	thresholds := []struct {
		name string
		v    float64
		max  float64
	}{
		{"trend epsilon", c.TrendEpsilon, 1},
		{"overspend threshold", c.OverspendThreshold, 1},
		{"expense ratio threshold", c.ExpenseRatioThreshold, 1},
		{"suggested cut percent", c.SuggestedCutPercent, 1},
		{"savings achievement ratio", c.SavingsAchievementRatio, 1},
		{"spending increase threshold", c.SpendingIncrease, 10},
		{"daily limit share", c.DailyLimitShare, 1},
	}
	for _, th := range thresholds {
		if th.v <= 0 || th.v > th.max {
			errors = append(errors, fmt.Sprintf("invalid %s %v: must be in (0, %v]", th.name, th.v, th.max))
		}
	}
	if c.SnapshotCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid snapshot cache size %d: must be at least 1", c.SnapshotCacheSize))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// Location resolves Timezone. "Local" and "" mean the process time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// CurrencyDecimals returns the number of minor-unit digits of Currency.
func (c *Config) CurrencyDecimals() int {
	return core.MinorUnits[c.Currency]
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
