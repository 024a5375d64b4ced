package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
)

// Workbook sources.
const (
	SourceXLSX   = "xlsx"
	SourceCSV    = "csv"
	SourceSheets = "sheets"
)

type Config struct {
	// Workbook source
	Source              string
	LedgerFile          string
	CSVDir              string
	GoogleSpreadsheetID string

	// Sheet names
	SetupSheet   string
	LedgerSheet  string
	SummarySheet string
	WriteSummary bool

	// Reporting
	Currency  string
	ReportTop int // default leaderboard length, 0 for all

	// Run archive, disabled when empty
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Process
	LogLevel        string
	ShutdownTimeout time.Duration
}

func Load() *Config {
	cfg := &Config{
		Source:              strings.ToLower(getEnv("LEDGER_SOURCE", SourceXLSX)),
		LedgerFile:          getEnv("LEDGER_FILE", "./books.xlsx"),
		CSVDir:              getEnv("LEDGER_CSV_DIR", ""),
		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),

		SetupSheet:   getEnv("SETUP_SHEET_NAME", "Setup"),
		LedgerSheet:  getEnv("LEDGER_SHEET_NAME", "Ledger"),
		SummarySheet: getEnv("SUMMARY_SHEET_NAME", "Summary"),
		WriteSummary: getEnvBool("WRITE_SUMMARY", true),

		Currency:  strings.ToUpper(getEnv("REPORT_CURRENCY", "USD")),
		ReportTop: getEnvInt("REPORT_TOP", 0),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "ledgerbook"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "report_requests"),

		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if errors := c.problems(); len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// ValidateWorker is Validate plus the settings the AMQP worker needs.
func (c *Config) ValidateWorker() error {
	errors := c.problems()
	if c.AMQPURL == "" {
		errors = append(errors, "AMQP URL is required for the worker")
	}
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func (c *Config) problems() []string {
	var errors []string

	// Validate workbook source
	switch c.Source {
	case SourceXLSX:
		if c.LedgerFile == "" {
			errors = append(errors, "ledger file path cannot be empty when using xlsx source")
		} else if !strings.EqualFold(filepath.Ext(c.LedgerFile), ".xlsx") {
			errors = append(errors, fmt.Sprintf("ledger file '%s' must be an .xlsx workbook", c.LedgerFile))
		}
	case SourceCSV:
		if c.CSVDir == "" {
			errors = append(errors, "CSV directory is required when using csv source")
		} else if info, err := os.Stat(c.CSVDir); err != nil || !info.IsDir() {
			errors = append(errors, fmt.Sprintf("CSV directory does not exist: %s", c.CSVDir))
		}
	case SourceSheets:
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets source")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid ledger source '%s': must be one of %v", c.Source, []string{SourceXLSX, SourceCSV, SourceSheets}))
	}

	// Validate sheet names
	names := map[string]string{"setup": c.SetupSheet, "ledger": c.LedgerSheet, "summary": c.SummarySheet}
	for _, role := range []string{"setup", "ledger", "summary"} {
		if strings.TrimSpace(names[role]) == "" {
			errors = append(errors, fmt.Sprintf("%s sheet name cannot be empty", role))
		}
	}
	if strings.EqualFold(c.SummarySheet, c.SetupSheet) || strings.EqualFold(c.SummarySheet, c.LedgerSheet) {
		errors = append(errors, fmt.Sprintf("summary sheet '%s' would overwrite an input sheet", c.SummarySheet))
	}

	// Validate currency
	if money.GetCurrency(c.Currency) == nil {
		errors = append(errors, fmt.Sprintf("unknown report currency '%s'", c.Currency))
	}

	if c.ReportTop < 0 {
		errors = append(errors, fmt.Sprintf("invalid report top %d: must not be negative", c.ReportTop))
	}

	// Validate SQLite archive directory if configured
	if c.SQLiteDBPath != "" {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	// Validate AMQP URL if provided
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

	if _, ok := parseLevel(c.LogLevel); !ok {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}

	return errors
}

// SlogLevel is the configured log level, info when unknown.
func (c *Config) SlogLevel() slog.Level {
	l, _ := parseLevel(c.LogLevel)
	return l
}

func parseLevel(s string) (slog.Level, bool) {
	switch s {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
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

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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
