package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	applog "pjes/internal/log"
)

// Data backends accepted by DATA_BACKEND.
const (
	BackendXLSX   = "xlsx"
	BackendSheets = "sheets"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

var validBackends = []string{BackendXLSX, BackendSheets, BackendSQLite, BackendMemory}

type Config struct {
	// HTTP Server
	Port     string
	LogoPath string

	// Source selection
	DataBackend string
	Files       []string
	Sheet       string

	// Database
	SQLiteDBPath string

	// AMQP, optional
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets
	GoogleSpreadsheetID string
	GoogleSheetRange    string

	// Memory backend seed file
	MemorySeedCSV string

	// Reports
	ReportCacheSize int
	ReportCacheTTL  time.Duration

	// Downloads per client IP per minute; 0 disables limiting.
	ExportRateLimit int

	LogLevel string
}

func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8081"),
		LogoPath: getEnv("LOGO_PATH", "logo_sds.png"),

		DataBackend: strings.ToLower(getEnv("DATA_BACKEND", BackendXLSX)),
		Files:       getEnvList("PJES_FILES", []string{"PJES.xlsx"}),
		Sheet:       getEnv("PJES_SHEET", ""),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/pjes.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "pjes"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "export_events"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetRange:    getEnv("GOOGLE_SHEET_RANGE", "PJES"),

		MemorySeedCSV: getEnv("MEMORY_SEED_CSV", ""),

		ReportCacheSize: getEnvInt("REPORT_CACHE_SIZE", 128),
		ReportCacheTTL:  getEnvDuration("REPORT_CACHE_TTL", 10*time.Minute),

		ExportRateLimit: getEnvInt("EXPORT_RATE_LIMIT", 30),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case BackendXLSX:
		if len(c.Files) == 0 {
			errors = append(errors, "PJES_FILES cannot be empty when using xlsx backend")
		}
		for _, f := range c.Files {
			if _, err := os.Stat(f); err != nil {
				errors = append(errors, fmt.Sprintf("workbook not readable: %s", f))
			}
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	case BackendSheets:
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
	case BackendMemory:
		if c.MemorySeedCSV != "" {
			if _, err := os.Stat(c.MemorySeedCSV); err != nil {
				errors = append(errors, fmt.Sprintf("memory seed file not readable: %s", c.MemorySeedCSV))
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

	if c.ReportCacheSize < 0 || c.ReportCacheSize > 10000 {
		errors = append(errors, fmt.Sprintf("invalid report cache size %d: must be between 0 and 10000", c.ReportCacheSize))
	}
	if c.ReportCacheTTL < 0 || c.ReportCacheTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid report cache TTL %v: must be between 0 and 24 hours", c.ReportCacheTTL))
	}
	if c.ExportRateLimit < 0 {
		errors = append(errors, fmt.Sprintf("invalid export rate limit %d: must not be negative", c.ExportRateLimit))
	}
	if _, err := applog.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// AuditEnabled reports whether export events go through the broker.
func (c *Config) AuditEnabled() bool {
	return c.AMQPURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList splits a comma separated variable, dropping empty entries.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
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
