package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings of one report run.
type Config struct {
	Environment string
	LogLevel    string
	// LogFile is where logs go; "-" means stderr.
	LogFile string

	// ReportFormat is "csv" or "xlsx"; empty means decide from the output extension.
	ReportFormat   string
	InputHasHeader bool
	Shards         int

	IORetryMax     uint64
	IORetryInitial time.Duration
}

// Load reads .env when present and then the process environment.
// outputPath places the default log file next to the report.
func Load(outputPath string) Config {
	_ = godotenv.Load()

	return Config{
		Environment:    getenv("ENVIRONMENT", "local"),
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFile:        getenv("LOG_FILE", filepath.Join(filepath.Dir(outputPath), "app.log")),
		ReportFormat:   strings.ToLower(strings.TrimSpace(getenv("REPORT_FORMAT", ""))),
		InputHasHeader: getenvBool("INPUT_HAS_HEADER", true),
		Shards:         getenvInt("SHARDS", 1),
		IORetryMax:     uint64(getenvInt("IO_RETRY_MAX", 3)),
		IORetryInitial: time.Duration(getenvInt("IO_RETRY_INITIAL_MS", 50)) * time.Millisecond,
	}
}

// Format resolves the report format, falling back to the output extension.
func (c Config) Format(outputPath string) string {
	if c.ReportFormat != "" {
		return c.ReportFormat
	}
	if strings.EqualFold(filepath.Ext(outputPath), ".xlsx") {
		return "xlsx"
	}
	return "csv"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// getenvInt returns def for missing, malformed or negative values.
func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}
