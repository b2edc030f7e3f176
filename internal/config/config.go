// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ResultsPath    string
	DatabasePath   string
	ChartDir       string
	LogPath        string
	LogLevel       string
	ChartWidth     int
	ChartHeight    int
	HistoryLimit   int
	ReloadDebounce time.Duration
	WatchResults   bool
	NotifyOnReload bool
}

// Default values
const (
	defaultResultsPath    = "BenchResults.csv"
	defaultChartDir       = "charts"
	defaultLogLevel       = "info"
	defaultChartWidth     = 1024
	defaultChartHeight    = 640
	defaultHistoryLimit   = 50
	defaultReloadDebounce = 250 * time.Millisecond
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		ResultsPath:    getEnvString("BENCH_RESULTS_PATH", defaultResultsPath),
		DatabasePath:   getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		ChartDir:       getEnvString("CHART_DIR", defaultChartDir),
		LogPath:        getEnvString("LOG_PATH", getDefaultLogPath()),
		LogLevel:       getEnvString("LOG_LEVEL", defaultLogLevel),
		ChartWidth:     getEnvInt("CHART_WIDTH", defaultChartWidth),
		ChartHeight:    getEnvInt("CHART_HEIGHT", defaultChartHeight),
		HistoryLimit:   getEnvInt("HISTORY_LIMIT", defaultHistoryLimit),
		ReloadDebounce: getEnvDuration("RELOAD_DEBOUNCE", defaultReloadDebounce),
		WatchResults:   getEnvBool("WATCH_RESULTS", true),
		NotifyOnReload: getEnvBool("NOTIFY_ON_RELOAD", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configured values are usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ResultsPath) == "" {
		return fmt.Errorf("BENCH_RESULTS_PATH must not be empty")
	}
	if c.ChartWidth <= 0 || c.ChartHeight <= 0 {
		return fmt.Errorf("chart size must be positive, got %dx%d", c.ChartWidth, c.ChartHeight)
	}
	if c.ReloadDebounce < 0 {
		return fmt.Errorf("RELOAD_DEBOUNCE must not be negative, got %v", c.ReloadDebounce)
	}
	return nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory location
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "minviz", ".env"))
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
		grandparent := filepath.Dir(parent)
		paths = append(paths, filepath.Join(grandparent, ".env"))
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the run archive.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "runs.db"
	}
	return filepath.Join(home, ".config", "minviz", "runs.db")
}

// getDefaultLogPath returns where the dashboard writes its log while the
// terminal is taken over.
func getDefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "minviz.log"
	}
	return filepath.Join(home, ".config", "minviz", "minviz.log")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
// Accepts the forms understood by strconv.ParseBool plus "yes"/"no".
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch value {
	case "":
		return defaultValue
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
