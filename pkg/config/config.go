// Package config provides configuration management for the worklog tools.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config represents the application configuration.
type Config struct {
	Workfile WorkfileConfig
	Feed     FeedConfig
	Invoice  InvoiceConfig
	Debug    bool
}

// WorkfileConfig represents workfile-related configuration.
type WorkfileConfig struct {
	Path        string
	DBPath      string
	RatesFile   string
	DefaultRate decimal.Decimal
}

// FeedConfig represents the planning feed configuration.
type FeedConfig struct {
	URL     string
	Timeout time.Duration
}

// InvoiceConfig represents invoice-related configuration.
type InvoiceConfig struct {
	Dir string
}

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	// Load .env file
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	defaultRate, err := parseDecimalEnv("WORKLOG_DEFAULT_RATE", decimal.NewFromInt(80))
	if err != nil {
		return nil, fmt.Errorf("invalid WORKLOG_DEFAULT_RATE: %w", err)
	}

	feedTimeout, err := parseDurationEnv("WORKLOG_FEED_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WORKLOG_FEED_TIMEOUT: %w", err)
	}

	config := &Config{
		Workfile: WorkfileConfig{
			Path:        os.Getenv("WORKLOG_FILE"),
			DBPath:      os.Getenv("WORKLOG_DB_PATH"),
			RatesFile:   os.Getenv("WORKLOG_RATES_FILE"),
			DefaultRate: defaultRate,
		},
		Feed: FeedConfig{
			URL:     os.Getenv("WORKLOG_FEED_URL"),
			Timeout: feedTimeout,
		},
		Invoice: InvoiceConfig{
			Dir: getEnvOrDefault("WORKLOG_INVOICE_DIR", "."),
		},
		Debug: os.Getenv("DEBUG") == "true",
	}

	return config, nil
}

// Validate validates the configuration.
// It checks if all required fields are set.
func (c *Config) Validate(required ...[]string) error {
	var missing []string

	for _, path := range required {
		if len(path) < 2 {
			continue
		}

		var value string
		switch path[0] {
		case "workfile":
			switch path[1] {
			case "path":
				value = c.Workfile.Path
			case "dbPath":
				value = c.Workfile.DBPath
			case "ratesFile":
				value = c.Workfile.RatesFile
			}
		case "feed":
			switch path[1] {
			case "url":
				value = c.Feed.URL
			}
		case "invoice":
			switch path[1] {
			case "dir":
				value = c.Invoice.Dir
			}
		}

		if value == "" {
			missing = append(missing, joinPath(path))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v\nPlease check your .env file or environment variables", missing)
	}

	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDecimalEnv parses a decimal from an environment variable.
// Returns defaultValue if the environment variable is not set.
func parseDecimalEnv(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal value for %s: %s", key, value)
	}

	return parsed, nil
}

// parseDurationEnv parses a duration from an environment variable.
// Returns defaultValue if the environment variable is not set.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration value for %s: %s", key, value)
	}

	return parsed, nil
}

// joinPath joins a path slice into a dot-separated string.
func joinPath(path []string) string {
	result := ""
	for i, p := range path {
		if i > 0 {
			result += "."
		}
		result += p
	}
	return result
}
