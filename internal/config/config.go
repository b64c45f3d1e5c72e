package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"unitestats/internal/errors"
)

// DefaultCatalogURL is the published reference catalog
const DefaultCatalogURL = "https://s3.ap-northeast-1.amazonaws.com/juv-shun.website-hosting/pokemon_master_data/pokemons.json"

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Sources  SourceConfig
	Server   ServerConfig
	Batch    BatchConfig
	LogLevel string
}

// DatabaseConfig holds database connection settings.
// An empty URL disables the stored-aggregate features.
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
}

// SourceConfig holds the remote data sources
type SourceConfig struct {
	CatalogURL  string
	StatsURL    string
	HTTPTimeout time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string
	GinMode     string
	CORSOrigins []string
}

// BatchConfig holds aggregation and period-merge settings
type BatchConfig struct {
	// TargetDate overrides the default aggregation day (yesterday, JST)
	TargetDate string
	// PeriodConcurrency bounds concurrent per-day reads when merging a period
	PeriodConcurrency int
}

// HasDatabase reports whether a database is configured
func (c *Config) HasDatabase() bool {
	return c.Database.URL != ""
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 10),
		},
		Sources: SourceConfig{
			CatalogURL:  getEnvOrDefault("CATALOG_URL", DefaultCatalogURL),
			StatsURL:    os.Getenv("STATS_API_URL"),
			HTTPTimeout: getEnvDurationOrDefault("HTTP_TIMEOUT", 30*time.Second),
		},
		Server: ServerConfig{
			Port:        getEnvOrDefault("PORT", "8080"),
			GinMode:     getEnvOrDefault("GIN_MODE", "release"),
			CORSOrigins: getEnvListOrDefault("CORS_ORIGINS", []string{"*"}),
		},
		Batch: BatchConfig{
			TargetDate:        os.Getenv("TARGET_DATE"),
			PeriodConcurrency: getEnvIntOrDefault("PERIOD_FETCH_CONCURRENCY", 4),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if err := validateURL("CATALOG_URL", config.Sources.CatalogURL); err != nil {
		return err
	}
	if config.Sources.StatsURL != "" {
		if err := validateURL("STATS_API_URL", config.Sources.StatsURL); err != nil {
			return err
		}
	}
	if config.Sources.HTTPTimeout <= 0 {
		return errors.ConfigInvalid("HTTP_TIMEOUT must be positive")
	}
	if config.Batch.PeriodConcurrency <= 0 {
		return errors.ConfigInvalid("PERIOD_FETCH_CONCURRENCY must be positive")
	}
	return nil
}

func validateURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.ConfigInvalid(key + " must be an absolute URL")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
