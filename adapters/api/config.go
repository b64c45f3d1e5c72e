package api

import (
	"fmt"
	"net/http"
	"time"
)

// ClientConfig holds settings shared by the HTTP source clients
type ClientConfig struct {
	// Timeout bounds one request end to end; the core enforces none
	Timeout   time.Duration
	UserAgent string
	// HTTPClient overrides the client built from Timeout (tests)
	HTTPClient *http.Client
}

// DefaultClientConfig returns sensible defaults for the source clients
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:   30 * time.Second,
		UserAgent: "unitestats/1.0",
	}
}

// Validate checks if the configuration is valid
func (c ClientConfig) Validate() error {
	if c.HTTPClient == nil && c.Timeout <= 0 {
		return &ValidationError{Field: "Timeout", Message: "must be positive"}
	}
	return nil
}

func (c ClientConfig) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: c.Timeout}
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}
