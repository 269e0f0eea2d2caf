package providers

import (
	"errors"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// GelaprintProductionAPIURL is the production API endpoint
const GelaprintProductionAPIURL = "https://api.gelaprint.com/v3"

// Errors for Gelaprint configuration
var (
	ErrGelaprintMissingAPIKey  = errors.New("gelaprint: API key is required")
	ErrGelaprintMissingBaseURL = errors.New("gelaprint: base URL is required")
)

// GelaprintConfig holds configuration for the Gelaprint API integration
type GelaprintConfig struct {
	// APIKey is sent as the X-API-Key header on every request
	APIKey string
	// BaseURL is the API endpoint (production or sandbox)
	BaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
	// MaxRetries bounds retry attempts for transient failures
	MaxRetries int
	// Limiter throttles outbound requests; nil gets a conservative default
	Limiter *rate.Limiter
	// Logger for request diagnostics
	Logger *zap.Logger
}

// NewGelaprintConfig creates a configuration with production defaults
func NewGelaprintConfig(apiKey string) *GelaprintConfig {
	return &GelaprintConfig{
		APIKey:         apiKey,
		BaseURL:        GelaprintProductionAPIURL,
		TimeoutSeconds: 30,
		MaxRetries:     3,
	}
}

// Validate validates the configuration and applies defaults
func (c *GelaprintConfig) Validate() error {
	if c.APIKey == "" {
		return ErrGelaprintMissingAPIKey
	}
	if c.BaseURL == "" {
		return ErrGelaprintMissingBaseURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	return nil
}
