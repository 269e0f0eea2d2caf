package providers

import (
	"errors"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// LumaprintsProductionAPIURL is the production API endpoint
const LumaprintsProductionAPIURL = "https://api.lumaprints.com/v1"

// Errors for Lumaprints configuration
var (
	ErrLumaprintsMissingAPIKey  = errors.New("lumaprints: API key is required")
	ErrLumaprintsMissingBaseURL = errors.New("lumaprints: base URL is required")
)

// LumaprintsConfig holds configuration for the Lumaprints API integration
type LumaprintsConfig struct {
	// APIKey is the bearer token issued by the Lumaprints dashboard
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

// NewLumaprintsConfig creates a configuration with production defaults
func NewLumaprintsConfig(apiKey string) *LumaprintsConfig {
	return &LumaprintsConfig{
		APIKey:         apiKey,
		BaseURL:        LumaprintsProductionAPIURL,
		TimeoutSeconds: 30,
		MaxRetries:     3,
	}
}

// Validate validates the configuration and applies defaults
func (c *LumaprintsConfig) Validate() error {
	if c.APIKey == "" {
		return ErrLumaprintsMissingAPIKey
	}
	if c.BaseURL == "" {
		return ErrLumaprintsMissingBaseURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	return nil
}
