package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	Render    RenderConfig
	Storage   StorageConfig
	Providers ProvidersConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// RenderConfig holds page rasterization settings
type RenderConfig struct {
	Engine      string        // chromedp or stub
	ChromePath  string        // path to the Chrome binary (empty = auto-detect)
	Timeout     time.Duration // per-page render timeout
	Concurrency int           // parallel page renders
}

// StorageConfig holds print file storage settings
type StorageConfig struct {
	Backend        string        // filesystem or s3
	BasePath       string        // filesystem root for print files
	Retention      time.Duration // how long print files are kept
	S3Bucket       string
	S3Region       string
	S3Endpoint     string // custom endpoint for S3-compatible stores (empty = AWS)
	S3Prefix       string
	S3AccessKey    string
	S3SecretKey    string
	S3PresignTTL   time.Duration // lifetime of presigned download URLs
	S3UsePathStyle bool
}

// ProviderConfig holds the connection settings of one fulfillment provider
type ProviderConfig struct {
	BaseURL string
	APIKey  string
}

// ProvidersConfig holds settings for all fulfillment providers plus the
// shared HTTP behavior of their clients.
type ProvidersConfig struct {
	Lumaprints ProviderConfig
	Gelaprint  ProviderConfig

	Timeout         time.Duration // per-request timeout
	MaxRetries      int           // retry attempts for transient failures
	RateLimitPerSec float64       // outbound requests per second per client
	RateLimitBurst  int
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with BOOKPRESS_ prefix (e.g., BOOKPRESS_PROVIDERS_LUMAPRINTS_APIKEY)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("BOOKPRESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Render: RenderConfig{
			Engine:      v.GetString("render.engine"),
			ChromePath:  v.GetString("render.chrome_path"),
			Timeout:     v.GetDuration("render.timeout"),
			Concurrency: v.GetInt("render.concurrency"),
		},
		Storage: StorageConfig{
			Backend:        v.GetString("storage.backend"),
			BasePath:       v.GetString("storage.base_path"),
			Retention:      v.GetDuration("storage.retention"),
			S3Bucket:       v.GetString("storage.s3_bucket"),
			S3Region:       v.GetString("storage.s3_region"),
			S3Endpoint:     v.GetString("storage.s3_endpoint"),
			S3Prefix:       v.GetString("storage.s3_prefix"),
			S3AccessKey:    v.GetString("storage.s3_access_key"),
			S3SecretKey:    v.GetString("storage.s3_secret_key"),
			S3PresignTTL:   v.GetDuration("storage.s3_presign_ttl"),
			S3UsePathStyle: v.GetBool("storage.s3_use_path_style"),
		},
		Providers: ProvidersConfig{
			Lumaprints: ProviderConfig{
				BaseURL: v.GetString("providers.lumaprints.base_url"),
				APIKey:  v.GetString("providers.lumaprints.api_key"),
			},
			Gelaprint: ProviderConfig{
				BaseURL: v.GetString("providers.gelaprint.base_url"),
				APIKey:  v.GetString("providers.gelaprint.api_key"),
			},
			Timeout:         v.GetDuration("providers.timeout"),
			MaxRetries:      v.GetInt("providers.max_retries"),
			RateLimitPerSec: v.GetFloat64("providers.rate_limit_per_sec"),
			RateLimitBurst:  v.GetInt("providers.rate_limit_burst"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "bookpress-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Render.Engine == "" {
		cfg.Render.Engine = "chromedp"
	}
	if cfg.Render.Timeout == 0 {
		cfg.Render.Timeout = 30 * time.Second
	}
	if cfg.Render.Concurrency == 0 {
		cfg.Render.Concurrency = 4
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "filesystem"
	}
	if cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "./print-files"
	}
	if cfg.Storage.Retention == 0 {
		cfg.Storage.Retention = 30 * 24 * time.Hour
	}
	if cfg.Storage.S3Region == "" {
		cfg.Storage.S3Region = "us-east-1"
	}
	if cfg.Storage.S3PresignTTL == 0 {
		cfg.Storage.S3PresignTTL = 24 * time.Hour
	}
	if cfg.Providers.Lumaprints.BaseURL == "" {
		cfg.Providers.Lumaprints.BaseURL = "https://api.lumaprints.com/v1"
	}
	if cfg.Providers.Gelaprint.BaseURL == "" {
		cfg.Providers.Gelaprint.BaseURL = "https://api.gelaprint.com/v3"
	}
	if cfg.Providers.Timeout == 0 {
		cfg.Providers.Timeout = 30 * time.Second
	}
	if cfg.Providers.MaxRetries == 0 {
		cfg.Providers.MaxRetries = 3
	}
	if cfg.Providers.RateLimitPerSec == 0 {
		cfg.Providers.RateLimitPerSec = 5
	}
	if cfg.Providers.RateLimitBurst == 0 {
		cfg.Providers.RateLimitBurst = 10
	}
}

// validate checks configuration consistency
func (c *Config) validate() error {
	switch c.Render.Engine {
	case "chromedp", "stub":
	default:
		return fmt.Errorf("render.engine must be chromedp or stub, got %q", c.Render.Engine)
	}
	switch c.Storage.Backend {
	case "filesystem":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("storage.s3_bucket is required when storage.backend is s3")
		}
	default:
		return fmt.Errorf("storage.backend must be filesystem or s3, got %q", c.Storage.Backend)
	}
	if c.Providers.Timeout < time.Second {
		return fmt.Errorf("providers.timeout must be at least 1s, got %s", c.Providers.Timeout)
	}
	if c.Providers.RateLimitPerSec < 0 {
		return fmt.Errorf("providers.rate_limit_per_sec cannot be negative")
	}
	return nil
}

// IsProduction reports whether the application runs in production mode
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
