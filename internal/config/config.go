package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the configuration for the content service.
// Environment variables are parsed from the CONTENTOPS_ prefix.
type Config struct {
	// StoreDriver selects the collection store backend: postgres (shared
	// multi-writer) or sqlite (single-writer local mode).
	StoreDriver string `envconfig:"STORE_DRIVER" default:"sqlite"`

	// Postgres configuration (remote mode).
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// SQLitePath overrides the local database location. Empty means the
	// default path under the localstate data dir.
	SQLitePath string `envconfig:"SQLITE_PATH" default:""`

	// HTTP configuration.
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Caption generation upstream.
	CaptionAPIURL string `envconfig:"CAPTION_API_URL" default:"https://api.anthropic.com"`
	CaptionAPIKey string `envconfig:"CAPTION_API_KEY" default:""`
	CaptionModel  string `envconfig:"CAPTION_MODEL" default:"claude-3-5-sonnet-latest"`
}

// New loads configuration from the environment and validates it.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("CONTENTOPS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks driver selection and its required settings.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("CONTENTOPS_POSTGRES_DSN is required when STORE_DRIVER=postgres")
		}
	case "sqlite":
		// path defaults to localstate at open time
	default:
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.StoreDriver)
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT: %d", c.HTTPPort)
	}
	return nil
}
