// Package config holds the runtime configuration. The only external knob
// is the gateway base URL; everything else is a compiled-in default.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the application configuration.
type Config struct {
	// APIBaseURL is the collider gateway, without the /api/v1 prefix.
	APIBaseURL string `env:"COLLIDOSCOPE_API_URL" envDefault:"http://localhost:8000"`

	// RequestTimeout bounds each gateway request.
	RequestTimeout time.Duration `env:"COLLIDOSCOPE_REQUEST_TIMEOUT" envDefault:"30s"`

	// CachePath is the sqlite event cache. Empty disables caching.
	CachePath string `env:"COLLIDOSCOPE_CACHE" envDefault:""`
}

// Load reads configuration from the environment, falling back to defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
