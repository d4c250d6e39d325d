package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the service needs at process start. Upstream
// credentials are injected here, never compiled into source.
type Config struct {
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Forbruker ForbrukerConfig
	Upstream  UpstreamConfig

	// AssumedMonthlyConsumptionKwh amortizes a deal's monthly fee into a
	// per-kWh addend when no user consumption is known.
	AssumedMonthlyConsumptionKwh float64 `env:"ASSUMED_MONTHLY_CONSUMPTION_KWH" envDefault:"1000"`
}

// ForbrukerConfig carries the strømpris-API client credentials used for the
// token exchange before fetching the deals feed.
type ForbrukerConfig struct {
	ClientID     string `env:"FORBRUKER_CLIENT_ID"`
	ClientSecret string `env:"FORBRUKER_CLIENT_SECRET"`
	BaseURL      string `env:"FORBRUKER_BASE_URL" envDefault:"https://strom-api.forbrukerradet.no"`
}

// UpstreamConfig carries base URLs for the public data sources.
type UpstreamConfig struct {
	HvakosterBaseURL string `env:"HVAKOSTER_BASE_URL" envDefault:"https://www.hvakosterstrommen.no/api/v1"`
	NVEBaseURL       string `env:"NVE_BASE_URL" envDefault:"https://biapi.nve.no/magasinstatistikk/api/Magasinstatistikk"`
	GridBaseURL      string `env:"GRID_BASE_URL" envDefault:"https://strom-api.forbrukerradet.no"`
}

var ErrMissingCredentials = errors.New("forbruker client credentials are not set")

// Load parses configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateDeals checks the credentials needed by the deals feed. The rest of
// the service works without them.
func (c *Config) ValidateDeals() error {
	if c.Forbruker.ClientID == "" || c.Forbruker.ClientSecret == "" {
		return ErrMissingCredentials
	}
	return nil
}
