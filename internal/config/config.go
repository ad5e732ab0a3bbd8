// Package config loads and validates application configuration from
// environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string `env:"PORT" envDefault:"8080"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `env:"DATABASE_URL"`

	// LogLevel controls the minimum log level.
	// Valid values: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// The default is the Angular dev server.
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:4200"`

	// FrontendURL is where the sign-in callback redirects the browser.
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:4200"`

	// MockMode serves embedded fixture data instead of calling the travel
	// providers. Useful for local development without API keys.
	MockMode bool `env:"MOCK_MODE" envDefault:"false"`

	// JWTSecret signs session tokens. Required.
	JWTSecret string `env:"JWT_SECRET"`

	// GoogleClientID and GoogleClientSecret identify the OAuth application.
	// Required unless MockMode is set.
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`

	// GoogleRedirectURL is the callback the consent page returns to.
	GoogleRedirectURL string `env:"GOOGLE_REDIRECT_URL" envDefault:"http://localhost:8080/api/auth/google/callback"`

	// Travel provider credentials. Each is required only when MockMode is
	// off; the fixture providers never call out.
	AmadeusAPIKey     string `env:"AMADEUS_API_KEY"`
	AmadeusAPISecret  string `env:"AMADEUS_API_SECRET"`
	HotelAPIKey       string `env:"HOTEL_API_KEY"`
	CarRentalAPIKey   string `env:"CAR_RENTAL_API_KEY"`
	ToursAPIKey       string `env:"TOURS_API_KEY"`
	TransportAPIKey   string `env:"TRANSPORT_API_KEY"`
	AttractionsAPIKey string `env:"ATTRACTIONS_API_KEY"`
}

// Load reads configuration from the environment, after merging in a .env
// file when one exists. Returns an error listing any required variables
// that are not set.
func Load() (Config, error) {
	// A missing .env is the normal case in production.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if !cfg.MockMode {
		for _, v := range []struct{ name, value string }{
			{"GOOGLE_CLIENT_ID", cfg.GoogleClientID},
			{"GOOGLE_CLIENT_SECRET", cfg.GoogleClientSecret},
			{"AMADEUS_API_KEY", cfg.AmadeusAPIKey},
			{"AMADEUS_API_SECRET", cfg.AmadeusAPISecret},
			{"HOTEL_API_KEY", cfg.HotelAPIKey},
			{"CAR_RENTAL_API_KEY", cfg.CarRentalAPIKey},
			{"TOURS_API_KEY", cfg.ToursAPIKey},
			{"TRANSPORT_API_KEY", cfg.TransportAPIKey},
			{"ATTRACTIONS_API_KEY", cfg.AttractionsAPIKey},
		} {
			if v.value == "" {
				missing = append(missing, v.name)
			}
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}
