// Package config loads the runtime configuration from the process environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config captures environment driven configuration values for the service.
type Config struct {
	HTTPPort  int    `env:"EVENTLIST_HTTP_PORT" envDefault:"3000"`
	SQLiteDSN string `env:"EVENTLIST_SQLITE_DSN" envDefault:"file:eventlist.db?_pragma=foreign_keys(1)"`

	JWTSecret    string        `env:"EVENTLIST_JWT_SECRET,required,notEmpty"`
	PasswordSalt string        `env:"EVENTLIST_PASSWORD_SALT,required,notEmpty"`
	TokenTTL     time.Duration `env:"EVENTLIST_TOKEN_TTL" envDefault:"24h"`

	APIRateLimit      int           `env:"EVENTLIST_API_RATE_LIMIT" envDefault:"100"`
	APIRateWindow     time.Duration `env:"EVENTLIST_API_RATE_WINDOW" envDefault:"15m"`
	AccountRateLimit  int           `env:"EVENTLIST_ACCOUNT_RATE_LIMIT" envDefault:"20"`
	AccountRateWindow time.Duration `env:"EVENTLIST_ACCOUNT_RATE_WINDOW" envDefault:"1h"`
	SecureCookies     bool          `env:"EVENTLIST_SECURE_COOKIES" envDefault:"false"`
	ShutdownGrace     time.Duration `env:"EVENTLIST_SHUTDOWN_GRACE" envDefault:"10s"`
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (Config, error) {
	// The .env file is a local convenience; its absence is not an error.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing environment: %w", err)
	}

	if cfg.HTTPPort <= 0 {
		return Config{}, fmt.Errorf("config: EVENTLIST_HTTP_PORT must be positive, got %d", cfg.HTTPPort)
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("config: EVENTLIST_TOKEN_TTL must be positive, got %v", cfg.TokenTTL)
	}
	if cfg.APIRateLimit <= 0 || cfg.AccountRateLimit <= 0 {
		return Config{}, fmt.Errorf("config: rate limits must be positive")
	}

	return cfg, nil
}
