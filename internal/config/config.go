// Package config loads the process-wide configuration for portify-server.
//
// The configuration is read once at startup from the environment (optionally
// seeded from a .env file), validated, and then passed by pointer to every
// component that needs it. Nothing reads the environment after Load returns.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Environment is the runtime mode of the service.
type Environment string

const (
	// EnvironmentDevelopment enables verbose, human-readable output.
	EnvironmentDevelopment Environment = "development"

	// EnvironmentProduction switches logs to single-line JSON.
	EnvironmentProduction Environment = "production"

	// EnvironmentTest is used by automated test runs.
	EnvironmentTest Environment = "test"
)

// Config holds the validated service configuration.
type Config struct {
	// Environment is the runtime mode (NODE_ENV).
	Environment Environment `env:"NODE_ENV" envDefault:"development" validate:"oneof=development production test"`

	// Port is the TCP port the HTTP server listens on.
	Port int `env:"PORT" envDefault:"3000" validate:"min=1,max=65535"`

	// LogLevel is the minimum enabled log level. Empty means "debug" in
	// development and "info" everywhere else.
	LogLevel string `env:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error"`

	// CORSOrigins is the list of allowed CORS origins. CORS is disabled when empty.
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	RateLimit RateLimitConfig
	Server    ServerConfig
}

// RateLimitConfig controls per-client request throttling.
type RateLimitConfig struct {
	// RPS is the sustained requests per second allowed per client IP. Zero disables limiting.
	RPS float64 `env:"RATE_LIMIT_RPS" envDefault:"100" validate:"gte=0"`

	// Burst is the token bucket size per client IP.
	Burst int `env:"RATE_LIMIT_BURST" envDefault:"200" validate:"gte=1"`
}

// ServerConfig holds HTTP server timeouts.
type ServerConfig struct {
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s" validate:"gt=0"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s" validate:"gt=0"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s" validate:"gt=0"`
}

var validate = validator.New()

// Load reads configuration from the process environment. A .env file in the
// working directory is loaded first if present; real environment variables win.
// Entries in overrides take precedence over both.
func Load(overrides map[string]string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	environ := environMap(os.Environ())
	for k, v := range overrides {
		environ[k] = v
	}

	return Parse(environ)
}

// loadDotEnv seeds the process environment from the given files (".env" by
// default). A missing file is not an error; an unreadable or malformed one is.
func loadDotEnv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

// Parse builds a Config from the given variables only.
func Parse(environ map[string]string) (*Config, error) {
	if environ == nil {
		environ = map[string]string{}
	}

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
		if cfg.IsDevelopment() {
			cfg.LogLevel = "debug"
		}
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvironmentDevelopment
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}

// Address returns the listen address for the HTTP server.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

func environMap(pairs []string) map[string]string {
	out := make(map[string]string, len(pairs))
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		out[k] = v
	}
	return out
}
