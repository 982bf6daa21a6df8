// Package config loads console settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// DefaultTimeoutMs is the per-request API timeout.
const DefaultTimeoutMs = 10000

// Config holds every setting the console reads from the environment.
type Config struct {
	APIBaseURL   string `env:"CARBONADMIN_API_URL" envDefault:"http://localhost:5000/api"`
	TimeoutMs    int    `env:"CARBONADMIN_TIMEOUT_MS" envDefault:"10000"`
	DBPath       string `env:"CARBONADMIN_DB"`
	LogLevel     string `env:"CARBONADMIN_LOG_LEVEL" envDefault:"warn"`
	LogFormat    string `env:"CARBONADMIN_LOG_FORMAT" envDefault:"console"`
	LogCalls     bool   `env:"CARBONADMIN_LOG_CALLS" envDefault:"false"`
	RequireAdmin bool   `env:"CARBONADMIN_REQUIRE_ADMIN" envDefault:"true"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure bool   `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"false"`
}

// Load reads an optional .env file from the working directory, then parses
// the environment. Variables already set win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return Parse()
}

// Parse reads the environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.TimeoutMs <= 0 {
		cfg.TimeoutMs = DefaultTimeoutMs
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	return &cfg, nil
}

// Timeout returns the API timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// DefaultDBPath returns ~/.carbonadmin/carbonadmin.db, falling back to the
// working directory when the home directory is unknown.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "carbonadmin.db"
	}
	return filepath.Join(home, ".carbonadmin", "carbonadmin.db")
}
