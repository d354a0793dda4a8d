// Package config loads the dashboard configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv     string `env:"APP_ENV" default:"development"`
	Port       string `env:"PORT" default:"8080"`
	BackendURL string `env:"BACKEND_URL" default:"http://localhost:8000"`

	// SessionFile is where the single persisted session record lives.
	// Defaults to ~/.leavedesk/session.json.
	SessionFile string `env:"SESSION_FILE" default:""`

	PollInterval time.Duration `env:"POLL_INTERVAL" default:"4s"`
	HTTPTimeout  time.Duration `env:"HTTP_TIMEOUT" default:"10s"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if cfg.SessionFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("SESSION_FILE not set and home directory unknown: %w", err)
		}
		cfg.SessionFile = filepath.Join(home, ".leavedesk", "session.json")
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("BACKEND_URL must be an absolute URL, got %q", cfg.BackendURL)
	}

	if cfg.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive, got %s", cfg.PollInterval)
	}
	if cfg.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", cfg.HTTPTimeout)
	}

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be \"text\" or \"json\", got %q", cfg.LogFormat)
	}

	return nil
}
