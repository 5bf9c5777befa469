package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvBaseURL      = "QUILL_BASE_URL"
	EnvPollInterval = "QUILL_POLL_INTERVAL"
	EnvLogLevel     = "QUILL_LOG_LEVEL"
)

// applyEnv overlays the process environment and, beneath it, the project's
// .env file.
func applyEnv(cfg *Config, dotenvPath string) error {
	file, err := godotenv.Read(dotenvPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("config: reading %s: %w", dotenvPath, err)
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}

	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		cfg.Backend.BaseURL = v
	}
	if v, ok := lookup(EnvPollInterval); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvPollInterval, err)
		}
		cfg.Polling.Interval = d
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Log.Level = v
	}
	return nil
}
