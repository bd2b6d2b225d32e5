// Package config loads the pusher configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvPushURL        = "WORKER_PUSH_URL"
	EnvPushToken      = "PUSH_TOKEN"
	EnvTopN           = "IDEAS_TOP_N"
	EnvMinQuoteVolume = "IDEAS_MIN_QUOTE_VOLUME"
	EnvTTLSec         = "IDEAS_TTL_SEC"
	EnvOrigin         = "IDEAS_ORIGIN"
	EnvSourcesFile    = "IDEAS_SOURCES_FILE"
	EnvHTTPTimeout    = "HTTP_TIMEOUT"
	EnvPushgatewayURL = "PUSHGATEWAY_URL"
	EnvLogLevel       = "LOG_LEVEL"
)

// Defaults.
const (
	DefaultTopN           = 10
	DefaultMinQuoteVolume = 10_000_000
	DefaultTTLSec         = 900
	DefaultOrigin         = "github_actions"
	DefaultHTTPTimeout    = 15 * time.Second
	DefaultLogLevel       = "info"
)

// Config is the resolved runtime configuration for one run.
type Config struct {
	PushURL        string
	PushToken      string
	TopN           int
	MinQuoteVolume float64
	TTLSec         int
	Origin         string
	SourcesFile    string
	HTTPTimeout    time.Duration
	PushgatewayURL string
	LogLevel       string
}

// LoadDotEnv pre-loads variables from a .env file without overriding the environment.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// FromEnv reads the configuration from the process environment.
func FromEnv() (Config, error) {
	return Load(os.Getenv)
}

// Load reads the configuration using getenv and validates it.
func Load(getenv func(string) string) (Config, error) {
	cfg := Config{
		PushURL:        strings.TrimSpace(getenv(EnvPushURL)),
		PushToken:      strings.TrimSpace(getenv(EnvPushToken)),
		TopN:           DefaultTopN,
		MinQuoteVolume: DefaultMinQuoteVolume,
		TTLSec:         DefaultTTLSec,
		Origin:         DefaultOrigin,
		SourcesFile:    strings.TrimSpace(getenv(EnvSourcesFile)),
		HTTPTimeout:    DefaultHTTPTimeout,
		PushgatewayURL: strings.TrimSpace(getenv(EnvPushgatewayURL)),
		LogLevel:       DefaultLogLevel,
	}

	if cfg.PushURL == "" {
		return Config{}, &ConfigurationError{Field: EnvPushURL, Err: ErrMissingPushURL}
	}

	var err error
	if cfg.TopN, err = intVar(getenv, EnvTopN, DefaultTopN); err != nil {
		return Config{}, err
	}
	if cfg.TTLSec, err = intVar(getenv, EnvTTLSec, DefaultTTLSec); err != nil {
		return Config{}, err
	}
	if v := strings.TrimSpace(getenv(EnvMinQuoteVolume)); v != "" {
		f, perr := strconv.ParseFloat(v, 64)
		if perr != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return Config{}, &ConfigurationError{Field: EnvMinQuoteVolume, Err: fmt.Errorf("want a finite number >= 0, got %q", v)}
		}
		cfg.MinQuoteVolume = f
	}
	if v := strings.TrimSpace(getenv(EnvHTTPTimeout)); v != "" {
		d, perr := time.ParseDuration(v)
		if perr != nil || d <= 0 {
			return Config{}, &ConfigurationError{Field: EnvHTTPTimeout, Err: fmt.Errorf("want a positive duration, got %q", v)}
		}
		cfg.HTTPTimeout = d
	}
	if v := strings.TrimSpace(getenv(EnvOrigin)); v != "" {
		cfg.Origin = v
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}

// intVar parses a positive integer variable, returning def when unset.
func intVar(getenv func(string) string, name string, def int) (int, error) {
	v := strings.TrimSpace(getenv(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, &ConfigurationError{Field: name, Err: fmt.Errorf("want a positive integer, got %q", v)}
	}
	return n, nil
}
