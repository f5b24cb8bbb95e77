// Package config loads and validates client configuration from YAML files
// and environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root client configuration.
type Config struct {
	API           APIConfig           `yaml:"api"`
	Query         QueryConfig         `yaml:"query"`
	Session       SessionConfig       `yaml:"session"`
	Lookup        LookupConfig        `yaml:"lookup"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// APIConfig describes the backend REST endpoint and transport behaviour.
type APIConfig struct {
	BaseURL        string               `yaml:"base_url"`
	Timeout        time.Duration        `yaml:"timeout"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
}

// CircuitBreakerConfig describes failure thresholds on the transport client.
type CircuitBreakerConfig struct {
	FailureThreshold int           `yaml:"failure_threshold"`
	SuccessThreshold int           `yaml:"success_threshold"`
	Timeout          time.Duration `yaml:"timeout"`
}

// QueryConfig describes list-query controller behaviour.
type QueryConfig struct {
	Debounce time.Duration `yaml:"debounce"`
	Retry    RetryConfig   `yaml:"retry"`
}

// RetryConfig describes throttle-retry behaviour for list fetches.
type RetryConfig struct {
	// MaxAttempts is the total attempt budget, including the first try.
	MaxAttempts       int           `yaml:"max_attempts"`
	BackoffInitial    time.Duration `yaml:"backoff_initial"`
	BackoffMultiplier float64       `yaml:"backoff_multiplier"`
	BackoffMax        time.Duration `yaml:"backoff_max"`
}

// SessionConfig describes where the bearer token is held.
type SessionConfig struct {
	// Driver is "memory" or "redis".
	Driver string `yaml:"driver"`
	// AddrEnv names the environment variable carrying the redis address.
	AddrEnv string `yaml:"addr_env"`
	DB      int    `yaml:"db"`
}

// LookupConfig describes the facet option cache.
type LookupConfig struct {
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
}

// ObservabilityConfig describes logging, tracing, and metrics settings.
type ObservabilityConfig struct {
	LogLevel string        `yaml:"log_level"`
	Tracing  TracingConfig `yaml:"tracing"`
	Metrics  MetricsConfig `yaml:"metrics"`
}

// TracingConfig describes distributed tracing settings.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"sampling_rate"`
}

// MetricsConfig describes Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Defaults returns a Config with sensible default values.
func Defaults() *Config {
	return &Config{
		API: APIConfig{
			Timeout: 10 * time.Second,
			CircuitBreaker: CircuitBreakerConfig{
				FailureThreshold: 5,
				SuccessThreshold: 2,
				Timeout:          30 * time.Second,
			},
		},
		Query: QueryConfig{
			Debounce: 500 * time.Millisecond,
			Retry: RetryConfig{
				MaxAttempts:       4,
				BackoffInitial:    1 * time.Second,
				BackoffMultiplier: 2,
				BackoffMax:        8 * time.Second,
			},
		},
		Session: SessionConfig{
			Driver:  "memory",
			AddrEnv: "TRUSTIDITY_REDIS_ADDR",
		},
		Lookup: LookupConfig{
			TTL:        5 * time.Minute,
			MaxEntries: 1000,
		},
		Observability: ObservabilityConfig{
			LogLevel: "info",
			Tracing: TracingConfig{
				Exporter:     "otlp",
				SamplingRate: 0.1,
			},
			Metrics: MetricsConfig{Enabled: true},
		},
	}
}

// Load reads a YAML config file, applies environment variable overrides,
// and validates required fields.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation: %w", err)
	}

	return cfg, nil
}

// FromEnv returns the default configuration with environment overrides
// applied, for callers running without a config file.
func FromEnv() (*Config, error) {
	cfg := Defaults()
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required fields are present and valid.
func (c *Config) Validate() error {
	var errs []string

	if c.API.BaseURL == "" {
		errs = append(errs, "api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, "api.timeout must be positive")
	}
	if c.Query.Retry.MaxAttempts < 1 {
		errs = append(errs, "query.retry.max_attempts must be at least 1")
	}
	switch c.Session.Driver {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Sprintf("session.driver %q is not supported (memory, redis)", c.Session.Driver))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// applyEnvOverrides reads TRUSTIDITY_* environment variables and overrides
// config values. Only the most commonly overridden fields are supported.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRUSTIDITY_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("TRUSTIDITY_API_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.API.Timeout = d
		}
	}
	if v := os.Getenv("TRUSTIDITY_SESSION_DRIVER"); v != "" {
		cfg.Session.Driver = v
	}
	if v := os.Getenv("TRUSTIDITY_OBSERVABILITY_LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
}
