package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_appliesDefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://api.trustidity.test/api
  timeout: 5s
query:
  debounce: 250ms
  retry:
    max_attempts: 3
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "https://api.trustidity.test/api" {
		t.Errorf("base_url = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.API.Timeout)
	}
	if cfg.Query.Debounce != 250*time.Millisecond {
		t.Errorf("debounce = %v, want 250ms", cfg.Query.Debounce)
	}
	if cfg.Query.Retry.MaxAttempts != 3 {
		t.Errorf("max_attempts = %d, want 3", cfg.Query.Retry.MaxAttempts)
	}
	// Untouched fields keep defaults.
	if cfg.Query.Retry.BackoffInitial != 1*time.Second {
		t.Errorf("backoff_initial = %v, want default 1s", cfg.Query.Retry.BackoffInitial)
	}
	if cfg.Session.Driver != "memory" {
		t.Errorf("session driver = %q, want memory default", cfg.Session.Driver)
	}
}

func TestLoad_missingBaseURLFails(t *testing.T) {
	path := writeConfig(t, "query:\n  debounce: 100ms\n")
	if _, err := Load(path); err == nil {
		t.Fatal("Load() should fail without api.base_url")
	}
}

func TestLoad_rejectsUnknownSessionDriver(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://api.trustidity.test/api
session:
  driver: dynamodb
`)
	if _, err := Load(path); err == nil {
		t.Fatal("Load() should reject unsupported session driver")
	}
}

func TestLoad_envOverrides(t *testing.T) {
	path := writeConfig(t, "api:\n  base_url: https://file.example/api\n")
	t.Setenv("TRUSTIDITY_API_BASE_URL", "https://env.example/api")
	t.Setenv("TRUSTIDITY_OBSERVABILITY_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "https://env.example/api" {
		t.Errorf("base_url = %q, want env override", cfg.API.BaseURL)
	}
	if cfg.Observability.LogLevel != "debug" {
		t.Errorf("log_level = %q, want debug", cfg.Observability.LogLevel)
	}
}
