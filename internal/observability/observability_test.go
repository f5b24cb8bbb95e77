package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/trustidity/trustidity-go/internal/config"
)

func TestNewLogger_invalidLevelFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.ObservabilityConfig{LogLevel: "chatty"})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	if logger.Core().Enabled(-1) { // -1 is debug
		t.Error("fallback level should not enable debug")
	}
}

func TestRedactBody(t *testing.T) {
	body := map[string]any{
		"email":    "alice@example.com",
		"password": "hunter2",
		"profile": map[string]any{
			"token": "abc",
			"name":  "Alice",
		},
	}

	got := RedactBody(body, []string{"email"})

	if got["email"] != "[REDACTED]" {
		t.Errorf("email = %v, want redacted", got["email"])
	}
	if got["password"] != "[REDACTED]" {
		t.Errorf("password = %v, want redacted", got["password"])
	}
	nested := got["profile"].(map[string]any)
	if nested["token"] != "[REDACTED]" {
		t.Errorf("nested token = %v, want redacted", nested["token"])
	}
	if nested["name"] != "Alice" {
		t.Errorf("nested name = %v, want untouched", nested["name"])
	}
	// Original must not be mutated.
	if body["password"] != "hunter2" {
		t.Error("RedactBody mutated its input")
	}
}

func TestMetrics_recording(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := InitMetrics(reg)

	m.RecordFetch("institutions", "success")
	m.RecordFetch("institutions", "success")
	m.RecordRetry("institutions")
	m.RecordThrottled("institutions")
	m.RecordSuppressed("users")
	m.RecordLookupCacheHit("institution-types")

	if got := testutil.ToFloat64(m.FetchesTotal.WithLabelValues("institutions", "success")); got != 2 {
		t.Errorf("fetches = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RetriesTotal.WithLabelValues("institutions")); got != 1 {
		t.Errorf("retries = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SuppressedTotal.WithLabelValues("users")); got != 1 {
		t.Errorf("suppressed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.LookupCacheHitsTotal.WithLabelValues("institution-types")); got != 1 {
		t.Errorf("cache hits = %v, want 1", got)
	}
}
