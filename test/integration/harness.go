// Package integration wires a full client stack against a mock Trustidity API
// server: session store, transport client, resource services, lookup cache,
// and query controllers, the same way the CLI assembles them.
package integration

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/trustidity/trustidity-go/internal/config"
	"github.com/trustidity/trustidity-go/internal/lookup"
	"github.com/trustidity/trustidity-go/internal/observability"
	"github.com/trustidity/trustidity-go/internal/query"
	"github.com/trustidity/trustidity-go/internal/resource"
	"github.com/trustidity/trustidity-go/internal/session"
	"github.com/trustidity/trustidity-go/internal/transport"
	"github.com/trustidity/trustidity-go/model"
)

// Harness is a fully wired client talking to a MockBackend.
type Harness struct {
	t *testing.T

	Backend *MockBackend
	Session session.Store
	Client  *transport.Client
	Metrics *observability.Metrics

	Institutions  *resource.Institutions
	Users         *resource.Users
	Verifications *resource.Verifications
	AuditLogs     *resource.AuditLogs
	Plans         *resource.Plans
	Lookups       *lookup.Provider
}

// HarnessOption configures the test harness.
type HarnessOption func(*harnessConfig)

type harnessConfig struct {
	token   string
	breaker config.CircuitBreakerConfig
	timeout time.Duration
}

// WithToken seeds the session store so requests carry a bearer token.
func WithToken(token string) HarnessOption {
	return func(c *harnessConfig) { c.token = token }
}

// WithBreaker overrides the circuit breaker thresholds.
func WithBreaker(failureThreshold, successThreshold int, timeout time.Duration) HarnessOption {
	return func(c *harnessConfig) {
		c.breaker = config.CircuitBreakerConfig{
			FailureThreshold: failureThreshold,
			SuccessThreshold: successThreshold,
			Timeout:          timeout,
		}
	}
}

// WithTimeout overrides the per-request HTTP timeout.
func WithTimeout(d time.Duration) HarnessOption {
	return func(c *harnessConfig) { c.timeout = d }
}

// NewHarness starts a mock backend and wires the full client stack to it.
func NewHarness(t *testing.T, opts ...HarnessOption) *Harness {
	t.Helper()

	hc := harnessConfig{
		breaker: config.CircuitBreakerConfig{
			FailureThreshold: 5,
			SuccessThreshold: 2,
			Timeout:          30 * time.Second,
		},
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&hc)
	}

	backend := NewMockBackend(t)
	store := session.NewMemoryStore()
	if hc.token != "" {
		if err := store.Set(context.Background(), hc.token); err != nil {
			t.Fatalf("seeding session token: %v", err)
		}
	}

	metrics := observability.InitMetrics(prometheus.NewRegistry())
	client := transport.New(transport.Options{
		BaseURL: backend.URL(),
		Timeout: hc.timeout,
		Breaker: hc.breaker,
		Session: store,
		Logger:  zap.NewNop(),
		Metrics: metrics,
	})

	h := &Harness{
		t:             t,
		Backend:       backend,
		Session:       store,
		Client:        client,
		Metrics:       metrics,
		Institutions:  resource.NewInstitutions(client),
		Users:         resource.NewUsers(client),
		Verifications: resource.NewVerifications(client),
		AuditLogs:     resource.NewAuditLogs(client),
		Plans:         resource.NewPlans(client),
	}
	h.Lookups = lookup.NewProvider(5*time.Minute, 100, metrics)
	lookup.RegisterStandard(h.Lookups, h.Plans, h.Institutions)
	return h
}

// NewInstitutionController builds a query controller over the institutions
// list endpoint with fast test timings. Snapshots arrive on the returned
// channel.
func (h *Harness) NewInstitutionController(debounce time.Duration, retry query.RetryPolicy) (*query.Controller[model.Institution], <-chan query.Snapshot[model.Institution]) {
	h.t.Helper()

	snaps := make(chan query.Snapshot[model.Institution], 64)
	ctrl := query.New(h.Institutions.List, query.Options[model.Institution]{
		Resource: "institutions",
		Debounce: debounce,
		Retry:    retry,
		Classify: func(inst model.Institution) string { return inst.Status },
		Logger:   zap.NewNop(),
		Metrics:  h.Metrics,
		OnChange: func(s query.Snapshot[model.Institution]) { snaps <- s },
	})
	return ctrl, snaps
}

// WaitForState reads snapshots until one matches the wanted state; it fails
// the test after three seconds.
func WaitForState[T any](t *testing.T, snaps <-chan query.Snapshot[T], want query.State) query.Snapshot[T] {
	t.Helper()

	deadline := time.After(3 * time.Second)
	for {
		select {
		case snap := <-snaps:
			if snap.State == want {
				return snap
			}
		case <-deadline:
			t.Fatalf("timed out waiting for state %q", want)
			return query.Snapshot[T]{}
		}
	}
}
