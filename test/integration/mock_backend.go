package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// MockBackend is a configurable HTTP test server that simulates the Trustidity
// REST API. It allows configuring per-route responses and records all received
// requests for later assertion.
type MockBackend struct {
	t      *testing.T
	server *httptest.Server

	mu           sync.RWMutex
	routes       map[string]*routeConfig
	receivedByOp map[string][]*RecordedRequest
}

// RecordedRequest captures the details of one request received by the backend.
type RecordedRequest struct {
	Method      string
	Path        string
	QueryParams map[string]string
	Headers     http.Header
	Body        map[string]any
	RawBody     []byte
	ReceivedAt  time.Time
}

type routeConfig struct {
	mu        sync.Mutex
	responses []*mockResponse
	current   int
}

type mockResponse struct {
	status    int
	body      any
	delay     time.Duration
	connError bool
}

// RouteMock is a builder for configuring responses for one route.
type RouteMock struct {
	backend *MockBackend
	opID    string
}

// backendRoutes maps operation IDs to the API surface the client expects.
var backendRoutes = map[string]struct{ method, pattern string }{
	"listInstitutions":   {http.MethodGet, "/institutions"},
	"getInstitution":     {http.MethodGet, "/institutions/{id}"},
	"createInstitution":  {http.MethodPost, "/institutions"},
	"approveInstitution": {http.MethodPatch, "/institutions/{id}/approve"},
	"suspendInstitution": {http.MethodPatch, "/institutions/{id}/suspend"},
	"deleteInstitution":  {http.MethodDelete, "/institutions/{id}"},
	"listUsers":          {http.MethodGet, "/users"},
	"getUser":            {http.MethodGet, "/users/{id}"},
	"updateUserRole":     {http.MethodPatch, "/users/{id}/role"},
	"deactivateUser":     {http.MethodPatch, "/users/{id}/deactivate"},
	"listVerifications":  {http.MethodGet, "/verifications"},
	"getVerification":    {http.MethodGet, "/verifications/{id}"},
	"submitVerification": {http.MethodPost, "/verifications"},
	"updateVerification": {http.MethodPatch, "/verifications/{id}/status"},
	"listAuditLogs":      {http.MethodGet, "/audit-logs"},
	"listPlans":          {http.MethodGet, "/plans"},
}

// NewMockBackend starts a mock Trustidity API server. Routes without a
// configured response return an empty success envelope.
func NewMockBackend(t *testing.T) *MockBackend {
	t.Helper()

	mb := &MockBackend{
		t:            t,
		routes:       make(map[string]*routeConfig),
		receivedByOp: make(map[string][]*RecordedRequest),
	}

	r := chi.NewRouter()
	for opID, route := range backendRoutes {
		r.Method(route.method, route.pattern, mb.handleOperation(opID))
	}
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": fmt.Sprintf("mock: no route for %s %s", req.Method, req.URL.Path),
		})
	})

	mb.server = httptest.NewServer(r)
	t.Cleanup(mb.server.Close)
	return mb
}

// URL returns the base URL of the mock server.
func (mb *MockBackend) URL() string {
	return mb.server.URL
}

// On returns a builder for configuring responses for the named operation.
func (mb *MockBackend) On(operationID string) *RouteMock {
	if _, known := backendRoutes[operationID]; !known {
		mb.t.Fatalf("mock: unknown operation %q", operationID)
	}
	return &RouteMock{backend: mb, opID: operationID}
}

// RespondWith enqueues a raw status and body. The last configured response
// repeats for all subsequent calls.
func (rm *RouteMock) RespondWith(status int, body any) *RouteMock {
	rm.backend.addResponse(rm.opID, &mockResponse{status: status, body: body})
	return rm
}

// RespondList enqueues a success envelope holding one page of items under the
// given key plus a pagination block.
func (rm *RouteMock) RespondList(itemsKey string, items any, page, limit, total, pages int) *RouteMock {
	return rm.RespondWith(http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			itemsKey: items,
			"pagination": map[string]int{
				"page": page, "limit": limit, "total": total, "pages": pages,
			},
		},
	})
}

// RespondItem enqueues a success envelope holding a single object.
func (rm *RouteMock) RespondItem(status int, item any) *RouteMock {
	return rm.RespondWith(status, map[string]any{"success": true, "data": item})
}

// RespondError enqueues a failure envelope.
func (rm *RouteMock) RespondError(status int, message string) *RouteMock {
	return rm.RespondWith(status, map[string]any{"success": false, "message": message})
}

// RespondThrottled enqueues n 429 responses.
func (rm *RouteMock) RespondThrottled(n int) *RouteMock {
	for i := 0; i < n; i++ {
		rm.RespondError(http.StatusTooManyRequests, "rate limit exceeded")
	}
	return rm
}

// RespondWithDelay enqueues a delayed response to simulate a slow backend.
func (rm *RouteMock) RespondWithDelay(delay time.Duration, status int, body any) *RouteMock {
	rm.backend.addResponse(rm.opID, &mockResponse{status: status, body: body, delay: delay})
	return rm
}

// RespondWithConnectionError enqueues a dropped connection.
func (rm *RouteMock) RespondWithConnectionError() *RouteMock {
	rm.backend.addResponse(rm.opID, &mockResponse{connError: true})
	return rm
}

func (mb *MockBackend) addResponse(opID string, resp *mockResponse) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	cfg, ok := mb.routes[opID]
	if !ok {
		cfg = &routeConfig{}
		mb.routes[opID] = cfg
	}
	cfg.responses = append(cfg.responses, resp)
}

func (mb *MockBackend) handleOperation(opID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &RecordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			QueryParams: make(map[string]string),
			Headers:     r.Header.Clone(),
			ReceivedAt:  time.Now(),
		}
		for key, values := range r.URL.Query() {
			if len(values) > 0 {
				rec.QueryParams[key] = values[0]
			}
		}
		if r.Body != nil {
			body, _ := io.ReadAll(r.Body)
			rec.RawBody = body
			if len(body) > 0 {
				var parsed map[string]any
				if err := json.Unmarshal(body, &parsed); err == nil {
					rec.Body = parsed
				}
			}
		}

		mb.mu.Lock()
		mb.receivedByOp[opID] = append(mb.receivedByOp[opID], rec)
		mb.mu.Unlock()

		resp := mb.getNextResponse(opID)
		if resp == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]any{"success": true})
			return
		}

		if resp.connError {
			if hj, ok := w.(http.Hijacker); ok {
				if conn, _, _ := hj.Hijack(); conn != nil {
					conn.Close()
				}
			}
			return
		}

		if resp.delay > 0 {
			time.Sleep(resp.delay)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.status)
		if resp.body != nil {
			json.NewEncoder(w).Encode(resp.body)
		}
	}
}

func (mb *MockBackend) getNextResponse(opID string) *mockResponse {
	mb.mu.RLock()
	cfg, ok := mb.routes[opID]
	mb.mu.RUnlock()
	if !ok || cfg == nil {
		return nil
	}

	cfg.mu.Lock()
	defer cfg.mu.Unlock()
	if len(cfg.responses) == 0 {
		return nil
	}
	idx := cfg.current
	if idx >= len(cfg.responses) {
		idx = len(cfg.responses) - 1
	} else {
		cfg.current++
	}
	return cfg.responses[idx]
}

// CallCount returns how many requests the operation received.
func (mb *MockBackend) CallCount(operationID string) int {
	mb.mu.RLock()
	defer mb.mu.RUnlock()
	return len(mb.receivedByOp[operationID])
}

// AssertCalled verifies the operation was called the expected number of times.
func (mb *MockBackend) AssertCalled(t *testing.T, operationID string, expectedCount int) {
	t.Helper()
	if actual := mb.CallCount(operationID); actual != expectedCount {
		t.Errorf("operation %q called %d times, want %d", operationID, actual, expectedCount)
	}
}

// LastRequest returns the last request received for the operation, or nil.
func (mb *MockBackend) LastRequest(operationID string) *RecordedRequest {
	mb.mu.RLock()
	defer mb.mu.RUnlock()
	reqs := mb.receivedByOp[operationID]
	if len(reqs) == 0 {
		return nil
	}
	return reqs[len(reqs)-1]
}

// AllRequests returns all requests received for the operation.
func (mb *MockBackend) AllRequests(operationID string) []*RecordedRequest {
	mb.mu.RLock()
	defer mb.mu.RUnlock()
	reqs := mb.receivedByOp[operationID]
	copied := make([]*RecordedRequest, len(reqs))
	copy(copied, reqs)
	return copied
}

// Reset clears all recorded requests and configured responses.
func (mb *MockBackend) Reset() {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.routes = make(map[string]*routeConfig)
	mb.receivedByOp = make(map[string][]*RecordedRequest)
}
