// Package transport wraps the backend HTTP calls in a normalized envelope.
// Every failure that leaves this package is a *model.Error; callers never see
// a raw transport error.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/trustidity/trustidity-go/internal/config"
	"github.com/trustidity/trustidity-go/internal/observability"
	"github.com/trustidity/trustidity-go/internal/session"
	"github.com/trustidity/trustidity-go/model"
)

// maxResponseBytes caps how much of a response body is read. 10MB.
const maxResponseBytes = 10 << 20

// Response is the success half of the normalized envelope. Data holds the raw
// JSON of the backend's data field for the resource layer to decode.
type Response struct {
	Status  int
	Data    json.RawMessage
	Message string
}

// envelope is the wire shape every backend response uses.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Breaker config.CircuitBreakerConfig
	Session session.Store
	Logger  *zap.Logger
	Metrics *observability.Metrics
}

// Client executes backend requests with bearer authorization, correlation
// IDs, circuit breaking, and envelope normalization. It is stateless per call
// and safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *Breaker
	session session.Store
	logger  *zap.Logger
	metrics *observability.Metrics
}

// New creates a Client. The base URL's trailing slash is trimmed so paths can
// always start with one.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimSuffix(opts.BaseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxConnsPerHost:     50,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		breaker: NewBreaker(
			opts.Breaker.FailureThreshold,
			opts.Breaker.SuccessThreshold,
			opts.Breaker.Timeout,
		),
		session: opts.Session,
		logger:  logger,
		metrics: opts.Metrics,
	}
}

// Get issues a GET with the given query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (Response, error) {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Do issues a JSON request. body, when non-nil, is marshalled to JSON.
func (c *Client) Do(ctx context.Context, method, path string, body any) (Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return Response{}, model.NewValidationError("request body is not serializable: " + err.Error())
		}
	}

	c.logRequestBody(ctx, method, path, payload)

	contentType := ""
	if payload != nil {
		contentType = "application/json"
	}
	return c.send(ctx, method, path, bytesReader(payload), contentType)
}

// logRequestBody writes the outgoing body at debug level with sensitive
// fields redacted. Non-object bodies are skipped.
func (c *Client) logRequestBody(ctx context.Context, method, path string, payload []byte) {
	logger := observability.LoggerFrom(ctx, c.logger)
	if len(payload) == 0 || !logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	var fields map[string]any
	if err := json.Unmarshal(payload, &fields); err != nil {
		return
	}
	logger.Debug("sending request body",
		zap.String("method", method),
		zap.String("path", routeOf(path)),
		zap.Any("body", observability.RedactBody(fields, nil)),
	)
}

// DoMultipart issues a POST with a multipart form body. The content type is
// the multipart writer's, carrying the boundary, not application/json.
func (c *Client) DoMultipart(ctx context.Context, path string, form *MultipartForm) (Response, error) {
	body, contentType, err := form.encode()
	if err != nil {
		return Response{}, model.NewValidationError("multipart form: " + err.Error())
	}
	return c.send(ctx, http.MethodPost, path, bytes.NewReader(body), contentType)
}

func bytesReader(b []byte) io.Reader {
	if b == nil {
		return nil
	}
	return bytes.NewReader(b)
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (Response, error) {
	if path == "" || !strings.HasPrefix(path, "/") {
		return Response{}, model.NewValidationError("request path must start with /")
	}

	logger := observability.LoggerFrom(ctx, c.logger)

	if err := c.breaker.Allow(); err != nil {
		c.publishBreakerState()
		return Response{}, model.NewNetworkError("the backend is temporarily unavailable")
	}

	correlationID := uuid.NewString()
	ctx, span := observability.Tracer().Start(ctx, method+" "+routeOf(path))
	span.SetAttributes(
		attribute.String("http.request.method", method),
		observability.AttrCorrelationID.String(correlationID),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return Response{}, model.NewNetworkError("build request: " + err.Error())
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Correlation-Id", correlationID)
	if c.session != nil {
		if token := c.session.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.breaker.RecordFailure()
		c.publishBreakerState()
		norm := normalizeTransportError(ctx, err)
		span.SetStatus(codes.Error, norm.Message)
		logger.Debug("request failed before a response",
			zap.String("method", method),
			zap.String("path", routeOf(path)),
			zap.String("correlation_id", correlationID),
			zap.Error(norm),
		)
		return Response{}, norm
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.breaker.RecordFailure()
		c.publishBreakerState()
		return Response{}, model.NewNetworkError("read response: " + err.Error())
	}

	duration := time.Since(start)
	if c.metrics != nil {
		c.metrics.RecordRequest(method, routeOf(path), resp.StatusCode, duration)
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	// 4xx responses are backend verdicts, not infrastructure failures; only
	// 5xx feed the breaker.
	if resp.StatusCode >= 500 {
		c.breaker.RecordFailure()
	} else if resp.StatusCode < 400 {
		c.breaker.RecordSuccess()
	}
	c.publishBreakerState()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Best-effort message extraction; a missing or unparseable body
		// falls back to the synthesized "HTTP <status>" text.
		var env envelope
		_ = json.Unmarshal(raw, &env)
		httpErr := model.NewHTTPError(resp.StatusCode, env.Message)
		span.SetStatus(codes.Error, httpErr.Message)
		logger.Debug("backend returned an error",
			zap.String("method", method),
			zap.String("path", routeOf(path)),
			zap.Int("status", resp.StatusCode),
			zap.String("correlation_id", correlationID),
			zap.Duration("duration", duration),
		)
		return Response{}, httpErr
	}

	if len(raw) == 0 {
		return Response{Status: resp.StatusCode}, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Response{}, model.NewNetworkError("malformed response body: " + err.Error())
	}
	if !env.Success && env.Message != "" {
		// 2xx with an explicit failure envelope; surface the message.
		return Response{}, model.NewHTTPError(resp.StatusCode, env.Message)
	}

	return Response{Status: resp.StatusCode, Data: env.Data, Message: env.Message}, nil
}

// normalizeTransportError maps low-level request failures to error kinds.
func normalizeTransportError(ctx context.Context, err error) *model.Error {
	if ctx.Err() != nil || isTimeout(err) {
		return model.NewTimeoutError()
	}
	if isConnectionError(err) {
		return model.NewNetworkError("the backend is unreachable: " + err.Error())
	}
	return model.NewNetworkError(err.Error())
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isConnectionError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// routeOf strips the query string so metric and span labels stay low
// cardinality.
func routeOf(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}

func (c *Client) publishBreakerState() {
	if c.metrics == nil {
		return
	}
	var v float64
	switch c.breaker.State() {
	case BreakerHalfOpen:
		v = 1
	case BreakerOpen:
		v = 2
	}
	c.metrics.SetCircuitBreakerState(c.baseURL, v)
}
