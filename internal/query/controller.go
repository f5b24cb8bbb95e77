// Package query owns paginated list state for one backend resource: debounced
// re-query on filter change, in-flight suppression, throttle-only retry with
// exponential backoff, and reconciliation of server pagination with local
// state. One Controller instance backs one list view.
package query

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/trustidity/trustidity-go/internal/observability"
	"github.com/trustidity/trustidity-go/model"
)

// State is the request lifecycle of a controller. Exactly one fetch may be in
// flight at a time; Retrying is the sub-state of Loading entered after a
// throttled attempt.
type State string

const (
	StateIdle     State = "idle"
	StateLoading  State = "loading"
	StateRetrying State = "retrying"
	StateSuccess  State = "success"
	StateError    State = "error"
)

// Fetcher loads one page of T, usually a resource service's List method.
type Fetcher[T any] func(ctx context.Context, q model.QueryRequest) (model.QueryResult[T], error)

// Notifier is the side channel terminal failures are surfaced through,
// exactly once per failure.
type Notifier interface {
	Notify(message string)
}

// LogNotifier reports failures through a zap logger.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) Notify(message string) {
	n.Logger.Warn("query failed", zap.String("message", message))
}

// RetryPolicy bounds the throttle-retry loop.
type RetryPolicy struct {
	// MaxAttempts is the total attempt budget including the first try, the
	// same accounting the backend invoker configs use. A policy of 3 makes at
	// most 3 throttled attempts and then fails; it never makes a 4th.
	MaxAttempts       int
	BackoffInitial    time.Duration
	BackoffMultiplier float64
	BackoffMax        time.Duration
}

// backoff returns the delay before the given retry. attempt counts completed
// attempts, so the first retry waits BackoffInitial.
func (p RetryPolicy) backoff(attempt int) time.Duration {
	initial := p.BackoffInitial
	if initial <= 0 {
		initial = time.Second
	}
	mult := p.BackoffMultiplier
	if mult <= 0 {
		mult = 2
	}
	max := p.BackoffMax
	if max <= 0 {
		max = 8 * time.Second
	}

	delay := initial
	for i := 1; i < attempt; i++ {
		delay = time.Duration(float64(delay) * mult)
		if delay > max {
			return max
		}
	}
	return delay
}

// Options configures a Controller.
type Options[T any] struct {
	// Resource labels metrics and logs, e.g. "institutions".
	Resource string
	Debounce time.Duration
	Retry    RetryPolicy
	// Classify buckets an item for the page-local stats breakdown,
	// typically by status. Nil disables the breakdown.
	Classify func(T) string
	Notifier Notifier
	Logger   *zap.Logger
	Metrics  *observability.Metrics
	// OnChange observes every state transition with a fresh snapshot.
	OnChange func(Snapshot[T])
}

// Snapshot is the consumer-readable state of a controller.
type Snapshot[T any] struct {
	State      State
	Items      []T
	Pagination model.Pagination
	Stats      Stats
	Err        *model.Error
	Request    model.QueryRequest
}

// Controller owns the list state for one resource. Consumers trigger fetches
// through Start, SetFilters, SetPage, and Refresh, and read state through
// Snapshot; they never mutate result state directly.
type Controller[T any] struct {
	fetch Fetcher[T]
	opts  Options[T]

	mu         sync.Mutex
	state      State
	items      []T
	pagination model.Pagination
	stats      Stats
	err        *model.Error
	req        model.QueryRequest
	inFlight   bool
	generation uint64
	debounce   *time.Timer
}

// New creates an idle controller with page 1 defaults.
func New[T any](fetch Fetcher[T], opts Options[T]) *Controller[T] {
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	if opts.Retry.MaxAttempts < 1 {
		opts.Retry.MaxAttempts = 4
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Notifier == nil {
		opts.Notifier = LogNotifier{Logger: opts.Logger}
	}
	return &Controller[T]{
		fetch: fetch,
		opts:  opts,
		state: StateIdle,
		req:   model.QueryRequest{Page: 1, PageSize: model.DefaultPageSize}.Normalize(),
	}
}

// Start issues the initial fetch for page 1 with the current filter snapshot.
func (c *Controller[T]) Start(ctx context.Context) {
	c.mu.Lock()
	req := c.req.WithPage(1)
	c.mu.Unlock()
	c.fetchNow(ctx, req)
}

// SetFilters records new filters and restarts the debounce timer; only the
// fetch associated with the last reset inside the window executes. The page
// resets to 1 because a narrowed result set invalidates the old position.
func (c *Controller[T]) SetFilters(ctx context.Context, q model.QueryRequest) {
	req := q.WithPage(1)

	c.mu.Lock()
	c.req = req
	if c.debounce != nil {
		c.debounce.Stop()
	}
	c.debounce = time.AfterFunc(c.opts.Debounce, func() {
		c.fetchNow(ctx, req)
	})
	c.mu.Unlock()
}

// SetPage fetches the requested page immediately, bypassing debounce but not
// in-flight suppression.
func (c *Controller[T]) SetPage(ctx context.Context, page int) {
	c.mu.Lock()
	req := c.req.WithPage(page)
	c.req = req
	c.mu.Unlock()
	c.fetchNow(ctx, req)
}

// Refresh re-issues the current request immediately.
func (c *Controller[T]) Refresh(ctx context.Context) {
	c.mu.Lock()
	req := c.req
	c.mu.Unlock()
	c.fetchNow(ctx, req)
}

// Snapshot returns the current consumer-readable state.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller[T]) snapshotLocked() Snapshot[T] {
	items := make([]T, len(c.items))
	copy(items, c.items)
	return Snapshot[T]{
		State:      c.state,
		Items:      items,
		Pagination: c.pagination,
		Stats:      c.stats,
		Err:        c.err,
		Request:    c.req,
	}
}

// fetchNow starts a fetch unless one is already in flight, in which case the
// trigger is dropped silently.
func (c *Controller[T]) fetchNow(ctx context.Context, req model.QueryRequest) {
	req = req.Normalize()

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		if c.opts.Metrics != nil {
			c.opts.Metrics.RecordSuppressed(c.opts.Resource)
		}
		c.opts.Logger.Debug("fetch trigger dropped, request in flight",
			zap.String("resource", c.opts.Resource))
		return
	}
	c.inFlight = true
	c.generation++
	gen := c.generation
	c.state = StateLoading
	c.err = nil
	c.req = req
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snap)
	go c.run(ctx, gen, req)
}

func (c *Controller[T]) run(ctx context.Context, gen uint64, req model.QueryRequest) {
	ctx, span := observability.Tracer().Start(ctx, "list "+c.opts.Resource)
	span.SetAttributes(
		observability.AttrResource.String(c.opts.Resource),
		observability.AttrPage.Int(req.Page),
	)
	defer span.End()

	result, fetchErr := c.executeWithRetry(ctx, req)
	if fetchErr != nil {
		span.SetStatus(codes.Error, fetchErr.Message)
	}

	c.mu.Lock()
	c.inFlight = false
	if gen != c.generation {
		// A newer trigger superseded this fetch; its result must not
		// overwrite state.
		c.mu.Unlock()
		return
	}

	if fetchErr != nil {
		c.state = StateError
		c.err = fetchErr
		snap := c.snapshotLocked()
		c.mu.Unlock()

		if c.opts.Metrics != nil {
			c.opts.Metrics.RecordFetch(c.opts.Resource, "error")
		}
		c.opts.Logger.Error("list fetch failed",
			zap.String("resource", c.opts.Resource),
			zap.String("kind", string(fetchErr.Kind)),
			zap.String("message", fetchErr.Message))
		c.opts.Notifier.Notify(fetchErr.Message)
		c.emit(snap)
		return
	}

	// Wholesale replacement: items and pagination come entirely from this
	// response, and the exposed page is the server's, so an out-of-range
	// request self-corrects.
	c.state = StateSuccess
	c.items = result.Items
	c.pagination = result.Pagination.Clamp()
	c.stats = computeStats(result.Items, c.pagination, c.opts.Classify)
	c.err = nil
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if c.opts.Metrics != nil {
		c.opts.Metrics.RecordFetch(c.opts.Resource, "success")
	}
	c.emit(snap)
}

// executeWithRetry runs the fetch with the throttle-only retry loop. Every
// returned error is normalized.
func (c *Controller[T]) executeWithRetry(ctx context.Context, req model.QueryRequest) (model.QueryResult[T], *model.Error) {
	policy := c.opts.Retry

	for attempt := 1; ; attempt++ {
		trace.SpanFromContext(ctx).SetAttributes(observability.AttrAttempt.Int(attempt))
		result, err := c.fetch(ctx, req)
		if err == nil {
			return result, nil
		}

		fetchErr := model.AsError(err)
		if !fetchErr.Retryable() {
			return model.QueryResult[T]{}, fetchErr
		}
		if c.opts.Metrics != nil {
			c.opts.Metrics.RecordThrottled(c.opts.Resource)
		}
		if attempt >= policy.MaxAttempts {
			return model.QueryResult[T]{}, fetchErr
		}

		c.mu.Lock()
		c.state = StateRetrying
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.emit(snap)

		if c.opts.Metrics != nil {
			c.opts.Metrics.RecordRetry(c.opts.Resource)
		}
		delay := policy.backoff(attempt)
		c.opts.Logger.Warn("throttled, backing off",
			zap.String("resource", c.opts.Resource),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay))

		select {
		case <-ctx.Done():
			return model.QueryResult[T]{}, model.NewTimeoutError()
		case <-time.After(delay):
		}
	}
}

func (c *Controller[T]) emit(snap Snapshot[T]) {
	if c.opts.OnChange != nil {
		c.opts.OnChange(snap)
	}
}
