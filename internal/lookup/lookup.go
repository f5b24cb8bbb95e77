// Package lookup caches the small option lists that populate filter facets
// (institution types, document types, plan names) so dropdowns do not refetch
// on every open.
package lookup

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/trustidity/trustidity-go/internal/observability"
)

// Option is one selectable facet value.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FetchFunc loads the full option list for a lookup from the backend.
type FetchFunc func(ctx context.Context) ([]Option, error)

type cacheEntry struct {
	options   []Option
	expiresAt time.Time
}

// Provider resolves registered lookups to option lists with TTL caching.
// It is safe for concurrent use.
type Provider struct {
	ttl        time.Duration
	maxEntries int
	metrics    *observability.Metrics

	mu      sync.RWMutex
	sources map[string]FetchFunc
	cache   map[string]cacheEntry
}

// NewProvider creates an empty provider.
func NewProvider(ttl time.Duration, maxEntries int, metrics *observability.Metrics) *Provider {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &Provider{
		ttl:        ttl,
		maxEntries: maxEntries,
		metrics:    metrics,
		sources:    make(map[string]FetchFunc),
		cache:      make(map[string]cacheEntry),
	}
}

// Register adds a lookup source under an ID. Panics on duplicates, since that
// is a wiring mistake at startup.
func (p *Provider) Register(id string, fetch FetchFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.sources[id]; exists {
		panic(fmt.Sprintf("lookup: source %q already registered", id))
	}
	p.sources[id] = fetch
}

// Options resolves a lookup, narrowing the cached list by a case-insensitive
// label match on query.
func (p *Provider) Options(ctx context.Context, id, query string) ([]Option, error) {
	p.mu.RLock()
	fetch, registered := p.sources[id]
	entry, cached := p.cache[id]
	p.mu.RUnlock()

	if !registered {
		return nil, fmt.Errorf("lookup: source %q not registered", id)
	}

	ctx, span := observability.Tracer().Start(ctx, "lookup "+id)
	defer span.End()

	if cached && time.Now().Before(entry.expiresAt) {
		span.SetAttributes(observability.AttrCacheHit.Bool(true))
		if p.metrics != nil {
			p.metrics.RecordLookupCacheHit(id)
		}
		return narrow(entry.options, query), nil
	}

	span.SetAttributes(observability.AttrCacheHit.Bool(false))
	if p.metrics != nil {
		p.metrics.RecordLookupCacheMiss(id)
	}
	options, err := fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", id, err)
	}

	p.mu.Lock()
	if len(p.cache) >= p.maxEntries {
		p.evictExpired()
	}
	p.cache[id] = cacheEntry{options: options, expiresAt: time.Now().Add(p.ttl)}
	p.mu.Unlock()

	return narrow(options, query), nil
}

// Invalidate removes a cached lookup so the next read refetches.
func (p *Provider) Invalidate(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.cache, id)
}

// CacheLen returns the number of cached entries. For testing.
func (p *Provider) CacheLen() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.cache)
}

// evictExpired removes expired entries. Must be called with mu held.
func (p *Provider) evictExpired() {
	now := time.Now()
	for k, v := range p.cache {
		if now.After(v.expiresAt) {
			delete(p.cache, k)
		}
	}
}

// narrow filters options by query (case-insensitive match on label).
func narrow(options []Option, query string) []Option {
	if query == "" {
		return options
	}
	q := strings.ToLower(query)
	var filtered []Option
	for _, opt := range options {
		if strings.Contains(strings.ToLower(opt.Label), q) {
			filtered = append(filtered, opt)
		}
	}
	return filtered
}
