// Package session holds the bearer token the transport client attaches to
// backend requests. The token lifecycle (login, refresh) is owned elsewhere;
// this package only stores and serves it.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// Store is a process-wide holder for the current session token.
type Store interface {
	// Token returns the current bearer token, or "" when no usable token is
	// held. An expired token is treated as absent.
	Token(ctx context.Context) string
	// Set replaces the current token.
	Set(ctx context.Context, token string) error
	// Clear removes the current token.
	Clear(ctx context.Context) error
}

// expiryOf reads the exp claim from a JWT without verifying the signature.
// Verification belongs to the backend; the client only needs to know when to
// stop sending a token. Returns the zero time for opaque tokens, which are
// then served until explicitly cleared.
func expiryOf(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// --- MemoryStore ---

// MemoryStore is an in-memory Store. Suitable for single-process use and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Token returns the held token unless it has expired.
func (s *MemoryStore) Token(_ context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return ""
	}
	if !s.expiresAt.IsZero() && time.Now().After(s.expiresAt) {
		return ""
	}
	return s.token
}

// Set replaces the held token and records its expiry when it is a JWT.
func (s *MemoryStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.expiresAt = expiryOf(token)
	return nil
}

// Clear removes the held token.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.expiresAt = time.Time{}
	return nil
}

// --- RedisStore ---

const redisKey = "trustidity:session:token"

// RedisStore shares the session token between processes through Redis.
// The entry TTL tracks the JWT expiry so a stale token ages out on its own.
type RedisStore struct {
	client redis.Cmdable
}

// NewRedisStore creates a Redis-backed token store.
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

// Token returns the stored token, or "" on miss or any Redis failure. A
// transport call without a token fails with UNAUTHORIZED at the backend, which
// is a clearer signal than surfacing a store error here.
func (s *RedisStore) Token(ctx context.Context) string {
	token, err := s.client.Get(ctx, redisKey).Result()
	if err != nil {
		return ""
	}
	return token
}

// Set stores the token with a TTL matching its JWT expiry, if it has one.
func (s *RedisStore) Set(ctx context.Context, token string) error {
	var ttl time.Duration
	if exp := expiryOf(token); !exp.IsZero() {
		ttl = time.Until(exp)
		if ttl <= 0 {
			// Already expired; storing it would serve a dead token.
			return s.Clear(ctx)
		}
	}
	return s.client.Set(ctx, redisKey, token, ttl).Err()
}

// Clear removes the stored token.
func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, redisKey).Err()
}
