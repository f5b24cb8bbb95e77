package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// signedToken builds an HS256 token with the given expiry offset.
func signedToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestMemoryStore_roundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if got := s.Token(ctx); got != "" {
		t.Errorf("empty store returned %q", got)
	}

	token := signedToken(t, time.Hour)
	if err := s.Set(ctx, token); err != nil {
		t.Fatal(err)
	}
	if got := s.Token(ctx); got != token {
		t.Errorf("Token() = %q, want stored token", got)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if got := s.Token(ctx); got != "" {
		t.Errorf("cleared store returned %q", got)
	}
}

func TestMemoryStore_expiredTokenTreatedAsAbsent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Set(ctx, signedToken(t, -time.Minute)); err != nil {
		t.Fatal(err)
	}
	if got := s.Token(ctx); got != "" {
		t.Errorf("expired token returned %q, want empty", got)
	}
}

func TestMemoryStore_opaqueTokenServedUntilCleared(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Set(ctx, "opaque-api-key"); err != nil {
		t.Fatal(err)
	}
	if got := s.Token(ctx); got != "opaque-api-key" {
		t.Errorf("Token() = %q, want opaque token", got)
	}
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStore_roundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newRedisStore(t)

	token := signedToken(t, time.Hour)
	if err := s.Set(ctx, token); err != nil {
		t.Fatal(err)
	}
	if got := s.Token(ctx); got != token {
		t.Errorf("Token() = %q, want stored token", got)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if got := s.Token(ctx); got != "" {
		t.Errorf("cleared store returned %q", got)
	}
}

func TestRedisStore_ttlTracksJWTExpiry(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	if err := s.Set(ctx, signedToken(t, time.Hour)); err != nil {
		t.Fatal(err)
	}

	ttl := mr.TTL(redisKey)
	if ttl <= 0 || ttl > time.Hour {
		t.Errorf("redis TTL = %v, want within (0, 1h]", ttl)
	}

	mr.FastForward(2 * time.Hour)
	if got := s.Token(ctx); got != "" {
		t.Errorf("token survived past expiry: %q", got)
	}
}

func TestRedisStore_rejectsAlreadyExpiredToken(t *testing.T) {
	ctx := context.Background()
	s, _ := newRedisStore(t)

	if err := s.Set(ctx, signedToken(t, -time.Minute)); err != nil {
		t.Fatal(err)
	}
	if got := s.Token(ctx); got != "" {
		t.Errorf("expired token stored and returned: %q", got)
	}
}
