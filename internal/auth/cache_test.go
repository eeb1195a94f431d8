package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockRedis struct {
	values  map[string]string
	getErr  error
	setKey  string
	setVal  string
	setTTL  time.Duration
	setHits int
}

func newMockRedis() *mockRedis {
	return &mockRedis{values: make(map[string]string)}
}

func (m *mockRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if m.getErr != nil {
		cmd.SetErr(m.getErr)
		return cmd
	}
	val, ok := m.values[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(val)
	return cmd
}

func (m *mockRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.setHits++
	m.setKey = key
	m.setVal, _ = value.(string)
	m.setTTL = expiration
	if m.values != nil {
		m.values[key] = m.setVal
	}
	return redis.NewStatusCmd(ctx)
}

type staticVerifier struct {
	identity Identity
	err      error
	calls    int
}

func (s *staticVerifier) Verify(_ context.Context, _ string) (Identity, error) {
	s.calls++
	return s.identity, s.err
}

func TestCachedVerifierMissThenHit(t *testing.T) {
	inner := &staticVerifier{identity: Identity{Subject: "u1", ExpiresAt: time.Now().Add(time.Hour)}}
	client := newMockRedis()
	v := &CachedVerifier{inner: inner, client: client, ttl: 5 * time.Minute, prefix: "auth:tok:"}

	identity, err := v.Verify(context.Background(), "tok-1")
	if err != nil || identity.Subject != "u1" {
		t.Fatalf("expected u1, got %+v err=%v", identity, err)
	}
	if inner.calls != 1 || client.setHits != 1 {
		t.Fatalf("expected one inner call and one cache write, got calls=%d sets=%d", inner.calls, client.setHits)
	}
	if client.setVal != "u1" || client.setTTL != 5*time.Minute {
		t.Fatalf("unexpected cache write: val=%q ttl=%v", client.setVal, client.setTTL)
	}

	// Segunda verificacion: sale del cache sin tocar el verifier interno.
	identity, err = v.Verify(context.Background(), "tok-1")
	if err != nil || identity.Subject != "u1" {
		t.Fatalf("expected cached u1, got %+v err=%v", identity, err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected cache hit, inner called %d times", inner.calls)
	}
}

func TestCachedVerifierTTLCappedByTokenExpiry(t *testing.T) {
	inner := &staticVerifier{identity: Identity{Subject: "u1", ExpiresAt: time.Now().Add(30 * time.Second)}}
	client := newMockRedis()
	v := &CachedVerifier{inner: inner, client: client, ttl: 5 * time.Minute, prefix: "auth:tok:"}

	if _, err := v.Verify(context.Background(), "tok-2"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if client.setTTL > 30*time.Second {
		t.Fatalf("cache ttl must not outlive the token, got %v", client.setTTL)
	}
}

func TestCachedVerifierRedisFailureFallsThrough(t *testing.T) {
	inner := &staticVerifier{identity: Identity{Subject: "u1"}}
	client := newMockRedis()
	client.getErr = errors.New("redis down")
	v := &CachedVerifier{inner: inner, client: client, ttl: time.Minute, prefix: "auth:tok:"}

	identity, err := v.Verify(context.Background(), "tok-3")
	if err != nil || identity.Subject != "u1" {
		t.Fatalf("expected fallthrough to inner verifier, got %+v err=%v", identity, err)
	}
}

func TestCachedVerifierInvalidTokenNotCached(t *testing.T) {
	inner := &staticVerifier{err: ErrTokenInvalid}
	client := newMockRedis()
	v := &CachedVerifier{inner: inner, client: client, ttl: time.Minute, prefix: "auth:tok:"}

	if _, err := v.Verify(context.Background(), "bad"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if client.setHits != 0 {
		t.Fatalf("invalid tokens must not be cached")
	}
}
