package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisGetSetter abstrae los comandos de Redis usados por el cache,
// para poder mockearlo en tests.
type redisGetSetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedVerifier decora un Verifier con un cache de verificaciones en Redis.
// El cache es best-effort: cualquier falla de Redis cae al verifier interno.
type CachedVerifier struct {
	inner  Verifier
	client redisGetSetter
	ttl    time.Duration
	prefix string
}

func NewCachedVerifier(inner Verifier, client *redis.Client, ttl time.Duration) *CachedVerifier {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedVerifier{
		inner:  inner,
		client: client,
		ttl:    ttl,
		prefix: "auth:tok:",
	}
}

func (v *CachedVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	if v == nil || v.inner == nil {
		return Identity{}, ErrTokenInvalid
	}
	if v.client == nil {
		return v.inner.Verify(ctx, token)
	}

	key := v.prefix + hashToken(token)

	if subject, err := v.client.Get(ctx, key).Result(); err == nil && subject != "" {
		return Identity{Subject: subject}, nil
	}

	identity, err := v.inner.Verify(ctx, token)
	if err != nil {
		return Identity{}, err
	}

	ttl := v.ttl
	if !identity.ExpiresAt.IsZero() {
		if remaining := time.Until(identity.ExpiresAt); remaining < ttl {
			ttl = remaining
		}
	}
	if ttl > 0 {
		// Ignoramos el error: si Redis no guarda, la proxima verificacion
		// vuelve a validar el token.
		v.client.Set(ctx, key, identity.Subject, ttl)
	}

	return identity, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
