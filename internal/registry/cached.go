package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// sentinel stored in redis so unknown projects are negatively cached without
// hammering the backing registry
const notFoundMarker = "\x00not-found"

// CachedRegistry is a read-through cache in front of another Registry.
// Secret lookups are cached in Redis with a TTL so the hot ingestion path
// does not pay a database round trip per event.
type CachedRegistry struct {
	next   Registry
	client *redis.Client
	ttl    time.Duration
}

func NewCachedRegistry(next Registry, redisURL string, ttl time.Duration) (*CachedRegistry, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &CachedRegistry{
		next:   next,
		client: client,
		ttl:    ttl,
	}, nil
}

func (r *CachedRegistry) LookupSecret(ctx context.Context, projectID string) (string, error) {
	key := "project-secret:" + projectID

	cached, err := r.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if cached == notFoundMarker {
			return "", ErrProjectNotFound
		}
		return cached, nil
	case !errors.Is(err, redis.Nil):
		// Cache unavailable: fall through to the backing registry rather
		// than failing the request.
	}

	secret, err := r.next.LookupSecret(ctx, projectID)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			r.client.Set(ctx, key, notFoundMarker, r.ttl)
		}
		return "", err
	}

	r.client.Set(ctx, key, secret, r.ttl)
	return secret, nil
}

// Invalidate drops a cached secret, forcing the next lookup through.
func (r *CachedRegistry) Invalidate(ctx context.Context, projectID string) error {
	return r.client.Del(ctx, "project-secret:"+projectID).Err()
}

func (r *CachedRegistry) Close() error {
	return r.client.Close()
}
