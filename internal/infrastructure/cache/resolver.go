package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/umkmkediri/storefront/internal/domain"
)

// Resolver is the read-through cache executor. On a miss it runs the
// producer at most once per key across concurrent callers (single-flight)
// and stores the JSON-encoded result with the operation's TTL. Producer
// failures are never cached; every waiter receives the failure.
type Resolver struct {
	store domain.CacheRepository
	group singleflight.Group
}

// NewResolver creates a resolver backed by the given store.
func NewResolver(store domain.CacheRepository) *Resolver {
	return &Resolver{store: store}
}

// Store exposes the underlying cache repository.
func (r *Resolver) Store() domain.CacheRepository {
	return r.store
}

// Resolve returns the cached value for key, or computes it via produce.
// Values round-trip through JSON, so callers always get a private copy and
// both cache backends behave identically.
func Resolve[T any](ctx context.Context, r *Resolver, key Key, ttl time.Duration, produce func(context.Context) (T, error)) (T, error) {
	var zero T
	ks := key.String()

	if v, ok := lookup[T](ctx, r, ks); ok {
		return v, nil
	}

	res, err, _ := r.group.Do(ks, func() (any, error) {
		// A waiter queued behind the winning flight re-checks the store so
		// back-to-back misses on the same key do not recompute.
		if v, ok := lookup[T](ctx, r, ks); ok {
			return v, nil
		}

		ProducerCalls.WithLabelValues(key.Op).Inc()
		val, err := produce(ctx)
		if err != nil {
			return nil, err
		}

		data, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("cache encode for %s: %w", ks, err)
		}
		if err := r.store.Set(ctx, ks, data, ttl); err != nil {
			// A failed write only costs a future recompute
			log.Printf("[CACHE] Failed to store %s: %v", ks, err)
		}

		return val, nil
	})
	if err != nil {
		return zero, err
	}

	typed, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("cache: unexpected value type for %s", ks)
	}
	return typed, nil
}

// lookup decodes a stored entry; a corrupt entry is dropped and treated as
// a miss.
func lookup[T any](ctx context.Context, r *Resolver, key string) (T, bool) {
	var v T
	data, err := r.store.Get(ctx, key)
	if err != nil {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		log.Printf("[CACHE] Dropping corrupt entry %s: %v", key, err)
		_ = r.store.Delete(ctx, key)
		var zero T
		return zero, false
	}
	return v, true
}
