package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_MissThenHit(t *testing.T) {
	r := NewResolver(NewMemoryCache())
	ctx := context.Background()
	key := NewKey("dokan_store").WithInt("id", 1)

	var calls int32
	produce := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "warung-bu-tini", nil
	}

	got, err := Resolve(ctx, r, key, time.Minute, produce)
	require.NoError(t, err)
	assert.Equal(t, "warung-bu-tini", got)

	got, err = Resolve(ctx, r, key, time.Minute, produce)
	require.NoError(t, err)
	assert.Equal(t, "warung-bu-tini", got)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second call must be served from cache")
}

func TestResolve_RecomputesAfterTTL(t *testing.T) {
	r := NewResolver(NewMemoryCache())
	ctx := context.Background()
	key := NewKey("wp_posts").WithInt("page", 1)

	var calls int32
	produce := func(ctx context.Context) (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	}

	first, err := Resolve(ctx, r, key, 5*time.Millisecond, produce)
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	time.Sleep(15 * time.Millisecond)

	second, err := Resolve(ctx, r, key, 5*time.Millisecond, produce)
	require.NoError(t, err)
	assert.Equal(t, 2, second, "expired entry must trigger a recompute")
}

func TestResolve_SingleFlight(t *testing.T) {
	r := NewResolver(NewMemoryCache())
	ctx := context.Background()
	key := NewKey("homepage_featured")

	var calls int32
	release := make(chan struct{})
	produce := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "showcase", nil
	}

	const waiters = 8
	results := make([]string, waiters)
	errs := make([]error, waiters)

	var started, finished sync.WaitGroup
	started.Add(waiters)
	finished.Add(waiters)
	for i := 0; i < waiters; i++ {
		go func(i int) {
			started.Done()
			results[i], errs[i] = Resolve(ctx, r, key, time.Minute, produce)
			finished.Done()
		}(i)
	}

	started.Wait()
	time.Sleep(20 * time.Millisecond)
	close(release)
	finished.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "concurrent misses must share one producer run")
	for i := 0; i < waiters; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "showcase", results[i])
	}
}

func TestResolve_FailureNotCached(t *testing.T) {
	r := NewResolver(NewMemoryCache())
	ctx := context.Background()
	key := NewKey("dokan_stores")

	boom := errors.New("upstream down")
	var calls int32
	fail := true
	produce := func(ctx context.Context) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		if fail {
			return nil, boom
		}
		return []string{"toko-batik"}, nil
	}

	_, err := Resolve(ctx, r, key, time.Minute, produce)
	assert.ErrorIs(t, err, boom)

	fail = false
	got, err := Resolve(ctx, r, key, time.Minute, produce)
	require.NoError(t, err)
	assert.Equal(t, []string{"toko-batik"}, got)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "a failed producer run must not poison the cache")
}

func TestResolve_NilResultIsCached(t *testing.T) {
	r := NewResolver(NewMemoryCache())
	ctx := context.Background()
	key := NewKey("dokan_store_by_slug").With("slug", "missing")

	var calls int32
	produce := func(ctx context.Context) (*struct{ Name string }, error) {
		atomic.AddInt32(&calls, 1)
		return nil, nil
	}

	got, err := Resolve(ctx, r, key, time.Minute, produce)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = Resolve(ctx, r, key, time.Minute, produce)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "absence must be cached like any other value")
}

func TestResolve_CorruptEntryDropped(t *testing.T) {
	store := NewMemoryCache()
	r := NewResolver(store)
	ctx := context.Background()
	key := NewKey("wp_post").With("slug", "hello")

	require.NoError(t, store.Set(ctx, key.String(), []byte("{not json"), time.Minute))

	got, err := Resolve(ctx, r, key, time.Minute, func(ctx context.Context) (string, error) {
		return "recomputed", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recomputed", got)
}
