package cache_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonesrussell/trendscout/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestTTLCache_SetThenGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewTTLCache[string]()

	c.Set(ctx, "k", "v", time.Second)

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestTTLCache_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	c := cache.NewTTLCache[string](cache.WithClock(clock.Now))

	c.Set(ctx, "k", "v", time.Second)

	clock.Advance(time.Second)
	_, ok := c.Get(ctx, "k")
	assert.True(t, ok, "entry is still valid exactly at its expiry instant")

	clock.Advance(100 * time.Millisecond)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(ctx), "expired entry is removed on read")
}

func TestTTLCache_SetOverwrites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	c := cache.NewTTLCache[int](cache.WithClock(clock.Now))

	c.Set(ctx, "k", 1, time.Second)
	c.Set(ctx, "k", 2, time.Hour)
	clock.Advance(2 * time.Second)

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, 2, got)
	assert.Equal(t, 1, c.Len(ctx))
}

func TestTTLCache_EvictsSoonestExpiryFirst(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewTTLCache[string](cache.WithMaxSize(3), cache.WithClock(newFakeClock().Now))

	c.Set(ctx, "long", "a", 4*time.Hour)
	c.Set(ctx, "short", "b", time.Minute)
	c.Set(ctx, "medium", "c", time.Hour)
	c.Set(ctx, "longest", "d", 8*time.Hour)

	assert.Equal(t, 3, c.Len(ctx))
	_, ok := c.Get(ctx, "short")
	assert.False(t, ok, "entry closest to expiry is evicted")

	for _, k := range []string{"long", "medium", "longest"} {
		_, ok := c.Get(ctx, k)
		assert.True(t, ok, k)
	}
}

func TestTTLCache_EvictionIsNotByRecency(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewTTLCache[int](cache.WithMaxSize(2), cache.WithClock(newFakeClock().Now))

	c.Set(ctx, "old-but-long", 1, time.Hour)
	c.Set(ctx, "new-but-short", 2, time.Second)
	_, _ = c.Get(ctx, "new-but-short")
	c.Set(ctx, "newest", 3, time.Minute)

	_, ok := c.Get(ctx, "new-but-short")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "old-but-long")
	assert.True(t, ok)
}

func TestTTLCache_BulkOverflowLeavesExactlyMaxSize(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewTTLCache[int](cache.WithMaxSize(5), cache.WithClock(newFakeClock().Now))

	for i := range 20 {
		c.Set(ctx, fmt.Sprintf("k%02d", i), i, time.Duration(i+1)*time.Minute)
	}

	assert.Equal(t, 5, c.Len(ctx))
	for i := 15; i < 20; i++ {
		got, ok := c.Get(ctx, fmt.Sprintf("k%02d", i))
		require.True(t, ok)
		assert.Equal(t, i, got)
	}
}

func TestTTLCache_UnboundedWhenMaxSizeIsZero(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewTTLCache[int](cache.WithMaxSize(0))

	for i := range 250 {
		c.Set(ctx, fmt.Sprint(i), i, time.Hour)
	}
	assert.Equal(t, 250, c.Len(ctx))
}

func TestTTLCache_Disabled(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewTTLCache[string](cache.WithEnabled(false))

	c.Set(ctx, "k", "v", time.Hour)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(ctx))
}

func TestTTLCache_Clear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewTTLCache[string]()

	c.Set(ctx, "a", "1", time.Hour)
	c.Set(ctx, "b", "2", time.Hour)
	require.NoError(t, c.Clear(ctx))

	assert.Equal(t, 0, c.Len(ctx))
	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)
}

func TestTTLCache_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewTTLCache[int](cache.WithMaxSize(10))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprint(n % 15)
			c.Set(ctx, key, n, time.Minute)
			_, _ = c.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(ctx), 10)
}
