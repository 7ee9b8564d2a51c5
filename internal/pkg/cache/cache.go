package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Metrics tracks cache performance.
type Metrics struct {
	Hits      int64
	Misses    int64
	Sets      int64
	Evictions int64
}

// UnifiedCache is a generic in-memory cache with a sliding TTL: every
// GetOrCreate hit pushes the entry's expiry forward. Expired entries are removed by Purge,
// which the owner schedules.
type UnifiedCache[T any] struct {
	mu      sync.Mutex
	items   map[string]cacheEntry[T]
	ttl     time.Duration
	name    string
	now     func() time.Time
	onEvict func(key string, value T)
	logger  *zap.Logger

	hits, misses, sets, evictions atomic.Int64
}

type cacheEntry[T any] struct {
	value      T
	expiration time.Time
}

// Option configures a UnifiedCache.
type Option[T any] func(*UnifiedCache[T])

// WithClock replaces time.Now.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(c *UnifiedCache[T]) { c.now = now }
}

// WithEvictHook is called, outside the cache lock, for every entry removed by
// Purge, Drain or a stale GetOrCreate.
func WithEvictHook[T any](fn func(key string, value T)) Option[T] {
	return func(c *UnifiedCache[T]) { c.onEvict = fn }
}

func NewUnifiedCache[T any](ttl time.Duration, name string, logger *zap.Logger, opts ...Option[T]) *UnifiedCache[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &UnifiedCache[T]{
		items:  make(map[string]cacheEntry[T]),
		ttl:    ttl,
		name:   name,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getLocked returns the live entry for key and extends its expiry.
func (c *UnifiedCache[T]) getLocked(key string) (T, bool) {
	var zero T
	item, found := c.items[key]
	if !found {
		c.misses.Add(1)
		return zero, false
	}
	now := c.now()
	if now.After(item.expiration) {
		c.misses.Add(1)
		return zero, false
	}
	item.expiration = now.Add(c.ttl)
	c.items[key] = item
	c.hits.Add(1)
	return item.value, true
}

// GetOrCreate returns the live entry for key, or stores and returns the result
// of create. The boolean reports whether the value already existed.
func (c *UnifiedCache[T]) GetOrCreate(key string, create func() T) (T, bool) {
	c.mu.Lock()
	if v, ok := c.getLocked(key); ok {
		c.mu.Unlock()
		return v, true
	}
	old, hadStale := c.items[key]
	v := create()
	c.items[key] = cacheEntry[T]{value: v, expiration: c.now().Add(c.ttl)}
	c.mu.Unlock()
	c.sets.Add(1)

	if hadStale {
		c.evicted(key, old.value)
	}
	c.logger.Debug("Cache entry created",
		zap.String("cache", c.name),
		zap.String("key", key),
	)
	return v, false
}

// Purge removes every expired entry and returns how many were removed.
func (c *UnifiedCache[T]) Purge() int {
	c.mu.Lock()
	now := c.now()
	expired := make(map[string]T)
	for key, item := range c.items {
		if now.After(item.expiration) {
			expired[key] = item.value
			delete(c.items, key)
		}
	}
	remaining := len(c.items)
	c.mu.Unlock()

	for key, v := range expired {
		c.evicted(key, v)
	}
	if len(expired) > 0 {
		c.logger.Info("Cache cleanup",
			zap.String("cache", c.name),
			zap.Int("expired_items", len(expired)),
			zap.Int("remaining_items", remaining),
		)
	}
	return len(expired)
}

func (c *UnifiedCache[T]) evicted(key string, v T) {
	c.evictions.Add(1)
	if c.onEvict != nil {
		c.onEvict(key, v)
	}
}

// Drain removes every entry, expired or not, running the evict hook for each.
func (c *UnifiedCache[T]) Drain() int {
	c.mu.Lock()
	items := c.items
	c.items = make(map[string]cacheEntry[T])
	c.mu.Unlock()

	for key, item := range items {
		c.evicted(key, item.value)
	}
	return len(items)
}

// GetMetrics returns the counters accumulated since construction.
func (c *UnifiedCache[T]) GetMetrics() Metrics {
	return Metrics{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Sets:      c.sets.Load(),
		Evictions: c.evictions.Load(),
	}
}

func (c *UnifiedCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
