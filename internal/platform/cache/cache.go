// Package cache is the in-process query cache of the API. Entries live under
// named keys ("calendar:2025", "transactions:<id>:1:20") and are invalidated by
// key family ("calendar", "transactions:<id>").
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/platform/metrics"
)

// Invalidator drops cached entries after a write
type Invalidator interface {
	Invalidate(keys ...string)
}

type entry struct {
	value     any
	expiresAt time.Time
}

type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	// generation advances on every Invalidate
	generation uint64
	now        func() time.Time
}

func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !c.now().Before(e.expiresAt) {
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return e.value, true
}

func (c *Cache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}

func (c *Cache) currentGeneration() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// setIfGeneration stores value only when no invalidation happened since
// generation was read.
func (c *Cache) setIfGeneration(key string, value any, ttl time.Duration, generation uint64) bool {
	if ttl <= 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		return false
	}
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
	return true
}

// Invalidate removes every key equal to one of keys or nested below it
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	for stored := range c.entries {
		for _, key := range keys {
			if stored == key || strings.HasPrefix(stored, key+":") {
				delete(c.entries, stored)
				break
			}
		}
	}
}

// Purge drops expired entries
func (c *Cache) Purge() {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// RunJanitor purges expired entries every interval until ctx is done
func (c *Cache) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Purge()
		}
	}
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetOrLoad returns the cached value for key or stores the result of load.
// Load errors are returned and never cached. A value loaded while an
// invalidation ran is returned but not stored.
func GetOrLoad[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	generation := c.currentGeneration()
	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.setIfGeneration(key, value, ttl, generation)
	return value, nil
}
