package power

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/couchcryptid/climate-risk-service/internal/observability"
)

// Provider is the hourly archive abstraction consumed by the collector.
// *Client and *CachedProvider both satisfy it.
type Provider interface {
	HourlyRange(ctx context.Context, lat, lon float64, start, end time.Time) ([]Observation, error)
}

// CachedProvider wraps a Provider with an in-memory LRU cache. Historical
// reanalysis data is immutable, so entries never expire; the cache is bounded
// by entry count only.
type CachedProvider struct {
	inner   Provider
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedProvider creates a cache decorator around an archive provider.
func NewCachedProvider(inner Provider, maxEntries int, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedProvider) HourlyRange(ctx context.Context, lat, lon float64, start, end time.Time) ([]Observation, error) {
	key := fmt.Sprintf("%.4f,%.4f|%s|%s", lat, lon, start.Format("20060102"), end.Format("20060102"))
	if observations, ok := c.cache.get(key); ok {
		c.metrics.PowerCache.WithLabelValues("hit").Inc()
		return observations, nil
	}
	c.metrics.PowerCache.WithLabelValues("miss").Inc()

	observations, err := c.inner.HourlyRange(ctx, lat, lon, start, end)
	if err != nil {
		return nil, err
	}
	// Empty ranges are cached too; the archive will not grow data for them.
	c.cache.put(key, observations)
	return observations, nil
}

// lruCache is a simple thread-safe LRU cache for observation ranges.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value []Observation
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) ([]Observation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value []Observation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
