package cache

import (
	"context"
	"sync"
	"time"

	"github.com/prodlens/backend/internal/domain"
)

// cacheItem represents a single scraped record in the cache with expiration
type cacheItem struct {
	record     domain.ProductRecord
	expiration time.Time
}

// MemoryCache is a thread-safe in-memory cache of scraped product records
// keyed by URL, with TTL support
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

// NewMemoryCache creates a new in-memory cache that sweeps expired entries
// every cleanupInterval until Close is called. A non-positive interval
// disables the sweeper.
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	cache := &MemoryCache{
		data: make(map[string]cacheItem),
		now:  time.Now,
		stop: make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go cache.cleanupExpired(cleanupInterval)
	}

	return cache
}

// Get returns a copy of the cached record for url
func (c *MemoryCache) Get(ctx context.Context, url string) (*domain.ProductRecord, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[url]
	if !exists || c.now().After(item.expiration) {
		return nil, domain.ErrCacheMiss
	}

	rec := cloneRecord(item.record)
	return &rec, nil
}

// Set stores a copy of record under url with TTL
func (c *MemoryCache) Set(ctx context.Context, url string, record *domain.ProductRecord, ttl time.Duration) error {
	if record == nil {
		return nil
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[url] = cacheItem{
		record:     cloneRecord(*record),
		expiration: c.now().Add(ttl),
	}
	return nil
}

// Close stops the cleanup goroutine
func (c *MemoryCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

// cleanupExpired removes expired entries from the cache periodically
func (c *MemoryCache) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *MemoryCache) removeExpired() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	for key, item := range c.data {
		if now.After(item.expiration) {
			delete(c.data, key)
		}
	}
}

// Size returns the current number of entries, expired ones included. It
// backs the scrape cache entries gauge.
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// cloneRecord deep-copies the slices and maps of a record so callers cannot
// mutate cached state.
func cloneRecord(r domain.ProductRecord) domain.ProductRecord {
	out := r
	if r.Features != nil {
		out.Features = append([]string(nil), r.Features...)
	}
	if r.Specs != nil {
		out.Specs = make(map[string]string, len(r.Specs))
		for k, v := range r.Specs {
			out.Specs[k] = v
		}
	}
	if r.SourceURL != nil {
		u := *r.SourceURL
		out.SourceURL = &u
	}
	return out
}
