package cache

import (
	"context"
	"sync"
	"time"

	"github.com/drinkradar/backend/internal/domain"
)

// cacheItem represents a single cached search result with expiration
type cacheItem struct {
	result     *domain.SearchResult
	expiration time.Time
}

// ResultCache is a thread-safe in-memory cache for completed search
// results. Entries live for a short TTL: a repeated query within it skips
// the full scrape fan-out, after it live prices are fetched again.
type ResultCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
}

// NewResultCache creates a new in-memory result cache
func NewResultCache() *ResultCache {
	cache := &ResultCache{
		data: make(map[string]cacheItem),
	}

	// Cleanup goroutine removes expired entries so abandoned search terms
	// don't accumulate
	go cache.cleanupExpired()

	return cache
}

// Get retrieves a cached search result
func (c *ResultCache) Get(ctx context.Context, key string) (*domain.SearchResult, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists {
		return nil, domain.ErrCacheMiss
	}

	if time.Now().After(item.expiration) {
		return nil, domain.ErrCacheMiss
	}

	return item.result, nil
}

// Set stores a search result with TTL
func (c *ResultCache) Set(ctx context.Context, key string, result *domain.SearchResult, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheItem{
		result:     result,
		expiration: time.Now().Add(ttl),
	}

	return nil
}

// Size returns the current number of cached results
func (c *ResultCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all cached results
func (c *ResultCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem)
}

// cleanupExpired removes expired entries from the cache periodically
func (c *ResultCache) cleanupExpired() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, item := range c.data {
			if now.After(item.expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}
