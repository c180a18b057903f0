// Package cache provides the in-memory TTL response cache shared by the
// upstream client. It is the only state the service keeps between requests.
package cache

import (
	"sync"
	"time"

	"go.uber.org/fx"

	"protracker/internal/config"
	"protracker/internal/constants"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	enabled bool
}

// New creates a cache. Pass enabled=false for a no-op cache; a benign race
// on population only costs a duplicate upstream fetch.
func New(enabled bool) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		enabled: enabled,
	}
	if enabled {
		go c.evictLoop()
	}
	return c
}

func NewFromConfig(cfg *config.Config) *Cache {
	return New(cfg.CacheEnabled)
}

func (c *Cache) Get(key string) ([]byte, bool) {
	if !c.enabled || key == "" {
		return nil, false
	}
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.data, true
}

func (c *Cache) Set(key string, data []byte, ttl time.Duration) {
	if !c.enabled || key == "" || ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = entry{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) evictLoop() {
	ticker := time.NewTicker(constants.CacheEvictEvery)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		c.mu.Lock()
		for key, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, key)
			}
		}
		c.mu.Unlock()
	}
}

var Module = fx.Provide(NewFromConfig)
