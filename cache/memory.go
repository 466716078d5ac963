package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	translation string
	storedAt    time.Time
}

// InMemoryCache keeps chunk translations in a map for the life of the
// process. It is safe for concurrent use.
type InMemoryCache struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	ttl   time.Duration
	now   func() time.Time
}

// NewInMemoryCache creates an in-memory cache. A ttlSeconds of zero or less
// keeps entries forever.
func NewInMemoryCache(ttlSeconds int) *InMemoryCache {
	c := &InMemoryCache{
		items: make(map[string]memoryItem),
		now:   time.Now,
	}
	if ttlSeconds > 0 {
		c.ttl = time.Duration(ttlSeconds) * time.Second
	}
	return c
}

func (c *InMemoryCache) stale(item memoryItem, now time.Time) bool {
	return c.ttl > 0 && now.Sub(item.storedAt) > c.ttl
}

// Get returns the translation stored under key. Stale entries are dropped
// on read.
func (c *InMemoryCache) Get(key string) (string, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}
	if !c.stale(item, now) {
		return item.translation, true
	}

	c.mu.Lock()
	// A concurrent Set may have refreshed the key in the meantime.
	if current, ok := c.items[key]; ok && c.stale(current, now) {
		delete(c.items, key)
	}
	c.mu.Unlock()
	return "", false
}

// Set stores translation under key. It never fails.
func (c *InMemoryCache) Set(key, translation string) error {
	c.mu.Lock()
	c.items[key] = memoryItem{translation: translation, storedAt: c.now()}
	c.mu.Unlock()
	return nil
}

// Len counts stored entries, stale ones included.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Clear drops every entry.
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]memoryItem)
	c.mu.Unlock()
}

// Purge drops stale entries and returns how many were removed.
func (c *InMemoryCache) Purge(ctx context.Context) (int64, error) {
	if c.ttl <= 0 {
		return 0, nil
	}

	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	var removed int64
	for key, item := range c.items {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if c.stale(item, now) {
			delete(c.items, key)
			removed++
		}
	}
	return removed, nil
}

// All returns the live entries sorted by key.
func (c *InMemoryCache) All() ([]Entry, error) {
	now := c.now()

	c.mu.RLock()
	entries := make([]Entry, 0, len(c.items))
	for key, item := range c.items {
		if !c.stale(item, now) {
			entries = append(entries, Entry{Key: key, Value: item.translation})
		}
	}
	c.mu.RUnlock()

	sortEntries(entries)
	return entries, nil
}

// Verify InMemoryCache implements Enumerable
var _ Enumerable = (*InMemoryCache)(nil)
