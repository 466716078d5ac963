// Package cache provides chunk translation caches for the gotdt pipeline.
//
// Keys are built by gotdt.ChunkCacheKey, so a cached value is always the
// translation of one chunk for one language pair and one provider.
package cache

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
)

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	// Get retrieves a cached translation. Returns empty string and false if not found or expired.
	Get(key string) (string, bool)

	// Set stores a translation in the cache.
	Set(key string, value string) error
}

// Entry is a single cached translation.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Enumerable is implemented by caches that can list their live entries.
type Enumerable interface {
	TranslationCache
	All() ([]Entry, error)
}

// Backend names accepted by Open.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Options selects and configures a cache backend.
type Options struct {
	Backend    string // none, memory, redis or sqlite
	TTL        int    // Seconds; 0 disables expiry
	RedisURL   string
	SQLitePath string
	Logger     *slog.Logger
}

// Open creates the configured cache. The none backend (or an empty name)
// returns a nil cache and no error. Callers should close the result when it
// implements io.Closer.
func Open(opts Options) (TranslationCache, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendNone:
		return nil, nil
	case BackendMemory:
		return NewInMemoryCache(opts.TTL), nil
	case BackendRedis:
		c, err := NewRedisCache(RedisConfig{URL: opts.RedisURL, TTL: opts.TTL, Logger: opts.Logger})
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendSQLite:
		c, err := NewSQLiteCache(SQLiteConfig{Path: opts.SQLitePath, TTL: opts.TTL, Logger: opts.Logger})
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

// Close closes c if it holds resources.
func Close(c TranslationCache) error {
	if closer, ok := c.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
}
