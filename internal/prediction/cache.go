package prediction

import (
	"strings"
	"sync"
	"time"
)

// DefaultCacheTTL bounds how long a cached prediction is trusted before a
// fresh run is forced, even absent an explicit invalidation signal.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	candidates []Candidate
	insertedAt time.Time
	files      map[string]bool
}

// Cache is the concurrent, file-scoped prediction cache spec.md's
// concurrency model calls for: keyed by AggregatedSignals.CacheKey (active
// file and import count),
// invalidated wholesale on session reset or selectively on a file change
// that touches one of the files a cached entry's results came from.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

// NewCache returns an empty cache with the default TTL.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry), ttl: DefaultCacheTTL}
}

// Get returns the cached candidates for key, if present and not expired.
func (c *Cache) Get(key string, now time.Time) ([]Candidate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if now.Sub(e.insertedAt) > c.ttl {
		return nil, false
	}
	return e.candidates, true
}

// Insert stores candidates under key, tagged with the set of files they
// were derived from (the union of every candidate's "linked_file:" signal)
// so a later file change can invalidate precisely.
func (c *Cache) Insert(key string, candidates []Candidate, now time.Time) {
	files := make(map[string]bool)
	for _, cand := range candidates {
		for _, sig := range cand.Signals {
			if strings.HasPrefix(sig, "linked_file:") {
				files[strings.TrimPrefix(sig, "linked_file:")] = true
			}
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{candidates: candidates, insertedAt: now, files: files}
}

// InvalidateFile drops every cache entry whose candidates were derived
// from path.
func (c *Cache) InvalidateFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if e.files[path] {
			delete(c.entries, key)
		}
	}
}

// InvalidateAll clears the cache — used on a new session, since nothing
// about a prior session's working set still applies.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Len reports how many entries are currently cached, mainly for tests.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
