package retrieval

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultCacheTTL bounds entry age: entries are never returned once
	// now - created_at >= TTL.
	DefaultCacheTTL = 30 * time.Minute

	// sweepThreshold is the entry count above which Put runs a full
	// eviction sweep. The sweep removes expired entries only, so it may
	// not shrink the cache at all when everything is still fresh.
	sweepThreshold = 100
)

// Fingerprint derives the cache key for a (query, mode) pair. Queries that
// differ only in case or surrounding whitespace map to the same key.
// Conversation history is deliberately excluded: retrieval is a pure function
// of the current query and mode.
func Fingerprint(query string, mode Mode) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	sum := sha256.Sum256([]byte(normalized + ":" + string(mode)))
	return hex.EncodeToString(sum[:])
}

type cacheEntry struct {
	results   []Document
	createdAt time.Time
}

// QueryCache maps query fingerprints to previously computed retrieval
// results. Entries leave only through TTL expiry: lazily on Get, or in bulk
// when an insert pushes the entry count past the sweep threshold. There is no
// LRU and no explicit invalidation.
//
// The cache is safe for concurrent use. It is process-local state: nothing is
// persisted beyond the process lifetime.
type QueryCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	ttl     time.Duration

	// now is swappable so expiry is testable without sleeping.
	now func() time.Time
}

// NewQueryCache creates a cache with the given TTL. A non-positive TTL falls
// back to DefaultCacheTTL.
func NewQueryCache(ttl time.Duration) *QueryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &QueryCache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached results for a fingerprint. An expired entry is
// deleted as a side effect and reported as absent.
func (c *QueryCache) Get(fingerprint string) ([]Document, bool) {
	c.mu.RLock()
	entry, ok := c.entries[fingerprint]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if c.now().Sub(entry.createdAt) >= c.ttl {
		c.mu.Lock()
		// Re-check under the write lock: a concurrent Put may have
		// refreshed the entry since the read above.
		if cur, ok := c.entries[fingerprint]; ok && c.now().Sub(cur.createdAt) >= c.ttl {
			delete(c.entries, fingerprint)
		}
		c.mu.Unlock()
		return nil, false
	}

	return entry.results, true
}

// Put inserts or overwrites the entry with the current timestamp. If the
// entry count exceeds the sweep threshold after insertion, every expired
// entry is evicted.
func (c *QueryCache) Put(fingerprint string, results []Document) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[fingerprint] = &cacheEntry{
		results:   results,
		createdAt: c.now(),
	}

	if len(c.entries) > sweepThreshold {
		c.sweepLocked()
	}
}

// Len reports the current entry count.
func (c *QueryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// sweepLocked removes every expired entry. Caller must hold the write lock.
func (c *QueryCache) sweepLocked() {
	now := c.now()
	for fingerprint, entry := range c.entries {
		if now.Sub(entry.createdAt) >= c.ttl {
			delete(c.entries, fingerprint)
		}
	}
}
