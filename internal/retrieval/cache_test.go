package retrieval

import (
	"fmt"
	"testing"
	"time"
)

// fakeClock drives the cache's notion of time without sleeping.
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTestCache(t *testing.T, ttl time.Duration) (*QueryCache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewQueryCache(ttl)
	cache.now = clock.Now
	return cache, clock
}

func TestFingerprintNormalization(t *testing.T) {
	base := Fingerprint("What is the privacy policy?", ModePolicy)

	// Case and surrounding whitespace must not matter.
	if got := Fingerprint("  what IS the Privacy Policy?  ", ModePolicy); got != base {
		t.Error("case/whitespace variants should produce the same fingerprint")
	}

	// Mode must matter.
	if got := Fingerprint("What is the privacy policy?", ModeSermon); got == base {
		t.Error("different modes should produce different fingerprints")
	}

	// Query must matter.
	if got := Fingerprint("something else entirely", ModePolicy); got == base {
		t.Error("different queries should produce different fingerprints")
	}
}

func TestCachePutGet(t *testing.T) {
	cache, _ := newTestCache(t, DefaultCacheTTL)

	docs := []Document{{Content: "c", Source: "s", Relevance: 0.9}}
	cache.Put("key", docs)

	got, ok := cache.Get("key")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 1 || got[0].Source != "s" {
		t.Errorf("unexpected cached results: %+v", got)
	}

	if _, ok := cache.Get("missing"); ok {
		t.Error("expected miss for unknown fingerprint")
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	cache, clock := newTestCache(t, 30*time.Minute)

	cache.Put("key", []Document{{Content: "c"}})

	// Just inside the TTL: still a hit.
	clock.Advance(30*time.Minute - time.Second)
	if _, ok := cache.Get("key"); !ok {
		t.Fatal("entry inside TTL should be a hit")
	}

	// At TTL + epsilon: absent, and deleted as a side effect.
	clock.Advance(2 * time.Second)
	if _, ok := cache.Get("key"); ok {
		t.Fatal("entry past TTL should be absent")
	}
	if cache.Len() != 0 {
		t.Errorf("expired entry should be deleted on lookup, len=%d", cache.Len())
	}
}

func TestCacheSweepEvictsExpired(t *testing.T) {
	cache, clock := newTestCache(t, 30*time.Minute)

	// 100 entries, then let them all expire.
	for i := 0; i < 100; i++ {
		cache.Put(fmt.Sprintf("key-%d", i), []Document{{Content: "c"}})
	}
	clock.Advance(31 * time.Minute)

	// The 101st insert crosses the threshold and sweeps every expired
	// entry; only the fresh insert itself survives.
	cache.Put("key-100", []Document{{Content: "c"}})
	if cache.Len() != 1 {
		t.Errorf("sweep should evict all expired entries, len=%d", cache.Len())
	}
	if _, ok := cache.Get("key-100"); !ok {
		t.Error("fresh entry must survive the sweep")
	}
}

func TestCacheSweepKeepsFresh(t *testing.T) {
	cache, _ := newTestCache(t, 30*time.Minute)

	// 101 fresh entries: the sweep runs but removes nothing.
	for i := 0; i < 101; i++ {
		cache.Put(fmt.Sprintf("key-%d", i), []Document{{Content: "c"}})
	}
	if cache.Len() != 101 {
		t.Errorf("sweep must be a no-op for fresh entries, len=%d", cache.Len())
	}
}

func TestCacheOverwriteRefreshesTimestamp(t *testing.T) {
	cache, clock := newTestCache(t, 30*time.Minute)

	cache.Put("key", []Document{{Content: "old"}})
	clock.Advance(29 * time.Minute)
	cache.Put("key", []Document{{Content: "new"}})

	// 29 + 2 minutes past the original insert, but only 2 past the
	// overwrite: still fresh, and carrying the new results.
	clock.Advance(2 * time.Minute)
	got, ok := cache.Get("key")
	if !ok {
		t.Fatal("overwritten entry should be fresh")
	}
	if got[0].Content != "new" {
		t.Errorf("expected overwritten results, got %q", got[0].Content)
	}
}
