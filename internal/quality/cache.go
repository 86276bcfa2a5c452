package quality

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Cache is a thread-safe in-memory TTL cache with hit-biased eviction.
// It is volatile and process-local: entries never survive a restart.
type Cache struct {
	mu         sync.Mutex
	maxSize    int
	defaultTTL time.Duration
	clock      clockwork.Clock
	entries    map[string]*cacheEntry
	stats      CacheStats
}

type cacheEntry struct {
	data      json.RawMessage
	createdAt time.Time
	ttl       time.Duration
	hits      int
}

// CacheStats is a snapshot of cache effectiveness counters.
type CacheStats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Expired   int64 `json:"expired"`
	Entries   int   `json:"entries"`
}

// NewCache creates a Cache bounded at maxSize entries. Entries written
// without an explicit TTL expire after defaultTTL.
func NewCache(maxSize int, defaultTTL time.Duration, clock clockwork.Clock) *Cache {
	return &Cache{
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
		clock:      clock,
		entries:    make(map[string]*cacheEntry),
	}
}

// Get returns the entry for key if present and unexpired. An expired entry
// is deleted on the spot and reported as a miss.
func (c *Cache) Get(key string) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	if c.expired(e) {
		delete(c.entries, key)
		c.stats.Expired++
		c.stats.Misses++
		return nil, false
	}
	e.hits++
	c.stats.Hits++
	return e.data, true
}

// Set inserts or overwrites key. A ttl <= 0 uses the cache default. When
// the cache is full, the coldest entry is evicted first.
func (c *Cache) Set(key string, data json.RawMessage, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxSize {
		c.evictColdest()
	}
	c.entries[key] = &cacheEntry{
		data:      data,
		createdAt: c.clock.Now(),
		ttl:       ttl,
	}
}

// Has reports whether key is present and unexpired, without counting as a
// hit or refreshing recency.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return ok && !c.expired(e)
}

// Delete removes key if present.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes all entries. Counters are preserved.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// Keys returns the keys of all unexpired entries, in no particular order.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.entries))
	for k, e := range c.entries {
		if !c.expired(e) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Entries = len(c.entries)
	return s
}

// Sweep removes expired entries every interval until ctx is cancelled,
// bounding memory growth from entries that are never re-queried. Run it
// from the composition root:
//
//	go cache.Sweep(ctx, time.Minute)
func (c *Cache) Sweep(ctx context.Context, interval time.Duration) {
	ticker := c.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			c.removeExpired()
		}
	}
}

func (c *Cache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, k)
			c.stats.Expired++
		}
	}
}

func (c *Cache) expired(e *cacheEntry) bool {
	return c.clock.Now().After(e.createdAt.Add(e.ttl))
}

// evictColdest drops the entry with the lowest recency-plus-hits score.
// Each hit is worth one second of age, cheaply biasing eviction away from
// frequently read entries without a full LRU list. Caller holds the lock.
func (c *Cache) evictColdest() {
	var coldestKey string
	var coldestScore time.Time
	first := true
	for k, e := range c.entries {
		score := e.createdAt.Add(time.Duration(e.hits) * time.Second)
		if first || score.Before(coldestScore) {
			coldestKey, coldestScore = k, score
			first = false
		}
	}
	if !first {
		delete(c.entries, coldestKey)
		c.stats.Evictions++
	}
}

// Key builds a deterministic cache key from an endpoint path and its
// parameters. Parameters are sorted by name so that equal parameter sets
// produce the same key regardless of insertion order.
func Key(endpoint string, params map[string]string) string {
	if len(params) == 0 {
		return endpoint
	}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(endpoint)
	b.WriteByte('?')
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(params[name])
	}
	return b.String()
}
