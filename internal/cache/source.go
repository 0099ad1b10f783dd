package cache

import (
	"time"

	"github.com/marketbeacon/marketbeacon/internal/model"
)

const (
	fetchPrefix    = "fetch:"
	seenPrefix     = "seen:"
	analysisPrefix = "analysis:"
)

// fetchRecord remembers the last completed fetch for one source
type fetchRecord struct {
	At    time.Time
	Name  string
	Count int
}

// SourceCache is the process-wide cycle cache: per-source fetch
// clocks, the seen-URL set, cached analyzer judgments, and named
// insight payloads. All state is in memory; losing it means the next
// cycle fetches everything and skips nothing, which is correct, just
// slower.
type SourceCache struct {
	store Cache
	cfg   model.CacheConfig
}

// NewSourceCache creates a SourceCache on top of the given backing
// cache.
func NewSourceCache(store Cache, cfg model.CacheConfig) *SourceCache {
	return &SourceCache{store: store, cfg: cfg}
}

// ShouldFetch reports whether the source's throttle interval has
// elapsed. Unknown sources are always due.
func (c *SourceCache) ShouldFetch(sourceID string, minInterval time.Duration) bool {
	v, ok := c.store.Get(fetchPrefix + sourceID)
	if !ok {
		return true
	}
	rec, ok := v.(fetchRecord)
	if !ok {
		return true
	}
	return time.Since(rec.At) >= minInterval
}

// MarkFetched records a completed fetch for throttling. The record
// expires after the seen TTL so idle sources do not pin memory.
func (c *SourceCache) MarkFetched(sourceID, name string, count int) {
	c.store.Set(fetchPrefix+sourceID, fetchRecord{At: time.Now(), Name: name, Count: count}, c.cfg.SeenTTL)
}

// IsSeen reports whether the article URL was already processed
func (c *SourceCache) IsSeen(url string) bool {
	_, ok := c.store.Get(seenPrefix + URLKey(url))
	return ok
}

// MarkSeen records article URLs so later cycles skip them
func (c *SourceCache) MarkSeen(urls []string) {
	for _, u := range urls {
		c.store.Set(seenPrefix+URLKey(u), true, c.cfg.SeenTTL)
	}
}

// Analysis returns a cached analyzer judgment for the URL, if any
func (c *SourceCache) Analysis(url string) (*model.Analysis, bool) {
	v, ok := c.store.Get(analysisPrefix + URLKey(url))
	if !ok {
		return nil, false
	}
	a, ok := v.(*model.Analysis)
	if !ok {
		return nil, false
	}
	return a, true
}

// CacheAnalysis stores an analyzer judgment keyed by article URL
func (c *SourceCache) CacheAnalysis(url string, a *model.Analysis) {
	c.store.Set(analysisPrefix+URLKey(url), a, c.cfg.AnalysisTTL)
}

// Get reads a named payload (insight structures and the like)
func (c *SourceCache) Get(key string) (interface{}, bool) {
	return c.store.Get(key)
}

// Set writes a named payload with an explicit TTL
func (c *SourceCache) Set(key string, value interface{}, ttl time.Duration) {
	c.store.Set(key, value, ttl)
}

// Invalidate drops every payload under the given key prefix
func (c *SourceCache) Invalidate(prefix string) {
	c.store.Invalidate(prefix)
}
