package cache

import (
	"testing"
	"time"

	"github.com/marketbeacon/marketbeacon/internal/model"
)

func newTestSourceCache() *SourceCache {
	cfg := model.CacheConfig{
		SeenTTL:         time.Hour,
		AnalysisTTL:     time.Hour,
		CleanupInterval: time.Minute,
	}
	return NewSourceCache(NewMemoryCache(time.Hour, time.Minute), cfg)
}

func TestSourceCache_ShouldFetch_UnknownSource(t *testing.T) {
	c := newTestSourceCache()

	if !c.ShouldFetch("rss-techcrunch", 30*time.Minute) {
		t.Error("unknown source should always be due")
	}
}

func TestSourceCache_ShouldFetch_Throttled(t *testing.T) {
	c := newTestSourceCache()

	c.MarkFetched("rss-techcrunch", "TechCrunch", 12)

	if c.ShouldFetch("rss-techcrunch", 30*time.Minute) {
		t.Error("source fetched just now should be throttled")
	}

	if !c.ShouldFetch("rss-techcrunch", 0) {
		t.Error("zero interval should never throttle")
	}
}

func TestSourceCache_SeenSet(t *testing.T) {
	c := newTestSourceCache()

	url := "https://techcrunch.com/2026/08/01/some-article"
	if c.IsSeen(url) {
		t.Error("fresh cache should not know the URL")
	}

	c.MarkSeen([]string{url, "https://example.com/other"})

	if !c.IsSeen(url) {
		t.Error("URL should be seen after MarkSeen")
	}
	if c.IsSeen("https://example.com/unrelated") {
		t.Error("unrelated URL should not be seen")
	}
}

func TestSourceCache_AnalysisRoundTrip(t *testing.T) {
	c := newTestSourceCache()

	url := "https://techcrunch.com/2026/08/01/some-article"
	if _, ok := c.Analysis(url); ok {
		t.Error("expected analysis miss on cold cache")
	}

	a := &model.Analysis{Category: "funding", Confidence: 85, IsRelevant: true, RelevanceScore: 90}
	c.CacheAnalysis(url, a)

	got, ok := c.Analysis(url)
	if !ok {
		t.Fatal("expected analysis hit")
	}
	if got.Category != "funding" || got.RelevanceScore != 90 {
		t.Errorf("unexpected cached analysis: %+v", got)
	}
}

func TestSourceCache_InvalidatePrefix(t *testing.T) {
	c := newTestSourceCache()

	c.Set("insight:full", 1, time.Hour)
	c.Set("insight:themes", 2, time.Hour)
	c.Set("other:thing", 3, time.Hour)

	c.Invalidate("insight:")

	if _, ok := c.Get("insight:full"); ok {
		t.Error("insight:full should be invalidated")
	}
	if _, ok := c.Get("insight:themes"); ok {
		t.Error("insight:themes should be invalidated")
	}
	if _, ok := c.Get("other:thing"); !ok {
		t.Error("other:thing should survive prefix invalidation")
	}
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	mc := NewMemoryCache(time.Hour, time.Minute)
	mc.Set("k", "v", 10*time.Millisecond)

	if _, ok := mc.Get("k"); !ok {
		t.Fatal("value should be present before expiry")
	}

	time.Sleep(20 * time.Millisecond)

	if _, ok := mc.Get("k"); ok {
		t.Error("value should expire after TTL")
	}
}
