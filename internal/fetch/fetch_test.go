package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/marketbeacon/marketbeacon/internal/model"
)

func testHTTPConfig() model.HTTPConfig {
	return model.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "MarketBeacon/0.1",
		MaxBodyBytes: 1 << 20,
	}
}

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>Test Feed</title>
<item>
  <title>OpenAI raises $500M</title>
  <link>https://techcrunch.com/2026/08/28/openai-500m</link>
  <description>&lt;p&gt;The company closed a new round.&lt;/p&gt;</description>
  <pubDate>Fri, 28 Aug 2026 09:30:00 GMT</pubDate>
</item>
<item>
  <title>No link item</title>
</item>
</channel></rss>`

func TestFeedFetcher_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	f := NewFeedFetcher(testHTTPConfig())
	src := model.SourceConfig{ID: "test-feed", Name: "Test Feed", Kind: "feed", URL: server.URL + "/feed.rss"}

	got, err := f.Fetch(context.Background(), src)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}

	c := got[0]
	if c.Title != "OpenAI raises $500M" {
		t.Errorf("title = %q", c.Title)
	}
	if c.Summary != "The company closed a new round." {
		t.Errorf("summary = %q, want HTML stripped", c.Summary)
	}
	if c.SourceName != "Test Feed" {
		t.Errorf("source name = %q", c.SourceName)
	}
	if c.PublishedAt.IsZero() {
		t.Error("expected publish date to be parsed")
	}
}

func TestFeedFetcher_RobotsDisallow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /\n"))
			return
		}
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	f := NewFeedFetcher(testHTTPConfig())
	src := model.SourceConfig{ID: "blocked", Kind: "feed", URL: server.URL + "/feed.rss"}

	if _, err := f.Fetch(context.Background(), src); err == nil {
		t.Error("expected robots.txt disallow error")
	}
}

func TestSearchFetcher_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "artificial intelligence" {
			t.Errorf("query param q = %q", got)
		}
		if got := r.URL.Query().Get("apiKey"); got != "key123" {
			t.Errorf("apiKey = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","articles":[
			{"title":"AI chip demand surges","description":"d","url":"https://reuters.com/ai-chips","source":{"name":"Reuters"},"publishedAt":"2026-08-28T09:00:00Z"}
		]}`))
	}))
	defer server.Close()

	f := NewSearchFetcher(testHTTPConfig(), "key123")
	src := model.SourceConfig{ID: "newsapi", Name: "NewsAPI", Kind: "search", URL: server.URL + "/v2/everything", Query: "artificial intelligence"}

	got, err := f.Fetch(context.Background(), src)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 1 || got[0].SourceName != "Reuters" {
		t.Fatalf("unexpected candidates: %+v", got)
	}
}

func TestSearchFetcher_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	f := NewSearchFetcher(testHTTPConfig(), "")
	src := model.SourceConfig{Kind: "search", URL: server.URL}

	if _, err := f.Fetch(context.Background(), src); err == nil {
		t.Error("expected error on 429")
	}
}

func TestFinancialFetcher_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"feed":[
			{"title":"Chipmaker beats estimates","url":"https://cnbc.com/chips","summary":"s","source":"CNBC","time_published":"20260828T093000"}
		]}`))
	}))
	defer server.Close()

	f := NewFinancialFetcher(testHTTPConfig(), "secret")
	src := model.SourceConfig{ID: "av", Name: "Alpha Vantage", Kind: "financial", URL: server.URL + "/query"}

	got, err := f.Fetch(context.Background(), src)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if got[0].PublishedAt.Year() != 2026 {
		t.Errorf("published = %v", got[0].PublishedAt)
	}
}

func TestRegistry(t *testing.T) {
	cfg := testHTTPConfig()
	reg := NewRegistry(NewFeedFetcher(cfg), NewSearchFetcher(cfg, ""), NewFinancialFetcher(cfg, ""))

	if _, err := reg.For(model.SourceConfig{Kind: "feed"}); err != nil {
		t.Errorf("feed fetcher missing: %v", err)
	}
	if _, err := reg.For(model.SourceConfig{Kind: "telegraph"}); err == nil {
		t.Error("expected error for unknown kind")
	}
}
