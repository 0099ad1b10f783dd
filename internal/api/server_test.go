package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/marketbeacon/marketbeacon/internal/cache"
	"github.com/marketbeacon/marketbeacon/internal/collector"
	"github.com/marketbeacon/marketbeacon/internal/extract"
	"github.com/marketbeacon/marketbeacon/internal/fetch"
	"github.com/marketbeacon/marketbeacon/internal/insights"
	"github.com/marketbeacon/marketbeacon/internal/model"
	"github.com/marketbeacon/marketbeacon/internal/store"
	"github.com/marketbeacon/marketbeacon/internal/verify"
)

type stubFetcher struct {
	candidates []model.CandidateArticle
}

func (f *stubFetcher) Kind() string { return "feed" }

func (f *stubFetcher) Fetch(ctx context.Context, src model.SourceConfig) ([]model.CandidateArticle, error) {
	return f.candidates, nil
}

func newTestServer(t *testing.T, candidates []model.CandidateArticle) *Server {
	t.Helper()

	cfg := model.DefaultConfig()
	cfg.Sources = []model.SourceConfig{{ID: "feed-a", Name: "Feed A", Kind: "feed", URL: "https://a.example/feed"}}
	cfg.Collector.SourceRateLimit = 1000
	cfg.Collector.SourceRateBurst = 10

	sc := cache.NewSourceCache(cache.NewMemoryCache(time.Minute, 0), cfg.Cache)
	repo := store.NewMemory()
	verifier := verify.New(cfg.Verify)
	engine := insights.New(repo, sc, cfg.Insights, zap.NewNop())

	col := collector.New(
		cfg,
		fetch.NewRegistry(&stubFetcher{candidates: candidates}),
		sc,
		verifier,
		extract.NewExtractor(cfg.Extract),
		nil,
		repo,
		engine,
		zap.NewNop(),
	)

	return New(col, engine, verifier, prometheus.NewRegistry(), zap.NewNop())
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doRequest(s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCollectEndpoint(t *testing.T) {
	s := newTestServer(t, []model.CandidateArticle{{
		Title:       "OpenAI launches a new model",
		Summary:     "A summary comfortably past the minimum length required for admission checks.",
		URL:         "https://techcrunch.com/openai-launch",
		SourceName:  "TechCrunch",
		SourceURL:   "https://techcrunch.com",
		PublishedAt: time.Now().Add(-time.Hour),
	}})

	rec := doRequest(s, http.MethodPost, "/api/v1/collect", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var result collector.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if result.ArticlesAdded != 1 {
		t.Errorf("articles added = %d, want 1", result.ArticlesAdded)
	}
}

func TestInsightsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(s, http.MethodGet, "/api/v1/insights", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var view model.AccumulatedInsights
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decoding insights: %v", err)
	}
	if len(view.Indicators) != 4 {
		t.Errorf("indicators = %d, want 4 even on an empty store", len(view.Indicators))
	}
}

func TestVerifyEndpoint_ScalesConfidence(t *testing.T) {
	s := newTestServer(t, nil)

	body := `{
		"title": "Anthropic announces a partnership",
		"summary": "A perfectly ordinary summary that is long enough to avoid the length penalty.",
		"url": "https://techcrunch.com/partnership",
		"source_name": "TechCrunch",
		"source_url": "https://techcrunch.com",
		"published_at": "` + time.Now().Add(-time.Hour).Format(time.RFC3339) + `"
	}`

	rec := doRequest(s, http.MethodPost, "/api/v1/verify", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp verifyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.IsValid {
		t.Errorf("expected admission, issues: %v", resp.Issues)
	}
	if resp.Confidence != 100 {
		t.Errorf("confidence = %d, want 100", resp.Confidence)
	}
}

func TestVerifyEndpoint_BadPayload(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doRequest(s, http.MethodPost, "/api/v1/verify", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	// One cycle so the counters exist with samples.
	doRequest(s, http.MethodPost, "/api/v1/collect", "")

	rec := doRequest(s, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "marketbeacon_collection_cycles_total") {
		t.Error("expected collection cycle counter in metrics exposition")
	}
}
