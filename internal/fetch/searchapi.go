package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/marketbeacon/marketbeacon/internal/model"
)

// searchResponse is the NewsAPI-style result envelope
type searchResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

// SearchFetcher queries a search-engine result API
type SearchFetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	apiKey     string
}

// NewSearchFetcher creates a search-API fetcher
func NewSearchFetcher(cfg model.HTTPConfig, apiKey string) *SearchFetcher {
	return &SearchFetcher{
		httpClient: newHTTPClient(cfg),
		userAgent:  cfg.UserAgent,
		maxBytes:   cfg.MaxBodyBytes,
		apiKey:     apiKey,
	}
}

// Kind returns the source kind this fetcher handles
func (f *SearchFetcher) Kind() string { return "search" }

// Fetch runs the configured query against the API
func (f *SearchFetcher) Fetch(ctx context.Context, src model.SourceConfig) ([]model.CandidateArticle, error) {
	endpoint, err := url.Parse(src.URL)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}

	q := endpoint.Query()
	if src.Query != "" {
		q.Set("q", src.Query)
	}
	if f.apiKey != "" {
		q.Set("apiKey", f.apiKey)
	}
	endpoint.RawQuery = q.Encode()

	var decoded searchResponse
	if err := f.getJSON(ctx, endpoint.String(), &decoded); err != nil {
		return nil, err
	}

	var candidates []model.CandidateArticle
	for _, a := range decoded.Articles {
		if a.URL == "" {
			continue
		}
		name := a.Source.Name
		if name == "" {
			name = src.Name
		}
		candidates = append(candidates, model.CandidateArticle{
			Title:       a.Title,
			Summary:     a.Description,
			URL:         a.URL,
			SourceName:  name,
			SourceURL:   a.URL,
			PublishedAt: a.PublishedAt,
		})
	}
	return candidates, nil
}

func (f *SearchFetcher) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
