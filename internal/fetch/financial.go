package fetch

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/marketbeacon/marketbeacon/internal/model"
)

// financialResponse is the Alpha Vantage-style news envelope
type financialResponse struct {
	Feed []struct {
		Title         string `json:"title"`
		URL           string `json:"url"`
		Summary       string `json:"summary"`
		Source        string `json:"source"`
		TimePublished string `json:"time_published"` // 20260828T093000
	} `json:"feed"`
}

// FinancialFetcher pulls a financial-news API
type FinancialFetcher struct {
	search *SearchFetcher
	apiKey string
}

// NewFinancialFetcher creates a financial-news fetcher
func NewFinancialFetcher(cfg model.HTTPConfig, apiKey string) *FinancialFetcher {
	return &FinancialFetcher{
		search: NewSearchFetcher(cfg, ""),
		apiKey: apiKey,
	}
}

// Kind returns the source kind this fetcher handles
func (f *FinancialFetcher) Kind() string { return "financial" }

// Fetch pulls the feed endpoint and maps entries to candidates
func (f *FinancialFetcher) Fetch(ctx context.Context, src model.SourceConfig) ([]model.CandidateArticle, error) {
	endpoint, err := url.Parse(src.URL)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}

	q := endpoint.Query()
	if src.Query != "" {
		q.Set("topics", src.Query)
	}
	if f.apiKey != "" {
		q.Set("apikey", f.apiKey)
	}
	endpoint.RawQuery = q.Encode()

	var decoded financialResponse
	if err := f.search.getJSON(ctx, endpoint.String(), &decoded); err != nil {
		return nil, err
	}

	var candidates []model.CandidateArticle
	for _, entry := range decoded.Feed {
		if entry.URL == "" {
			continue
		}

		published := time.Now().UTC()
		if t, err := time.Parse("20060102T150405", entry.TimePublished); err == nil {
			published = t.UTC()
		}

		name := entry.Source
		if name == "" {
			name = src.Name
		}
		candidates = append(candidates, model.CandidateArticle{
			Title:       entry.Title,
			Summary:     entry.Summary,
			URL:         entry.URL,
			SourceName:  name,
			SourceURL:   entry.URL,
			PublishedAt: published,
		})
	}
	return candidates, nil
}
