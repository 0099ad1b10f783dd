package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/marketbeacon/marketbeacon/internal/model"
	"github.com/marketbeacon/marketbeacon/internal/textutil"
)

// FeedFetcher pulls RSS/Atom sources
type FeedFetcher struct {
	parser *gofeed.Parser
	robots *RobotsChecker
}

// NewFeedFetcher creates a feed fetcher
func NewFeedFetcher(cfg model.HTTPConfig) *FeedFetcher {
	parser := gofeed.NewParser()
	parser.UserAgent = cfg.UserAgent
	parser.Client = newHTTPClient(cfg)

	return &FeedFetcher{
		parser: parser,
		robots: NewRobotsChecker(cfg),
	}
}

// Kind returns the source kind this fetcher handles
func (f *FeedFetcher) Kind() string { return "feed" }

// Fetch parses the feed and maps items to candidates
func (f *FeedFetcher) Fetch(ctx context.Context, src model.SourceConfig) ([]model.CandidateArticle, error) {
	if !f.robots.IsAllowed(ctx, src.URL) {
		return nil, fmt.Errorf("robots.txt disallows %s", src.URL)
	}

	feed, err := f.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", src.URL, err)
	}

	var candidates []model.CandidateArticle
	for _, item := range feed.Items {
		if item == nil || item.Link == "" {
			continue
		}

		published := time.Now().UTC()
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.UTC()
		} else if item.UpdatedParsed != nil {
			published = item.UpdatedParsed.UTC()
		}

		summary := item.Description
		if summary == "" {
			summary = item.Content
		}

		candidates = append(candidates, model.CandidateArticle{
			Title:       item.Title,
			Summary:     textutil.StripHTML(summary),
			URL:         item.Link,
			SourceName:  src.Name,
			SourceURL:   src.URL,
			PublishedAt: published,
		})
	}

	return candidates, nil
}
