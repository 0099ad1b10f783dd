// Package dedup collapses near-duplicate candidate articles: the
// same story picked up from multiple sources under slightly
// different titles, or the same permalink seen twice.
package dedup

import (
	"net/url"
	"strings"

	"github.com/marketbeacon/marketbeacon/internal/model"
	"github.com/marketbeacon/marketbeacon/internal/textutil"
)

// feedEndpointMarkers flag URLs that point at feed or index pages
// rather than article permalinks.
var feedEndpointMarkers = []string{
	"/feed", "/rss", ".xml", "/category/", "/tag/", "/index",
}

// trackingParams are stripped during URL canonicalization
var trackingParams = map[string]bool{
	"utm_source": true, "utm_medium": true, "utm_campaign": true,
	"utm_term": true, "utm_content": true, "ref": true, "fbclid": true,
}

// Deduplicator removes near-duplicates from candidate batches.
// Deterministic and order-preserving on survivors; no side effects.
type Deduplicator struct {
	similarityThreshold float64
}

// New creates a Deduplicator. Titles whose token overlap meets the
// threshold are treated as the same story.
func New(similarityThreshold float64) *Deduplicator {
	if similarityThreshold <= 0 || similarityThreshold > 1 {
		similarityThreshold = 0.75
	}
	return &Deduplicator{similarityThreshold: similarityThreshold}
}

// Dedupe collapses duplicates within the batch, keeping the
// first-seen instance of each story.
func (d *Deduplicator) Dedupe(articles []model.CandidateArticle) []model.CandidateArticle {
	var survivors []model.CandidateArticle
	seenURLs := make(map[string]bool)
	var seenTitles []string

	for _, a := range articles {
		canonical := CanonicalURL(a.URL)
		if canonical != "" && seenURLs[canonical] {
			continue
		}

		title := textutil.NormalizeTitle(a.Title)
		dup := false
		for _, prior := range seenTitles {
			if d.similar(title, prior) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}

		if canonical != "" {
			seenURLs[canonical] = true
		}
		if title != "" {
			seenTitles = append(seenTitles, title)
		}
		survivors = append(survivors, a)
	}

	return survivors
}

// FilterValidURLs rejects candidates whose URL is a feed or index
// endpoint rather than an article permalink.
func (d *Deduplicator) FilterValidURLs(articles []model.CandidateArticle) []model.CandidateArticle {
	var valid []model.CandidateArticle
	for _, a := range articles {
		if IsArticleURL(a.URL) {
			valid = append(valid, a)
		}
	}
	return valid
}

// IsArticleURL reports whether the URL looks like an article
// permalink rather than a feed/index endpoint.
func IsArticleURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}

	path := strings.ToLower(parsed.Path)
	for _, marker := range feedEndpointMarkers {
		if strings.Contains(path, marker) {
			return false
		}
	}
	return true
}

// CanonicalURL normalizes a URL for identity comparison: scheme and
// host lowered, trailing slash trimmed, tracking params dropped.
// Returns "" when the URL does not parse.
func CanonicalURL(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		return ""
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""
	parsed.Path = strings.TrimSuffix(parsed.Path, "/")

	q := parsed.Query()
	for param := range q {
		if trackingParams[strings.ToLower(param)] {
			q.Del(param)
		}
	}
	parsed.RawQuery = q.Encode()

	return parsed.String()
}

// similar compares two normalized titles by token-overlap Jaccard
// similarity.
func (d *Deduplicator) similar(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}

	tokensA := textutil.Tokens(a)
	tokensB := textutil.Tokens(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return false
	}

	intersection := 0
	for tok := range tokensA {
		if tokensB[tok] {
			intersection++
		}
	}
	union := len(tokensA) + len(tokensB) - intersection

	return float64(intersection)/float64(union) >= d.similarityThreshold
}
