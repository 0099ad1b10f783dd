// Package extract implements deterministic pattern extraction of
// funding events, company mentions, and technology mentions from
// article text. It is pure string scanning over configured rosters;
// the analyzer-backed path lives in internal/analyze.
package extract

import (
	"time"

	"github.com/marketbeacon/marketbeacon/internal/model"
	"github.com/marketbeacon/marketbeacon/internal/textutil"
)

// timeNow is injectable for tests
var timeNow = time.Now

// Extractor scans normalized text against the configured company and
// technology rosters.
type Extractor struct {
	cfg model.ExtractConfig
}

// NewExtractor creates an Extractor
func NewExtractor(cfg model.ExtractConfig) *Extractor {
	return &Extractor{cfg: cfg}
}

// Extract runs all three deterministic extractions over the text.
// Re-running over the same input yields the same output; persistence
// idempotence is the caller's job (insert-if-absent keyed by
// (company, article) and (technology)).
func (e *Extractor) Extract(text, articleID string) model.Extraction {
	text = textutil.StripHTML(text)
	now := timeNow().UTC()

	return model.Extraction{
		Funding:  e.extractFunding(text, articleID, now),
		Mentions: e.extractMentions(text, articleID, now),
		Trends:   e.extractTechnologies(text, now),
	}
}
