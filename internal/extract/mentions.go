package extract

import (
	"strings"
	"time"

	"github.com/marketbeacon/marketbeacon/internal/model"
	"github.com/marketbeacon/marketbeacon/internal/textutil"
)

const contextWindow = 120

// extractMentions produces one CompanyMention per roster company
// found in the text, whole-word matched.
func (e *Extractor) extractMentions(text, articleID string, now time.Time) []model.CompanyMention {
	var mentions []model.CompanyMention

	for _, company := range e.cfg.Companies {
		if !textutil.ContainsWholeWord(text, company) {
			continue
		}

		mentions = append(mentions, model.CompanyMention{
			Company:     company,
			Type:        e.mentionType(text),
			Sentiment:   scoreSentiment(text, e.cfg.PositiveWords, e.cfg.NegativeWords),
			Context:     mentionContext(text, company),
			ArticleID:   articleID,
			ExtractedAt: now,
		})
	}

	return mentions
}

// mentionType classifies by keyword bucket, first hit in configured
// priority order wins.
func (e *Extractor) mentionType(text string) model.MentionType {
	lower := strings.ToLower(text)
	for _, bucket := range e.cfg.MentionBuckets {
		for _, kw := range bucket.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return bucket.Type
			}
		}
	}
	return model.MentionGeneral
}

// mentionContext returns a short window of text around the first
// occurrence of the company name.
func mentionContext(text, company string) string {
	idx := strings.Index(strings.ToLower(text), strings.ToLower(company))
	if idx < 0 {
		return ""
	}

	start := idx - contextWindow
	if start < 0 {
		start = 0
	}
	end := idx + len(company) + contextWindow
	if end > len(text) {
		end = len(text)
	}

	return strings.TrimSpace(text[start:end])
}
