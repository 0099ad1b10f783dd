package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/marketbeacon/marketbeacon/internal/model"
	"github.com/marketbeacon/marketbeacon/internal/textutil"
)

// roundLabels in matching precedence order. Checked first-hit-wins,
// so "Series B" wins over the bare "Seed" fallback and so on.
var roundLabels = []string{
	"Series A", "Series B", "Series C", "Series D",
	"Seed", "Pre-Seed", "Strategic", "Acquisition", "Merger", "IPO",
}

var fundingKeywords = []string{
	"raised", "raises", "raising", "funding", "investment", "secures", "secured", "closes round",
}

// companyPattern captures the capitalized name immediately before a
// raise verb: "Acme raised ...", "Scale AI secures ...".
var companyPattern = regexp.MustCompile(`([A-Z][A-Za-z0-9&.\-]*(?:\s+[A-Z][A-Za-z0-9&.\-]*)*)\s+(?:has\s+|have\s+)?(?:raised|raises|secures|secured|closes|closed|lands|landed)\b`)

// investorName matches one investor name: every word must start with
// an uppercase letter, so the capture stops before trailing prose
// ("... led by Sequoia Capital after months of talks").
const investorName = `[A-Z][A-Za-z0-9&.\-]*(?:\s+[A-Z][A-Za-z0-9&.\-]*)*`

// investorsPattern captures the name list after "led by" or
// "with participation from".
var investorsPattern = regexp.MustCompile(`(?:led by|with participation from|backed by|from investors including)\s+(` +
	investorName + `(?:,\s*` + investorName + `)*(?:,?\s+and\s+` + investorName + `)?)`)

var locationPattern = regexp.MustCompile(`(?:based in|headquartered in)\s+([A-Z][A-Za-z\- ]+?)(?:[,.]|\s+(?:has|have|raised|announced)|$)`)

// extractFunding scans text for a funding announcement. At most one
// event per text: one story, one round.
func (e *Extractor) extractFunding(text, articleID string, now time.Time) []model.FundingEvent {
	lower := strings.ToLower(text)

	hasKeyword := false
	for _, kw := range fundingKeywords {
		if strings.Contains(lower, kw) {
			hasKeyword = true
			break
		}
	}
	if !hasKeyword {
		return nil
	}

	usd, display, ok := ParseAmount(text)
	if !ok {
		return nil
	}

	event := model.FundingEvent{
		Company:     e.fundingCompany(text),
		AmountUSD:   usd,
		Amount:      display,
		Round:       detectRound(text),
		Investors:   extractInvestors(text),
		Location:    extractLocation(text),
		ArticleID:   articleID,
		ExtractedAt: now,
	}
	if event.Company == "" {
		return nil
	}

	return []model.FundingEvent{event}
}

// fundingCompany finds who raised: prefer the roster, fall back to
// the capitalized subject of the raise verb.
func (e *Extractor) fundingCompany(text string) string {
	if m := companyPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	for _, company := range e.cfg.Companies {
		if textutil.ContainsWholeWord(text, company) {
			return company
		}
	}
	return ""
}

// detectRound labels the round by keyword precedence
func detectRound(text string) string {
	for _, label := range roundLabels {
		if textutil.ContainsWholeWord(text, label) {
			return label
		}
	}
	return "Unknown"
}

func extractInvestors(text string) []string {
	m := investorsPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	// Split "A, B and C" into individual names.
	raw := strings.ReplaceAll(m[1], " and ", ", ")
	var investors []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name != "" {
			investors = append(investors, name)
		}
	}
	return investors
}

func extractLocation(text string) string {
	if m := locationPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
