// Package verify scores candidate-article credibility against static
// trust tables. Verification is a pure function of the article and
// the configured lists; it mutates nothing and never touches the
// network.
package verify

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/marketbeacon/marketbeacon/internal/model"
)

// Penalty table. Penalties are additive and confidence floors at 0.
const (
	penaltySuspiciousPattern  = 0.3
	penaltyUntrustedDomain    = 0.4
	penaltyNoVerifiableURL    = 0.2
	penaltyUnknownSource      = 0.1
	penaltyStaleDate          = 0.1
	penaltyFutureDate         = 0.5
	penaltyShortSummary       = 0.1
	penaltyFabricatedContent  = 0.3
)

// nowFunc is injectable for tests
var nowFunc = time.Now

// Verifier admits or rejects candidate articles by multi-factor
// credibility scoring.
type Verifier struct {
	cfg        model.VerifyConfig
	trust      *TrustList
	suspicious []*regexp.Regexp
	outlets    map[string]bool
}

// New creates a Verifier from the static trust configuration.
// Patterns that do not compile are skipped.
func New(cfg model.VerifyConfig) *Verifier {
	v := &Verifier{
		cfg:     cfg,
		trust:   NewTrustList(cfg.TrustedDomains),
		outlets: make(map[string]bool, len(cfg.KnownOutlets)),
	}
	for _, p := range cfg.SuspiciousPatterns {
		if re, err := regexp.Compile(`(?i)` + p); err == nil {
			v.suspicious = append(v.suspicious, re)
		}
	}
	for _, o := range cfg.KnownOutlets {
		v.outlets[strings.ToLower(strings.TrimSpace(o))] = true
	}
	return v
}

// Verify scores one candidate. Admission requires confidence at or
// above the configured minimum and at least one URL verified against
// the trust allow-list. Every penalty applied is reported as an
// issue.
func (v *Verifier) Verify(a model.CandidateArticle) model.Verification {
	confidence := 1.0
	var issues []string

	// Title heuristics: claims that cannot be real yet, sensational
	// phrasing.
	for _, re := range v.suspicious {
		if re.MatchString(a.Title) {
			confidence -= penaltySuspiciousPattern
			issues = append(issues, fmt.Sprintf("suspicious title pattern: %s", re.String()))
		}
	}

	// Domain trust. Each distinct URL on an unlisted domain costs
	// independently.
	urls := articleURLs(a)
	verified := 0
	for _, u := range urls {
		if v.trust.VerifyURL(u) {
			verified++
		} else {
			confidence -= penaltyUntrustedDomain
			issues = append(issues, fmt.Sprintf("unverified domain: %s", hostOf(u)))
		}
	}
	if verified == 0 {
		confidence -= penaltyNoVerifiableURL
		issues = append(issues, "no verifiable source URLs")
	}

	if a.SourceName == "" || !v.knownOutlet(a.SourceName) {
		confidence -= penaltyUnknownSource
		issues = append(issues, fmt.Sprintf("unrecognized source: %q", a.SourceName))
	}

	now := nowFunc()
	if !a.PublishedAt.IsZero() {
		switch {
		case a.PublishedAt.After(now):
			confidence -= penaltyFutureDate
			issues = append(issues, "publish date in the future")
		case now.Sub(a.PublishedAt) > time.Duration(v.cfg.MaxArticleAgeDays)*24*time.Hour:
			confidence -= penaltyStaleDate
			issues = append(issues, fmt.Sprintf("publish date more than %d days old", v.cfg.MaxArticleAgeDays))
		}
	}

	if len(a.Summary) < v.cfg.MinSummaryLength {
		confidence -= penaltyShortSummary
		issues = append(issues, fmt.Sprintf("summary shorter than %d characters", v.cfg.MinSummaryLength))
	}

	content := strings.ToLower(a.Title + " " + a.Summary)
	for _, indicator := range v.cfg.FabricatedIndicators {
		if strings.Contains(content, strings.ToLower(indicator)) {
			confidence -= penaltyFabricatedContent
			issues = append(issues, fmt.Sprintf("fabricated-news indicator: %q", indicator))
		}
	}

	if confidence < 0 {
		confidence = 0
	}

	return model.Verification{
		IsValid:    confidence >= v.cfg.MinConfidence && verified > 0,
		Confidence: confidence,
		Issues:     issues,
	}
}

// knownOutlet matches the source name against the recognized outlet
// list, case-insensitively.
func (v *Verifier) knownOutlet(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	if v.outlets[n] {
		return true
	}
	for outlet := range v.outlets {
		if strings.Contains(n, outlet) {
			return true
		}
	}
	return false
}

// articleURLs collects the candidate's distinct non-empty URLs
func articleURLs(a model.CandidateArticle) []string {
	var urls []string
	seen := make(map[string]bool)
	for _, u := range []string{a.URL, a.SourceURL} {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	return urls
}
