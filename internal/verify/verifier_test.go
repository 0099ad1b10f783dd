package verify

import (
	"strings"
	"testing"
	"time"

	"github.com/marketbeacon/marketbeacon/internal/model"
)

func testVerifier() *Verifier {
	return New(model.DefaultConfig().Verify)
}

func TestVerify_FabricatedSensationalArticle(t *testing.T) {
	v := testVerifier()

	result := v.Verify(model.CandidateArticle{
		Title:       "Breaking: AI Becomes Sentient",
		Summary:     "A report claims a laboratory model has achieved consciousness overnight, stunning researchers.",
		URL:         "https://ai-truth-news.net/2026/08/sentient",
		SourceName:  "AI Truth News",
		PublishedAt: time.Now().Add(-1 * time.Hour),
	})

	if result.IsValid {
		t.Error("sensational article from unlisted domain must be rejected")
	}
	if result.Confidence > 0.2 {
		t.Errorf("confidence = %.2f, want <= 0.2", result.Confidence)
	}

	var suspicious, unverified bool
	for _, issue := range result.Issues {
		if strings.Contains(issue, "suspicious title pattern") {
			suspicious = true
		}
		if strings.Contains(issue, "unverified domain") {
			unverified = true
		}
	}
	if !suspicious {
		t.Errorf("issues missing suspicious-pattern hit: %v", result.Issues)
	}
	if !unverified {
		t.Errorf("issues missing unverified-domain hit: %v", result.Issues)
	}
}

func TestVerify_CleanTrustedArticle(t *testing.T) {
	v := testVerifier()

	summary := strings.Repeat("Solid reporting on an enterprise AI deployment. ", 3)[:120]
	result := v.Verify(model.CandidateArticle{
		Title:       "Enterprise AI platform expands into Europe",
		Summary:     summary,
		URL:         "https://techcrunch.com/2026/08/28/enterprise-ai-europe",
		SourceName:  "TechCrunch",
		PublishedAt: time.Now().Add(-2 * time.Hour),
	})

	if !result.IsValid {
		t.Errorf("expected admission, issues: %v", result.Issues)
	}
	if result.Confidence < 0.9 {
		t.Errorf("confidence = %.2f, want >= 0.9", result.Confidence)
	}
}

func TestVerify_PenaltiesAreMonotonic(t *testing.T) {
	v := testVerifier()

	clean := model.CandidateArticle{
		Title:       "Chipmaker reports quarterly results",
		Summary:     strings.Repeat("Earnings coverage with figures, guidance, and analyst commentary included. ", 2),
		URL:         "https://reuters.com/technology/chipmaker-results",
		SourceName:  "Reuters",
		PublishedAt: time.Now().Add(-3 * time.Hour),
	}
	base := v.Verify(clean)

	// Adding a fabricated-news indicator must never raise confidence.
	tainted := clean
	tainted.Summary = "Exclusive leak: " + tainted.Summary
	worse := v.Verify(tainted)

	if worse.Confidence > base.Confidence {
		t.Errorf("fabricated indicator raised confidence: %.2f -> %.2f", base.Confidence, worse.Confidence)
	}

	// Stacking a future publish date on top must not raise it either.
	tainted.PublishedAt = time.Now().Add(48 * time.Hour)
	worst := v.Verify(tainted)
	if worst.Confidence > worse.Confidence {
		t.Errorf("future date raised confidence: %.2f -> %.2f", worse.Confidence, worst.Confidence)
	}
}

func TestVerify_FutureAndStaleDates(t *testing.T) {
	v := testVerifier()

	base := model.CandidateArticle{
		Title:      "Robotics firm opens new plant",
		Summary:    strings.Repeat("Manufacturing expansion reported with local officials confirming. ", 2),
		URL:        "https://bloomberg.com/news/robotics-plant",
		SourceName: "Bloomberg",
	}

	future := base
	future.PublishedAt = time.Now().Add(24 * time.Hour)
	if got := v.Verify(future); got.Confidence > 0.5 {
		t.Errorf("future-dated article confidence = %.2f, want <= 0.5", got.Confidence)
	}

	stale := base
	stale.PublishedAt = time.Now().Add(-120 * 24 * time.Hour)
	fresh := base
	fresh.PublishedAt = time.Now().Add(-1 * time.Hour)

	if v.Verify(stale).Confidence >= v.Verify(fresh).Confidence {
		t.Error("stale article should score below fresh article")
	}
}

func TestVerify_RequiresVerifiedURL(t *testing.T) {
	v := testVerifier()

	// High confidence but nothing on the allow-list: still rejected.
	result := v.Verify(model.CandidateArticle{
		Title:       "Startup announces developer tools update",
		Summary:     strings.Repeat("A routine product update with documentation links and changelog. ", 2),
		URL:         "https://blog.smallstartup.io/update",
		SourceName:  "TechCrunch",
		PublishedAt: time.Now().Add(-2 * time.Hour),
	})

	if result.IsValid {
		t.Error("article with zero allow-listed URLs must not be admitted")
	}
}

func TestVerify_ShortSummaryPenalty(t *testing.T) {
	v := testVerifier()

	result := v.Verify(model.CandidateArticle{
		Title:       "Model update shipped",
		Summary:     "Tiny blurb.",
		URL:         "https://techcrunch.com/2026/08/28/model-update",
		SourceName:  "TechCrunch",
		PublishedAt: time.Now().Add(-1 * time.Hour),
	})

	found := false
	for _, issue := range result.Issues {
		if strings.Contains(issue, "summary shorter") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected short-summary issue, got %v", result.Issues)
	}
	if result.Confidence != 0.9 {
		t.Errorf("confidence = %.2f, want 0.9", result.Confidence)
	}
}

func TestTrustList_SuffixMatch(t *testing.T) {
	trust := NewTrustList([]string{"techcrunch.com", "reuters.com"})

	tests := []struct {
		url  string
		want bool
	}{
		{"https://techcrunch.com/story", true},
		{"https://www.techcrunch.com/story", true},
		{"https://api.reuters.com/story", true},
		{"https://nottechcrunch.com/story", false},
		{"https://techcrunch.com.evil.net/story", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := trust.VerifyURL(tt.url); got != tt.want {
			t.Errorf("VerifyURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
