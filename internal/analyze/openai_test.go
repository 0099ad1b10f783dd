package analyze

import (
	"testing"
)

func TestParseAnalysis(t *testing.T) {
	content := `{"category":"funding","confidence":85,"summary":"A startup raised money.","is_relevant":true,"relevance_score":92,"impact_score":7,"disruption":"moderate","time_to_impact":"short-term"}`

	a, err := parseAnalysis(content)
	if err != nil {
		t.Fatalf("parseAnalysis: %v", err)
	}
	if a.Category != "funding" || a.Confidence != 85 || a.RelevanceScore != 92 {
		t.Errorf("unexpected analysis: %+v", a)
	}
	if !a.IsRelevant {
		t.Error("expected relevant")
	}
}

func TestParseAnalysis_CodeFence(t *testing.T) {
	content := "```json\n{\"category\":\"research\",\"confidence\":70,\"is_relevant\":false,\"relevance_score\":20}\n```"

	a, err := parseAnalysis(content)
	if err != nil {
		t.Fatalf("parseAnalysis: %v", err)
	}
	if a.Category != "research" || a.IsRelevant {
		t.Errorf("unexpected analysis: %+v", a)
	}
}

func TestParseAnalysis_ClampsDomains(t *testing.T) {
	content := `{"category":"other","confidence":140,"relevance_score":-5,"impact_score":25}`

	a, err := parseAnalysis(content)
	if err != nil {
		t.Fatalf("parseAnalysis: %v", err)
	}
	if a.Confidence != 100 {
		t.Errorf("confidence = %d, want clamp to 100", a.Confidence)
	}
	if a.RelevanceScore != 0 {
		t.Errorf("relevance = %d, want clamp to 0", a.RelevanceScore)
	}
	if a.ImpactScore != 10 {
		t.Errorf("impact = %d, want clamp to 10", a.ImpactScore)
	}
}

func TestParseAnalysis_Malformed(t *testing.T) {
	if _, err := parseAnalysis("not json at all"); err == nil {
		t.Error("expected error for malformed response")
	}
}

func TestNew_DisabledProvider(t *testing.T) {
	a, err := New(testConfig(""))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a != nil {
		t.Error("empty provider should disable the analyzer")
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	if _, err := New(testConfig("watson")); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewOpenAIAnalyzer_RequiresKey(t *testing.T) {
	cfg := testConfig("openai")
	cfg.APIKey = ""
	if _, err := NewOpenAIAnalyzer(cfg); err == nil {
		t.Error("expected error without API key")
	}
}

func TestNewOllamaAnalyzer_NoKeyRequired(t *testing.T) {
	cfg := testConfig("ollama")
	cfg.APIKey = ""

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.Name() != "ollama" {
		t.Errorf("name = %q, want ollama", a.Name())
	}
}
