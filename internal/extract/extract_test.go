package extract

import (
	"math"
	"math/rand"
	"testing"

	"github.com/marketbeacon/marketbeacon/internal/model"
)

func testExtractor() *Extractor {
	return NewExtractor(model.DefaultConfig().Extract)
}

func TestExtract_FundingEvent(t *testing.T) {
	e := testExtractor()

	ext := e.Extract("Acme raised $10 million in Series A led by Sequoia Capital", "art-1")

	if len(ext.Funding) != 1 {
		t.Fatalf("expected 1 funding event, got %d", len(ext.Funding))
	}
	ev := ext.Funding[0]

	if ev.Company != "Acme" {
		t.Errorf("company = %q, want Acme", ev.Company)
	}
	if ev.Amount != "$10.0M" {
		t.Errorf("amount = %q, want $10.0M", ev.Amount)
	}
	if ev.AmountUSD != 10_000_000 {
		t.Errorf("amountUSD = %v, want 10000000", ev.AmountUSD)
	}
	if ev.Round != "Series A" {
		t.Errorf("round = %q, want Series A", ev.Round)
	}

	foundSequoia := false
	for _, inv := range ev.Investors {
		if inv == "Sequoia Capital" {
			foundSequoia = true
		}
	}
	if !foundSequoia {
		t.Errorf("investors = %v, want to include Sequoia Capital", ev.Investors)
	}
	if ev.ArticleID != "art-1" {
		t.Errorf("articleID = %q", ev.ArticleID)
	}
}

func TestExtractInvestors_StopsAtTrailingProse(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"the round was led by Sequoia Capital after months of talks", []string{"Sequoia Capital"}},
		{"led by Sequoia Capital, Index Ventures and Accel before closing", []string{"Sequoia Capital", "Index Ventures", "Accel"}},
		{"with participation from Scale AI", []string{"Scale AI"}},
		{"nobody led anything here", nil},
	}

	for _, tt := range tests {
		got := extractInvestors(tt.text)
		if len(got) != len(tt.want) {
			t.Errorf("extractInvestors(%q) = %v, want %v", tt.text, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("extractInvestors(%q)[%d] = %q, want %q", tt.text, i, got[i], tt.want[i])
			}
		}
	}
}

func TestExtract_FundingRequiresKeywordAndAmount(t *testing.T) {
	e := testExtractor()

	if ext := e.Extract("Acme shipped a product update today", ""); len(ext.Funding) != 0 {
		t.Errorf("no funding keywords: expected none, got %+v", ext.Funding)
	}
	if ext := e.Extract("Acme raised eyebrows at the conference", ""); len(ext.Funding) != 0 {
		t.Errorf("no amount: expected none, got %+v", ext.Funding)
	}
}

func TestExtract_RoundPrecedence(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Startup Co raised $5 million in a Series B round", "Series B"},
		{"Startup Co raised $1 million in seed funding", "Seed"},
		{"Startup Co raised $100 million ahead of its IPO", "IPO"},
		{"Startup Co secured $30 million strategic investment", "Strategic"},
	}

	for _, tt := range tests {
		if got := detectRound(tt.text); got != tt.want {
			t.Errorf("detectRound(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		text    string
		wantUSD float64
		wantStr string
		wantOK  bool
	}{
		{"raised $10 million", 10e6, "$10.0M", true},
		{"a $2.5 billion valuation", 2.5e9, "$2.5B", true},
		{"secured 500m in debt", 500e6, "$500.0M", true},
		{"worth $3B overall", 3e9, "$3.0B", true},
		{"no numbers here", 0, "", false},
	}

	for _, tt := range tests {
		usd, display, ok := ParseAmount(tt.text)
		if ok != tt.wantOK || usd != tt.wantUSD || display != tt.wantStr {
			t.Errorf("ParseAmount(%q) = (%v, %q, %v), want (%v, %q, %v)",
				tt.text, usd, display, ok, tt.wantUSD, tt.wantStr, tt.wantOK)
		}
	}
}

func TestExtract_CompanyMentions(t *testing.T) {
	e := testExtractor()

	ext := e.Extract("OpenAI announces a partnership with Microsoft on enterprise tools", "art-2")

	companies := make(map[string]model.MentionType)
	for _, m := range ext.Mentions {
		companies[m.Company] = m.Type
	}

	if _, ok := companies["OpenAI"]; !ok {
		t.Errorf("expected OpenAI mention, got %v", companies)
	}
	if _, ok := companies["Microsoft"]; !ok {
		t.Errorf("expected Microsoft mention, got %v", companies)
	}
	// Partnership bucket outranks product-launch even though
	// "announces" also appears.
	if companies["OpenAI"] != model.MentionPartnership {
		t.Errorf("mention type = %q, want partnership", companies["OpenAI"])
	}
}

func TestExtract_MentionSentiment(t *testing.T) {
	e := testExtractor()

	pos := e.Extract("OpenAI reports record growth and a breakthrough quarter", "")
	if len(pos.Mentions) == 0 {
		t.Fatal("expected a mention")
	}
	if pos.Mentions[0].Sentiment <= 0 {
		t.Errorf("sentiment = %v, want positive", pos.Mentions[0].Sentiment)
	}

	neg := e.Extract("OpenAI faces lawsuit after data breach and layoffs", "")
	if neg.Mentions[0].Sentiment >= 0 {
		t.Errorf("sentiment = %v, want negative", neg.Mentions[0].Sentiment)
	}
}

func TestScoreSentiment_Clamped(t *testing.T) {
	positive := []string{"a", "b", "c", "d", "e", "f", "g"}
	score := scoreSentiment("a b c d e f g", positive, nil)
	if score != 1 {
		t.Errorf("score = %v, want clamp at 1", score)
	}

	negative := []string{"x", "y", "z", "w", "v", "u"}
	score = scoreSentiment("x y z w v u", nil, negative)
	if score != -1 {
		t.Errorf("score = %v, want clamp at -1", score)
	}
}

func TestExtract_Technologies(t *testing.T) {
	e := testExtractor()

	ext := e.Extract("Claude and GPT-4 are widely adopted, while every Humanoid Robot remains experimental", "")

	byName := make(map[string]model.TechnologyTrend)
	for _, tr := range ext.Trends {
		byName[tr.Name] = tr
	}

	claude, ok := byName["claude"]
	if !ok {
		t.Fatalf("expected claude trend, got %v", byName)
	}
	if claude.Category != model.CategoryLLM {
		t.Errorf("claude category = %q, want llm", claude.Category)
	}
	if claude.MentionCount != 1 {
		t.Errorf("mention count = %d, want 1", claude.MentionCount)
	}

	robot, ok := byName["humanoid robot"]
	if !ok {
		t.Fatalf("expected humanoid robot trend")
	}
	if robot.Category != model.CategoryRobotics {
		t.Errorf("robot category = %q, want robotics", robot.Category)
	}
}

func TestDetectStage(t *testing.T) {
	tests := []struct {
		text string
		want model.AdoptionStage
	}{
		{"the tool is now mainstream in enterprises", model.StageMainstream},
		{"an emerging approach to retrieval", model.StageEmerging},
		{"still an experimental prototype", model.StageExperimental},
		{"nothing stage-related here", model.StageEmerging},
	}

	for _, tt := range tests {
		if got := detectStage(tt.text); got != tt.want {
			t.Errorf("detectStage(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestRecordMention_RunningAverage(t *testing.T) {
	trend := model.TechnologyTrend{Name: "claude", MentionCount: 0}

	sentiments := []float64{0.4, -0.2, 0.8, 0.0, 0.6}
	sum := 0.0
	for _, s := range sentiments {
		trend.RecordMention(s, timeNow())
		sum += s
	}

	if trend.MentionCount != len(sentiments) {
		t.Fatalf("mention count = %d, want %d", trend.MentionCount, len(sentiments))
	}

	mean := sum / float64(len(sentiments))
	if math.Abs(trend.AvgSentiment-mean) > 1e-9 {
		t.Errorf("avg sentiment = %v, want %v", trend.AvgSentiment, mean)
	}
}

func TestRecordMention_RunningAverageRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 25; run++ {
		trend := model.TechnologyTrend{Name: "claude"}

		n := rng.Intn(100) + 1
		sum := 0.0
		for i := 0; i < n; i++ {
			s := rng.Float64()*2 - 1 // [-1,1)
			trend.RecordMention(s, timeNow())
			sum += s
		}

		mean := sum / float64(n)
		if math.Abs(trend.AvgSentiment-mean) > 1e-9 {
			t.Fatalf("run %d: avg sentiment after %d mentions = %v, want %v",
				run, n, trend.AvgSentiment, mean)
		}
		if trend.MentionCount != n {
			t.Fatalf("run %d: mention count = %d, want %d", run, trend.MentionCount, n)
		}
	}
}
