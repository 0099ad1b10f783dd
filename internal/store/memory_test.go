package store

import (
	"context"
	"testing"
	"time"

	"github.com/marketbeacon/marketbeacon/internal/model"
)

func TestMemory_CreateArticles_IdempotentOnURL(t *testing.T) {
	r := NewMemory()
	ctx := context.Background()

	first, err := r.CreateArticles(ctx, []model.Article{
		{Title: "A", URL: "https://techcrunch.com/a"},
		{Title: "B", URL: "https://techcrunch.com/b"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("created %d, want 2", len(first))
	}
	if first[0].ID == "" {
		t.Error("expected ID to be assigned")
	}

	second, err := r.CreateArticles(ctx, []model.Article{
		{Title: "A again", URL: "https://techcrunch.com/a"},
		{Title: "C", URL: "https://techcrunch.com/c"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(second) != 1 || second[0].Title != "C" {
		t.Errorf("expected only C to be created, got %+v", second)
	}

	all, _ := r.ArticlesSince(ctx, time.Time{})
	if len(all) != 3 {
		t.Errorf("stored %d articles, want 3", len(all))
	}
}

func TestMemory_InsertMentionIfAbsent(t *testing.T) {
	r := NewMemory()
	ctx := context.Background()

	m := model.CompanyMention{Company: "OpenAI", ArticleID: "art-1", Type: model.MentionFunding, ExtractedAt: time.Now()}

	created, err := r.InsertMentionIfAbsent(ctx, m)
	if err != nil || !created {
		t.Fatalf("first insert: created=%v err=%v", created, err)
	}

	// Same pair again, also with different company casing.
	m2 := m
	m2.Company = "openai"
	created, err = r.InsertMentionIfAbsent(ctx, m2)
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if created {
		t.Error("duplicate (company, article) pair must not insert")
	}

	// Independent mention without an article reference always inserts.
	indep := model.CompanyMention{Company: "OpenAI", ExtractedAt: time.Now()}
	for i := 0; i < 2; i++ {
		created, err = r.InsertMentionIfAbsent(ctx, indep)
		if err != nil || !created {
			t.Fatalf("independent insert %d: created=%v err=%v", i, created, err)
		}
	}

	all, _ := r.MentionsSince(ctx, time.Time{})
	if len(all) != 3 {
		t.Errorf("stored %d mentions, want 3", len(all))
	}
}

func TestMemory_InsertFundingIfAbsent(t *testing.T) {
	r := NewMemory()
	ctx := context.Background()

	ev := model.FundingEvent{Company: "Acme", ArticleID: "art-1", AmountUSD: 10e6, ExtractedAt: time.Now()}

	if created, _ := r.InsertFundingIfAbsent(ctx, ev); !created {
		t.Fatal("first insert should create")
	}
	if created, _ := r.InsertFundingIfAbsent(ctx, ev); created {
		t.Error("re-extraction of the same article must not duplicate")
	}
}

func TestMemory_RecordTechnologyMention_CountsAndMean(t *testing.T) {
	r := NewMemory()
	ctx := context.Background()

	sentiments := []float64{0.5, -0.5, 0.3}
	for _, s := range sentiments {
		patch := model.TechnologyTrend{
			Name:          "Claude",
			Category:      model.CategoryLLM,
			Stage:         model.StageEmerging,
			MentionCount:  1,
			AvgSentiment:  s,
			LastMentioned: time.Now(),
		}
		if err := r.RecordTechnologyMention(ctx, patch); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	trends, _ := r.TechnologyTrends(ctx)
	if len(trends) != 1 {
		t.Fatalf("got %d trends, want 1", len(trends))
	}

	trend := trends[0]
	if trend.Name != "claude" {
		t.Errorf("name = %q, want normalized claude", trend.Name)
	}
	if trend.MentionCount != 3 {
		t.Errorf("mention count = %d, want 3", trend.MentionCount)
	}

	mean := (0.5 - 0.5 + 0.3) / 3
	if diff := trend.AvgSentiment - mean; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("avg sentiment = %v, want %v", trend.AvgSentiment, mean)
	}
}

func TestMemory_SinceFilters(t *testing.T) {
	r := NewMemory()
	ctx := context.Background()

	old := model.CompanyMention{Company: "OpenAI", ExtractedAt: time.Now().Add(-48 * time.Hour)}
	recent := model.CompanyMention{Company: "Anthropic", ExtractedAt: time.Now()}
	_, _ = r.InsertMentionIfAbsent(ctx, old)
	_, _ = r.InsertMentionIfAbsent(ctx, recent)

	got, _ := r.MentionsSince(ctx, time.Now().Add(-1*time.Hour))
	if len(got) != 1 || got[0].Company != "Anthropic" {
		t.Errorf("since filter returned %+v", got)
	}
}
