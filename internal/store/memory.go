package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/marketbeacon/marketbeacon/internal/model"
	"github.com/marketbeacon/marketbeacon/internal/textutil"
)

// MemoryRepository is the in-memory Repository used in development
// and tests. Safe for concurrent use.
type MemoryRepository struct {
	mu          sync.RWMutex
	articles    []model.Article
	articleURLs map[string]bool
	mentions    []model.CompanyMention
	mentionKeys map[string]bool
	funding     []model.FundingEvent
	fundingKeys map[string]bool
	trends      map[string]*model.TechnologyTrend
}

// NewMemory creates an empty in-memory repository
func NewMemory() *MemoryRepository {
	return &MemoryRepository{
		articleURLs: make(map[string]bool),
		mentionKeys: make(map[string]bool),
		fundingKeys: make(map[string]bool),
		trends:      make(map[string]*model.TechnologyTrend),
	}
}

// CreateArticles persists admitted articles, skipping URLs already
// stored.
func (r *MemoryRepository) CreateArticles(ctx context.Context, articles []model.Article) ([]model.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var created []model.Article
	for _, a := range articles {
		if a.URL == "" || r.articleURLs[a.URL] {
			continue
		}
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = time.Now().UTC()
		}
		r.articleURLs[a.URL] = true
		r.articles = append(r.articles, a)
		created = append(created, a)
	}
	return created, nil
}

// ArticlesSince returns articles created at or after the cutoff
func (r *MemoryRepository) ArticlesSince(ctx context.Context, since time.Time) ([]model.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.Article
	for _, a := range r.articles {
		if since.IsZero() || !a.CreatedAt.Before(since) {
			out = append(out, a)
		}
	}
	return out, nil
}

func mentionKey(m model.CompanyMention) string {
	return textutil.NormalizeKey(m.Company) + "|" + m.ArticleID
}

// InsertMentionIfAbsent inserts unless the (company, article) pair
// exists. Mentions without an article always insert.
func (r *MemoryRepository) InsertMentionIfAbsent(ctx context.Context, m model.CompanyMention) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.ArticleID != "" {
		key := mentionKey(m)
		if r.mentionKeys[key] {
			return false, nil
		}
		r.mentionKeys[key] = true
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	r.mentions = append(r.mentions, m)
	return true, nil
}

// MentionsSince returns mentions extracted at or after the cutoff
func (r *MemoryRepository) MentionsSince(ctx context.Context, since time.Time) ([]model.CompanyMention, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.CompanyMention
	for _, m := range r.mentions {
		if since.IsZero() || !m.ExtractedAt.Before(since) {
			out = append(out, m)
		}
	}
	return out, nil
}

func fundingKey(ev model.FundingEvent) string {
	return textutil.NormalizeKey(ev.Company) + "|" + ev.ArticleID
}

// InsertFundingIfAbsent inserts unless the (company, article) pair
// exists.
func (r *MemoryRepository) InsertFundingIfAbsent(ctx context.Context, ev model.FundingEvent) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ev.ArticleID != "" {
		key := fundingKey(ev)
		if r.fundingKeys[key] {
			return false, nil
		}
		r.fundingKeys[key] = true
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	r.funding = append(r.funding, ev)
	return true, nil
}

// FundingSince returns funding events extracted at or after the
// cutoff.
func (r *MemoryRepository) FundingSince(ctx context.Context, since time.Time) ([]model.FundingEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.FundingEvent
	for _, ev := range r.funding {
		if since.IsZero() || !ev.ExtractedAt.Before(since) {
			out = append(out, ev)
		}
	}
	return out, nil
}

// RecordTechnologyMention folds one observation into the trend table
func (r *MemoryRepository) RecordTechnologyMention(ctx context.Context, patch model.TechnologyTrend) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := textutil.NormalizeKey(patch.Name)
	existing, ok := r.trends[key]
	if !ok {
		patch.Name = key
		if patch.MentionCount < 1 {
			patch.MentionCount = 1
		}
		r.trends[key] = &patch
		return nil
	}

	existing.RecordMention(patch.AvgSentiment, patch.LastMentioned)
	existing.Stage = patch.Stage
	return nil
}

// TechnologyTrends returns all trend accumulators
func (r *MemoryRepository) TechnologyTrends(ctx context.Context) ([]model.TechnologyTrend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.TechnologyTrend, 0, len(r.trends))
	for _, t := range r.trends {
		out = append(out, *t)
	}
	return out, nil
}
