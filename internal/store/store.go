// Package store is the entity repository: admitted articles, company
// mentions, funding events, and technology trends. The repository is
// the single source of truth; every derived view (insight cache
// included) must be rebuildable from it.
package store

import (
	"context"
	"time"

	"github.com/marketbeacon/marketbeacon/internal/model"
)

// Repository defines create/read operations over the entity store.
//
// Insert*IfAbsent methods implement the idempotence contract for
// re-extraction: mentions and funding events are keyed by
// (company, article). Entities without an article reference are
// independently creatable and always insert.
type Repository interface {
	// CreateArticles persists admitted articles, idempotent on URL.
	// Returns only the articles that were actually created.
	CreateArticles(ctx context.Context, articles []model.Article) ([]model.Article, error)

	// ArticlesSince returns articles created at or after the cutoff.
	// A zero cutoff returns everything.
	ArticlesSince(ctx context.Context, since time.Time) ([]model.Article, error)

	// InsertMentionIfAbsent inserts a mention unless one already
	// exists for the same (company, article) pair. Reports whether a
	// row was created.
	InsertMentionIfAbsent(ctx context.Context, m model.CompanyMention) (bool, error)

	// MentionsSince returns mentions extracted at or after the cutoff
	MentionsSince(ctx context.Context, since time.Time) ([]model.CompanyMention, error)

	// InsertFundingIfAbsent inserts a funding event unless one exists
	// for the same (company, article) pair.
	InsertFundingIfAbsent(ctx context.Context, ev model.FundingEvent) (bool, error)

	// FundingSince returns funding events extracted at or after the
	// cutoff.
	FundingSince(ctx context.Context, since time.Time) ([]model.FundingEvent, error)

	// RecordTechnologyMention folds one trend observation into the
	// per-technology accumulator: creates the trend on first sight,
	// otherwise increments the mention count and updates the running
	// sentiment mean. The count never decrements.
	RecordTechnologyMention(ctx context.Context, patch model.TechnologyTrend) error

	// TechnologyTrends returns all trend accumulators
	TechnologyTrends(ctx context.Context) ([]model.TechnologyTrend, error)
}
