// Package insights is the accumulation engine: it folds the entity
// store into derived market views (company growth, adoption curves,
// investor patterns, trend indicators, emerging themes). Every view is
// recomputed from the repository; the cache only buys time, never
// truth.
package insights

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/marketbeacon/marketbeacon/internal/cache"
	"github.com/marketbeacon/marketbeacon/internal/model"
	"github.com/marketbeacon/marketbeacon/internal/store"
	"github.com/marketbeacon/marketbeacon/internal/textutil"
)

const insightsCacheKey = "insights:accumulated"

// Engine builds AccumulatedInsights from the repository
type Engine struct {
	repo   store.Repository
	cache  *cache.SourceCache
	cfg    model.InsightsConfig
	logger *zap.Logger

	nowFunc func() time.Time
}

// New creates an insights engine
func New(repo store.Repository, c *cache.SourceCache, cfg model.InsightsConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		repo:    repo,
		cache:   c,
		cfg:     cfg,
		logger:  logger,
		nowFunc: time.Now,
	}
}

// Build returns the accumulated insight view, served from cache when a
// fresh copy exists.
func (e *Engine) Build(ctx context.Context) (*model.AccumulatedInsights, error) {
	if e.cache != nil {
		if v, ok := e.cache.Get(insightsCacheKey); ok {
			if cached, ok := v.(*model.AccumulatedInsights); ok {
				return cached, nil
			}
		}
	}

	insights, err := e.rebuild(ctx)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.cache.Set(insightsCacheKey, insights, e.cfg.CacheTTL)
	}
	return insights, nil
}

// Invalidate drops the cached view so the next Build recomputes
func (e *Engine) Invalidate() {
	if e.cache != nil {
		e.cache.Invalidate(insightsCacheKey)
	}
}

func (e *Engine) rebuild(ctx context.Context) (*model.AccumulatedInsights, error) {
	articles, err := e.repo.ArticlesSince(ctx, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("loading articles: %w", err)
	}
	mentions, err := e.repo.MentionsSince(ctx, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("loading mentions: %w", err)
	}
	funding, err := e.repo.FundingSince(ctx, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("loading funding events: %w", err)
	}
	trends, err := e.repo.TechnologyTrends(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading technology trends: %w", err)
	}

	now := e.nowFunc()
	window := time.Duration(e.cfg.RecentWindowDays) * 24 * time.Hour
	if window <= 0 {
		window = 30 * 24 * time.Hour
	}

	totalTechMentions := 0
	for _, tr := range trends {
		totalTechMentions += tr.MentionCount
	}

	insights := &model.AccumulatedInsights{
		GeneratedAt: now,
		Companies:   buildCompanyGrowth(mentions, funding, e.cfg.MentionMilestone),
		Adoption:    buildAdoptionCurves(trends, articles, totalTechMentions),
		Investors:   buildInvestorPatterns(funding, articles),
		Indicators: buildIndicators(indicatorInput{
			now:      now,
			window:   window,
			mentions: mentions,
			funding:  funding,
			trends:   trends,
			articles: articles,
		}, e.logger),
		Themes: buildEmergingThemes(articles, now, window),
	}

	e.logger.Debug("insights rebuilt",
		zap.Int("companies", len(insights.Companies)),
		zap.Int("adoption_curves", len(insights.Adoption)),
		zap.Int("investors", len(insights.Investors)),
		zap.Int("themes", len(insights.Themes)),
	)
	return insights, nil
}

func mentionsTechnology(a model.Article, tech string) bool {
	return textutil.ContainsWholeWord(a.Title+" "+a.Summary, tech)
}
