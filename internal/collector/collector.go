// Package collector runs collection cycles: fetch every due source in
// parallel, filter and dedupe the merged batch, verify credibility,
// optionally analyze, persist admitted articles, and extract entities
// from them. A cycle is best-effort per source: one broken feed never
// fails the batch.
package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/marketbeacon/marketbeacon/internal/analyze"
	"github.com/marketbeacon/marketbeacon/internal/cache"
	"github.com/marketbeacon/marketbeacon/internal/dedup"
	"github.com/marketbeacon/marketbeacon/internal/extract"
	"github.com/marketbeacon/marketbeacon/internal/fetch"
	"github.com/marketbeacon/marketbeacon/internal/model"
	"github.com/marketbeacon/marketbeacon/internal/store"
	"github.com/marketbeacon/marketbeacon/internal/verify"
	"github.com/marketbeacon/marketbeacon/internal/worker"
)

// Invalidator is notified when a cycle lands new data, so derived
// caches can drop stale views.
type Invalidator interface {
	Invalidate()
}

// Result summarizes one collection cycle
type Result struct {
	SourcesDue       int           `json:"sources_due"`
	SourcesProcessed int           `json:"sources_processed"`
	CandidatesSeen   int           `json:"candidates_seen"`
	Duplicates       int           `json:"duplicates"`
	Rejected         int           `json:"rejected"`
	ArticlesAdded    int           `json:"articles_added"`
	Duration         time.Duration `json:"duration"`
	// Warning is set when the cycle completed but produced nothing it
	// should have, e.g. every due source was unreachable. Not an error:
	// the next cycle may well succeed.
	Warning string `json:"warning,omitempty"`
}

// Collector wires the full ingestion pipeline
type Collector struct {
	cfg       *model.Config
	registry  *fetch.Registry
	cache     *cache.SourceCache
	dedup     *dedup.Deduplicator
	verifier  *verify.Verifier
	extractor *extract.Extractor
	analyzer  analyze.Analyzer // nil when no provider is configured
	repo      store.Repository
	limiter   *worker.Limiter
	inval     Invalidator
	logger    *zap.Logger

	pace *rate.Limiter // analyzer call pacing
}

// New creates a collector. analyzer and inval may be nil.
func New(
	cfg *model.Config,
	registry *fetch.Registry,
	sc *cache.SourceCache,
	verifier *verify.Verifier,
	extractor *extract.Extractor,
	analyzer analyze.Analyzer,
	repo store.Repository,
	inval Invalidator,
	logger *zap.Logger,
) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}

	paceInterval := cfg.Analyzer.PaceInterval
	if paceInterval <= 0 {
		paceInterval = 500 * time.Millisecond
	}

	return &Collector{
		cfg:       cfg,
		registry:  registry,
		cache:     sc,
		dedup:     dedup.New(cfg.Collector.TitleSimilarity),
		verifier:  verifier,
		extractor: extractor,
		analyzer:  analyzer,
		repo:      repo,
		limiter:   worker.NewLimiter(cfg.Collector.SourceRateLimit, cfg.Collector.SourceRateBurst),
		inval:     inval,
		logger:    logger,
		pace:      rate.NewLimiter(rate.Every(paceInterval), 1),
	}
}

type fetchOutcome struct {
	src        model.SourceConfig
	candidates []model.CandidateArticle
	err        error
}

func (o *fetchOutcome) GetError() error { return o.err }

type fetchJob struct {
	src model.SourceConfig
	c   *Collector
}

// Execute fetches one source under its own timeout and rate budget
func (j *fetchJob) Execute(ctx context.Context) worker.Result {
	ctx, cancel := context.WithTimeout(ctx, j.c.cfg.Collector.SourceTimeout)
	defer cancel()

	if err := j.c.limiter.Wait(ctx, j.src.ID); err != nil {
		return &fetchOutcome{src: j.src, err: fmt.Errorf("rate wait for %s: %w", j.src.ID, err)}
	}

	fetcher, err := j.c.registry.For(j.src)
	if err != nil {
		return &fetchOutcome{src: j.src, err: err}
	}

	candidates, err := fetcher.Fetch(ctx, j.src)
	if err != nil {
		return &fetchOutcome{src: j.src, err: fmt.Errorf("fetching %s: %w", j.src.ID, err)}
	}
	return &fetchOutcome{src: j.src, candidates: candidates}
}

// Collect runs one full cycle over every due source.
func (c *Collector) Collect(ctx context.Context) (*Result, error) {
	start := time.Now()

	due := c.dueSources()
	result := &Result{SourcesDue: len(due)}
	if len(due) == 0 {
		result.Duration = time.Since(start)
		return result, nil
	}

	merged := c.fetchAll(ctx, due, result)
	result.CandidatesSeen = len(merged)

	if result.SourcesProcessed == 0 {
		result.Warning = "no sources reachable this cycle"
		result.Duration = time.Since(start)
		return result, nil
	}

	admitted, err := c.admit(ctx, merged, result)
	if err != nil {
		return nil, err
	}

	created, err := c.repo.CreateArticles(ctx, admitted)
	if err != nil {
		return nil, fmt.Errorf("persisting articles: %w", err)
	}
	result.ArticlesAdded = len(created)

	urls := make([]string, 0, len(created))
	for _, a := range created {
		urls = append(urls, a.URL)
	}
	c.cache.MarkSeen(urls)

	for _, a := range created {
		if err := c.ExtractEntities(ctx, a); err != nil {
			c.logger.Warn("entity extraction failed",
				zap.String("article_id", a.ID), zap.Error(err))
		}
	}

	if len(created) > 0 && c.inval != nil {
		c.inval.Invalidate()
	}

	result.Duration = time.Since(start)
	c.logger.Info("collection cycle complete",
		zap.Int("sources_due", result.SourcesDue),
		zap.Int("sources_processed", result.SourcesProcessed),
		zap.Int("candidates", result.CandidatesSeen),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("rejected", result.Rejected),
		zap.Int("added", result.ArticlesAdded),
		zap.Duration("took", result.Duration),
	)
	return result, nil
}

// dueSources filters configured sources by their fetch throttle
func (c *Collector) dueSources() []model.SourceConfig {
	var due []model.SourceConfig
	for _, src := range c.cfg.Sources {
		interval := time.Duration(src.Interval) * time.Minute
		if interval <= 0 {
			interval = time.Duration(c.cfg.Collector.DefaultInterval) * time.Minute
		}
		if c.cache.ShouldFetch(src.ID, interval) {
			due = append(due, src)
		}
	}
	return due
}

// fetchAll runs one pool job per due source and merges the candidates
func (c *Collector) fetchAll(ctx context.Context, due []model.SourceConfig, result *Result) []model.CandidateArticle {
	cycleCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := worker.NewPool(c.cfg.Collector.Workers)
	pool.Start()

	// The pool runs jobs under its own context; propagate cancellation
	// from the cycle so a dying caller stops in-flight fetches.
	go func() {
		<-cycleCtx.Done()
		pool.Shutdown()
	}()

	for _, src := range due {
		pool.Submit(&fetchJob{src: src, c: c})
	}

	var merged []model.CandidateArticle
	for _, r := range pool.Wait() {
		outcome, ok := r.(*fetchOutcome)
		if !ok {
			continue
		}
		if outcome.err != nil {
			c.logger.Warn("source fetch failed",
				zap.String("source", outcome.src.ID), zap.Error(outcome.err))
			continue
		}
		result.SourcesProcessed++
		c.cache.MarkFetched(outcome.src.ID, outcome.src.Name, len(outcome.candidates))
		merged = append(merged, outcome.candidates...)
	}
	return merged
}

// admit filters the merged batch down to persistable articles:
// URL shape, seen-set, duplicate, credibility, then relevance.
func (c *Collector) admit(ctx context.Context, merged []model.CandidateArticle, result *Result) ([]model.Article, error) {
	valid := c.dedup.FilterValidURLs(merged)

	unseen := valid[:0:0]
	for _, cand := range valid {
		if c.cache.IsSeen(cand.URL) {
			result.Duplicates++
			continue
		}
		unseen = append(unseen, cand)
	}

	unique := c.dedup.Dedupe(unseen)
	result.Duplicates += len(unseen) - len(unique)

	now := time.Now()
	var admitted []model.Article
	for _, cand := range unique {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		v := c.verifier.Verify(cand)
		if !v.IsValid {
			result.Rejected++
			c.logger.Debug("candidate rejected",
				zap.String("url", cand.URL),
				zap.Float64("confidence", v.Confidence),
				zap.Strings("issues", v.Issues))
			continue
		}

		analysis, keep, err := c.Analyze(ctx, cand)
		if err != nil {
			c.logger.Warn("analysis failed, admitting on verification alone",
				zap.String("url", cand.URL), zap.Error(err))
		} else if !keep {
			result.Rejected++
			continue
		}

		admitted = append(admitted, buildArticle(cand, v, analysis, now))
	}
	return admitted, nil
}

// Analyze returns the analyzer's judgment for a candidate, cached per
// URL. The second return reports whether the article clears the
// relevance gate; with no analyzer configured everything passes.
func (c *Collector) Analyze(ctx context.Context, cand model.CandidateArticle) (*model.Analysis, bool, error) {
	if c.analyzer == nil {
		return nil, true, nil
	}

	analysis, ok := c.cache.Analysis(cand.URL)
	if !ok {
		if err := c.pace.Wait(ctx); err != nil {
			return nil, false, err
		}
		var err error
		analysis, err = c.analyzer.Analyze(ctx, cand.Title, cand.Summary)
		if err != nil {
			return nil, false, fmt.Errorf("analyzer %s: %w", c.analyzer.Name(), err)
		}
		c.cache.CacheAnalysis(cand.URL, analysis)
	}

	keep := analysis.IsRelevant && analysis.RelevanceScore >= c.cfg.Analyzer.RelevanceThreshold
	return analysis, keep, nil
}

// ExtractEntities runs deterministic extraction over a persisted
// article and folds the results into the store. Safe to re-run:
// mentions and funding are keyed by (company, article), trend counts
// only accumulate through the repository. A failing insert is logged
// and does not stop the remaining entities of the same article; every
// failure is still reported to the caller.
func (c *Collector) ExtractEntities(ctx context.Context, a model.Article) error {
	ex := c.extractor.Extract(a.Title+". "+a.Summary, a.ID)

	var errs []error
	for _, m := range ex.Mentions {
		if _, err := c.repo.InsertMentionIfAbsent(ctx, m); err != nil {
			c.logger.Warn("mention insert failed",
				zap.String("article_id", a.ID), zap.String("company", m.Company), zap.Error(err))
			errs = append(errs, fmt.Errorf("inserting mention for %s: %w", m.Company, err))
		}
	}
	for _, ev := range ex.Funding {
		if _, err := c.repo.InsertFundingIfAbsent(ctx, ev); err != nil {
			c.logger.Warn("funding insert failed",
				zap.String("article_id", a.ID), zap.String("company", ev.Company), zap.Error(err))
			errs = append(errs, fmt.Errorf("inserting funding for %s: %w", ev.Company, err))
		}
	}
	for _, tr := range ex.Trends {
		if err := c.repo.RecordTechnologyMention(ctx, tr); err != nil {
			c.logger.Warn("trend record failed",
				zap.String("article_id", a.ID), zap.String("technology", tr.Name), zap.Error(err))
			errs = append(errs, fmt.Errorf("recording trend %s: %w", tr.Name, err))
		}
	}
	return errors.Join(errs...)
}

// buildArticle merges fetch, verification, and analysis into the
// immutable persisted form. With no analysis the verification
// confidence is scaled onto the 0-100 article scale and neutral
// defaults fill the judgment fields.
func buildArticle(cand model.CandidateArticle, v model.Verification, analysis *model.Analysis, now time.Time) model.Article {
	a := model.Article{
		Title:       cand.Title,
		Summary:     cand.Summary,
		URL:         cand.URL,
		SourceName:  cand.SourceName,
		SourceURL:   cand.SourceURL,
		PublishedAt: cand.PublishedAt,
		Breaking:    cand.Breaking,
		CreatedAt:   now,
	}

	if analysis == nil {
		a.Category = "general"
		a.Confidence = int(v.Confidence * 100)
		a.Disruption = model.DisruptionLow
		a.TimeToImpact = model.ImpactMediumTerm
		return a
	}

	a.Category = analysis.Category
	a.Confidence = analysis.Confidence
	if analysis.Summary != "" {
		a.Summary = analysis.Summary
	}
	a.Pros = analysis.Pros
	a.Cons = analysis.Cons
	a.ImpactScore = analysis.ImpactScore
	a.DevelopmentImpact = analysis.DevelopmentImpact
	a.MarketImpact = analysis.MarketImpact
	a.Disruption = analysis.Disruption
	a.TimeToImpact = analysis.TimeToImpact
	return a
}
