package cli

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/marketbeacon/marketbeacon/internal/analyze"
	"github.com/marketbeacon/marketbeacon/internal/cache"
	"github.com/marketbeacon/marketbeacon/internal/collector"
	"github.com/marketbeacon/marketbeacon/internal/extract"
	"github.com/marketbeacon/marketbeacon/internal/fetch"
	"github.com/marketbeacon/marketbeacon/internal/insights"
	"github.com/marketbeacon/marketbeacon/internal/model"
	"github.com/marketbeacon/marketbeacon/internal/store"
	"github.com/marketbeacon/marketbeacon/internal/verify"
)

// app is the wired application: every long-lived component behind the
// CLI commands and the HTTP server.
type app struct {
	cfg       *model.Config
	logger    *zap.Logger
	repo      store.Repository
	cache     *cache.SourceCache
	verifier  *verify.Verifier
	collector *collector.Collector
	engine    *insights.Engine
}

// loadConfig layers viper state over the built-in defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.Analyzer.Provider != "" && cfg.Analyzer.APIKey == "" {
		cfg.Analyzer.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return cfg, nil
}

// newApp wires the full component graph from configuration
func newApp(cfg *model.Config) (*app, error) {
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	repo, err := newRepository(cfg, logger)
	if err != nil {
		return nil, err
	}

	sc := cache.NewSourceCache(
		cache.NewMemoryCache(cfg.Cache.AnalysisTTL, cfg.Cache.CleanupInterval),
		cfg.Cache,
	)

	analyzer, err := analyze.New(cfg.Analyzer)
	if err != nil {
		return nil, fmt.Errorf("configuring analyzer: %w", err)
	}

	verifier := verify.New(cfg.Verify)
	engine := insights.New(repo, sc, cfg.Insights, logger)

	registry := fetch.NewRegistry(
		fetch.NewFeedFetcher(cfg.HTTP),
		fetch.NewSearchFetcher(cfg.HTTP, os.Getenv("NEWSAPI_KEY")),
		fetch.NewFinancialFetcher(cfg.HTTP, os.Getenv("ALPHAVANTAGE_KEY")),
	)

	col := collector.New(
		cfg,
		registry,
		sc,
		verifier,
		extract.NewExtractor(cfg.Extract),
		analyzer,
		repo,
		engine,
		logger,
	)

	return &app{
		cfg:       cfg,
		logger:    logger,
		repo:      repo,
		cache:     sc,
		verifier:  verifier,
		collector: col,
		engine:    engine,
	}, nil
}

func (a *app) Close() {
	_ = a.logger.Sync()
}

// newRepository picks Postgres when a DSN is configured, otherwise the
// in-memory store.
func newRepository(cfg *model.Config, logger *zap.Logger) (store.Repository, error) {
	if cfg.Database.DSN == "" {
		logger.Debug("using in-memory repository")
		return store.NewMemory(), nil
	}

	repo, err := store.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	logger.Debug("using postgres repository")
	return repo, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.OutputPaths = []string{"stderr"}
	return zcfg.Build()
}
