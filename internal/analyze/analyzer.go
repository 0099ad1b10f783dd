// Package analyze wraps the external article analyzer. The pipeline
// treats it as an opaque judgment provider: it gets a title and body,
// and returns category, confidence, summary, relevance, and impact
// fields. Low relevance means "discard", never an error.
package analyze

import (
	"context"

	"github.com/marketbeacon/marketbeacon/internal/model"
)

// Analyzer defines the interface for article analyzers
type Analyzer interface {
	// Name returns the analyzer name
	Name() string

	// Analyze judges a single article's title and body
	Analyze(ctx context.Context, title, body string) (*model.Analysis, error)

	// IsAvailable checks if the analyzer is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// New builds the configured analyzer, or nil when analysis is
// disabled. The collector runs purely on deterministic extraction in
// that case.
func New(cfg model.AnalyzerConfig) (Analyzer, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "openai":
		return NewOpenAIAnalyzer(cfg)
	case "ollama":
		return NewOllamaAnalyzer(cfg)
	default:
		return nil, errUnknownProvider(cfg.Provider)
	}
}

type errUnknownProvider string

func (e errUnknownProvider) Error() string {
	return "unknown analyzer provider: " + string(e)
}
