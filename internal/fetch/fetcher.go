// Package fetch holds the per-source-kind fetcher adapters. A
// Fetcher turns one configured source into a batch of candidate
// articles; fetch errors are isolated per source and never abort a
// collection cycle.
package fetch

import (
	"context"
	"fmt"

	"github.com/marketbeacon/marketbeacon/internal/model"
)

// Fetcher retrieves candidate articles for one configured source
type Fetcher interface {
	// Kind returns the source kind this fetcher handles
	Kind() string

	// Fetch returns the source's current items. Transient failures
	// return an error; the caller treats it as "zero articles this
	// cycle".
	Fetch(ctx context.Context, src model.SourceConfig) ([]model.CandidateArticle, error)
}

// Registry maps source kinds to fetchers
type Registry struct {
	fetchers map[string]Fetcher
}

// NewRegistry creates a registry from the given fetchers
func NewRegistry(fetchers ...Fetcher) *Registry {
	r := &Registry{fetchers: make(map[string]Fetcher, len(fetchers))}
	for _, f := range fetchers {
		r.fetchers[f.Kind()] = f
	}
	return r
}

// For returns the fetcher for a source's kind
func (r *Registry) For(src model.SourceConfig) (Fetcher, error) {
	f, ok := r.fetchers[src.Kind]
	if !ok {
		return nil, fmt.Errorf("no fetcher for source kind %q", src.Kind)
	}
	return f, nil
}
