package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter implements per-source rate limiting. Each source ID gets
// its own token bucket so a chatty source cannot starve the others.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a limiter with a default per-source rate
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until the source's bucket allows a request
func (l *Limiter) Wait(ctx context.Context, sourceID string) error {
	return l.limiterFor(sourceID).Wait(ctx)
}

// Allow reports whether a request may proceed without waiting
func (l *Limiter) Allow(sourceID string) bool {
	return l.limiterFor(sourceID).Allow()
}

// SetRate overrides the rate for one source
func (l *Limiter) SetRate(sourceID string, requestsPerSecond float64, burst int) {
	if burst <= 0 {
		burst = l.defaultBurst
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limiters[sourceID] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

func (l *Limiter) limiterFor(sourceID string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[sourceID]
	l.mu.RUnlock()
	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, exists := l.limiters[sourceID]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[sourceID] = limiter
	return limiter
}
