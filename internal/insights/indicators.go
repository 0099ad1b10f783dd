package insights

import (
	"time"

	"go.uber.org/zap"

	"github.com/marketbeacon/marketbeacon/internal/model"
)

// indicatorInput bundles everything the indicator computations read
type indicatorInput struct {
	now      time.Time
	window   time.Duration
	mentions []model.CompanyMention
	funding  []model.FundingEvent
	trends   []model.TechnologyTrend
	articles []model.Article
}

// buildIndicators computes the four market indicators. Each one is
// isolated: a panic inside a computation yields that indicator's
// neutral fallback {0, stable, 0.5} instead of failing the batch.
func buildIndicators(in indicatorInput, logger *zap.Logger) []model.MarketTrendIndicator {
	compute := func(name string, fn func() model.MarketTrendIndicator) model.MarketTrendIndicator {
		defer func() {
			if r := recover(); r != nil {
				logger.Warn("indicator computation failed", zap.String("indicator", name), zap.Any("panic", r))
			}
		}()
		out := fn()
		out.Name = name
		return out
	}

	fallback := func(ind model.MarketTrendIndicator, name string) model.MarketTrendIndicator {
		if ind.Name == "" {
			return model.MarketTrendIndicator{Name: name, Value: 0, Direction: model.TrendStable, Confidence: 0.5}
		}
		return ind
	}

	names := []string{"funding-velocity", "technology-diversity", "market-sentiment", "innovation-rate"}
	fns := []func() model.MarketTrendIndicator{
		func() model.MarketTrendIndicator { return fundingVelocity(in) },
		func() model.MarketTrendIndicator { return technologyDiversity(in) },
		func() model.MarketTrendIndicator { return marketSentiment(in) },
		func() model.MarketTrendIndicator { return innovationRate(in) },
	}

	out := make([]model.MarketTrendIndicator, 0, len(names))
	for i, name := range names {
		out = append(out, fallback(compute(name, fns[i]), name))
	}
	return out
}

// fundingVelocity counts funding events in the recent window against
// the window before it. Direction flips on a 10% band so a single
// event either way does not flap the trend.
func fundingVelocity(in indicatorInput) model.MarketTrendIndicator {
	cutRecent := in.now.Add(-in.window)
	cutPrior := in.now.Add(-2 * in.window)

	recent, prior := 0, 0
	for _, ev := range in.funding {
		switch {
		case !ev.ExtractedAt.Before(cutRecent):
			recent++
		case !ev.ExtractedAt.Before(cutPrior):
			prior++
		}
	}

	return model.MarketTrendIndicator{
		Value:      float64(recent),
		Direction:  compareWindows(float64(recent), float64(prior)),
		Confidence: sampleConfidence(recent + prior),
	}
}

// technologyDiversity is the count of distinct technologies with a
// recent mention, against all tracked technologies.
func technologyDiversity(in indicatorInput) model.MarketTrendIndicator {
	cutoff := in.now.Add(-in.window)
	active := 0
	for _, tr := range in.trends {
		if !tr.LastMentioned.Before(cutoff) {
			active++
		}
	}

	direction := model.TrendStable
	if len(in.trends) > 0 {
		share := float64(active) / float64(len(in.trends))
		if share > 0.6 {
			direction = model.TrendRising
		} else if share < 0.2 {
			direction = model.TrendDeclining
		}
	}

	return model.MarketTrendIndicator{
		Value:      float64(active),
		Direction:  direction,
		Confidence: sampleConfidence(len(in.trends)),
	}
}

// marketSentiment maps the mean mention sentiment in the recent window
// from [-1,1] onto a 0-100 scale.
func marketSentiment(in indicatorInput) model.MarketTrendIndicator {
	cutoff := in.now.Add(-in.window)
	sum, count := 0.0, 0
	for _, m := range in.mentions {
		if m.ExtractedAt.Before(cutoff) {
			continue
		}
		sum += m.Sentiment
		count++
	}
	if count == 0 {
		return model.MarketTrendIndicator{Value: 50, Direction: model.TrendStable, Confidence: 0.5}
	}

	avg := sum / float64(count)
	direction := model.TrendStable
	if avg > 0.1 {
		direction = model.TrendRising
	} else if avg < -0.1 {
		direction = model.TrendDeclining
	}

	return model.MarketTrendIndicator{
		Value:      (avg + 1) / 2 * 100,
		Direction:  direction,
		Confidence: sampleConfidence(count),
	}
}

// innovationRate counts technologies whose first stored appearance
// falls inside the recent window.
func innovationRate(in indicatorInput) model.MarketTrendIndicator {
	firstSeen := make(map[string]time.Time)
	for _, a := range in.articles {
		at := a.PublishedAt
		if at.IsZero() {
			at = a.CreatedAt
		}
		for _, tr := range in.trends {
			if !mentionsTechnology(a, tr.Name) {
				continue
			}
			if prev, ok := firstSeen[tr.Name]; !ok || at.Before(prev) {
				firstSeen[tr.Name] = at
			}
		}
	}

	cutoff := in.now.Add(-in.window)
	fresh := 0
	for _, first := range firstSeen {
		if !first.Before(cutoff) {
			fresh++
		}
	}

	direction := model.TrendStable
	if fresh > 0 {
		direction = model.TrendRising
	}

	return model.MarketTrendIndicator{
		Value:      float64(fresh),
		Direction:  direction,
		Confidence: sampleConfidence(len(firstSeen)),
	}
}

// compareWindows applies the 10% hysteresis band
func compareWindows(recent, prior float64) model.TrendDirection {
	switch {
	case recent > prior*1.1:
		return model.TrendRising
	case recent < prior*0.9:
		return model.TrendDeclining
	}
	return model.TrendStable
}

// sampleConfidence grows with sample size, bounded to [0.5, 0.95]
func sampleConfidence(n int) float64 {
	c := 0.5 + float64(n)*0.025
	if c > 0.95 {
		c = 0.95
	}
	return c
}
