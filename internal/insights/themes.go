package insights

import (
	"sort"
	"time"

	"github.com/marketbeacon/marketbeacon/internal/model"
)

// buildEmergingThemes clusters recent articles by their analyzer
// category and keeps the clusters with momentum. A theme's growth rate
// is related articles normalized to a 30-day month.
func buildEmergingThemes(articles []model.Article, now time.Time, window time.Duration) []model.EmergingTheme {
	cutoff := now.Add(-window)

	type cluster struct {
		first time.Time
		count int
	}
	clusters := make(map[string]*cluster)

	for _, a := range articles {
		if a.Category == "" || a.CreatedAt.Before(cutoff) {
			continue
		}
		c, ok := clusters[a.Category]
		if !ok {
			c = &cluster{first: a.CreatedAt}
			clusters[a.Category] = c
		}
		c.count++
		if a.CreatedAt.Before(c.first) {
			c.first = a.CreatedAt
		}
	}

	themes := make([]model.EmergingTheme, 0, len(clusters))
	for category, c := range clusters {
		days := now.Sub(c.first).Hours() / 24
		if days < 1 {
			days = 1
		}
		growth := float64(c.count) / days * daysPerMonth

		themes = append(themes, model.EmergingTheme{
			Theme:           category,
			FirstDetected:   c.first,
			GrowthRate:      growth,
			RelatedArticles: c.count,
			Potential:       themePotential(growth, c.count),
		})
	}

	sort.Slice(themes, func(i, j int) bool {
		if themes[i].RelatedArticles != themes[j].RelatedArticles {
			return themes[i].RelatedArticles > themes[j].RelatedArticles
		}
		return themes[i].Theme < themes[j].Theme
	})
	return themes
}

// themePotential tiers a theme by momentum and volume: high needs
// both, medium needs either.
func themePotential(growthRate float64, relatedArticles int) model.PotentialImpact {
	switch {
	case growthRate > 50 && relatedArticles > 20:
		return model.PotentialHigh
	case growthRate > 20 || relatedArticles > 10:
		return model.PotentialMedium
	}
	return model.PotentialLow
}
