package insights

import (
	"fmt"
	"sort"
	"time"

	"github.com/marketbeacon/marketbeacon/internal/model"
	"github.com/marketbeacon/marketbeacon/internal/textutil"
)

const daysPerMonth = 30.0

// buildCompanyGrowth derives per-company growth metrics from the
// mention and funding corpus.
func buildCompanyGrowth(mentions []model.CompanyMention, funding []model.FundingEvent, mentionMilestone int) []model.CompanyGrowthMetric {
	byCompany := make(map[string][]model.CompanyMention)
	display := make(map[string]string)
	for _, m := range mentions {
		key := textutil.NormalizeKey(m.Company)
		if key == "" {
			continue
		}
		byCompany[key] = append(byCompany[key], m)
		if _, ok := display[key]; !ok {
			display[key] = m.Company
		}
	}

	fundingByCompany := make(map[string][]model.FundingEvent)
	for _, ev := range funding {
		key := textutil.NormalizeKey(ev.Company)
		fundingByCompany[key] = append(fundingByCompany[key], ev)
	}

	var metrics []model.CompanyGrowthMetric
	for key, ms := range byCompany {
		sort.Slice(ms, func(i, j int) bool { return ms[i].ExtractedAt.Before(ms[j].ExtractedAt) })

		first := ms[0].ExtractedAt
		last := ms[len(ms)-1].ExtractedAt

		metrics = append(metrics, model.CompanyGrowthMetric{
			Company:        display[key],
			FirstMention:   first,
			TotalMentions:  len(ms),
			GrowthRate:     growthRate(len(ms), first, last),
			FundingHistory: fundingByCompany[key],
			SentimentTrend: sentimentTrend(ms),
			Milestones:     milestones(fundingByCompany[key], len(ms), mentionMilestone),
		})
	}

	sort.Slice(metrics, func(i, j int) bool {
		if metrics[i].TotalMentions != metrics[j].TotalMentions {
			return metrics[i].TotalMentions > metrics[j].TotalMentions
		}
		return metrics[i].Company < metrics[j].Company
	})
	return metrics
}

// growthRate is (mentions-1) / monthsBetween * 100, with the month
// span floored at 1 to keep short histories from blowing up the rate.
func growthRate(mentionCount int, first, last time.Time) float64 {
	months := last.Sub(first).Hours() / 24 / daysPerMonth
	if months < 1 {
		months = 1
	}
	return float64(mentionCount-1) / months * 100
}

// sentimentTrend collapses mentions into a per-month mean series
func sentimentTrend(ms []model.CompanyMention) []model.SentimentPoint {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, m := range ms {
		month := m.ExtractedAt.UTC().Format("2006-01")
		sums[month] += m.Sentiment
		counts[month]++
	}

	months := make([]string, 0, len(sums))
	for month := range sums {
		months = append(months, month)
	}
	sort.Strings(months)

	points := make([]model.SentimentPoint, 0, len(months))
	for _, month := range months {
		points = append(points, model.SentimentPoint{
			Month:     month,
			Sentiment: sums[month] / float64(counts[month]),
		})
	}
	return points
}

// milestones lists funding rounds plus the mention-count threshold
func milestones(funding []model.FundingEvent, mentionCount, mentionMilestone int) []string {
	var out []string
	sorted := make([]model.FundingEvent, len(funding))
	copy(sorted, funding)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ExtractedAt.Before(sorted[j].ExtractedAt) })

	for _, ev := range sorted {
		out = append(out, fmt.Sprintf("Raised %s in %s round", ev.Amount, ev.Round))
	}
	if mentionMilestone > 0 && mentionCount > mentionMilestone {
		out = append(out, fmt.Sprintf("Reached %d mentions", mentionMilestone))
	}
	return out
}
