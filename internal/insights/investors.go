package insights

import (
	"sort"

	"github.com/marketbeacon/marketbeacon/internal/model"
	"github.com/marketbeacon/marketbeacon/internal/textutil"
)

// buildInvestorPatterns aggregates funding events per investor. The
// articles slice supplies sector focus: the analyzer category of each
// article an investor's events came from.
func buildInvestorPatterns(events []model.FundingEvent, articles []model.Article) []model.InvestorPattern {
	categoryByArticle := make(map[string]string, len(articles))
	for _, a := range articles {
		if a.Category != "" {
			categoryByArticle[a.ID] = a.Category
		}
	}

	type acc struct {
		display    string
		events     []model.FundingEvent
		coCounts   map[string]int
		coDisplay  map[string]string
		sectors    map[string]int
		checkSum   float64
		checkCount int
	}
	byInvestor := make(map[string]*acc)

	for _, ev := range events {
		for _, inv := range ev.Investors {
			key := textutil.NormalizeKey(inv)
			if key == "" {
				continue
			}
			a, ok := byInvestor[key]
			if !ok {
				a = &acc{
					display:   inv,
					coCounts:  make(map[string]int),
					coDisplay: make(map[string]string),
					sectors:   make(map[string]int),
				}
				byInvestor[key] = a
			}
			a.events = append(a.events, ev)
			if ev.AmountUSD > 0 {
				a.checkSum += ev.AmountUSD
				a.checkCount++
			}
			if sector := categoryByArticle[ev.ArticleID]; sector != "" {
				a.sectors[sector]++
			}
			for _, co := range ev.Investors {
				coKey := textutil.NormalizeKey(co)
				if coKey == "" || coKey == key {
					continue
				}
				a.coCounts[coKey]++
				if _, seen := a.coDisplay[coKey]; !seen {
					a.coDisplay[coKey] = co
				}
			}
		}
	}

	patterns := make([]model.InvestorPattern, 0, len(byInvestor))
	for _, a := range byInvestor {
		avgCheck := 0.0
		if a.checkCount > 0 {
			avgCheck = a.checkSum / float64(a.checkCount)
		}

		patterns = append(patterns, model.InvestorPattern{
			Investor:        a.display,
			InvestmentCount: len(a.events),
			AvgCheckUSD:     avgCheck,
			PreferredStages: topKeys(stageCounts(a.events), 3),
			SectorFocus:     topKeys(a.sectors, 3),
			CoInvestors:     coInvestorPairs(a.coCounts, a.coDisplay),
			SuccessRate:     followOnRate(a.events, events),
		})
	}

	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].InvestmentCount != patterns[j].InvestmentCount {
			return patterns[i].InvestmentCount > patterns[j].InvestmentCount
		}
		return patterns[i].Investor < patterns[j].Investor
	})
	return patterns
}

func stageCounts(events []model.FundingEvent) map[string]int {
	counts := make(map[string]int)
	for _, ev := range events {
		if ev.Round != "" {
			counts[ev.Round]++
		}
	}
	return counts
}

// topKeys returns the n most frequent keys, ties broken alphabetically
func topKeys(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

func coInvestorPairs(counts map[string]int, display map[string]string) []model.CountPair {
	keys := topKeys(counts, 5)
	out := make([]model.CountPair, 0, len(keys))
	for _, k := range keys {
		out = append(out, model.CountPair{Key: display[k], Count: counts[k]})
	}
	return out
}

// followOnRate is the share of an investor's portfolio companies that
// raised again, from anyone, after the investor's first check. A crude
// proxy for picking winners, but it only uses data we actually have.
func followOnRate(own []model.FundingEvent, all []model.FundingEvent) float64 {
	firstCheck := make(map[string]model.FundingEvent)
	for _, ev := range own {
		key := textutil.NormalizeKey(ev.Company)
		if prev, ok := firstCheck[key]; !ok || ev.ExtractedAt.Before(prev.ExtractedAt) {
			firstCheck[key] = ev
		}
	}
	if len(firstCheck) == 0 {
		return 0
	}

	followedOn := 0
	for company, first := range firstCheck {
		for _, ev := range all {
			if ev.ID == first.ID {
				continue
			}
			if textutil.NormalizeKey(ev.Company) == company && ev.ExtractedAt.After(first.ExtractedAt) {
				followedOn++
				break
			}
		}
	}
	return float64(followedOn) / float64(len(firstCheck))
}
