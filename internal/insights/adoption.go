package insights

import (
	"math"
	"sort"
	"time"

	"github.com/marketbeacon/marketbeacon/internal/model"
	"github.com/marketbeacon/marketbeacon/internal/textutil"
)

// industrySegments are the verticals industry adoption is estimated
// over. The estimate is a deterministic function of mention share and
// is flagged as such on the curve.
var industrySegments = []struct {
	name   string
	weight float64
}{
	{"technology", 1.0},
	{"finance", 0.7},
	{"healthcare", 0.5},
	{"retail", 0.4},
	{"manufacturing", 0.3},
}

// techHistory is the per-technology view reconstructed from stored
// articles: which articles mention it, bucketed by month.
type techHistory struct {
	name    string
	months  map[string]int
	first   time.Time
	cohorts map[string]bool // article IDs, for co-mention lookups
}

// buildAdoptionCurves derives one adoption curve per known technology
// trend, using stored articles to reconstruct the monthly mention
// histogram.
func buildAdoptionCurves(trends []model.TechnologyTrend, articles []model.Article, totalMentions int) []model.TechnologyAdoptionCurve {
	histories := make(map[string]*techHistory, len(trends))
	for _, tr := range trends {
		histories[tr.Name] = &techHistory{
			name:    tr.Name,
			months:  make(map[string]int),
			cohorts: make(map[string]bool),
		}
	}

	for _, a := range articles {
		text := a.Title + " " + a.Summary
		at := a.PublishedAt
		if at.IsZero() {
			at = a.CreatedAt
		}
		month := at.UTC().Format("2006-01")
		for _, h := range histories {
			if !textutil.ContainsWholeWord(text, h.name) {
				continue
			}
			h.months[month]++
			h.cohorts[a.ID] = true
			if h.first.IsZero() || at.Before(h.first) {
				h.first = at
			}
		}
	}

	curves := make([]model.TechnologyAdoptionCurve, 0, len(trends))
	for _, tr := range trends {
		h := histories[tr.Name]
		monthly := orderedCounts(h.months)

		first := h.first
		if first.IsZero() {
			first = tr.LastMentioned
		}

		curves = append(curves, model.TechnologyAdoptionCurve{
			Technology:       tr.Name,
			FirstAppearance:  first,
			Phase:            classifyAdoptionPhase(countValues(monthly)),
			MonthlyMentions:  monthly,
			Related:          relatedTechnologies(h, histories),
			IndustryAdoption: estimateIndustryAdoption(tr.MentionCount, totalMentions),
			Estimated:        true,
		})
	}

	sort.Slice(curves, func(i, j int) bool { return curves[i].Technology < curves[j].Technology })
	return curves
}

// classifyAdoptionPhase compares the mean of the last three monthly
// counts against the mean of the three before them:
//
//	fewer than 3 points        -> emerging
//	recent > 1.5x prior        -> growing
//	recent < 0.7x prior        -> declining
//	recent mean above 10/month -> mainstream
//	otherwise                  -> emerging
func classifyAdoptionPhase(histogram []int) model.AdoptionStage {
	if len(histogram) < 3 {
		return model.StageEmerging
	}

	recent := mean(histogram[len(histogram)-3:])

	priorStart := len(histogram) - 6
	if priorStart < 0 {
		priorStart = 0
	}
	prior := mean(histogram[priorStart : len(histogram)-3])

	switch {
	case prior == 0:
		if recent > 0 {
			return model.StageGrowing
		}
		return model.StageEmerging
	case recent > prior*1.5:
		return model.StageGrowing
	case recent < prior*0.7:
		return model.StageDeclining
	case recent > 10:
		return model.StageMainstream
	}
	return model.StageEmerging
}

func mean(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}

// relatedTechnologies lists technologies that co-occur in the same
// articles, most frequent first, capped at five.
func relatedTechnologies(h *techHistory, all map[string]*techHistory) []string {
	type pair struct {
		name  string
		count int
	}
	var pairs []pair
	for name, other := range all {
		if name == h.name {
			continue
		}
		shared := 0
		for id := range h.cohorts {
			if other.cohorts[id] {
				shared++
			}
		}
		if shared > 0 {
			pairs = append(pairs, pair{name, shared})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].name < pairs[j].name
	})
	if len(pairs) > 5 {
		pairs = pairs[:5]
	}

	names := make([]string, len(pairs))
	for i, p := range pairs {
		names[i] = p.name
	}
	return names
}

// estimateIndustryAdoption spreads a technology's mention share over
// fixed industry weights. Deterministic, no sampling.
func estimateIndustryAdoption(mentionCount, totalMentions int) []model.PercentPair {
	if mentionCount == 0 || totalMentions == 0 {
		return nil
	}
	share := float64(mentionCount) / float64(totalMentions) * 100

	out := make([]model.PercentPair, 0, len(industrySegments))
	for _, seg := range industrySegments {
		out = append(out, model.PercentPair{
			Key:     seg.name,
			Percent: math.Round(math.Min(share*seg.weight, 100)*10) / 10,
		})
	}
	return out
}

// orderedCounts converts a month histogram map into a contiguous
// slice ordered by month. Months between the first and last
// appearance with no mentions are present with a zero count, so the
// window math sees the quiet stretches too.
func orderedCounts(m map[string]int) []model.CountPair {
	if len(m) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start, err := time.Parse("2006-01", keys[0])
	if err != nil {
		return nil
	}
	end, err := time.Parse("2006-01", keys[len(keys)-1])
	if err != nil {
		return nil
	}

	var out []model.CountPair
	for t := start; !t.After(end); t = t.AddDate(0, 1, 0) {
		k := t.Format("2006-01")
		out = append(out, model.CountPair{Key: k, Count: m[k]})
	}
	return out
}

func countValues(pairs []model.CountPair) []int {
	out := make([]int, len(pairs))
	for i, p := range pairs {
		out[i] = p.Count
	}
	return out
}
