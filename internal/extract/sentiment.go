package extract

import "strings"

const sentimentStep = 0.2

// scoreSentiment runs the bag-of-words sentiment scorer: one step up
// per positive-lexicon word present, one step down per negative,
// clamped to [-1,1].
func scoreSentiment(text string, positive, negative []string) float64 {
	lower := strings.ToLower(text)

	score := 0.0
	for _, w := range positive {
		if strings.Contains(lower, strings.ToLower(w)) {
			score += sentimentStep
		}
	}
	for _, w := range negative {
		if strings.Contains(lower, strings.ToLower(w)) {
			score -= sentimentStep
		}
	}

	return clamp(score, -1, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
