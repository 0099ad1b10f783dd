package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// amountPattern matches monetary figures like "$10 million", "2.5B",
// "$500m". Parsing unstructured amounts is heuristic by nature, so
// all of it lives behind ParseAmount and nothing else in the module
// touches amount strings.
var amountPattern = regexp.MustCompile(`(?i)\$?(\d+(?:\.\d+)?)\s*(million|billion|m|b)\b`)

// ParseAmount extracts the first monetary amount from text. It
// returns the USD value, a normalized display string ("$10.0M"), and
// whether anything matched.
func ParseAmount(text string) (float64, string, bool) {
	m := amountPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, "", false
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, "", false
	}

	switch strings.ToLower(m[2]) {
	case "billion", "b":
		return value * 1e9, fmt.Sprintf("$%.1fB", value), true
	default:
		return value * 1e6, fmt.Sprintf("$%.1fM", value), true
	}
}
