// Package textutil holds the text normalization helpers shared by
// deduplication, extraction, and verification. Every identifier that
// becomes a map key goes through NormalizeKey exactly once, at the
// insertion point, so lookups stay consistent.
package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// amountToken matches tokens like "500m", "2.5b", "10k" so titles
// that abbreviate money figures compare equal to spelled-out ones.
var amountToken = regexp.MustCompile(`^(\d+(?:\.\d+)?)(k|m|mn|b|bn)$`)

var magnitudeWords = map[string]string{
	"k": "thousand", "m": "million", "mn": "million", "b": "billion", "bn": "billion",
}

// NormalizeKey canonicalizes a company or technology name for use as
// a table key: case-folded, trimmed, inner whitespace collapsed.
func NormalizeKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), " ")
}

// NormalizeTitle reduces a title to comparable tokens: lower-case,
// punctuation stripped, whitespace collapsed.
func NormalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	fields := strings.Fields(b.String())
	for i, tok := range fields {
		if m := amountToken.FindStringSubmatch(tok); m != nil {
			fields[i] = m[1] + " " + magnitudeWords[m[2]]
		}
	}
	return strings.Join(fields, " ")
}

// Tokens splits a normalized title into its word set.
func Tokens(normalized string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(normalized) {
		set[tok] = true
	}
	return set
}

// StripHTML extracts visible text from markup, skipping script and
// style subtrees. Feed items routinely carry HTML in descriptions.
func StripHTML(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				b.WriteString(text)
				b.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(b.String())
}

// ContainsWholeWord reports whether needle occurs in haystack on word
// boundaries. Both sides are compared case-insensitively.
func ContainsWholeWord(haystack, needle string) bool {
	h := strings.ToLower(haystack)
	n := strings.ToLower(needle)
	if n == "" {
		return false
	}

	idx := 0
	for {
		pos := strings.Index(h[idx:], n)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(n)

		beforeOK := start == 0 || !isWordChar(rune(h[start-1]))
		afterOK := end == len(h) || !isWordChar(rune(h[end]))
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
