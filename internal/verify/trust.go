package verify

import (
	"net/url"
	"strings"
)

// TrustList is the static allow-list of verifiable news domains.
// Membership is an exact or dot-suffix match on the URL host; there
// is deliberately no live HTTP checking here (nondeterministic and
// rate-limit exposed).
type TrustList struct {
	domains map[string]bool
}

// NewTrustList builds a TrustList from configured domains
func NewTrustList(domains []string) *TrustList {
	m := make(map[string]bool, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			m[d] = true
		}
	}
	return &TrustList{domains: m}
}

// VerifyURL reports whether the URL's host is on the allow-list
func (t *TrustList) VerifyURL(rawURL string) bool {
	host := hostOf(rawURL)
	if host == "" {
		return false
	}
	return t.VerifyDomain(host)
}

// VerifyDomain reports whether the domain or any parent domain is on
// the allow-list.
func (t *TrustList) VerifyDomain(domain string) bool {
	domain = strings.ToLower(domain)
	if t.domains[domain] {
		return true
	}
	for trusted := range t.domains {
		if strings.HasSuffix(domain, "."+trusted) {
			return true
		}
	}
	return false
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	host := parsed.Host
	if idx := strings.Index(host, ":"); idx > 0 {
		host = host[:idx]
	}
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}
