// Package source ranks legal-source URLs by trust tier and flags
// blacklisted domains.
package source

import (
	"net/url"
	"strings"
)

// Priority tiers for Norwegian legal sources. Matching is substring on the
// hostname with a leading "www." removed.
var (
	priority1Domains = []string{
		"lovdata.no",
		"regjeringen.no",
		"stortinget.no",
		"domstol.no",
	}

	priority2Domains = []string{
		"forbrukertilsynet.no",
		"forbrukerradet.no",
		"arbeidstilsynet.no",
		"datatilsynet.no",
		"skatteetaten.no",
		"nav.no",
	}

	priority3Domains = []string{
		"sivilombudet.no",
		"husleietvistutvalget.no",
		"finansklagenemnda.no",
		"forbruker.no",
	}

	blacklistedDomains = []string{
		"reddit.com",
		"facebook.com",
		"twitter.com",
		"x.com",
		"quora.com",
		"medium.com",
	}
)

// Classification is the trust assessment of a single URL.
type Classification struct {
	Priority    int // 1 = primary legal authority, 4 = unverified
	Blacklisted bool
}

// Classify assigns a trust tier to a URL and checks the blacklist.
// Malformed URLs fail closed: priority 4 and blacklisted.
func Classify(rawURL string) Classification {
	domain, ok := hostname(rawURL)
	if !ok {
		return Classification{Priority: 4, Blacklisted: true}
	}

	return Classification{
		Priority:    priorityFor(domain),
		Blacklisted: matchesAny(domain, blacklistedDomains),
	}
}

// Priority returns only the trust tier for a URL. Malformed URLs map to 4.
func Priority(rawURL string) int {
	domain, ok := hostname(rawURL)
	if !ok {
		return 4
	}
	return priorityFor(domain)
}

// Blacklisted reports whether a URL belongs to an excluded domain.
// Malformed URLs are treated as blacklisted.
func Blacklisted(rawURL string) bool {
	domain, ok := hostname(rawURL)
	if !ok {
		return true
	}
	return matchesAny(domain, blacklistedDomains)
}

func priorityFor(domain string) int {
	switch {
	case matchesAny(domain, priority1Domains):
		return 1
	case matchesAny(domain, priority2Domains):
		return 2
	case matchesAny(domain, priority3Domains):
		return 3
	default:
		return 4
	}
}

func hostname(rawURL string) (string, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return "", false
	}
	return strings.TrimPrefix(parsed.Hostname(), "www."), true
}

func matchesAny(domain string, list []string) bool {
	for _, d := range list {
		if strings.Contains(domain, d) {
			return true
		}
	}
	return false
}
