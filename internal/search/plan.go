// Package search plans targeted legal search queries and executes them
// against the web-search API with trust-tier ranking.
package search

import "strings"

// domainKeywords maps a legal domain to statute-oriented search keywords.
// Only the first keyword is used per query; the rest document the domain.
var domainKeywords = map[string][]string{
	"forbrukerkjop": {"forbrukerkjøpsloven", "kjøpsloven", "reklamasjon"},
	"husleie":       {"husleieloven", "leietaker", "utleier"},
	"arbeidsrett":   {"arbeidsmiljøloven", "arbeidsforhold", "oppsigelse"},
	"personvern":    {"personopplysningsloven", "GDPR", "datatilsynet"},
	"kontrakt":      {"avtaleloven", "kontraktsbrudd", "avtale"},
	"erstatning":    {"skadeserstatningsloven", "erstatningsansvar", "skade"},
}

// Plan builds the search queries for one legal issue. Deterministic: the
// same (issue, domain) pair always yields the same queries in the same
// order.
func Plan(issue, domain string) []string {
	queries := []string{
		// Generic query with a national-law qualifier.
		issue + " " + domain + " norsk lov",
		// Query biased toward the primary statute database.
		issue + " lovdata §",
	}

	if keywords, ok := domainKeywords[strings.ToLower(domain)]; ok && len(keywords) > 0 {
		queries = append(queries, issue+" "+keywords[0])
	}

	return queries
}
