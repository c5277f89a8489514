// Package excerpt scores parsed-page sections and paragraphs against a
// legal issue and returns the most authoritative fragments.
package excerpt

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/lovsentralen/saksanalyse/internal/model"
)

const (
	// maxExcerptLen bounds a single excerpt.
	maxExcerptLen = 1000

	// minParagraphLen filters out trivially short paragraphs.
	minParagraphLen = 100

	// Sections are curated; a single keyword hit qualifies. Raw paragraphs
	// are noisier and need two distinct hits.
	minSectionHits   = 1
	minParagraphHits = 2
)

var (
	sectionRefPattern = regexp.MustCompile(`(?i)§\s*\d+[a-z]?(?:-\d+)?`)
	paragraphSplit    = regexp.MustCompile(`\n\s*\n|\n+`)
)

// Extract pools qualifying excerpts across all pages, ranks them ascending
// by source priority (stable within a tier), and returns at most
// maxExcerpts. Repealed pages are filtered even if passed in.
func Extract(pages []*model.ParsedPage, issue string, maxExcerpts int) []model.Excerpt {
	keywords := tokenize(issue)

	valid := pages[:0:0]
	for _, p := range pages {
		if p.IsRepealed {
			zap.L().Info("excerpt: skipping repealed source", zap.String("url", p.URL), zap.String("title", p.Title))
			continue
		}
		valid = append(valid, p)
	}

	if len(valid) == 0 && len(pages) > 0 {
		zap.L().Warn("excerpt: all candidate sources are repealed", zap.Int("pages", len(pages)))
	}

	var pool []model.Excerpt
	for _, p := range valid {
		for _, section := range p.Sections {
			if distinctHits(section.Content, keywords) >= minSectionHits {
				pool = append(pool, model.Excerpt{
					Excerpt: truncate(section.Content),
					Source:  p,
					Section: section.SectionNumber,
				})
			}
		}

		for _, para := range paragraphSplit.Split(p.Content, -1) {
			if len(para) < minParagraphLen {
				continue
			}
			if distinctHits(para, keywords) >= minParagraphHits {
				pool = append(pool, model.Excerpt{
					Excerpt: truncate(para),
					Source:  p,
					Section: sectionRefPattern.FindString(para),
				})
			}
		}
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Source.SourcePriority < pool[j].Source.SourcePriority
	})

	if len(pool) > maxExcerpts {
		pool = pool[:maxExcerpts]
	}
	return pool
}

// tokenize splits issue text into lowercase whitespace-delimited tokens.
func tokenize(issue string) []string {
	return strings.Fields(strings.ToLower(issue))
}

// distinctHits counts how many distinct keywords occur in the text.
func distinctHits(text string, keywords []string) int {
	lower := strings.ToLower(text)
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return hits
}

// truncate caps an excerpt without splitting a multibyte rune.
func truncate(text string) string {
	if len(text) <= maxExcerptLen {
		return text
	}
	cut := maxExcerptLen
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
