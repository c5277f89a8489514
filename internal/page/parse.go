// Package page fetches and parses legal-source web pages into bounded,
// section-tagged plaintext.
package page

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/lovsentralen/saksanalyse/internal/model"
	"github.com/lovsentralen/saksanalyse/internal/source"
)

const (
	// maxContentLen bounds the extracted page text so downstream prompt and
	// memory cost stays fixed.
	maxContentLen = 50000

	// minContainerLen is the minimum text length for a content-container
	// candidate to be accepted over the body fallback.
	minContainerLen = 200
)

// contentSelectors is tried in order; the first match with enough text wins.
var contentSelectors = []string{
	"main",
	"article",
	".content",
	".main-content",
	"#content",
	"#main",
	".article-content",
	".post-content",
	// Lovdata document markup.
	".markup",
	".law-content",
}

// boilerplateSelector matches elements removed before text extraction.
const boilerplateSelector = "script, style, nav, header, footer, aside, .menu, .sidebar, .navigation, .advertisement, .cookie-notice"

var whitespaceRe = regexp.MustCompile(`\s+`)

// Parse turns raw HTML into a ParsedPage. The repeal check runs before
// boilerplate removal because repeal notices often live in the elements
// that cleanup strips.
func Parse(rawURL, html string) (*model.ParsedPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	repealed, reason := checkRepealed(doc)

	doc.Find(boilerplateSelector).Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if title == "" {
		title = "Ukjent tittel"
	}

	content := mainContent(doc)
	sections := extractSections(doc, content)

	return &model.ParsedPage{
		URL:            rawURL,
		Title:          title,
		Content:        content,
		Sections:       sections,
		SourcePriority: source.Priority(rawURL),
		IsRepealed:     repealed,
		RepealedReason: reason,
	}, nil
}

// mainContent probes the content-selector list and falls back to body text.
func mainContent(doc *goquery.Document) string {
	for _, sel := range contentSelectors {
		node := doc.Find(sel)
		if node.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(node.Text())
		if len(text) > minContainerLen {
			return cleanText(text)
		}
	}
	return cleanText(doc.Find("body").Text())
}

// cleanText collapses whitespace and truncates to the content bound.
func cleanText(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	return cutRuneBoundary(text, maxContentLen)
}

// cutRuneBoundary truncates s to at most limit bytes without splitting a
// multibyte rune. Norwegian text makes mid-rune cuts likely otherwise.
func cutRuneBoundary(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
