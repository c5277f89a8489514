package page

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/lovsentralen/saksanalyse/internal/model"
)

var (
	// sectionPattern matches statute citations: § 27, § 15a, § 3-1.
	sectionPattern = regexp.MustCompile(`(?i)§\s*\d+[a-z]?(?:-\d+)?`)

	// chapterPattern matches chapter references: kapittel 5, kap. 5.
	chapterPattern = regexp.MustCompile(`(?i)(?:kapittel|kap\.?)\s*\d+`)
)

const (
	// maxSectionLen bounds a single heading-delimited section's content.
	maxSectionLen = 5000

	// maxSyntheticSections caps §-window sections carved from raw content.
	maxSyntheticSections = 20

	// Window carved around a § occurrence in raw content.
	syntheticBefore = 200
	syntheticAfter  = 800
)

// extractSections combines heading-delimited blocks with synthetic §-window
// sections from the raw content, deduplicated by section number.
func extractSections(doc *goquery.Document, content string) []model.PageSection {
	var sections []model.PageSection

	doc.Find("h1, h2, h3, h4").Each(func(_ int, heading *goquery.Selection) {
		headingText := strings.TrimSpace(heading.Text())
		body := strings.TrimSpace(heading.NextUntil("h1, h2, h3, h4").Text())
		if headingText == "" || body == "" {
			return
		}

		sectionNumber := sectionPattern.FindString(headingText)
		if sectionNumber == "" {
			sectionNumber = chapterPattern.FindString(headingText)
		}

		body = cutRuneBoundary(cleanText(body), maxSectionLen)

		sections = append(sections, model.PageSection{
			Heading:       headingText,
			Content:       body,
			SectionNumber: sectionNumber,
		})
	})

	sections = append(sections, syntheticSections(content, sections)...)
	return sections
}

// syntheticSections scans raw content for statute citations and carves a
// fixed window of surrounding text around each unique one.
func syntheticSections(content string, existing []model.PageSection) []model.PageSection {
	matches := sectionPattern.FindAllString(content, -1)
	if len(matches) == 0 {
		return nil
	}

	known := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		if s.SectionNumber != "" {
			known[s.SectionNumber] = struct{}{}
		}
	}

	var out []model.PageSection
	seen := make(map[string]struct{})
	for _, m := range matches {
		if len(out) >= maxSyntheticSections {
			break
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		if _, dup := known[m]; dup {
			continue
		}

		idx := strings.Index(content, m)
		if idx < 0 {
			continue
		}
		start := idx - syntheticBefore
		if start < 0 {
			start = 0
		}
		for start > 0 && !utf8.RuneStart(content[start]) {
			start--
		}
		end := idx + syntheticAfter
		if end > len(content) {
			end = len(content)
		} else {
			for end > idx && !utf8.RuneStart(content[end]) {
				end--
			}
		}

		out = append(out, model.PageSection{
			Heading:       m,
			Content:       cleanText(content[start:end]),
			SectionNumber: m,
		})
	}
	return out
}
