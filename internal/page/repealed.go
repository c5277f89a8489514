package page

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// repealedPatterns indicate a law or regulation that is no longer in force.
var repealedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`loven\s+er\s+opphevet`),
	regexp.MustCompile(`forskriften\s+er\s+opphevet`),
	regexp.MustCompile(`denne\s+(?:loven?|forskriften?)\s+er\s+opphevet`),
	regexp.MustCompile(`opphevet\s+ved\s+lov`),
	regexp.MustCompile(`opphevet\s+fra`),
	regexp.MustCompile(`opphevet\s+\d{1,2}\.\s*(?:januar|februar|mars|april|mai|juni|juli|august|september|oktober|november|desember)`),
	regexp.MustCompile(`ikke\s+lenger\s+(?:i\s+kraft|gjeldende)`),
	regexp.MustCompile(`erstattet\s+av`),
	regexp.MustCompile(`avløst\s+av`),
	regexp.MustCompile(`historisk\s+versjon`),
	regexp.MustCompile(`utgått`),
}

// repealScanLen bounds how much of the leading page text is scanned.
const repealScanLen = 3000

// checkRepealed scans metadata, notice elements and the leading text for
// repeal phrasing. Must run before boilerplate removal.
func checkRepealed(doc *goquery.Document) (bool, string) {
	metaDescription := doc.Find(`meta[name="description"]`).AttrOr("content", "")
	alertBoxes := doc.Find(".alert, .warning, .notice, .info-box").Text()
	headerInfo := doc.Find("header, .header-info, .law-status").Text()

	leading := cutRuneBoundary(doc.Text(), repealScanLen)

	haystack := strings.ToLower(metaDescription + " " + alertBoxes + " " + headerInfo + " " + leading)
	for _, pattern := range repealedPatterns {
		if match := pattern.FindString(haystack); match != "" {
			return true, fmt.Sprintf("Kilden er opphevet: %q", match)
		}
	}

	title := strings.ToLower(doc.Find("title").Text())
	if strings.Contains(title, "opphevet") || strings.Contains(title, "historisk") {
		return true, "Kilden er markert som opphevet i tittelen"
	}

	return false, ""
}
