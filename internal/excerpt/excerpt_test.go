package excerpt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lovsentralen/saksanalyse/internal/model"
)

func pageWith(priority int, sections []model.PageSection, content string) *model.ParsedPage {
	return &model.ParsedPage{
		URL:            "https://example.no/side",
		Title:          "Testside",
		Content:        content,
		Sections:       sections,
		SourcePriority: priority,
	}
}

func TestExtract_SectionNeedsOneHit(t *testing.T) {
	p := pageWith(1, []model.PageSection{
		{Heading: "§ 27", Content: "Reklamasjon må skje innen rimelig tid.", SectionNumber: "§ 27"},
		{Heading: "§ 99", Content: "Helt urelatert bestemmelse om sjøfart.", SectionNumber: "§ 99"},
	}, "")

	out := Extract([]*model.ParsedPage{p}, "reklamasjon mangel", 10)
	require.Len(t, out, 1)
	assert.Equal(t, "§ 27", out[0].Section)
}

func TestExtract_ParagraphNeedsTwoHits(t *testing.T) {
	oneHit := "Forbrukeren har mange rettigheter etter loven, og det finnes en rekke unntak som kan være aktuelle i ulike situasjoner her."
	twoHits := "Ved mangel kan forbrukeren kreve retting, omlevering eller prisavslag, og reklamasjon må skje innen rimelig tid etter kjøpet."
	p := pageWith(2, nil, oneHit+"\n\n"+twoHits)

	out := Extract([]*model.ParsedPage{p}, "reklamasjon mangel", 10)
	require.Len(t, out, 1)
	assert.Contains(t, out[0].Excerpt, "prisavslag")
}

func TestExtract_Bound(t *testing.T) {
	sections := make([]model.PageSection, 12)
	for i := range sections {
		sections[i] = model.PageSection{Heading: "h", Content: "reklamasjon og mangel omtales her"}
	}
	p := pageWith(1, sections, "")

	out := Extract([]*model.ParsedPage{p}, "reklamasjon", 4)
	assert.LessOrEqual(t, len(out), 4)
}

func TestExtract_PriorityOrderStable(t *testing.T) {
	low := pageWith(4, []model.PageSection{{Content: "reklamasjon hos forhandler"}}, "")
	high := pageWith(1, []model.PageSection{{Content: "reklamasjon etter forbrukerkjøpsloven"}}, "")

	out := Extract([]*model.ParsedPage{low, high}, "reklamasjon", 10)
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].Source.SourcePriority)
	assert.Equal(t, 4, out[1].Source.SourcePriority)
}

func TestExtract_RepealedExcluded(t *testing.T) {
	repealed := pageWith(1, []model.PageSection{{Content: "reklamasjon etter gammel lov"}}, "")
	repealed.IsRepealed = true
	current := pageWith(2, []model.PageSection{{Content: "reklamasjon etter gjeldende lov"}}, "")

	out := Extract([]*model.ParsedPage{repealed, current}, "reklamasjon", 10)
	require.Len(t, out, 1)
	for _, e := range out {
		assert.False(t, e.Source.IsRepealed)
	}
}

func TestExtract_AllRepealedYieldsEmpty(t *testing.T) {
	repealed := pageWith(1, []model.PageSection{{Content: "reklamasjon"}}, "")
	repealed.IsRepealed = true

	out := Extract([]*model.ParsedPage{repealed}, "reklamasjon", 10)
	assert.Empty(t, out)
}

func TestExtract_ExcerptTruncated(t *testing.T) {
	long := strings.Repeat("reklamasjon mangel ", 100)
	p := pageWith(1, []model.PageSection{{Content: long}}, "")

	out := Extract([]*model.ParsedPage{p}, "reklamasjon", 1)
	require.Len(t, out, 1)
	assert.LessOrEqual(t, len(out[0].Excerpt), 1000)
}

func TestExtract_TruncationKeepsValidUTF8(t *testing.T) {
	// The 13-byte ASCII prefix puts every å start on an odd offset, so the
	// even byte cap would otherwise split a rune.
	long := "reklamasjon: " + strings.Repeat("å", maxExcerptLen)
	p := pageWith(1, []model.PageSection{{Content: long}}, "")

	out := Extract([]*model.ParsedPage{p}, "reklamasjon", 1)
	require.Len(t, out, 1)
	assert.LessOrEqual(t, len(out[0].Excerpt), maxExcerptLen)
	assert.True(t, utf8.ValidString(out[0].Excerpt))
}
