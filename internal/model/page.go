package model

// LegalIssue is a discrete question of law identified from the faktum.
// Ephemeral: produced by issue extraction, consumed by query planning.
type LegalIssue struct {
	Issue  string `json:"issue"`
	Domain string `json:"domain"`
}

// SearchResult is one web-search hit after blacklist filtering.
type SearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Snippet     string `json:"snippet"`
	DisplayLink string `json:"displayLink"`
}

// ParsedPage is a fetched page after boilerplate removal and section
// extraction. Content is truncated to a bounded size upstream.
type ParsedPage struct {
	URL            string        `json:"url"`
	Title          string        `json:"title"`
	Content        string        `json:"content"`
	Sections       []PageSection `json:"sections"`
	SourcePriority int           `json:"source_priority"` // 1-4, 1 most authoritative
	IsRepealed     bool          `json:"is_repealed"`
	RepealedReason string        `json:"repealed_reason,omitempty"`
}

// PageSection is one heading- or §-delimited block of a parsed page.
type PageSection struct {
	Heading       string `json:"heading"`
	Content       string `json:"content"`
	SectionNumber string `json:"section_number,omitempty"`
}

// Excerpt is a bounded fragment of a parsed page scored against an issue.
type Excerpt struct {
	Excerpt string      `json:"excerpt"`
	Source  *ParsedPage `json:"source"`
	Section string      `json:"section,omitempty"`
}
