package model

// Confidence expresses how well the evidence supports an answer.
type Confidence string

const (
	ConfidenceLow    Confidence = "lav"
	ConfidenceMedium Confidence = "middels"
	ConfidenceHigh   Confidence = "høy"
)

// QAItem is one structured question/answer unit in the final analysis.
type QAItem struct {
	ID              string     `json:"id"`
	Question        string     `json:"question"`
	Answer          string     `json:"answer"`
	Citations       []Citation `json:"citations"`
	Confidence      Confidence `json:"confidence"`
	Assumptions     []string   `json:"assumptions"`
	MissingFacts    []string   `json:"missing_facts"`
	Relevance       int        `json:"relevance"`
	RelevanceReason string     `json:"relevance_reason"`
	LegalReasoning  string     `json:"legal_reasoning"`
	ShowAssumptions bool       `json:"show_assumptions"`
}

// Citation points a claim at a specific source, optionally at a statute
// section within it.
type Citation struct {
	SourceName string `json:"source_name"`
	Section    string `json:"section,omitempty"`
	URL        string `json:"url"`
}

// ChecklistItem is one concrete action the user should take. Completed is
// the only user-mutable field layered on generated content.
type ChecklistItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Priority  string `json:"priority"` // "høy", "middels", "lav"
	Completed bool   `json:"completed"`
}

// DocumentationItem is a document the user should gather or preserve.
type DocumentationItem struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// LegalSource is a summary-level source entry, distinct from per-item
// citations.
type LegalSource struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Priority    int    `json:"priority"` // 1-4
}
