package model

import "time"

// Evidence is one persisted excerpt backing the analysis of a case.
type Evidence struct {
	ID             string    `json:"id"`
	CaseID         string    `json:"case_id"`
	SourceName     string    `json:"source_name"`
	URL            string    `json:"url"`
	Title          string    `json:"title"`
	Excerpt        string    `json:"excerpt"`
	SectionHint    string    `json:"section_hint,omitempty"`
	SourcePriority int       `json:"source_priority"`
	RetrievedAt    time.Time `json:"retrieved_at"`
}

// DedupEvidence removes duplicate evidence rows by exact URL, keeping the
// first occurrence. Idempotent: deduping a deduped list is a no-op.
func DedupEvidence(items []Evidence) []Evidence {
	seen := make(map[string]struct{}, len(items))
	out := make([]Evidence, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.URL]; ok {
			continue
		}
		seen[item.URL] = struct{}{}
		out = append(out, item)
	}
	return out
}
