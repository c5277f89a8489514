package model

import "time"

// CaseStatus tracks a case through its lifecycle.
type CaseStatus string

const (
	CaseStatusDraft      CaseStatus = "draft"
	CaseStatusClarifying CaseStatus = "clarifying"
	CaseStatusAnalyzing  CaseStatus = "analyzing"
	CaseStatusCompleted  CaseStatus = "completed"
	CaseStatusError      CaseStatus = "error"
)

// LegalCategory is an optional user-selected area of law for a case.
type LegalCategory string

const (
	CategoryForbrukerkjop LegalCategory = "forbrukerkjop"
	CategoryHusleie       LegalCategory = "husleie"
	CategoryArbeidsrett   LegalCategory = "arbeidsrett"
	CategoryPersonvern    LegalCategory = "personvern"
	CategoryKontrakt      LegalCategory = "kontrakt"
	CategoryErstatning    LegalCategory = "erstatning"
)

// CategoryLabels maps category keys to display names.
var CategoryLabels = map[LegalCategory]string{
	CategoryForbrukerkjop: "Forbrukerkjøp",
	CategoryHusleie:       "Husleie",
	CategoryArbeidsrett:   "Arbeidsrett",
	CategoryPersonvern:    "Personvern",
	CategoryKontrakt:      "Kontrakt",
	CategoryErstatning:    "Erstatning",
}

// Case is one user matter: the free-text faktum plus its lifecycle state.
type Case struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Faktum    string        `json:"faktum_text"`
	Category  LegalCategory `json:"category,omitempty"`
	Status    CaseStatus    `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Clarification is a follow-up question asked before analysis, with the
// user's answer once given.
type Clarification struct {
	ID         string    `json:"id"`
	CaseID     string    `json:"case_id"`
	Question   string    `json:"question"`
	UserAnswer string    `json:"user_answer,omitempty"`
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
}

// Answered returns the clarifications that have a user answer.
func Answered(clarifications []Clarification) []Clarification {
	var out []Clarification
	for _, c := range clarifications {
		if c.UserAnswer != "" {
			out = append(out, c)
		}
	}
	return out
}

// SensitiveTopic names an area where self-help legal information is not
// enough and the user should be pointed to professional help.
type SensitiveTopic struct {
	Topic   string `json:"topic"`
	Message string `json:"message"`
}

// Result is the complete generated analysis for one case. Regenerated
// wholesale on re-run, never patched in place.
type Result struct {
	ID              string              `json:"id"`
	CaseID          string              `json:"case_id"`
	QAItems         []QAItem            `json:"qa_items"`
	Checklist       []ChecklistItem     `json:"checklist"`
	Documentation   []DocumentationItem `json:"documentation"`
	Sources         []LegalSource       `json:"sources"`
	SensitiveTopics []SensitiveTopic    `json:"sensitive_topics,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}
