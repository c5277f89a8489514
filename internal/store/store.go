// Package store persists cases, clarifications, evidence and analysis
// results behind a driver-agnostic interface.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/lovsentralen/saksanalyse/internal/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = eris.New("store: not found")

// ErrAnalysisInProgress is returned by BeginAnalysis when the case is
// already being analyzed. The status column acts as a coarse single-run
// lock: two analysis runs for one case must never interleave.
var ErrAnalysisInProgress = eris.New("store: analysis already in progress")

// CaseFilter specifies criteria for listing cases.
type CaseFilter struct {
	UserID string           `json:"user_id,omitempty"`
	Status model.CaseStatus `json:"status,omitempty"`
	Limit  int              `json:"limit,omitempty"`
	Offset int              `json:"offset,omitempty"`
}

// Store defines the persistence interface for the analysis pipeline.
type Store interface {
	// Cases
	CreateCase(ctx context.Context, userID, faktum string, category model.LegalCategory) (*model.Case, error)
	GetCase(ctx context.Context, id string) (*model.Case, error)
	ListCases(ctx context.Context, filter CaseFilter) ([]model.Case, error)
	DeleteCase(ctx context.Context, id string) error
	UpdateCaseStatus(ctx context.Context, id string, status model.CaseStatus) error
	// BeginAnalysis transitions a case to analyzing, failing with
	// ErrAnalysisInProgress if another run already holds the status.
	BeginAnalysis(ctx context.Context, id string) error

	// Clarifications
	InsertClarifications(ctx context.Context, caseID string, questions []string) ([]model.Clarification, error)
	AnswerClarification(ctx context.Context, id, answer string) error
	ListClarifications(ctx context.Context, caseID string) ([]model.Clarification, error)

	// Evidence
	InsertEvidence(ctx context.Context, items []model.Evidence) error
	ListEvidence(ctx context.Context, caseID string) ([]model.Evidence, error)

	// Results. SaveResult replaces any prior result for the case wholesale.
	SaveResult(ctx context.Context, result *model.Result) error
	GetResult(ctx context.Context, caseID string) (*model.Result, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
