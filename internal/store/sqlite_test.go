package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lovsentralen/saksanalyse/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite_CaseLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCase(ctx, "user-1", "Kjøpte en bruktbil med skjult rustskade.", model.CategoryForbrukerkjop)
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, model.CaseStatusDraft, c.Status)

	got, err := s.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Faktum, got.Faktum)
	assert.Equal(t, model.CategoryForbrukerkjop, got.Category)

	require.NoError(t, s.UpdateCaseStatus(ctx, c.ID, model.CaseStatusCompleted))
	got, err = s.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CaseStatusCompleted, got.Status)

	require.NoError(t, s.DeleteCase(ctx, c.ID))
	_, err = s.GetCase(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_GetCaseNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetCase(context.Background(), "finnes-ikke")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_ListCasesFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.CreateCase(ctx, "user-a", "faktum a", "")
	require.NoError(t, err)
	_, err = s.CreateCase(ctx, "user-b", "faktum b", "")
	require.NoError(t, err)
	require.NoError(t, s.UpdateCaseStatus(ctx, a.ID, model.CaseStatusCompleted))

	all, err := s.ListCases(ctx, CaseFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byUser, err := s.ListCases(ctx, CaseFilter{UserID: "user-a"})
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, a.ID, byUser[0].ID)

	byStatus, err := s.ListCases(ctx, CaseFilter{Status: model.CaseStatusCompleted})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, a.ID, byStatus[0].ID)
}

func TestSQLite_BeginAnalysisLock(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCase(ctx, "user-1", "faktum", "")
	require.NoError(t, err)

	require.NoError(t, s.BeginAnalysis(ctx, c.ID))

	// Second concurrent run must be refused while the first holds the status.
	err = s.BeginAnalysis(ctx, c.ID)
	assert.ErrorIs(t, err, ErrAnalysisInProgress)

	// Once the run finishes the lock is released.
	require.NoError(t, s.UpdateCaseStatus(ctx, c.ID, model.CaseStatusCompleted))
	require.NoError(t, s.BeginAnalysis(ctx, c.ID))
}

func TestSQLite_Clarifications(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCase(ctx, "user-1", "faktum", "")
	require.NoError(t, err)

	inserted, err := s.InsertClarifications(ctx, c.ID, []string{
		"Når oppdaget du mangelen?",
		"Har du reklamert skriftlig til selger?",
	})
	require.NoError(t, err)
	require.Len(t, inserted, 2)

	require.NoError(t, s.AnswerClarification(ctx, inserted[0].ID, "For to uker siden."))

	listed, err := s.ListClarifications(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "For to uker siden.", listed[0].UserAnswer)
	assert.Empty(t, listed[1].UserAnswer)
	assert.Equal(t, 0, listed[0].OrderIndex)
	assert.Equal(t, 1, listed[1].OrderIndex)
}

func TestSQLite_EvidenceDedup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCase(ctx, "user-1", "faktum", "")
	require.NoError(t, err)

	items := []model.Evidence{
		{CaseID: c.ID, SourceName: "Lovdata", URL: "https://lovdata.no/lov/2002-06-21-34", Title: "Forbrukerkjøpsloven", Excerpt: "§ 15", SourcePriority: 1},
		{CaseID: c.ID, SourceName: "Lovdata", URL: "https://lovdata.no/lov/2002-06-21-34", Title: "Forbrukerkjøpsloven", Excerpt: "§ 16", SourcePriority: 1},
		{CaseID: c.ID, SourceName: "Forbrukertilsynet", URL: "https://forbrukertilsynet.no/reklamasjon", Title: "Reklamasjon", Excerpt: "frist", SourcePriority: 2},
	}
	require.NoError(t, s.InsertEvidence(ctx, items))

	listed, err := s.ListEvidence(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "https://lovdata.no/lov/2002-06-21-34", listed[0].URL)
	assert.Equal(t, "§ 15", listed[0].Excerpt)
}

func TestSQLite_EvidenceDedupAcrossRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCase(ctx, "user-1", "faktum", "")
	require.NoError(t, err)

	first := []model.Evidence{
		{CaseID: c.ID, SourceName: "Lovdata", URL: "https://lovdata.no/lov/2002-06-21-34", Title: "Forbrukerkjøpsloven", Excerpt: "§ 15", SourcePriority: 1},
	}
	require.NoError(t, s.InsertEvidence(ctx, first))

	// A re-run gathers the same URL again plus one new source; only the new
	// row may land.
	second := []model.Evidence{
		{CaseID: c.ID, SourceName: "Lovdata", URL: "https://lovdata.no/lov/2002-06-21-34", Title: "Forbrukerkjøpsloven", Excerpt: "§ 16", SourcePriority: 1},
		{CaseID: c.ID, SourceName: "Forbrukertilsynet", URL: "https://forbrukertilsynet.no/reklamasjon", Title: "Reklamasjon", Excerpt: "frist", SourcePriority: 2},
	}
	require.NoError(t, s.InsertEvidence(ctx, second))

	listed, err := s.ListEvidence(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "§ 15", listed[0].Excerpt)
}

func TestSQLite_ResultOverwrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCase(ctx, "user-1", "faktum", "")
	require.NoError(t, err)

	first := &model.Result{
		CaseID: c.ID,
		QAItems: []model.QAItem{
			{ID: "qa1", Question: "Kan jeg heve kjøpet?", Answer: "Ja, ved vesentlig mangel.", Confidence: model.ConfidenceMedium, Relevance: 9},
		},
		Checklist:       []model.ChecklistItem{{Text: "Reklamer skriftlig til selger"}},
		Documentation:   []model.DocumentationItem{{Text: "Kjøpekontrakt"}},
		Sources:         []model.LegalSource{{Name: "Forbrukerkjøpsloven", URL: "https://lovdata.no/lov/2002-06-21-34"}},
		SensitiveTopics: []model.SensitiveTopic{{Topic: "straffesak", Message: "Kontakt advokat."}},
	}
	require.NoError(t, s.SaveResult(ctx, first))

	got, err := s.GetResult(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, got.QAItems, 1)
	assert.Equal(t, "Kan jeg heve kjøpet?", got.QAItems[0].Question)
	require.Len(t, got.SensitiveTopics, 1)
	assert.Equal(t, "straffesak", got.SensitiveTopics[0].Topic)

	// A re-run replaces the result wholesale rather than merging.
	second := &model.Result{
		CaseID: c.ID,
		QAItems: []model.QAItem{
			{ID: "qa1", Question: "Hva er reklamasjonsfristen?", Answer: "To år, fem for varige varer.", Confidence: model.ConfidenceHigh, Relevance: 8},
			{ID: "qa2", Question: "Kan jeg kreve retting?", Answer: "Ja.", Confidence: model.ConfidenceMedium, Relevance: 7},
		},
	}
	require.NoError(t, s.SaveResult(ctx, second))

	got, err = s.GetResult(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, got.QAItems, 2)
	assert.Equal(t, "Hva er reklamasjonsfristen?", got.QAItems[0].Question)
	assert.Empty(t, got.Checklist)
	assert.Empty(t, got.SensitiveTopics)
}

func TestSQLite_GetResultNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetResult(context.Background(), "finnes-ikke")
	assert.ErrorIs(t, err, ErrNotFound)
}
