package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lovsentralen/saksanalyse/internal/model"
)

func TestExtractIssues(t *testing.T) {
	rc := &fakeReasoner{responses: map[string]string{
		"issues": `{"issues": [
			{"issue": "heving av forbrukerkjøp ved mangel", "domain": "forbrukerkjop"},
			{"issue": "reklamasjonsfrist bruktbil", "domain": "forbrukerkjop"}
		]}`,
	}}

	got, err := ExtractIssues(context.Background(), rc, "Kjøpte bruktbil med skjult rustskade.", nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "heving av forbrukerkjøp ved mangel", got[0].Issue)
}

func TestExtractIssues_TooFewFails(t *testing.T) {
	rc := &fakeReasoner{responses: map[string]string{
		"issues": `{"issues": [{"issue": "noe", "domain": "kontrakt"}]}`,
	}}

	_, err := ExtractIssues(context.Background(), rc, "faktum", nil)
	assert.Error(t, err)
}

func TestExtractIssues_CapsAtFive(t *testing.T) {
	rc := &fakeReasoner{responses: map[string]string{
		"issues": `{"issues": [
			{"issue": "a", "domain": "kontrakt"}, {"issue": "b", "domain": "kontrakt"},
			{"issue": "c", "domain": "kontrakt"}, {"issue": "d", "domain": "kontrakt"},
			{"issue": "e", "domain": "kontrakt"}, {"issue": "f", "domain": "kontrakt"}
		]}`,
	}}

	got, err := ExtractIssues(context.Background(), rc, "faktum", nil)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestExtractIssues_IncludesAnsweredClarifications(t *testing.T) {
	rc := &fakeReasoner{responses: map[string]string{
		"issues": `{"issues": [{"issue": "a", "domain": "husleie"}, {"issue": "b", "domain": "husleie"}]}`,
	}}
	clarifications := []model.Clarification{
		{Question: "Når flyttet du inn?", UserAnswer: "Januar 2023."},
		{Question: "Har du skriftlig kontrakt?"},
	}

	_, err := ExtractIssues(context.Background(), rc, "faktum", clarifications)
	require.NoError(t, err)
	require.Len(t, rc.calls, 1)
	assert.Contains(t, rc.calls[0].Prompt, "Januar 2023.")
	assert.NotContains(t, rc.calls[0].Prompt, "Har du skriftlig kontrakt?")
}
