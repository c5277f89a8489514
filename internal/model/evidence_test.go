package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupEvidence_FirstSeenWins(t *testing.T) {
	items := []Evidence{
		{URL: "https://lovdata.no/lov/2002-06-21-34", Excerpt: "first"},
		{URL: "https://lovdata.no/lov/2002-06-21-34", Excerpt: "second"},
		{URL: "https://forbrukertilsynet.no/klage", Excerpt: "other"},
	}
	out := DedupEvidence(items)
	assert.Len(t, out, 2)
	assert.Equal(t, "first", out[0].Excerpt)
	assert.Equal(t, "https://forbrukertilsynet.no/klage", out[1].URL)
}

func TestDedupEvidence_Idempotent(t *testing.T) {
	items := []Evidence{
		{URL: "https://lovdata.no/a"},
		{URL: "https://lovdata.no/b"},
		{URL: "https://lovdata.no/a"},
	}
	once := DedupEvidence(items)
	twice := DedupEvidence(append(append([]Evidence{}, once...), once...))
	assert.Equal(t, once, twice)
}

func TestDedupEvidence_Empty(t *testing.T) {
	assert.Empty(t, DedupEvidence(nil))
}

func TestAnswered_FiltersUnanswered(t *testing.T) {
	cs := []Clarification{
		{Question: "Når kjøpte du varen?", UserAnswer: "I mars 2026"},
		{Question: "Har du reklamert skriftlig?"},
	}
	got := Answered(cs)
	assert.Len(t, got, 1)
	assert.Equal(t, "I mars 2026", got[0].UserAnswer)
}
