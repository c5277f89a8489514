package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lovsentralen/saksanalyse/internal/model"
)

func TestRender(t *testing.T) {
	c := &model.Case{
		ID:        "case-1",
		Faktum:    "Kjøpte bruktbil med skjult rustskade.",
		Category:  model.CategoryForbrukerkjop,
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	result := &model.Result{
		QAItems: []model.QAItem{
			{
				ID:             "qa1",
				Question:       "Kan jeg heve kjøpet?",
				Answer:         "Ja, ved ikke uvesentlig mangel.",
				Confidence:     model.ConfidenceHigh,
				LegalReasoning: "Etter fkjl. § 32 kan forbrukeren heve.",
				Citations: []model.Citation{
					{SourceName: "Forbrukerkjøpsloven", Section: "§ 32", URL: "https://lovdata.no/lov/2002-06-21-34"},
				},
				Assumptions:     []string{"Kjøpt fra forhandler."},
				ShowAssumptions: true,
			},
		},
		Checklist:     []model.ChecklistItem{{Text: "Reklamer skriftlig", Priority: "høy"}},
		Documentation: []model.DocumentationItem{{Text: "Kjøpekontrakt", Reason: "beviser avtalen"}},
		Sources:       []model.LegalSource{{Name: "Forbrukerkjøpsloven", URL: "https://lovdata.no/lov/2002-06-21-34", Description: "Lov om forbrukerkjøp"}},
	}
	evidence := []model.Evidence{
		{Title: "Forbrukerkjøpsloven", URL: "https://lovdata.no/lov/2002-06-21-34"},
	}

	out := Render(c, result, evidence)

	// Disclaimer precedes the content.
	assert.Less(t, strings.Index(out, "ikke juridisk rådgivning"), strings.Index(out, "SPØRSMÅL OG SVAR"))

	assert.Contains(t, out, "Rettsområde: Forbrukerkjøp")
	assert.Contains(t, out, "1. Kan jeg heve kjøpet?")
	assert.Contains(t, out, "Sikkerhet: høy")
	assert.Contains(t, out, "Kilde: Forbrukerkjøpsloven § 32 (https://lovdata.no/lov/2002-06-21-34)")
	assert.Contains(t, out, "Forutsetninger:")
	assert.Contains(t, out, "[ ] Reklamer skriftlig (prioritet: høy)")
	assert.Contains(t, out, "Kjøpekontrakt (beviser avtalen)")
	assert.Contains(t, out, "INNHENTET KILDEMATERIALE")
}

func TestRender_SensitiveTopics(t *testing.T) {
	c := &model.Case{ID: "case-1", Faktum: "Jeg ble anmeldt til politiet."}
	result := &model.Result{
		QAItems: []model.QAItem{{Question: "q?", Answer: "a"}},
		SensitiveTopics: []model.SensitiveTopic{
			{Topic: "straffesak", Message: "Kontakt advokat eller politiets servicetelefon."},
		},
	}

	out := Render(c, result, nil)
	assert.Contains(t, out, "VIKTIGE MERKNADER")
	assert.Contains(t, out, "straffesak: Kontakt advokat eller politiets servicetelefon.")
	// Escalation notices come right after the disclaimer, before the Q&A.
	assert.Less(t, strings.Index(out, "VIKTIGE MERKNADER"), strings.Index(out, "SPØRSMÅL OG SVAR"))
}

func TestRender_NoSensitiveSectionWhenEmpty(t *testing.T) {
	c := &model.Case{ID: "case-1", Faktum: "faktum"}
	out := Render(c, &model.Result{}, nil)
	assert.NotContains(t, out, "VIKTIGE MERKNADER")
}

func TestRender_HiddenAssumptions(t *testing.T) {
	c := &model.Case{ID: "case-1", Faktum: "faktum"}
	result := &model.Result{
		QAItems: []model.QAItem{
			{Question: "q?", Answer: "a", Assumptions: []string{"skjult antakelse"}, ShowAssumptions: false},
		},
	}

	out := Render(c, result, nil)
	assert.NotContains(t, out, "skjult antakelse")
}
