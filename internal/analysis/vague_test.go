package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lovsentralen/saksanalyse/internal/model"
)

func TestClarifyVagueTerms_AppendsExplanation(t *testing.T) {
	items := []model.QAItem{
		{ID: "qa1", Answer: "Du må reklamere innen rimelig tid etter at du oppdaget mangelen."},
	}

	out := ClarifyVagueTerms(items)
	assert.Contains(t, out[0].Answer, "rimelig tid (typisk to til tre måneder")
	// Input is not mutated.
	assert.NotContains(t, items[0].Answer, "(typisk")
}

func TestClarifyVagueTerms_SkipsAlreadyExplained(t *testing.T) {
	answer := "Selger må rette innen rimelig tid (normalt noen uker)."
	out := ClarifyVagueTerms([]model.QAItem{{Answer: answer}})
	assert.Equal(t, answer, out[0].Answer)
}

func TestClarifyVagueTerms_CaseInsensitive(t *testing.T) {
	out := ClarifyVagueTerms([]model.QAItem{{Answer: "Vesentlig mislighold gir rett til heving."}})
	assert.Contains(t, out[0].Answer, "Vesentlig mislighold (et kontraktsbrudd")
}

func TestClarifyVagueTerms_NoMatchUnchanged(t *testing.T) {
	out := ClarifyVagueTerms([]model.QAItem{{Answer: "Reklamasjonsfristen er to år."}})
	assert.Equal(t, "Reklamasjonsfristen er to år.", out[0].Answer)
}

func TestClarifyVagueTerms_Deterministic(t *testing.T) {
	items := []model.QAItem{{Answer: "Ved vesentlig mangel kan du heve, men kravet må fremmes uten ugrunnet opphold."}}
	a := ClarifyVagueTerms(items)
	b := ClarifyVagueTerms(items)
	assert.Equal(t, a[0].Answer, b[0].Answer)
}
