package analysis

import (
	"strings"

	"github.com/lovsentralen/saksanalyse/internal/model"
)

// vagueTerms maps legal standard phrases to concrete explanations appended
// in parentheses the first time the phrase appears in an answer. Slice, not
// map: rewriting must be deterministic and earlier entries win on overlap.
var vagueTerms = []struct {
	phrase      string
	explanation string
}{
	{"uten ugrunnet opphold", "det vil si så raskt som praktisk mulig, normalt innen få dager"},
	{"vesentlig mislighold", "et kontraktsbrudd så alvorlig at det gir grunnlag for å heve avtalen"},
	{"vesentlig mangel", "en mangel så alvorlig at kjøpet kan heves"},
	{"rimelig tid", "typisk to til tre måneder, avhengig av situasjonen"},
	{"uforholdsmessig", "kostnaden står ikke i et rimelig forhold til det som oppnås"},
	{"god tro", "man verken visste eller burde ha visst om forholdet"},
	{"påregnelig", "en følge man med rimelighet kunne forutse"},
}

// ClarifyVagueTerms appends plain-language explanations to legal standard
// phrases in answers. Deterministic, no reasoner call; each phrase is
// explained at most once per answer, and answers that already carry an
// explanation in parentheses right after the phrase are left alone.
func ClarifyVagueTerms(items []model.QAItem) []model.QAItem {
	out := make([]model.QAItem, len(items))
	copy(out, items)
	for i := range out {
		out[i].Answer = explainPhrases(out[i].Answer)
	}
	return out
}

func explainPhrases(answer string) string {
	lowered := strings.ToLower(answer)
	for _, term := range vagueTerms {
		idx := strings.Index(lowered, term.phrase)
		if idx < 0 {
			continue
		}
		end := idx + len(term.phrase)
		rest := strings.TrimLeft(answer[end:], " ")
		if strings.HasPrefix(rest, "(") {
			continue
		}
		answer = answer[:end] + " (" + term.explanation + ")" + answer[end:]
		lowered = strings.ToLower(answer)
	}
	return answer
}
