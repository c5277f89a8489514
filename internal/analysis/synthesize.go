package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lovsentralen/saksanalyse/internal/model"
	"github.com/lovsentralen/saksanalyse/internal/reason"
)

// Target shape of the synthesized analysis.
const (
	qaCount          = 10
	checklistMin     = 5
	checklistMax     = 8
	documentationMin = 3
	documentationMax = 6
)

// Synthesize turns the faktum, clarifications and gathered evidence into a
// complete analysis. Citation URLs are grounded against the evidence set
// afterwards; claims without source coverage are marked unconfirmed rather
// than asserted.
func Synthesize(ctx context.Context, rc reason.Client, faktum string, clarifications []model.Clarification, evidence []model.Evidence) (*model.Result, error) {
	if len(evidence) == 0 {
		return nil, eris.New("analysis: no evidence to synthesize from")
	}

	var sb strings.Builder
	sb.WriteString("Saksforhold:\n")
	sb.WriteString(faktum)
	writeClarifications(&sb, clarifications)

	sb.WriteString("\n\nKildemateriale:\n")
	for i, e := range evidence {
		fmt.Fprintf(&sb, "\n[Kilde %d] %s (%s)\nURL: %s\n", i+1, e.Title, e.SourceName, e.URL)
		if e.SectionHint != "" {
			fmt.Fprintf(&sb, "Avsnitt: %s\n", e.SectionHint)
		}
		sb.WriteString(e.Excerpt)
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, `

Lag en komplett analyse. Svar med JSON:
{
  "qa_items": [nøyaktig %d objekter: {"question", "answer", "citations": [{"source_name", "section", "url"}], "confidence": "lav"/"middels"/"høy", "assumptions": [...], "missing_facts": [...], "relevance": 1-10, "relevance_reason"}],
  "checklist": [%d-%d objekter: {"text", "priority": "høy"/"middels"/"lav"}],
  "documentation": [%d-%d objekter: {"text", "reason"}],
  "sources": [{"name", "url", "description", "priority": 1-4}]
}`, qaCount, checklistMin, checklistMax, documentationMin, documentationMax)

	text, err := rc.Complete(ctx, reason.Request{
		System:    systemSynthesis,
		Prompt:    sb.String(),
		MaxTokens: 8192,
		Phase:     "synthesis",
	})
	if err != nil {
		return nil, eris.Wrap(err, "analysis: synthesize")
	}

	result := reason.DecodeOrDefault(text, model.Result{})
	if len(result.QAItems) == 0 {
		return nil, eris.New("analysis: synthesis produced no qa items")
	}

	groundCitations(&result, evidence)
	normalize(&result)

	zap.L().Info("analysis: synthesis complete",
		zap.Int("qa_items", len(result.QAItems)),
		zap.Int("checklist", len(result.Checklist)),
		zap.Int("documentation", len(result.Documentation)),
		zap.Int("sources", len(result.Sources)),
	)
	return &result, nil
}

// unconfirmedNote flags an answer whose claims lack evidence coverage.
const unconfirmedNote = "Ikke bekreftet av innhentede kilder"

// groundCitations drops citations whose URL is not in the evidence set.
// Items left without citations are downgraded to low confidence and tagged
// unconfirmed instead of being removed.
func groundCitations(result *model.Result, evidence []model.Evidence) {
	allowed := make(map[string]struct{}, len(evidence))
	for _, e := range evidence {
		allowed[e.URL] = struct{}{}
	}

	for i := range result.QAItems {
		item := &result.QAItems[i]
		kept := item.Citations[:0]
		for _, c := range item.Citations {
			if _, ok := allowed[c.URL]; ok {
				kept = append(kept, c)
				continue
			}
			zap.L().Warn("analysis: dropping fabricated citation",
				zap.String("url", c.URL),
				zap.String("question", item.Question),
			)
		}
		item.Citations = kept

		if len(item.Citations) == 0 {
			item.Confidence = model.ConfidenceLow
			if !containsString(item.MissingFacts, unconfirmedNote) {
				item.MissingFacts = append(item.MissingFacts, unconfirmedNote)
			}
		}
	}

	keptSources := result.Sources[:0]
	for _, s := range result.Sources {
		if _, ok := allowed[s.URL]; ok {
			keptSources = append(keptSources, s)
		}
	}
	result.Sources = keptSources
}

// normalize assigns stable IDs and clamps model-chosen numeric fields.
func normalize(result *model.Result) {
	for i := range result.QAItems {
		item := &result.QAItems[i]
		item.ID = fmt.Sprintf("qa%d", i+1)
		if item.Relevance < 1 {
			item.Relevance = 1
		}
		if item.Relevance > 10 {
			item.Relevance = 10
		}
		switch item.Confidence {
		case model.ConfidenceLow, model.ConfidenceMedium, model.ConfidenceHigh:
		default:
			item.Confidence = model.ConfidenceLow
		}
	}
	for i := range result.Checklist {
		result.Checklist[i].ID = fmt.Sprintf("sjekk%d", i+1)
		result.Checklist[i].Completed = false
	}
	for i := range result.Documentation {
		result.Documentation[i].ID = fmt.Sprintf("dok%d", i+1)
	}
}

func containsString(items []string, want string) bool {
	for _, s := range items {
		if s == want {
			return true
		}
	}
	return false
}
