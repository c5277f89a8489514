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

// maxQuestions bounds how many clarification questions one case may ask.
const maxQuestions = 3

// GenerateQuestions produces at most three short factual follow-up
// questions for a case. legalContext is optional preliminary search
// snippets that help the model ask about the right facts.
func GenerateQuestions(ctx context.Context, rc reason.Client, faktum string, category model.LegalCategory, legalContext string) ([]string, error) {
	var sb strings.Builder
	sb.WriteString("Saksforhold:\n")
	sb.WriteString(faktum)
	if category != "" {
		if label, ok := model.CategoryLabels[category]; ok {
			fmt.Fprintf(&sb, "\n\nRettsområde valgt av brukeren: %s", label)
		}
	}
	if legalContext != "" {
		sb.WriteString("\n\nRelevant juridisk kontekst fra innledende søk:\n")
		sb.WriteString(legalContext)
	}
	fmt.Fprintf(&sb, `

Formuler inntil %d korte oppfølgingsspørsmål om faktum. Svar med JSON:
{"questions": ["<spørsmål>"]}`, maxQuestions)

	text, err := rc.Complete(ctx, reason.Request{
		System:    systemQuestions,
		Prompt:    sb.String(),
		MaxTokens: 512,
		Phase:     "questions",
	})
	if err != nil {
		return nil, eris.Wrap(err, "analysis: generate questions")
	}

	type shape struct {
		Questions []string `json:"questions"`
	}
	out := reason.DecodeOrDefault(text, shape{})

	questions := make([]string, 0, maxQuestions)
	for _, q := range out.Questions {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		questions = append(questions, q)
		if len(questions) == maxQuestions {
			break
		}
	}

	return filterAnswered(ctx, rc, faktum, questions), nil
}

// filterAnswered drops questions the faktum already answers. The bias runs
// toward asking: any ambiguity or reasoner failure keeps the question.
func filterAnswered(ctx context.Context, rc reason.Client, faktum string, questions []string) []string {
	if len(questions) == 0 {
		return questions
	}

	var sb strings.Builder
	sb.WriteString("Saksforhold:\n")
	sb.WriteString(faktum)
	sb.WriteString("\n\nSpørsmål:\n")
	for i, q := range questions {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, q)
	}
	sb.WriteString(`
For hvert spørsmål: besvarer saksforholdet det allerede, klart og utvetydig?
Svar med JSON: {"answered": [<true/false per spørsmål, i rekkefølge>]}`)

	text, err := rc.Complete(ctx, reason.Request{
		System:    systemQuestions,
		Prompt:    sb.String(),
		MaxTokens: 256,
		Phase:     "question_filter",
	})
	if err != nil {
		zap.L().Warn("analysis: question filter failed, keeping all questions", zap.Error(err))
		return questions
	}

	type shape struct {
		Answered []bool `json:"answered"`
	}
	out := reason.DecodeOrDefault(text, shape{})
	if len(out.Answered) != len(questions) {
		return questions
	}

	kept := make([]string, 0, len(questions))
	for i, q := range questions {
		if out.Answered[i] {
			zap.L().Debug("analysis: question already answered by faktum", zap.String("question", q))
			continue
		}
		kept = append(kept, q)
	}
	return kept
}
