package analysis

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lovsentralen/saksanalyse/internal/model"
	"github.com/lovsentralen/saksanalyse/internal/reason"
)

// AttachReasoning fills in the legal reasoning chain for each item: rule,
// interpretation, application, conclusion, grounded in the item's own
// citations. Fail-open per item: a failed call leaves that item's
// reasoning empty rather than failing the pipeline.
func AttachReasoning(ctx context.Context, rc reason.Client, items []model.QAItem, faktum string) []model.QAItem {
	out := make([]model.QAItem, len(items))
	copy(out, items)

	for i := range out {
		item := &out[i]
		if item.LegalReasoning != "" {
			continue
		}

		var sb strings.Builder
		sb.WriteString("Saksforhold:\n")
		sb.WriteString(faktum)
		fmt.Fprintf(&sb, "\n\nSpørsmål: %s\nSvar: %s\n", item.Question, item.Answer)
		if len(item.Citations) > 0 {
			sb.WriteString("\nSiteringer:\n")
			for _, c := range item.Citations {
				fmt.Fprintf(&sb, "- %s %s (%s)\n", c.SourceName, c.Section, c.URL)
			}
		}
		sb.WriteString(`
Skriv resonnementet som sammenhengende norsk tekst etter mønsteret regel,
tolkning, subsumsjon, konklusjon. Svar med JSON: {"reasoning": "<tekst>"}`)

		text, err := rc.Complete(ctx, reason.Request{
			System:    systemReasoning,
			Prompt:    sb.String(),
			MaxTokens: 1024,
			Phase:     "reasoning",
		})
		if err != nil {
			zap.L().Warn("analysis: reasoning attachment failed for item",
				zap.String("id", item.ID), zap.Error(err))
			continue
		}

		type shape struct {
			Reasoning string `json:"reasoning"`
		}
		decoded := reason.DecodeOrDefault(text, shape{})
		item.LegalReasoning = strings.TrimSpace(decoded.Reasoning)
	}

	return out
}
