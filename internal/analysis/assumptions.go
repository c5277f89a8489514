package analysis

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lovsentralen/saksanalyse/internal/model"
	"github.com/lovsentralen/saksanalyse/internal/reason"
)

// EvaluateAssumptions decides per item whether its assumptions are decisive
// and case-specific enough to surface to the user. Items without
// assumptions get show_assumptions false unconditionally; a failed call
// leaves the item's flag false.
func EvaluateAssumptions(ctx context.Context, rc reason.Client, items []model.QAItem, faktum string) []model.QAItem {
	out := make([]model.QAItem, len(items))
	copy(out, items)

	for i := range out {
		item := &out[i]
		if len(item.Assumptions) == 0 {
			item.ShowAssumptions = false
			continue
		}

		var sb strings.Builder
		sb.WriteString("Saksforhold:\n")
		sb.WriteString(faktum)
		fmt.Fprintf(&sb, "\n\nSpørsmål: %s\nSvar: %s\n\nForutsetninger:\n", item.Question, item.Answer)
		for _, a := range item.Assumptions {
			fmt.Fprintf(&sb, "- %s\n", a)
		}
		sb.WriteString(`
Er forutsetningene avgjørende for konklusjonen og spesifikke for denne
saken? Svar med JSON: {"show": true/false}`)

		text, err := rc.Complete(ctx, reason.Request{
			System:    systemAssumptions,
			Prompt:    sb.String(),
			MaxTokens: 128,
			Phase:     "assumptions",
		})
		if err != nil {
			zap.L().Warn("analysis: assumption evaluation failed for item",
				zap.String("id", item.ID), zap.Error(err))
			item.ShowAssumptions = false
			continue
		}

		type shape struct {
			Show bool `json:"show"`
		}
		item.ShowAssumptions = reason.DecodeOrDefault(text, shape{}).Show
	}

	return out
}
