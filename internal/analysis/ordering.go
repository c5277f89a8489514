package analysis

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lovsentralen/saksanalyse/internal/model"
	"github.com/lovsentralen/saksanalyse/internal/reason"
)

// legalPhases is the presentation order for the sorted analysis: which
// rules apply, then deadlines, then conditions, then remedies.
var legalPhases = []string{"regelverk", "frister", "vilkår", "rettsvirkninger"}

// SortInLegalOrder reorders items into natural legal reading order with a
// single holistic reasoner call. Pure permutation: every input item appears
// exactly once in the output, unplaced items are appended in original
// order, and any failure returns the input unchanged.
func SortInLegalOrder(ctx context.Context, rc reason.Client, items []model.QAItem) []model.QAItem {
	if len(items) < 2 {
		return items
	}

	var sb strings.Builder
	sb.WriteString("Spørsmål:\n")
	for _, item := range items {
		fmt.Fprintf(&sb, "%s: %s\n", item.ID, item.Question)
	}
	fmt.Fprintf(&sb, `
Fordel spørsmålene etter ID på fasene %s. Svar med JSON:
{"phases": {"regelverk": ["<id>"], "frister": ["<id>"], "vilkår": ["<id>"], "rettsvirkninger": ["<id>"]}}`,
		strings.Join(legalPhases, ", "))

	text, err := rc.Complete(ctx, reason.Request{
		System:    systemOrdering,
		Prompt:    sb.String(),
		MaxTokens: 512,
		Phase:     "ordering",
	})
	if err != nil {
		zap.L().Warn("analysis: ordering call failed, keeping original order", zap.Error(err))
		return items
	}

	type shape struct {
		Phases map[string][]string `json:"phases"`
	}
	decoded := reason.DecodeOrDefault(text, shape{})
	if len(decoded.Phases) == 0 {
		return items
	}

	byID := make(map[string]model.QAItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	ordered := make([]model.QAItem, 0, len(items))
	placed := make(map[string]struct{}, len(items))
	for _, phase := range legalPhases {
		for _, id := range decoded.Phases[phase] {
			item, ok := byID[id]
			if !ok {
				continue
			}
			if _, dup := placed[id]; dup {
				continue
			}
			placed[id] = struct{}{}
			ordered = append(ordered, item)
		}
	}

	// Anything the model did not place keeps its original position at the
	// tail. Sorting must never drop an item.
	for _, item := range items {
		if _, ok := placed[item.ID]; !ok {
			ordered = append(ordered, item)
		}
	}

	if len(ordered) != len(items) {
		zap.L().Warn("analysis: ordering changed item count, keeping original order",
			zap.Int("before", len(items)), zap.Int("after", len(ordered)))
		return items
	}
	return ordered
}
