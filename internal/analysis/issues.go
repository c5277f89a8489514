// Package analysis holds the LLM-backed pipeline stages: issue extraction,
// clarification questions, synthesis, and the consistency repair passes.
// Every stage depends only on reason.Client so control flow stays testable.
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

// ExtractIssues identifies the discrete legal issues in the faktum,
// informed by any answered clarifications. Returns between 2 and 5 issues;
// fewer than 2 from the model is an error since the whole pipeline hangs
// off the issue list.
func ExtractIssues(ctx context.Context, rc reason.Client, faktum string, clarifications []model.Clarification) ([]model.LegalIssue, error) {
	var sb strings.Builder
	sb.WriteString("Saksforhold:\n")
	sb.WriteString(faktum)
	writeClarifications(&sb, clarifications)
	sb.WriteString(`

Identifiser 2-5 juridiske problemstillinger. Svar med JSON:
{"issues": [{"issue": "<kort problemstilling>", "domain": "<rettsområde, f.eks. forbrukerkjop, husleie, arbeidsrett, personvern, kontrakt, erstatning>"}]}`)

	text, err := rc.Complete(ctx, reason.Request{
		System:    systemIssues,
		Prompt:    sb.String(),
		MaxTokens: 1024,
		Phase:     "issues",
	})
	if err != nil {
		return nil, eris.Wrap(err, "analysis: extract issues")
	}

	type shape struct {
		Issues []model.LegalIssue `json:"issues"`
	}
	out := reason.DecodeOrDefault(text, shape{})

	issues := make([]model.LegalIssue, 0, len(out.Issues))
	for _, issue := range out.Issues {
		if strings.TrimSpace(issue.Issue) == "" {
			continue
		}
		issues = append(issues, issue)
	}
	if len(issues) > 5 {
		issues = issues[:5]
	}
	if len(issues) < 2 {
		return nil, eris.New("analysis: fewer than two legal issues identified")
	}

	zap.L().Info("analysis: issues extracted", zap.Int("count", len(issues)))
	return issues, nil
}

func writeClarifications(sb *strings.Builder, clarifications []model.Clarification) {
	answered := model.Answered(clarifications)
	if len(answered) == 0 {
		return
	}
	sb.WriteString("\n\nAvklaringer fra brukeren:\n")
	for _, c := range answered {
		fmt.Fprintf(sb, "- %s %s\n", c.Question, c.UserAnswer)
	}
}
