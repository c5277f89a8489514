// Package export renders a completed analysis as a flat text report.
package export

import (
	"fmt"
	"strings"

	"github.com/lovsentralen/saksanalyse/internal/model"
)

// disclaimer opens every report. The tool gives legal information, not
// legal advice, and the report must say so before anything else.
const disclaimer = `Dette dokumentet er juridisk informasjon, ikke juridisk rådgivning.
Innholdet er generert fra offentlig tilgjengelige kilder og kan inneholde
feil eller mangler. Kontakt advokat for vurdering av din konkrete sak.`

// Render produces the full report for a completed case.
func Render(c *model.Case, result *model.Result, evidence []model.Evidence) string {
	var sb strings.Builder

	sb.WriteString("SAKSANALYSE\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n\n")
	fmt.Fprintf(&sb, "Sak: %s\n", c.ID)
	if label, ok := model.CategoryLabels[c.Category]; ok {
		fmt.Fprintf(&sb, "Rettsområde: %s\n", label)
	}
	fmt.Fprintf(&sb, "Opprettet: %s\n\n", c.CreatedAt.Format("2006-01-02"))

	sb.WriteString(disclaimer + "\n\n")

	if len(result.SensitiveTopics) > 0 {
		sb.WriteString("VIKTIGE MERKNADER\n")
		sb.WriteString(strings.Repeat("-", 60) + "\n")
		for _, tp := range result.SensitiveTopics {
			fmt.Fprintf(&sb, "- %s: %s\n", tp.Topic, tp.Message)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("SAKSFORHOLD\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	sb.WriteString(c.Faktum + "\n\n")

	sb.WriteString("SPØRSMÅL OG SVAR\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	for i, item := range result.QAItems {
		fmt.Fprintf(&sb, "\n%d. %s\n", i+1, item.Question)
		fmt.Fprintf(&sb, "   %s\n", item.Answer)
		fmt.Fprintf(&sb, "   Sikkerhet: %s\n", item.Confidence)
		if item.LegalReasoning != "" {
			fmt.Fprintf(&sb, "   Begrunnelse: %s\n", item.LegalReasoning)
		}
		if item.ShowAssumptions && len(item.Assumptions) > 0 {
			sb.WriteString("   Forutsetninger:\n")
			for _, a := range item.Assumptions {
				fmt.Fprintf(&sb, "   - %s\n", a)
			}
		}
		for _, cit := range item.Citations {
			if cit.Section != "" {
				fmt.Fprintf(&sb, "   Kilde: %s %s (%s)\n", cit.SourceName, cit.Section, cit.URL)
			} else {
				fmt.Fprintf(&sb, "   Kilde: %s (%s)\n", cit.SourceName, cit.URL)
			}
		}
	}

	sb.WriteString("\nSJEKKLISTE\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	for _, item := range result.Checklist {
		box := "[ ]"
		if item.Completed {
			box = "[x]"
		}
		fmt.Fprintf(&sb, "%s %s", box, item.Text)
		if item.Priority != "" {
			fmt.Fprintf(&sb, " (prioritet: %s)", item.Priority)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\nDOKUMENTASJON Å SAMLE\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	for _, item := range result.Documentation {
		fmt.Fprintf(&sb, "- %s", item.Text)
		if item.Reason != "" {
			fmt.Fprintf(&sb, " (%s)", item.Reason)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\nKILDER\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	for _, src := range result.Sources {
		fmt.Fprintf(&sb, "- %s: %s\n", src.Name, src.URL)
		if src.Description != "" {
			fmt.Fprintf(&sb, "  %s\n", src.Description)
		}
	}

	if len(evidence) > 0 {
		sb.WriteString("\nINNHENTET KILDEMATERIALE\n")
		sb.WriteString(strings.Repeat("-", 60) + "\n")
		for _, e := range evidence {
			fmt.Fprintf(&sb, "- %s (%s)\n", e.Title, e.URL)
		}
	}

	return sb.String()
}
