package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lovsentralen/saksanalyse/internal/export"
	"github.com/lovsentralen/saksanalyse/internal/model"
)

var (
	analyzeFaktum   string
	analyzeCategory string
	analyzeUser     string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [case-id]",
	Short: "Run the full analysis for a case",
	Long:  "Runs issue extraction, source gathering and synthesis for an existing case, or for an ad-hoc case created from --faktum.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		var caseID string
		switch {
		case len(args) == 1:
			caseID = args[0]
		case analyzeFaktum != "":
			c, err := env.Store.CreateCase(ctx, analyzeUser, analyzeFaktum, model.LegalCategory(analyzeCategory))
			if err != nil {
				return err
			}
			caseID = c.ID
			zap.L().Info("created ad-hoc case", zap.String("case_id", caseID))
		default:
			return eris.New("either a case-id argument or --faktum is required")
		}

		if err := env.Pipeline.Analyze(ctx, caseID); err != nil {
			return err
		}

		c, err := env.Store.GetCase(ctx, caseID)
		if err != nil {
			return err
		}
		result, err := env.Store.GetResult(ctx, caseID)
		if err != nil {
			return err
		}
		evidence, err := env.Store.ListEvidence(ctx, caseID)
		if err != nil {
			return err
		}

		fmt.Print(export.Render(c, result, evidence))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFaktum, "faktum", "", "case description for an ad-hoc case")
	analyzeCmd.Flags().StringVar(&analyzeCategory, "category", "", "legal category (forbrukerkjop, husleie, arbeidsrett, personvern, kontrakt, erstatning)")
	analyzeCmd.Flags().StringVar(&analyzeUser, "user", "cli", "user id for an ad-hoc case")
	rootCmd.AddCommand(analyzeCmd)
}
