package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/lovsentralen/saksanalyse/internal/model"
)

var (
	clarifyAnswerID   string
	clarifyAnswerText string
)

var clarifyCmd = &cobra.Command{
	Use:   "clarify <case-id>",
	Short: "Generate or answer clarification questions for a case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		caseID := args[0]

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if clarifyAnswerID != "" {
			if clarifyAnswerText == "" {
				return eris.New("--text is required with --answer")
			}
			if err := env.Store.AnswerClarification(ctx, clarifyAnswerID, clarifyAnswerText); err != nil {
				return err
			}
			fmt.Println("Svar registrert.")
			return printClarifications(cmd, env, caseID)
		}

		inserted, err := env.Pipeline.Clarify(ctx, caseID)
		if err != nil {
			return err
		}
		if len(inserted) == 0 {
			fmt.Println("Ingen avklaringer nødvendig; saken kan analyseres.")
			return nil
		}
		for _, c := range inserted {
			fmt.Printf("[%s] %s\n", c.ID, c.Question)
		}
		return nil
	},
}

func printClarifications(cmd *cobra.Command, env *appEnv, caseID string) error {
	listed, err := env.Store.ListClarifications(cmd.Context(), caseID)
	if err != nil {
		return err
	}
	answered := len(model.Answered(listed))
	fmt.Printf("%d av %d spørsmål besvart.\n", answered, len(listed))
	return nil
}

func init() {
	clarifyCmd.Flags().StringVar(&clarifyAnswerID, "answer", "", "clarification id to answer")
	clarifyCmd.Flags().StringVar(&clarifyAnswerText, "text", "", "answer text")
	rootCmd.AddCommand(clarifyCmd)
}
