package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/lovsentralen/saksanalyse/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <case-id>",
	Short: "Write the analysis report for a completed case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		caseID := args[0]

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

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

		report := export.Render(c, result, evidence)
		if exportOut == "" {
			fmt.Print(report)
			return nil
		}
		if err := os.WriteFile(exportOut, []byte(report), 0644); err != nil {
			return eris.Wrap(err, "write report")
		}
		fmt.Printf("Rapport skrevet til %s\n", exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}
