package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lovsentralen/saksanalyse/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "saksanalyse",
	Short: "Juridisk informasjonsanalyse for norske saksforhold",
	Long:  "Identifies the legal issues in a user's case description, gathers authoritative Norwegian sources, and synthesizes a cited question/answer analysis with checklist and documentation guidance.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
