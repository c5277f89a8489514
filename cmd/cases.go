package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lovsentralen/saksanalyse/internal/model"
	"github.com/lovsentralen/saksanalyse/internal/store"
)

var (
	casesUser   string
	casesStatus string
	casesLimit  int
)

var casesCmd = &cobra.Command{
	Use:   "cases",
	Short: "List cases",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		listed, err := env.Store.ListCases(ctx, store.CaseFilter{
			UserID: casesUser,
			Status: model.CaseStatus(casesStatus),
			Limit:  casesLimit,
		})
		if err != nil {
			return err
		}

		if len(listed) == 0 {
			fmt.Println("Ingen saker.")
			return nil
		}
		for _, c := range listed {
			faktum := c.Faktum
			if len(faktum) > 60 {
				faktum = faktum[:60] + "…"
			}
			fmt.Printf("%s  %-10s  %s  %s\n", c.ID, c.Status, c.CreatedAt.Format("2006-01-02"), faktum)
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <case-id>",
	Short: "Delete a case and all its data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.Store.DeleteCase(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("Sak slettet.")
		return nil
	},
}

func init() {
	casesCmd.Flags().StringVar(&casesUser, "user", "", "filter by user id")
	casesCmd.Flags().StringVar(&casesStatus, "status", "", "filter by status")
	casesCmd.Flags().IntVar(&casesLimit, "limit", 50, "maximum cases to list")
	rootCmd.AddCommand(casesCmd)
	rootCmd.AddCommand(deleteCmd)
}
