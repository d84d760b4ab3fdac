package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/autobill/internal/cli"
)

func recentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show recently recorded bills",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txns, err := store.RecentTransactions(ctx, limit)
			if err != nil {
				return err
			}

			if len(txns) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No bills recorded yet"))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTransactions(txns))
			return nil
		},
	}

	cmd.Flags().IntP("limit", "n", 20, "number of bills to show")

	return cmd
}
