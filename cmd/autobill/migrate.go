package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/autobill/internal/cli"
	"github.com/Veraticus/autobill/internal/common"
	"github.com/Veraticus/autobill/internal/config"
	"github.com/Veraticus/autobill/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply pending database migrations, or report the schema version with --status.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			status, _ := cmd.Flags().GetBool("status")

			// initStorage migrates, so open the store directly for --status.
			store, err := storage.NewSQLiteStore(config.DatabasePath(viper.GetViper()))
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if !status {
				if err := store.Migrate(ctx); err != nil {
					return fmt.Errorf("failed to run migrations: %w", err)
				}
				common.LogInfo("Database migrations completed successfully", common.Fields{"path": store.Path()})
			}

			version, err := store.SchemaVersion(ctx)
			if err != nil {
				return err
			}

			msg := fmt.Sprintf("Schema version %d of %d", version, storage.ExpectedSchemaVersion)
			if version < storage.ExpectedSchemaVersion {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning(msg+" (run 'autobill migrate')"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(msg))
			return nil
		},
	}

	cmd.Flags().Bool("status", false, "show migration status without applying")

	return cmd
}
