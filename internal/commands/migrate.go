package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robalobadob/colormemory/internal/db"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			sqlDB, err := db.OpenAndMigrate(cfg.DBPath)
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "Database ready: %s\n", cfg.DBPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	return cmd
}
