package cmd

import (
	"hr_records/store"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()
		defer store.Close(db)

		if err := store.Migrate(db); err != nil {
			return err
		}
		logger.Info("Schema migrated")
		return nil
	},
}
