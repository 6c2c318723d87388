package cmd

import (
	"time"

	"hr_records/store"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Migrate and fill an empty database with demo records",
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
		if err := store.Seed(cmd.Context(), db, time.Now().UTC()); err != nil {
			return err
		}
		logger.Info("Demo data seeded")
		return nil
	},
}
