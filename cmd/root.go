// Package cmd is the hr-records command line.
package cmd

import (
	"fmt"
	"os"

	"hr_records/config"
	"hr_records/store"
	"hr_records/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "hr-records",
	Short:         "HR record keeping with role-scoped access",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./config/config.yaml)")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads config, sets up logging and opens the store.
func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := utils.InitLogger(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := utils.Logger

	db, err := store.Open(cfg.DB.URL, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, db, nil
}
