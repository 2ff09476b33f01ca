package cmd

import (
	"github.com/spf13/cobra"

	config "taskmaster.app/taskmaster/internal/configs"
	"taskmaster.app/taskmaster/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the users and tasks tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := config.NewDatabaseClient(cfg.DatabaseDriver, cfg.DatabaseDSN)
		if err != nil {
			return err
		}

		if err := config.Migrate(db); err != nil {
			return err
		}

		logger.Info("Schema migrated", "driver", cfg.DatabaseDriver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
