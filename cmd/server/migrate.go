package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmynk/circles/internal/config"
	"github.com/mmynk/circles/internal/storage/sqlstore"
)

func newMigrateCmd(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and exit",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			dialect, err := sqlstore.ParseDialect(cfg.DBDriver)
			if err != nil {
				return err
			}

			if err := sqlstore.Migrate(dialect, cfg.DBDSN); err != nil {
				return err
			}
			version, dirty, err := sqlstore.MigrationVersion(dialect, cfg.DBDSN)
			if err != nil {
				return err
			}
			if dirty {
				return fmt.Errorf("schema version %d is dirty", version)
			}
			slog.Info("Schema up to date", "driver", cfg.DBDriver, "version", version)
			return nil
		},
	}
}
