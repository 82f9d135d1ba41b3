package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/bigkaa/goartstore/file-api/internal/config"
	"github.com/bigkaa/goartstore/file-api/internal/database"
)

// errMigrateBackend — миграции есть только у PostgreSQL-бэкенда метаданных.
var errMigrateBackend = errors.New("миграции применимы только при FA_METADATA_BACKEND=postgres")

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Управление схемой PostgreSQL",
	}
	cmd.AddCommand(newMigrateUpCmd(), newMigrateDownCmd())
	return cmd
}

func newMigrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Применить все миграции",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadPostgresConfig()
			if err != nil {
				return err
			}
			return database.Migrate(cfg, config.SetupLogger(cfg))
		},
	}
}

func newMigrateDownCmd() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Откатить последние миграции",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadPostgresConfig()
			if err != nil {
				return err
			}
			return database.MigrateDown(cfg, steps, config.SetupLogger(cfg))
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "Количество откатываемых миграций")
	return cmd
}

func loadPostgresConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.MetadataBackend != config.MetadataPostgres {
		return nil, errMigrateBackend
	}
	return cfg, nil
}
