package main

import (
	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/db"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the products and event_sequence migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := a.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return db.RunMigrations(cfg.DatabaseDSN, logger)
		},
	}
}
