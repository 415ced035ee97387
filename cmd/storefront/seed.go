package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/products"
)

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file|->",
		Short: "Upsert a JSON array of products into the products table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := a.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open seed file: %w", err)
				}
				defer f.Close()
				in = f
			}

			var seed []catalog.Product
			if err := json.NewDecoder(in).Decode(&seed); err != nil {
				return fmt.Errorf("decode seed file: %w", err)
			}

			if cfg.RunMigrations {
				if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
					return fmt.Errorf("db migrate: %w", err)
				}
			}
			pool, err := db.NewPool(cmd.Context(), cfg.DatabaseDSN)
			if err != nil {
				return fmt.Errorf("db connect: %w", err)
			}
			defer pool.Close()

			if err := products.NewPostgresRepository(pool).Seed(cmd.Context(), seed); err != nil {
				return err
			}
			logger.Info("products seeded", zap.Int("count", len(seed)))
			return nil
		},
	}
}
