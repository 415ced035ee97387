package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/products"
)

type app struct {
	v          *viper.Viper
	configFile string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront session state: catalog, cart and purchase history",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.New(a.configFile)
			if err != nil {
				return err
			}
			if err := v.BindPFlag("mode", cmd.Root().PersistentFlags().Lookup("mode")); err != nil {
				return err
			}
			a.v = v
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "path to a config file (yaml, json or toml)")
	root.PersistentFlags().String("mode", "development", "runtime mode; anything but production enables debug instrumentation")

	root.AddCommand(newServeCmd(a), newFetchCmd(a), newMigrateCmd(a), newSeedCmd(a))
	return root
}

func (a *app) load() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(a.v)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Debug() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newLister builds the product lister for cfg. The returned cleanup releases
// any pool it opened.
func newLister(ctx context.Context, cfg config.Config, logger *zap.Logger) (catalog.Lister, func(), error) {
	switch cfg.ProductsSource {
	case config.SourcePostgres:
		if cfg.RunMigrations {
			if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
				return nil, nil, fmt.Errorf("db migrate: %w", err)
			}
		}
		pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect: %w", err)
		}
		return products.NewPostgresRepository(pool), pool.Close, nil
	default:
		c, err := clients.NewClient("catalog-service", cfg.CatalogURL, &http.Client{Timeout: cfg.UpstreamTimeout})
		if err != nil {
			return nil, nil, err
		}
		return clients.NewCatalogClient(c), func() {}, nil
	}
}
