package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/store"
)

func newFetchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the product listing once and print the catalog state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := a.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			lister, closeLister, err := newLister(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeLister()

			s := store.New(lister, store.WithLogger(logger), store.WithDebug(cfg.Debug()))
			fetchErr := s.Dispatch(cmd.Context(), store.FetchItems{})

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(s.State().Items); err != nil {
				return err
			}
			return fetchErr
		},
	}
}
