package main

import (
	"fmt"

	"github.com/joestump/vidshare/internal/catalog"
	"github.com/joestump/vidshare/internal/store"
	"github.com/spf13/cobra"
)

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Scan the catalog roots once and add new videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, database, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			scanner := catalog.NewScanner(cfg.Catalog.Roots, cfg.Catalog.Extensions, cfg.Catalog.AdPrefix)
			res, err := catalog.NewReconciler(scanner, store.NewRecordStore(database)).Refresh(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "discovered=%d added=%d skipped=%d failed=%d missing=%d total=%d\n",
				res.Discovered, res.Added, res.Skipped, res.Failed, res.Missing, res.Total)
			return nil
		},
	}
}
