package main

import (
	"github.com/joestump/vidshare/internal/logger"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, database, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			logger.Info("migrations complete")
			return nil
		},
	}
}
