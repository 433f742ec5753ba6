package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joestump/vidshare/internal/auth"
	"github.com/joestump/vidshare/internal/catalog"
	"github.com/joestump/vidshare/internal/handler"
	"github.com/joestump/vidshare/internal/logger"
	"github.com/joestump/vidshare/internal/store"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, database, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			for _, root := range cfg.Catalog.Roots {
				if err := os.MkdirAll(root.Dir, 0o755); err != nil {
					return err
				}
			}

			sessionManager := auth.NewSessionManager(database, cfg.DB.Driver, cfg.SessionLifetime, !cfg.InsecureCookies)

			recordStore := store.NewRecordStore(database)
			scanner := catalog.NewScanner(cfg.Catalog.Roots, cfg.Catalog.Extensions, cfg.Catalog.AdPrefix)
			reconciler := catalog.NewReconciler(scanner, recordStore)

			if cfg.Catalog.RefreshOnStart {
				if _, err := reconciler.Refresh(ctx); err != nil {
					return err
				}
			}
			if cfg.Catalog.Watch {
				watcher := catalog.NewWatcher(reconciler, cfg.Catalog.WatchDebounce)
				go func() {
					if err := watcher.Run(ctx); err != nil {
						logger.Error("catalog watcher stopped", "err", err)
					}
				}()
			}

			router := handler.NewRouter(handler.Deps{
				SessionManager:    sessionManager,
				Roots:             cfg.Catalog.Roots,
				RecordStore:       recordStore,
				LikeStore:         store.NewLikeStore(database),
				ClickStore:        store.NewClickStore(database),
				StatsStore:        store.NewStatsStore(database),
				Refresher:         reconciler,
				AdminPollInterval: cfg.AdminPollInterval,
			})

			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", cfg.HTTP.Addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
