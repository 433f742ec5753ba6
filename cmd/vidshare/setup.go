package main

import (
	"github.com/jmoiron/sqlx"
	"github.com/joestump/vidshare/internal/config"
	"github.com/joestump/vidshare/internal/db"
	"github.com/joestump/vidshare/internal/logger"
)

// bootstrap loads config, initialises logging and opens a migrated database.
func bootstrap() (*config.Config, *sqlx.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(database, cfg.DB.Driver); err != nil {
		_ = database.Close()
		return nil, nil, err
	}
	return cfg, database, nil
}
