package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/stevemarchese/superbowl-squares/go/internal/db"
	"github.com/stevemarchese/superbowl-squares/go/internal/dbconfig"
)

func setupDatabase(ctx context.Context) (*sql.DB, error) {
	cfg := dbconfig.NewConfigFromEnv()

	database, err := dbconfig.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if getEnv("DB_MIGRATE", "true") == "true" {
		if err := db.Migrate(ctx, database, cfg.Driver); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	event := log.Info().Str("driver", cfg.Driver)
	if cfg.Driver == dbconfig.DriverSQLite {
		event = event.Str("path", cfg.Path)
	} else {
		event = event.Str("host", cfg.Host).Int("port", cfg.Port).Str("database", cfg.Database)
	}
	event.Msg("connected to database")

	return database, nil
}
