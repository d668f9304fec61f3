package database

import (
	"database/sql"
	"fmt"

	// Registers the "pgx" database/sql driver goose runs over.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"perk-store/internal/config"
)

// RunMigrations applies all pending goose migrations. It opens a short-lived
// database/sql connection via the pgx stdlib driver because goose does not
// speak pgxpool.
func RunMigrations(cfg config.DatabaseConfig, logger zerolog.Logger) error {
	db, err := sql.Open("pgx", cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	logger.Info().Str("dir", cfg.MigrationsDir).Msg("checking for pending migrations")

	if err := goose.Up(db, cfg.MigrationsDir); err != nil {
		logger.Error().Err(err).Msg("failed to run migrations")
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info().Msg("migrations completed successfully")
	return nil
}
