package repository

import (
	"context"
	"fmt"

	"perk-store/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// settingsRepository implements the SettingsRepository interface using PostgreSQL.
type settingsRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSettingsRepository creates a new PostgreSQL-backed settings repository.
func NewSettingsRepository(pool *pgxpool.Pool, logger zerolog.Logger) SettingsRepository {
	return &settingsRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "settings").Logger(),
	}
}

// Get retrieves the single settings row, falling back to defaults when the
// deployment has not configured one.
func (r *settingsRepository) Get(ctx context.Context) (model.Settings, error) {
	query := `
		SELECT currency_per_point, max_selections
		FROM settings
		WHERE id = 1
	`

	var s model.Settings
	err := r.pool.QueryRow(ctx, query).Scan(&s.CurrencyPerPoint, &s.MaxSelections)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Msg("no settings row configured, using defaults")
			return model.DefaultSettings(), nil
		}
		r.logger.Error().Err(err).Msg("failed to query settings")
		return model.Settings{}, fmt.Errorf("failed to query settings: %w", err)
	}

	return s, nil
}
