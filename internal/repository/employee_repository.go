package repository

import (
	"context"
	"fmt"

	"perk-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// employeeRepository implements the EmployeeRepository interface using PostgreSQL.
type employeeRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewEmployeeRepository creates a new PostgreSQL-backed employee repository.
func NewEmployeeRepository(pool *pgxpool.Pool, logger zerolog.Logger) EmployeeRepository {
	return &employeeRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "employee").Logger(),
	}
}

// GetByID retrieves an employee by id.
func (r *employeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	query := `
		SELECT id, name, email, points, locked, created_at
		FROM employees
		WHERE id = $1
	`

	var e model.Employee
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Name, &e.Email, &e.Points, &e.Locked, &e.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("employee_id", id.String()).Msg("employee not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("employee_id", id.String()).Msg("failed to query employee")
		return nil, fmt.Errorf("failed to query employee: %w", err)
	}

	return &e, nil
}

// DeductPoints subtracts points only when the balance covers the deduction.
// The WHERE guard plus the affected-row check prevents two concurrent
// checkouts from both spending the same balance.
func (r *employeeRepository) DeductPoints(ctx context.Context, tx pgx.Tx, id uuid.UUID, points int) error {
	query := `
		UPDATE employees
		SET points = points - $2
		WHERE id = $1 AND points >= $2
	`

	tag, err := tx.Exec(ctx, query, id, points)
	if err != nil {
		r.logger.Error().Err(err).
			Str("employee_id", id.String()).
			Int("points", points).
			Msg("failed to deduct points")
		return fmt.Errorf("failed to deduct points: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Warn().
			Str("employee_id", id.String()).
			Int("points", points).
			Msg("points deduction rejected")
		return model.ErrInsufficientPoints
	}

	return nil
}

// ZeroPoints sets the employee's balance to zero within the transaction.
func (r *employeeRepository) ZeroPoints(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	query := `
		UPDATE employees
		SET points = 0
		WHERE id = $1
	`

	_, err := tx.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).
			Str("employee_id", id.String()).
			Msg("failed to zero points")
		return fmt.Errorf("failed to zero points: %w", err)
	}

	return nil
}
