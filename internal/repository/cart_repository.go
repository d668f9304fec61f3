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

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

const cartColumns = `id, employee_id, product_id, color, quantity, created_at, updated_at`

// ListByEmployee retrieves all cart lines for an employee.
func (r *cartRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.CartItem, error) {
	query := `
		SELECT ` + cartColumns + `
		FROM cart_items
		WHERE employee_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, employeeID)
	if err != nil {
		r.logger.Error().Err(err).
			Str("employee_id", employeeID.String()).
			Msg("failed to query cart lines")
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	var items []model.CartItem
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart line row")
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart line rows")
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}

	return items, nil
}

// GetLine retrieves a single cart line owned by the employee.
func (r *cartRepository) GetLine(ctx context.Context, employeeID, lineID uuid.UUID) (*model.CartItem, error) {
	query := `
		SELECT ` + cartColumns + `
		FROM cart_items
		WHERE id = $1 AND employee_id = $2
	`

	item, err := scanCartItem(r.pool.QueryRow(ctx, query, lineID, employeeID))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("line_id", lineID.String()).Msg("cart line not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("line_id", lineID.String()).Msg("failed to query cart line")
		return nil, fmt.Errorf("failed to query cart line: %w", err)
	}

	return &item, nil
}

// FindLine retrieves the employee's line for a (product, color) combination.
func (r *cartRepository) FindLine(ctx context.Context, employeeID, productID uuid.UUID, color *string) (*model.CartItem, error) {
	query := `
		SELECT ` + cartColumns + `
		FROM cart_items
		WHERE employee_id = $1 AND product_id = $2 AND COALESCE(color, '') = COALESCE($3, '')
	`

	item, err := scanCartItem(r.pool.QueryRow(ctx, query, employeeID, productID, color))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).
			Str("employee_id", employeeID.String()).
			Str("product_id", productID.String()).
			Msg("failed to query cart line by product and color")
		return nil, fmt.Errorf("failed to query cart line: %w", err)
	}

	return &item, nil
}

// Insert creates a new cart line.
func (r *cartRepository) Insert(ctx context.Context, item *model.CartItem) error {
	query := `
		INSERT INTO cart_items (id, employee_id, product_id, color, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		item.ID, item.EmployeeID, item.ProductID, item.Color, item.Quantity, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).
			Str("employee_id", item.EmployeeID.String()).
			Str("product_id", item.ProductID.String()).
			Msg("failed to insert cart line")
		return fmt.Errorf("failed to insert cart line: %w", err)
	}

	r.logger.Debug().
		Str("line_id", item.ID.String()).
		Msg("cart line created successfully")

	return nil
}

// UpdateQuantity sets a line's quantity, returning false for unknown lines.
func (r *cartRepository) UpdateQuantity(ctx context.Context, lineID uuid.UUID, qty int) (bool, error) {
	query := `
		UPDATE cart_items
		SET quantity = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, lineID, qty)
	if err != nil {
		r.logger.Error().Err(err).
			Str("line_id", lineID.String()).
			Int("quantity", qty).
			Msg("failed to update cart line quantity")
		return false, fmt.Errorf("failed to update cart line: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Delete removes a line owned by the employee, returning false when absent.
func (r *cartRepository) Delete(ctx context.Context, employeeID, lineID uuid.UUID) (bool, error) {
	query := `
		DELETE FROM cart_items
		WHERE id = $1 AND employee_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, lineID, employeeID)
	if err != nil {
		r.logger.Error().Err(err).
			Str("line_id", lineID.String()).
			Msg("failed to delete cart line")
		return false, fmt.Errorf("failed to delete cart line: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ClearEmployee removes all of the employee's lines within the transaction.
func (r *cartRepository) ClearEmployee(ctx context.Context, tx pgx.Tx, employeeID uuid.UUID) error {
	query := `
		DELETE FROM cart_items
		WHERE employee_id = $1
	`

	_, err := tx.Exec(ctx, query, employeeID)
	if err != nil {
		r.logger.Error().Err(err).
			Str("employee_id", employeeID.String()).
			Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	r.logger.Debug().
		Str("employee_id", employeeID.String()).
		Msg("cart cleared successfully")

	return nil
}

// scanCartItem scans one cart line row from either a pgx.Row or pgx.Rows.
func scanCartItem(row pgx.Row) (model.CartItem, error) {
	var item model.CartItem
	err := row.Scan(
		&item.ID,
		&item.EmployeeID,
		&item.ProductID,
		&item.Color,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	return item, err
}
