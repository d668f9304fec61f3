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

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CountByEmployee returns the number of confirmed orders for an employee.
func (r *orderRepository) CountByEmployee(ctx context.Context, employeeID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM orders
		WHERE employee_id = $1 AND status = $2
	`

	var count int
	err := r.pool.QueryRow(ctx, query, employeeID, model.OrderStatusConfirmed).Scan(&count)
	if err != nil {
		r.logger.Error().Err(err).
			Str("employee_id", employeeID.String()).
			Msg("failed to count orders")
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}

	return count, nil
}

// CountByYear returns the number of orders placed in the given year. Reading
// inside the checkout transaction keeps the generated order numbers in step
// with the inserts that follow.
func (r *orderRepository) CountByYear(ctx context.Context, tx pgx.Tx, year int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM orders
		WHERE EXTRACT(YEAR FROM ordered_at) = $1
	`

	var count int
	err := tx.QueryRow(ctx, query, year).Scan(&count)
	if err != nil {
		r.logger.Error().Err(err).Int("year", year).Msg("failed to count orders by year")
		return 0, fmt.Errorf("failed to count orders by year: %w", err)
	}

	return count, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (
			id, order_number, employee_id, product_id, color, quantity, status,
			used_points, copay_amount, payment_txn_id, gateway_txn_id,
			delivery_method, delivery_address, ordered_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	var copayAmount *float64
	var paymentTxnID, gatewayTxnID *string
	if cp := order.Metadata.CoPay; cp != nil {
		copayAmount = &cp.Amount
		paymentTxnID = &cp.PaymentTxnID
		gatewayTxnID = &cp.GatewayTxnID
	}

	_, err := tx.Exec(ctx, query,
		order.ID, order.OrderNumber, order.EmployeeID, order.ProductID,
		order.Color, order.Quantity, order.Status,
		order.Metadata.UsedPoints, copayAmount, paymentTxnID, gatewayTxnID,
		order.DeliveryMethod, order.DeliveryAddress, order.OrderedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Str("order_number", order.OrderNumber).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Msg("order created successfully")

	return nil
}

// ListByEmployee retrieves an employee's orders, newest first.
func (r *orderRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.Order, error) {
	query := `
		SELECT id, order_number, employee_id, product_id, color, quantity, status,
		       used_points, copay_amount, payment_txn_id, gateway_txn_id,
		       delivery_method, delivery_address, ordered_at
		FROM orders
		WHERE employee_id = $1
		ORDER BY ordered_at DESC
	`

	rows, err := r.pool.Query(ctx, query, employeeID)
	if err != nil {
		r.logger.Error().Err(err).
			Str("employee_id", employeeID.String()).
			Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		var copayAmount *float64
		var paymentTxnID, gatewayTxnID *string

		err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.EmployeeID, &o.ProductID, &o.Color,
			&o.Quantity, &o.Status, &o.Metadata.UsedPoints,
			&copayAmount, &paymentTxnID, &gatewayTxnID,
			&o.DeliveryMethod, &o.DeliveryAddress, &o.OrderedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		if copayAmount != nil {
			o.Metadata.CoPay = &model.CoPayDetails{Amount: *copayAmount}
			if paymentTxnID != nil {
				o.Metadata.CoPay.PaymentTxnID = *paymentTxnID
			}
			if gatewayTxnID != nil {
				o.Metadata.CoPay.GatewayTxnID = *gatewayTxnID
			}
		}

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}
