package repository

import (
	"context"
	"fmt"

	"perk-store/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// paymentAttemptRepository implements the PaymentAttemptRepository interface
// using PostgreSQL.
type paymentAttemptRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPaymentAttemptRepository creates a new PostgreSQL-backed payment attempt repository.
func NewPaymentAttemptRepository(pool *pgxpool.Pool, logger zerolog.Logger) PaymentAttemptRepository {
	return &paymentAttemptRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "payment_attempt").Logger(),
	}
}

// Create records a newly initiated co-pay session.
func (r *paymentAttemptRepository) Create(ctx context.Context, attempt *model.PaymentAttempt) error {
	query := `
		INSERT INTO payment_attempts (txn_id, employee_id, amount, gateway_txn_id, delivery_method, delivery_address, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		attempt.TxnID, attempt.EmployeeID, attempt.Amount, attempt.GatewayTxnID,
		attempt.DeliveryMethod, attempt.DeliveryAddress,
		attempt.Status, attempt.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).
			Str("txn_id", attempt.TxnID).
			Msg("failed to create payment attempt")
		return fmt.Errorf("failed to create payment attempt: %w", err)
	}

	r.logger.Debug().
		Str("txn_id", attempt.TxnID).
		Msg("payment attempt recorded")

	return nil
}

// Get retrieves a session by merchant transaction id.
func (r *paymentAttemptRepository) Get(ctx context.Context, txnID string) (*model.PaymentAttempt, error) {
	query := `
		SELECT txn_id, employee_id, amount, gateway_txn_id, delivery_method, delivery_address, status, created_at
		FROM payment_attempts
		WHERE txn_id = $1
	`

	var a model.PaymentAttempt
	err := r.pool.QueryRow(ctx, query, txnID).Scan(
		&a.TxnID, &a.EmployeeID, &a.Amount, &a.GatewayTxnID,
		&a.DeliveryMethod, &a.DeliveryAddress,
		&a.Status, &a.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("txn_id", txnID).Msg("payment attempt not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("txn_id", txnID).Msg("failed to query payment attempt")
		return nil, fmt.Errorf("failed to query payment attempt: %w", err)
	}

	return &a, nil
}

// MarkConsumed transitions an initiated session to consumed. The status guard
// makes a replayed transaction id fail verification instead of committing a
// second checkout.
func (r *paymentAttemptRepository) MarkConsumed(ctx context.Context, tx pgx.Tx, txnID string) (bool, error) {
	query := `
		UPDATE payment_attempts
		SET status = $2
		WHERE txn_id = $1 AND status = $3
	`

	tag, err := tx.Exec(ctx, query, txnID, model.PaymentAttemptConsumed, model.PaymentAttemptInitiated)
	if err != nil {
		r.logger.Error().Err(err).Str("txn_id", txnID).Msg("failed to mark payment attempt consumed")
		return false, fmt.Errorf("failed to mark payment attempt consumed: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
