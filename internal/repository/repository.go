package repository

import (
	"context"

	"perk-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List retrieves active products with pagination support, slabs included.
	List(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product with its price slabs, or nil when
	// the product does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// DecrementStock atomically decrements stock by qty within the provided
	// transaction. It only succeeds when the current stock covers qty;
	// otherwise model.ErrOutOfStock is returned and nothing is written.
	DecrementStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, qty int) error
}

// CartRepository defines the interface for cart line data access operations.
type CartRepository interface {
	// ListByEmployee retrieves all cart lines for an employee.
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.CartItem, error)

	// GetLine retrieves a single cart line owned by the employee, or nil
	// when no such line exists.
	GetLine(ctx context.Context, employeeID, lineID uuid.UUID) (*model.CartItem, error)

	// FindLine retrieves the employee's line for a (product, color)
	// combination, or nil when none exists.
	FindLine(ctx context.Context, employeeID, productID uuid.UUID, color *string) (*model.CartItem, error)

	// Insert creates a new cart line.
	Insert(ctx context.Context, item *model.CartItem) error

	// UpdateQuantity sets a line's quantity. Returns false when the line
	// does not exist.
	UpdateQuantity(ctx context.Context, lineID uuid.UUID, qty int) (bool, error)

	// Delete removes a line owned by the employee. Returns false when the
	// line does not exist.
	Delete(ctx context.Context, employeeID, lineID uuid.UUID) (bool, error)

	// ClearEmployee removes all of the employee's lines within the provided
	// transaction; used as the post-checkout side effect.
	ClearEmployee(ctx context.Context, tx pgx.Tx, employeeID uuid.UUID) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CountByEmployee returns the number of confirmed orders for an employee.
	CountByEmployee(ctx context.Context, employeeID uuid.UUID) (int, error)

	// CountByYear returns the number of orders placed in the given year,
	// read within the provided transaction for order-number generation.
	CountByYear(ctx context.Context, tx pgx.Tx, year int) (int, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// ListByEmployee retrieves an employee's orders, newest first.
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.Order, error)
}

// EmployeeRepository defines the interface for employee data access operations.
type EmployeeRepository interface {
	// GetByID retrieves an employee, or nil when the id is unknown.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error)

	// DeductPoints atomically subtracts points within the provided
	// transaction. It only succeeds when the balance covers the deduction;
	// otherwise model.ErrInsufficientPoints is returned and nothing is
	// written.
	DeductPoints(ctx context.Context, tx pgx.Tx, id uuid.UUID, points int) error

	// ZeroPoints sets the employee's balance to zero within the provided
	// transaction; used by the co-pay commit.
	ZeroPoints(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// SettingsRepository defines the interface for deployment settings access.
type SettingsRepository interface {
	// Get retrieves the single settings row, falling back to
	// model.DefaultSettings when none has been configured.
	Get(ctx context.Context) (model.Settings, error)
}

// PaymentAttemptRepository defines the interface for co-pay session records.
type PaymentAttemptRepository interface {
	// Create records a newly initiated co-pay session.
	Create(ctx context.Context, attempt *model.PaymentAttempt) error

	// Get retrieves a session by merchant transaction id, or nil when
	// unknown.
	Get(ctx context.Context, txnID string) (*model.PaymentAttempt, error)

	// MarkConsumed transitions an initiated session to consumed within the
	// provided transaction. Returns false when the session was not in the
	// initiated state, which guards against transaction-id replay.
	MarkConsumed(ctx context.Context, tx pgx.Tx, txnID string) (bool, error)
}
