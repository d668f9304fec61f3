package service

import (
	"context"

	"perk-store/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for the customer-facing catalogue.
type ProductService interface {
	// List retrieves active products with pagination. Out-of-stock products
	// with an in-stock backup product are substituted by the backup.
	List(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID, or nil for not-found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
}

// CartService defines operations on an employee's cart.
type CartService interface {
	// Add puts a product in the cart, merging with an existing line for the
	// same (product, color) combination.
	Add(ctx context.Context, employeeID uuid.UUID, req *model.AddToCartRequest) (*model.CartItem, error)

	// SetQuantity changes a line's quantity.
	SetQuantity(ctx context.Context, employeeID, lineID uuid.UUID, qty int) (*model.CartItem, error)

	// Remove deletes a line; a missing line yields model.ErrCartItemNotFound.
	Remove(ctx context.Context, employeeID, lineID uuid.UUID) error

	// List returns the cart with resolved prices, point costs and the co-pay
	// amount the employee would owe at checkout.
	List(ctx context.Context, employee *model.Employee) (*model.CartResponse, error)
}

// CheckoutService defines the checkout and co-pay reconciliation operations.
type CheckoutService interface {
	// Checkout converts the employee's cart into confirmed orders paid
	// entirely with points. An insufficient balance yields
	// model.ErrInsufficientPoints without creating anything.
	Checkout(ctx context.Context, employee *model.Employee, delivery model.DeliveryDetails) (*model.CheckoutResponse, error)

	// InitiateCoPay runs the same validation as Checkout; when the points
	// balance falls short it opens a hosted payment session for the
	// shortfall instead of failing. When points suffice it simply checks
	// out.
	InitiateCoPay(ctx context.Context, employee *model.Employee, delivery model.DeliveryDetails) (*model.CoPayInitResponse, error)

	// VerifyCoPay completes a co-pay checkout after the gateway redirect:
	// it verifies the transaction with the gateway, revalidates cart, limit
	// and points from fresh state, and commits only when the paid amount
	// equals the freshly recomputed shortfall.
	VerifyCoPay(ctx context.Context, employee *model.Employee, txnID string) (*model.CheckoutResponse, error)

	// ListOrders retrieves the employee's confirmed orders, newest first.
	ListOrders(ctx context.Context, employeeID uuid.UUID) ([]model.Order, error)
}
