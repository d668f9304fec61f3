package model

import (
	"time"

	"github.com/google/uuid"
)

// CartItem represents a single cart line. At most one line exists per
// (employee, product, color) tuple; adding the same combination again merges
// quantities instead of creating a duplicate.
type CartItem struct {
	ID         uuid.UUID `json:"id" db:"id"`
	EmployeeID uuid.UUID `json:"-" db:"employee_id"`
	ProductID  uuid.UUID `json:"productId" db:"product_id"`
	Color      *string   `json:"color,omitempty" db:"color"`
	Quantity   int       `json:"quantity" db:"quantity"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// AddToCartRequest represents the request payload for adding a product to the cart.
type AddToCartRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Color     *string   `json:"color,omitempty"`
	Quantity  int       `json:"quantity"`
}

// UpdateCartItemRequest represents the request payload for changing a line's quantity.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartLine is a cart item joined with its product and resolved pricing,
// as rendered by the cart screen.
type CartLine struct {
	Item      CartItem `json:"item"`
	Product   Product  `json:"product"`
	LinePrice float64  `json:"linePrice"`
	Points    int      `json:"points"`
}

// CartResponse represents the response payload for the cart listing.
type CartResponse struct {
	Lines           []CartLine `json:"lines"`
	TotalPrice      float64    `json:"totalPrice"`
	TotalPoints     int        `json:"totalPoints"`
	AvailablePoints int        `json:"availablePoints"`
	// CoPayAmount is the cash shortfall the employee would owe at checkout;
	// zero when the points balance covers the cart.
	CoPayAmount float64 `json:"copayAmount"`
}
