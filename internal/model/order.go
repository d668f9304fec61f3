package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatusConfirmed is the only status this flow writes; orders are
// immutable once created.
const OrderStatusConfirmed = "confirmed"

// CoPayDetails records the cash portion of a co-pay order.
type CoPayDetails struct {
	Amount       float64 `json:"amount" db:"copay_amount"`
	PaymentTxnID string  `json:"paymentTxnId" db:"payment_txn_id"`
	GatewayTxnID string  `json:"gatewayTxnId" db:"gateway_txn_id"`
}

// OrderMetadata is the typed replacement for the free-form metadata bag:
// UsedPoints is always present, CoPay only on co-pay orders.
type OrderMetadata struct {
	UsedPoints int           `json:"usedPoints"`
	CoPay      *CoPayDetails `json:"copay,omitempty"`
}

// Order represents a confirmed redemption of a single product.
type Order struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	OrderNumber     string        `json:"orderNumber" db:"order_number"`
	EmployeeID      uuid.UUID     `json:"-" db:"employee_id"`
	ProductID       uuid.UUID     `json:"productId" db:"product_id"`
	Color           *string       `json:"color,omitempty" db:"color"`
	Quantity        int           `json:"quantity" db:"quantity"`
	Status          string        `json:"status" db:"status"`
	Metadata        OrderMetadata `json:"metadata"`
	DeliveryMethod  *string       `json:"deliveryMethod,omitempty" db:"delivery_method"`
	DeliveryAddress *string       `json:"deliveryAddress,omitempty" db:"delivery_address"`
	OrderedAt       time.Time     `json:"orderedAt" db:"ordered_at"`
}

// DeliveryDetails is the delivery information supplied by the caller at checkout.
type DeliveryDetails struct {
	Method  *string `json:"deliveryMethod,omitempty"`
	Address *string `json:"deliveryAddress,omitempty"`
}

// CheckoutRequest represents the request payload for a points-only checkout
// and for initiating a co-pay checkout.
type CheckoutRequest struct {
	Delivery DeliveryDetails `json:"delivery"`
}

// CheckoutResponse represents the response payload for a completed checkout.
type CheckoutResponse struct {
	Orders          []Order `json:"orders"`
	RemainingPoints int     `json:"remainingPoints"`
}

// CoPayInitResponse represents the response payload for a co-pay initiation.
// When the points balance turned out to cover the cart, Checkout is populated
// instead and no payment session exists.
type CoPayInitResponse struct {
	PaymentRequired bool              `json:"paymentRequired"`
	PaymentURL      string            `json:"paymentUrl,omitempty"`
	TransactionID   string            `json:"transactionId,omitempty"`
	CoPayAmount     float64           `json:"copayAmount,omitempty"`
	Checkout        *CheckoutResponse `json:"checkout,omitempty"`
}

// VerifyCoPayRequest represents the request payload for completing a co-pay
// checkout after the gateway redirect.
type VerifyCoPayRequest struct {
	TransactionID string `json:"transactionId"`
}

// PaymentAttempt records an initiated co-pay session so verification can
// compare the gateway's reported amount against what was actually initiated,
// and so a transaction id cannot be replayed.
type PaymentAttempt struct {
	TxnID           string    `db:"txn_id"`
	EmployeeID      uuid.UUID `db:"employee_id"`
	Amount          float64   `db:"amount"`
	GatewayTxnID    string    `db:"gateway_txn_id"`
	DeliveryMethod  *string   `db:"delivery_method"`
	DeliveryAddress *string   `db:"delivery_address"`
	Status          string    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
}

// Payment attempt statuses.
const (
	PaymentAttemptInitiated = "initiated"
	PaymentAttemptConsumed  = "consumed"
)
