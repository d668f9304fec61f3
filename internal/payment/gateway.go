// Package payment wraps the external hosted-payment-page gateway behind the
// two calls the checkout flow actually needs: starting a session and
// verifying a transaction's outcome. Everything else about the gateway is
// opaque to this service.
package payment

import "context"

// InitiateRequest carries everything the gateway needs to host a payment
// session for a co-pay amount.
type InitiateRequest struct {
	Amount        float64
	TransactionID string
	RedirectURL   string
	CallbackURL   string
}

// InitiateResponse is the gateway's answer to a session request.
type InitiateResponse struct {
	PaymentURL   string
	GatewayTxnID string
}

// VerifyResult reports a transaction's final status as the gateway sees it.
type VerifyResult struct {
	Status     string
	PaidAmount float64
}

// StatusSuccess is the gateway status value that marks a completed payment.
const StatusSuccess = "success"

// Success reports whether the transaction completed successfully.
func (v VerifyResult) Success() bool {
	return v.Status == StatusSuccess
}

// Gateway is the contract the checkout flow depends on.
type Gateway interface {
	// Initiate starts a hosted payment session and returns the URL the
	// employee is redirected to.
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResponse, error)

	// Verify fetches the transaction's status and the amount actually paid.
	Verify(ctx context.Context, transactionID string) (*VerifyResult, error)
}
