package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON             = "INVALID_JSON"
	ErrCodeEmptyCart               = "EMPTY_CART"
	ErrCodeSelectionLimitReached   = "SELECTION_LIMIT_REACHED"
	ErrCodeProductUnavailable      = "PRODUCT_UNAVAILABLE"
	ErrCodeProductNotFound         = "PRODUCT_NOT_FOUND"
	ErrCodeInsufficientPoints      = "INSUFFICIENT_POINTS"
	ErrCodePaymentInitiationFailed = "PAYMENT_INITIATION_FAILED"
	ErrCodePaymentNotVerified      = "PAYMENT_NOT_VERIFIED"
	ErrCodeAmountMismatch          = "AMOUNT_MISMATCH"
	ErrCodeInvalidQuantity         = "INVALID_QUANTITY"
	ErrCodeOutOfStock              = "OUT_OF_STOCK"
	ErrCodeCartItemNotFound        = "CART_ITEM_NOT_FOUND"
	ErrCodeEmployeeLocked          = "EMPLOYEE_LOCKED"
	ErrCodeAmbiguousPriceSlab      = "AMBIGUOUS_PRICE_SLAB"
	ErrCodeUnauthorised            = "UNAUTHORIZED"
	ErrCodeInternalError           = "INTERNAL_ERROR"
)

// DomainError carries a stable code alongside a human-readable message so
// handlers can map business failures onto HTTP statuses.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrEmptyCart             = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrSelectionLimitReached = NewDomainError(ErrCodeSelectionLimitReached, "Maximum product selections reached")
	ErrProductNotFound       = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrInsufficientPoints    = NewDomainError(ErrCodeInsufficientPoints, "Insufficient points balance")
	ErrPaymentInitFailed     = NewDomainError(ErrCodePaymentInitiationFailed, "Failed to initiate payment")
	ErrPaymentNotVerified    = NewDomainError(ErrCodePaymentNotVerified, "Payment could not be verified")
	ErrAmountMismatch        = NewDomainError(ErrCodeAmountMismatch, "Paid amount does not match the required co-pay amount")
	ErrInvalidQuantity       = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrOutOfStock            = NewDomainError(ErrCodeOutOfStock, "Requested quantity exceeds available stock")
	ErrCartItemNotFound      = NewDomainError(ErrCodeCartItemNotFound, "Cart item not found")
	ErrEmployeeLocked        = NewDomainError(ErrCodeEmployeeLocked, "Employee account is locked")
	ErrAmbiguousPriceSlab    = NewDomainError(ErrCodeAmbiguousPriceSlab, "Quantity matches more than one price slab")
)

// NewProductUnavailableError builds the PRODUCT_UNAVAILABLE error naming the
// offending product so the cart screen can point at the failing line.
func NewProductUnavailableError(name string) *DomainError {
	return NewDomainError(ErrCodeProductUnavailable, "Product unavailable: "+name)
}
