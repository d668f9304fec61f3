package handler

import (
	"encoding/json"
	"net/http"

	"perk-store/internal/middleware"
	"perk-store/internal/model"
	"perk-store/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles checkout and order-related HTTP requests.
type OrderHandler struct {
	service service.CheckoutService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.CheckoutService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Checkout handles POST /api/orders requests: a points-only checkout.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	employee := middleware.EmployeeFromContext(r.Context())
	if employee == nil {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "unauthorised", h.logger)
		return
	}

	var req model.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	resp, err := h.service.Checkout(r.Context(), employee, req.Delivery)
	if err != nil {
		writeDomainError(w, err, "failed to checkout", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// CreateCoPayOrder handles POST /api/orders/create-copay-order requests. It
// opens a payment session for the points shortfall, or completes the checkout
// outright when the balance covers the cart.
func (h *OrderHandler) CreateCoPayOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	employee := middleware.EmployeeFromContext(r.Context())
	if employee == nil {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "unauthorised", h.logger)
		return
	}

	var req model.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	resp, err := h.service.InitiateCoPay(r.Context(), employee, req.Delivery)
	if err != nil {
		writeDomainError(w, err, "failed to initiate co-pay", h.logger)
		return
	}

	status := http.StatusOK
	if !resp.PaymentRequired {
		// The balance covered the cart and orders were created.
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

// VerifyCoPay handles POST /api/orders/verify-copay requests: it completes a
// co-pay checkout after the gateway redirect.
func (h *OrderHandler) VerifyCoPay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	employee := middleware.EmployeeFromContext(r.Context())
	if employee == nil {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "unauthorised", h.logger)
		return
	}

	var req model.VerifyCoPayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.TransactionID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "transaction ID is required", h.logger)
		return
	}

	resp, err := h.service.VerifyCoPay(r.Context(), employee, req.TransactionID)
	if err != nil {
		writeDomainError(w, err, "failed to verify co-pay", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// MyOrders handles GET /api/orders/my-orders requests.
func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	employee := middleware.EmployeeFromContext(r.Context())
	if employee == nil {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "unauthorised", h.logger)
		return
	}

	orders, err := h.service.ListOrders(r.Context(), employee.ID)
	if err != nil {
		writeDomainError(w, err, "failed to list orders", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}
