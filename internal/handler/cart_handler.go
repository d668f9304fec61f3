package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"perk-store/internal/middleware"
	"perk-store/internal/model"
	"perk-store/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CartHandler handles cart-related HTTP requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	employee := middleware.EmployeeFromContext(r.Context())
	if employee == nil {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "unauthorised", h.logger)
		return
	}

	cart, err := h.service.List(r.Context(), employee)
	if err != nil {
		writeDomainError(w, err, "failed to load cart", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// Add handles POST /api/cart requests.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	employee := middleware.EmployeeFromContext(r.Context())
	if employee == nil {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "unauthorised", h.logger)
		return
	}

	var req model.AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	item, err := h.service.Add(r.Context(), employee.ID, &req)
	if err != nil {
		writeDomainError(w, err, "failed to add to cart", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// Update handles PUT /api/cart/{id} requests.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	employee := middleware.EmployeeFromContext(r.Context())
	if employee == nil {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "unauthorised", h.logger)
		return
	}

	lineID, ok := h.lineID(w, r)
	if !ok {
		return
	}

	var req model.UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	item, err := h.service.SetQuantity(r.Context(), employee.ID, lineID, req.Quantity)
	if err != nil {
		writeDomainError(w, err, "failed to update cart item", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Remove handles DELETE /api/cart/{id} requests.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	employee := middleware.EmployeeFromContext(r.Context())
	if employee == nil {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "unauthorised", h.logger)
		return
	}

	lineID, ok := h.lineID(w, r)
	if !ok {
		return
	}

	if err := h.service.Remove(r.Context(), employee.ID, lineID); err != nil {
		writeDomainError(w, err, "failed to remove cart item", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// lineID extracts the cart line id from a /api/cart/{id} path.
func (h *CartHandler) lineID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/cart/")
	if idStr == "" || strings.Contains(idStr, "/") {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "cart item ID is required", h.logger)
		return uuid.Nil, false
	}

	lineID, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid cart item ID format", h.logger)
		return uuid.Nil, false
	}

	return lineID, true
}
