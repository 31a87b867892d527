package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"green-kart/internal/auth"
	"green-kart/internal/middleware"
	"green-kart/internal/model"
	"green-kart/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Checkout handles POST /api/orders requests for the authenticated user.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
		return
	}

	userID, ok := h.authenticatedUserID(w, r)
	if !ok {
		return
	}

	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	created, err := h.service.Checkout(r.Context(), userID, &req)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// List handles GET /api/orders requests, returning the authenticated
// user's orders newest first. An optional status query parameter filters
// the result.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
		return
	}

	userID, ok := h.authenticatedUserID(w, r)
	if !ok {
		return
	}

	var status *model.OrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		candidate := model.OrderStatus(raw)
		if !model.IsValidOrderStatus(candidate) {
			writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "unknown order status", h.logger)
			return
		}
		status = &candidate
	}

	orders, err := h.service.ListForUser(r.Context(), userID, status)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
		return
	}

	orderID, ok := h.orderIDFromPath(w, r)
	if !ok {
		return
	}

	order, err := h.service.GetByID(r.Context(), middleware.ClaimsFromContext(r.Context()), orderID)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Cancel handles POST /api/orders/{id}/cancel requests.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.applyEvent(w, r, h.service.Cancel, model.OrderStatusCancelled)
}

// Return handles POST /api/orders/{id}/return requests.
func (h *OrderHandler) Return(w http.ResponseWriter, r *http.Request) {
	h.applyEvent(w, r, h.service.Return, model.OrderStatusReturned)
}

// UpdateStatus handles PATCH /api/orders/{id}/status requests, an
// administrative fulfilment transition.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
		return
	}

	orderID, ok := h.orderIDFromPath(w, r)
	if !ok {
		return
	}

	var req model.StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if !model.IsValidOrderStatus(req.Status) {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "unknown order status", h.logger)
		return
	}

	if err := h.service.UpdateStatus(r.Context(), orderID, &req); err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(req.Status)})
}

// applyEvent runs a customer-initiated lifecycle event (cancel or return)
// against the order named in the path.
func (h *OrderHandler) applyEvent(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, claims *auth.Claims, id uuid.UUID) error,
	target model.OrderStatus,
) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
		return
	}

	orderID, ok := h.orderIDFromPath(w, r)
	if !ok {
		return
	}

	if err := apply(r.Context(), middleware.ClaimsFromContext(r.Context()), orderID); err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(target)})
}

// authenticatedUserID extracts the caller's user ID from the verified
// token claims.
func (h *OrderHandler) authenticatedUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "authentication required", h.logger)
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(claims.UID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, model.ErrCodeInvalidToken, "token subject is not a valid user ID", h.logger)
		return uuid.Nil, false
	}

	return userID, true
}

// orderIDFromPath extracts the order ID from paths of the form
// /api/orders/{id} and /api/orders/{id}/{action}.
func (h *OrderHandler) orderIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/orders/")
	if rest == "" || rest == r.URL.Path {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "order ID is required", h.logger)
		return uuid.Nil, false
	}

	idStr := rest
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		idStr = rest[:i]
	}

	orderID, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid order ID format", h.logger)
		return uuid.Nil, false
	}

	return orderID, true
}
