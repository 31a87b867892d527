package handler

import (
	"net/http"

	"green-kart/internal/delivery"
	"green-kart/internal/model"

	"github.com/rs/zerolog"
)

// DeliveryHandler handles delivery estimation HTTP requests.
type DeliveryHandler struct {
	estimator *delivery.Estimator
	logger    zerolog.Logger
}

// NewDeliveryHandler creates a new delivery handler.
func NewDeliveryHandler(estimator *delivery.Estimator, logger zerolog.Logger) *DeliveryHandler {
	return &DeliveryHandler{
		estimator: estimator,
		logger:    logger.With().Str("handler", "delivery").Logger(),
	}
}

// Estimate handles GET /api/delivery/estimate?pincode= requests. An
// unserviceable or malformed pincode is a normal response with
// available=false, not an error.
func (h *DeliveryHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
		return
	}

	pincode := r.URL.Query().Get("pincode")
	if pincode == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "pincode query parameter is required", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, h.estimator.Estimate(pincode))
}
