package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"green-kart/internal/delivery"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveryHandler_Estimate(t *testing.T) {
	h := NewDeliveryHandler(delivery.NewEstimator(nil), zerolog.Nop())

	tests := []struct {
		name          string
		pincode       string
		wantAvailable bool
		wantFee       float64
	}{
		{"Metro pincode", "110001", true, 50},
		{"Standard pincode", "682001", true, 80},
		{"Too short", "1100", false, 0},
		{"Leading zero", "011001", false, 0},
		{"Non-numeric", "11OOO1", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/delivery/estimate?pincode="+tt.pincode, nil)
			w := httptest.NewRecorder()

			h.Estimate(w, req)

			assert.Equal(t, http.StatusOK, w.Code)

			var est delivery.Estimate
			require.NoError(t, json.NewDecoder(w.Body).Decode(&est))
			assert.Equal(t, tt.wantAvailable, est.Available)
			if tt.wantAvailable {
				assert.Equal(t, tt.wantFee, est.DeliveryFee)
			}
		})
	}
}

func TestDeliveryHandler_Estimate_MissingPincode(t *testing.T) {
	h := NewDeliveryHandler(delivery.NewEstimator(nil), zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/delivery/estimate", nil)
	w := httptest.NewRecorder()

	h.Estimate(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
