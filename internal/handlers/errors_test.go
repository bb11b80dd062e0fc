package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/wheelorent/car-rental-backend/internal/models"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"Car Not Available", models.ErrCarNotAvailable, http.StatusConflict, "CAR_NOT_AVAILABLE"},
		{"Payment Not Completed", models.ErrPaymentNotCompleted, http.StatusPaymentRequired, "PAYMENT_NOT_COMPLETED"},
		{"Refund Failed", models.ErrRefundFailed, http.StatusBadGateway, "REFUND_FAILED"},
		{"Invalid Transition", models.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
		{"Not Booking Owner", models.ErrNotBookingOwner, http.StatusForbidden, "NOT_BOOKING_OWNER"},
		{"Invalid Credentials", models.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"Booking Not Found", models.ErrBookingNotFound, http.StatusNotFound, "BOOKING_NOT_FOUND"},
		{"Email Taken", models.ErrEmailTaken, http.StatusConflict, "EMAIL_TAKEN"},
		{"Wrapped Sentinel", fmt.Errorf("context: %w", models.ErrInvalidDateRange), http.StatusBadRequest, "INVALID_DATE_RANGE"},
		{"Unclassified", fmt.Errorf("database exploded"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, fmt.Errorf("pq: connection refused to 10.0.0.5"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}
