package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wheelorent/car-rental-backend/internal/models"
)

// failureResponse maps a failure kind to an HTTP status and stable code.
type failureResponse struct {
	status int
	code   string
}

var failureResponses = map[error]failureResponse{
	models.ErrInvalidDateRange:    {http.StatusBadRequest, "INVALID_DATE_RANGE"},
	models.ErrCarNotFound:         {http.StatusNotFound, "CAR_NOT_FOUND"},
	models.ErrCarNotAvailable:     {http.StatusConflict, "CAR_NOT_AVAILABLE"},
	models.ErrPaymentNotCompleted: {http.StatusPaymentRequired, "PAYMENT_NOT_COMPLETED"},
	models.ErrRefundFailed:        {http.StatusBadGateway, "REFUND_FAILED"},
	models.ErrBookingNotFound:     {http.StatusNotFound, "BOOKING_NOT_FOUND"},
	models.ErrNotBookingOwner:     {http.StatusForbidden, "NOT_BOOKING_OWNER"},
	models.ErrInvalidTransition:   {http.StatusConflict, "INVALID_TRANSITION"},
	models.ErrUserNotFound:        {http.StatusNotFound, "USER_NOT_FOUND"},
	models.ErrEmailTaken:          {http.StatusConflict, "EMAIL_TAKEN"},
	models.ErrInvalidCredentials:  {http.StatusUnauthorized, "INVALID_CREDENTIALS"},
}

// respondError classifies err against the sentinel taxonomy and writes
// the matching response. Anticipated conditions get their own status and
// code so clients can react (offer other dates, retry a refund); anything
// unclassified is a plain 500 without internal detail.
func respondError(c *gin.Context, err error) {
	for sentinel, resp := range failureResponses {
		if errors.Is(err, sentinel) {
			c.JSON(resp.status, gin.H{
				"error":   sentinel.Error(),
				"message": err.Error(),
				"code":    resp.code,
			})
			return
		}
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "internal_error",
		"message": "Something went wrong",
		"code":    "INTERNAL_ERROR",
	})
}
