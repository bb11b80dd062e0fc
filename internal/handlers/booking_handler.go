package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/wheelorent/car-rental-backend/internal/database"
	"github.com/wheelorent/car-rental-backend/internal/middleware"
	"github.com/wheelorent/car-rental-backend/internal/models"
	"github.com/wheelorent/car-rental-backend/internal/services"
)

// BookingHandler handles the booking workflow endpoints.
type BookingHandler struct {
	bookingService *services.BookingService
	availability   *services.AvailabilityService
	bookings       *database.BookingRepository
	logger         *logrus.Logger
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(
	bookingService *services.BookingService,
	availability *services.AvailabilityService,
	bookings *database.BookingRepository,
	logger *logrus.Logger,
) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		availability:   availability,
		bookings:       bookings,
		logger:         logger,
	}
}

// CheckAvailability returns the cars at a location that are free for the
// requested date range.
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	var req models.CheckAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	pickup, ret, err := models.ParseDateRange(req.PickupDate, req.ReturnDate)
	if err != nil {
		respondError(c, err)
		return
	}

	cars, err := h.availability.SearchAvailable(req.Location, pickup, ret)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availableCars": cars})
}

// CreatePaymentIntent reserves a charge for a rental and returns the
// client secret the browser uses to complete payment. No booking is
// created yet.
func (h *BookingHandler) CreatePaymentIntent(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	var req models.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	resp, err := h.bookingService.CreatePaymentIntent(userCtx.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmPayment verifies a client-reported payment with the processor
// and, if everything holds, creates the booking in pending status.
func (h *BookingHandler) ConfirmPayment(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	var req models.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	booking, err := h.bookingService.ConfirmPayment(userCtx.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Payment successful! Awaiting owner confirmation",
		"booking": booking,
	})
}

// ChangeStatus applies an owner-driven status transition.
func (h *BookingHandler) ChangeStatus(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	var req models.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	booking, err := h.bookingService.ChangeStatus(userCtx.UserID, userCtx.IsAdmin, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated", "booking": booking})
}

// TodayBookings returns the ids of cars booked for some part of today,
// used by listings to hide unavailable cars.
func (h *BookingHandler) TodayBookings(c *gin.Context) {
	carIDs, err := h.availability.TodayBookedCarIDs()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookedCarIds": carIDs})
}

// UserBookings returns the authenticated renter's bookings.
func (h *BookingHandler) UserBookings(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	bookings, err := h.bookings.ListByUser(userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// OwnerBookings returns bookings against the authenticated owner's cars,
// via the denormalized owner reference.
func (h *BookingHandler) OwnerBookings(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	if userCtx.Role != string(models.RoleOwner) && !userCtx.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "Owner access only", "code": "OWNER_ONLY"})
		return
	}

	bookings, err := h.bookings.ListByOwner(userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}
