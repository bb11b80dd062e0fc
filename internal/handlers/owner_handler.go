package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/wheelorent/car-rental-backend/internal/database"
	"github.com/wheelorent/car-rental-backend/internal/middleware"
	"github.com/wheelorent/car-rental-backend/internal/models"
	"github.com/wheelorent/car-rental-backend/internal/services"
)

// OwnerHandler handles car listing management and the owner dashboard.
type OwnerHandler struct {
	cars         *database.CarRepository
	users        *database.UserRepository
	bookings     *database.BookingRepository
	availability *services.AvailabilityService
	logger       *logrus.Logger
}

// NewOwnerHandler creates a new OwnerHandler
func NewOwnerHandler(
	cars *database.CarRepository,
	users *database.UserRepository,
	bookings *database.BookingRepository,
	availability *services.AvailabilityService,
	logger *logrus.Logger,
) *OwnerHandler {
	return &OwnerHandler{
		cars:         cars,
		users:        users,
		bookings:     bookings,
		availability: availability,
		logger:       logger,
	}
}

// ChangeRole promotes the authenticated user to owner.
func (h *OwnerHandler) ChangeRole(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	if err := h.users.UpdateRole(userCtx.UserID, models.RoleOwner); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Now you can list cars"})
}

// AddCar creates a new car listing. Listing a first car promotes the
// lister to owner automatically.
func (h *OwnerHandler) AddCar(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	var req models.CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ownerID := userCtx.UserID
	car := &models.Car{
		OwnerID:          &ownerID,
		Brand:            req.Brand,
		Model:            req.Model,
		Year:             req.Year,
		Category:         req.Category,
		Transmission:     req.Transmission,
		FuelType:         req.FuelType,
		SeatingCapacity:  req.SeatingCapacity,
		Location:         req.Location,
		PricePerDayCents: req.PriceCents(),
		Image:            req.Image,
		IsAvailable:      true,
	}
	if err := h.cars.Create(car); err != nil {
		respondError(c, err)
		return
	}

	if err := h.users.UpdateRole(userCtx.UserID, models.RoleOwner); err != nil {
		h.logger.WithError(err).WithField("user_id", userCtx.UserID).Warn("Failed to promote lister to owner")
	}

	h.logger.WithFields(logrus.Fields{"car_id": car.ID, "owner_id": ownerID}).Info("Car listed")
	c.JSON(http.StatusCreated, gin.H{"message": "Car added", "car": car})
}

// ListCars returns the owner's cars, each flagged with whether it is
// rented out today.
func (h *OwnerHandler) ListCars(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	cars, err := h.cars.ListByOwner(userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	bookedIDs, err := h.availability.TodayBookedCarIDs()
	if err != nil {
		respondError(c, err)
		return
	}
	booked := make(map[uuid.UUID]bool, len(bookedIDs))
	for _, id := range bookedIDs {
		booked[id] = true
	}

	withState := make([]models.CarWithBookingState, 0, len(cars))
	for _, car := range cars {
		withState = append(withState, models.CarWithBookingState{
			Car:             car,
			CurrentlyBooked: booked[car.ID],
		})
	}
	c.JSON(http.StatusOK, gin.H{"cars": withState})
}

// ToggleCar flips the owner-controlled availability flag.
func (h *OwnerHandler) ToggleCar(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	car, ok := h.ownedCar(c, userCtx.UserID)
	if !ok {
		return
	}

	if err := h.cars.SetAvailability(car.ID, !car.IsAvailable); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Availability toggled"})
}

// DeleteCar soft-removes a listing: open bookings are cancelled, the
// owner reference nulled, and the car unlisted. The row stays so booking
// history keeps a valid car reference.
func (h *OwnerHandler) DeleteCar(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	car, ok := h.ownedCar(c, userCtx.UserID)
	if !ok {
		return
	}

	cancelled, err := h.bookings.CancelOpenByCar(car.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.cars.SoftRemove(car.ID); err != nil {
		respondError(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"car_id":             car.ID,
		"cancelled_bookings": cancelled,
	}).Info("Car removed from listing")
	c.JSON(http.StatusOK, gin.H{"message": "Car removed"})
}

// Dashboard returns the owner's listing and booking statistics.
func (h *OwnerHandler) Dashboard(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	if userCtx.Role != string(models.RoleOwner) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "Owner access only", "code": "OWNER_ONLY"})
		return
	}

	cars, err := h.cars.ListByOwner(userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	bookings, err := h.bookings.ListByOwner(userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	revenue, err := h.bookings.OwnerRevenueCents(userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	pending, completed := 0, 0
	for _, b := range bookings {
		switch {
		case b.Status == models.BookingStatusPending && b.PaymentStatus == models.PaymentStatusCompleted:
			pending++
		case b.Status == models.BookingStatusConfirmed && b.PaymentStatus == models.PaymentStatusCompleted:
			completed++
		}
	}

	recent := bookings
	if len(recent) > 3 {
		recent = recent[:3]
	}

	c.JSON(http.StatusOK, gin.H{
		"dashboardData": gin.H{
			"totalCars":         len(cars),
			"totalBookings":     len(bookings),
			"pendingBookings":   pending,
			"completedBookings": completed,
			"recentBookings":    recent,
			"monthlyRevenue":    revenue,
		},
	})
}

// ownedCar loads the car named in the request body and verifies the
// actor owns it. Writes the error response itself when the check fails.
func (h *OwnerHandler) ownedCar(c *gin.Context, ownerID uuid.UUID) (*models.Car, bool) {
	var req struct {
		CarID string `json:"carId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "carId is required"})
		return nil, false
	}

	carID, err := uuid.Parse(req.CarID)
	if err != nil {
		respondError(c, models.ErrCarNotFound)
		return nil, false
	}

	car, err := h.cars.GetByID(carID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if car.OwnerID == nil || *car.OwnerID != ownerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "Not your car", "code": "NOT_CAR_OWNER"})
		return nil, false
	}
	return car, true
}
