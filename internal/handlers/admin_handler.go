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

// AdminHandler handles the platform administration endpoints. All routes
// sit behind RequireAdmin.
type AdminHandler struct {
	users          *database.UserRepository
	cars           *database.CarRepository
	bookings       *database.BookingRepository
	settings       *database.SettingsRepository
	audits         *database.PaymentAuditRepository
	bookingService *services.BookingService
	logger         *logrus.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	users *database.UserRepository,
	cars *database.CarRepository,
	bookings *database.BookingRepository,
	settings *database.SettingsRepository,
	audits *database.PaymentAuditRepository,
	bookingService *services.BookingService,
	logger *logrus.Logger,
) *AdminHandler {
	return &AdminHandler{
		users:          users,
		cars:           cars,
		bookings:       bookings,
		settings:       settings,
		audits:         audits,
		bookingService: bookingService,
		logger:         logger,
	}
}

// Stats returns platform-wide counts and revenue for the admin dashboard.
func (h *AdminHandler) Stats(c *gin.Context) {
	totalUsers, err := h.users.CountNonAdmins()
	if err != nil {
		respondError(c, err)
		return
	}
	totalOwners, err := h.users.CountByRole(models.RoleOwner)
	if err != nil {
		respondError(c, err)
		return
	}
	totalCars, err := h.cars.CountAvailable()
	if err != nil {
		respondError(c, err)
		return
	}
	totalBookings, err := h.bookings.CountAll()
	if err != nil {
		respondError(c, err)
		return
	}
	pendingBookings, err := h.bookings.CountByStatus(models.BookingStatusPending)
	if err != nil {
		respondError(c, err)
		return
	}
	confirmedBookings, err := h.bookings.CountByStatus(models.BookingStatusConfirmed)
	if err != nil {
		respondError(c, err)
		return
	}
	revenue, err := h.bookings.TotalRevenueCents()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"totalUsers":        totalUsers,
			"totalOwners":       totalOwners,
			"totalCars":         totalCars,
			"totalBookings":     totalBookings,
			"pendingBookings":   pendingBookings,
			"confirmedBookings": confirmedBookings,
			"totalRevenue":      revenue,
		},
	})
}

// Users lists every non-admin account.
func (h *AdminHandler) Users(c *gin.Context) {
	users, err := h.users.ListNonAdmins()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// Owners lists accounts holding the owner role.
func (h *AdminHandler) Owners(c *gin.Context) {
	owners, err := h.users.ListByRole(models.RoleOwner)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"owners": owners})
}

// Cars lists every car on the platform, listed or not.
func (h *AdminHandler) Cars(c *gin.Context) {
	cars, err := h.cars.ListAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cars": cars})
}

// Bookings lists every booking on the platform.
func (h *AdminHandler) Bookings(c *gin.Context) {
	bookings, err := h.bookings.ListAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// UpdateBookingStatus applies a status transition on any booking. The
// transition rules still apply; admin privilege only bypasses the
// owner check, and cancelling a paid booking still refunds it.
func (h *AdminHandler) UpdateBookingStatus(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	booking, err := h.bookingService.ChangeStatus(userCtx.UserID, true, &models.ChangeStatusRequest{
		BookingID: c.Param("id"),
		Status:    req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"status":     booking.Status,
		"admin_id":   userCtx.UserID,
	}).Info("Booking status overridden by admin")
	c.JSON(http.StatusOK, gin.H{"message": "Status updated", "booking": booking})
}

// BookingAudit returns the payment audit trail of a booking, used when
// investigating a disputed charge or refund.
func (h *AdminHandler) BookingAudit(c *gin.Context) {
	bookingID, ok := pathID(c, "id", models.ErrBookingNotFound)
	if !ok {
		return
	}

	audits, err := h.audits.ListByBooking(bookingID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audits": audits})
}

// DeleteUser removes an account. Its cars stay listed under a null owner.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, ok := pathID(c, "id", models.ErrUserNotFound)
	if !ok {
		return
	}

	if err := h.users.Delete(userID); err != nil {
		respondError(c, err)
		return
	}

	h.logger.WithField("user_id", userID).Info("User deleted by admin")
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// DeleteCar removes a car. A car no booking ever referenced is deleted
// outright; one with history is soft-removed so the history keeps a
// valid car reference.
func (h *AdminHandler) DeleteCar(c *gin.Context) {
	carID, ok := pathID(c, "id", models.ErrCarNotFound)
	if !ok {
		return
	}

	count, err := h.bookings.CountByCar(carID)
	if err != nil {
		respondError(c, err)
		return
	}

	if count > 0 {
		if _, err := h.bookings.CancelOpenByCar(carID); err != nil {
			respondError(c, err)
			return
		}
		if err := h.cars.SoftRemove(carID); err != nil {
			respondError(c, err)
			return
		}
		h.logger.WithFields(logrus.Fields{"car_id": carID, "bookings": count}).Info("Car with booking history unlisted by admin")
		c.JSON(http.StatusOK, gin.H{"message": "Car unlisted; booking history retained"})
		return
	}

	if err := h.cars.HardDelete(carID); err != nil {
		respondError(c, err)
		return
	}

	h.logger.WithField("car_id", carID).Info("Car deleted by admin")
	c.JSON(http.StatusOK, gin.H{"message": "Car deleted"})
}

// Promote grants admin privileges to an account.
func (h *AdminHandler) Promote(c *gin.Context) {
	userID, ok := pathID(c, "id", models.ErrUserNotFound)
	if !ok {
		return
	}

	if err := h.users.SetAdmin(userID, true); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User promoted to admin"})
}

// Demote revokes admin privileges. Admins cannot demote themselves so
// the platform always keeps at least one reachable admin.
func (h *AdminHandler) Demote(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	userID, ok := pathID(c, "id", models.ErrUserNotFound)
	if !ok {
		return
	}
	if userID == userCtx.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot demote yourself", "code": "SELF_DEMOTE"})
		return
	}

	if err := h.users.SetAdmin(userID, false); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admin privileges revoked"})
}

// MaintenanceStatus returns the current maintenance flag and message.
func (h *AdminHandler) MaintenanceStatus(c *gin.Context) {
	settings, err := h.settings.Get()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// ToggleMaintenance switches maintenance mode on or off.
func (h *AdminHandler) ToggleMaintenance(c *gin.Context) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	settings, err := h.settings.SetMaintenanceMode(req.Enabled)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.WithField("maintenance_mode", settings.MaintenanceMode).Warn("Maintenance mode changed")
	c.JSON(http.StatusOK, gin.H{"message": "Maintenance mode updated", "settings": settings})
}

// pathID parses the named path parameter as a uuid, responding with
// notFound when it is malformed.
func pathID(c *gin.Context, name string, notFound error) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, notFound)
		return uuid.Nil, false
	}
	return id, true
}
