package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"
	"github.com/wheelorent/car-rental-backend/internal/database"
	"github.com/wheelorent/car-rental-backend/internal/middleware"
	"github.com/wheelorent/car-rental-backend/internal/models"
	"github.com/wheelorent/car-rental-backend/internal/services"
	"github.com/wheelorent/car-rental-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler handles registration, login, and renter-facing reads.
type UserHandler struct {
	users        *database.UserRepository
	cars         *database.CarRepository
	availability *services.AvailabilityService
	audit        *services.AuditService
	jwtService   *jwt.Service
	bcryptCost   int
	logger       *logrus.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(
	users *database.UserRepository,
	cars *database.CarRepository,
	availability *services.AvailabilityService,
	audit *services.AuditService,
	jwtService *jwt.Service,
	bcryptCost int,
	logger *logrus.Logger,
) *UserHandler {
	return &UserHandler{
		users:        users,
		cars:         cars,
		availability: availability,
		audit:        audit,
		jwtService:   jwtService,
		bcryptCost:   bcryptCost,
		logger:       logger,
	}
}

// Register creates a new account and returns a token.
func (h *UserHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	// BindBodyWith: the maintenance gate may already have read the body.
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		respondError(c, err)
		return
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if err := h.users.Create(user); err != nil {
		respondError(c, err)
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID, string(user.Role), user.IsAdmin)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.WithField("user_id", user.ID).Info("User registered")
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

// Login authenticates by email and password and returns a token.
func (h *UserHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.users.GetByEmail(req.Email)
	if err != nil {
		respondError(c, models.ErrInvalidCredentials)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(c, models.ErrInvalidCredentials)
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID, string(user.Role), user.IsAdmin)
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit.RecordLogin(user.ID, c.ClientIP(), c.Request.UserAgent())
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// GetData returns the authenticated user's profile.
func (h *UserHandler) GetData(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	user, err := h.users.GetByID(userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ListCars returns listed cars that are not rented out today.
func (h *UserHandler) ListCars(c *gin.Context) {
	cars, err := h.availability.ListCarsFreeToday()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cars": cars})
}

// Locations returns the distinct locations of available cars, optionally
// filtered by a case-insensitive substring query.
func (h *UserHandler) Locations(c *gin.Context) {
	locations, err := h.cars.Locations()
	if err != nil {
		respondError(c, err)
		return
	}

	if query := strings.TrimSpace(c.Query("searchQuery")); query != "" {
		filtered := make([]string, 0, len(locations))
		for _, location := range locations {
			if strings.Contains(strings.ToLower(location), strings.ToLower(query)) {
				filtered = append(filtered, location)
			}
		}
		locations = filtered
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

// UpdateName changes the authenticated user's display name.
func (h *UserHandler) UpdateName(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	if err := h.users.UpdateName(userCtx.UserID, name); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Name updated"})
}

// UpdateImage changes the authenticated user's profile image reference.
// Image hosting is external; only the reference is stored.
func (h *UserHandler) UpdateImage(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	var req struct {
		Image string `json:"image" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image URL is required"})
		return
	}

	if err := h.users.UpdateImage(userCtx.UserID, req.Image); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile image updated"})
}
