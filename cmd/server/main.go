package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/wheelorent/car-rental-backend/internal/config"
	"github.com/wheelorent/car-rental-backend/internal/database"
	"github.com/wheelorent/car-rental-backend/internal/handlers"
	"github.com/wheelorent/car-rental-backend/internal/middleware"
	"github.com/wheelorent/car-rental-backend/internal/services"
	"github.com/wheelorent/car-rental-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting WheelORent Booking Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize repositories
	userRepository := database.NewUserRepository(db)
	carRepository := database.NewCarRepository(db)
	bookingRepository := database.NewBookingRepository(db)
	settingsRepository := database.NewSettingsRepository(db)
	auditRepository := database.NewPaymentAuditRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	auditService := services.NewAuditService(auditRepository, cfg.Security.EnableAuditLog, logger)
	stripeService := services.NewStripeService(&cfg.Stripe, logger)
	availabilityService := services.NewAvailabilityService(carRepository, bookingRepository, logger)
	bookingService := services.NewBookingService(carRepository, bookingRepository, stripeService, auditService, logger)

	// Start the refund sweeper for abandoned paid bookings
	refundSweeper := services.NewRefundSweeper(bookingRepository, stripeService, auditService, cfg.Sweep, logger)
	if err := refundSweeper.Start(); err != nil {
		logger.Fatalf("Failed to start refund sweeper: %v", err)
	}

	logger.Info("Services initialized")

	// Initialize handlers
	userHandler := handlers.NewUserHandler(
		userRepository,
		carRepository,
		availabilityService,
		auditService,
		jwtService,
		cfg.Security.BcryptCost,
		logger,
	)
	bookingHandler := handlers.NewBookingHandler(bookingService, availabilityService, bookingRepository, logger)
	ownerHandler := handlers.NewOwnerHandler(carRepository, userRepository, bookingRepository, availabilityService, logger)
	adminHandler := handlers.NewAdminHandler(userRepository, carRepository, bookingRepository, settingsRepository, auditRepository, bookingService, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API routes
	api := router.Group("/api")
	{
		// User routes
		user := api.Group("/user")
		{
			gated := user.Group("")
			gated.Use(middleware.MaintenanceGate(settingsRepository, userRepository))
			{
				gated.POST("/register", userHandler.Register)
				gated.POST("/login", userHandler.Login)
			}

			user.GET("/cars", userHandler.ListCars)
			user.GET("/locations", userHandler.Locations)

			protected := user.Group("")
			protected.Use(middleware.AuthMiddleware(jwtService))
			{
				protected.GET("/data", userHandler.GetData)
				protected.POST("/update-name", userHandler.UpdateName)
				protected.POST("/update-image", userHandler.UpdateImage)
			}
		}

		// Booking routes
		bookings := api.Group("/bookings")
		{
			bookings.POST("/check-availability", bookingHandler.CheckAvailability)
			bookings.GET("/today", bookingHandler.TodayBookings)

			protected := bookings.Group("")
			protected.Use(middleware.AuthMiddleware(jwtService))
			{
				protected.POST("/create-payment-intent", bookingHandler.CreatePaymentIntent)
				protected.POST("/confirm-payment", bookingHandler.ConfirmPayment)
				protected.POST("/change-status", bookingHandler.ChangeStatus)
				protected.GET("/user", bookingHandler.UserBookings)
				protected.GET("/owner", bookingHandler.OwnerBookings)
			}
		}

		// Owner routes (all protected)
		owner := api.Group("/owner")
		owner.Use(middleware.AuthMiddleware(jwtService))
		{
			owner.POST("/change-role", ownerHandler.ChangeRole)
			owner.POST("/add-car", ownerHandler.AddCar)
			owner.GET("/cars", ownerHandler.ListCars)
			owner.POST("/toggle-car", ownerHandler.ToggleCar)
			owner.POST("/delete-car", ownerHandler.DeleteCar)
			owner.GET("/dashboard", ownerHandler.Dashboard)
		}

		// Admin routes (all protected, admin only)
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtService))
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/stats", adminHandler.Stats)
			admin.GET("/users", adminHandler.Users)
			admin.GET("/owners", adminHandler.Owners)
			admin.GET("/cars", adminHandler.Cars)
			admin.GET("/bookings", adminHandler.Bookings)
			admin.PUT("/bookings/:id/status", adminHandler.UpdateBookingStatus)
			admin.GET("/bookings/:id/audit", adminHandler.BookingAudit)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
			admin.DELETE("/cars/:id", adminHandler.DeleteCar)
			admin.POST("/users/:id/promote", adminHandler.Promote)
			admin.POST("/users/:id/demote", adminHandler.Demote)
			admin.GET("/maintenance", adminHandler.MaintenanceStatus)
			admin.POST("/maintenance/toggle", adminHandler.ToggleMaintenance)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	logger.Info("Stopping refund sweeper...")
	refundSweeper.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
		} else {
			status := c.Writer.Status()
			if status >= 500 {
				entry.Error("Request completed with server error")
			} else if status >= 400 {
				entry.Warn("Request completed with client error")
			} else {
				entry.Info("Request completed successfully")
			}
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "healthy"
		if err := db.Ping(); err != nil {
			dbStatus = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": dbStatus,
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  dbStatus,
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
