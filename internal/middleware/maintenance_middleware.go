package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/wheelorent/car-rental-backend/internal/models"
)

// SettingsProvider supplies the current platform settings. The settings
// repository is injected explicitly rather than read through a global.
type SettingsProvider interface {
	Get() (*models.Settings, error)
}

// AdminChecker answers whether the email attempting to log in belongs to
// an admin, so admins can still get in during maintenance.
type AdminChecker interface {
	GetByEmail(email string) (*models.User, error)
}

// MaintenanceGate blocks logins and registrations for non-admins while
// maintenance mode is on. If the settings lookup itself fails, traffic is
// let through; maintenance mode must not become an outage.
func MaintenanceGate(settings SettingsProvider, users AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, err := settings.Get()
		if err != nil || !current.MaintenanceMode {
			c.Next()
			return
		}

		// Peek at the login email without consuming the body.
		var body struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindBodyWith(&body, binding.JSON); err == nil && body.Email != "" {
			if user, err := users.GetByEmail(body.Email); err == nil && user.IsAdmin {
				c.Next()
				return
			}
		}

		message := current.MaintenanceMessage
		if message == "" {
			message = models.DefaultMaintenanceMessage
		}

		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":            "maintenance",
			"message":          message,
			"maintenance_mode": true,
		})
		c.Abort()
	}
}
