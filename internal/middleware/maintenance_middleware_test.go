package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/wheelorent/car-rental-backend/internal/models"
)

type stubSettings struct {
	settings *models.Settings
	err      error
}

func (s *stubSettings) Get() (*models.Settings, error) {
	return s.settings, s.err
}

type stubUsers struct {
	users map[string]*models.User
}

func (s *stubUsers) GetByEmail(email string) (*models.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}

func setupGateRouter(settings SettingsProvider, users AdminChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/login", MaintenanceGate(settings, users), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return router
}

func postLogin(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestMaintenanceGate(t *testing.T) {
	t.Run("Off Lets Everyone Through", func(t *testing.T) {
		router := setupGateRouter(
			&stubSettings{settings: &models.Settings{MaintenanceMode: false}},
			&stubUsers{},
		)

		w := postLogin(router, `{"email":"user@example.com","password":"secret123"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("On Blocks Non Admins", func(t *testing.T) {
		router := setupGateRouter(
			&stubSettings{settings: &models.Settings{MaintenanceMode: true, MaintenanceMessage: "Back soon"}},
			&stubUsers{users: map[string]*models.User{
				"user@example.com": {Email: "user@example.com", IsAdmin: false},
			}},
		)

		w := postLogin(router, `{"email":"user@example.com","password":"secret123"}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "Back soon")
	})

	t.Run("On Lets Admins Through", func(t *testing.T) {
		router := setupGateRouter(
			&stubSettings{settings: &models.Settings{MaintenanceMode: true}},
			&stubUsers{users: map[string]*models.User{
				"admin@example.com": {Email: "admin@example.com", IsAdmin: true},
			}},
		)

		w := postLogin(router, `{"email":"admin@example.com","password":"secret123"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Settings Failure Fails Open", func(t *testing.T) {
		router := setupGateRouter(
			&stubSettings{err: fmt.Errorf("database down")},
			&stubUsers{},
		)

		w := postLogin(router, `{"email":"user@example.com","password":"secret123"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Default Message", func(t *testing.T) {
		router := setupGateRouter(
			&stubSettings{settings: &models.Settings{MaintenanceMode: true}},
			&stubUsers{},
		)

		w := postLogin(router, `{"email":"user@example.com","password":"secret123"}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), models.DefaultMaintenanceMessage)
	})
}
