package database

import (
	"database/sql"
	"fmt"

	"github.com/wheelorent/car-rental-backend/internal/models"
)

// SettingsRepository handles the single-row platform settings record.
type SettingsRepository struct {
	db DB
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get retrieves the settings row, creating a default one if missing.
func (r *SettingsRepository) Get() (*models.Settings, error) {
	query := `SELECT id, maintenance_mode, maintenance_message, updated_at FROM settings LIMIT 1`

	var settings models.Settings
	err := r.db.Get(&settings, query)
	if err == sql.ErrNoRows {
		return r.createDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

// SetMaintenanceMode updates the maintenance flag and returns the new
// settings row.
func (r *SettingsRepository) SetMaintenanceMode(enabled bool) (*models.Settings, error) {
	// Ensure the row exists before updating
	if _, err := r.Get(); err != nil {
		return nil, err
	}

	query := `
		UPDATE settings
		SET maintenance_mode = $1, updated_at = NOW()
		RETURNING id, maintenance_mode, maintenance_message, updated_at
	`

	var settings models.Settings
	if err := r.db.Get(&settings, query, enabled); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return &settings, nil
}

func (r *SettingsRepository) createDefault() (*models.Settings, error) {
	query := `
		INSERT INTO settings (maintenance_mode, maintenance_message)
		VALUES (FALSE, $1)
		RETURNING id, maintenance_mode, maintenance_message, updated_at
	`

	var settings models.Settings
	if err := r.db.Get(&settings, query, models.DefaultMaintenanceMessage); err != nil {
		return nil, fmt.Errorf("failed to create default settings: %w", err)
	}
	return &settings, nil
}
