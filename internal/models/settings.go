package models

import "time"

// Settings is the single-row platform settings record. MaintenanceMode
// gates new logins and registrations for non-admins; admins always get
// through so they can turn it back off.
type Settings struct {
	ID                 int       `json:"id" db:"id"`
	MaintenanceMode    bool      `json:"maintenance_mode" db:"maintenance_mode"`
	MaintenanceMessage string    `json:"maintenance_message" db:"maintenance_message"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultMaintenanceMessage is used when the settings row carries none.
const DefaultMaintenanceMessage = "Site is under maintenance. Please try again later."
