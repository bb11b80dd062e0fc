package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Car represents a vehicle listed on the marketplace.
//
// OwnerID is nullable: removing a listing nulls the owner and flips
// IsAvailable off instead of deleting the row, so booking history stays
// intact. PricePerDayCents keeps the daily rate in integer minor units.
type Car struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	OwnerID          *uuid.UUID `json:"owner_id,omitempty" db:"owner_id"`
	Brand            string     `json:"brand" db:"brand"`
	Model            string     `json:"model" db:"model"`
	Year             int        `json:"year" db:"year"`
	Category         string     `json:"category" db:"category"`
	Transmission     string     `json:"transmission" db:"transmission"`
	FuelType         string     `json:"fuel_type" db:"fuel_type"`
	SeatingCapacity  int        `json:"seating_capacity" db:"seating_capacity"`
	Location         string     `json:"location" db:"location"`
	PricePerDayCents int64      `json:"price_per_day_cents" db:"price_per_day_cents"`
	Image            string     `json:"image" db:"image"`
	IsAvailable      bool       `json:"is_available" db:"is_available"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// CarWithBookingState decorates a car with whether it is rented out today.
type CarWithBookingState struct {
	Car
	CurrentlyBooked bool `json:"currently_booked"`
}

// CreateCarRequest is the payload for listing a new car. PricePerDay is
// accepted in major currency units and converted to cents once at the
// boundary.
type CreateCarRequest struct {
	Brand           string  `json:"brand" binding:"required"`
	Model           string  `json:"model" binding:"required"`
	Year            int     `json:"year" binding:"required"`
	Category        string  `json:"category" binding:"required"`
	Transmission    string  `json:"transmission" binding:"required"`
	FuelType        string  `json:"fuel_type" binding:"required"`
	SeatingCapacity int     `json:"seating_capacity" binding:"required"`
	Location        string  `json:"location" binding:"required"`
	PricePerDay     float64 `json:"price_per_day" binding:"required"`
	Image           string  `json:"image"`
}

// Validate checks field ranges gin binding cannot express.
func (r *CreateCarRequest) Validate() error {
	if r.PricePerDay <= 0 {
		return fmt.Errorf("price_per_day must be positive")
	}
	if r.Year < 1950 || r.Year > time.Now().Year()+1 {
		return fmt.Errorf("year %d is out of range", r.Year)
	}
	if r.SeatingCapacity < 1 || r.SeatingCapacity > 20 {
		return fmt.Errorf("seating_capacity %d is out of range", r.SeatingCapacity)
	}
	return nil
}

// PriceCents converts the major-unit daily rate to integer minor units.
func (r *CreateCarRequest) PriceCents() int64 {
	return int64(r.PricePerDay*100 + 0.5)
}
