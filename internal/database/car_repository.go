package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/wheelorent/car-rental-backend/internal/models"
)

// CarRepository handles database operations for the cars table
type CarRepository struct {
	db DB
}

// NewCarRepository creates a new CarRepository
func NewCarRepository(db DB) *CarRepository {
	return &CarRepository{db: db}
}

const carColumns = `id, owner_id, brand, model, year, category, transmission,
	   fuel_type, seating_capacity, location, price_per_day_cents, image,
	   is_available, created_at, updated_at`

// Create inserts a new car listing
func (r *CarRepository) Create(car *models.Car) error {
	query := `
		INSERT INTO cars (
			id, owner_id, brand, model, year, category, transmission,
			fuel_type, seating_capacity, location, price_per_day_cents,
			image, is_available
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`

	if car.ID == uuid.Nil {
		car.ID = uuid.New()
	}

	err := r.db.QueryRow(
		query,
		car.ID, car.OwnerID, car.Brand, car.Model, car.Year, car.Category,
		car.Transmission, car.FuelType, car.SeatingCapacity, car.Location,
		car.PricePerDayCents, car.Image, car.IsAvailable,
	).Scan(&car.CreatedAt, &car.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create car: %w", err)
	}
	return nil
}

// GetByID retrieves a car by ID
func (r *CarRepository) GetByID(carID uuid.UUID) (*models.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`

	var car models.Car
	err := r.db.Get(&car, query, carID)
	if err == sql.ErrNoRows {
		return nil, models.ErrCarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get car: %w", err)
	}
	return &car, nil
}

// ListAvailable retrieves all listed cars the owners have marked available.
func (r *CarRepository) ListAvailable() ([]models.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE is_available = TRUE ORDER BY created_at DESC`

	var cars []models.Car
	if err := r.db.Select(&cars, query); err != nil {
		return nil, fmt.Errorf("failed to list available cars: %w", err)
	}
	return cars, nil
}

// ListAvailableByLocation retrieves available cars at a location.
func (r *CarRepository) ListAvailableByLocation(location string) ([]models.Car, error) {
	query := `
		SELECT ` + carColumns + `
		FROM cars
		WHERE is_available = TRUE AND location = $1
		ORDER BY created_at DESC
	`

	var cars []models.Car
	if err := r.db.Select(&cars, query, location); err != nil {
		return nil, fmt.Errorf("failed to list cars by location: %w", err)
	}
	return cars, nil
}

// ListByOwner retrieves all cars listed by an owner.
func (r *CarRepository) ListByOwner(ownerID uuid.UUID) ([]models.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE owner_id = $1 ORDER BY created_at DESC`

	var cars []models.Car
	if err := r.db.Select(&cars, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list owner cars: %w", err)
	}
	return cars, nil
}

// ListAll retrieves every car (admin view).
func (r *CarRepository) ListAll() ([]models.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars ORDER BY created_at DESC`

	var cars []models.Car
	if err := r.db.Select(&cars, query); err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	return cars, nil
}

// Locations returns the distinct locations of available cars.
func (r *CarRepository) Locations() ([]string, error) {
	query := `
		SELECT DISTINCT location
		FROM cars
		WHERE is_available = TRUE AND location <> ''
		ORDER BY location
	`

	var locations []string
	if err := r.db.Select(&locations, query); err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

// SetAvailability flips the owner-controlled availability flag.
func (r *CarRepository) SetAvailability(carID uuid.UUID, available bool) error {
	result, err := r.db.Exec(
		`UPDATE cars SET is_available = $2, updated_at = NOW() WHERE id = $1`,
		carID, available,
	)
	if err != nil {
		return fmt.Errorf("failed to set car availability: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrCarNotFound
	}
	return nil
}

// SoftRemove unlists a car without deleting it: the owner reference is
// nulled and the availability flag cleared, preserving booking history.
func (r *CarRepository) SoftRemove(carID uuid.UUID) error {
	result, err := r.db.Exec(
		`UPDATE cars SET owner_id = NULL, is_available = FALSE, updated_at = NOW() WHERE id = $1`,
		carID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove car: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrCarNotFound
	}
	return nil
}

// HardDelete removes a car row entirely. Callers must first verify that
// no booking history references it.
func (r *CarRepository) HardDelete(carID uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM cars WHERE id = $1`, carID)
	if err != nil {
		return fmt.Errorf("failed to delete car: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrCarNotFound
	}
	return nil
}

// CountAvailable returns the number of listed, available cars.
func (r *CarRepository) CountAvailable() (int, error) {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM cars WHERE is_available = TRUE`); err != nil {
		return 0, fmt.Errorf("failed to count cars: %w", err)
	}
	return count, nil
}
