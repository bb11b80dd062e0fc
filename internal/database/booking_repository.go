package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wheelorent/car-rental-backend/internal/models"
)

// BookingRepository handles database operations for the bookings table
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, car_id, user_id, owner_id, pickup_date, return_date,
	   price_cents, status, payment_status, payment_intent_id,
	   created_at, updated_at`

// HasOverlap reports whether any non-cancelled booking for the car
// overlaps [pickup, return). Half-open intervals: a booking returning on
// day X does not conflict with a pickup on day X.
func (r *BookingRepository) HasOverlap(carID uuid.UUID, pickup, ret time.Time) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE car_id = $1
		  AND status <> 'cancelled'
		  AND pickup_date < $3
		  AND return_date > $2
	`

	var count int
	if err := r.db.Get(&count, query, carID, pickup, ret); err != nil {
		return false, fmt.Errorf("failed to check booking overlap: %w", err)
	}
	return count > 0, nil
}

// CreateIfAvailable inserts the booking only if no overlapping
// non-cancelled booking exists for the car, in a single statement. Two
// racing confirmations for overlapping ranges cannot both commit: the
// loser gets models.ErrCarNotAvailable.
func (r *BookingRepository) CreateIfAvailable(booking *models.Booking) error {
	query := `
		INSERT INTO bookings (
			id, car_id, user_id, owner_id, pickup_date, return_date,
			price_cents, status, payment_status, payment_intent_id
		)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		WHERE NOT EXISTS (
			SELECT 1 FROM bookings
			WHERE car_id = $2
			  AND status <> 'cancelled'
			  AND pickup_date < $6
			  AND return_date > $5
		)
		RETURNING created_at, updated_at
	`

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}

	err := r.db.QueryRow(
		query,
		booking.ID, booking.CarID, booking.UserID, booking.OwnerID,
		booking.PickupDate, booking.ReturnDate, booking.PriceCents,
		booking.Status, booking.PaymentStatus, booking.PaymentIntentID,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err == sql.ErrNoRows {
		return models.ErrCarNotAvailable
	}
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(bookingID uuid.UUID) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var booking models.Booking
	err := r.db.Get(&booking, query, bookingID)
	if err == sql.ErrNoRows {
		return nil, models.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// UpdateStatus commits a status and payment-status change as a single
// update, guarded by the expected current status so a concurrent
// transition cannot be silently overwritten.
func (r *BookingRepository) UpdateStatus(bookingID uuid.UUID, from, to models.BookingStatus, paymentStatus models.PaymentStatus) error {
	query := `
		UPDATE bookings
		SET status = $2, payment_status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $4
	`

	result, err := r.db.Exec(query, bookingID, to, paymentStatus, from)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrInvalidTransition
	}
	return nil
}

// ListByUser retrieves a renter's bookings with completed payment,
// newest first.
func (r *BookingRepository) ListByUser(userID uuid.UUID) ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1 AND payment_status IN ('completed', 'refunded')
		ORDER BY created_at DESC
	`

	var bookings []models.Booking
	if err := r.db.Select(&bookings, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list user bookings: %w", err)
	}
	return bookings, nil
}

// ListByOwner retrieves bookings against the denormalized owner id,
// newest first. Owner queries never join through cars.
func (r *BookingRepository) ListByOwner(ownerID uuid.UUID) ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE owner_id = $1 AND payment_status IN ('completed', 'refunded')
		ORDER BY created_at DESC
	`

	var bookings []models.Booking
	if err := r.db.Select(&bookings, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list owner bookings: %w", err)
	}
	return bookings, nil
}

// ListAll retrieves every booking, newest first (admin view).
func (r *BookingRepository) ListAll() ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`

	var bookings []models.Booking
	if err := r.db.Select(&bookings, query); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// ListPendingPaidBefore selects bookings eligible for the auto-refund
// sweep: still pending, payment completed, pickup date already past, and
// an intent id to refund against.
func (r *BookingRepository) ListPendingPaidBefore(cutoff time.Time, limit int) ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'pending'
		  AND payment_status = 'completed'
		  AND pickup_date < $1
		  AND payment_intent_id IS NOT NULL
		ORDER BY pickup_date
		LIMIT $2
	`

	var bookings []models.Booking
	if err := r.db.Select(&bookings, query, cutoff, limit); err != nil {
		return nil, fmt.Errorf("failed to list abandoned bookings: %w", err)
	}
	return bookings, nil
}

// BookedCarIDs returns the distinct ids of cars with a paid,
// non-cancelled booking overlapping [start, end).
func (r *BookingRepository) BookedCarIDs(start, end time.Time) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT car_id
		FROM bookings
		WHERE status <> 'cancelled'
		  AND payment_status = 'completed'
		  AND pickup_date < $2
		  AND return_date > $1
	`

	var carIDs []uuid.UUID
	if err := r.db.Select(&carIDs, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to list booked car ids: %w", err)
	}
	return carIDs, nil
}

// CancelOpenByCar cancels every pending or confirmed booking for a car.
// Used when a listing is removed.
func (r *BookingRepository) CancelOpenByCar(carID uuid.UUID) (int64, error) {
	query := `
		UPDATE bookings
		SET status = 'cancelled', updated_at = NOW()
		WHERE car_id = $1 AND status IN ('pending', 'confirmed')
	`

	result, err := r.db.Exec(query, carID)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel bookings for car: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return rows, nil
}

// CountByCar returns how many bookings reference a car, cancelled ones
// included. A non-zero count blocks hard deletion of the car.
func (r *BookingRepository) CountByCar(carID uuid.UUID) (int, error) {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM bookings WHERE car_id = $1`, carID); err != nil {
		return 0, fmt.Errorf("failed to count bookings for car: %w", err)
	}
	return count, nil
}

// CountByStatus returns the number of bookings in the given status.
func (r *BookingRepository) CountByStatus(status models.BookingStatus) (int, error) {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM bookings WHERE status = $1`, status); err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

// CountAll returns the total number of bookings.
func (r *BookingRepository) CountAll() (int, error) {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM bookings`); err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

// TotalRevenueCents sums the price of confirmed bookings with completed
// payment.
func (r *BookingRepository) TotalRevenueCents() (int64, error) {
	query := `
		SELECT COALESCE(SUM(price_cents), 0)
		FROM bookings
		WHERE status = 'confirmed' AND payment_status = 'completed'
	`

	var total int64
	if err := r.db.Get(&total, query); err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return total, nil
}

// OwnerRevenueCents sums the price of an owner's confirmed bookings with
// completed payment.
func (r *BookingRepository) OwnerRevenueCents(ownerID uuid.UUID) (int64, error) {
	query := `
		SELECT COALESCE(SUM(price_cents), 0)
		FROM bookings
		WHERE owner_id = $1 AND status = 'confirmed' AND payment_status = 'completed'
	`

	var total int64
	if err := r.db.Get(&total, query, ownerID); err != nil {
		return 0, fmt.Errorf("failed to sum owner revenue: %w", err)
	}
	return total, nil
}
