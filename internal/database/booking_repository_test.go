package database

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wheelorent/car-rental-backend/internal/models"
)

// mockDatabase adapts a sqlmock-backed connection to the DB interface.
// Get and Select go through sqlx so struct scanning behaves as in
// production.
type mockDatabase struct {
	db *sqlx.DB
}

func newMockDatabase(db *sql.DB) *mockDatabase {
	return &mockDatabase{db: sqlx.NewDb(db, "sqlmock")}
}

func (m *mockDatabase) Get(dest interface{}, query string, args ...interface{}) error {
	return m.db.Get(dest, query, args...)
}

func (m *mockDatabase) Select(dest interface{}, query string, args ...interface{}) error {
	return m.db.Select(dest, query, args...)
}

func (m *mockDatabase) Exec(query string, args ...interface{}) (sql.Result, error) {
	return m.db.Exec(query, args...)
}

func (m *mockDatabase) QueryRow(query string, args ...interface{}) *sql.Row {
	return m.db.QueryRow(query, args...)
}

func (m *mockDatabase) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return m.db.Query(query, args...)
}

func (m *mockDatabase) Ping() error { return m.db.Ping() }

func (m *mockDatabase) Close() error { return m.db.Close() }

func TestHasOverlap(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBookingRepository(newMockDatabase(db))
	carID := uuid.New()
	pickup := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	ret := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)

	t.Run("Overlap Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\)\s+FROM bookings`).
			WithArgs(carID, pickup, ret).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		overlap, err := repo.HasOverlap(carID, pickup, ret)
		require.NoError(t, err)
		assert.True(t, overlap)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No Overlap", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\)\s+FROM bookings`).
			WithArgs(carID, pickup, ret).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		overlap, err := repo.HasOverlap(carID, pickup, ret)
		require.NoError(t, err)
		assert.False(t, overlap)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\)\s+FROM bookings`).
			WithArgs(carID, pickup, ret).
			WillReturnError(fmt.Errorf("database error"))

		_, err := repo.HasOverlap(carID, pickup, ret)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to check booking overlap")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateIfAvailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBookingRepository(newMockDatabase(db))

	newBooking := func() *models.Booking {
		intentID := "pi_test_123"
		return &models.Booking{
			CarID:           uuid.New(),
			UserID:          uuid.New(),
			OwnerID:         uuid.New(),
			PickupDate:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			ReturnDate:      time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC),
			PriceCents:      30000,
			Status:          models.BookingStatusPending,
			PaymentStatus:   models.PaymentStatusCompleted,
			PaymentIntentID: &intentID,
		}
	}

	t.Run("Success", func(t *testing.T) {
		booking := newBooking()
		now := time.Now()

		mock.ExpectQuery(`INSERT INTO bookings`).
			WithArgs(
				sqlmock.AnyArg(), booking.CarID, booking.UserID, booking.OwnerID,
				booking.PickupDate, booking.ReturnDate, booking.PriceCents,
				booking.Status, booking.PaymentStatus, booking.PaymentIntentID,
			).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		err := repo.CreateIfAvailable(booking)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, booking.ID)
		assert.Equal(t, now, booking.CreatedAt)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Overlapping Booking Wins", func(t *testing.T) {
		booking := newBooking()

		// The guard clause suppresses the insert, so no row comes back.
		mock.ExpectQuery(`INSERT INTO bookings`).
			WithArgs(
				sqlmock.AnyArg(), booking.CarID, booking.UserID, booking.OwnerID,
				booking.PickupDate, booking.ReturnDate, booking.PriceCents,
				booking.Status, booking.PaymentStatus, booking.PaymentIntentID,
			).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}))

		err := repo.CreateIfAvailable(booking)
		assert.ErrorIs(t, err, models.ErrCarNotAvailable)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		booking := newBooking()

		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnError(fmt.Errorf("database error"))

		err := repo.CreateIfAvailable(booking)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, models.ErrCarNotAvailable)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetBookingByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBookingRepository(newMockDatabase(db))

	t.Run("Success", func(t *testing.T) {
		bookingID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id`).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "car_id", "user_id", "owner_id", "pickup_date", "return_date",
				"price_cents", "status", "payment_status", "payment_intent_id",
				"created_at", "updated_at",
			}).AddRow(
				bookingID, uuid.New(), uuid.New(), uuid.New(), now, now.AddDate(0, 0, 3),
				30000, "pending", "completed", "pi_test_123",
				now, now,
			))

		booking, err := repo.GetByID(bookingID)
		require.NoError(t, err)
		assert.Equal(t, bookingID, booking.ID)
		assert.Equal(t, models.BookingStatusPending, booking.Status)
		assert.Equal(t, int64(30000), booking.PriceCents)
		require.NotNil(t, booking.PaymentIntentID)
		assert.Equal(t, "pi_test_123", *booking.PaymentIntentID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		bookingID := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id`).
			WithArgs(bookingID).
			WillReturnError(sql.ErrNoRows)

		booking, err := repo.GetByID(bookingID)
		assert.ErrorIs(t, err, models.ErrBookingNotFound)
		assert.Nil(t, booking)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBookingRepository(newMockDatabase(db))
	bookingID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(bookingID, models.BookingStatusConfirmed, models.PaymentStatusCompleted, models.BookingStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(bookingID, models.BookingStatusPending, models.BookingStatusConfirmed, models.PaymentStatusCompleted)
		assert.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Status Changed Underneath", func(t *testing.T) {
		// A concurrent transition already moved the booking; the guard
		// matches zero rows.
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(bookingID, models.BookingStatusConfirmed, models.PaymentStatusCompleted, models.BookingStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(bookingID, models.BookingStatusPending, models.BookingStatusConfirmed, models.PaymentStatusCompleted)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListPendingPaidBefore(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBookingRepository(newMockDatabase(db))
	cutoff := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	t.Run("Returns Stale Bookings", func(t *testing.T) {
		bookingID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM bookings\s+WHERE status = 'pending'`).
			WithArgs(cutoff, 100).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "car_id", "user_id", "owner_id", "pickup_date", "return_date",
				"price_cents", "status", "payment_status", "payment_intent_id",
				"created_at", "updated_at",
			}).AddRow(
				bookingID, uuid.New(), uuid.New(), uuid.New(), cutoff.AddDate(0, 0, -2), cutoff.AddDate(0, 0, 1),
				20000, "pending", "completed", "pi_stale_1",
				now, now,
			))

		bookings, err := repo.ListPendingPaidBefore(cutoff, 100)
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		assert.Equal(t, bookingID, bookings[0].ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Batch", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM bookings\s+WHERE status = 'pending'`).
			WithArgs(cutoff, 100).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		bookings, err := repo.ListPendingPaidBefore(cutoff, 100)
		require.NoError(t, err)
		assert.Empty(t, bookings)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
