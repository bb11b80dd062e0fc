package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wheelorent/car-rental-backend/internal/models"
)

func TestSearchAvailable(t *testing.T) {
	ownerID := uuid.New()
	freeCar := testCar(ownerID)
	bookedCar := testCar(ownerID)
	elsewhereCar := testCar(ownerID)
	elsewhereCar.Location = "Kandy"

	booking := &models.Booking{
		CarID:         bookedCar.ID,
		PickupDate:    date(2026, 9, 2),
		ReturnDate:    date(2026, 9, 5),
		Status:        models.BookingStatusConfirmed,
		PaymentStatus: models.PaymentStatusCompleted,
	}

	svc := NewAvailabilityService(
		newFakeCarStore(freeCar, bookedCar, elsewhereCar),
		newFakeBookingStore(booking),
		testLogger(),
	)

	t.Run("Filters Overlapping Cars", func(t *testing.T) {
		cars, err := svc.SearchAvailable("Colombo", date(2026, 9, 1), date(2026, 9, 4))
		require.NoError(t, err)
		require.Len(t, cars, 1)
		assert.Equal(t, freeCar.ID, cars[0].ID)
	})

	t.Run("Adjacent Range Is Free", func(t *testing.T) {
		// Pickup on the existing booking's return day.
		cars, err := svc.SearchAvailable("Colombo", date(2026, 9, 5), date(2026, 9, 8))
		require.NoError(t, err)
		assert.Len(t, cars, 2)
	})

	t.Run("Location Scoped", func(t *testing.T) {
		cars, err := svc.SearchAvailable("Kandy", date(2026, 9, 1), date(2026, 9, 4))
		require.NoError(t, err)
		require.Len(t, cars, 1)
		assert.Equal(t, elsewhereCar.ID, cars[0].ID)
	})
}

func TestListCarsFreeToday(t *testing.T) {
	ownerID := uuid.New()
	freeCar := testCar(ownerID)
	rentedCar := testCar(ownerID)

	booking := &models.Booking{
		CarID:         rentedCar.ID,
		PickupDate:    date(2026, 9, 9),
		ReturnDate:    date(2026, 9, 12),
		Status:        models.BookingStatusConfirmed,
		PaymentStatus: models.PaymentStatusCompleted,
	}

	svc := NewAvailabilityService(
		newFakeCarStore(freeCar, rentedCar),
		newFakeBookingStore(booking),
		testLogger(),
	)
	svc.now = func() time.Time { return time.Date(2026, 9, 10, 15, 30, 0, 0, time.UTC) }

	cars, err := svc.ListCarsFreeToday()
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, freeCar.ID, cars[0].ID)

	ids, err := svc.TodayBookedCarIDs()
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{rentedCar.ID}, ids)
}
