package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/wheelorent/car-rental-backend/internal/models"
)

// AvailabilityService answers "is this car free for these dates" and its
// derived listing questions. Pure reads, no mutation; safe to call
// concurrently.
type AvailabilityService struct {
	cars     CarStore
	bookings BookingStore
	logger   *logrus.Logger
	now      func() time.Time
}

// NewAvailabilityService creates a new AvailabilityService
func NewAvailabilityService(cars CarStore, bookings BookingStore, logger *logrus.Logger) *AvailabilityService {
	return &AvailabilityService{
		cars:     cars,
		bookings: bookings,
		logger:   logger,
		now:      time.Now,
	}
}

// IsAvailable reports whether the car has no non-cancelled booking
// overlapping [pickup, ret).
func (s *AvailabilityService) IsAvailable(carID uuid.UUID, pickup, ret time.Time) (bool, error) {
	overlap, err := s.bookings.HasOverlap(carID, pickup, ret)
	if err != nil {
		return false, err
	}
	return !overlap, nil
}

// SearchAvailable returns the cars at a location that are listed,
// owner-available, and free for the requested range.
func (s *AvailabilityService) SearchAvailable(location string, pickup, ret time.Time) ([]models.Car, error) {
	cars, err := s.cars.ListAvailableByLocation(location)
	if err != nil {
		return nil, err
	}

	available := make([]models.Car, 0, len(cars))
	for _, car := range cars {
		free, err := s.IsAvailable(car.ID, pickup, ret)
		if err != nil {
			return nil, err
		}
		if free {
			available = append(available, car)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"location":   location,
		"candidates": len(cars),
		"available":  len(available),
	}).Debug("Availability search")

	return available, nil
}

// TodayBookedCarIDs returns the ids of cars with a paid booking
// overlapping the current UTC day.
func (s *AvailabilityService) TodayBookedCarIDs() ([]uuid.UUID, error) {
	start, end := s.todayRange()
	return s.bookings.BookedCarIDs(start, end)
}

// ListCarsFreeToday returns listed cars minus those rented out today,
// used by the browse page so currently-rented cars are hidden.
func (s *AvailabilityService) ListCarsFreeToday() ([]models.Car, error) {
	cars, err := s.cars.ListAvailable()
	if err != nil {
		return nil, err
	}

	bookedIDs, err := s.TodayBookedCarIDs()
	if err != nil {
		return nil, err
	}
	booked := make(map[uuid.UUID]bool, len(bookedIDs))
	for _, id := range bookedIDs {
		booked[id] = true
	}

	free := make([]models.Car, 0, len(cars))
	for _, car := range cars {
		if !booked[car.ID] {
			free = append(free, car)
		}
	}
	return free, nil
}

// todayRange returns [UTC midnight today, UTC midnight tomorrow).
func (s *AvailabilityService) todayRange() (time.Time, time.Time) {
	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
