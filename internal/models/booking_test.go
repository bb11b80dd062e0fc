package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{BookingStatusPending, BookingStatusConfirmed, true},
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusPending, false},
		{BookingStatusCancelled, BookingStatusPending, false},
		{BookingStatusCancelled, BookingStatusConfirmed, false},
		{BookingStatusPending, BookingStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestBookingStatusIsValid(t *testing.T) {
	assert.True(t, BookingStatusPending.IsValid())
	assert.True(t, BookingStatusConfirmed.IsValid())
	assert.True(t, BookingStatusCancelled.IsValid())
	assert.False(t, BookingStatus("finished").IsValid())
	assert.False(t, BookingStatus("").IsValid())
}

func TestParseDate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		got, err := ParseDate("2026-09-01")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), got)
		assert.Equal(t, time.UTC, got.Location())
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, value := range []string{"", "01-09-2026", "2026/09/01", "2026-13-01", "tomorrow"} {
			_, err := ParseDate(value)
			assert.ErrorIs(t, err, ErrInvalidDateRange, value)
		}
	})
}

func TestParseDateRange(t *testing.T) {
	t.Run("Valid Range", func(t *testing.T) {
		pickup, ret, err := ParseDateRange("2026-09-01", "2026-09-04")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), pickup)
		assert.Equal(t, time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC), ret)
	})

	t.Run("Return Equals Pickup", func(t *testing.T) {
		_, _, err := ParseDateRange("2026-09-01", "2026-09-01")
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("Return Before Pickup", func(t *testing.T) {
		_, _, err := ParseDateRange("2026-09-04", "2026-09-01")
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})
}
