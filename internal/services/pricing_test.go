package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRentalDays(t *testing.T) {
	tests := []struct {
		name   string
		pickup time.Time
		ret    time.Time
		want   int64
	}{
		{
			name:   "Three Full Days",
			pickup: date(2026, 9, 1),
			ret:    date(2026, 9, 4),
			want:   3,
		},
		{
			name:   "Single Day",
			pickup: date(2026, 9, 1),
			ret:    date(2026, 9, 2),
			want:   1,
		},
		{
			name:   "Partial Day Rounds Up",
			pickup: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			ret:    time.Date(2026, 9, 3, 6, 0, 0, 0, time.UTC),
			want:   3,
		},
		{
			name:   "Zero Span Bills One Day",
			pickup: date(2026, 9, 1),
			ret:    date(2026, 9, 1),
			want:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RentalDays(tt.pickup, tt.ret))
		})
	}
}

func TestRentalPrice(t *testing.T) {
	pickup := date(2026, 9, 1)
	ret := date(2026, 9, 4)

	// 3 days at $100.00/day
	assert.Equal(t, int64(30000), RentalPrice(pickup, ret, 10000))

	// Deterministic: same inputs always produce the same output.
	for i := 0; i < 10; i++ {
		assert.Equal(t, int64(30000), RentalPrice(pickup, ret, 10000))
	}

	// Minimum one day even for a zero span.
	assert.Equal(t, int64(10000), RentalPrice(pickup, pickup, 10000))
}
