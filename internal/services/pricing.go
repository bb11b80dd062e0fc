package services

import "time"

// RentalDays returns the number of billable days for a rental span.
// Partial days round up and every rental bills at least one day, so a
// same-day pickup/return still charges for one.
func RentalDays(pickup, ret time.Time) int64 {
	span := ret.Sub(pickup)
	days := int64(span / (24 * time.Hour))
	if span%(24*time.Hour) > 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}

// RentalPrice computes the total price in integer minor units. Pure
// function: identical inputs always yield identical output, with no
// floating-point accumulation.
func RentalPrice(pickup, ret time.Time, ratePerDayCents int64) int64 {
	return RentalDays(pickup, ret) * ratePerDayCents
}
