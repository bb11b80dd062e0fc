package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus represents the payment state of a booking
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// bookingTransitions enumerates every legal (from, to) status pair.
// Cancelled is terminal. All status changes, owner- or admin-driven, are
// validated here and nowhere else.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCancelled},
	BookingStatusCancelled: {},
}

// CanTransitionTo reports whether a booking in status s may move to target.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsValid reports whether s is a known booking status.
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

// Booking represents a car rental reservation.
//
// OwnerID is denormalized from the car at creation time so owner queries
// never need a join through cars. It is frozen: if the car changes hands
// later, existing bookings keep the owner that took the payment.
//
// PriceCents is computed from the car's rate at creation time and never
// recomputed afterwards, even if the car's price changes.
type Booking struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	CarID           uuid.UUID     `json:"car_id" db:"car_id"`
	UserID          uuid.UUID     `json:"user_id" db:"user_id"`
	OwnerID         uuid.UUID     `json:"owner_id" db:"owner_id"`
	PickupDate      time.Time     `json:"pickup_date" db:"pickup_date"`
	ReturnDate      time.Time     `json:"return_date" db:"return_date"`
	PriceCents      int64         `json:"price_cents" db:"price_cents"`
	Status          BookingStatus `json:"status" db:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status" db:"payment_status"`
	PaymentIntentID *string       `json:"payment_intent_id,omitempty" db:"payment_intent_id"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}

// DateFormat is the wire format for calendar dates.
const DateFormat = time.DateOnly

// ParseDate parses a YYYY-MM-DD wire date into UTC midnight. Calendar
// dates carry no time-of-day; parsing in UTC keeps comparisons free of
// timezone drift.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateFormat, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a valid YYYY-MM-DD date", ErrInvalidDateRange, value)
	}
	return t, nil
}

// ParseDateRange parses and validates a pickup/return pair. Return must
// be strictly after pickup; a same-day rental is pickup plus a next-day
// return.
func ParseDateRange(pickup, ret string) (time.Time, time.Time, error) {
	pickupDate, err := ParseDate(pickup)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	returnDate, err := ParseDate(ret)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !returnDate.After(pickupDate) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: return date must be after pickup date", ErrInvalidDateRange)
	}
	return pickupDate, returnDate, nil
}

// CheckAvailabilityRequest is the payload for the availability search.
type CheckAvailabilityRequest struct {
	Location   string `json:"location" binding:"required"`
	PickupDate string `json:"pickupDate" binding:"required"`
	ReturnDate string `json:"returnDate" binding:"required"`
}

// CreatePaymentIntentRequest is the payload for reserving a charge.
type CreatePaymentIntentRequest struct {
	CarID      string `json:"car" binding:"required"`
	PickupDate string `json:"pickupDate" binding:"required"`
	ReturnDate string `json:"returnDate" binding:"required"`
}

// ConfirmPaymentRequest is the payload for the client-reported payment
// success. Dates are re-validated server-side and the price is always
// recomputed; nothing money-related is trusted from the client.
type ConfirmPaymentRequest struct {
	CarID           string `json:"car" binding:"required"`
	PickupDate      string `json:"pickupDate" binding:"required"`
	ReturnDate      string `json:"returnDate" binding:"required"`
	PaymentIntentID string `json:"paymentIntentId" binding:"required"`
}

// ChangeStatusRequest is the payload for owner/admin status transitions.
type ChangeStatusRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
	Status    string `json:"status" binding:"required"`
}

// PaymentIntentResponse is returned by the intent issuer. PriceCents is
// the minor-unit amount actually reserved with the processor.
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
	PriceCents   int64  `json:"price"`
	Days         int64  `json:"days"`
}
