package models

import "errors"

// Failure kinds the API distinguishes. Handlers classify these with
// errors.Is so each anticipated condition surfaces an actionable message
// instead of a generic failure.
var (
	// ErrInvalidDateRange covers malformed dates and return <= pickup.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrCarNotFound is returned when the requested car does not exist
	// or has been removed from the marketplace.
	ErrCarNotFound = errors.New("car not found")

	// ErrCarNotAvailable is the availability-conflict kind: the car is
	// already booked for an overlapping range, or the owner has unlisted it.
	ErrCarNotAvailable = errors.New("car not available")

	// ErrPaymentNotCompleted is returned when the payment processor does
	// not report the intent as succeeded at confirmation time.
	ErrPaymentNotCompleted = errors.New("payment not completed")

	// ErrRefundFailed is returned when a refund attempt fails; the booking
	// keeps its previous status so money and state never diverge.
	ErrRefundFailed = errors.New("refund failed, please retry")

	// ErrBookingNotFound is returned for unknown booking ids.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrNotBookingOwner is the authorization failure for status changes
	// attempted by anyone other than the booking's owner (or an admin).
	ErrNotBookingOwner = errors.New("not the booking owner")

	// ErrInvalidTransition is returned for any (from, to) status pair not
	// listed in the booking transition table.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrUserNotFound is returned for unknown user ids or emails.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when registering with an existing email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned on login with a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
