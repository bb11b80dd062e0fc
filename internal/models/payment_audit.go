package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentEventType represents the type of payment event
type PaymentEventType string

const (
	PaymentEventIntentCreated   PaymentEventType = "intent_created"
	PaymentEventConfirmSuccess  PaymentEventType = "confirm_success"
	PaymentEventConfirmFailed   PaymentEventType = "confirm_failed"
	PaymentEventRefundInitiated PaymentEventType = "refund_initiated"
	PaymentEventRefundCompleted PaymentEventType = "refund_completed"
	PaymentEventRefundFailed    PaymentEventType = "refund_failed"
	PaymentEventLogin           PaymentEventType = "login"
)

// PaymentEventSource identifies where the event originated
type PaymentEventSource string

const (
	PaymentSourceBackend PaymentEventSource = "backend"
	PaymentSourceSweeper PaymentEventSource = "sweeper"
	PaymentSourceUser    PaymentEventSource = "user"
)

// PaymentAudit is an immutable audit log entry for payment and login
// events. Rows are written best-effort; an audit failure never blocks the
// operation being audited.
type PaymentAudit struct {
	ID              uuid.UUID          `json:"id" db:"id"`
	BookingID       *uuid.UUID         `json:"booking_id,omitempty" db:"booking_id"`
	UserID          *uuid.UUID         `json:"user_id,omitempty" db:"user_id"`
	PaymentIntentID *string            `json:"payment_intent_id,omitempty" db:"payment_intent_id"`
	EventType       PaymentEventType   `json:"event_type" db:"event_type"`
	EventSource     PaymentEventSource `json:"event_source" db:"event_source"`
	AmountCents     *int64             `json:"amount_cents,omitempty" db:"amount_cents"`
	Currency        string             `json:"currency" db:"currency"`
	ErrorMessage    *string            `json:"error_message,omitempty" db:"error_message"`
	IPAddress       string             `json:"ip_address" db:"ip_address"`
	UserAgent       string             `json:"user_agent" db:"user_agent"`
	DeviceInfo      string             `json:"device_info" db:"device_info"`
	CreatedAt       time.Time          `json:"created_at" db:"created_at"`
}

// NewPaymentAudit creates an audit entry with the required fields set.
func NewPaymentAudit(eventType PaymentEventType, source PaymentEventSource) *PaymentAudit {
	return &PaymentAudit{
		ID:          uuid.New(),
		EventType:   eventType,
		EventSource: source,
		Currency:    "usd",
		CreatedAt:   time.Now(),
	}
}

// SetBooking attaches the booking id.
func (pa *PaymentAudit) SetBooking(bookingID uuid.UUID) *PaymentAudit {
	pa.BookingID = &bookingID
	return pa
}

// SetUser attaches the acting user id.
func (pa *PaymentAudit) SetUser(userID uuid.UUID) *PaymentAudit {
	pa.UserID = &userID
	return pa
}

// SetIntent attaches the external payment intent id.
func (pa *PaymentAudit) SetIntent(intentID string) *PaymentAudit {
	pa.PaymentIntentID = &intentID
	return pa
}

// SetAmount attaches the minor-unit amount involved.
func (pa *PaymentAudit) SetAmount(amountCents int64) *PaymentAudit {
	pa.AmountCents = &amountCents
	return pa
}

// SetError attaches a failure message.
func (pa *PaymentAudit) SetError(message string) *PaymentAudit {
	pa.ErrorMessage = &message
	return pa
}
