package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/wheelorent/car-rental-backend/internal/models"
)

// PaymentAuditRepository handles the immutable payment audit trail.
type PaymentAuditRepository struct {
	db DB
}

// NewPaymentAuditRepository creates a new PaymentAuditRepository
func NewPaymentAuditRepository(db DB) *PaymentAuditRepository {
	return &PaymentAuditRepository{db: db}
}

// Create inserts an audit entry. Entries are append-only; there are no
// update or delete operations.
func (r *PaymentAuditRepository) Create(audit *models.PaymentAudit) error {
	query := `
		INSERT INTO payment_audits (
			id, booking_id, user_id, payment_intent_id, event_type,
			event_source, amount_cents, currency, error_message,
			ip_address, user_agent, device_info, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(
		query,
		audit.ID, audit.BookingID, audit.UserID, audit.PaymentIntentID,
		audit.EventType, audit.EventSource, audit.AmountCents, audit.Currency,
		audit.ErrorMessage, audit.IPAddress, audit.UserAgent, audit.DeviceInfo,
		audit.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment audit: %w", err)
	}
	return nil
}

// ListByBooking retrieves the audit trail for a booking, oldest first.
func (r *PaymentAuditRepository) ListByBooking(bookingID uuid.UUID) ([]models.PaymentAudit, error) {
	query := `
		SELECT id, booking_id, user_id, payment_intent_id, event_type,
			   event_source, amount_cents, currency, error_message,
			   ip_address, user_agent, device_info, created_at
		FROM payment_audits
		WHERE booking_id = $1
		ORDER BY created_at
	`

	var audits []models.PaymentAudit
	if err := r.db.Select(&audits, query, bookingID); err != nil {
		return nil, fmt.Errorf("failed to list payment audits: %w", err)
	}
	return audits, nil
}
