package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mssola/user_agent"
	"github.com/sirupsen/logrus"
	"github.com/wheelorent/car-rental-backend/internal/models"
)

// AuditStore persists audit entries.
type AuditStore interface {
	Create(audit *models.PaymentAudit) error
}

// AuditService writes the payment/login audit trail. Writes are
// best-effort: a failed audit insert is logged and swallowed so it can
// never fail the operation being audited.
type AuditService struct {
	store   AuditStore
	logger  *logrus.Logger
	enabled bool
}

// NewAuditService creates a new AuditService
func NewAuditService(store AuditStore, enabled bool, logger *logrus.Logger) *AuditService {
	return &AuditService{
		store:   store,
		logger:  logger,
		enabled: enabled,
	}
}

// Record persists a payment event entry.
func (s *AuditService) Record(entry *models.PaymentAudit) {
	if !s.enabled {
		return
	}
	if err := s.store.Create(entry); err != nil {
		s.logger.WithError(err).WithField("event_type", entry.EventType).Error("Failed to write audit entry")
	}
}

// RecordLogin writes a login event with client IP and parsed device info.
func (s *AuditService) RecordLogin(userID uuid.UUID, ipAddress, userAgent string) {
	entry := models.NewPaymentAudit(models.PaymentEventLogin, models.PaymentSourceUser).SetUser(userID)
	entry.IPAddress = ipAddress
	entry.UserAgent = userAgent
	entry.DeviceInfo = describeUserAgent(userAgent)
	s.Record(entry)
}

// describeUserAgent condenses a raw user agent into "browser/version on
// platform" for the audit table.
func describeUserAgent(raw string) string {
	if raw == "" {
		return "unknown"
	}
	ua := user_agent.New(raw)
	name, version := ua.Browser()
	platform := ua.Platform()
	if ua.Mobile() {
		platform = platform + " (mobile)"
	}
	if ua.Bot() {
		return fmt.Sprintf("bot: %s", name)
	}
	return fmt.Sprintf("%s/%s on %s", name, version, platform)
}
