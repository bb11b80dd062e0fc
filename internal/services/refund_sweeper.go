package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/wheelorent/car-rental-backend/internal/config"
	"github.com/wheelorent/car-rental-backend/internal/models"
)

// RefundSweeper reconciles abandoned payments: bookings a renter paid for
// but the owner never acted on before the pickup date. Each sweep cancels
// and refunds them. The sweep is stateless and idempotent; a booking that
// fails to refund stays pending and is retried on the next run, which is
// safe because refund calls are idempotent per intent.
type RefundSweeper struct {
	bookings  BookingStore
	processor PaymentProcessor
	auditor   PaymentAuditor
	logger    *logrus.Logger
	cron      *cron.Cron
	cfg       config.SweepConfig
	now       func() time.Time
}

// NewRefundSweeper creates a new RefundSweeper
func NewRefundSweeper(
	bookings BookingStore,
	processor PaymentProcessor,
	auditor PaymentAuditor,
	cfg config.SweepConfig,
	logger *logrus.Logger,
) *RefundSweeper {
	return &RefundSweeper{
		bookings:  bookings,
		processor: processor,
		auditor:   auditor,
		logger:    logger,
		cron:      cron.New(),
		cfg:       cfg,
		now:       time.Now,
	}
}

// Start schedules the sweep and runs one pass immediately to catch up
// after downtime.
func (s *RefundSweeper) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.CronSpec, func() { s.Sweep() }); err != nil {
		return fmt.Errorf("failed to schedule refund sweep: %w", err)
	}
	s.cron.Start()
	s.logger.WithField("schedule", s.cfg.CronSpec).Info("Refund sweeper started")

	go s.Sweep()
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (s *RefundSweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Refund sweeper stopped")
}

// Sweep processes one batch of abandoned bookings. Items are handled
// independently; one failure never aborts the rest of the batch.
func (s *RefundSweeper) Sweep() {
	start := s.now()

	stale, err := s.bookings.ListPendingPaidBefore(start, s.cfg.BatchSize)
	if err != nil {
		s.logger.WithError(err).Error("Refund sweep: failed to list abandoned bookings")
		return
	}
	if len(stale) == 0 {
		return
	}

	s.logger.WithField("count", len(stale)).Info("Refund sweep: processing abandoned bookings")

	refunded := 0
	for i := range stale {
		if err := s.refundAndCancel(&stale[i]); err != nil {
			s.logger.WithError(err).WithField("booking_id", stale[i].ID).Warn("Refund sweep: booking left pending for next sweep")
			continue
		}
		refunded++
	}

	s.logger.WithFields(logrus.Fields{
		"refunded": refunded,
		"failed":   len(stale) - refunded,
		"duration": s.now().Sub(start).String(),
	}).Info("Refund sweep finished")
}

func (s *RefundSweeper) refundAndCancel(booking *models.Booking) error {
	intentID := *booking.PaymentIntentID

	refund, err := s.processor.CreateRefund(intentID)
	if err != nil {
		s.audit(models.NewPaymentAudit(models.PaymentEventRefundFailed, models.PaymentSourceSweeper).
			SetBooking(booking.ID).SetIntent(intentID).SetError(err.Error()))
		return fmt.Errorf("%w: %v", models.ErrRefundFailed, err)
	}
	if !refund.Succeeded() {
		s.audit(models.NewPaymentAudit(models.PaymentEventRefundFailed, models.PaymentSourceSweeper).
			SetBooking(booking.ID).SetIntent(intentID).SetError("refund status: "+refund.Status))
		return models.ErrRefundFailed
	}

	if err := s.bookings.UpdateStatus(booking.ID, booking.Status, models.BookingStatusCancelled, models.PaymentStatusRefunded); err != nil {
		return err
	}

	s.audit(models.NewPaymentAudit(models.PaymentEventRefundCompleted, models.PaymentSourceSweeper).
		SetBooking(booking.ID).SetIntent(intentID).SetAmount(booking.PriceCents))

	s.logger.WithFields(logrus.Fields{
		"booking_id":  booking.ID,
		"pickup_date": booking.PickupDate.Format(models.DateFormat),
	}).Info("Abandoned booking cancelled and refunded")

	return nil
}

func (s *RefundSweeper) audit(entry *models.PaymentAudit) {
	if s.auditor != nil {
		s.auditor.Record(entry)
	}
}
